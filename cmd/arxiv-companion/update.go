package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DeadAt0m/arxiv-companion/internal/arxiv"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Re-fetch metadata for every record in the library",
	Long: `Update queries the arXiv API for every ID in the library and replaces
the stored metadata, picking up new versions, revised titles, and
corrected author lists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cmd)
		if err != nil {
			return err
		}
		if lib.Len() == 0 {
			fmt.Println("Library is empty, nothing to update.")
			return nil
		}

		client := arxiv.New(arxivConfig())
		records, err := client.Fetch(cmd.Context(), lib.IDs())
		if err != nil {
			return fmt.Errorf("fetching metadata: %w", err)
		}
		for _, r := range records {
			lib.Add(r)
		}

		if err := lib.Save(); err != nil {
			return err
		}
		fmt.Printf("Updated %d of %d records.\n", len(records), lib.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
