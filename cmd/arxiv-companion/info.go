package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show library statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cmd)
		if err != nil {
			return err
		}

		records := lib.Records()
		fmt.Printf("Library: %s\n", lib.Path())
		fmt.Printf("Records: %d\n", len(records))
		if len(records) > 0 {
			fmt.Printf("Oldest:  %s (%s)\n", records[0].ID, records[0].Published.Format("2006-01-02"))
			last := records[len(records)-1]
			fmt.Printf("Newest:  %s (%s)\n", last.ID, last.Published.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
