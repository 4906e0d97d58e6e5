package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a snapshot of the library to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cmd)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		if err := lib.Export(output, format); err != nil {
			return err
		}
		fmt.Printf("Exported %d records to %s\n", lib.Len(), output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file path (required)")
	exportCmd.Flags().String("format", "yaml", "output format: yaml or json")
	exportCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(exportCmd)
}
