package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeadAt0m/arxiv-companion/internal/fetch"
	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download PDFs for every record in the library",
	Long: `Download saves each record's PDF into the target directory, named
"[<id>v<ver>] <authors> <title>.pdf". PDFs already on disk at the same
version are skipped unless --force is given.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringP("dir", "s", "", "directory PDFs are saved into (required)")
	downloadCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	downloadCmd.Flags().Bool("force", false, "re-download PDFs that already exist")
	downloadCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(cmd)
	if err != nil {
		return err
	}
	if lib.Len() == 0 {
		fmt.Println("Library is empty, nothing to download.")
		return nil
	}

	dir, _ := cmd.Flags().GetString("dir")
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	force, _ := cmd.Flags().GetBool("force")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		Dir:           dir,
		DownloadDelay: delay,
		SkipExisting:  !force,
	}

	client := &http.Client{Timeout: cfg.Timeout}
	result, err := fetch.Batch(cmd.Context(), client, lib.Records(), cfg, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d download(s) failed: %v", result.Failed, result.FailedIDs)
	}
	return nil
}
