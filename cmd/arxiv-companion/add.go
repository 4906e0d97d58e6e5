package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeadAt0m/arxiv-companion/internal/arxiv"
	"github.com/DeadAt0m/arxiv-companion/internal/ident"
	"github.com/DeadAt0m/arxiv-companion/internal/importer"
	"github.com/DeadAt0m/arxiv-companion/internal/library"
)

var addCmd = &cobra.Command{
	Use:   "add [identifiers...]",
	Short: "Fetch metadata for arXiv IDs and add them to the library",
	Long: `Add parses arXiv identifiers (bare IDs, arxiv.org URLs), fetches their
metadata from the arXiv API, and stores them in the library. IDs can
also come from a plain-text file (--from-file) or a Pocket CSV export
(--pocket). Already-known IDs are skipped.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("from-file", "", "plain-text file of IDs")
	addCmd.Flags().String("sep", ",", "ID separator inside --from-file")
	addCmd.Flags().String("pocket", "", "CSV file exported from getpocket.com")

	rootCmd.AddCommand(addCmd)
}

// collectIDs merges IDs from args and the import flags, in that order.
func collectIDs(cmd *cobra.Command, args []string) ([]string, error) {
	var ids []string
	for _, arg := range args {
		id, _, ok := ident.Parse(arg)
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: %q is not an arXiv identifier\n", arg)
			continue
		}
		ids = append(ids, id)
	}

	if path, _ := cmd.Flags().GetString("from-file"); path != "" {
		sep, _ := cmd.Flags().GetString("sep")
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening ID file: %w", err)
		}
		fileIDs, err := importer.IDFile(f, sep)
		f.Close()
		if err != nil {
			return nil, err
		}
		ids = append(ids, fileIDs...)
	}

	if path, _ := cmd.Flags().GetString("pocket"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening Pocket export: %w", err)
		}
		pocketIDs, err := importer.PocketCSV(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		ids = append(ids, pocketIDs...)
	}

	return ids, nil
}

// addByID fetches metadata for the IDs not yet in the library, adds the
// results, and saves. Shared by add and the shiori pull path.
func addByID(lib *library.Library, ids []string, cmd *cobra.Command) error {
	var missing []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if lib.Has(id) || seen[id] {
			continue
		}
		seen[id] = true
		missing = append(missing, id)
	}

	if known := len(ids) - len(missing); known > 0 {
		fmt.Printf("%d entries already known\n", known)
	}
	if len(missing) == 0 {
		fmt.Println("Nothing to add.")
		return nil
	}
	fmt.Printf("Fetching metadata for %d entries...\n", len(missing))

	client := arxiv.New(arxivConfig())
	records, err := client.Fetch(cmd.Context(), missing)
	if err != nil {
		return fmt.Errorf("fetching metadata: %w", err)
	}

	fetched := make(map[string]bool, len(records))
	for _, r := range records {
		lib.Add(r)
		fetched[r.ID] = true
	}
	for _, id := range missing {
		if !fetched[id] {
			fmt.Fprintf(os.Stderr, "warning: no metadata returned for %s\n", id)
		}
	}

	if err := lib.Save(); err != nil {
		return err
	}
	fmt.Printf("Added %d records. Library now holds %d.\n", len(records), lib.Len())
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	ids, err := collectIDs(cmd, args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("provide arXiv IDs as arguments, or use --from-file / --pocket")
	}

	lib, err := loadLibrary(cmd)
	if err != nil {
		return err
	}
	return addByID(lib, ids, cmd)
}
