package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DeadAt0m/arxiv-companion/internal/ident"
	"github.com/DeadAt0m/arxiv-companion/internal/index"
	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over stored titles, authors, and abstracts",
	Long: `Search matches an FTS5 query against the local index. The index is a
derived file; --reindex rebuilds it from the library first, which is
needed after add, update, or pull.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("index", "", "index database file (default arxiv_index.db)")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results")
	searchCmd.Flags().Bool("reindex", false, "rebuild the index from the library before searching")

	rootCmd.AddCommand(searchCmd)
}

func indexPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("index"); path != "" {
		return path
	}
	if path := viper.GetString("index.path"); path != "" {
		return path
	}
	return "arxiv_index.db"
}

func runSearch(cmd *cobra.Command, args []string) error {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	reindex, _ := cmd.Flags().GetBool("reindex")

	ix, err := index.Open(types.IndexConfig{Path: indexPath(cmd), MaxResults: maxResults})
	if err != nil {
		return err
	}
	defer ix.Close()

	if reindex {
		lib, err := loadLibrary(cmd)
		if err != nil {
			return err
		}
		if err := ix.Reindex(cmd.Context(), lib.Records()); err != nil {
			return fmt.Errorf("rebuilding index: %w", err)
		}
		fmt.Printf("Indexed %d records.\n", lib.Len())
	}

	hits, err := ix.Search(cmd.Context(), args[0], maxResults)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, h := range hits {
		fmt.Printf("%s  %s\n    %s (%s)\n",
			h.ID, h.Title, ident.PrettyAuthors(h.Authors), h.Published.Format("2006-01-02"))
	}
	return nil
}
