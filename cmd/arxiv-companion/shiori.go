package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DeadAt0m/arxiv-companion/internal/arxiv"
	"github.com/DeadAt0m/arxiv-companion/internal/library"
	"github.com/DeadAt0m/arxiv-companion/internal/reconcile"
	"github.com/DeadAt0m/arxiv-companion/internal/shiori"
	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

var shioriCmd = &cobra.Command{
	Use:   "shiori",
	Short: "Reconcile the library with a Shiori bookmark service",
	Long: `The shiori subcommands match bookmarks to library records by the arXiv
ID in the bookmark URL. All of them are idempotent: running the same
direction twice changes nothing the second time.

Connection settings come from flags, the config file (shiori.address,
shiori.username, shiori.password), or the .secrets/ directory
(shiori-address, shiori-username, shiori-password).`,
}

var shioriPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Add remote arXiv bookmarks to the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShiori(cmd, func(env shioriEnv) (reconcile.Result, error) {
			return reconcile.Pull(cmd.Context(), env.client, env.fetcher, env.lib, os.Stdout)
		}, true)
	},
}

var shioriPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Bookmark library records missing from the service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShiori(cmd, func(env shioriEnv) (reconcile.Result, error) {
			return reconcile.Push(cmd.Context(), env.client, env.lib, os.Stdout)
		}, false)
	},
}

var shioriPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete remote arXiv bookmarks that left the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShiori(cmd, func(env shioriEnv) (reconcile.Result, error) {
			return reconcile.Prune(cmd.Context(), env.client, env.lib, os.Stdout)
		}, false)
	},
}

var shioriSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull then push (and prune with --prune)",
	RunE: func(cmd *cobra.Command, args []string) error {
		prune, _ := cmd.Flags().GetBool("prune")
		return runShiori(cmd, func(env shioriEnv) (reconcile.Result, error) {
			return reconcile.Sync(cmd.Context(), env.client, env.fetcher, env.lib, prune, os.Stdout)
		}, true)
	},
}

func init() {
	shioriCmd.PersistentFlags().StringP("address", "a", "", "base URL of the Shiori instance")
	shioriCmd.PersistentFlags().StringP("user", "u", "", "Shiori username")
	shioriCmd.PersistentFlags().StringP("password", "p", "", "Shiori password")

	shioriSyncCmd.Flags().Bool("prune", false, "also delete stale remote bookmarks")

	shioriCmd.AddCommand(shioriPullCmd, shioriPushCmd, shioriPruneCmd, shioriSyncCmd)
	rootCmd.AddCommand(shioriCmd)
}

// shioriConfig resolves connection settings: flags beat the config
// file, which beats .secrets/.
func shioriConfig(cmd *cobra.Command) (types.ShioriConfig, error) {
	address, _ := cmd.Flags().GetString("address")
	user, _ := cmd.Flags().GetString("user")
	password, _ := cmd.Flags().GetString("password")

	cfg := types.ShioriConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		Address:  secretDefault("shiori-address", firstOf(address, viper.GetString("shiori.address"))),
		Username: secretDefault("shiori-username", firstOf(user, viper.GetString("shiori.username"))),
		Password: secretDefault("shiori-password", firstOf(password, viper.GetString("shiori.password"))),
	}

	if cfg.Address == "" {
		return cfg, fmt.Errorf("no Shiori address: pass --address, set shiori.address, or add .secrets/shiori-address")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return cfg, fmt.Errorf("missing Shiori credentials: pass --user/--password or add them to .secrets/")
	}
	return cfg, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// shioriEnv bundles what every reconciliation subcommand needs.
type shioriEnv struct {
	client  *shiori.Client
	fetcher *arxiv.Client
	lib     *library.Library
}

// runShiori logs in, loads the library, runs the pass, and saves the
// library when the pass may have changed it.
func runShiori(cmd *cobra.Command, pass func(shioriEnv) (reconcile.Result, error), save bool) error {
	cfg, err := shioriConfig(cmd)
	if err != nil {
		return err
	}

	lib, err := loadLibrary(cmd)
	if err != nil {
		return err
	}

	client := shiori.New(cfg)
	if err := client.Login(cmd.Context()); err != nil {
		return err
	}

	result, runErr := pass(shioriEnv{
		client:  client,
		fetcher: arxiv.New(arxivConfig()),
		lib:     lib,
	})

	if save && result.Added > 0 {
		if err := lib.Save(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Library saved: %d records\n", lib.Len())
	}
	if runErr != nil {
		return runErr
	}
	if result.HasFailures() {
		return fmt.Errorf("%d item(s) failed", result.Failed)
	}
	return nil
}
