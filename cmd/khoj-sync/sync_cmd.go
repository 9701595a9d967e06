package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/khoj-ai/khoj-sync/internal/client"
)

func init() {
	rootCmd.AddCommand(newSyncCmd())
}

func newSyncCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync local files to the Khoj server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			cfg := configFromViper(verbose)
			cfg.Once = once

			if err := cfg.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			c, err := client.New(cfg)
			if err != nil {
				return err
			}

			defer slog.Info("Bye!")
			return c.Start(cmd.Context())
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().BoolVar(&once, "once", false, "run sync only once, then exit")
	cmd.Flags().StringP("sync-dir", "d", "", "directory to sync")
	cmd.Flags().StringP("files-list", "f", "", "path to a file containing a list of files to sync (one per line)")
	cmd.Flags().StringP("api-key", "k", "", "API key for authentication with the Khoj server")

	return cmd
}
