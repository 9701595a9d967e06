package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khoj-ai/khoj-sync/internal/client/config"
	"github.com/khoj-ai/khoj-sync/internal/utils"
)

func init() {
	rootCmd.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	var apiKey string
	var syncDir string

	cmd := &cobra.Command{
		Use:   "init <server>",
		Short: "Set up syncing to a Khoj server",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			configPath, _ := cmd.Flags().GetString("config")

			// never overwrite an existing config
			if cfg, err := config.Load(configPath); err == nil {
				fmt.Println("khoj-sync already initialized")
				fmt.Printf("Config Path: %s\n", green(cfg.Path))
				fmt.Printf("Server:      %s\n", cyan(cfg.ServerURL))
				fmt.Printf("Sync Dir:    %s\n", cyan(cfg.SyncDir))
				os.Exit(0)
			}

			serverURL := args[0]
			if err := config.ValidateServerURL(serverURL); err != nil {
				fmt.Printf("%s: %s\n", red("ERROR"), err)
				os.Exit(1)
			}

			if syncDir == "" {
				syncDir = "."
			}
			resolved, err := utils.ResolvePath(syncDir)
			if err != nil {
				fmt.Printf("%s: %s\n", red("ERROR"), err)
				os.Exit(1)
			}

			cfg := &config.Config{
				ServerURL:    serverURL,
				APIKey:       apiKey,
				SyncDir:      resolved,
				Frequency:    config.DefaultFrequency,
				MaxUploads:   config.DefaultMaxUploads,
				ExcludedDirs: config.DefaultExcludedDirs,
			}

			if err := cfg.Save(configPath); err != nil {
				fmt.Printf("%s: %s\n", red("ERROR"), err)
				os.Exit(1)
			}

			fmt.Println("khoj-sync initialized")
			fmt.Printf("Config Path: %s\n", green(cfg.Path))
			fmt.Printf("Server:      %s\n", cyan(cfg.ServerURL))
			fmt.Printf("Sync Dir:    %s\n", cyan(cfg.SyncDir))
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "API key for authentication with the Khoj server")
	cmd.Flags().StringVarP(&syncDir, "sync-dir", "d", "", "directory to sync (default: current directory)")

	return cmd
}
