package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/khoj-ai/khoj-sync/internal/client"
	"github.com/khoj-ai/khoj-sync/internal/client/sync"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the files a sync pass would upload or delete",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			cfg := configFromViper(verbose)
			if err := cfg.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			c, err := client.New(cfg)
			if err != nil {
				return err
			}

			plan, err := c.Plan(cmd.Context())
			if err != nil {
				return err
			}

			printPlan(plan)
			return nil
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().StringP("sync-dir", "d", "", "directory to sync")
	cmd.Flags().StringP("files-list", "f", "", "path to a file containing a list of files to sync (one per line)")
	cmd.Flags().StringP("api-key", "k", "", "API key for authentication with the Khoj server")

	return cmd
}

func printPlan(plan *sync.SyncPlan) {
	total := len(plan.Uploads) + len(plan.Deletes) + len(plan.Unchanged)
	fmt.Printf("Found %d total files (%d unchanged)\n", total, len(plan.Unchanged))

	if !plan.HasChanges() {
		fmt.Println("Total changes: 0")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Action", "Path", "Size", "Modified"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, path := range sortedPlanPaths(plan.Uploads) {
		meta := plan.Uploads[path]
		table.Append([]string{
			"upload",
			path,
			humanize.Bytes(uint64(meta.Size)),
			meta.LastModified.Format(time.RFC3339),
		})
	}
	for _, path := range sortedPlanPaths(plan.Deletes) {
		table.Append([]string{"delete", path, "-", "-"})
	}

	table.Render()
	fmt.Printf("Total changes: %d\n", len(plan.Uploads)+len(plan.Deletes))
}

func sortedPlanPaths(m map[string]*sync.FileMetadata) []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
