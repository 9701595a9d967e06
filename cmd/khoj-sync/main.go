package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/khoj-ai/khoj-sync/internal/client/config"
	"github.com/khoj-ai/khoj-sync/internal/utils"
	"github.com/khoj-ai/khoj-sync/internal/version"
)

var (
	home, _        = os.UserHomeDir()
	configFileName = "config"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
)

var logLevel = new(slog.LevelVar)

var rootCmd = &cobra.Command{
	Use:     "khoj-sync",
	Short:   "Sync local files to a Khoj document indexing server",
	Version: version.Detailed(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logLevel.Set(slog.LevelDebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "khoj-sync config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "tell me everything you do in excruciating detail")
}

func main() {
	logFile := config.DefaultLogFilePath
	if err := utils.EnsureParent(logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	// append-only log of every pass's actions
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	logLevel.Set(slog.LevelInfo)

	stdoutHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      logLevel,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	logger := slog.New(utils.NewMultiLogHandler(stdoutHandler, fileHandler))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig wires the config file, environment and the command's flags into
// viper. Flags win over env, env wins over the file.
func loadConfig(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(filepath.Join(home, ".khoj-sync"))
		viper.AddConfigPath(filepath.Join(home, ".config/khoj-sync"))
		viper.SetConfigName(configFileName)
		viper.SetConfigType("json")
	}

	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !enoent && !notFound {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	if f := cmd.Flags().Lookup("api-key"); f != nil {
		viper.BindPFlag("api_key", f)
	}
	if f := cmd.Flags().Lookup("sync-dir"); f != nil {
		viper.BindPFlag("sync_dir", f)
	}
	if f := cmd.Flags().Lookup("files-list"); f != nil {
		viper.BindPFlag("files_list", f)
	}

	viper.SetEnvPrefix("KHOJ_SYNC")
	viper.AutomaticEnv()

	return nil
}

// configFromViper assembles the runtime config after loadConfig has run.
func configFromViper(verbose bool) *config.Config {
	return &config.Config{
		ServerURL:    viper.GetString("server_url"),
		APIKey:       viper.GetString("api_key"),
		SyncDir:      viper.GetString("sync_dir"),
		Frequency:    viper.GetString("frequency"),
		MaxUploads:   viper.GetInt("max_uploads"),
		ExcludedDirs: viper.GetStringSlice("excluded_dirs"),
		FilesList:    viper.GetString("files_list"),
		Verbose:      verbose,
		Path:         viper.ConfigFileUsed(),
	}
}
