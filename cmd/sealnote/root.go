package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sealnote"
)

var (
	dirFlag    string
	configFlag string
	verbose    bool
	jsonLog    bool

	// Set by PersistentPreRunE.
	dataDir string
	logger  *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sealnote",
	Short: "An encrypted local notes vault",
	Long: `sealnote keeps notes encrypted at rest behind a master password.
Individual notes can carry their own password on top of it.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgPath := configFlag
		if cfgPath == "" {
			p, err := sealnote.DefaultConfigPath()
			if err == nil {
				cfgPath = p
			}
		}

		var cfg sealnote.FileConfig
		if cfgPath != "" {
			var err error
			cfg, err = sealnote.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
		}

		level, err := cfg.Level()
		if err != nil {
			return err
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
		if jsonLog || cfg.Format() == "json" {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		logger = slog.New(handler)
		slog.SetDefault(logger)

		dataDir, err = sealnote.ResolveDataDir(dirFlag, cfg)
		if err != nil {
			return fmt.Errorf("failed to resolve data directory: %w", err)
		}
		logger.Debug("using data directory", "path", dataDir, "config", cfgPath)
		return nil
	},
}

// Execute runs the command line with ctx, which is cancelled on SIGINT and
// SIGTERM.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "Data directory (default: $SEALNOTE_DIR or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Log as JSON")
}
