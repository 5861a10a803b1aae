package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wordcards",
		Short: "Vocabulary card builder with LLM-powered word recognition",
		Long: `Wordcards extracts the prominent English words from images with a vision LLM,
pairs each with a Traditional Chinese translation and exports the list as
flashcard-ready CSV, YAML or Parquet.

It can be used as a one-shot CLI (analyze) or as a web interface (serve).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			logLevel := slog.LevelInfo
			if opts.verbose {
				logLevel = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file (default $CONFIG_PATH or ./wordcards.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}
