package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/lehigh-university-libraries/wordcards/internal/batch"
	"github.com/lehigh-university-libraries/wordcards/internal/config"
	"github.com/lehigh-university-libraries/wordcards/internal/export"
	"github.com/lehigh-university-libraries/wordcards/internal/images"
	"github.com/lehigh-university-libraries/wordcards/internal/locale"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var output string
	var format string
	var lang string
	var provider string

	cmd := &cobra.Command{
		Use:   "analyze [flags] <image path or URL>...",
		Short: "Recognize English words in images and print them with translations",
		Long: `Sends every image to the configured vision model, merges the recognized words
(first occurrence wins, case-insensitive) and prints the resulting table.

Use --output to also export the list. The format follows --format, or the
extension of the output file.`,
		Example: `  # Analyze two local photos with Gemini
  wordcards analyze page1.jpg page2.png

  # Export the word list as CSV
  wordcards analyze --output vocabulary_cards.csv page1.jpg

  # Use a local Ollama model and export Parquet
  wordcards analyze --provider ollama -o words.parquet https://example.com/sign.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.Provider = provider
			}
			if lang != "" {
				cfg.Locale = lang
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			exportFormat, err := resolveFormat(format, output)
			if err != nil {
				return err
			}

			return runAnalyze(cmd, cfg, args, output, exportFormat)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the word list to this file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: csv, yaml or parquet (default from --output extension, else csv)")
	cmd.Flags().StringVar(&lang, "locale", "", "Language of labels and messages: en or zh-TW")
	cmd.Flags().StringVar(&provider, "provider", "", "Inference provider: gemini, openai or ollama")

	return cmd
}

func resolveFormat(format, output string) (export.Format, error) {
	if format != "" {
		return export.ParseFormat(format)
	}
	if output != "" {
		if f, err := export.ParseFormat(filepath.Ext(output)); err == nil {
			return f, nil
		}
	}
	return export.FormatCSV, nil
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config, args []string, output string, format export.Format) error {
	ctx := cmd.Context()
	text := locale.For(cfg.Locale)

	newController, err := newControllerFactory(cfg)
	if err != nil {
		return err
	}
	ctrl := newController(nil, text)

	fetcher := images.NewFetcher(cfg.MaxUploadBytes)
	selection, err := fetcher.LoadAll(ctx, args)
	if err != nil {
		return err
	}
	ctrl.SelectImages(selection)

	slog.Info("Analyzing images", "images", len(selection), "provider", cfg.Provider)
	state, err := ctrl.StartAnalysis(ctx)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return errors.New(ctrl.Snapshot().Notice)
		}
		return err
	}

	out := cmd.OutOrStdout()
	switch state.Phase {
	case models.PhaseError:
		return errors.New(state.Message)
	case models.PhaseEmpty:
		fmt.Fprintln(out, state.Message)
		return nil
	}

	if err := printTable(out, state.Result, text); err != nil {
		return err
	}

	if output == "" {
		return nil
	}
	return writeExport(ctrl, output, format)
}

func printTable(w io.Writer, result models.AnalysisResult, text locale.Strings) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", text.HeaderEnglish, text.HeaderChinese)
	for _, e := range result {
		fmt.Fprintf(tw, "%s\t%s\n", e.EnglishWord, e.ChineseTranslation)
	}
	return tw.Flush()
}

func writeExport(ctrl *batch.Controller, output string, format export.Format) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := ctrl.Export(f, format); err != nil {
		f.Close()
		_ = os.Remove(output)
		return fmt.Errorf("failed to export word list: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	slog.Info("Word list exported", "path", output, "format", format)
	return nil
}
