package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/wordcards/internal/config"
	"github.com/lehigh-university-libraries/wordcards/internal/handlers"
	"github.com/lehigh-university-libraries/wordcards/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the word card interface",
		Long: `Starts the Wordcards web interface on the specified port.

The web interface lets you select images, run the word recognition and
download the resulting vocabulary list. Each browser session keeps its own
selection and result.`,
		Example: `  # Start server on default port 8888
  wordcards serve

  # Start server on custom port
  wordcards serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}

func newServerMux(cfg *config.Config) (*http.ServeMux, error) {
	newController, err := newControllerFactory(cfg)
	if err != nil {
		return nil, err
	}

	handler := handlers.New(newController, handlers.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		Locale:         cfg.Locale,
		ExportFilename: cfg.ExportFilename,
	})

	metrics.Register()

	// Set up routes
	mux := handler.Routes()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux, nil
}

func serve(ctx context.Context, cfg *config.Config, port string) error {
	mux, err := newServerMux(cfg)
	if err != nil {
		return err
	}

	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Wordcards interface available", "addr", addr, "url", "http://localhost"+addr, "provider", cfg.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation (Ctrl+C) or server error
	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
		// Give server 5 seconds to shut down gracefully
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
