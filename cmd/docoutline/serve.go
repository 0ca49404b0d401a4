package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the docoutline HTTP API.

Endpoints:
  GET  /health             - health check (no auth)
  POST /api/outline        - outline an uploaded .docx and return the record
  POST /api/jobs           - queue an upload; the record is written to the output dir
  GET  /api/jobs/{id}      - job status
  GET  /api/documents      - processed documents (requires --ledger)
  GET  /api/stats          - processing latency

All /api routes require "Authorization: Bearer $DOCOUTLINE_API_KEY".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := v.BindPFlag(config.KeyPort, cmd.Flags().Lookup("port")); err != nil {
			return err
		}
		log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		cfg := config.Load(v)
		if err := cfg.ValidateServe(); err != nil {
			log.Error("invalid configuration", "error", err)
			return err
		}

		ctx := cmd.Context()

		w, closeWorker, err := newWorker(cfg, log)
		if err != nil {
			return err
		}
		defer closeWorker()

		orch := pipeline.NewOrchestrator(cfg, w, log)
		orch.Start(ctx)

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      api.NewServer(orch, log, cfg),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting docoutline", "port", cfg.Port, "style_mode", cfg.StyleMode, "output_dir", cfg.OutputDir)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			orch.Stop()
			if err != nil {
				log.Error("server error", "error", err)
			}
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
		orch.Stop()
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on (default 8090)")
}
