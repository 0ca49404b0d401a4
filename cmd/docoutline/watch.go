package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process documents as they appear in the input directory",
	Long: `Watch the input directory and outline each .docx document once it has
been written. Files still being copied are retried until they open.

Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := v.BindPFlag(config.KeyWatchSettle, cmd.Flags().Lookup("settle")); err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
			return fmt.Errorf("create input dir: %w", err)
		}

		log := textLogger()
		w, closeWorker, err := newWorker(cfg, log)
		if err != nil {
			return err
		}
		defer closeWorker()

		watcher, err := pipeline.NewWatcher(cfg.InputDir, w, pipeline.WatchOptions{
			Settle:   cfg.WatchSettle,
			Attempts: cfg.WatchAttempts,
		}, log)
		if err != nil {
			return err
		}

		return watcher.Run(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().Duration("settle", 0, "quiet period after the last write before a file is processed")
}
