package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/ledger"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/store"
)

var (
	cfgFile string
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "docoutline",
	Short: "Extract table-of-contents outlines from .docx documents",
	Long: `docoutline reads the headings inside the structured (content control)
regions of .docx documents, builds a numbered three-level outline and
writes it next to the document's plain text as one JSON or YAML record.

Outlines whose heading levels arrive out of order are still built, but
the record is flagged with potentially_damage=true.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		v, err = config.New(cfgFile)
		if err != nil {
			return err
		}
		flags := cmd.Root().PersistentFlags()
		for key, name := range map[string]string{
			config.KeyInputDir:     "input",
			config.KeyOutputDir:    "output",
			config.KeyOutputFormat: "format",
			config.KeyStyleMode:    "mode",
			config.KeyWorkers:      "workers",
			config.KeyLedgerPath:   "ledger",
		} {
			if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./docoutline.yaml)")
	flags.StringP("input", "i", "", "directory holding the .docx documents")
	flags.StringP("output", "o", "", "directory the records are written to")
	flags.String("format", "", "output format: json or yaml")
	flags.String("mode", "", "heading styles: numeric (content controls) or named (Heading1..3)")
	flags.IntP("workers", "w", 0, "documents processed in parallel")
	flags.String("ledger", "", "sqlite ledger path; enables duplicate detection")

	rootCmd.AddCommand(runCmd, watchCmd, serveCmd, versionCmd)
}

// loadConfig validates the merged configuration for commands that process
// documents.
func loadConfig() (config.Config, error) {
	cfg := config.Load(v)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func textLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// newWorker builds the per-document pipeline from cfg. The returned close
// function releases the ledger, if one was opened.
func newWorker(cfg config.Config, log *slog.Logger) (*pipeline.Worker, func(), error) {
	var l *ledger.Ledger
	if cfg.LedgerPath != "" {
		var err error
		l, err = ledger.Open(cfg.LedgerPath)
		if err != nil {
			return nil, nil, err
		}
	}

	w := pipeline.NewWorker(pipeline.WorkerOptions{
		Mode:           cfg.Mode(),
		Writer:         store.NewWriter(cfg.OutputDir, cfg.Format()),
		Ledger:         l,
		SkipDuplicates: cfg.SkipDuplicates,
		Logger:         log,
	})

	closeFn := func() {
		if l != nil {
			if err := l.Close(); err != nil {
				log.Warn("closing ledger", "error", err)
			}
		}
	}
	return w, closeFn, nil
}
