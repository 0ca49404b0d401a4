package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Process every .docx in the input directory once",
	Long: `Process every .docx document in the input directory and write one
record per document to the output directory.

A document that cannot be read is logged and skipped; the rest of the
batch still runs.

Examples:
  docoutline run                          # ./documents_for_extract -> ./out_json
  docoutline run ./contracts -o ./toc     # explicit directories
  docoutline run --format yaml --mode named`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			v.Set(config.KeyInputDir, args[0])
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := textLogger()
		w, closeWorker, err := newWorker(cfg, log)
		if err != nil {
			return err
		}
		defer closeWorker()

		results, err := pipeline.NewBatch(w, cfg.WorkerCount, log).Run(cmd.Context(), cfg.InputDir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range results {
			switch r.Status {
			case pipeline.ResultProcessed:
				flag := ""
				if r.Record.PotentiallyDamage {
					flag = "  [potentially damaged]"
				}
				fmt.Fprintf(out, "%-10s %s -> %s (%d headings)%s\n", r.Status, r.Name, r.OutputPath, r.Record.Headings(), flag)
			case pipeline.ResultDuplicate:
				fmt.Fprintf(out, "%-10s %s (already at %s)\n", r.Status, r.Name, r.OutputPath)
			default:
				fmt.Fprintf(out, "%-10s %s: %v\n", r.Status, r.Name, r.Err)
			}
		}

		s := pipeline.Summarize(results)
		fmt.Fprintf(out, "\n%d processed, %d skipped, %d duplicate, %d potentially damaged\n",
			s.Processed, s.Skipped, s.Duplicate, s.Damaged)
		return cmd.Context().Err()
	},
}
