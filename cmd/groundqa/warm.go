package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"groundqa/internal/cliui"
	"groundqa/internal/corpus"
)

const warmLongDesc string = `Load the corpus, compute missing embeddings and print a report.

Nothing is written back to the corpus files; the report shows which records
were rejected and which embeddings failed.`

const warmShortDesc string = "Load and embed the corpus"

func NewWarmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm",
		Short: warmShortDesc,
		Long:  warmLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cp, err := a.service.Warm(cmd.Context())
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), a.cfg.Corpus.Dir, cp, a.cfg.Corpus.MinDimension)
			return nil
		},
	}

	return cmd
}

func printReport(w io.Writer, dir string, cp *corpus.Corpus, minDimension int) {
	rep := cp.Report
	fmt.Fprintf(w, "\n%s %s\n\n", cliui.HeaderStyle.Render("Corpus:"), cliui.AccentStyle.Render(dir))
	if rep.SourceMissing {
		fmt.Fprintf(w, "  %s\n", cliui.ErrorStyle.Render("directory does not exist"))
		return
	}
	fmt.Fprintf(w, "  %-12s %d\n", "entries", rep.Entries)
	fmt.Fprintf(w, "  %-12s %d\n", "loaded", rep.Loaded)
	fmt.Fprintf(w, "  %-12s %d\n", "preembedded", rep.Preembedded)
	fmt.Fprintf(w, "  %-12s %d\n", "embedded", rep.Embedded)
	fmt.Fprintf(w, "  %-12s %d\n", "usable", cp.Usable(minDimension))

	if len(rep.Rejected) > 0 {
		fmt.Fprintf(w, "\n  %s\n", cliui.HeaderStyle.Render("Rejected"))
		for _, r := range rep.Rejected {
			fmt.Fprintf(w, "  %s %s\n", cliui.DimStyle.Render(r.Entry), cliui.ErrorStyle.Render(r.Err.Error()))
		}
	}
	if failed := rep.Failed(); len(failed) > 0 {
		fmt.Fprintf(w, "\n  %s\n", cliui.HeaderStyle.Render("Embedding failed"))
		for _, f := range failed {
			fmt.Fprintf(w, "  %s %s\n", cliui.DimStyle.Render(f.DocumentID), cliui.ErrorStyle.Render(f.Err.Error()))
		}
	}
	fmt.Fprintln(w)
}
