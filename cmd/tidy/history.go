package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tidy/internal/journal"
)

// historyCmd lists past runs from the journal, or the moves of one run
// when a run ID is given.
func historyCmd() *cobra.Command {
	var limit int
	var journalPath string

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past runs recorded in the journal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := journalPath
			if path == "" {
				path = journal.DefaultPath()
			}
			if _, err := os.Stat(path); err != nil {
				fmt.Fprintln(os.Stdout, "no runs recorded yet")
				return nil
			}

			jnl, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer jnl.Close()

			if len(args) == 1 {
				return printMoves(jnl, args[0])
			}
			return printRuns(jnl, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show")
	cmd.Flags().StringVar(&journalPath, "journal", "", "journal database file (default: XDG state dir)")
	return cmd
}

func printRuns(jnl *journal.Journal, limit int) error {
	runs, err := jnl.Runs(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "no runs recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tMODE\tSTATUS\tMOVES\tROOT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID[:8], r.Started.Format("2006-01-02 15:04"), r.Mode, r.Status, r.Moves, r.Root)
	}
	return w.Flush()
}

func printMoves(jnl *journal.Journal, prefix string) error {
	run, err := findRun(jnl, prefix)
	if err != nil {
		return err
	}

	moves, err := jnl.Moves(run.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "run %s (%s, %s, %s)\n",
		run.ID, run.Root, run.Mode, run.Status)
	for _, m := range moves {
		fmt.Fprintf(os.Stdout, "  %s -> %s\n", m.Src, m.Dst)
	}
	return nil
}

// findRun resolves a full or abbreviated run ID against recent runs.
func findRun(jnl *journal.Journal, prefix string) (journal.RunSummary, error) {
	runs, err := jnl.Runs(1000)
	if err != nil {
		return journal.RunSummary{}, err
	}

	var match *journal.RunSummary
	for i, r := range runs {
		if r.ID == prefix {
			return r, nil
		}
		if len(prefix) >= 4 && len(r.ID) >= len(prefix) && r.ID[:len(prefix)] == prefix {
			if match != nil {
				return journal.RunSummary{}, fmt.Errorf("run id %q is ambiguous", prefix)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return journal.RunSummary{}, fmt.Errorf("no run matching %q", prefix)
	}
	return *match, nil
}
