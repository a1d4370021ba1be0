// Package report renders an Organization Plan as a grouped listing and
// exports it as structured JSON.
package report

import (
	"fmt"
	"io"

	"tidy/internal/scan"
	"tidy/internal/stats"
)

// Render writes a grouped listing of the plan with per-group counts,
// byte totals, and the percentage of all planned files. When verbose,
// every file is listed under its group.
func Render(w io.Writer, plan *scan.Plan, verbose bool) {
	if plan.TotalFiles == 0 {
		fmt.Fprintln(w, "nothing to organize")
		return
	}

	fmt.Fprintf(w, "organization plan (%s mode, %d files)\n", plan.Mode, plan.TotalFiles)
	for _, g := range plan.Groups() {
		pct := float64(len(g.Files)) / float64(plan.TotalFiles) * 100
		fmt.Fprintf(w, "  %-28s %4d files  %5.1f%%  %s\n",
			g.Key+"/", len(g.Files), pct, stats.FormatBytes(g.Bytes))
		if verbose {
			for _, rec := range g.Files {
				fmt.Fprintf(w, "      %s  %s\n", rec.Name, stats.FormatBytes(rec.Size))
			}
		}
	}
}
