// Package report renders a prune plan for human review.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mkomon/pruner/internal/prune"
)

// HumanSize converts a byte count into a human-friendly string.
func HumanSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.2f kB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB", float64(size)/(1024*1024*1024))
	}
}

// Render writes the full plan: one table per backup set, parse failures,
// size warnings and a summary. Decisions arrive already ordered by group,
// then newest first.
func Render(out io.Writer, plan prune.Plan) {
	group := ""
	var tw *tabwriter.Writer

	for _, d := range plan.Decisions {
		if d.Entry.Group != group {
			if tw != nil {
				_ = tw.Flush()
			}
			group = d.Entry.Group
			fmt.Fprintf(out, "\nBackup set %q:\n", group)
			tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "  FILE\tDATE\tSIZE\tACTION\tREASON")
		}
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			d.Entry.Name,
			d.Entry.Date.Format("2006-01-02"),
			HumanSize(d.Entry.File.Size),
			d.Action,
			d.Reason,
		)
	}
	if tw != nil {
		_ = tw.Flush()
	}

	if len(plan.Failures) > 0 {
		fmt.Fprintf(out, "\nFiles without a valid date stamp (left untouched):\n")
		for _, f := range plan.Failures {
			fmt.Fprintf(out, "  %s (%s)\n", f.Name, f.Reason)
		}
	}

	for _, f := range plan.Undersized {
		fmt.Fprintf(out, "\nWarning: %s is only %s, indicating a potentially failing backup!\n",
			f.Path, HumanSize(f.Size))
	}

	prunable := plan.Prunable()
	fmt.Fprintf(out, "\n%d file(s) scanned, %d to keep, %d to delete.\n",
		len(plan.Decisions), plan.Kept(), len(prunable))
}

// RenderPrunable lists just the deletion candidates, the way the final
// confirmation shows them.
func RenderPrunable(out io.Writer, plan prune.Plan) {
	prunable := plan.Prunable()
	if len(prunable) == 0 {
		fmt.Fprintln(out, "[no files]")
		return
	}
	for _, d := range prunable {
		fmt.Fprintln(out, d.Entry.Name)
	}
}
