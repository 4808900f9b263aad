package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/questfoundry/qf/internal/history"
)

// HistoryTable renders past runs as a flat table, newest last.
func HistoryTable(state *history.State) string {
	if len(state.Runs) == 0 {
		return styleDim.Render("No runs recorded yet. Dispatch one with 'qf run <loop-name>'.")
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render("Run History - "+state.Project) + "\n\n")
	b.WriteString(styleBold.Render(fmt.Sprintf("%-22s %-20s %-6s %-6s %-10s %s",
		"STARTED", "LOOP", "ITERS", "STEPS", "DURATION", "STATUS")) + "\n")

	for _, run := range state.Runs {
		b.WriteString(fmt.Sprintf("%-22s %-20s %-6d %-6d %-10s %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.LoopName,
			len(run.Iterations),
			run.TotalSteps(),
			FormatDuration(time.Duration(run.Duration*float64(time.Second))),
			runStatus(run)))
	}
	return b.String()
}

// HistoryTree renders past runs with their per-iteration breakdown.
func HistoryTree(state *history.State) string {
	if len(state.Runs) == 0 {
		return styleDim.Render("No runs recorded yet. Dispatch one with 'qf run <loop-name>'.")
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render("Run History - "+state.Project) + "\n")

	for _, run := range state.Runs {
		b.WriteString("\n")
		b.WriteString(styleBold.Render(run.LoopName) +
			styleDim.Render(fmt.Sprintf("  %s  %s  ", run.StartedAt.Local().Format("2006-01-02 15:04"), run.ID)) +
			runStatus(run) + "\n")

		for i, it := range run.Iterations {
			branch := "├─"
			if i == len(run.Iterations)-1 {
				branch = "└─"
			}
			line := fmt.Sprintf("%s iteration %d: %d completed", branch, it.Number, it.CompletedSteps)
			if it.BlockedSteps > 0 {
				line += styleError.Render(fmt.Sprintf(", %d blocked", it.BlockedSteps))
			}
			if it.RevisedSteps > 0 {
				line += styleWarning.Render(fmt.Sprintf(", %d revised", it.RevisedSteps))
			}
			if it.Stabilized {
				line += " " + styleSuccess.Render("(stabilized)")
			}
			b.WriteString("  " + line + "\n")
			if it.Decision != "" {
				b.WriteString("  " + styleDim.Render("   decision: "+it.Decision) + "\n")
			}
		}
	}
	return b.String()
}

func runStatus(run *history.RunRecord) string {
	switch {
	case run.Failed:
		return styleError.Render("failed")
	case !run.Complete:
		return styleWarning.Render("incomplete")
	case run.Stabilized:
		return styleSuccess.Render("stabilized")
	default:
		return styleWarning.Render("unstable")
	}
}
