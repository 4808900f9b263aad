package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/questfoundry/qf/internal/catalog"
	"github.com/questfoundry/qf/internal/progress"
)

// FormatDuration formats a duration as "2m 34s" or "45s".
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	minutes := total / 60
	secs := total % 60

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// CatalogListing renders all loops grouped by category, with a usage hint.
func CatalogListing(c *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styleHeader.Render("Available QuestFoundry Loops"))
	b.WriteString("\n\n")

	for _, cat := range catalog.Categories {
		loops := c.ByCategory(cat)
		if len(loops) == 0 {
			continue
		}
		b.WriteString(styleCategory.Render(string(cat) + ":"))
		b.WriteString("\n")
		for _, l := range loops {
			b.WriteString(fmt.Sprintf("  %s (%s) - %s\n",
				styleLoopID.Render(fmt.Sprintf("%-20s", l.ID)), l.Abbrev, l.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString(styleDim.Render("Run a loop with:") + " " + styleSuccess.Render("qf run <loop-name>") + "\n")
	return b.String()
}

// UnknownLoop renders the error message and full catalog listing shown when
// a loop name matches nothing.
func UnknownLoop(input string, c *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(styleError.Render(fmt.Sprintf("Error: Unknown loop %q", input)))
	b.WriteString("\n\n")
	b.WriteString(styleHeader.Render("Available loops:"))
	b.WriteString("\n")
	for _, l := range c.Loops() {
		b.WriteString(fmt.Sprintf("  • %s (%s) - %s\n", l.DisplayName, l.ID, l.Description))
	}
	return b.String()
}

// ExecutionPanel renders the header panel shown before a loop runs.
func ExecutionPanel(loop catalog.Loop) string {
	body := styleHeader.Render(loop.DisplayName) + "\n" + styleDim.Render(loop.Description)
	title := fmt.Sprintf("Loop Execution - %s", loop.Abbrev)
	return styleBold.Render(title) + "\n" + stylePanel.Render(body)
}

// StepLine renders one finished or running step for live output.
func StepLine(step *progress.Step) string {
	var icon, status string
	switch step.Status() {
	case progress.StatusBlocked:
		icon = styleError.Render("✗")
		status = styleError.Render("BLOCKED")
	case progress.StatusCompleted:
		if step.IsRevision {
			icon = styleSuccess.Render("↻")
		} else {
			icon = styleSuccess.Render("✓")
		}
		status = ""
	default:
		icon = styleWarning.Render("→")
		status = ""
	}

	line := icon + " " + step.Name
	if step.IsRevision {
		line += styleWarning.Render(" (revision)")
	}
	if step.Agent != "" {
		line += " " + styleDim.Render("("+step.Agent+")")
	}
	if d := step.Duration(); d > 0 {
		line += " " + styleDim.Render("("+FormatDuration(d)+")")
	}
	if status != "" {
		line += " " + status
	}

	if step.Blocked && len(step.BlockingIssues) > 0 {
		line += "\n" + styleError.Render("  Issues:")
		for _, issue := range step.BlockingIssues {
			line += "\n" + styleError.Render("    - "+issue)
		}
	}
	return line
}

// IterationHistory renders the full per-iteration breakdown. Empty for
// single-iteration runs, which need no breakdown.
func IterationHistory(t *progress.Tracker) string {
	if len(t.Iterations()) == 0 || !t.IsMultiIteration() {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styleHeader.Render("Iteration Summary"))
	b.WriteString("\n")

	for _, it := range t.Iterations() {
		title := fmt.Sprintf("Iteration %d", it.Number)
		if d := it.Duration(); d > 0 {
			title += fmt.Sprintf(" (%s)", FormatDuration(d))
		}
		separator := strings.Repeat("━", 60)
		b.WriteString("\n" + styleDim.Render(separator) + "\n")
		b.WriteString(styleBold.Render(title) + "\n")
		b.WriteString(styleDim.Render(separator) + "\n\n")

		for _, step := range it.Steps {
			b.WriteString(StepLine(step))
			b.WriteString("\n")
		}

		b.WriteString("\n" + iterationSummaryPanel(it) + "\n")
	}
	return b.String()
}

func iterationSummaryPanel(it *progress.Iteration) string {
	var lines []string

	counts := styleSuccess.Render(fmt.Sprintf("Steps: %d completed", it.CompletedSteps()))
	if n := it.BlockedSteps(); n > 0 {
		counts += styleError.Render(fmt.Sprintf(" | %d blocked", n))
	}
	if n := it.RevisedSteps(); n > 0 {
		counts += styleWarning.Render(fmt.Sprintf(" | %d revisions", n))
	}
	lines = append(lines, counts)

	switch {
	case it.Stabilized:
		lines = append(lines, styleBold.Render("Status: ")+styleSuccess.Render("Stabilized"))
	case it.BlockedSteps() > 0:
		lines = append(lines, styleBold.Render("Status: ")+styleError.Render("Blocked"))
	default:
		lines = append(lines, styleBold.Render("Status: ")+styleWarning.Render("In Progress"))
	}

	if it.ShowrunnerDecision != "" {
		lines = append(lines, "", styleDim.Render("Showrunner decision:\n"+it.ShowrunnerDecision))
	}

	return stylePanel.Render(strings.Join(lines, "\n"))
}

// EfficiencyMetrics renders the step-reuse panel. Empty unless the run
// needed at least two iterations.
func EfficiencyMetrics(s progress.Summary) string {
	if !s.IsMultiIteration || s.IterationCount < 2 {
		return ""
	}

	revised := s.TotalRevisedSteps()
	reused := s.TotalSteps - revised

	var b strings.Builder
	b.WriteString(styleHeader.Render("Efficiency Metrics") + "\n\n")
	b.WriteString(fmt.Sprintf("Total step executions: %d\n", s.TotalSteps))
	b.WriteString(styleWarning.Render(fmt.Sprintf("Step revisions: %d", revised)) + "\n")
	b.WriteString(styleSuccess.Render(fmt.Sprintf("Step reuse: %d (%.0f%%)", reused, s.ReuseEfficiency())) + "\n")
	b.WriteString(styleDim.Render("Total duration: " + FormatDuration(time.Duration(s.TotalDuration*float64(time.Second)))))

	return stylePanel.Render(b.String())
}

// StabilizationStatus renders the final stabilization line for a run.
func StabilizationStatus(t *progress.Tracker) string {
	n := len(t.Iterations())
	if t.Stabilized() {
		word := "iterations"
		if n == 1 {
			word = "iteration"
		}
		return styleSuccess.Render(fmt.Sprintf("✓ Loop stabilized in %d %s", n, word))
	}
	if n > 1 {
		return styleWarning.Render(fmt.Sprintf("⚠ Loop in progress (%d iterations so far)", n))
	}
	return styleWarning.Render("⚠ Loop did not stabilize")
}

// SummaryPanel renders the closing execution summary for a run.
func SummaryPanel(loop catalog.Loop, s progress.Summary) string {
	body := styleHeader.Render(loop.DisplayName) + styleDim.Render(" ("+loop.Abbrev+")") + "\n" +
		styleSuccess.Render("Completed in "+FormatDuration(time.Duration(s.TotalDuration*float64(time.Second)))) + "\n" +
		fmt.Sprintf("Iterations: %d | Steps: %d", s.IterationCount, s.TotalSteps)
	return styleBold.Render("Loop Execution Summary") + "\n" + stylePanel.Render(body)
}

// NextAction renders the suggested-next-step panel, or empty when the loop
// has no successor.
func NextAction(loopID string) string {
	suggestion, ok := SuggestNextLoop(loopID)
	if !ok {
		return ""
	}
	body := styleBold.Render("Suggested next step:") + "\n" +
		"Run " + styleSuccess.Render("qf run "+suggestion)
	return styleBold.Render("Next Action") + "\n" + styleWarnPanel.Render(body)
}
