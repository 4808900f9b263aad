package main

import (
	"context"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/questfoundry/qf/internal/logger"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀█ █▀▀"
	logoText2 = "█▄█ █▀ "
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qf",
	Short: "AI-assisted creative writing pipeline for interactive fiction",
}

// renderLogo colors the block-letter logo.
func renderLogo() string {
	style1 := lipgloss.NewStyle().Foreground(lipgloss.Color("#89dceb"))
	style2 := lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7"))
	return strings.Join([]string{style1.Render(logoText1), style2.Render(logoText2)}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

qf is the command-line front door to the QuestFoundry pipeline. It dispatches
production loops (Story Spark, Hook Harvest, Gatecheck, ...) to the Showrunner,
tracks iterations and steps as each loop converges, and keeps a run history in
embedded NATS JetStream.

Start with 'qf init <name>' in an empty directory, then 'qf run story-spark'.`

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(loopsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
}
