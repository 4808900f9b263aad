package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/questfoundry/qf/internal/config"
	"github.com/questfoundry/qf/internal/history"
	"github.com/questfoundry/qf/internal/nats"
	"github.com/questfoundry/qf/internal/render"
	"github.com/questfoundry/qf/internal/workspace"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	tree    bool
	dataDir string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past loop runs for this project",
	Long: `Show past loop runs for this project.

History is reconstructed from the event log kept in the embedded JetStream
store. The default view is a flat table; --tree expands each run into its
iteration breakdown.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVarP(&historyFlags.tree, "tree", "t", false, "Show per-iteration breakdown for each run")
	historyCmd.Flags().StringVar(&historyFlags.dataDir, "data-dir", "", "Data directory for run history storage (overrides config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	projFile, found := workspace.FindProjectFile(cwd)
	if !found {
		fmt.Fprintln(os.Stderr, "Error: No QuestFoundry project found in the current directory.")
		fmt.Fprintln(os.Stderr, "\nRun 'qf init <name>' to create one.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	dataDir := cfg.DataDir
	if historyFlags.dataDir != "" {
		dataDir = historyFlags.dataDir
	}

	ns, err := nats.StartEmbedded(dataDir)
	if err != nil {
		return fmt.Errorf("starting history store: %w", err)
	}
	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return fmt.Errorf("connecting to history store: %w", err)
	}
	defer func() {
		if err := nats.Shutdown(nc, ns); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	js, err := nats.CreateJetStream(nc)
	if err != nil {
		return fmt.Errorf("creating JetStream context: %w", err)
	}

	ctx := cmd.Context()
	stream, err := nats.SetupStream(ctx, js)
	if err != nil {
		return fmt.Errorf("setting up event stream: %w", err)
	}
	store := history.NewStore(js, stream)

	project := strings.TrimSuffix(filepath.Base(projFile), workspace.ProjectExt)
	state, err := store.LoadState(ctx, project)
	if err != nil {
		return fmt.Errorf("loading run history: %w", err)
	}

	if historyFlags.tree {
		fmt.Println(render.HistoryTree(state))
	} else {
		fmt.Println(render.HistoryTable(state))
	}
	return nil
}
