package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/questfoundry/qf/internal/catalog"
	"github.com/questfoundry/qf/internal/config"
	"github.com/questfoundry/qf/internal/history"
	"github.com/questfoundry/qf/internal/logger"
	"github.com/questfoundry/qf/internal/nats"
	"github.com/questfoundry/qf/internal/progress"
	"github.com/questfoundry/qf/internal/render"
	"github.com/questfoundry/qf/internal/showrunner"
	"github.com/questfoundry/qf/internal/workspace"
	"github.com/rs/xid"
	"github.com/spf13/cobra"
)

var runFlags struct {
	seed        string
	interactive bool
	dataDir     string
}

var runCmd = &cobra.Command{
	Use:   "run <loop>",
	Short: "Dispatch a production loop to the Showrunner",
	Long: `Dispatch a production loop to the Showrunner and track it to stability.

The loop argument accepts either the canonical ID (story-spark) or the
display name in any casing ("Story Spark"). The command must be run from a
project directory: one containing a *.qfproj descriptor and a .questfoundry
workspace created by 'qf init'.

Story Spark additionally needs a story seed, resolved from --seed, the
QF_SEED environment variable, or .questfoundry/seed.txt, in that order.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.seed, "seed", "s", "", "Story seed (overrides QF_SEED and the workspace seed file)")
	runCmd.Flags().BoolVarP(&runFlags.interactive, "interactive", "i", false, "Pause for showrunner decisions between iterations")
	runCmd.Flags().StringVar(&runFlags.dataDir, "data-dir", "", "Data directory for run history storage (overrides config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	// Preconditions run in a fixed order so the first failure is the one the
	// user sees: project descriptor, loop name, workspace, then seed.
	projFile, found := workspace.FindProjectFile(cwd)
	if !found {
		fmt.Fprintln(os.Stderr, "Error: No QuestFoundry project found in the current directory.")
		fmt.Fprintln(os.Stderr, "\nRun 'qf init <name>' to create one.")
		os.Exit(1)
	}

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading loop catalog: %w", err)
	}

	loopID, err := cat.Validate(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, render.UnknownLoop(args[0], cat))
		os.Exit(1)
	}
	loop, _ := cat.Get(loopID)

	if !workspace.Exists(cwd) {
		fmt.Fprintf(os.Stderr, "Error: Workspace directory %s is missing.\n", workspace.Dir)
		fmt.Fprintln(os.Stderr, "\nRun 'qf init <name>' in a fresh directory, or restore the workspace.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var seed string
	if loopID == "story-spark" {
		resolved, source, ok := workspace.ResolveSeed(cwd, runFlags.seed)
		if !ok {
			if cfg.SeedPolicy == config.SeedPolicyStrict {
				fmt.Fprintln(os.Stderr, "Error: Story Spark requires a story seed.")
				fmt.Fprintln(os.Stderr, "\nProvide one via --seed, the QF_SEED environment variable,")
				fmt.Fprintf(os.Stderr, "or a %s file.\n", filepath.Join(workspace.Dir, workspace.SeedFile))
				os.Exit(1)
			}
			fmt.Fprintln(os.Stderr, "Warning: no story seed found, the Showrunner will improvise one.")
			logger.Warn("Story Spark dispatched without a seed (seed_policy=warn)")
		} else {
			seed = resolved
			logger.Info("Using story seed from %s", source)
		}
	}

	if runFlags.interactive {
		fmt.Println("Interactive showrunner decisions are not available yet; running non-interactively.")
	}

	dataDir := cfg.DataDir
	if runFlags.dataDir != "" {
		dataDir = runFlags.dataDir
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
	runID := xid.New().String()
	logger.Info("Dispatching loop %s for project %s (run %s)", loopID, project, runID)

	fmt.Println(render.ExecutionPanel(loop))
	fmt.Println()

	tracker := progress.NewTracker(loop.DisplayName)
	if err := store.RunStart(ctx, project, runID, loopID, loop.DisplayName); err != nil {
		logger.Warn("Failed to record run start: %v", err)
	}

	executor := &showrunner.Simulated{
		Recorder:  store,
		StepDelay: showrunner.StepDelay,
		OnStep: func(step *progress.Step) {
			fmt.Println(render.StepLine(step))
		},
	}
	execErr := executor.Execute(ctx, tracker, showrunner.Request{
		Project:      project,
		RunID:        runID,
		LoopID:       loopID,
		Seed:         seed,
		WorkspaceDir: cwd,
	})

	if err := store.RunComplete(ctx, project, runID, tracker.Stabilized(), tracker.TotalDuration(), execErr != nil); err != nil {
		logger.Warn("Failed to record run completion: %v", err)
	}

	if execErr != nil {
		return fmt.Errorf("loop execution failed: %w", execErr)
	}

	summary := tracker.Summary()

	fmt.Print(render.IterationHistory(tracker))
	if metrics := render.EfficiencyMetrics(summary); metrics != "" {
		fmt.Println()
		fmt.Println(metrics)
	}
	fmt.Println()
	fmt.Println(render.StabilizationStatus(tracker))
	fmt.Println()
	fmt.Println(render.SummaryPanel(loop, summary))
	if next := render.NextAction(loopID); next != "" {
		fmt.Println()
		fmt.Println(next)
	}

	return nil
}
