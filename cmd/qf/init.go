package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/questfoundry/qf/internal/config"
	"github.com/questfoundry/qf/internal/workspace"
	"github.com/spf13/cobra"
)

var initFlags struct {
	description string
	global      bool
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a QuestFoundry project in the current directory",
	Long: `Create a QuestFoundry project in the current directory.

This writes a <name>.qfproj descriptor, lays out the .questfoundry workspace
(hot artifact directories, cache, sessions), and creates a project-local
qf.yml config with defaults. Use --global to write the config to the XDG
location instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initFlags.description, "description", "d", "", "Project description stored in the descriptor")
	initCmd.Flags().BoolVarP(&initFlags.global, "global", "g", false, "Write config to ~/.config/qf/qf.yml instead of the project directory")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	project, err := workspace.Init(cwd, args[0], initFlags.description)
	if err != nil {
		return fmt.Errorf("initializing project: %w", err)
	}

	cfg := &config.Config{
		DataDir:    filepath.Join(workspace.Dir, "state"),
		LogLevel:   "info",
		LogFile:    "",
		SeedPolicy: config.SeedPolicyStrict,
	}
	if initFlags.global {
		err = config.WriteGlobal(cfg)
	} else {
		err = config.WriteProject(cfg)
	}
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Project %q created.\n\n", project.Name)
	fmt.Printf("Workspace: %s\n", workspace.Dir)
	fmt.Println("Run 'qf run story-spark --seed \"...\"' to get started.")
	return nil
}
