package main

import (
	"fmt"
	"os"

	"github.com/questfoundry/qf/internal/workspace"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show project metadata and workspace contents",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	project, err := workspace.LoadProject(projFile)
	if err != nil {
		return err
	}

	fmt.Printf("Project:  %s\n", project.Name)
	if project.Description != "" {
		fmt.Printf("About:    %s\n", project.Description)
	}
	fmt.Printf("Version:  %s\n", project.Version)
	fmt.Printf("Created:  %s\n", project.CreatedAt.Format("2006-01-02"))
	fmt.Println()

	if !workspace.Exists(cwd) {
		fmt.Printf("Workspace %s is missing. Restore it or re-run 'qf init'.\n", workspace.Dir)
		return nil
	}

	fmt.Println("Workspace artifacts:")
	for _, artifactType := range workspace.ArtifactTypes {
		fmt.Printf("  %-10s %d\n", artifactType, workspace.ArtifactCount(cwd, artifactType))
	}

	if seed, source, ok := workspace.ResolveSeed(cwd, ""); ok {
		fmt.Printf("\nStory seed (%s): %s\n", source, seed)
	}

	return nil
}
