package main

import (
	"fmt"

	"github.com/questfoundry/qf/internal/catalog"
	"github.com/questfoundry/qf/internal/render"
	"github.com/spf13/cobra"
)

var loopsCmd = &cobra.Command{
	Use:   "loops",
	Short: "List the production loop catalog",
	Long: `List every production loop qf can dispatch, grouped by category.

Loops are referenced by canonical ID (story-spark) or display name
("Story Spark", any casing) when running 'qf run'.`,
	RunE: runLoops,
}

func runLoops(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading loop catalog: %w", err)
	}
	fmt.Print(render.CatalogListing(cat))
	return nil
}
