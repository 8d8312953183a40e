package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/localcat/internal/engine"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Validate and ingest the project context",
	Long:  "Reads the project file, ingests every glossary and TM corpus, and reports load counts. A dry run for the other commands.",
	RunE:  runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	e := engine.New(log)
	defer e.Close()

	stats, err := e.LoadProjectContext(cmd.Context(), projectFile)
	if err != nil {
		return err
	}

	terms, tmEntries := e.Stats()
	fmt.Printf("loaded %d entries (%d skipped)\n", stats.Loaded, stats.Skipped)
	fmt.Printf("glossary terms: %d\n", terms)
	fmt.Printf("tm entries:     %d\n", tmEntries)
	return nil
}
