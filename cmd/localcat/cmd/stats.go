package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and TM sizes for the project",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	e, err := loadEngine(cmd.Context(), log)
	if err != nil {
		return err
	}
	defer e.Close()

	terms, tmEntries := e.Stats()
	fmt.Printf("project:        %s\n", projectFile)
	fmt.Printf("glossary terms: %d\n", terms)
	fmt.Printf("tm entries:     %d\n", tmEntries)
	return nil
}
