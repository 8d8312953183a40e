package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/localcat/internal/engine"
)

var rootCmd = &cobra.Command{
	Use:   "localcat",
	Short: "localcat — local CAT matching engine",
	Long:  "Glossary term extraction and translation-memory lookup for a translation project, fully offline.",
}

var (
	projectFile string
	verbose     bool
)

// newLogger builds the process logger. Quiet by default so command output
// stays pipeable; --verbose turns on structured diagnostics.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return log
}

// loadEngine creates an engine and loads the project context named by
// --project. The caller owns Close.
func loadEngine(ctx context.Context, log *zap.Logger) (*engine.Engine, error) {
	e := engine.New(log)
	stats, err := e.LoadProjectContext(ctx, projectFile)
	if err != nil {
		return nil, err
	}
	if stats.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "warning: skipped %d malformed entries\n", stats.Skipped)
	}
	return e, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectFile, "project", "p", "project.yaml", "project context file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "structured diagnostic logging")
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
}
