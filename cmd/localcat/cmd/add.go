package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/corey/localcat/internal/ports"
)

var addCmd = &cobra.Command{
	Use:   "add <source> <translation>",
	Short: "Record a confirmed translation in the TM",
	Long:  "Appends a source/translation pair to the translation memory. With tm_store_path configured the entry is durable and survives reloads.",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	e, err := loadEngine(cmd.Context(), log)
	if err != nil {
		return err
	}
	defer e.Close()

	unit := ports.SourceUnit{ID: uuid.NewString(), Text: args[0]}
	if err := e.AddToTM(unit, args[1]); err != nil {
		return err
	}

	fmt.Printf("added: %s → %s\n", args[0], args[1])
	return nil
}
