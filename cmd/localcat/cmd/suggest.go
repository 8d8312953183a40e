package cmd

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/corey/localcat/internal/ports"
)

var suggestJSON bool

var suggestCmd = &cobra.Command{
	Use:   "suggest [text]",
	Short: "Show glossary terms and TM matches for a source segment",
	Long:  "Queries the loaded project context for one segment. With no argument, reads segments from stdin, one per line.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	e, err := loadEngine(cmd.Context(), log)
	if err != nil {
		return err
	}
	defer e.Close()

	query := func(text string) error {
		unit := ports.SourceUnit{ID: uuid.NewString(), Text: text}
		sug, err := e.GetSuggestions(cmd.Context(), unit)
		if err != nil {
			return err
		}
		if suggestJSON {
			return json.NewEncoder(os.Stdout).Encode(sug)
		}
		printSuggestions(text, sug)
		return nil
	}

	if len(args) == 1 {
		return query(args[0])
	}

	// Interactive mode: one segment per stdin line.
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := query(text); err != nil {
			return err
		}
	}
	return sc.Err()
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "emit suggestions as JSON")
}
