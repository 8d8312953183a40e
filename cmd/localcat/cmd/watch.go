package cmd

import (
	"bufio"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/localcat/internal/adapters/fsnotify"
	"github.com/corey/localcat/internal/config"
	"github.com/corey/localcat/internal/ports"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Serve queries from stdin, reloading when project files change",
	Long:  "Loads the project context and answers one query per stdin line. Edits to the project file or any corpus trigger an atomic reload; in-flight queries finish on the old snapshot.",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := loadEngine(ctx, log)
	if err != nil {
		return err
	}
	defer e.Close()

	paths, err := watchedPaths(projectFile)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Stop()

	onChange := func(path string) {
		log.Info("project file changed, reloading", zap.String("path", path))
		if _, err := e.LoadProjectContext(ctx, projectFile); err != nil {
			// Keep serving the last good snapshot.
			log.Error("reload failed", zap.Error(err))
			return
		}
		// The project file may now name different corpora; re-resolve so
		// newly added files are watched too.
		paths, err := watchedPaths(projectFile)
		if err != nil {
			log.Error("re-resolving watch set", zap.Error(err))
			return
		}
		if err := w.Update(paths); err != nil {
			log.Error("updating watch set", zap.Error(err))
		}
	}
	if err := w.Watch(paths, onChange); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			unit := ports.SourceUnit{ID: uuid.NewString(), Text: text}
			sug, err := e.GetSuggestions(ctx, unit)
			if err != nil {
				log.Error("query failed", zap.Error(err))
				continue
			}
			printSuggestions(text, sug)
		}
	}
}

// watchedPaths resolves the full set of files whose edits should trigger a
// reload: the project file itself plus every configured corpus.
func watchedPaths(project string) ([]string, error) {
	cfg, baseDir, err := config.Load(project)
	if err != nil {
		return nil, err
	}
	paths := []string{project}
	for _, p := range cfg.GlossaryFiles {
		paths = append(paths, config.Resolve(baseDir, p))
	}
	for _, p := range cfg.TMFiles {
		paths = append(paths, config.Resolve(baseDir, p))
	}
	return paths, nil
}
