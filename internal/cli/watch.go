package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/constellog/internal/logger"
	"github.com/yildizm/constellog/internal/parser"
	"github.com/yildizm/constellog/internal/report"
	"github.com/yildizm/constellog/internal/source"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <place_model>",
		Short: "Follow a running search",
		Long: `Monitor a run's log files and print a one-line summary every time they are
written. The whole run is re-parsed on each write; a log caught mid-line is
reported and picked up again on the next write. Press Ctrl+C to stop.

Examples:
  constellog watch Africa_Mesh
  constellog watch --dir ./paper_results Europe_Mesh_NBIoT`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	addDataFlags(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	key, err := source.ParseRunKey(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	rw := &runWatcher{
		source: newSource(cfg),
		key:    key,
		out:    cmd.OutOrStdout(),
		log:    cliLog.WithComponent("watch"),
		now:    time.Now,
	}

	watcher, err := setupFileWatcher(rw.source.Paths(key))
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	rw.log.Info("watching %s, press Ctrl+C to stop", strings.Join(rw.source.Paths(key), ", "))
	rw.refresh()

	return runWatchLoop(commandContext(cmd), watcher, rw)
}

// runWatcher re-parses one run and prints its progress
type runWatcher struct {
	source *source.Source
	key    source.RunKey
	out    io.Writer
	log    *logger.Logger
	now    func() time.Time
}

// refresh re-reads the run and prints a summary line. Failures are logged
// and the watch goes on.
func (w *runWatcher) refresh() {
	line, err := w.summarize()
	if err != nil {
		w.log.ErrorWithFields("refresh failed", []logger.Field{logger.Run(w.key.String()), logger.Error(err)})
		return
	}
	fmt.Fprintln(w.out, line)
}

func (w *runWatcher) summarize() (string, error) {
	lines, err := w.source.Lines(w.key)
	if err != nil {
		return "", err
	}

	res, err := parser.Parse(lines)
	if err != nil {
		return "", fmt.Errorf("run %s: %w", w.key, err)
	}

	run, err := report.Summarize(w.key, res)
	if err != nil {
		return "", err
	}

	return formatWatchSummary(w.now(), run, lastEvent(lines)), nil
}

// lastEvent returns the kind of the last data line
func lastEvent(lines []string) parser.EventKind {
	for i := len(lines) - 1; i >= 0; i-- {
		if c := parser.Classify(lines[i]); c.Data {
			return c.Kind
		}
	}
	return parser.EventUnknown
}

// formatWatchSummary renders a one-line progress summary of a run
func formatWatchSummary(now time.Time, run *report.RunSummary, last parser.EventKind) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %d analyses, %d solutions, %d discarded",
		now.Format("15:04:05"), run.Title, run.AnalysisCount, run.SolutionCount, run.DiscardedCount)

	if s := run.MinSatellites; s != nil {
		fmt.Fprintf(&b, " | min sats %d (%dx%d, i:%.1f) at %.1f min",
			s.TotalSatellites, s.Planes, s.SatellitesPerPlane, s.InclinationDeg, s.ElapsedMinutes)
	}
	if p := run.Profile; p != nil {
		fmt.Fprintf(&b, " | %.1f hrs", p.TotalComputeHours)
	}
	if last != parser.EventUnknown {
		fmt.Fprintf(&b, " | last %s %s", GetKindEmoji(last), strings.TrimSuffix(last.String(), ":"))
	}
	return b.String()
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil {
		cliLog.Warn("failed to close watcher: %v", err)
	}
}

// createWatcher creates a file system watcher over every path
func createWatcher(paths []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			cleanupWatcher(watcher)
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	return watcher, nil
}

// setupFileWatcher validates the run's files and starts watching them
func setupFileWatcher(paths []string) (*fsnotify.Watcher, error) {
	for _, path := range paths {
		if err := validateWatchFilePath(path); err != nil {
			return nil, fmt.Errorf("invalid file path %s: %w", path, err)
		}
	}

	return createWatcher(paths)
}

// runWatchLoop runs the main watch loop with signal handling
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, rw *runWatcher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-signals:
			rw.log.Info("received interrupt signal, stopping")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			handleWatchEvent(event, rw)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			rw.log.Warn("watcher error: %v", err)
		}
	}
}

// handleWatchEvent refreshes on writes and reports whether it did
func handleWatchEvent(event fsnotify.Event, rw *runWatcher) bool {
	if !event.Has(fsnotify.Write) {
		return false
	}
	rw.log.Debug("write to %s", event.Name)
	rw.refresh()
	return true
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
