package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/constellog/internal/config"
	"github.com/yildizm/constellog/internal/formatter"
	"github.com/yildizm/constellog/internal/report"
	"github.com/yildizm/constellog/internal/source"
	"github.com/yildizm/constellog/internal/ui"
)

var (
	analyzeOutputFile string
	analyzeTimeout    time.Duration
	analyzeTUI        bool
	analyzeTheme      string

	// shared by analyze, export and watch
	dataDir      string
	shortDir     string
	discoverRuns bool
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [place_model...]",
		Short: "Summarize constellation search runs",
		Long: `Parse the search logs of one or more runs and report solutions, minimum
constellations and resource usage per complexity level.

Runs are named <Place>_<Model>. Without arguments the runs from the
configuration are used (explicit runs, or every place crossed with every model).

Examples:
  constellog analyze
  constellog analyze Africa_Mesh Europe_Extreme
  constellog analyze --discover --dir ./paper_results -o markdown
  constellog analyze --tui`,
		RunE: runAnalyze,
	}

	addDataFlags(cmd)
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "write output to file instead of stdout")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "timeout for building the report (default from config)")
	cmd.Flags().BoolVar(&analyzeTUI, "tui", false, "browse the report in the interactive terminal UI")
	cmd.Flags().StringVar(&analyzeTheme, "theme", "", "TUI theme (default, high-contrast, minimal)")
	addDiscoverFlag(cmd)

	return cmd
}

func addDiscoverFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&discoverRuns, "discover", false, "use every run found in the log directory")
}

// addDataFlags registers the flags that locate the search logs
func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dataDir, "dir", "d", "", "log directory (default from config)")
	cmd.Flags().StringVar(&shortDir, "short-dir", "", "short-constellation log directory, relative to --dir unless absolute")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src := newSource(cfg)
	keys, err := resolveRunKeys(args, cfg, src)
	if err != nil {
		return err
	}

	builder := report.NewBuilder(src, cliLog)
	ctx := commandContext(cmd)
	timeout := reportTimeout(cmd, cfg)

	if shouldUseTUIMode() {
		if analyzeTheme != "" && !ui.SetThemeByName(analyzeTheme) {
			return fmt.Errorf("unknown theme %q (available: %v)", analyzeTheme, ui.GetAvailableThemes())
		}
		cliLog.Debug("launching interactive terminal UI")
		return ui.RunWithLoader(func() (*report.Report, error) {
			return buildReport(ctx, builder, keys, timeout)
		})
	}

	rep, err := buildReport(ctx, builder, keys, timeout)
	if err != nil {
		return err
	}

	return formatAndOutputResults(rep)
}

// newSource builds a log source from flags, falling back to config
func newSource(cfg *config.Config) *source.Source {
	dir := cfg.Data.LogDir
	if dataDir != "" {
		dir = dataDir
	}
	short := cfg.Data.ShortDir
	if shortDir != "" {
		short = shortDir
	}
	return source.New(dir, short, source.WithMaxLines(cfg.Analysis.MaxLines))
}

// resolveRunKeys turns arguments into run keys. Without arguments the runs
// come from the log directory (--discover) or the configuration.
func resolveRunKeys(args []string, cfg *config.Config, src *source.Source) ([]source.RunKey, error) {
	if len(args) > 0 {
		keys := make([]source.RunKey, 0, len(args))
		for _, arg := range args {
			key, err := source.ParseRunKey(arg)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		return keys, nil
	}

	if discoverRuns {
		keys, err := src.Discover()
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("no run logs found in %s", src.Dir())
		}
		return keys, nil
	}

	runs := cfg.RunList()
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs configured (set data.runs or data.places and data.models)")
	}
	keys := make([]source.RunKey, 0, len(runs))
	for _, run := range runs {
		keys = append(keys, source.RunKey{Place: run.Place, Model: run.Model})
	}
	return keys, nil
}

// reportTimeout returns the --timeout flag when set, otherwise the configured one
func reportTimeout(cmd *cobra.Command, cfg *config.Config) time.Duration {
	if flagChanged(cmd, "timeout") {
		return analyzeTimeout
	}
	return cfg.Analysis.Timeout
}

// buildReport builds the report for keys, bounded by timeout when positive
func buildReport(ctx context.Context, builder *report.Builder, keys []source.RunKey, timeout time.Duration) (*report.Report, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rep, err := builder.Build(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	return rep, nil
}

// shouldUseTUIMode determines if TUI mode should be used
func shouldUseTUIMode() bool {
	return analyzeTUI && getOutputFormat() == "text" && !isVerbose()
}

func formatAndOutputResults(rep *report.Report) error {
	formatterInstance, err := formatter.New(getOutputFormat(), useColor())
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	output, err := formatterInstance.Format(rep)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return handleOutputDestination(output)
}

// handleOutputDestination writes output to file or stdout
func handleOutputDestination(output []byte) error {
	if analyzeOutputFile != "" {
		if err := validateOutputFilePath(analyzeOutputFile); err != nil {
			return fmt.Errorf("invalid output file path: %w", err)
		}

		if err := writeOutputBytesToFile(output, analyzeOutputFile); err != nil {
			return fmt.Errorf("failed to write output to file: %w", err)
		}

		cliLog.Info("output saved to: %s", analyzeOutputFile)
	} else {
		fmt.Print(string(output))
	}

	return nil
}

func validateOutputFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to the given path, creating parent directories
func writeOutputBytesToFile(output []byte, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// #nosec G304 - output path comes from the user's own flags or config
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			cliLog.Warn("failed to close output file: %v", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return file.Sync()
}
