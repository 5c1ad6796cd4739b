package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yildizm/constellog/internal/config"
	"github.com/yildizm/constellog/internal/emoji"
	"github.com/yildizm/constellog/internal/logger"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
)

var cliLog = logger.NewWithCallback("cli", isVerbose)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "constellog",
		Short: "Constellation search log analysis",
		Long: `Constellog reads the logs written by a satellite constellation search and
summarizes them: solutions found over time, the smallest constellations per
region and model, and how much compute each complexity level consumed.

Logs are expected as <Place>_<Model>.log in the log directory, with optional
<Place>_<Model>_Short.log supplements in the short directory.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !flagChanged(cmd, "no-emoji") {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json, markdown, csv)")

	// Add subcommands
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			fmt.Printf("Constellog %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadConfig loads the effective configuration and folds its output
// settings into the global flags the user did not set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if !flagChanged(cmd, "verbose") && cfg.Output.Verbose {
		verbose = true
	}
	if !flagChanged(cmd, "no-emoji") && cfg.Output.NoEmoji {
		noEmoji = true
		emoji.SetEmojiDisabled(true)
	}
	if !flagChanged(cmd, "no-color") && cfg.Output.ColorMode == "never" {
		noColor = true
	}
	if !flagChanged(cmd, "output") && cfg.Output.DefaultFormat != "" {
		outputFmt = cfg.Output.DefaultFormat
	}

	cliLog.Debug("configuration loaded (log dir %s)", cfg.Data.LogDir)
	return cfg, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// commandContext returns the command's context, or a background one when
// the command is run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// Global helpers
func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	return outputFmt
}

func useColor() bool {
	return !noColor
}
