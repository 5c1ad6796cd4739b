package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/constellog/internal/config"
	"gopkg.in/yaml.v3"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage constellog configuration",
		Long: `Manage constellog configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and managing configuration files.`,
	}

	// Add subcommands
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new constellog configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only essential settings.`,
		Example: `  # Create full config in current directory
  constellog config init

  # Create minimal config
  constellog config init --minimal

  # Create config at specific path
  constellog config init --output ~/.config/constellog/config.yaml

  # Overwrite existing config
  constellog config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Determine output path
			if outputPath == "" {
				outputPath = ".constellog.yaml"
			}

			// Check if file exists and not forcing
			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			// Create directory if needed
			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			// Get config content
			var content string
			if minimal {
				content = config.MinimalSampleConfig()
			} else {
				content = config.SampleConfig()
			}

			// Write config file
			if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Printf("%s Configuration file created at: %s\n", GetEmoji("success"), outputPath)
			if minimal {
				fmt.Println("Created minimal configuration with essential settings")
			} else {
				fmt.Println("Created full configuration with all options and documentation")
			}

			return nil
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path for config file (default: .constellog.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from all sources including defaults,
config files, and environment variable overrides.`,
		Example: `  # Show config in YAML format
  constellog config show

  # Show config in JSON format
  constellog config show --format json

  # Show config from specific file
  constellog config show --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Format and display configuration
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Println(string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Print(string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}

			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a constellog configuration file for syntax and semantic errors.

Checks the configuration file for:
- Valid YAML syntax
- Runs with both place and model set
- Valid values for enums
- Positive limits and thresholds`,
		Example: `  # Validate current config
  constellog config validate

  # Validate specific config file
  constellog config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				fmt.Printf("%s Configuration validation failed:\n", GetEmoji("error"))
				fmt.Printf("   %v\n", err)
				return err
			}

			fmt.Printf("%s Configuration is valid\n", GetEmoji("success"))
			fmt.Print(configSummary(cfg))

			return nil
		},
	}

	return validateCmd
}

// configSummary lists the settings that decide what gets analyzed
func configSummary(cfg *config.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Configuration summary:\n", GetEmoji("statistics"))
	fmt.Fprintf(&b, "   Version: %s\n", cfg.Version)
	fmt.Fprintf(&b, "   Log Directory: %s\n", cfg.Data.LogDir)
	fmt.Fprintf(&b, "   Runs: %d configured\n", len(cfg.RunList()))
	fmt.Fprintf(&b, "   Output Format: %s\n", cfg.Output.DefaultFormat)

	models := make([]string, 0, len(cfg.Analysis.Thresholds))
	for model := range cfg.Analysis.Thresholds {
		models = append(models, model)
	}
	sort.Strings(models)
	for _, model := range models {
		fmt.Fprintf(&b, "   Threshold %s: %.0f min\n", model, cfg.Analysis.Thresholds[model])
	}
	return b.String()
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths constellog searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  constellog config path`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s Configuration file search paths (in priority order):\n", GetEmoji("folder"))
			fmt.Println()

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				exists := " (not found)"
				if fileExists(path) {
					exists = " (exists)"
				}

				fmt.Printf("  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					fmt.Printf("     Priority: %s\n", priority[i])
				}
				fmt.Println()
			}

			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Printf("Current config file: %s\n", currentConfig)
			} else {
				fmt.Println("No config file found, using defaults")
			}

			fmt.Println()
			fmt.Printf("%s Environment variables with %s prefix will override file settings (a .env file is read too)\n",
				GetEmoji("info"), config.EnvPrefix)
		},
	}

	return pathCmd
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
