package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "CONSTELLOG_"

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.constellog.yaml",               // Project-specific config (highest priority)
	"~/.config/constellog/config.yaml", // User config
	"/etc/constellog/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFiles    []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFiles:    []string{".env"},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables (a .env file fills in unset ones)
// 3. ./.constellog.yaml
// 4. ~/.config/constellog/config.yaml
// 5. /etc/constellog/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// loadEnvFiles reads .env style files into the process environment.
// Variables already set are left alone; missing files are skipped.
func (l *Loader) loadEnvFiles() error {
	for _, path := range l.envFiles {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Data Config
		"DATA_LOG_DIR":   func(v string) error { config.Data.LogDir = v; return nil },
		"DATA_SHORT_DIR": func(v string) error { config.Data.ShortDir = v; return nil },
		"DATA_PLACES":    func(v string) error { config.Data.Places = splitList(v); return nil },
		"DATA_MODELS":    func(v string) error { config.Data.Models = splitList(v); return nil },

		// Output Config
		"OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"OUTPUT_NO_EMOJI":       func(v string) error { return parseBool(v, &config.Output.NoEmoji) },
		"OUTPUT_DIR":            func(v string) error { config.Output.OutputDir = v; return nil },
		"OUTPUT_EXPORT_FORMAT":  func(v string) error { config.Output.ExportFormat = v; return nil },

		// Analysis Config
		"ANALYSIS_TIMEOUT":    func(v string) error { return parseDuration(v, &config.Analysis.Timeout) },
		"ANALYSIS_MAX_LINES":  func(v string) error { return parseInt(v, &config.Analysis.MaxLines) },
		"ANALYSIS_THRESHOLDS": func(v string) error { return parseThresholds(v, &config.Analysis.Thresholds) },
	}

	for name, setter := range envMappings {
		envVar := EnvPrefix + name
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeDataConfig(&dst.Data, &src.Data)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeAnalysisConfig(&dst.Analysis, &src.Analysis)
}

// mergeDataConfig merges data configuration
func mergeDataConfig(dst, src *DataConfig) {
	if src.LogDir != "" {
		dst.LogDir = src.LogDir
	}
	if src.ShortDir != "" {
		dst.ShortDir = src.ShortDir
	}
	if len(src.Runs) > 0 {
		dst.Runs = src.Runs
	}
	if len(src.Places) > 0 {
		dst.Places = src.Places
	}
	if len(src.Models) > 0 {
		dst.Models = src.Models
	}
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.OutputDir != "" {
		dst.OutputDir = src.OutputDir
	}
	if src.ExportFormat != "" {
		dst.ExportFormat = src.ExportFormat
	}
	// yaml cannot tell an explicit false from an absent key, so only true merges
	if src.Verbose {
		dst.Verbose = true
	}
	if src.NoEmoji {
		dst.NoEmoji = true
	}
}

// mergeAnalysisConfig merges analysis configuration
func mergeAnalysisConfig(dst, src *AnalysisConfig) {
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.MaxLines != 0 {
		dst.MaxLines = src.MaxLines
	}
	if len(src.Thresholds) > 0 {
		if dst.Thresholds == nil {
			dst.Thresholds = make(map[string]float64)
		}
		for model, threshold := range src.Thresholds {
			dst.Thresholds[model] = threshold
		}
	}
}

// Type conversion helpers

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseThresholds reads "Mesh=120,Mesh_60=60" into dst, replacing it
func parseThresholds(s string, dst *map[string]float64) error {
	out := make(map[string]float64)
	for _, item := range splitList(s) {
		model, value, ok := strings.Cut(item, "=")
		if !ok {
			return fmt.Errorf("threshold %q must be model=minutes", item)
		}
		minutes, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("threshold %q: %w", item, err)
		}
		out[strings.TrimSpace(model)] = minutes
	}
	*dst = out
	return nil
}

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
