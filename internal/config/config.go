package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Data     DataConfig     `yaml:"data" json:"data"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`
}

// RunConfig names one place/model log pair
type RunConfig struct {
	Place string `yaml:"place" json:"place"`
	Model string `yaml:"model" json:"model"`
}

// DataConfig says where the search logs live and which runs to load
type DataConfig struct {
	LogDir   string      `yaml:"log_dir" json:"log_dir"`     // directory with <Place>_<Model>.log
	ShortDir string      `yaml:"short_dir" json:"short_dir"` // supplements, relative to log_dir unless absolute
	Runs     []RunConfig `yaml:"runs" json:"runs"`           // explicit runs; overrides places x models
	Places   []string    `yaml:"places" json:"places"`
	Models   []string    `yaml:"models" json:"models"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	NoEmoji       bool   `yaml:"no_emoji" json:"no_emoji"`
	OutputDir     string `yaml:"output_dir" json:"output_dir"`       // chart dataset exports
	ExportFormat  string `yaml:"export_format" json:"export_format"` // json|csv|msgpack
}

// AnalysisConfig configures parsing limits and chart thresholds
type AnalysisConfig struct {
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
	MaxLines int           `yaml:"max_lines" json:"max_lines"`

	// Thresholds maps a model to the contact-gap threshold (minutes) it was searched with
	Thresholds map[string]float64 `yaml:"thresholds" json:"thresholds"`
}

// DefaultConfig returns a configuration matching the paper_results layout
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Data: DataConfig{
			LogDir:   "./paper_results",
			ShortDir: "ShortConst",
			Places:   []string{"Africa", "Europe"},
			Models:   []string{"Mesh", "Extreme"},
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			OutputDir:     "./paper_results/charts",
			ExportFormat:  "json",
		},
		Analysis: AnalysisConfig{
			Timeout:  60 * time.Second,
			MaxLines: 1000000,
			Thresholds: map[string]float64{
				"Mesh_60":    60,
				"Mesh":       120,
				"Mesh_NBIoT": 183,
			},
		},
	}
}

// RunList returns the configured runs: the explicit list if present,
// otherwise every place crossed with every model.
func (c *Config) RunList() []RunConfig {
	if len(c.Data.Runs) > 0 {
		out := make([]RunConfig, len(c.Data.Runs))
		copy(out, c.Data.Runs)
		return out
	}
	runs := make([]RunConfig, 0, len(c.Data.Places)*len(c.Data.Models))
	for _, model := range c.Data.Models {
		for _, place := range c.Data.Places {
			runs = append(runs, RunConfig{Place: place, Model: model})
		}
	}
	return runs
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateDataConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateAnalysisConfig(); err != nil {
		return err
	}
	return nil
}

// validateDataConfig validates data-related configuration
func (c *Config) validateDataConfig() error {
	if c.Data.LogDir == "" {
		return fmt.Errorf("log_dir must be set")
	}
	for i, run := range c.Data.Runs {
		if run.Place == "" || run.Model == "" {
			return fmt.Errorf("runs[%d]: place and model must both be set", i)
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.ExportFormat != "" {
		validExports := map[string]bool{
			"json":    true,
			"csv":     true,
			"msgpack": true,
		}
		if !validExports[c.Output.ExportFormat] {
			return fmt.Errorf("invalid export format: %s (must be one of: json, csv, msgpack)", c.Output.ExportFormat)
		}
	}
	return nil
}

// validateAnalysisConfig validates analysis-related configuration
func (c *Config) validateAnalysisConfig() error {
	if c.Analysis.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.Analysis.MaxLines < 1 {
		return fmt.Errorf("max_lines must be greater than 0")
	}
	for model, threshold := range c.Analysis.Thresholds {
		if threshold <= 0 {
			return fmt.Errorf("threshold for %s must be greater than 0", model)
		}
	}
	return nil
}
