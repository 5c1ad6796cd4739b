package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// unsetForTest removes key for the duration of the test and restores it afterwards
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key)
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
	if len(loader.envFiles) != 1 || loader.envFiles[0] != ".env" {
		t.Errorf("Expected .env as env file, got %v", loader.envFiles)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := &Loader{}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
	if len(cfg.RunList()) != 4 {
		t.Errorf("Expected 4 default runs, got %d", len(cfg.RunList()))
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	configContent := `version: "1.0"
data:
  log_dir: /srv/cpgd
  runs:
    - {place: Greenland, model: Mesh}
    - {place: Brazil, model: Mesh}
output:
  default_format: "json"
  verbose: true
analysis:
  timeout: 5s
  max_lines: 5000
  thresholds:
    Mesh: 90
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := &Loader{}
	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Data.LogDir != "/srv/cpgd" {
		t.Errorf("Expected log dir /srv/cpgd, got %s", cfg.Data.LogDir)
	}
	if runs := cfg.RunList(); len(runs) != 2 || runs[1].Place != "Brazil" {
		t.Errorf("Expected 2 explicit runs, got %+v", runs)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Analysis.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.Analysis.Timeout)
	}
	if cfg.Analysis.MaxLines != 5000 {
		t.Errorf("Expected max lines 5000, got %d", cfg.Analysis.MaxLines)
	}
	if cfg.Analysis.Thresholds["Mesh"] != 90 || cfg.Analysis.Thresholds["Mesh_60"] != 60 {
		t.Errorf("Expected merged thresholds, got %v", cfg.Analysis.Thresholds)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid-config.yaml")

	invalidConfigContent := `version: "1.0"
output:
  default_format: "json
  verbose: true
`

	if err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := &Loader{}
	if _, err := loader.LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  export_format: png\n"), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := (&Loader{}).LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CONSTELLOG_DATA_LOG_DIR", "/env/logs")
	t.Setenv("CONSTELLOG_DATA_PLACES", "Greenland, SouthKorea ,Australia")
	t.Setenv("CONSTELLOG_OUTPUT_VERBOSE", "true")
	t.Setenv("CONSTELLOG_OUTPUT_EXPORT_FORMAT", "msgpack")
	t.Setenv("CONSTELLOG_ANALYSIS_MAX_LINES", "2500")
	t.Setenv("CONSTELLOG_ANALYSIS_THRESHOLDS", "Mesh=100, Mesh_30=30")

	loader := NewLoader()
	cfg := DefaultConfig()

	if err := loader.applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Data.LogDir != "/env/logs" {
		t.Errorf("Expected log dir /env/logs, got %s", cfg.Data.LogDir)
	}
	expectedPlaces := []string{"Greenland", "SouthKorea", "Australia"}
	if len(cfg.Data.Places) != len(expectedPlaces) {
		t.Fatalf("Expected %d places, got %v", len(expectedPlaces), cfg.Data.Places)
	}
	for i, place := range expectedPlaces {
		if cfg.Data.Places[i] != place {
			t.Errorf("Expected place %s, got %s", place, cfg.Data.Places[i])
		}
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.ExportFormat != "msgpack" {
		t.Errorf("Expected export format msgpack, got %s", cfg.Output.ExportFormat)
	}
	if cfg.Analysis.MaxLines != 2500 {
		t.Errorf("Expected max lines 2500, got %d", cfg.Analysis.MaxLines)
	}
	if len(cfg.Analysis.Thresholds) != 2 || cfg.Analysis.Thresholds["Mesh_30"] != 30 {
		t.Errorf("Expected thresholds to be replaced, got %v", cfg.Analysis.Thresholds)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "CONSTELLOG_ANALYSIS_MAX_LINES", "not-a-number"},
		{"invalid bool", "CONSTELLOG_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "CONSTELLOG_ANALYSIS_TIMEOUT", "not-a-duration"},
		{"threshold without value", "CONSTELLOG_ANALYSIS_THRESHOLDS", "Mesh"},
		{"threshold not a number", "CONSTELLOG_ANALYSIS_THRESHOLDS", "Mesh=long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			loader := NewLoader()
			cfg := DefaultConfig()

			if err := loader.applyEnvOverrides(cfg); err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	content := "CONSTELLOG_DATA_SHORT_DIR=FromDotEnv\nCONSTELLOG_OUTPUT_DIR=/from/dotenv\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	unsetForTest(t, "CONSTELLOG_DATA_SHORT_DIR")
	t.Setenv("CONSTELLOG_OUTPUT_DIR", "/from/process")

	loader := &Loader{envFiles: []string{envPath, filepath.Join(t.TempDir(), "missing.env")}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Data.ShortDir != "FromDotEnv" {
		t.Errorf("Expected short dir from .env, got %s", cfg.Data.ShortDir)
	}
	if cfg.Output.OutputDir != "/from/process" {
		t.Errorf("Expected process env to win over .env, got %s", cfg.Output.OutputDir)
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	if err := parseDuration("30s", &duration); err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}
	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt(t *testing.T) {
	var value int

	if err := parseInt("42", &value); err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}
	if err := parseInt("not-a-number", &value); err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	if err := parseBool("true", &value); err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if !value {
		t.Errorf("Expected true, got %v", value)
	}
	if err := parseBool("not-a-bool", &value); err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFindConfigFile(t *testing.T) {
	if _, found := FindConfigFile(); found {
		t.Skip("a config file already exists on this machine")
	}

	tempConfigPath := "./.constellog.yaml"
	if err := os.WriteFile(tempConfigPath, []byte("version: 1.0"), 0o600); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer func() { _ = os.Remove(tempConfigPath) }()

	configPath, found := FindConfigFile()
	if !found {
		t.Error("Expected config file to be found, but none was found")
	}
	if configPath != tempConfigPath {
		t.Errorf("Expected config path %s, got %s", tempConfigPath, configPath)
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
		{name: "path traversal attempt", path: "../../../etc/passwd", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", wantErr: true, errMsg: "config file must have .yaml or .yml extension"},
		{name: "proc filesystem access", path: "/proc/version.yaml", wantErr: true, errMsg: "access to system files not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
