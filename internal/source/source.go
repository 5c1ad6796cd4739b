// Package source locates and reads the search logs of a place/model run.
//
// A run writes <Place>_<Model>.log into the log directory and may have a
// supplementary <Place>_<Model>_Short.log in the short directory. Lines are
// always returned primary first, then short.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yildizm/constellog/internal/parser"
)

const (
	// DefaultShortDir is where short-constellation supplements live, relative to the log dir
	DefaultShortDir = "ShortConst"

	logExt      = ".log"
	shortSuffix = "_Short"
)

// RunKey names one region/model log
type RunKey struct {
	Place string `yaml:"place" json:"place"`
	Model string `yaml:"model" json:"model"`
}

// ParseRunKey splits "Place_Model" at the first underscore; models may
// contain underscores themselves ("Mesh_NBIoT").
func ParseRunKey(name string) (RunKey, error) {
	name = strings.TrimSuffix(filepath.Base(name), logExt)
	place, model, ok := strings.Cut(name, "_")
	if !ok || place == "" || model == "" {
		return RunKey{}, fmt.Errorf("invalid run name %q (want <Place>_<Model>)", name)
	}
	return RunKey{Place: place, Model: model}, nil
}

// String returns "Place_Model"
func (k RunKey) String() string {
	return k.Place + "_" + k.Model
}

// Title is the label used on charts; the "Extreme" model is shown as "Rect"
func (k RunKey) Title() string {
	model := k.Model
	if model == "Extreme" {
		model = "Rect"
	}
	return k.Place + " " + model
}

// FileName returns the primary log name
func (k RunKey) FileName() string {
	return k.String() + logExt
}

// ShortFileName returns the supplementary log name
func (k RunKey) ShortFileName() string {
	return k.String() + shortSuffix + logExt
}

// Source reads run logs from a directory tree
type Source struct {
	dir      string
	shortDir string
	maxLines int
}

// Option configures a Source
type Option func(*Source)

// WithMaxLines caps the number of lines read per run; 0 means unlimited
func WithMaxLines(n int) Option {
	return func(s *Source) { s.maxLines = n }
}

// New creates a source rooted at dir. A relative shortDir is resolved
// against dir; an empty one defaults to DefaultShortDir.
func New(dir, shortDir string, opts ...Option) *Source {
	if shortDir == "" {
		shortDir = DefaultShortDir
	}
	if !filepath.IsAbs(shortDir) {
		shortDir = filepath.Join(dir, shortDir)
	}
	s := &Source{dir: dir, shortDir: shortDir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the log directory
func (s *Source) Dir() string {
	return s.dir
}

// PrimaryPath returns the path of the primary log
func (s *Source) PrimaryPath(key RunKey) string {
	return filepath.Join(s.dir, key.FileName())
}

// ShortPath returns the path of the supplementary log
func (s *Source) ShortPath(key RunKey) string {
	return filepath.Join(s.shortDir, key.ShortFileName())
}

// Paths returns the files that contribute to a run, primary first.
// The short log is only listed when it exists.
func (s *Source) Paths(key RunKey) []string {
	paths := []string{s.PrimaryPath(key)}
	if fileExists(s.ShortPath(key)) {
		paths = append(paths, s.ShortPath(key))
	}
	return paths
}

// Lines returns the primary log's lines followed by the short log's lines.
// A missing primary log is an error; a missing short log is not.
func (s *Source) Lines(key RunKey) ([]string, error) {
	lines, err := s.readFile(s.PrimaryPath(key))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", key, err)
	}

	short, err := s.readFile(s.ShortPath(key))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("run %s: %w", key, err)
	default:
		lines = append(lines, short...)
	}

	if s.maxLines > 0 && len(lines) > s.maxLines {
		return nil, fmt.Errorf("run %s: %d lines exceeds limit of %d", key, len(lines), s.maxLines)
	}
	return lines, nil
}

// Parse reads and parses the run's combined lines
func (s *Source) Parse(key RunKey) (*parser.ParseResult, error) {
	lines, err := s.Lines(key)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", key, err)
	}
	return res, nil
}

// Discover lists the runs that have a primary log in the directory, sorted by name
func (s *Source) Discover() ([]RunKey, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+logExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	var keys []RunKey
	for _, match := range matches {
		name := strings.TrimSuffix(filepath.Base(match), logExt)
		if strings.HasSuffix(name, shortSuffix) {
			continue
		}
		key, err := ParseRunKey(name)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *Source) readFile(path string) ([]string, error) {
	// #nosec G304 - paths are built from the configured log directory
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines, err := parser.ReadLines(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
