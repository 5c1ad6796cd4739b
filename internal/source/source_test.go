package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
}

func TestParseRunKey(t *testing.T) {
	tests := []struct {
		in      string
		want    RunKey
		wantErr bool
	}{
		{in: "Africa_Mesh", want: RunKey{Place: "Africa", Model: "Mesh"}},
		{in: "Europe_Mesh_NBIoT", want: RunKey{Place: "Europe", Model: "Mesh_NBIoT"}},
		{in: "logs/Africa_Extreme.log", want: RunKey{Place: "Africa", Model: "Extreme"}},
		{in: "Africa", wantErr: true},
		{in: "_Mesh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRunKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunKeyNames(t *testing.T) {
	k := RunKey{Place: "Europe", Model: "Extreme"}
	assert.Equal(t, "Europe_Extreme.log", k.FileName())
	assert.Equal(t, "Europe_Extreme_Short.log", k.ShortFileName())
	assert.Equal(t, "Europe Rect", k.Title())
	assert.Equal(t, "Europe Mesh", RunKey{Place: "Europe", Model: "Mesh"}.Title())
}

func TestLinesConcatenatesPrimaryThenShort(t *testing.T) {
	dir := t.TempDir()
	key := RunKey{Place: "Brazil", Model: "Mesh"}
	writeLog(t, filepath.Join(dir, key.FileName()), "p1", "p2")
	writeLog(t, filepath.Join(dir, DefaultShortDir, key.ShortFileName()), "s1")

	src := New(dir, "")
	lines, err := src.Lines(key)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "s1"}, lines)
	assert.Len(t, src.Paths(key), 2)
}

func TestLinesWithoutShort(t *testing.T) {
	dir := t.TempDir()
	key := RunKey{Place: "Italy", Model: "Mesh"}
	writeLog(t, filepath.Join(dir, key.FileName()), "only")

	src := New(dir, "")
	lines, err := src.Lines(key)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, lines)
	assert.Equal(t, []string{filepath.Join(dir, key.FileName())}, src.Paths(key))
}

func TestLinesMissingPrimary(t *testing.T) {
	src := New(t.TempDir(), "")
	_, err := src.Lines(RunKey{Place: "Nowhere", Model: "Mesh"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "Nowhere_Mesh")
}

func TestLinesMaxLines(t *testing.T) {
	dir := t.TempDir()
	key := RunKey{Place: "Italy", Model: "Mesh"}
	writeLog(t, filepath.Join(dir, key.FileName()), "a", "b", "c")

	_, err := New(dir, "", WithMaxLines(2)).Lines(key)
	assert.ErrorContains(t, err, "exceeds limit")
}

func TestAbsoluteShortDir(t *testing.T) {
	dir := t.TempDir()
	shortDir := t.TempDir()
	key := RunKey{Place: "Lebanon", Model: "Mesh"}
	writeLog(t, filepath.Join(dir, key.FileName()), "p")
	writeLog(t, filepath.Join(shortDir, key.ShortFileName()), "s")

	lines, err := New(dir, shortDir).Lines(key)
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "s"}, lines)
}

func TestParseAndDiscover(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "Africa_Mesh.log"),
		"Starting analysis",
		"2023-03-01T10:00:00.000 >> SOLUTION!: 4 planes with 10 satellites at 55.0 degrees. MCG: 100.0",
	)
	writeLog(t, filepath.Join(dir, "Africa_Mesh_Short.log"), "stray short file at top level")
	writeLog(t, filepath.Join(dir, "Europe_Extreme.log"), "2023-03-01T10:00:00.000 >> Broken: 1")
	writeLog(t, filepath.Join(dir, "notes.log"), "no underscore")

	src := New(dir, "")
	keys, err := src.Discover()
	require.NoError(t, err)
	assert.Equal(t, []RunKey{{Place: "Africa", Model: "Mesh"}, {Place: "Europe", Model: "Extreme"}}, keys)

	res, err := src.Parse(keys[0])
	require.NoError(t, err)
	assert.Len(t, res.Solutions(), 1)

	_, err = src.Parse(keys[1])
	assert.ErrorContains(t, err, "Europe_Extreme")
}
