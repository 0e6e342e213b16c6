package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blueprint/palette"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command tree in an empty working directory.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestPaletteListsBuiltins(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := run(t, "palette")
	require.NoError(t, err)
	assert.Contains(t, out, "(built-in, 6 types)")
	assert.Contains(t, out, "Display Text")
	assert.Contains(t, out, "out bool     a < b")
	assert.Contains(t, out, "Epsilon=0.001")
}

func TestPaletteInitAndLoad(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "nodes.toml")

	out, _, err := run(t, "palette", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, _, err = run(t, "palette", "init", path)
	assert.ErrorContains(t, err, "already exists")

	pal, err := palette.Load(path)
	require.NoError(t, err)
	assert.Equal(t, palette.Builtin().Types(), pal.Types())

	out, _, err = run(t, "--palette", path, "palette")
	require.NoError(t, err)
	assert.Contains(t, out, "("+path+", 6 types)")
}

func TestPaletteDump(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := run(t, "palette", "dump", "--as", "json")
	require.NoError(t, err)
	pal, err := palette.Parse([]byte(out), palette.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 6, pal.Len())
}

func TestPaletteRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - color: '#fff'\n"), 0o644))
	_, _, err := run(t, "--palette", path, "palette")
	assert.Error(t, err)
}

func TestExportToStdout(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := run(t, "export", "-f", "dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph G {"))
	assert.Contains(t, out, "Display Text")
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "graph.d2")
	out, errOut, err := run(t, "export", "--format", "d2", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "exported D2 to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "direction: right"))
}

func TestExportUnknownFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := run(t, "export", "-f", "svg")
	assert.Error(t, err)
}

func TestCheckSampleGraph(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := run(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ palette (6 types)")
	assert.Contains(t, out, "✓ session (6 nodes, 4 links)")
	assert.Contains(t, out, "✓ canvas")
}

func TestConfigFileFromFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("export:\n  format: d2\n"), 0o644))

	out, _, err := run(t, "--config", cfg, "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "direction: right"))
}

func TestInvalidConfigIsReported(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := run(t, "--fps=-1", "palette")
	assert.ErrorContains(t, err, "fps must be greater than 0")
}
