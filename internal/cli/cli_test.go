package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrazyForks/hongdown/internal/config"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	cmd.SetIn(strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStdinToStdout(t *testing.T) {
	out, err := runCommand(t, "# Title\n")
	require.NoError(t, err)
	assert.Equal(t, "Title\n=====\n", out)
}

func TestStdinRejectsWrite(t *testing.T) {
	_, err := runCommand(t, "# Title\n", "-w")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "standard input")
}

func TestFileToStdout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.md", "# Title\n")
	out, err := runCommand(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "Title\n=====\n", out)
}

func TestWriteRewritesChangedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.md", "# Title\n")
	out, err := runCommand(t, "", "-w", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Title\n=====\n", string(content))
}

func TestCheckListsUnformattedFiles(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.md", "# Title\n")
	clean := writeFile(t, dir, "clean.md", "Title\n=====\n")

	out, err := runCommand(t, "", "-l", clean, dirty)
	require.True(t, errors.Is(err, errDiffers))
	assert.Equal(t, dirty+"\n", out)
}

func TestCheckCleanFilesExitZero(t *testing.T) {
	path := writeFile(t, t.TempDir(), "clean.md", "Title\n=====\n")
	out, err := runCommand(t, "", "-l", path)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiffShowsChanges(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.md", "# Title\n")
	out, err := runCommand(t, "", "-d", path)
	require.NoError(t, err)
	assert.Contains(t, out, "-# Title")
	assert.Contains(t, out, "+Title")
	assert.Contains(t, out, "+=====")
}

func TestExplicitConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, config.FileName, "[list]\nleading_spaces = 0\ntrailing_spaces = 1\nunordered_marker = \"*\"\n")
	doc := writeFile(t, dir, "doc.md", "- a\n")

	out, err := runCommand(t, "", "--config", cfgPath, doc)
	require.NoError(t, err)
	assert.Equal(t, "* a\n", out)
}

func TestConfigDiscoveredFromFileDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.FileName, "[heading]\nsetext_h1 = false\n")
	nested := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	doc := writeFile(t, nested, "doc.md", "# Title\n")

	out, err := runCommand(t, "", doc)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", out)
}

func TestMalformedConfigReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.FileName, "line_width = \"nope\"\n")
	doc := writeFile(t, dir, "doc.md", "x\n")

	_, err := runCommand(t, "", doc)
	require.Error(t, err)
	var parseErr *config.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestBinaryInputRefused(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.md")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 'a'}, 0o644))

	_, err := runCommand(t, "", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text file")
}

func TestMissingFileError(t *testing.T) {
	_, err := runCommand(t, "", filepath.Join(t.TempDir(), "absent.md"))
	require.Error(t, err)
}
