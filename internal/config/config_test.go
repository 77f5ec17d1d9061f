package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 80, cfg.LineWidth)
	assert.True(t, cfg.Heading.SetextH1)
	assert.True(t, cfg.Heading.SetextH2)
	assert.Equal(t, "-", cfg.List.UnorderedMarker)
	assert.Equal(t, 1, cfg.List.LeadingSpaces)
	assert.Equal(t, 2, cfg.List.TrailingSpaces)
	assert.Equal(t, 4, cfg.List.IndentWidth)
	assert.Equal(t, ".", cfg.OrderedList.OddLevelMarker)
	assert.Equal(t, ")", cfg.OrderedList.EvenLevelMarker)
	assert.Equal(t, "~", cfg.CodeBlock.FenceChar)
	assert.Equal(t, 4, cfg.CodeBlock.MinFenceLength)
	assert.True(t, cfg.CodeBlock.SpaceAfterFence)
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(`
line_width = 100

[heading]
setext_h1 = false
setext_h2 = false

[list]
unordered_marker = "*"
leading_spaces = 0
trailing_spaces = 1
indent_width = 2

[ordered_list]
odd_level_marker = ")"
even_level_marker = "."

[code_block]
fence_char = "` + "`" + `"
min_fence_length = 3
space_after_fence = false
`)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.LineWidth)
	assert.False(t, cfg.Heading.SetextH1)
	assert.False(t, cfg.Heading.SetextH2)
	assert.Equal(t, "*", cfg.List.UnorderedMarker)
	assert.Equal(t, 0, cfg.List.LeadingSpaces)
	assert.Equal(t, 1, cfg.List.TrailingSpaces)
	assert.Equal(t, 2, cfg.List.IndentWidth)
	assert.Equal(t, ")", cfg.OrderedList.OddLevelMarker)
	assert.Equal(t, ".", cfg.OrderedList.EvenLevelMarker)
	assert.Equal(t, "`", cfg.CodeBlock.FenceChar)
	assert.Equal(t, 3, cfg.CodeBlock.MinFenceLength)
	assert.False(t, cfg.CodeBlock.SpaceAfterFence)
}

func TestParsePartialSectionKeepsSiblingDefaults(t *testing.T) {
	cfg, err := Parse("[list]\nindent_width = 2\n")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.List.IndentWidth)
	assert.Equal(t, "-", cfg.List.UnorderedMarker)
	assert.Equal(t, 80, cfg.LineWidth)
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong type", `line_width = "not a number"`},
		{"zero line width", `line_width = 0`},
		{"bad marker", "[list]\nunordered_marker = \"x\"\n"},
		{"bad ordered marker", "[ordered_list]\nodd_level_marker = \":\"\n"},
		{"bad fence char", "[code_block]\nfence_char = \"=\"\n"},
		{"zero fence length", "[code_block]\nmin_fence_length = 0\n"},
		{"negative spacing", "[list]\nleading_spaces = -1\n"},
		{"broken toml", "[list\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFileIsReadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope", FileName))
	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Contains(t, readErr.Error(), "nope")
}

func TestLoadMalformedFileIsParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("line_width = []\n"), 0o644))

	_, err := Load(path)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, path, parseErr.Path)
}

func TestDiscoverNoFileReturnsDefaults(t *testing.T) {
	cfg, path, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestDiscoverFindsFileInStartDir(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(want, []byte("line_width = 120\n"), 0o644))

	cfg, path, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, 120, cfg.LineWidth)
}

func TestDiscoverWalksUpToAncestor(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "docs", "guide")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	want := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(want, []byte("line_width = 90\n"), 0o644))

	cfg, path, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, 90, cfg.LineWidth)
}

func TestDiscoverNearestFileWins(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("line_width = 90\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(nested, FileName), []byte("line_width = 70\n"), 0o644))

	cfg, path, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, FileName), path)
	assert.Equal(t, 70, cfg.LineWidth)
}
