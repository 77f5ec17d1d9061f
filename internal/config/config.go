// Package config loads hongdown formatting settings from .hongdown.toml
// files. Settings missing from the file keep their built-in defaults, and a
// missing file is not an error: formatting then runs with defaults alone.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file hongdown looks for.
const FileName = ".hongdown.toml"

// Config is an immutable snapshot of formatting policy.
type Config struct {
	// LineWidth is the target line width. It is validated but rendering
	// never re-wraps prose, so today it only guards against nonsense values.
	LineWidth int `toml:"line_width"`

	Heading     Heading     `toml:"heading"`
	List        List        `toml:"list"`
	OrderedList OrderedList `toml:"ordered_list"`
	CodeBlock   CodeBlock   `toml:"code_block"`
}

// Heading controls heading style.
type Heading struct {
	// SetextH1 renders level-1 headings with an `===` underline.
	SetextH1 bool `toml:"setext_h1"`
	// SetextH2 renders level-2 headings with a `---` underline.
	SetextH2 bool `toml:"setext_h2"`
}

// List controls unordered list style and the spacing shared by all lists.
type List struct {
	// UnorderedMarker is one of `-`, `*` or `+`.
	UnorderedMarker string `toml:"unordered_marker"`
	// LeadingSpaces come before the marker.
	LeadingSpaces int `toml:"leading_spaces"`
	// TrailingSpaces come between the marker and the item content.
	TrailingSpaces int `toml:"trailing_spaces"`
	// IndentWidth indents continuation lines and nested content.
	IndentWidth int `toml:"indent_width"`
}

// OrderedList controls ordered list markers. Alternating the marker by
// nesting depth keeps nested ordered lists visually distinct.
type OrderedList struct {
	// OddLevelMarker is used at odd nesting depths, `.` or `)`.
	OddLevelMarker string `toml:"odd_level_marker"`
	// EvenLevelMarker is used at even nesting depths, `.` or `)`.
	EvenLevelMarker string `toml:"even_level_marker"`
}

// CodeBlock controls fenced code block style.
type CodeBlock struct {
	// FenceChar is `~` or a backtick.
	FenceChar string `toml:"fence_char"`
	// MinFenceLength is the shortest fence ever emitted.
	MinFenceLength int `toml:"min_fence_length"`
	// SpaceAfterFence separates the fence from the info string.
	SpaceAfterFence bool `toml:"space_after_fence"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LineWidth: 80,
		Heading: Heading{
			SetextH1: true,
			SetextH2: true,
		},
		List: List{
			UnorderedMarker: "-",
			LeadingSpaces:   1,
			TrailingSpaces:  2,
			IndentWidth:     4,
		},
		OrderedList: OrderedList{
			OddLevelMarker:  ".",
			EvenLevelMarker: ")",
		},
		CodeBlock: CodeBlock{
			FenceChar:       "~",
			MinFenceLength:  4,
			SpaceAfterFence: true,
		},
	}
}

// Parse decodes TOML settings on top of the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LineWidth <= 0 {
		return fmt.Errorf("line_width must be positive, got %d", c.LineWidth)
	}
	switch c.List.UnorderedMarker {
	case "-", "*", "+":
	default:
		return fmt.Errorf("list.unordered_marker must be one of - * +, got %q", c.List.UnorderedMarker)
	}
	if c.List.LeadingSpaces < 0 || c.List.TrailingSpaces < 0 || c.List.IndentWidth < 0 {
		return fmt.Errorf("list spacing values must be non-negative")
	}
	for _, marker := range []string{c.OrderedList.OddLevelMarker, c.OrderedList.EvenLevelMarker} {
		switch marker {
		case ".", ")":
		default:
			return fmt.Errorf("ordered_list markers must be . or ), got %q", marker)
		}
	}
	switch c.CodeBlock.FenceChar {
	case "~", "`":
	default:
		return fmt.Errorf("code_block.fence_char must be ~ or `, got %q", c.CodeBlock.FenceChar)
	}
	if c.CodeBlock.MinFenceLength <= 0 {
		return fmt.Errorf("code_block.min_fence_length must be positive, got %d", c.CodeBlock.MinFenceLength)
	}
	return nil
}

// Load reads and parses the settings file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return cfg, nil
}

// Discover walks from startDir through every ancestor directory looking for
// a settings file. The first match wins. When no file exists anywhere on the
// path the defaults are returned with an empty path; that is a normal
// outcome, not an error.
func Discover(startDir string) (*Config, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			if err != nil {
				return nil, "", err
			}
			return cfg, path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), "", nil
		}
		dir = parent
	}
}
