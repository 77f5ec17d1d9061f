// Package markdown ties the goldmark parser to the hongdown serializer.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/CrazyForks/hongdown/internal/config"
	"github.com/CrazyForks/hongdown/internal/serializer"
)

// parser handles CommonMark plus the GFM constructs hongdown re-renders:
// pipe tables and strikethrough.
var parser = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
)

// Parse builds the document tree for source.
func Parse(source []byte) ast.Node {
	return parser.Parser().Parse(text.NewReader(source))
}

// Format renders source into its canonical form under cfg. Formatting is
// pure and deterministic; formatting the result again returns it unchanged.
func Format(source []byte, cfg *config.Config) string {
	return serializer.Render(Parse(source), source, cfg)
}
