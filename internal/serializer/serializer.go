// Package serializer renders a parsed Markdown document tree back to
// canonical text under the configured house style. Rendering is pure: the
// tree and settings are read-only inputs and the only product is the
// returned string. The same tree and settings always produce the same text,
// and re-parsing that text yields a tree that renders to it again.
package serializer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/CrazyForks/hongdown/internal/config"
	"github.com/CrazyForks/hongdown/internal/textutil"
)

// Render serializes doc to Markdown text. The source bytes are the text doc
// was parsed from; leaf nodes reference them by segment. Unknown node kinds
// are a contract violation and panic.
func Render(doc ast.Node, source []byte, cfg *config.Config) string {
	s := &serializer{source: source, cfg: cfg}
	lines := s.renderBlocks(doc, renderContext{})
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

type serializer struct {
	source []byte
	cfg    *config.Config
}

// renderContext carries the state a subtree needs from its ancestors.
// It is copied, never mutated in place: entering a scope builds a new value
// and leaving it needs no restore.
type renderContext struct {
	// orderedDepth counts enclosing ordered lists, current one included.
	// Its parity selects the ordered list marker.
	orderedDepth int
}

// renderBlocks renders the children of parent as a flat slice of lines with
// a blank separator line between adjacent blocks.
func (s *serializer) renderBlocks(parent ast.Node, ctx renderContext) []string {
	var lines []string
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		rendered := s.renderBlock(child, ctx)
		if len(rendered) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, rendered...)
	}
	return lines
}

func (s *serializer) renderBlock(node ast.Node, ctx renderContext) []string {
	switch n := node.(type) {
	case *ast.Heading:
		return s.renderHeading(n, ctx)
	case *ast.Paragraph:
		return s.inlineLines(n, ctx)
	case *ast.TextBlock:
		return s.inlineLines(n, ctx)
	case *ast.Blockquote:
		return s.renderBlockquote(n, ctx)
	case *ast.List:
		return s.renderList(n, ctx)
	case *ast.FencedCodeBlock:
		return s.renderCodeBlock(s.fenceInfo(n), s.blockLiteral(n))
	case *ast.CodeBlock:
		return s.renderCodeBlock("", s.blockLiteral(n))
	case *ast.ThematicBreak:
		return []string{"----"}
	case *ast.HTMLBlock:
		return s.renderHTMLBlock(n)
	case *east.Table:
		return s.renderTable(n, ctx)
	default:
		panic(fmt.Sprintf("hongdown: cannot serialize block node %s", node.Kind()))
	}
}

func (s *serializer) renderHeading(n *ast.Heading, ctx renderContext) []string {
	text := s.renderInlines(n, ctx)
	if text != "" {
		if n.Level == 1 && s.cfg.Heading.SetextH1 {
			return []string{text, strings.Repeat("=", textutil.DisplayWidth(text))}
		}
		if n.Level == 2 && s.cfg.Heading.SetextH2 {
			return []string{text, strings.Repeat("-", textutil.DisplayWidth(text))}
		}
	}
	return []string{strings.TrimRight(strings.Repeat("#", n.Level)+" "+text, " ")}
}

// inlineLines renders a paragraph-like node. Hard line breaks inside the
// content split it into multiple lines.
func (s *serializer) inlineLines(node ast.Node, ctx renderContext) []string {
	text := s.renderInlines(node, ctx)
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func (s *serializer) renderBlockquote(n *ast.Blockquote, ctx renderContext) []string {
	content := s.renderBlocks(n, ctx)
	if len(content) == 0 {
		return []string{">"}
	}
	lines := make([]string, 0, len(content))
	for _, line := range content {
		if line == "" {
			// a bare ">" keeps the quote open without trailing whitespace
			lines = append(lines, ">")
			continue
		}
		lines = append(lines, "> "+line)
	}
	return lines
}

func (s *serializer) renderList(l *ast.List, ctx renderContext) []string {
	ordered := l.IsOrdered()
	childCtx := ctx
	if ordered {
		childCtx.orderedDepth = ctx.orderedDepth + 1
	}
	ordinal := l.Start
	if ordinal <= 0 {
		ordinal = 1
	}

	var lines []string
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		if len(lines) > 0 && !l.IsTight {
			lines = append(lines, "")
		}
		marker := s.listMarker(ordered, ordinal, childCtx.orderedDepth)
		ordinal++

		// Continuation lines must clear the marker, or a wide ordinal
		// (" 11.  ") leaves nested blocks short of the item's content
		// column and they re-parse as lazy paragraph continuation.
		indentWidth := s.cfg.List.IndentWidth
		if w := textutil.DisplayWidth(marker); w > indentWidth {
			indentWidth = w
		}
		indent := strings.Repeat(" ", indentWidth)

		itemLines := s.renderListItem(item, childCtx, l.IsTight)
		if len(itemLines) == 0 {
			lines = append(lines, strings.TrimRight(marker, " "))
			continue
		}
		lines = append(lines, marker+itemLines[0])
		for _, line := range itemLines[1:] {
			if line == "" {
				lines = append(lines, "")
				continue
			}
			lines = append(lines, indent+line)
		}
	}
	return lines
}

// renderListItem renders an item's blocks. Items of a tight list hold their
// blocks without blank separators so the list stays tight when re-parsed.
func (s *serializer) renderListItem(item ast.Node, ctx renderContext, tight bool) []string {
	var lines []string
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		rendered := s.renderBlock(child, ctx)
		if len(rendered) == 0 {
			continue
		}
		if len(lines) > 0 && !tight {
			lines = append(lines, "")
		}
		lines = append(lines, rendered...)
	}
	return lines
}

func (s *serializer) listMarker(ordered bool, ordinal, orderedDepth int) string {
	lead := strings.Repeat(" ", s.cfg.List.LeadingSpaces)
	trail := strings.Repeat(" ", s.cfg.List.TrailingSpaces)
	if !ordered {
		return lead + s.cfg.List.UnorderedMarker + trail
	}
	marker := s.cfg.OrderedList.OddLevelMarker
	if orderedDepth%2 == 0 {
		marker = s.cfg.OrderedList.EvenLevelMarker
	}
	return lead + strconv.Itoa(ordinal) + marker + trail
}

func (s *serializer) renderHTMLBlock(n *ast.HTMLBlock) []string {
	var lines []string
	for i := 0; i < n.Lines().Len(); i++ {
		segment := n.Lines().At(i)
		lines = append(lines, strings.TrimRight(string(segment.Value(s.source)), "\n"))
	}
	if n.HasClosure() {
		lines = append(lines, strings.TrimRight(string(n.ClosureLine.Value(s.source)), "\n"))
	}
	return lines
}

// blockLiteral joins the literal lines of a code or HTML block back into
// one string, trailing newlines included.
func (s *serializer) blockLiteral(n ast.Node) string {
	var b strings.Builder
	for i := 0; i < n.Lines().Len(); i++ {
		segment := n.Lines().At(i)
		b.Write(segment.Value(s.source))
	}
	return b.String()
}

func (s *serializer) fenceInfo(n *ast.FencedCodeBlock) string {
	if n.Info == nil {
		return ""
	}
	return string(n.Info.Segment.Value(s.source))
}

// renderInlines renders the inline children of node into a single string.
// Hard line breaks stay as embedded newlines for the caller to split.
func (s *serializer) renderInlines(node ast.Node, ctx renderContext) string {
	var w inlineWriter
	s.renderInlineChildren(&w, node, ctx)
	return strings.TrimSpace(w.String())
}

// renderInlineChildren walks the inline children of parent. Consecutive
// plain text nodes are joined into one run before escaping: the parser
// splits text at delimiter characters, and escaping each fragment alone
// would lose the lookaround that keeps intraword underscores and bracket
// pairs unescaped.
func (s *serializer) renderInlineChildren(w *inlineWriter, parent ast.Node, ctx renderContext) {
	var run strings.Builder
	flush := func() {
		if run.Len() == 0 {
			return
		}
		w.writeText(escapeText(unescapePunctuation(normalizeWhitespace(run.String()))))
		run.Reset()
	}

	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if text, ok := child.(*ast.Text); ok {
			run.Write(text.Segment.Value(s.source))
			switch {
			case text.HardLineBreak():
				flush()
				w.writeHardBreak()
			case text.SoftLineBreak():
				run.WriteByte('\n')
			}
			continue
		}
		flush()
		s.renderInline(w, child, ctx)
	}
	flush()
}

func (s *serializer) renderInline(w *inlineWriter, node ast.Node, ctx renderContext) {
	switch n := node.(type) {
	case *ast.String:
		w.writeText(escapeText(normalizeWhitespace(string(n.Value))))
	case *ast.CodeSpan:
		w.writeRaw(formatCodeSpan(s.codeSpanContent(n)))
	case *ast.Emphasis:
		delimiter := "*"
		if n.Level == 2 {
			delimiter = "**"
		}
		w.writeRaw(delimiter)
		s.renderInlineChildren(w, n, ctx)
		w.writeRaw(delimiter)
	case *east.Strikethrough:
		w.writeRaw("~~")
		s.renderInlineChildren(w, n, ctx)
		w.writeRaw("~~")
	case *ast.Link:
		w.writeRaw("[" + s.renderInlines(n, ctx) + "](" + linkTarget(string(n.Destination), string(n.Title)) + ")")
	case *ast.Image:
		w.writeRaw("![" + s.renderInlines(n, ctx) + "](" + linkTarget(string(n.Destination), string(n.Title)) + ")")
	case *ast.AutoLink:
		w.writeRaw("<" + string(n.Label(s.source)) + ">")
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			segment := n.Segments.At(i)
			b.Write(segment.Value(s.source))
		}
		w.writeRaw(normalizeWhitespace(b.String()))
	default:
		panic(fmt.Sprintf("hongdown: cannot serialize inline node %s", node.Kind()))
	}
}

// linkTarget renders the destination and optional title of a link or image.
// Destinations containing whitespace only survive re-parsing in the angle
// bracket form.
func linkTarget(destination, title string) string {
	target := destination
	if strings.ContainsAny(target, " \t\n") {
		target = "<" + target + ">"
	}
	if title != "" {
		target += ` "` + strings.ReplaceAll(title, `"`, `\"`) + `"`
	}
	return target
}

// codeSpanContent reassembles a code span's literal text. Recovery by
// source position is preferred because segment rewriting (escaped pipes in
// table cells) can leave the child walk without the original escapes; the
// recovered text is validated as a complete code span before being trusted,
// with the child walk as fallback.
func (s *serializer) codeSpanContent(n *ast.CodeSpan) string {
	if recovered, ok := s.recoverCodeSpan(n); ok {
		return recovered
	}
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		text, ok := child.(*ast.Text)
		if !ok {
			continue
		}
		value := text.Segment.Value(s.source)
		if len(value) > 0 && value[len(value)-1] == '\n' {
			// line endings inside a code span read as spaces
			b.Write(value[:len(value)-1])
			b.WriteByte(' ')
			continue
		}
		b.Write(value)
	}
	return b.String()
}

// recoverCodeSpan pulls a code span out of the raw source by position: it
// extends the span of the child segments outward over the stripped padding
// space and the delimiter backticks, then accepts the result only if it
// reads as a complete code span.
func (s *serializer) recoverCodeSpan(n *ast.CodeSpan) (string, bool) {
	first, ok := n.FirstChild().(*ast.Text)
	if !ok {
		return "", false
	}
	last, ok := n.LastChild().(*ast.Text)
	if !ok {
		return "", false
	}
	start, stop := first.Segment.Start, last.Segment.Stop
	if start < 0 || stop > len(s.source) || start > stop {
		return "", false
	}
	if start > 0 && s.source[start-1] == ' ' && stop < len(s.source) && s.source[stop] == ' ' {
		start--
		stop++
	}
	for start > 0 && s.source[start-1] == '`' {
		start--
	}
	for stop < len(s.source) && s.source[stop] == '`' {
		stop++
	}
	span := string(s.source[start:stop])
	if !isValidCodeSpan(span) {
		return "", false
	}
	content := strings.Trim(span, "`")
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' && strings.Trim(content, " ") != "" {
		content = content[1 : len(content)-1]
	}
	content = strings.ReplaceAll(content, "\r", "")
	return strings.ReplaceAll(content, "\n", " "), true
}
