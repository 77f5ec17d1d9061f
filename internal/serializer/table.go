package serializer

import (
	"fmt"
	"strings"

	east "github.com/yuin/goldmark/extension/ast"

	"github.com/CrazyForks/hongdown/internal/textutil"
)

// minColumnWidth leaves room for an alignment marker in the separator row.
const minColumnWidth = 3

// renderTable lays a table out in two passes: first every cell is rendered
// and measured so each column gets the width of its widest cell, then the
// header, separator and data rows are emitted against those widths. A row
// may have fewer cells than the alignment list; more is a contract
// violation in the input tree.
func (s *serializer) renderTable(t *east.Table, ctx renderContext) []string {
	alignments := t.Alignments

	var rows [][]string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, escapeTableCell(s.renderInlines(cell, ctx)))
		}
		if len(cells) > len(alignments) {
			panic(fmt.Sprintf("hongdown: table row has %d cells but alignment list has %d", len(cells), len(alignments)))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil
	}

	widths := make([]int, len(alignments))
	for i := range widths {
		widths[i] = minColumnWidth
	}
	for _, cells := range rows {
		for i, cell := range cells {
			if w := textutil.DisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := []string{tableRow(rows[0], widths)}
	lines = append(lines, tableSeparator(alignments, widths))
	for _, cells := range rows[1:] {
		lines = append(lines, tableRow(cells, widths))
	}
	return lines
}

func tableRow(cells []string, widths []int) string {
	var b strings.Builder
	b.WriteByte('|')
	for i, cell := range cells {
		b.WriteByte(' ')
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-textutil.DisplayWidth(cell)))
		b.WriteString(" |")
	}
	return b.String()
}

func tableSeparator(alignments []east.Alignment, widths []int) string {
	var b strings.Builder
	b.WriteByte('|')
	for i, alignment := range alignments {
		b.WriteByte(' ')
		switch alignment {
		case east.AlignLeft:
			b.WriteByte(':')
			b.WriteString(strings.Repeat("-", widths[i]-1))
		case east.AlignRight:
			b.WriteString(strings.Repeat("-", widths[i]-1))
			b.WriteByte(':')
		case east.AlignCenter:
			b.WriteByte(':')
			b.WriteString(strings.Repeat("-", widths[i]-2))
			b.WriteByte(':')
		default:
			b.WriteString(strings.Repeat("-", widths[i]))
		}
		b.WriteString(" |")
	}
	return b.String()
}
