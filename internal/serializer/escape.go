package serializer

import (
	"strings"
	"unicode"
)

// escapeText escapes characters that a Markdown parser could misread as
// syntax. The pass keeps one character of lookaround so that only positions
// where syntax could actually form get a backslash:
//
//   - `*`, `\` and backtick always start or break constructs, so they are
//     always escaped.
//   - `_` only opens or closes emphasis at a word boundary; between two
//     alphanumerics it stays literal.
//   - `[` cannot start a link as the final character or directly before
//     another `[`.
//   - `]` only closes a link when something precedes it, something follows,
//     the previous character is not `]`, and the next is `(` or `[`.
//
// A backslash already escaping punctuation outside that set (see
// unescapePunctuation) is copied through as a pair: doubling it would turn
// the escape into a literal backslash.
func escapeText(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		escape := false
		switch r {
		case '*', '`':
			escape = true
		case '\\':
			if i+1 < len(runes) && isPreservedEscape(runes[i+1]) {
				b.WriteRune(r)
				b.WriteRune(runes[i+1])
				i++
				continue
			}
			escape = true
		case '_':
			prevAlnum := i > 0 && isAlnum(runes[i-1])
			nextAlnum := i+1 < len(runes) && isAlnum(runes[i+1])
			escape = !(prevAlnum && nextAlnum)
		case '[':
			atEnd := i+1 >= len(runes)
			nextIsBracket := !atEnd && runes[i+1] == '['
			escape = !atEnd && !nextIsBracket
		case ']':
			atStart := i == 0
			atEnd := i+1 >= len(runes)
			prevIsBracket := i > 0 && runes[i-1] == ']'
			nextContinuesLink := !atEnd && (runes[i+1] == '(' || runes[i+1] == '[')
			escape = !atStart && !atEnd && !prevIsBracket && nextContinuesLink
		}
		if escape {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isEscapeTarget reports whether escapeText ever puts a backslash before c.
func isEscapeTarget(c byte) bool {
	switch c {
	case '*', '_', '[', ']', '\\', '`':
		return true
	}
	return false
}

// isPreservedEscape reports whether r, following a backslash, forms an
// escape pair that passes through escapeText untouched. These are the
// escapes unescapePunctuation keeps: punctuation escapeText cannot re-add.
func isPreservedEscape(r rune) bool {
	return r < 128 && isASCIIPunct(byte(r)) && !isEscapeTarget(byte(r))
}

// normalizeWhitespace collapses every run of whitespace, newlines included,
// to a single space.
func normalizeWhitespace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		b.WriteRune(r)
		inSpace = false
	}
	return b.String()
}

// unescapePunctuation drops backslash escapes the parser leaves in text
// literals, but only for the characters escapeText re-adds; stripping and
// re-escaping keeps backslashes from stacking on each round trip. Escapes
// of other punctuation are kept as pairs: they protect block syntax the
// inline pass cannot see, like a period after digits at the start of a line,
// and dropping them would change the block structure on re-parse.
func unescapePunctuation(text string) string {
	if !strings.Contains(text, "\\") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\\' && i+1 < len(text) && isEscapeTarget(text[i+1]) {
			b.WriteByte(text[i+1])
			i++
			continue
		}
		if c == '\\' && i+1 < len(text) && isASCIIPunct(text[i+1]) {
			b.WriteByte(c)
			b.WriteByte(text[i+1])
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

// formatCodeSpan wraps content in a delimiter one backtick longer than the
// longest backtick run inside it, so the delimiter can never be confused
// with content. A single space pads both sides when the content begins or
// ends with a backtick, or begins or ends with a space while not consisting
// of spaces only; the parser strips that padding back off.
func formatCodeSpan(content string) string {
	maxRun, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}
	delimiter := strings.Repeat("`", maxRun+1)

	pad := ""
	if content != "" {
		first := content[0]
		last := content[len(content)-1]
		switch {
		case first == '`' || last == '`':
			pad = " "
		case (first == ' ' || last == ' ') && strings.Trim(content, " ") != "":
			pad = " "
		}
	}
	return delimiter + pad + content + pad + delimiter
}

// isValidCodeSpan reports whether source reads as a complete code span:
// at least one leading backtick, a matching trailing run, and delimiters
// short enough to leave room for content. Used to sanity-check code span
// text recovered by source position rather than by tree walk.
func isValidCodeSpan(source string) bool {
	if source == "" {
		return false
	}
	leading := 0
	for leading < len(source) && source[leading] == '`' {
		leading++
	}
	if leading == 0 {
		return false
	}
	trailing := 0
	for trailing < len(source) && source[len(source)-1-trailing] == '`' {
		trailing++
	}
	return leading == trailing && leading <= len(source)/2
}

// escapeTableCell escapes every unescaped pipe so it cannot read as a cell
// boundary. A character already protected by a backslash is copied through
// with its escape intact.
func escapeTableCell(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '\\' && i+1 < len(content):
			b.WriteByte(c)
			b.WriteByte(content[i+1])
			i++
		case c == '|':
			b.WriteString(`\|`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
