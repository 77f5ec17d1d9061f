package serializer

import "strings"

// inlineWriter accumulates rendered inline content. It exists so that
// whitespace merging happens in one place: soft line breaks and collapsed
// runs both come out as single spaces, and two spaces never meet.
type inlineWriter struct {
	b strings.Builder
}

// writeText appends escaped text, dropping a leading space when the buffer
// already ends with one.
func (w *inlineWriter) writeText(text string) {
	if strings.HasPrefix(text, " ") && w.endsWithSpace() {
		text = text[1:]
	}
	w.b.WriteString(text)
}

// writeRaw appends pre-formatted syntax verbatim.
func (w *inlineWriter) writeRaw(text string) {
	w.b.WriteString(text)
}

// writeHardBreak ends the current output line with a backslash break.
func (w *inlineWriter) writeHardBreak() {
	w.b.WriteString("\\\n")
}

func (w *inlineWriter) endsWithSpace() bool {
	s := w.b.String()
	if s == "" {
		return false
	}
	last := s[len(s)-1]
	return last == ' ' || last == '\n'
}

func (w *inlineWriter) String() string {
	return w.b.String()
}
