package serializer

import "strings"

// infoPlaceholder labels code blocks whose info string is absent, so every
// fence carries a language token.
const infoPlaceholder = "text"

// renderCodeBlock renders a fenced code block. Indentation and quote
// prefixes for nested contexts are applied by the enclosing containers, so
// the block itself is always rendered flush left.
func (s *serializer) renderCodeBlock(info, literal string) []string {
	fenceChar := s.cfg.CodeBlock.FenceChar[0]
	fence := strings.Repeat(s.cfg.CodeBlock.FenceChar, fenceLength(literal, fenceChar, s.cfg.CodeBlock.MinFenceLength))

	info = strings.TrimSpace(normalizeWhitespace(info))
	if info == "" {
		info = infoPlaceholder
	}
	opening := fence + info
	if s.cfg.CodeBlock.SpaceAfterFence {
		opening = fence + " " + info
	}

	lines := []string{opening}
	if literal != "" {
		for _, line := range strings.Split(strings.TrimSuffix(literal, "\n"), "\n") {
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
	}
	return append(lines, fence)
}

// fenceLength picks a fence long enough that no content line can close it
// early: one more than the longest leading run of the fence character found
// on any content line, floored at the configured minimum. The same
// measurement applies in every context.
func fenceLength(literal string, fenceChar byte, minLength int) int {
	if minLength < 1 {
		minLength = 1
	}
	maxRun := 0
	for _, line := range strings.Split(literal, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		run := 0
		for run < len(trimmed) && trimmed[run] == fenceChar {
			run++
		}
		if run > maxRun {
			maxRun = run
		}
	}
	if maxRun+1 > minLength {
		return maxRun + 1
	}
	return minLength
}
