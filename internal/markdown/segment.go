package markdown

import (
	"iter"
	"strings"
)

const fenceMarker = "```"

type scanState int

const (
	stateDefault scanState = iota
	stateInFence
	stateInTable
	stateInParagraph
)

// segmenter walks lines with a single forward cursor. Every line is consumed
// by exactly one decision; the only lookahead is the separator check made
// before a table is entered.
type segmenter struct {
	lines []string
	pos   int
	state scanState

	lang string
	buf  []string
	rows [][]string
}

// Segment returns the blocks of lines in document order. Each call of the
// returned sequence starts a fresh scan, so it can be ranged over repeatedly.
func Segment(lines []string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		s := segmenter{lines: lines}
		for {
			block, ok := s.next()
			if !ok || !yield(block) {
				return
			}
		}
	}
}

// Parse collects Segment into a slice.
func Parse(lines []string) []Block {
	var blocks []Block
	for block := range Segment(lines) {
		blocks = append(blocks, block)
	}
	return blocks
}

func (s *segmenter) next() (Block, bool) {
	for {
		switch s.state {
		case stateInFence:
			if s.pos >= len(s.lines) {
				// An unclosed fence swallows the rest of the document.
				return s.emitCode(), true
			}
			line := s.lines[s.pos]
			s.pos++
			if isFence(strings.TrimSpace(line)) {
				return s.emitCode(), true
			}
			s.buf = append(s.buf, line)

		case stateInTable:
			if s.pos >= len(s.lines) || !strings.Contains(s.lines[s.pos], "|") {
				return s.emitTable(), true
			}
			line := s.lines[s.pos]
			s.pos++
			if isTableSeparator(line) {
				continue
			}
			s.rows = append(s.rows, splitTableRow(line))

		case stateInParagraph:
			if s.pos >= len(s.lines) || endsParagraph(s.lines, s.pos) {
				return s.emitParagraph(), true
			}
			s.buf = append(s.buf, s.lines[s.pos])
			s.pos++

		default:
			if s.pos >= len(s.lines) {
				return nil, false
			}
			line := s.lines[s.pos]
			trimmed := strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(trimmed, "#"):
				s.pos++
				return parseHeading(trimmed), true
			case isHorizontalRule(trimmed):
				s.pos++
			case isFence(trimmed):
				s.pos++
				s.lang = strings.TrimSpace(strings.TrimLeft(trimmed, "`"))
				s.buf = s.buf[:0]
				s.state = stateInFence
			case tableStartsAt(s.lines, s.pos):
				s.rows = nil
				s.state = stateInTable
			case trimmed == "":
				s.pos++
			default:
				s.buf = s.buf[:0]
				s.state = stateInParagraph
			}
		}
	}
}

func (s *segmenter) emitCode() Block {
	block := CodeBlock{Lang: s.lang, Text: strings.Join(s.buf, "\n")}
	s.lang = ""
	s.buf = s.buf[:0]
	s.state = stateDefault
	return block
}

func (s *segmenter) emitTable() Block {
	block := Table{Rows: s.rows}
	s.rows = nil
	s.state = stateDefault
	return block
}

func (s *segmenter) emitParagraph() Block {
	block := Paragraph{Text: strings.Join(s.buf, " ")}
	s.buf = s.buf[:0]
	s.state = stateDefault
	return block
}

func parseHeading(trimmed string) Heading {
	level := countRepeat(trimmed, '#')
	return Heading{
		Level: level,
		Text:  strings.TrimSpace(trimmed[level:]),
	}
}

// endsParagraph reports whether lines[index] cannot continue a paragraph.
func endsParagraph(lines []string, index int) bool {
	trimmed := strings.TrimSpace(lines[index])
	switch {
	case trimmed == "":
		return true
	case strings.HasPrefix(trimmed, "#"):
		return true
	case isFence(trimmed):
		return true
	}
	return tableStartsAt(lines, index)
}

func isFence(trimmed string) bool {
	return strings.HasPrefix(trimmed, fenceMarker)
}

func isHorizontalRule(trimmed string) bool {
	switch trimmed {
	case "---", "***", "___":
		return true
	}
	return false
}

func countRepeat(text string, target byte) int {
	n := 0
	for n < len(text) && text[n] == target {
		n++
	}
	return n
}

// SplitLines splits text on '\n', dropping a trailing '\r' from each line.
// A final newline does not produce an extra empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
