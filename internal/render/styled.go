package render

import (
	"strings"

	"github.com/kk-code-lab/mdconv/internal/markdown"
	"github.com/kk-code-lab/mdconv/internal/textutil"
)

// TextStyleKind describes a semantic style for formatted segments.
type TextStyleKind int

const (
	TextStylePlain TextStyleKind = iota
	TextStyleEmphasis
	TextStyleStrong
	TextStyleCode
	TextStyleCodeBlock
	TextStyleHeading
	TextStyleTableBorder
)

// StyledTextSegment is a chunk of text with an associated style.
type StyledTextSegment struct {
	Text  string
	Style TextStyleKind
}

// LineText joins the text of one rendered line.
func LineText(segments []StyledTextSegment) string {
	if len(segments) == 0 {
		return ""
	}
	total := 0
	for _, seg := range segments {
		total += len(seg.Text)
	}
	buf := make([]byte, 0, total)
	for _, seg := range segments {
		buf = append(buf, seg.Text...)
	}
	return string(buf)
}

func segmentsWidth(segments []StyledTextSegment) int {
	width := 0
	for _, seg := range segments {
		width += textutil.DisplayWidth(seg.Text)
	}
	return width
}

// runSegments maps runs to segments. Plain runs take base; formatted runs
// keep their own style.
func runSegments(runs []markdown.Run, base TextStyleKind) []StyledTextSegment {
	segments := make([]StyledTextSegment, 0, len(runs))
	for _, run := range runs {
		text := textutil.ExpandTabs(run.Text, textutil.DefaultTabWidth)
		switch run.Kind {
		case markdown.RunBold:
			segments = append(segments, StyledTextSegment{Text: text, Style: TextStyleStrong})
		case markdown.RunItalic:
			segments = append(segments, StyledTextSegment{Text: text, Style: TextStyleEmphasis})
		case markdown.RunCode:
			segments = append(segments, StyledTextSegment{Text: text, Style: TextStyleCode})
		default:
			segments = append(segments, StyledTextSegment{Text: text, Style: base})
		}
	}
	return segments
}

type styledWord struct {
	parts []StyledTextSegment
	// space is the style of the whitespace that preceded the word.
	space TextStyleKind
}

// splitWords breaks segments on spaces. Runs of whitespace collapse into one
// separator; a word may span several segments when styles change mid-word.
func splitWords(segments []StyledTextSegment) []styledWord {
	var words []styledWord
	var current styledWord
	inWord := false
	pendingSpace := TextStylePlain

	for _, seg := range segments {
		start := -1
		for i, r := range seg.Text {
			if r == ' ' {
				if start >= 0 {
					current.parts = append(current.parts, StyledTextSegment{Text: seg.Text[start:i], Style: seg.Style})
					start = -1
				}
				if inWord {
					words = append(words, current)
					current = styledWord{}
					inWord = false
				}
				pendingSpace = seg.Style
				continue
			}
			if start < 0 {
				start = i
			}
			if !inWord {
				current.space = pendingSpace
				inWord = true
			}
		}
		if start >= 0 {
			current.parts = append(current.parts, StyledTextSegment{Text: seg.Text[start:], Style: seg.Style})
		}
	}
	if inWord {
		words = append(words, current)
	}
	return words
}

// wrapWords lays segments out in lines no wider than width, breaking at
// spaces. Words wider than a line are split at grapheme boundaries.
func wrapWords(segments []StyledTextSegment, width int) [][]StyledTextSegment {
	if width <= 0 || segmentsWidth(segments) <= width {
		return [][]StyledTextSegment{segments}
	}

	var lines [][]StyledTextSegment
	var line []StyledTextSegment
	lineWidth := 0
	flush := func() {
		lines = append(lines, line)
		line = nil
		lineWidth = 0
	}

	for _, word := range splitWords(segments) {
		w := segmentsWidth(word.parts)
		if lineWidth > 0 && lineWidth+1+w > width {
			flush()
		}
		if w > width {
			if lineWidth > 0 {
				flush()
			}
			pieces := wrapSegmentsToWidth(word.parts, width)
			lines = append(lines, pieces[:len(pieces)-1]...)
			line = pieces[len(pieces)-1]
			lineWidth = segmentsWidth(line)
			continue
		}
		if lineWidth > 0 {
			line = append(line, StyledTextSegment{Text: " ", Style: word.space})
			lineWidth++
		}
		line = append(line, word.parts...)
		lineWidth += w
	}
	if len(line) > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

func blankLine() []StyledTextSegment { return nil }

func headingPrefix(level int) string {
	return strings.Repeat("#", level) + " "
}
