package render

import (
	"strings"

	"github.com/kk-code-lab/mdconv/internal/markdown"
	"github.com/kk-code-lab/mdconv/internal/textutil"
)

const codeBlockIndent = "    "

// SegmentSink lays a document out as lines of styled segments, one blank
// line between blocks. It is the basis for the text sink and the viewer.
type SegmentSink struct {
	opts   Options
	lines  [][]StyledTextSegment
	tables int
	err    error
}

var _ Sink[[][]StyledTextSegment] = (*SegmentSink)(nil)

// NewSegmentSink returns a sink using opts.
func NewSegmentSink(opts Options) *SegmentSink {
	return &SegmentSink{opts: opts}
}

func (s *SegmentSink) BeginDocument() {
	s.lines = nil
	s.tables = 0
	s.err = nil
}

func (s *SegmentSink) appendBlock(block [][]StyledTextSegment) {
	if len(block) == 0 {
		return
	}
	if len(s.lines) > 0 {
		s.lines = append(s.lines, blankLine())
	}
	s.lines = append(s.lines, block...)
}

func (s *SegmentSink) AppendHeading(level int, runs []markdown.Run) {
	level = s.opts.headingLevel(level)
	line := []StyledTextSegment{{Text: headingPrefix(level), Style: TextStyleHeading}}
	line = append(line, runSegments(runs, TextStyleHeading)...)
	s.appendBlock(wrapWords(line, s.opts.Width))
}

func (s *SegmentSink) AppendParagraph(runs []markdown.Run) {
	s.appendBlock(wrapWords(runSegments(runs, TextStylePlain), s.opts.Width))
}

func (s *SegmentSink) AppendCodeBlock(text string) {
	if text == "" {
		return
	}
	codeLines := strings.Split(text, "\n")
	block := make([][]StyledTextSegment, len(codeLines))
	for i, line := range codeLines {
		expanded := textutil.ExpandTabs(line, textutil.DefaultTabWidth)
		block[i] = []StyledTextSegment{{Text: codeBlockIndent + expanded, Style: TextStyleCodeBlock}}
	}
	s.appendBlock(block)
}

func (s *SegmentSink) AppendTable(rows [][][]markdown.Run) {
	index := s.tables
	s.tables++
	if len(rows) == 0 {
		return
	}
	if s.opts.StrictTables && s.err == nil {
		s.err = checkTableShape(index, rows)
	}
	rows = padRows(rows, tableColumns(rows))
	s.appendBlock(buildFormattedTable(rows, s.opts.tableOptions()))
}

func (o Options) tableOptions() tableRenderOptions {
	return tableRenderOptions{MaxWidth: o.Width, MaxLinesPerCell: max(o.MaxCellLines, 0)}
}

// FinalizeDocument returns the rendered lines. A nil line is a blank line.
func (s *SegmentSink) FinalizeDocument() ([][]StyledTextSegment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.lines, nil
}

// TextSink renders a document as plain terminal lines. Formatting markers
// are dropped and every line is sanitised for terminal output.
type TextSink struct {
	SegmentSink
}

var _ Sink[[]string] = (*TextSink)(nil)

// NewTextSink returns a sink using opts.
func NewTextSink(opts Options) *TextSink {
	return &TextSink{SegmentSink: SegmentSink{opts: opts}}
}

func (s *TextSink) FinalizeDocument() ([]string, error) {
	segments, err := s.SegmentSink.FinalizeDocument()
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(segments))
	for i, line := range segments {
		lines[i] = strings.TrimRight(textutil.SanitizeTerminalText(LineText(line)), " ")
	}
	return lines, nil
}
