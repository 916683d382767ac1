package render

import (
	"fmt"
	"iter"

	"github.com/kk-code-lab/mdconv/internal/markdown"
)

// Sink receives a parsed document in order and produces an artifact of
// type T. Append methods never fail; a sink that hits a problem keeps the
// first error and returns it from FinalizeDocument.
type Sink[T any] interface {
	BeginDocument()
	AppendHeading(level int, runs []markdown.Run)
	AppendParagraph(runs []markdown.Run)
	AppendCodeBlock(text string)
	AppendTable(rows [][][]markdown.Run)
	FinalizeDocument() (T, error)
}

// Render feeds blocks to sink, tokenizing heading, paragraph and cell text.
func Render[T any](blocks iter.Seq[markdown.Block], sink Sink[T]) (T, error) {
	sink.BeginDocument()
	for block := range blocks {
		switch b := block.(type) {
		case markdown.Heading:
			sink.AppendHeading(b.Level, markdown.Tokenize(b.Text))
		case markdown.Paragraph:
			sink.AppendParagraph(markdown.Tokenize(b.Text))
		case markdown.CodeBlock:
			sink.AppendCodeBlock(b.Text)
		case markdown.Table:
			sink.AppendTable(tokenizeRows(b.Rows))
		}
	}
	return sink.FinalizeDocument()
}

func tokenizeRows(rows [][]string) [][][]markdown.Run {
	out := make([][][]markdown.Run, len(rows))
	for i, row := range rows {
		out[i] = make([][]markdown.Run, len(row))
		for j, cell := range row {
			out[i][j] = markdown.Tokenize(cell)
		}
	}
	return out
}

const defaultMaxHeadingLevel = 4

// Options are shared by the bundled sinks.
type Options struct {
	// Width wraps paragraphs and clamps tables to this many columns. Zero means unlimited.
	Width int
	// MaxHeadingLevel caps heading levels. Zero or less uses the default of 4.
	MaxHeadingLevel int
	// MaxCellLines limits how many wrapped lines a table cell shows in text
	// output; longer cells end in an ellipsis. Zero means unlimited.
	MaxCellLines int
	// StrictTables makes a table with rows of differing length an error
	// instead of padding the short rows.
	StrictTables bool
	// Title is used by sinks that produce a standalone document.
	Title string
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{MaxHeadingLevel: defaultMaxHeadingLevel}
}

func (o Options) headingLevel(level int) int {
	maxLevel := o.MaxHeadingLevel
	if maxLevel <= 0 {
		maxLevel = defaultMaxHeadingLevel
	}
	return min(max(level, 1), maxLevel)
}

// TableShapeError reports a row whose cell count differs from the widest row.
type TableShapeError struct {
	Table   int // zero-based table index within the document
	Row     int
	Cells   int
	Columns int
}

func (e *TableShapeError) Error() string {
	return fmt.Sprintf("table %d row %d: %d cells, want %d", e.Table, e.Row, e.Cells, e.Columns)
}

// tableColumns returns the widest row's cell count.
func tableColumns(rows [][][]markdown.Run) int {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	return cols
}

func checkTableShape(index int, rows [][][]markdown.Run) error {
	cols := tableColumns(rows)
	for i, row := range rows {
		if len(row) != cols {
			return &TableShapeError{Table: index, Row: i, Cells: len(row), Columns: cols}
		}
	}
	return nil
}

// padRows returns rows extended with empty cells to cols entries each.
func padRows(rows [][][]markdown.Run, cols int) [][][]markdown.Run {
	out := make([][][]markdown.Run, len(rows))
	for i, row := range rows {
		if len(row) >= cols {
			out[i] = row
			continue
		}
		padded := make([][]markdown.Run, cols)
		copy(padded, row)
		out[i] = padded
	}
	return out
}
