package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kk-code-lab/mdconv/internal/markdown"
	"github.com/kk-code-lab/mdconv/internal/textutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleDoc = []string{
	"# Title",
	"Some **bold** text.",
	"",
	"|A|B|",
	"|-|-|",
	"|1|",
	"```sh",
	"\tx",
	"```",
}

// recordingSink logs every call it receives.
type recordingSink struct {
	calls []string
}

func (r *recordingSink) BeginDocument() { r.calls = append(r.calls, "begin") }

func (r *recordingSink) AppendHeading(level int, runs []markdown.Run) {
	r.calls = append(r.calls, fmt.Sprintf("heading %d %s", level, markdown.RawText(runs)))
}

func (r *recordingSink) AppendParagraph(runs []markdown.Run) {
	r.calls = append(r.calls, fmt.Sprintf("paragraph %d runs", len(runs)))
}

func (r *recordingSink) AppendCodeBlock(text string) {
	r.calls = append(r.calls, "code "+text)
}

func (r *recordingSink) AppendTable(rows [][][]markdown.Run) {
	var cells []string
	for _, row := range rows {
		for _, cell := range row {
			cells = append(cells, markdown.PlainText(cell))
		}
	}
	r.calls = append(r.calls, "table "+strings.Join(cells, ","))
}

func (r *recordingSink) FinalizeDocument() ([]string, error) {
	r.calls = append(r.calls, "finalize")
	return r.calls, nil
}

func TestRenderCallsSinkInDocumentOrder(t *testing.T) {
	sink := &recordingSink{}
	calls, err := Render[[]string](markdown.Segment(sampleDoc), sink)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"begin",
		"heading 1 Title",
		"paragraph 3 runs",
		"table A,B,1",
		"code \tx",
		"finalize",
	}, calls)
}

func TestTextSinkRendersDocument(t *testing.T) {
	lines, err := Render[[]string](markdown.Segment(sampleDoc), NewTextSink(DefaultOptions()))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"# Title",
		"",
		"Some bold text.",
		"",
		"┌───┬───┐",
		"│ A │ B │",
		"├───┼───┤",
		"│ 1 │   │",
		"└───┴───┘",
		"",
		"        x",
	}, lines)
}

func TestTextSinkSanitizesControlCharacters(t *testing.T) {
	lines, err := Render[[]string](markdown.Segment([]string{"bad\x1b[31m text"}), NewTextSink(DefaultOptions()))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "bad?[31m text", lines[0])
}

func TestSegmentSinkStyles(t *testing.T) {
	lines, err := Render[[][]StyledTextSegment](markdown.Segment([]string{"## Head", "a *b* `c`"}), NewSegmentSink(DefaultOptions()))
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, []StyledTextSegment{
		{Text: "## ", Style: TextStyleHeading},
		{Text: "Head", Style: TextStyleHeading},
	}, lines[0])
	assert.Nil(t, lines[1])
	assert.Equal(t, []StyledTextSegment{
		{Text: "a ", Style: TextStylePlain},
		{Text: "b", Style: TextStyleEmphasis},
		{Text: " ", Style: TextStylePlain},
		{Text: "c", Style: TextStyleCode},
	}, lines[2])
}

func TestSegmentSinkClampsHeadingLevel(t *testing.T) {
	lines, err := Render[[][]StyledTextSegment](markdown.Segment([]string{"####### Deep"}), NewSegmentSink(Options{MaxHeadingLevel: 3}))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "### Deep", LineText(lines[0]))
}

func TestSegmentSinkWrapsParagraphs(t *testing.T) {
	lines, err := Render[[][]StyledTextSegment](markdown.Segment([]string{"alpha beta", "gamma delta"}), NewSegmentSink(Options{Width: 11}))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "alpha beta", LineText(lines[0]))
	assert.Equal(t, "gamma delta", LineText(lines[1]))
}

func TestWrapWordsSplitsLongWords(t *testing.T) {
	lines := wrapWords([]StyledTextSegment{{Text: "abcdefghij", Style: TextStyleStrong}}, 4)
	require.Len(t, lines, 3)
	assert.Equal(t, "abcd", LineText(lines[0]))
	assert.Equal(t, "efgh", LineText(lines[1]))
	assert.Equal(t, "ij", LineText(lines[2]))
	assert.Equal(t, TextStyleStrong, lines[2][0].Style)
}

func TestWrapWordsKeepsSpaceStyle(t *testing.T) {
	segments := []StyledTextSegment{
		{Text: "very bold", Style: TextStyleStrong},
		{Text: " tail", Style: TextStylePlain},
	}
	lines := wrapWords(segments, 9)
	require.Len(t, lines, 2)
	assert.Equal(t, []StyledTextSegment{
		{Text: "very", Style: TextStyleStrong},
		{Text: " ", Style: TextStyleStrong},
		{Text: "bold", Style: TextStyleStrong},
	}, lines[0])
	assert.Equal(t, "tail", LineText(lines[1]))
}

func TestHTMLSinkRendersDocument(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "Doc"
	out, err := Render[[]byte](markdown.Segment(sampleDoc), NewHTMLSink(opts))
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"), doc)
	assert.Contains(t, doc, "<title>Doc</title>")
	assert.Contains(t, doc, "<h1>Title</h1>")
	assert.Contains(t, doc, "<p>Some <strong>bold</strong> text.</p>")
	assert.Contains(t, doc, "<table><thead><tr><th>A</th><th>B</th></tr></thead><tbody><tr><td>1</td><td></td></tr></tbody></table>")
	assert.Contains(t, doc, "<pre><code>\tx</code></pre>")
}

func TestHTMLSinkEscapesText(t *testing.T) {
	out, err := Render[[]byte](markdown.Segment([]string{"a < b & `<c>`"}), NewHTMLSink(DefaultOptions()))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<p>a &lt; b &amp; <code>&lt;c&gt;</code></p>")
}

func TestHTMLSinkHeadingLevels(t *testing.T) {
	lines := []string{"###### Six", "######## Eight"}

	out, err := Render[[]byte](markdown.Segment(lines), NewHTMLSink(DefaultOptions()))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h4>Six</h4><h4>Eight</h4>")

	out, err = Render[[]byte](markdown.Segment(lines), NewHTMLSink(Options{MaxHeadingLevel: 9}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h6>Six</h6><h6>Eight</h6>")
}

func TestStrictTablesRejectRaggedRows(t *testing.T) {
	lines := []string{"|ok|", "|-|", "|1|", "", "|A|B|", "|-|-|", "|1|"}
	opts := Options{StrictTables: true}

	_, err := Render[[]byte](markdown.Segment(lines), NewHTMLSink(opts))
	var shapeErr *TableShapeError
	require.True(t, errors.As(err, &shapeErr), "expected TableShapeError, got %v", err)
	assert.Equal(t, TableShapeError{Table: 1, Row: 1, Cells: 1, Columns: 2}, *shapeErr)

	_, err = Render[[]string](markdown.Segment(lines), NewTextSink(opts))
	require.True(t, errors.As(err, &shapeErr))
	assert.EqualError(t, err, "table 1 row 1: 1 cells, want 2")
}

func TestHTMLSinkFinalizeWithoutBegin(t *testing.T) {
	_, err := NewHTMLSink(DefaultOptions()).FinalizeDocument()
	assert.ErrorIs(t, err, errNotStarted)
}

func TestHTMLSinkAppendBeforeBegin(t *testing.T) {
	runs := markdown.Tokenize("text")
	appends := map[string]func(*HTMLSink){
		"heading":   func(s *HTMLSink) { s.AppendHeading(1, runs) },
		"paragraph": func(s *HTMLSink) { s.AppendParagraph(runs) },
		"code":      func(s *HTMLSink) { s.AppendCodeBlock("x") },
		"table":     func(s *HTMLSink) { s.AppendTable([][][]markdown.Run{{runs}}) },
	}
	for name, appendTo := range appends {
		t.Run(name, func(t *testing.T) {
			sink := NewHTMLSink(DefaultOptions())
			require.NotPanics(t, func() { appendTo(sink) })
			_, err := sink.FinalizeDocument()
			assert.ErrorIs(t, err, errNotStarted)

			// a later BeginDocument starts over
			sink.BeginDocument()
			appendTo(sink)
			_, err = sink.FinalizeDocument()
			assert.NoError(t, err)
		})
	}
}

func TestHTMLSinkTitleFromFirstHeading(t *testing.T) {
	lines := []string{"para", "## The **first** one", "# Second"}

	out, err := Render[[]byte](markdown.Segment(lines), NewHTMLSink(DefaultOptions()))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>The first one</title>")
	assert.Equal(t, 1, strings.Count(string(out), "<title>"))

	opts := DefaultOptions()
	opts.Title = "Given"
	out, err = Render[[]byte](markdown.Segment(lines), NewHTMLSink(opts))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>Given</title>")
	assert.Equal(t, 1, strings.Count(string(out), "<title>"))
}

func TestDumpBlocks(t *testing.T) {
	data, err := DumpBlocks(markdown.Segment(sampleDoc))
	require.NoError(t, err)

	var blocks []map[string]any
	require.NoError(t, json.Unmarshal(data, &blocks))
	require.Len(t, blocks, 4)
	assert.Equal(t, "heading", blocks[0]["type"])
	assert.Equal(t, float64(1), blocks[0]["level"])
	assert.Equal(t, "paragraph", blocks[1]["type"])
	assert.Equal(t, "table", blocks[2]["type"])
	assert.Equal(t, float64(2), blocks[2]["columns"])
	assert.Equal(t, "code", blocks[3]["type"])
	assert.Equal(t, "sh", blocks[3]["lang"])
	assert.Equal(t, "\tx", blocks[3]["text"])
}

func TestDumpBlocksEmptyDocument(t *testing.T) {
	data, err := DumpBlocks(markdown.Segment(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestTableLayoutClampsWidths(t *testing.T) {
	rows := [][][]markdown.Run{{{{Kind: markdown.RunPlain, Text: "12345678"}}}}
	layout := buildTableLayout(rows, tableRenderOptions{MaxWidth: 10})

	// 6 + 3 padding + 1 border = 10
	assert.Equal(t, 6, layout.widths[0])
	assert.LessOrEqual(t, tableWidth(layout.widths), 10)
}

func TestTableRenderingRespectsMaxLinesPerCell(t *testing.T) {
	rows := [][][]markdown.Run{
		{{{Kind: markdown.RunPlain, Text: "H"}}},
		{{{Kind: markdown.RunPlain, Text: "abcdefghijklmn"}}},
	}
	out := buildFormattedTable(rows, tableRenderOptions{MaxWidth: 9, MaxLinesPerCell: 1})
	require.Len(t, out, 5)

	body := LineText(out[3])
	assert.Contains(t, body, "…")
	assert.Equal(t, "│ abcd… │", body)
	assert.LessOrEqual(t, textutil.DisplayWidth(body), 9)
}

func TestTextSinkLimitsCellLines(t *testing.T) {
	doc := markdown.Segment([]string{"|H|", "|-|", "|abcdefghijklmn|"})

	lines, err := Render[[]string](doc, NewTextSink(Options{Width: 9, MaxCellLines: 1}))
	require.NoError(t, err)
	require.Len(t, lines, 5)
	assert.Equal(t, "│ abcd… │", lines[3])

	lines, err = Render[[]string](doc, NewTextSink(Options{Width: 9}))
	require.NoError(t, err)
	require.Len(t, lines, 7)
	assert.Equal(t, "│ abcde │", lines[3])
	assert.Equal(t, "│ klmn  │", lines[5])
}

func TestTableHeaderIsBold(t *testing.T) {
	rows := [][][]markdown.Run{
		{{{Kind: markdown.RunPlain, Text: "H"}, {Kind: markdown.RunCode, Text: "c"}}},
		{{{Kind: markdown.RunPlain, Text: "v"}}},
	}
	out := buildFormattedTable(rows, tableRenderOptions{})
	require.Len(t, out, 5)
	assert.Equal(t, []StyledTextSegment{
		{Text: "│ ", Style: TextStyleTableBorder},
		{Text: "H", Style: TextStyleStrong},
		{Text: "c", Style: TextStyleCode},
		{Text: " │", Style: TextStyleTableBorder},
	}, out[1])
}

func TestTableCellWidthUsesGraphemeWidth(t *testing.T) {
	cell := makeTableCell([]markdown.Run{{Kind: markdown.RunPlain, Text: "⚠️a"}}, TextStylePlain)
	require.Len(t, cell.lines, 1)
	assert.Equal(t, textutil.DisplayWidth("⚠️a"), cell.lines[0].width)
}
