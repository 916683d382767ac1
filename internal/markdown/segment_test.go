package markdown

import (
	"reflect"
	"testing"
)

func TestSegmentHeadingLevelMatchesHashCount(t *testing.T) {
	blocks := Parse([]string{"### Title"})
	want := []Block{Heading{Level: 3, Text: "Title"}}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestSegmentHeadingVariants(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Heading
	}{
		{"no space", "#Title", Heading{Level: 1, Text: "Title"}},
		{"indented", "  ## Indented  ", Heading{Level: 2, Text: "Indented"}},
		{"beyond six", "######## Deep", Heading{Level: 8, Text: "Deep"}},
		{"empty", "##", Heading{Level: 2, Text: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := Parse([]string{tt.line})
			if len(blocks) != 1 {
				t.Fatalf("expected 1 block, got %d", len(blocks))
			}
			if got, ok := blocks[0].(Heading); !ok || got != tt.want {
				t.Fatalf("Parse(%q) = %#v, want %#v", tt.line, blocks[0], tt.want)
			}
		})
	}
}

func TestSegmentPipeWithoutSeparatorIsParagraph(t *testing.T) {
	blocks := Parse([]string{"a | b", "not a separator"})
	want := []Block{Paragraph{Text: "a | b not a separator"}}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestSegmentTableDropsSeparatorRow(t *testing.T) {
	blocks := Parse([]string{"|H1|H2|", "|---|---|", "|a|b|", "|c|d|"})
	want := []Block{Table{Rows: [][]string{{"H1", "H2"}, {"a", "b"}, {"c", "d"}}}}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestSegmentTableEdgeRows(t *testing.T) {
	lines := []string{
		"Name | Value",
		" :--- | ---: ",
		"| x |  |",
		"|---|---|",
		"| only |",
		"",
		"after",
	}
	blocks := Parse(lines)
	want := []Block{
		Table{Rows: [][]string{{"Name", "Value"}, {"x", ""}, {"only"}}},
		Paragraph{Text: "after"},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestSegmentBlankCellRowIsSeparator(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []Block
	}{
		{
			name:  "as lookahead",
			lines: []string{"|a|b|", "| | |"},
			want:  []Block{Table{Rows: [][]string{{"a", "b"}}}},
		},
		{
			name:  "inside a table",
			lines: []string{"|a|b|", "|-|-|", "| | |", "|1|2|"},
			want:  []Block{Table{Rows: [][]string{{"a", "b"}, {"1", "2"}}}},
		},
		{
			name:  "bare pipes are not a separator",
			lines: []string{"a|b", "||"},
			want:  []Block{Paragraph{Text: "a|b ||"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.lines); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Parse = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestIsTableSeparator(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"|---|:--:|", true},
		{" :--- | ---: ", true},
		{"---", true},
		{"| | |", true},
		{"|  |", true},
		{"|", false},
		{"", false},
		{"| x |  |", false},
		{"|-a-|", false},
	}
	for _, tt := range tests {
		if got := isTableSeparator(tt.line); got != tt.want {
			t.Fatalf("isTableSeparator(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestSegmentTableEndsAtLineWithoutPipe(t *testing.T) {
	blocks := Parse([]string{"|a|b|", "|-|-|", "|1|2|", "trailing text"})
	want := []Block{
		Table{Rows: [][]string{{"a", "b"}, {"1", "2"}}},
		Paragraph{Text: "trailing text"},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestSegmentUnterminatedFenceConsumesRest(t *testing.T) {
	blocks := Parse([]string{"```", "line1", "line2"})
	want := []Block{CodeBlock{Text: "line1\nline2"}}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestSegmentFenceIsExclusive(t *testing.T) {
	lines := []string{
		"```go",
		"# not a heading",
		"| a | b |",
		"|---|---|",
		"",
		"  indented",
		"```",
		"tail",
	}
	blocks := Parse(lines)
	want := []Block{
		CodeBlock{Lang: "go", Text: "# not a heading\n| a | b |\n|---|---|\n\n  indented"},
		Paragraph{Text: "tail"},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestSegmentParagraphMergeBoundary(t *testing.T) {
	blocks := Parse([]string{"line one", "line two", "", "# Heading"})
	want := []Block{
		Paragraph{Text: "line one line two"},
		Heading{Level: 1, Text: "Heading"},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestSegmentParagraphStops(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []Block
	}{
		{
			name:  "heading without blank line",
			lines: []string{"text", "## Next"},
			want:  []Block{Paragraph{Text: "text"}, Heading{Level: 2, Text: "Next"}},
		},
		{
			name:  "fence",
			lines: []string{"text", "```", "code", "```"},
			want:  []Block{Paragraph{Text: "text"}, CodeBlock{Text: "code"}},
		},
		{
			name:  "table",
			lines: []string{"text", "|a|", "|-|"},
			want:  []Block{Paragraph{Text: "text"}, Table{Rows: [][]string{{"a"}}}},
		},
		{
			name:  "pipe lines without separator stay in paragraph",
			lines: []string{"text", "a | b", "c | d"},
			want:  []Block{Paragraph{Text: "text a | b c | d"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.lines); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Parse = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSegmentDropsRulesAndBlankLines(t *testing.T) {
	blocks := Parse([]string{"", "---", "  ***  ", "___", "", "text", ""})
	want := []Block{Paragraph{Text: "text"}}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestSegmentIsRestartable(t *testing.T) {
	seq := Segment([]string{"# A", "para", "", "```", "x"})
	var first, second []Block
	for b := range seq {
		first = append(first, b)
	}
	for b := range seq {
		second = append(second, b)
	}
	if len(first) != 3 || !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical passes, got %#v and %#v", first, second)
	}
}

func TestSegmentStopsOnBreak(t *testing.T) {
	count := 0
	for range Segment([]string{"# A", "# B", "# C"}) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("expected to stop after 2 blocks, got %d", count)
	}
}

func TestSegmentTrailingNewlineIsIrrelevant(t *testing.T) {
	text := "# Title\n\nbody line\n|a|b|\n|--|--|\n|1|2|"
	without := Parse(SplitLines(text))
	with := Parse(SplitLines(text + "\n"))
	crlf := Parse(SplitLines("# Title\r\n\r\nbody line\r\n|a|b|\r\n|--|--|\r\n|1|2|\r\n"))
	if !reflect.DeepEqual(without, with) {
		t.Fatalf("trailing newline changed blocks: %#v vs %#v", without, with)
	}
	if !reflect.DeepEqual(without, crlf) {
		t.Fatalf("CRLF changed blocks: %#v vs %#v", without, crlf)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	if blocks := Parse(nil); len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %#v", blocks)
	}
	if lines := SplitLines(""); lines != nil {
		t.Fatalf("expected nil lines, got %#v", lines)
	}
}

func TestSegmentGiantUnterminatedFence(t *testing.T) {
	lines := make([]string, 0, 100001)
	lines = append(lines, "```")
	for i := 0; i < 100000; i++ {
		lines = append(lines, "x")
	}
	blocks := Parse(lines)
	if len(blocks) != 1 {
		t.Fatalf("expected a single code block, got %d", len(blocks))
	}
	code, ok := blocks[0].(CodeBlock)
	if !ok {
		t.Fatalf("expected CodeBlock, got %T", blocks[0])
	}
	if want := 100000*2 - 1; len(code.Text) != want {
		t.Fatalf("expected %d bytes of code, got %d", want, len(code.Text))
	}
}

func TestTableColumns(t *testing.T) {
	tbl := Table{Rows: [][]string{{"a"}, {"b", "c", "d"}, {"e", "f"}}}
	if got := tbl.Columns(); got != 3 {
		t.Fatalf("Columns = %d, want 3", got)
	}
	if got := (Table{}).Columns(); got != 0 {
		t.Fatalf("Columns of empty table = %d, want 0", got)
	}
}
