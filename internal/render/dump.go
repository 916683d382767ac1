package render

import (
	"encoding/json"
	"fmt"
	"iter"

	"github.com/kk-code-lab/mdconv/internal/markdown"
)

type dumpRun struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type dumpBlock struct {
	Type  string        `json:"type"`
	Level int           `json:"level,omitempty"`
	Lang  string        `json:"lang,omitempty"`
	Text  string        `json:"text,omitempty"`
	Runs  []dumpRun     `json:"runs,omitempty"`
	Cols  int           `json:"columns,omitempty"`
	Rows  [][][]dumpRun `json:"rows,omitempty"`
}

func dumpRuns(runs []markdown.Run) []dumpRun {
	out := make([]dumpRun, len(runs))
	for i, run := range runs {
		out[i] = dumpRun{Kind: run.Kind.String(), Text: run.Text}
	}
	return out
}

// DumpBlocks encodes the block model, with tokenized runs, as indented JSON.
func DumpBlocks(blocks iter.Seq[markdown.Block]) ([]byte, error) {
	out := []dumpBlock{}
	for block := range blocks {
		entry := dumpBlock{Type: block.BlockType().String()}
		switch b := block.(type) {
		case markdown.Heading:
			entry.Level = b.Level
			entry.Runs = dumpRuns(markdown.Tokenize(b.Text))
		case markdown.Paragraph:
			entry.Runs = dumpRuns(markdown.Tokenize(b.Text))
		case markdown.CodeBlock:
			entry.Lang = b.Lang
			entry.Text = b.Text
		case markdown.Table:
			entry.Cols = b.Columns()
			entry.Rows = make([][][]dumpRun, len(b.Rows))
			for i, row := range b.Rows {
				entry.Rows[i] = make([][]dumpRun, len(row))
				for j, cell := range row {
					entry.Rows[i][j] = dumpRuns(markdown.Tokenize(cell))
				}
			}
		}
		out = append(out, entry)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding blocks: %w", err)
	}
	return append(data, '\n'), nil
}
