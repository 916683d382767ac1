package markdown

// Block is one structural unit of a document. The concrete types are
// Heading, Paragraph, CodeBlock and Table.
type Block interface {
	BlockType() BlockType
}

// BlockType identifies the variant behind a Block.
type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockHeading
	BlockCode
	BlockTable
)

func (t BlockType) String() string {
	switch t {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	case BlockCode:
		return "code"
	case BlockTable:
		return "table"
	default:
		return "unknown"
	}
}

// Heading is an ATX heading. Level is the number of leading '#' characters
// and is never capped here; sinks clamp it to what they can render.
type Heading struct {
	Level int
	Text  string
}

func (Heading) BlockType() BlockType { return BlockHeading }

// Paragraph holds consecutive text lines joined with a single space.
type Paragraph struct {
	Text string
}

func (Paragraph) BlockType() BlockType { return BlockParagraph }

// CodeBlock holds the verbatim lines between two fences, joined with '\n'.
// Lang is the info string following the opening fence.
type CodeBlock struct {
	Lang string
	Text string
}

func (CodeBlock) BlockType() BlockType { return BlockCode }

// Table holds cell rows in source order; Rows[0] is the header. Separator
// rows are never included and short rows are not padded.
type Table struct {
	Rows [][]string
}

func (Table) BlockType() BlockType { return BlockTable }

// Columns reports the widest row's cell count.
func (t Table) Columns() int {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}
