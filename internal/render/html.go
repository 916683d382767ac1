package render

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/kk-code-lab/mdconv/internal/markdown"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLSink builds an HTML document tree and serialises it on finalize.
type HTMLSink struct {
	opts   Options
	doc    *html.Node
	head   *html.Node
	body   *html.Node
	titled bool
	tables int
	err    error
}

var errNotStarted = errors.New("html sink: document not started")

var _ Sink[[]byte] = (*HTMLSink)(nil)

// NewHTMLSink returns a sink using opts. Options.Width is ignored.
func NewHTMLSink(opts Options) *HTMLSink {
	return &HTMLSink{opts: opts}
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func (s *HTMLSink) BeginDocument() {
	s.tables = 0
	s.err = nil

	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	s.head = element(atom.Head, meta)
	s.titled = false
	s.setTitle(s.opts.Title)
	s.body = element(atom.Body)

	s.doc = &html.Node{Type: html.DocumentNode}
	s.doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	s.doc.AppendChild(element(atom.Html, s.head, s.body))
}

func (s *HTMLSink) setTitle(title string) {
	if s.titled || title == "" {
		return
	}
	s.head.AppendChild(element(atom.Title, textNode(title)))
	s.titled = true
}

// started records errNotStarted when an Append call comes before
// BeginDocument.
func (s *HTMLSink) started() bool {
	if s.body != nil {
		return true
	}
	if s.err == nil {
		s.err = errNotStarted
	}
	return false
}

func headingAtom(level int) atom.Atom {
	return atom.Lookup([]byte("h" + strconv.Itoa(level)))
}

// appendRuns adds runs to parent as text, <strong>, <em> and <code> nodes.
func appendRuns(parent *html.Node, runs []markdown.Run) {
	for _, run := range runs {
		switch run.Kind {
		case markdown.RunBold:
			parent.AppendChild(element(atom.Strong, textNode(run.Text)))
		case markdown.RunItalic:
			parent.AppendChild(element(atom.Em, textNode(run.Text)))
		case markdown.RunCode:
			parent.AppendChild(element(atom.Code, textNode(run.Text)))
		default:
			parent.AppendChild(textNode(run.Text))
		}
	}
}

// AppendHeading adds a heading. Without Options.Title the first heading's
// text becomes the document title.
func (s *HTMLSink) AppendHeading(level int, runs []markdown.Run) {
	if !s.started() {
		return
	}
	s.setTitle(markdown.PlainText(runs))
	h := element(headingAtom(s.opts.headingLevel(min(level, 6))))
	appendRuns(h, runs)
	s.body.AppendChild(h)
}

func (s *HTMLSink) AppendParagraph(runs []markdown.Run) {
	if !s.started() {
		return
	}
	p := element(atom.P)
	appendRuns(p, runs)
	s.body.AppendChild(p)
}

func (s *HTMLSink) AppendCodeBlock(code string) {
	if !s.started() {
		return
	}
	s.body.AppendChild(element(atom.Pre, element(atom.Code, textNode(code))))
}

func (s *HTMLSink) AppendTable(rows [][][]markdown.Run) {
	if !s.started() {
		return
	}
	index := s.tables
	s.tables++
	if len(rows) == 0 {
		return
	}
	if s.opts.StrictTables && s.err == nil {
		s.err = checkTableShape(index, rows)
	}
	rows = padRows(rows, tableColumns(rows))

	row := func(cellAtom atom.Atom, cells [][]markdown.Run) *html.Node {
		tr := element(atom.Tr)
		for _, cell := range cells {
			c := element(cellAtom)
			appendRuns(c, cell)
			tr.AppendChild(c)
		}
		return tr
	}

	table := element(atom.Table, element(atom.Thead, row(atom.Th, rows[0])))
	if len(rows) > 1 {
		tbody := element(atom.Tbody)
		for _, r := range rows[1:] {
			tbody.AppendChild(row(atom.Td, r))
		}
		table.AppendChild(tbody)
	}
	s.body.AppendChild(table)
}

func (s *HTMLSink) FinalizeDocument() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.doc == nil {
		return nil, errNotStarted
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, s.doc); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
