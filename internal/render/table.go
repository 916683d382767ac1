package render

import (
	"strings"

	"github.com/kk-code-lab/mdconv/internal/markdown"
	"github.com/kk-code-lab/mdconv/internal/textutil"
	"github.com/rivo/uniseg"
)

type tableLayout struct {
	widths []int
	header []tableCell
	rows   [][]tableCell
}

type tableBorders struct {
	topLeft, topSep, topRight          string
	midLeft, midSep, midRight          string
	bottomLeft, bottomSep, bottomRight string
	vertical                           string
}

func defaultTableBorders() tableBorders {
	return tableBorders{
		topLeft:     "┌",
		topSep:      "┬",
		topRight:    "┐",
		midLeft:     "├",
		midSep:      "┼",
		midRight:    "┤",
		bottomLeft:  "└",
		bottomSep:   "┴",
		bottomRight: "┘",
		vertical:    "│",
	}
}

type tableRenderOptions struct {
	// MaxWidth clamps the total rendered width (in columns). Zero means unlimited.
	MaxWidth int
	// MaxLinesPerCell limits how many wrapped lines each cell may emit. Zero means unlimited.
	MaxLinesPerCell int
}

// cellEllipsis ends the last line of a cell cut short by MaxLinesPerCell.
const cellEllipsis = "…"

type tableCell struct {
	lines []cellLine
}

type cellLine struct {
	segments []StyledTextSegment
	width    int
}

// buildFormattedTable draws rows as a box table. rows[0] is the header and
// every row must already hold the same number of cells.
func buildFormattedTable(rows [][][]markdown.Run, opts tableRenderOptions) [][]StyledTextSegment {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	layout := buildTableLayout(rows, opts)
	return renderFormattedTable(layout, defaultTableBorders())
}

func buildTableLayout(rows [][][]markdown.Run, opts tableRenderOptions) tableLayout {
	headerRaw := make([]tableCell, len(rows[0]))
	for i, cell := range rows[0] {
		headerRaw[i] = makeTableCell(cell, TextStyleStrong)
	}
	bodyRaw := make([][]tableCell, len(rows)-1)
	for i, row := range rows[1:] {
		bodyRaw[i] = make([]tableCell, len(headerRaw))
		for j := range headerRaw {
			var cell []markdown.Run
			if j < len(row) {
				cell = row[j]
			}
			bodyRaw[i][j] = makeTableCell(cell, TextStylePlain)
		}
	}

	widths := computeColumnWidths(headerRaw, bodyRaw)
	widths = clampColumnWidths(widths, opts.MaxWidth)

	body := make([][]tableCell, len(bodyRaw))
	for i, row := range bodyRaw {
		body[i] = wrapCellsToWidth(row, widths, opts)
	}
	return tableLayout{
		widths: widths,
		header: wrapCellsToWidth(headerRaw, widths, opts),
		rows:   body,
	}
}

func makeTableCell(runs []markdown.Run, base TextStyleKind) tableCell {
	segments := runSegments(runs, base)
	if base == TextStyleStrong {
		// Header cells are bold throughout, code spans included.
		for i := range segments {
			if segments[i].Style != TextStyleCode {
				segments[i].Style = TextStyleStrong
			}
		}
	}
	return tableCell{lines: []cellLine{{segments: segments, width: segmentsWidth(segments)}}}
}

func renderFormattedTable(layout tableLayout, borders tableBorders) [][]StyledTextSegment {
	hCells := make([]string, len(layout.widths))
	for i, w := range layout.widths {
		hCells[i] = strings.Repeat("─", w+2)
	}
	border := func(left, sep, right string) []StyledTextSegment {
		return []StyledTextSegment{{Text: left + strings.Join(hCells, sep) + right, Style: TextStyleTableBorder}}
	}

	var lines [][]StyledTextSegment
	lines = append(lines, border(borders.topLeft, borders.topSep, borders.topRight))
	for i := 0; i < cellBlockHeight(layout.header); i++ {
		lines = append(lines, renderTableRow(layout.header, i, layout.widths, borders.vertical))
	}
	lines = append(lines, border(borders.midLeft, borders.midSep, borders.midRight))
	for _, row := range layout.rows {
		for i := 0; i < cellBlockHeight(row); i++ {
			lines = append(lines, renderTableRow(row, i, layout.widths, borders.vertical))
		}
	}
	lines = append(lines, border(borders.bottomLeft, borders.bottomSep, borders.bottomRight))
	return lines
}

func renderTableRow(cells []tableCell, lineIdx int, widths []int, vertical string) []StyledTextSegment {
	segments := []StyledTextSegment{{Text: vertical + " ", Style: TextStyleTableBorder}}
	for i, cell := range cells {
		var line cellLine
		if lineIdx < len(cell.lines) {
			line = cell.lines[lineIdx]
		}
		segments = append(segments, line.segments...)
		if pad := widths[i] - line.width; pad > 0 {
			segments = append(segments, StyledTextSegment{Text: strings.Repeat(" ", pad), Style: TextStylePlain})
		}
		sep := " " + vertical + " "
		if i == len(cells)-1 {
			sep = " " + vertical
		}
		segments = append(segments, StyledTextSegment{Text: sep, Style: TextStyleTableBorder})
	}
	return segments
}

func computeColumnWidths(header []tableCell, rows [][]tableCell) []int {
	widths := make([]int, len(header))
	update := func(cell tableCell, idx int) {
		for _, line := range cell.lines {
			widths[idx] = max(widths[idx], line.width)
		}
	}
	for i, cell := range header {
		update(cell, i)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				update(row[i], i)
			}
		}
	}
	return widths
}

func clampColumnWidths(widths []int, maxWidth int) []int {
	if maxWidth <= 0 || len(widths) == 0 {
		return widths
	}
	const minColWidth = 3
	total := tableWidth(widths)
	for total > maxWidth {
		idx := widestColumn(widths, minColWidth)
		if idx == -1 {
			break
		}
		widths[idx]--
		total--
	}
	return widths
}

func widestColumn(widths []int, minWidth int) int {
	maxIdx := -1
	maxVal := minWidth
	for i, w := range widths {
		if w > maxVal {
			maxVal = w
			maxIdx = i
		}
	}
	return maxIdx
}

// tableWidth is the rendered width: each column gets two spaces of padding
// and a border, plus the closing border.
func tableWidth(widths []int) int {
	if len(widths) == 0 {
		return 0
	}
	total := 0
	for _, w := range widths {
		total += w
	}
	return total + len(widths)*3 + 1
}

func wrapCellsToWidth(cells []tableCell, widths []int, opts tableRenderOptions) []tableCell {
	out := make([]tableCell, len(cells))
	for i, cell := range cells {
		target := 0
		if i < len(widths) {
			target = widths[i]
		}
		out[i] = wrapCellLines(cell, target, opts)
	}
	return out
}

func wrapCellLines(cell tableCell, width int, opts tableRenderOptions) tableCell {
	width = max(width, 1)
	var wrapped []cellLine
	for _, line := range cell.lines {
		for _, segLine := range wrapWords(line.segments, width) {
			wrapped = append(wrapped, cellLine{segments: segLine, width: segmentsWidth(segLine)})
		}
	}
	if len(wrapped) == 0 {
		wrapped = []cellLine{{}}
	}

	if opts.MaxLinesPerCell > 0 && len(wrapped) > opts.MaxLinesPerCell {
		wrapped = wrapped[:opts.MaxLinesPerCell]
		last := len(wrapped) - 1
		wrapped[last] = trimLineToWidth(wrapped[last], width, cellEllipsis)
	}
	return tableCell{lines: wrapped}
}

func trimLineToWidth(line cellLine, width int, ellipsis string) cellLine {
	ellWidth := textutil.DisplayWidth(ellipsis)
	if ellWidth >= width {
		return cellLine{segments: []StyledTextSegment{{Text: ellipsis, Style: TextStylePlain}}, width: ellWidth}
	}
	target := width - ellWidth
	var segs []StyledTextSegment
	curWidth := 0
	for _, seg := range line.segments {
		if curWidth >= target {
			break
		}
		var buf strings.Builder
		g := uniseg.NewGraphemes(seg.Text)
		for g.Next() {
			cluster := g.Str()
			w := textutil.DisplayWidth(cluster)
			if curWidth+w > target {
				break
			}
			buf.WriteString(cluster)
			curWidth += w
		}
		if buf.Len() > 0 {
			segs = append(segs, StyledTextSegment{Text: buf.String(), Style: seg.Style})
		}
	}
	segs = append(segs, StyledTextSegment{Text: ellipsis, Style: TextStylePlain})
	return cellLine{segments: segs, width: segmentsWidth(segs)}
}

// wrapSegmentsToWidth hard-wraps segments at grapheme boundaries. It always
// returns at least one line.
func wrapSegmentsToWidth(segments []StyledTextSegment, width int) [][]StyledTextSegment {
	if width <= 0 {
		return [][]StyledTextSegment{segments}
	}
	var lines [][]StyledTextSegment
	var current []StyledTextSegment
	currentWidth := 0

	flush := func() {
		line := make([]StyledTextSegment, len(current))
		copy(line, current)
		lines = append(lines, line)
		current = current[:0]
		currentWidth = 0
	}

	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		var buf strings.Builder
		g := uniseg.NewGraphemes(seg.Text)
		for g.Next() {
			cluster := g.Str()
			w := textutil.DisplayWidth(cluster)
			if currentWidth > 0 && currentWidth+w > width {
				if buf.Len() > 0 {
					current = append(current, StyledTextSegment{Text: buf.String(), Style: seg.Style})
					buf.Reset()
				}
				flush()
			}
			buf.WriteString(cluster)
			currentWidth += w
		}
		if buf.Len() > 0 {
			current = append(current, StyledTextSegment{Text: buf.String(), Style: seg.Style})
		}
	}
	if len(current) > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

func cellBlockHeight(cells []tableCell) int {
	height := 1
	for _, cell := range cells {
		height = max(height, len(cell.lines))
	}
	return height
}
