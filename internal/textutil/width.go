package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const DefaultTabWidth = 4

// DisplayWidth reports how many terminal columns text occupies. Widths are
// measured per grapheme cluster so emoji sequences count once.
func DisplayWidth(text string) int {
	width := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		width += clusterWidth(g.Str())
	}
	return width
}

func clusterWidth(cluster string) int {
	w := uniseg.StringWidth(cluster)
	if w < 1 {
		return 1
	}
	return w
}

// ExpandTabs replaces tabs with spaces up to the next multiple of tabWidth.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	column := 0
	for _, r := range text {
		if r == '\t' {
			spaces := tabWidth - column%tabWidth
			b.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		b.WriteRune(r)
		column += max(runewidth.RuneWidth(r), 1)
	}
	return b.String()
}

// Truncate shortens text to at most width columns, ending it with ellipsis
// when anything was cut. Grapheme clusters are never split.
func Truncate(text string, width int, ellipsis string) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	target := width - DisplayWidth(ellipsis)
	if target < 0 {
		return runewidth.Truncate(ellipsis, width, "")
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		w := clusterWidth(cluster)
		if used+w > target {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

