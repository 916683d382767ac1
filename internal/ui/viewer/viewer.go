package viewer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdconv/internal/render"
	"github.com/kk-code-lab/mdconv/internal/textutil"
	"github.com/rivo/uniseg"
)

// Layout lays the document out for a screen width.
type Layout func(width int) ([][]render.StyledTextSegment, error)

// Viewer is a scrollable full-screen view of a rendered document. The last
// screen row is the footer.
type Viewer struct {
	screen tcell.Screen
	theme  Theme
	layout Layout
	title  string

	lines  [][]render.StyledTextSegment
	top    int
	width  int
	height int
}

// New creates a viewer on an initialized screen.
func New(screen tcell.Screen, theme Theme, title string, layout Layout) (*Viewer, error) {
	v := &Viewer{
		screen: screen,
		theme:  theme,
		layout: layout,
		title:  title,
	}
	if err := v.relayout(); err != nil {
		return nil, err
	}
	return v, nil
}

// Run draws the document and handles events until the user quits.
func (v *Viewer) Run() error {
	v.Draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		quit, err := v.HandleEvent(ev)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		v.Draw()
	}
}

// Top returns the index of the first visible line.
func (v *Viewer) Top() int {
	return v.top
}

// Lines returns the number of laid out lines.
func (v *Viewer) Lines() int {
	return len(v.lines)
}

func (v *Viewer) relayout() error {
	v.width, v.height = v.screen.Size()
	lines, err := v.layout(v.width)
	if err != nil {
		return fmt.Errorf("layout at width %d: %w", v.width, err)
	}
	v.lines = lines
	v.scrollTo(v.top)
	return nil
}

func (v *Viewer) pageHeight() int {
	return max(v.height-1, 1)
}

func (v *Viewer) maxTop() int {
	return max(len(v.lines)-v.pageHeight(), 0)
}

func (v *Viewer) scrollTo(top int) {
	v.top = min(max(top, 0), v.maxTop())
}

// HandleEvent applies one event. It reports whether the viewer should quit.
func (v *Viewer) HandleEvent(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev), nil
	case *tcell.EventResize:
		v.screen.Sync()
		return false, v.relayout()
	}
	return false, nil
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyDown:
		v.scrollTo(v.top + 1)
	case tcell.KeyUp:
		v.scrollTo(v.top - 1)
	case tcell.KeyPgDn:
		v.scrollTo(v.top + v.pageHeight())
	case tcell.KeyPgUp:
		v.scrollTo(v.top - v.pageHeight())
	case tcell.KeyHome:
		v.scrollTo(0)
	case tcell.KeyEnd:
		v.scrollTo(v.maxTop())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'j':
			v.scrollTo(v.top + 1)
		case 'k':
			v.scrollTo(v.top - 1)
		case ' ':
			v.scrollTo(v.top + v.pageHeight())
		case 'b':
			v.scrollTo(v.top - v.pageHeight())
		case 'g':
			v.scrollTo(0)
		case 'G':
			v.scrollTo(v.maxTop())
		}
	}
	return false
}

// Draw paints the visible lines and the footer, then shows the screen.
func (v *Viewer) Draw() {
	base := v.theme.base()
	v.screen.SetStyle(base)
	v.screen.Clear()

	for row := 0; row < v.pageHeight() && row < v.height; row++ {
		idx := v.top + row
		if idx >= len(v.lines) {
			break
		}
		v.drawSegments(row, v.lines[idx])
	}
	if v.height > 1 {
		v.drawFooter(v.height - 1)
	}
	v.screen.Show()
}

func (v *Viewer) drawSegments(y int, segments []render.StyledTextSegment) {
	x := 0
	for _, seg := range segments {
		style := v.theme.Style(seg.Style)
		x = v.drawText(x, y, textutil.SanitizeTerminalText(seg.Text), style)
		if x >= v.width {
			return
		}
	}
}

// drawText paints text one grapheme cluster per cell and returns the next
// column. Clusters that would cross the right edge are dropped.
func (v *Viewer) drawText(x, y int, text string, style tcell.Style) int {
	state := -1
	for text != "" {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		width := textutil.DisplayWidth(cluster)
		if x+width > v.width {
			return v.width
		}
		runes := []rune(cluster)
		v.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
	return x
}

func (v *Viewer) drawFooter(y int) {
	style := v.theme.footer()
	for x := 0; x < v.width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
	status := v.status()
	right := textutil.DisplayWidth(status)
	name := textutil.Truncate(v.title, max(v.width-right-3, 0), "…")
	v.drawText(1, y, name, style)
	v.drawText(max(v.width-right-1, 0), y, status, style)
}

// status is "line/total" for the last visible line.
func (v *Viewer) status() string {
	total := len(v.lines)
	last := min(v.top+v.pageHeight(), total)
	return fmt.Sprintf("%d/%d", last, total)
}
