package viewer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdconv/internal/render"
)

// Theme defines viewer colors.
type Theme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HeadingFg   tcell.Color
	CodeBg      tcell.Color
	CodeFg      tcell.Color
	CodeBlockBg tcell.Color
	CodeBlockFg tcell.Color
	BorderFg    tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
}

// DefaultTheme returns the default color scheme.
func DefaultTheme() Theme {
	return Theme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeadingFg:   tcell.Color33,
		CodeBg:      tcell.ColorDefault,
		CodeFg:      tcell.Color44,
		CodeBlockBg: tcell.Color234,
		CodeBlockFg: tcell.Color252,
		BorderFg:    tcell.ColorLightSlateGray,
		FooterBg:    tcell.Color236,
		FooterFg:    tcell.ColorWhite,
	}
}

// MonochromeTheme uses attributes only, for --no-color.
func MonochromeTheme() Theme {
	return Theme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeadingFg:   tcell.ColorDefault,
		CodeBg:      tcell.ColorDefault,
		CodeFg:      tcell.ColorDefault,
		CodeBlockBg: tcell.ColorDefault,
		CodeBlockFg: tcell.ColorDefault,
		BorderFg:    tcell.ColorDefault,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
	}
}

func (t Theme) base() tcell.Style {
	return tcell.StyleDefault.Background(t.Background).Foreground(t.Foreground)
}

func (t Theme) footer() tcell.Style {
	style := tcell.StyleDefault.Background(t.FooterBg).Foreground(t.FooterFg)
	if t.FooterBg == tcell.ColorDefault {
		style = style.Reverse(true)
	}
	return style
}

// Style maps a segment style onto the base style.
func (t Theme) Style(kind render.TextStyleKind) tcell.Style {
	base := t.base()
	switch kind {
	case render.TextStyleStrong:
		return base.Bold(true)
	case render.TextStyleEmphasis:
		return base.Italic(true)
	case render.TextStyleHeading:
		style := base.Bold(true)
		if t.HeadingFg != tcell.ColorDefault {
			style = style.Foreground(t.HeadingFg)
		}
		return style
	case render.TextStyleCode:
		style := base
		if t.CodeFg != tcell.ColorDefault {
			style = style.Foreground(t.CodeFg)
		}
		if t.CodeBg != tcell.ColorDefault {
			style = style.Background(t.CodeBg)
		}
		return style
	case render.TextStyleCodeBlock:
		style := base
		if t.CodeBlockFg != tcell.ColorDefault {
			style = style.Foreground(t.CodeBlockFg)
		}
		if t.CodeBlockBg != tcell.ColorDefault {
			style = style.Background(t.CodeBlockBg)
		}
		return style
	case render.TextStyleTableBorder:
		if t.BorderFg != tcell.ColorDefault {
			return base.Foreground(t.BorderFg)
		}
		return base.Dim(true)
	default:
		return base
	}
}
