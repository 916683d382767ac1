package main

import (
	"errors"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdconv/internal/markdown"
	"github.com/kk-code-lab/mdconv/internal/render"
	"github.com/kk-code-lab/mdconv/internal/source"
	"github.com/kk-code-lab/mdconv/internal/ui/viewer"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newScreen returns an initialized screen. Tests replace it with a
// simulation screen.
var newScreen = func() (tcell.Screen, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errors.New("view needs a terminal")
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

func newViewCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "view <file.md>",
		Short: "Show a markdown file in an interactive terminal viewer",
		Long: "Show a markdown file full screen.\n" +
			"Keys: j/Down, k/Up scroll; Space/PgDn, b/PgUp page; g/Home, G/End jump; q/Esc quit.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runView(cfg, args[0])
		},
	}
}

func runView(cfg *config, path string) error {
	doc, err := source.Load(path)
	if err != nil {
		return err
	}
	opts, err := cfg.renderOptions(documentTitle(doc.Name))
	if err != nil {
		return err
	}
	fixedWidth := opts.Width

	screen, err := newScreen()
	if err != nil {
		return err
	}
	defer screen.Fini()

	theme := viewer.DefaultTheme()
	if cfg.v.GetBool("no_color") || os.Getenv("NO_COLOR") != "" {
		theme = viewer.MonochromeTheme()
	}

	layout := func(width int) ([][]render.StyledTextSegment, error) {
		layoutOpts := opts
		layoutOpts.Width = width
		if fixedWidth > 0 {
			layoutOpts.Width = min(fixedWidth, width)
		}
		return render.Render[[][]render.StyledTextSegment](markdown.Segment(doc.Lines), render.NewSegmentSink(layoutOpts))
	}

	v, err := viewer.New(screen, theme, doc.Name, layout)
	if err != nil {
		return err
	}
	return v.Run()
}
