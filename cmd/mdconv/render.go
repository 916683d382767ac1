package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kk-code-lab/mdconv/internal/markdown"
	"github.com/kk-code-lab/mdconv/internal/render"
	"github.com/kk-code-lab/mdconv/internal/source"
	"github.com/spf13/cobra"
)

const (
	formatText   = "text"
	formatHTML   = "html"
	formatBlocks = "blocks"
)

func newRenderCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file.md>",
		Short: "Render a markdown file as text, HTML or a block dump",
		Long: "Parse a markdown file and write it to stdout or --out.\n" +
			"Formats: text (plain lines with box-drawn tables), html (standalone document),\n" +
			"blocks (the parsed block model as JSON).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, cfg, args[0])
		},
	}
	cmd.Flags().StringP("format", "f", formatText, "Output format: text, html or blocks")
	cmd.Flags().StringP("out", "o", "", "Write output to this file instead of stdout")

	_ = cfg.v.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = cfg.v.BindPFlag("out", cmd.Flags().Lookup("out"))
	return cmd
}

func runRender(cmd *cobra.Command, cfg *config, path string) error {
	format := strings.ToLower(cfg.v.GetString("format"))
	outPath := cfg.v.GetString("out")

	doc, err := source.Load(path)
	if err != nil {
		return err
	}
	opts, err := cfg.renderOptions(documentTitle(doc.Name))
	if err != nil {
		return err
	}
	if format == formatText && opts.Width == 0 && outPath == "" {
		opts.Width = terminalWidth(cmd.OutOrStdout())
	}

	start := time.Now()
	data, err := renderDocument(doc, format, opts)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", doc.Name, err)
	}
	cfg.logger.Debug("rendered %s as %s in %v (%d lines)", doc.Name, format, time.Since(start), len(doc.Lines))

	if outPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	cfg.logger.Info("Created: %s", outPath)
	return nil
}

func renderDocument(doc *source.Document, format string, opts render.Options) ([]byte, error) {
	blocks := markdown.Segment(doc.Lines)
	switch format {
	case formatText:
		lines, err := render.Render[[]string](blocks, render.NewTextSink(opts))
		if err != nil {
			return nil, err
		}
		return joinLines(lines), nil
	case formatHTML:
		return render.Render[[]byte](blocks, render.NewHTMLSink(opts))
	case formatBlocks:
		return render.DumpBlocks(blocks)
	default:
		return nil, fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatText, formatHTML, formatBlocks)
	}
}

func joinLines(lines []string) []byte {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
