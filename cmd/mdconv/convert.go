package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/kk-code-lab/mdconv/internal/source"
	"github.com/spf13/cobra"
)

func newConvertCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [dir]",
		Short: "Convert every markdown file in a directory to HTML",
		Long: "Convert each markdown file directly inside dir (default: the working directory)\n" +
			"to an .html file next to it. Files that fail are reported and skipped.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runConvert(cmd, cfg, dir)
		},
	}
}

func runConvert(cmd *cobra.Command, cfg *config, dir string) error {
	paths, err := source.Glob(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no markdown files found in %s", dir)
	}

	cfg.logger.Info("Converting %d markdown files to HTML...", len(paths))
	var failed []error
	for _, path := range paths {
		out, err := convertFile(cfg, path)
		if err != nil {
			cfg.logger.Error("%v", err)
			failed = append(failed, err)
			continue
		}
		cfg.logger.Info("Created: %s", filepath.Base(out))
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(failed), len(paths), errors.Join(failed...))
	}
	summary := fmt.Sprintf("Done. %d files converted.", len(paths))
	if useColor(cmd.ErrOrStderr(), cfg.v) {
		summary = color.Green.Sprint(summary)
	}
	cfg.logger.Info("%s", summary)
	return nil
}

// convertFile writes path's HTML rendering next to it and returns the new path.
func convertFile(cfg *config, path string) (string, error) {
	doc, err := source.Load(path)
	if err != nil {
		return "", err
	}
	opts, err := cfg.renderOptions(documentTitle(doc.Name))
	if err != nil {
		return "", err
	}
	data, err := renderDocument(doc, formatHTML, opts)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", doc.Name, err)
	}
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}
