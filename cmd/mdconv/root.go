package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/mdconv/internal/log"
	"github.com/kk-code-lab/mdconv/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// config is shared by the subcommands. logger is set once flags and the
// config file have been read.
type config struct {
	v      *viper.Viper
	logger log.Logger
}

func newRootCmd() *cobra.Command {
	cfg := &config{v: viper.New(), logger: log.NewEmptyLog()}
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "mdconv",
		Short: "Markdown converter and viewer",
		Long: "mdconv parses a small Markdown dialect (headings, paragraphs, fenced code, pipe tables,\n" +
			"bold, italic and inline code) and renders it as text, HTML or an interactive terminal view.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.v, cfgFile); err != nil {
				return err
			}
			cfg.logger = newLogger(cmd.ErrOrStderr(), cfg.v)
			if used := cfg.v.ConfigFileUsed(); used != "" {
				cfg.logger.Debug("using config file %s", used)
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return cfg.logger.Close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: .mdconv.yaml in the working directory or $HOME)")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.Bool("debug", false, "Debug output")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Int("width", 0, "Wrap width in columns (0: terminal width for text, unlimited otherwise)")
	flags.Int("max-heading-level", render.DefaultOptions().MaxHeadingLevel, "Deepest heading level rendered")
	flags.Int("max-cell-lines", 0, "Wrapped lines shown per table cell in text output (0: all)")
	flags.Bool("strict-tables", false, "Fail on tables whose rows have differing cell counts")

	_ = cfg.v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = cfg.v.BindPFlag("debug", flags.Lookup("debug"))
	_ = cfg.v.BindPFlag("no_color", flags.Lookup("no-color"))
	_ = cfg.v.BindPFlag("width", flags.Lookup("width"))
	_ = cfg.v.BindPFlag("max_heading_level", flags.Lookup("max-heading-level"))
	_ = cfg.v.BindPFlag("max_cell_lines", flags.Lookup("max-cell-lines"))
	_ = cfg.v.BindPFlag("strict_tables", flags.Lookup("strict-tables"))

	cmd.AddCommand(newRenderCmd(cfg), newConvertCmd(cfg), newViewCmd(cfg))
	return cmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("MDCONV")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".mdconv")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func newLogger(w io.Writer, v *viper.Viper) log.Logger {
	level := log.LevelInfo
	if v.GetBool("verbose") || v.GetBool("debug") {
		level = log.LevelDebug
	}
	return log.New(w, w, log.Options{
		Level:      level,
		Color:      useColor(w, v),
		Timestamps: v.GetBool("debug"),
	})
}

func useColor(w io.Writer, v *viper.Viper) bool {
	if v.GetBool("no_color") || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

// renderOptions reads the sink settings from the merged configuration.
func (c *config) renderOptions(title string) (render.Options, error) {
	opts := render.Options{
		Width:           c.v.GetInt("width"),
		MaxHeadingLevel: c.v.GetInt("max_heading_level"),
		MaxCellLines:    c.v.GetInt("max_cell_lines"),
		StrictTables:    c.v.GetBool("strict_tables"),
		Title:           title,
	}
	if opts.Width < 0 {
		return opts, fmt.Errorf("invalid width %d", opts.Width)
	}
	if opts.MaxCellLines < 0 {
		return opts, fmt.Errorf("invalid max cell lines %d", opts.MaxCellLines)
	}
	if opts.MaxHeadingLevel < 1 {
		return opts, fmt.Errorf("invalid max heading level %d", opts.MaxHeadingLevel)
	}
	return opts, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of w, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// documentTitle is the file name without its extension.
func documentTitle(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
