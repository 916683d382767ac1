package log

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/gookit/color"
)

type Logger interface {
	Error(format string, v ...any)
	Warning(format string, v ...any)
	Info(format string, v ...any)
	Debug(format string, v ...any)
	Close() error
}

type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

type Options struct {
	Level Level
	Color bool
	// Timestamps prefixes every line with date and time.
	Timestamps bool
}

// New returns a logger writing to w. Errors and warnings go to errw when it
// is non-nil, so progress output can stay on stdout.
func New(w, errw io.Writer, opts Options) *StdLog {
	if errw == nil {
		errw = w
	}
	flags := 0
	if opts.Timestamps {
		flags = log.Ldate | log.Ltime
	}
	prefix := func(label string, style color.Color) string {
		if label == "" {
			return ""
		}
		if opts.Color {
			return style.Sprint(label) + " "
		}
		return label + " "
	}
	return &StdLog{
		level: opts.Level,
		err:   log.New(errw, prefix("ERROR", color.Red), flags|log.Lmsgprefix),
		wrn:   log.New(errw, prefix("WARN", color.Yellow), flags|log.Lmsgprefix),
		inf:   log.New(w, "", flags),
		dbg:   log.New(errw, prefix("DEBUG", color.Cyan), flags|log.Lmsgprefix),
	}
}

type StdLog struct {
	mu                 sync.Mutex
	level              Level
	err, wrn, inf, dbg *log.Logger
}

func (l *StdLog) output(level Level, logger *log.Logger, format string, v ...any) {
	if level > l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = logger.Output(3, fmt.Sprintf(format, v...))
}

func (l *StdLog) Error(format string, v ...any) {
	l.output(LevelError, l.err, format, v...)
}

func (l *StdLog) Warning(format string, v ...any) {
	l.output(LevelWarning, l.wrn, format, v...)
}

func (l *StdLog) Info(format string, v ...any) {
	l.output(LevelInfo, l.inf, format, v...)
}

func (l *StdLog) Debug(format string, v ...any) {
	l.output(LevelDebug, l.dbg, format, v...)
}

func (l *StdLog) Close() error { return nil }

type EmptyLog struct{}

func NewEmptyLog() Logger { return EmptyLog{} }

func (l EmptyLog) Error(string, ...any)   {}
func (l EmptyLog) Warning(string, ...any) {}
func (l EmptyLog) Info(string, ...any)    {}
func (l EmptyLog) Debug(string, ...any)   {}
func (l EmptyLog) Close() error           { return nil }
