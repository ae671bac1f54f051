// Package cli implements the ambient tooling cmd/valet needs: a small
// leveled logger (in the teacher's hand-rolled style — no pack repo's
// main.go-level code pulls in a logging framework) and the YAML
// configuration file reader.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Level is a log severity, ordered low to high.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

const (
	colorReset = "\033[0m"
	colorGray  = "\033[90m"
	colorBlue  = "\033[34m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

func levelColor(l Level) string {
	switch l {
	case LevelDebug:
		return colorGray
	case LevelInfo:
		return colorBlue
	case LevelWarn:
		return colorYellow
	case LevelError:
		return colorRed
	default:
		return colorReset
	}
}

// Logger writes leveled, timestamped lines to an output writer, optionally
// colored when the output is a terminal.
type Logger struct {
	Out        io.Writer
	Level      Level
	Color      bool
	TimeFormat string // strftime pattern, e.g. "%Y-%m-%dT%H:%M:%SZ"
}

// NewLogger builds a Logger writing at or above minLevel.
func NewLogger(out io.Writer, minLevel Level, color bool, timeFormat string) *Logger {
	if timeFormat == "" {
		timeFormat = "%Y-%m-%dT%H:%M:%SZ"
	}
	return &Logger{Out: out, Level: minLevel, Color: color, TimeFormat: timeFormat}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.Level {
		return
	}
	ts := strftime.Format(l.TimeFormat, time.Now().UTC())
	var sb strings.Builder
	if l.Color {
		sb.WriteString(levelColor(level))
	}
	sb.WriteString(ts)
	sb.WriteString(" ")
	sb.WriteString(levelNames[level])
	if l.Color {
		sb.WriteString(colorReset)
	}
	sb.WriteString(" ")
	fmt.Fprintf(&sb, format, args...)
	sb.WriteString("\n")
	io.WriteString(l.Out, sb.String())
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, format, args...) }
