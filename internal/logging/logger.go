// Package logging adapts pterm's structured logger to runtime.Logger, so code
// written against the Nakama runtime also logs from the standalone binaries.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/pterm/pterm"
)

type Logger struct {
	pl     *pterm.Logger
	fields map[string]interface{}
}

// New returns a logger writing to w at level ("debug", "info", "warn", "error" or
// "off"). A nil w keeps pterm's default output.
func New(level string, w io.Writer) *Logger {
	pl := pterm.DefaultLogger.WithLevel(ParseLevel(level))
	if w != nil {
		pl = pl.WithWriter(w)
	}
	return &Logger{pl: pl}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New("off", io.Discard)
}

// ParseLevel maps a level name to a pterm level. Unknown names mean info.
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.pl.Debug(fmt.Sprintf(format, v...), l.args())
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.pl.Info(fmt.Sprintf(format, v...), l.args())
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.pl.Warn(fmt.Sprintf(format, v...), l.args())
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.pl.Error(fmt.Sprintf(format, v...), l.args())
}

func (l *Logger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

// WithFields returns a child logger carrying fields in addition to the parent's.
func (l *Logger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{pl: l.pl, fields: merged}
}

func (l *Logger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}

// args renders fields in key order.
func (l *Logger) args() []pterm.LoggerArgument {
	if len(l.fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, l.fields[k])
	}
	return l.pl.Args(kv...)
}

var _ runtime.Logger = (*Logger)(nil)
