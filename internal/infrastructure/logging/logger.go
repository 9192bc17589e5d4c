// Package logging adapts charmbracelet/log to ports.Logger and provides the
// discarding and buffering loggers used by the picker front ends.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	cblog "github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

// DefaultComponent tags entries from loggers created without a component.
const DefaultComponent = "colorpick"

// Options configures the charmbracelet/log adapter.
type Options struct {
	Writer       io.Writer
	Level        string
	TimeFormat   string
	ReportCaller bool
	Formatter    cblog.Formatter
	Component    string
	Fields       map[string]interface{}
}

// Logger implements ports.Logger using charmbracelet/log.
type Logger struct {
	logger *cblog.Logger
	fields []interface{}
}

// New creates a Logger adapter with the supplied options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	base := cblog.NewWithOptions(writer, cblog.Options{
		Level:           level,
		TimeFormat:      opts.TimeFormat,
		ReportTimestamp: opts.TimeFormat != "",
		ReportCaller:    opts.ReportCaller,
		Formatter:       opts.Formatter,
		Fields:          sortedPairs(opts.Fields),
	})

	component := opts.Component
	if component == "" {
		component = DefaultComponent
	}

	return &Logger{logger: base, fields: []interface{}{"component", component}}, nil
}

// NewConsole builds the CLI logger on w. Terminals get the coloured text
// formatter; pipes and files get logfmt so output stays greppable.
func NewConsole(w io.Writer, verbose bool) *Logger {
	level := "info"
	if verbose {
		level = "debug"
	}
	formatter := cblog.LogfmtFormatter
	if isTerminal(w) {
		formatter = cblog.TextFormatter
	}
	// The level literals above always parse.
	logger, _ := New(Options{Writer: w, Level: level, Formatter: formatter})
	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Debug emits a debug log entry.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.DebugLevel, msg, fields)
}

// Info emits an info log entry.
func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.InfoLevel, msg, fields)
}

// Warn emits a warning log entry.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.WarnLevel, msg, fields)
}

// Error emits an error log entry.
func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.ErrorLevel, msg, fields)
}

// With derives a new logger with persistent fields. Later keys override
// earlier ones.
func (l *Logger) With(fields ...interface{}) ports.Logger {
	if l == nil {
		return NewNoOpLogger()
	}
	return &Logger{logger: l.logger, fields: merge(l.fields, fields)}
}

func (l *Logger) log(ctx context.Context, level cblog.Level, msg string, fields []interface{}) {
	if l == nil || l.logger == nil {
		return
	}
	payload := merge(l.fields, fields)
	if id := ports.GetCorrelationID(ctx); id != "" {
		payload = merge(payload, []interface{}{"correlation_id", id})
	}
	l.logger.Log(level, msg, payload...)
}

func sortedPairs(input map[string]interface{}) []interface{} {
	if len(input) == 0 {
		return nil
	}
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]interface{}, 0, len(input)*2)
	for _, k := range keys {
		res = append(res, k, input[k])
	}
	return res
}

// merge appends key/value pairs to base, replacing values of keys already
// present in place. Pairs with a non-string key are dropped.
func merge(base, additions []interface{}) []interface{} {
	out := make([]interface{}, 0, len(base)+len(additions))
	positions := make(map[string]int, (len(base)+len(additions))/2)

	for _, values := range [][]interface{}{base, additions} {
		for i := 0; i+1 < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok || key == "" {
				continue
			}
			if pos, seen := positions[key]; seen {
				out[pos+1] = values[i+1]
				continue
			}
			positions[key] = len(out)
			out = append(out, key, values[i+1])
		}
	}
	return out
}

var _ ports.Logger = (*Logger)(nil)
