package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	cblog "github.com/charmbracelet/log"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

const defaultBufferLimit = 500

// Entry is a captured log record.
type Entry struct {
	Time          time.Time
	Level         cblog.Level
	Message       string
	Fields        []interface{}
	CorrelationID string
}

// String renders the entry on one line for display.
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(e.Level.String()))
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for i := 0; i+1 < len(e.Fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", e.Fields[i], e.Fields[i+1])
	}
	return b.String()
}

// Buffer keeps the most recent log entries in memory. The interactive picker
// logs into it while it owns the terminal and flushes it afterwards.
type Buffer struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
	now     func() time.Time
}

// NewBuffer creates a buffer holding at most limit entries (500 when limit <= 0).
// The oldest entry is dropped once the buffer is full.
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = defaultBufferLimit
	}
	return &Buffer{limit: limit, now: time.Now}
}

// Logger returns a ports.Logger writing into the buffer.
func (b *Buffer) Logger() ports.Logger {
	return &bufferLogger{buf: b}
}

func (b *Buffer) add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e.Time = b.now()
	if len(b.entries) == b.limit {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = e
		return
	}
	b.entries = append(b.entries, e)
}

// Len reports the number of buffered entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Tail returns up to n of the newest entries, oldest first.
func (b *Buffer) Tail(n int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n <= 0 || n > len(b.entries) {
		n = len(b.entries)
	}
	out := make([]Entry, n)
	copy(out, b.entries[len(b.entries)-n:])
	return out
}

// Flush replays buffered entries into delegate in order and empties the buffer.
func (b *Buffer) Flush(delegate ports.Logger) {
	if delegate == nil {
		return
	}
	b.mu.Lock()
	entries := b.entries
	b.entries = nil
	b.mu.Unlock()

	for _, e := range entries {
		ctx := context.Background()
		if e.CorrelationID != "" {
			ctx = ports.WithCorrelationID(ctx, e.CorrelationID)
		}
		switch e.Level {
		case cblog.DebugLevel:
			delegate.Debug(ctx, e.Message, e.Fields...)
		case cblog.WarnLevel:
			delegate.Warn(ctx, e.Message, e.Fields...)
		case cblog.ErrorLevel:
			delegate.Error(ctx, e.Message, e.Fields...)
		default:
			delegate.Info(ctx, e.Message, e.Fields...)
		}
	}
}

type bufferLogger struct {
	buf    *Buffer
	fields []interface{}
}

func (l *bufferLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.DebugLevel, msg, fields)
}

func (l *bufferLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.InfoLevel, msg, fields)
}

func (l *bufferLogger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.WarnLevel, msg, fields)
}

func (l *bufferLogger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.ErrorLevel, msg, fields)
}

func (l *bufferLogger) With(fields ...interface{}) ports.Logger {
	return &bufferLogger{buf: l.buf, fields: merge(l.fields, fields)}
}

func (l *bufferLogger) log(ctx context.Context, level cblog.Level, msg string, fields []interface{}) {
	l.buf.add(Entry{
		Level:         level,
		Message:       msg,
		Fields:        merge(l.fields, fields),
		CorrelationID: ports.GetCorrelationID(ctx),
	})
}
