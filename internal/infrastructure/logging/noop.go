package logging

import (
	"context"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

// NoOpLogger discards all log entries.
type NoOpLogger struct{}

// NewNoOpLogger returns a ports.Logger that discards all log entries.
func NewNoOpLogger() ports.Logger { return NoOpLogger{} }

func (NoOpLogger) Debug(context.Context, string, ...interface{}) {}
func (NoOpLogger) Info(context.Context, string, ...interface{})  {}
func (NoOpLogger) Warn(context.Context, string, ...interface{})  {}
func (NoOpLogger) Error(context.Context, string, ...interface{}) {}

// With returns the receiver; there is nothing to carry.
func (n NoOpLogger) With(...interface{}) ports.Logger { return n }
