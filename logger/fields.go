package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging.
const (
	FieldRunID      = "run_id"
	FieldHandler    = "handler"
	FieldDecl       = "decl"
	FieldFile       = "file"
	FieldOutput     = "output"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldDiagnostic = "diagnostic"
	FieldSeverity   = "severity"
	FieldError      = "error"
	FieldPath       = "path"
)

type contextKey string

const runIDKey contextKey = "logger_run_id"

// WithRunID adds a run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID returns the run ID stored in ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// FromContext returns the global logger carrying the context's run ID.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if id := RunID(ctx); id != "" {
		return Logger.With(FieldRunID, id)
	}
	return Logger
}

// ComponentLogger returns a named logger for a specific component.
//
//	type Pipeline struct {
//	    log *zap.SugaredLogger
//	}
//
//	p := &Pipeline{log: logger.ComponentLogger("host.pipeline")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
