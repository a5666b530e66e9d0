package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"subpick/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPassID is the standardized structured logging key for selection pass identifiers.
	FieldPassID = "pass_id"
	// FieldMediaPath is the standardized structured logging key for the media under evaluation.
	FieldMediaPath = "media_path"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldDecisionType names the kind of decision being logged.
	FieldDecisionType = "decision_type"
)

// NewPassID returns a fresh selection pass identifier.
func NewPassID() string {
	return uuid.NewString()
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.PassIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPassID, id))
	}
	if path, ok := services.MediaPathFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldMediaPath, path))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
