package services

import "context"

type contextKey string

const (
	passIDKey    contextKey = "pass_id"
	mediaPathKey contextKey = "media_path"
)

// WithPassID annotates context with the selection pass identifier.
func WithPassID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, passIDKey, id)
}

// PassIDFromContext extracts the selection pass identifier if present.
func PassIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(passIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithMediaPath annotates context with the media file under evaluation.
func WithMediaPath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, mediaPathKey, path)
}

// MediaPathFromContext returns the media path if present.
func MediaPathFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(mediaPathKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
