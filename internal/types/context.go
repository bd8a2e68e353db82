package types

import "context"

type contextKey string

const (
	// ExtractorNameKey is the context key for the backend name (e.g. "ytdlp", "youtube").
	ExtractorNameKey contextKey = "extractorName"
)

// WithExtractorName returns a new context with the backend name added.
func WithExtractorName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ExtractorNameKey, name)
}

// ExtractorNameFromContext returns the backend name from the context.
func ExtractorNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(ExtractorNameKey).(string)
	return name, ok
}
