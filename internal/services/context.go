package services

import "context"

type contextKey string

const (
	jobIDKey   contextKey = "job_id"
	epochKey   contextKey = "epoch"
	backendKey contextKey = "backend"
)

// WithJobID annotates context with the transcription job identifier.
func WithJobID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the job identifier if present.
func JobIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(jobIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithEpoch annotates context with the job epoch counter.
func WithEpoch(ctx context.Context, epoch uint64) context.Context {
	return context.WithValue(ctx, epochKey, epoch)
}

// EpochFromContext extracts the job epoch if present.
func EpochFromContext(ctx context.Context) (uint64, bool) {
	if v, ok := ctx.Value(epochKey).(uint64); ok {
		return v, true
	}
	return 0, false
}

// WithBackend annotates context with the transcriber backend name.
func WithBackend(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, backendKey, name)
}

// BackendFromContext extracts the backend name if present.
func BackendFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(backendKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
