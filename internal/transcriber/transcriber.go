package transcriber

import "context"

// RawSegment is a backend-reported piece of text with chunk-relative
// timestamps in whatever unit the backend happened to use (seconds,
// centiseconds, or milliseconds; the unit is not declared and is inferred
// downstream).
type RawSegment struct {
	Start float64
	End   float64
	Text  string
}

// Kind classifies a backend by where inference runs. The transcript merge
// uses it to pick the overlap clamp threshold: network backends report
// sloppier boundaries than in-process inference.
type Kind string

const (
	KindCloud       Kind = "cloud"
	KindLocalServer Kind = "local-server"
	KindInProcess   Kind = "in-process"
)

// ChunkTranscriber converts one chunk of raw samples into zero or more raw
// segments. Implementations must be safe for concurrent use: the pipeline
// calls Transcribe from multiple workers at once.
//
// Errors are classified through the services markers: services.ErrTransient
// failures are retried with backoff, anything else abandons the chunk (never
// the job).
type ChunkTranscriber interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]RawSegment, error)
	Kind() Kind
	Name() string
}
