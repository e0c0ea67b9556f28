package transcriber

import (
	"context"

	"subgen/internal/services"
)

// Model is an in-process inference engine. Implementations wrap a loaded
// speech model (whisper.cpp bindings or similar) and must be safe for
// concurrent use, typically via an internal worker pool.
type Model interface {
	Infer(ctx context.Context, samples []float32, sampleRate int) ([]RawSegment, error)
}

// InProcess transcribes chunks with an injected in-process model. There is
// no network hop, so failures are not retried: a model that failed once on
// a chunk will fail the same way again.
type InProcess struct {
	model Model
}

// NewInProcess builds the in-process backend around a loaded model.
func NewInProcess(model Model) (*InProcess, error) {
	if model == nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcriber", "in-process", "model required", nil)
	}
	return &InProcess{model: model}, nil
}

func (p *InProcess) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]RawSegment, error) {
	segments, err := p.model.Infer(ctx, samples, sampleRate)
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "transcriber", "in-process", "model inference failed", err)
	}
	return segments, nil
}

func (p *InProcess) Kind() Kind { return KindInProcess }

func (p *InProcess) Name() string { return "in-process" }
