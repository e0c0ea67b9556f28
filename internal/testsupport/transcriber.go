package testsupport

import (
	"context"
	"sync"

	"subgen/internal/transcriber"
)

// ScriptFunc produces the response for one Transcribe call. The call index
// counts from zero across all invocations.
type ScriptFunc func(call int, samples []float32, sampleRate int) ([]transcriber.RawSegment, error)

// ScriptedTranscriber is a fake backend driven by a script function. It
// records every call so tests can assert on dispatch behavior.
type ScriptedTranscriber struct {
	BackendKind transcriber.Kind
	Script      ScriptFunc

	mu    sync.Mutex
	calls int
}

var _ transcriber.ChunkTranscriber = (*ScriptedTranscriber)(nil)

func (s *ScriptedTranscriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]transcriber.RawSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()
	if s.Script == nil {
		return nil, nil
	}
	return s.Script(call, samples, sampleRate)
}

func (s *ScriptedTranscriber) Kind() transcriber.Kind {
	return s.BackendKind
}

func (s *ScriptedTranscriber) Name() string {
	return "scripted"
}

// Calls reports how many times Transcribe ran.
func (s *ScriptedTranscriber) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
