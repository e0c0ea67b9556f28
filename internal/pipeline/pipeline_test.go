package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"subgen/internal/segment"
	"subgen/internal/services"
	"subgen/internal/testsupport"
	"subgen/internal/transcriber"
	"subgen/internal/transcript"
)

func fixedConfig() segment.Config {
	return segment.Config{Method: segment.MethodFixed}
}

func serialOptions() Options {
	return Options{Workers: 1, Retries: 3, RetryInterval: time.Millisecond}
}

// utteranceScript slices each chunk into utterance-sized segments so scale
// detection unambiguously picks seconds.
func utteranceScript(label string) testsupport.ScriptFunc {
	return func(call int, samples []float32, sampleRate int) ([]transcriber.RawSegment, error) {
		seconds := float64(len(samples)) / float64(sampleRate)
		var segments []transcriber.RawSegment
		for start := 0.0; start < seconds; start += 4 {
			end := start + 4
			if end > seconds {
				end = seconds
			}
			segments = append(segments, transcriber.RawSegment{
				Start: start,
				End:   end,
				Text:  fmt.Sprintf("%s call %d at %.0f", label, call, start),
			})
		}
		return segments, nil
	}
}

func TestRunTranscribesAllChunks(t *testing.T) {
	buf := testsupport.Tone(45, testsupport.DefaultRate)
	tr := &testsupport.ScriptedTranscriber{
		BackendKind: transcriber.KindInProcess,
		Script:      utteranceScript("chunk"),
	}

	snapshots := 0
	runner := NewRunner(nil)
	segments, err := runner.Run(context.Background(), buf, fixedConfig(), tr, Callbacks{
		OnSnapshot: func([]transcript.Segment) { snapshots++ },
	}, serialOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Chunks [0,20] and [20,45] split into 4s utterances: 5 + 7 segments.
	if len(segments) != 12 {
		t.Fatalf("expected 12 segments, got %d: %+v", len(segments), segments)
	}
	if segments[0].Start != 0 {
		t.Fatalf("expected transcript to start at 0, got %v", segments[0].Start)
	}
	if last := segments[len(segments)-1]; last.End != 45 {
		t.Fatalf("expected transcript to end at 45, got %v", last.End)
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].Start < segments[i-1].End {
			t.Fatalf("segments %d and %d overlap", i-1, i)
		}
	}
	if snapshots != 2 {
		t.Fatalf("expected a snapshot per chunk, got %d", snapshots)
	}
	if tr.Calls() != 2 {
		t.Fatalf("expected 2 backend calls, got %d", tr.Calls())
	}
}

func TestRunScalesMillisecondTimestamps(t *testing.T) {
	buf := testsupport.Tone(10, testsupport.DefaultRate)
	tr := &testsupport.ScriptedTranscriber{
		BackendKind: transcriber.KindLocalServer,
		Script: func(call int, samples []float32, sampleRate int) ([]transcriber.RawSegment, error) {
			return []transcriber.RawSegment{
				{Start: 0, End: 3000, Text: "alpha"},
				{Start: 3000, End: 9800, Text: "beta"},
			}, nil
		},
	}

	runner := NewRunner(nil)
	segments, err := runner.Run(context.Background(), buf, fixedConfig(), tr, Callbacks{}, serialOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].End != 3 {
		t.Fatalf("expected millisecond scale applied, first end = %v", segments[0].End)
	}
	if segments[1].End != 9.8 {
		t.Fatalf("second end = %v, want 9.8", segments[1].End)
	}
}

func TestRunRetriesTransientFailures(t *testing.T) {
	buf := testsupport.Tone(10, testsupport.DefaultRate)
	tr := &testsupport.ScriptedTranscriber{
		BackendKind: transcriber.KindLocalServer,
		Script: func(call int, samples []float32, sampleRate int) ([]transcriber.RawSegment, error) {
			if call < 2 {
				return nil, services.Wrap(services.ErrTransient, "transcriber", "upload", "connection reset", nil)
			}
			seconds := float64(len(samples)) / float64(sampleRate)
			return []transcriber.RawSegment{{Start: 0, End: seconds, Text: "recovered"}}, nil
		},
	}

	runner := NewRunner(nil)
	segments, err := runner.Run(context.Background(), buf, fixedConfig(), tr, Callbacks{}, serialOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(segments) != 1 || segments[0].Text != "recovered" {
		t.Fatalf("expected retried chunk to succeed, got %+v", segments)
	}
	if tr.Calls() != 3 {
		t.Fatalf("expected 3 attempts, got %d", tr.Calls())
	}
}

func TestRunSkipsChunkAfterPermanentError(t *testing.T) {
	buf := testsupport.Tone(45, testsupport.DefaultRate)
	tr := &testsupport.ScriptedTranscriber{
		BackendKind: transcriber.KindLocalServer,
		Script: func(call int, samples []float32, sampleRate int) ([]transcriber.RawSegment, error) {
			if call == 0 {
				return nil, services.Wrap(services.ErrBackend, "transcriber", "upload", "unsupported audio", nil)
			}
			seconds := float64(len(samples)) / float64(sampleRate)
			return []transcriber.RawSegment{{Start: 0, End: seconds, Text: "survivor"}}, nil
		},
	}

	runner := NewRunner(nil)
	segments, err := runner.Run(context.Background(), buf, fixedConfig(), tr, Callbacks{}, serialOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(segments) != 1 || segments[0].Text != "survivor" {
		t.Fatalf("expected failed chunk skipped and run to continue, got %+v", segments)
	}
	// The permanent failure must not be retried.
	if tr.Calls() != 2 {
		t.Fatalf("expected 2 backend calls, got %d", tr.Calls())
	}
}

func TestCancelSupersedesRun(t *testing.T) {
	buf := testsupport.Tone(45, testsupport.DefaultRate)
	runner := NewRunner(nil)
	tr := &testsupport.ScriptedTranscriber{
		BackendKind: transcriber.KindLocalServer,
		Script: func(call int, samples []float32, sampleRate int) ([]transcriber.RawSegment, error) {
			// Supersede the job while its first backend call is in flight.
			runner.Cancel()
			return []transcriber.RawSegment{{Start: 0, End: 1, Text: "stale"}}, nil
		},
	}

	_, err := runner.Run(context.Background(), buf, fixedConfig(), tr, Callbacks{}, serialOptions())
	if !errors.Is(err, services.ErrCancelled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
}

func TestContextCancellationStopsRun(t *testing.T) {
	buf := testsupport.Tone(45, testsupport.DefaultRate)
	ctx, cancel := context.WithCancel(context.Background())
	tr := &testsupport.ScriptedTranscriber{
		BackendKind: transcriber.KindLocalServer,
		Script: func(call int, samples []float32, sampleRate int) ([]transcriber.RawSegment, error) {
			cancel()
			return nil, nil
		},
	}

	runner := NewRunner(nil)
	_, err := runner.Run(ctx, buf, fixedConfig(), tr, Callbacks{}, serialOptions())
	if !errors.Is(err, services.ErrCancelled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
}

func TestRunUntimedSegmentSpansChunk(t *testing.T) {
	buf := testsupport.Tone(10, testsupport.DefaultRate)
	tr := &testsupport.ScriptedTranscriber{
		BackendKind: transcriber.KindLocalServer,
		Script: func(call int, samples []float32, sampleRate int) ([]transcriber.RawSegment, error) {
			return []transcriber.RawSegment{{Text: "text only"}}, nil
		},
	}

	runner := NewRunner(nil)
	segments, err := runner.Run(context.Background(), buf, fixedConfig(), tr, Callbacks{}, serialOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Start != 0 || segments[0].End != 10 {
		t.Fatalf("expected untimed segment to span the chunk, got [%v, %v]", segments[0].Start, segments[0].End)
	}
}

func TestRunRequiresTranscriber(t *testing.T) {
	buf := testsupport.Tone(10, testsupport.DefaultRate)
	runner := NewRunner(nil)
	if _, err := runner.Run(context.Background(), buf, fixedConfig(), nil, Callbacks{}, serialOptions()); err == nil {
		t.Fatal("expected missing transcriber to be rejected")
	}
}

func TestCaptureArchivesChunks(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "chunks.zip")
	capture, err := NewCapture(filepath.Join(dir, "work"), archive)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}

	buf := testsupport.Tone(45, testsupport.DefaultRate)
	tr := &testsupport.ScriptedTranscriber{
		BackendKind: transcriber.KindLocalServer,
		Script:      utteranceScript("capture"),
	}

	opts := serialOptions()
	opts.Capture = capture
	runner := NewRunner(nil)
	if _, err := runner.Run(context.Background(), buf, fixedConfig(), tr, Callbacks{}, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(archive)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected 2 captured chunks, got %d", len(zr.File))
	}
}
