package segment

import (
	"testing"

	"subgen/internal/testsupport"
)

func collect(t *testing.T, s *Segmenter) []Chunk {
	t.Helper()
	var chunks []Chunk
	for {
		chunk, ok := s.Next()
		if !ok {
			return chunks
		}
		chunks = append(chunks, chunk)
	}
}

func assertCoverage(t *testing.T, chunks []Chunk, limit int) {
	t.Helper()
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if chunks[0].StartSample != 0 {
		t.Fatalf("expected traversal to start at 0, got %d", chunks[0].StartSample)
	}
	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Fatalf("expected index %d, got %d", i, chunk.Index)
		}
		if chunk.EndSample <= chunk.StartSample {
			t.Fatalf("chunk %d is empty: [%d, %d)", i, chunk.StartSample, chunk.EndSample)
		}
		if i > 0 && chunk.StartSample != chunks[i-1].EndSample {
			t.Fatalf("gap between chunk %d end %d and chunk %d start %d",
				i-1, chunks[i-1].EndSample, i, chunk.StartSample)
		}
	}
	if last := chunks[len(chunks)-1].EndSample; last != limit {
		t.Fatalf("expected traversal to end at %d, got %d", limit, last)
	}
}

func TestFixedScheduleProgression(t *testing.T) {
	buf := testsupport.Tone(400, testsupport.DefaultRate)
	s, err := New(buf, Config{Method: MethodFixed})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := collect(t, s)
	assertCoverage(t, chunks, buf.Len())

	wantEnds := []float64{20, 60, 180, 360, 400}
	if len(chunks) != len(wantEnds) {
		t.Fatalf("expected %d chunks, got %d", len(wantEnds), len(chunks))
	}
	for i, want := range wantEnds {
		got := chunks[i].EndSeconds(buf.Rate)
		if got != want {
			t.Fatalf("chunk %d: expected end %.0fs, got %.2fs", i, want, got)
		}
	}
}

func TestFixedScheduleClampsToShortAudio(t *testing.T) {
	buf := testsupport.Tone(12, testsupport.DefaultRate)
	s, err := New(buf, Config{Method: MethodFixed})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := collect(t, s)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for 12s audio, got %d", len(chunks))
	}
	assertCoverage(t, chunks, buf.Len())
}

func TestVADCutsAtSilenceMidpoints(t *testing.T) {
	buf := testsupport.Tone(200, testsupport.DefaultRate,
		testsupport.Silence{StartSeconds: 18, DurationSeconds: 0.6},
		testsupport.Silence{StartSeconds: 58, DurationSeconds: 0.6},
	)
	s, err := New(buf, Config{Method: MethodVAD})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := collect(t, s)
	assertCoverage(t, chunks, buf.Len())
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	wantEnds := []float64{18.3, 58.3, 200}
	const tolerance = 0.1
	for i, want := range wantEnds {
		got := chunks[i].EndSeconds(buf.Rate)
		if got < want-tolerance || got > want+tolerance {
			t.Fatalf("chunk %d: expected end near %.1fs, got %.2fs", i, want, got)
		}
	}
}

func TestVADForcedSplitBoundsCarryOver(t *testing.T) {
	// No silences anywhere: the bank must still split once it exceeds the
	// forced-split bound instead of growing to the whole file.
	buf := testsupport.Tone(100, testsupport.DefaultRate)
	s, err := New(buf, Config{Method: MethodVAD, BatchSeconds: 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := collect(t, s)
	assertCoverage(t, chunks, buf.Len())
	if len(chunks) < 2 {
		t.Fatalf("expected forced splits to produce multiple chunks, got %d", len(chunks))
	}
	maxSamples := 4 * buf.SecondsToSamples(10)
	for i, chunk := range chunks {
		if size := chunk.EndSample - chunk.StartSample; size > maxSamples {
			t.Fatalf("chunk %d spans %d samples, exceeding the forced-split bound %d", i, size, maxSamples)
		}
	}
}

func TestVADSkipsSliverChunks(t *testing.T) {
	// Two silences close together: the second cut would produce a 0.6s
	// chunk, below the 1s floor, so it merges into its successor instead.
	buf := testsupport.Tone(30, testsupport.DefaultRate,
		testsupport.Silence{StartSeconds: 10, DurationSeconds: 0.5},
		testsupport.Silence{StartSeconds: 10.6, DurationSeconds: 0.5},
	)
	s, err := New(buf, Config{Method: MethodVAD, MinChunkSeconds: 1.0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := collect(t, s)
	assertCoverage(t, chunks, buf.Len())
	minSamples := buf.SecondsToSamples(1.0)
	for i, chunk := range chunks[:len(chunks)-1] {
		if size := chunk.EndSample - chunk.StartSample; size < minSamples {
			t.Fatalf("chunk %d spans only %d samples, below the minimum", i, size)
		}
	}
}

func TestLimitTruncatesTraversal(t *testing.T) {
	buf := testsupport.Tone(300, testsupport.DefaultRate)
	s, err := New(buf, Config{Method: MethodFixed, LimitSeconds: 45})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := collect(t, s)
	assertCoverage(t, chunks, buf.SecondsToSamples(45))
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks under a 45s limit, got %d", len(chunks))
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tone := testsupport.Tone(10, testsupport.DefaultRate)

	cases := []struct {
		name string
		run  func() error
	}{
		{"zero rate", func() error {
			buf := tone
			buf.Rate = 0
			_, err := New(buf, Config{})
			return err
		}},
		{"empty waveform", func() error {
			buf := tone
			buf.Samples = nil
			_, err := New(buf, Config{})
			return err
		}},
		{"unknown method", func() error {
			_, err := New(tone, Config{Method: Method("adaptive")})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
