package timescale

import (
	"testing"

	"subgen/internal/transcriber"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name         string
		segments     []transcriber.RawSegment
		chunkSeconds float64
		want         float64
	}{
		{
			name: "seconds",
			segments: []transcriber.RawSegment{
				{Start: 0, End: 2.5, Text: "a"},
				{Start: 2.5, End: 6, Text: "b"},
			},
			chunkSeconds: 30,
			want:         ScaleSeconds,
		},
		{
			name: "milliseconds",
			segments: []transcriber.RawSegment{
				{Start: 0, End: 3000, Text: "a"},
				{Start: 3000, End: 6000, Text: "b"},
				{Start: 6000, End: 30000, Text: "c"},
			},
			chunkSeconds: 30,
			want:         ScaleMilliseconds,
		},
		{
			name: "centiseconds tie-broken toward typical utterance",
			segments: []transcriber.RawSegment{
				{Start: 0, End: 300, Text: "a"},
				{Start: 300, End: 600, Text: "b"},
				{Start: 2600, End: 2900, Text: "c"},
			},
			chunkSeconds: 30,
			want:         ScaleCentiseconds,
		},
		{
			name: "all candidates rejected falls back to closest end",
			segments: []transcriber.RawSegment{
				{Start: 0, End: 100000, Text: "a"},
			},
			chunkSeconds: 10,
			want:         ScaleMilliseconds,
		},
		{
			name:         "no segments",
			segments:     nil,
			chunkSeconds: 30,
			want:         ScaleSeconds,
		},
		{
			name: "degenerate chunk",
			segments: []transcriber.RawSegment{
				{Start: 0, End: 3, Text: "a"},
			},
			chunkSeconds: 0,
			want:         ScaleSeconds,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Detect(tc.segments, tc.chunkSeconds)
			if got != tc.want {
				t.Fatalf("Detect() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	segments := []transcriber.RawSegment{
		{Start: 0, End: 280, Text: "a"},
		{Start: 280, End: 640, Text: "b"},
	}
	first := Detect(segments, 12)
	for i := 0; i < 10; i++ {
		if got := Detect(segments, 12); got != first {
			t.Fatalf("Detect flapped between %v and %v", first, got)
		}
	}
}
