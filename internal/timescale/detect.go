// Package timescale infers the unit of backend-reported timestamps.
//
// Transcription backends report segment times in seconds, centiseconds, or
// milliseconds with no declaration of which, and the unit can differ chunk
// to chunk. Detect picks the multiplier that makes the reported values
// physically plausible for the chunk they describe. The heuristic is
// deterministic and uses no external state, so a given response always
// scales the same way.
package timescale

import (
	"math"

	"subgen/internal/transcriber"
)

// Scales are the candidate multipliers converting raw values to seconds.
const (
	ScaleSeconds      = 1.0
	ScaleCentiseconds = 0.01
	ScaleMilliseconds = 0.001
)

var candidates = []float64{ScaleSeconds, ScaleCentiseconds, ScaleMilliseconds}

const (
	// minUtteranceSeconds and maxUtteranceSeconds bound the plausible mean
	// duration of one spoken utterance.
	minUtteranceSeconds = 0.2
	maxUtteranceSeconds = 30.0
	// maxEndOverrun tolerates backends that report ends slightly past the
	// chunk boundary.
	maxEndOverrun = 1.5
	// typicalUtteranceSeconds breaks ties between surviving candidates.
	typicalUtteranceSeconds = 3.0
)

// Detect returns the multiplier that converts the raw timestamps of one
// chunk's segments into seconds. chunkSeconds is the chunk's true duration.
// With no segments (or a degenerate chunk) the identity scale is returned.
func Detect(segments []transcriber.RawSegment, chunkSeconds float64) float64 {
	if len(segments) == 0 || chunkSeconds <= 0 {
		return ScaleSeconds
	}

	var durationSum, maxEnd float64
	for _, seg := range segments {
		durationSum += seg.End - seg.Start
		if seg.End > maxEnd {
			maxEnd = seg.End
		}
	}
	meanDuration := durationSum / float64(len(segments))

	var surviving []float64
	for _, scale := range candidates {
		mean := meanDuration * scale
		if mean < minUtteranceSeconds || mean > maxUtteranceSeconds {
			continue
		}
		if maxEnd*scale > maxEndOverrun*chunkSeconds {
			continue
		}
		surviving = append(surviving, scale)
	}

	switch len(surviving) {
	case 1:
		return surviving[0]
	case 0:
		// Malformed or hallucinated timestamps: pick whichever scale lands
		// the reported end closest to the true chunk duration.
		best := ScaleSeconds
		bestDelta := math.Inf(1)
		for _, scale := range candidates {
			delta := math.Abs(maxEnd*scale - chunkSeconds)
			if delta < bestDelta {
				bestDelta = delta
				best = scale
			}
		}
		return best
	default:
		// Several plausible: prefer the one closest to a typical sentence.
		best := surviving[0]
		bestDelta := math.Inf(1)
		for _, scale := range surviving {
			delta := math.Abs(meanDuration*scale - typicalUtteranceSeconds)
			if delta < bestDelta {
				bestDelta = delta
				best = scale
			}
		}
		return best
	}
}
