package audio

import "math"

// silenceWindowSeconds is the RMS analysis window. 50 ms is short enough to
// localize a cut point and long enough to smooth over single-sample clicks.
const silenceWindowSeconds = 0.05

// SilenceRun is a contiguous stretch of windows whose RMS energy stayed
// below the scan threshold. Offsets are sample indices relative to the
// scanned slice.
type SilenceRun struct {
	Start int
	End   int
}

// Midpoint returns the sample offset at the center of the run, the safest
// place to cut without clipping speech on either side.
func (r SilenceRun) Midpoint() int {
	return r.Start + (r.End-r.Start)/2
}

// FindSilenceRuns scans samples in fixed windows computing RMS energy and
// returns every run of consecutive quiet windows lasting at least
// minRunSeconds. A trailing quiet run that touches the end of the slice is
// not returned: it has not been proven to end, and the caller carries that
// audio over into its next scan.
func FindSilenceRuns(samples []float32, rate int, threshold, minRunSeconds float64) []SilenceRun {
	if rate <= 0 || len(samples) == 0 {
		return nil
	}
	window := int(silenceWindowSeconds * float64(rate))
	if window <= 0 {
		window = 1
	}
	minRun := int(minRunSeconds * float64(rate))

	var runs []SilenceRun
	runStart := -1
	for offset := 0; offset+window <= len(samples); offset += window {
		if rms(samples[offset:offset+window]) < threshold {
			if runStart < 0 {
				runStart = offset
			}
			continue
		}
		if runStart >= 0 {
			if offset-runStart >= minRun {
				runs = append(runs, SilenceRun{Start: runStart, End: offset})
			}
			runStart = -1
		}
	}
	return runs
}

// rms computes root-mean-square energy over a window.
func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// RMS exposes the window energy computation for tuning and tests.
func RMS(samples []float32) float64 {
	return rms(samples)
}
