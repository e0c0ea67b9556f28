package audio

// Buffer holds a mono waveform at a fixed sample rate. Samples are float32
// amplitudes in [-1, 1]. Buffers are treated as immutable once produced and
// may be shared across goroutines without copying.
type Buffer struct {
	Samples []float32
	Rate    int
}

// Duration returns the buffer length in seconds.
func (b Buffer) Duration() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.Rate)
}

// Len returns the number of samples.
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Slice returns a view of the buffer between two sample offsets. The view
// shares backing storage with the original; callers must not mutate it.
func (b Buffer) Slice(start, end int) Buffer {
	if start < 0 {
		start = 0
	}
	if end > len(b.Samples) {
		end = len(b.Samples)
	}
	if start >= end {
		return Buffer{Rate: b.Rate}
	}
	return Buffer{Samples: b.Samples[start:end], Rate: b.Rate}
}

// SecondsToSamples converts a duration in seconds to a sample count at the
// buffer's rate.
func (b Buffer) SecondsToSamples(seconds float64) int {
	return int(seconds * float64(b.Rate))
}

// SamplesToSeconds converts a sample offset to seconds at the buffer's rate.
func (b Buffer) SamplesToSeconds(n int) float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(n) / float64(b.Rate)
}
