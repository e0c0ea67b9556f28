package testsupport

import (
	"math"

	"subgen/internal/audio"
)

// DefaultRate is the sample rate test waveforms use. Low enough to keep
// buffers small, high enough for the 50ms silence windows to resolve.
const DefaultRate = 8000

// Silence marks a quiet span to plant inside a synthetic waveform.
type Silence struct {
	StartSeconds    float64
	DurationSeconds float64
}

// Tone builds a waveform of the given length carrying a steady 440Hz tone at
// amplitude 0.5, with the requested spans zeroed out. The result exercises
// silence detection deterministically.
func Tone(seconds float64, rate int, silences ...Silence) audio.Buffer {
	if rate <= 0 {
		rate = DefaultRate
	}
	n := int(seconds * float64(rate))
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	for _, s := range silences {
		start := int(s.StartSeconds * float64(rate))
		end := start + int(s.DurationSeconds*float64(rate))
		if start < 0 {
			start = 0
		}
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			samples[i] = 0
		}
	}
	return audio.Buffer{Samples: samples, Rate: rate}
}
