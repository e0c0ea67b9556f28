package audio

import "math"

// VocalFilter is a two-stage band-pass built from cascaded single-pole IIR
// filters: a high-pass that strips rumble below the vocal range and a
// low-pass that strips hiss above it. It is applied to a copy of the
// waveform used for silence detection; the audio sent to the transcriber is
// never filtered.
type VocalFilter struct {
	HighPassHz float64
	LowPassHz  float64
}

// DefaultVocalFilter returns the band used for speech energy analysis.
func DefaultVocalFilter() VocalFilter {
	return VocalFilter{HighPassHz: 60, LowPassHz: 6000}
}

// Apply returns a filtered copy of samples. The input is left untouched.
func (f VocalFilter) Apply(samples []float32, rate int) []float32 {
	out := make([]float32, len(samples))
	copy(out, samples)
	if rate <= 0 || len(out) == 0 {
		return out
	}
	if f.HighPassHz > 0 {
		highPass(out, rate, f.HighPassHz)
	}
	if f.LowPassHz > 0 {
		lowPass(out, rate, f.LowPassHz)
	}
	return out
}

// highPass runs a single-pole high-pass in place:
// y[n] = a*(y[n-1] + x[n] - x[n-1]).
func highPass(samples []float32, rate int, cutoffHz float64) {
	rc := 1.0 / (2 * math.Pi * cutoffHz)
	dt := 1.0 / float64(rate)
	a := float32(rc / (rc + dt))

	prevIn := samples[0]
	prevOut := samples[0]
	for i := 1; i < len(samples); i++ {
		in := samples[i]
		out := a * (prevOut + in - prevIn)
		samples[i] = out
		prevIn = in
		prevOut = out
	}
}

// lowPass runs a single-pole low-pass in place:
// y[n] = y[n-1] + a*(x[n] - y[n-1]).
func lowPass(samples []float32, rate int, cutoffHz float64) {
	rc := 1.0 / (2 * math.Pi * cutoffHz)
	dt := 1.0 / float64(rate)
	a := float32(dt / (rc + dt))

	prev := samples[0]
	for i := 1; i < len(samples); i++ {
		prev += a * (samples[i] - prev)
		samples[i] = prev
	}
}
