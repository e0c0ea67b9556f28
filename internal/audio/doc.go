// Package audio provides the waveform primitives behind segmentation: the
// shared sample buffer, WAV encode/decode for backend uploads and file input,
// the vocal band-pass filter used to condition silence detection, and the
// windowed RMS silence scanner.
package audio
