// Package segment turns a waveform into an ordered stream of bounded chunks
// suitable for a transcription backend.
//
// Two strategies are provided: a fixed progressive time schedule, and a
// voice-activity-detection mode that banks audio until a silence run proves
// a safe cut point. Both guarantee the emitted chunks cover the traversed
// range exactly once with no gaps and no overlaps.
package segment
