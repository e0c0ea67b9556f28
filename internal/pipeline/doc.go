// Package pipeline orchestrates chunked transcription: it pulls chunks from
// the segmenter under a single point of mutual exclusion, runs a bounded
// worker pool against the backend with retry and backoff, scales and offsets
// reported timestamps, and folds each chunk's contribution into the shared
// transcript, republishing a consistent snapshot after every chunk.
//
// Cancellation is cooperative and epoch-based: starting a new run (or
// calling Cancel) bumps the runner's epoch, and workers of the superseded
// job stop at the next check. In-flight backend calls finish but their
// results are discarded.
package pipeline
