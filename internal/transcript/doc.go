// Package transcript maintains the accumulated subtitle sequence for a job.
//
// The Transcript folds per-chunk segment lists, arriving in any completion
// order, into a single sorted, deduplicated, non-overlapping timeline, and
// renders it as SRT. Overlap thresholds differ by backend class and are
// carried in the MergePolicy.
package transcript
