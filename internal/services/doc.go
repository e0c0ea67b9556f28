// Package services defines the shared error taxonomy and context annotations
// used across the transcription pipeline.
//
// Errors are tagged with sentinel markers via Wrap so callers can classify
// failures without string matching: transient backend faults are retried,
// chunk-level backend errors are absorbed as empty contributions, and only
// validation or configuration errors abort a job.
package services
