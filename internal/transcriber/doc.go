// Package transcriber defines the pluggable speech-to-text boundary.
//
// The pipeline is agnostic to where inference happens; the three concrete
// backends (hosted cloud API, locally hosted OpenAI-compatible server, and
// in-process model) all satisfy the same ChunkTranscriber contract and
// normalize their wire responses into RawSegments at this boundary.
package transcriber
