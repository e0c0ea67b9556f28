// Package jobstore caches finished transcripts in SQLite, keyed by a
// fingerprint of the source waveform and the backend that produced them.
// A file lock keeps concurrent processes from sharing the database.
package jobstore
