// Package logging builds the slog loggers used throughout subgen.
//
// It supplies a human-oriented console handler and a machine-oriented JSON
// handler, both honouring a shared level, plus attribute helpers and the
// standardized field keys (component, job_id, chunk_index, backend) that keep
// pipeline logs greppable.
package logging
