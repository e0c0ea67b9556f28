package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransient marks failures worth retrying: network faults, rate
	// limits, a local server that is still warming up.
	ErrTransient = errors.New("transient failure")
	// ErrBackend marks failures that abort the current chunk but never the
	// job: malformed responses, a rejected upload, model inference errors.
	ErrBackend = errors.New("backend error")
	// ErrValidation marks invalid caller input discovered before any chunk
	// is dispatched.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks configuration problems (missing API key,
	// unknown backend name).
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks cache and store lookups that found nothing.
	ErrNotFound = errors.New("not found")
	// ErrCancelled marks work abandoned because its job epoch was
	// superseded. Callers discard it rather than reporting it.
	ErrCancelled = errors.New("job cancelled")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrBackend
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTransient reports whether the error is worth retrying. Anything not
// explicitly tagged transient is treated as final for the chunk.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsFatalSetup reports whether the error should abort the whole job rather
// than a single chunk.
func IsFatalSetup(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
