package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	inner := errors.New("connection reset")
	err := Wrap(ErrTransient, "transcriber", "upload", "request failed", inner)

	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker: %v", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("expected wrapped cause preserved: %v", err)
	}
	if !strings.Contains(err.Error(), "transcriber: upload: request failed") {
		t.Fatalf("expected component detail, got %q", err.Error())
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected default backend marker: %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestClassifiers(t *testing.T) {
	if IsTransient(Wrap(ErrBackend, "x", "y", "z", nil)) {
		t.Fatal("backend error misclassified as transient")
	}
	if !IsTransient(Wrap(ErrTransient, "x", "y", "z", nil)) {
		t.Fatal("transient error not recognized")
	}
	if !IsFatalSetup(Wrap(ErrValidation, "x", "y", "z", nil)) {
		t.Fatal("validation error not fatal setup")
	}
	if !IsFatalSetup(Wrap(ErrConfiguration, "x", "y", "z", nil)) {
		t.Fatal("configuration error not fatal setup")
	}
	if IsFatalSetup(Wrap(ErrTransient, "x", "y", "z", nil)) {
		t.Fatal("transient error misclassified as fatal setup")
	}
}
