package services_test

import (
	"errors"
	"strings"
	"testing"

	"mediasort/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "timesync", "write tags", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"timesync", "write tags", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "pipeline", "move", "rename failed", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsSkip(t *testing.T) {
	if !services.IsSkip(services.Wrap(services.ErrNoDate, "dateresolve", "resolve", "no usable date", nil)) {
		t.Fatal("expected no-date error to count as skip")
	}
	if !services.IsSkip(services.ErrUnsupportedMedia) {
		t.Fatal("expected unsupported-media error to count as skip")
	}
	if services.IsSkip(errors.New("boom")) {
		t.Fatal("unexpected skip classification")
	}
	if services.IsSkip(nil) {
		t.Fatal("nil must not be a skip")
	}
}
