package models

import (
	"errors"
	"testing"
)

// TestInputConstructors tests that each input variant is tagged correctly
func TestInputConstructors(t *testing.T) {
	in := NewImageBytes([]byte{1, 2, 3})
	if in.Kind != InputImageBytes || !in.IsImage() {
		t.Errorf("Expected image bytes input, got %v", in.Kind)
	}
	if in.Describe() != "3 bytes of image data" {
		t.Errorf("Unexpected description '%s'", in.Describe())
	}

	in = NewImageHandle("/tmp/a.png")
	if in.Kind != InputImageHandle || !in.IsImage() || in.Describe() != "/tmp/a.png" {
		t.Errorf("Expected image handle input, got %+v", in)
	}

	in = NewURL("https://example.com/a.png")
	if in.Kind != InputURL || in.IsImage() {
		t.Errorf("Expected URL input, got %+v", in)
	}
}

// TestOutcomeConstructors tests the outcome helpers
func TestOutcomeConstructors(t *testing.T) {
	ok := Success("<html></html>")
	if !ok.OK() || ok.Body != "<html></html>" || ok.StatusCode != 200 {
		t.Errorf("Unexpected success outcome %+v", ok)
	}

	if RateLimited(429).Status != OutcomeTooManyRequests {
		t.Error("RateLimited should map to too many requests")
	}

	cause := errors.New("boom")
	failed := GenericError(500, cause)
	if failed.OK() || failed.Err != cause || failed.StatusCode != 500 {
		t.Errorf("Unexpected generic error outcome %+v", failed)
	}

	if Interrupted(nil).Status.String() != "interrupted" {
		t.Errorf("Unexpected status name %s", Interrupted(nil).Status)
	}
}

// TestDefaultSettings tests that defaults search every database
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	if len(settings.SelectedDatabases) != 0 {
		t.Errorf("Expected no selected databases, got %v", settings.SelectedDatabases)
	}
	if settings.ShowHidden {
		t.Error("Hidden results should be off by default")
	}
}
