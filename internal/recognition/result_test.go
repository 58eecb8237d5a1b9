package recognition

import (
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalize_Success(t *testing.T) {
	r, err := Normalize(Result{
		Status:            StatusSuccess,
		PersonID:          "p-1",
		PersonName:        "Jane Doe",
		Confidence:        floatPtr(0.93),
		ProcessingSeconds: floatPtr(0.42),
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if !r.Recognized {
		t.Error("expected recognized to be true")
	}
	if r.PersonName != "Jane Doe" {
		t.Errorf("expected person name preserved, got %q", r.PersonName)
	}
	if r.Confidence == nil || *r.Confidence != 0.93 {
		t.Error("expected confidence preserved")
	}
}

func TestNormalize_SuccessWithoutName(t *testing.T) {
	r, err := Normalize(Result{
		Status:     StatusSuccess,
		Confidence: floatPtr(0.9),
	})
	if err == nil {
		t.Error("expected error for success without person_name")
	}
	if r.Status != StatusError {
		t.Errorf("expected coerced error result, got status %q", r.Status)
	}
}

func TestNormalize_ConfidenceOutOfRange(t *testing.T) {
	for _, c := range []float64{-0.1, 1.1, 93} {
		r, err := Normalize(Result{
			Status:     StatusSuccess,
			PersonName: "Jane Doe",
			Confidence: floatPtr(c),
		})
		if err == nil {
			t.Errorf("expected error for confidence %f", c)
		}
		if r.Status != StatusError {
			t.Errorf("expected error result for confidence %f, got %q", c, r.Status)
		}
	}
}

func TestNormalize_NoFaceStripsConfidence(t *testing.T) {
	r, err := Normalize(Result{
		Status:     StatusNoFace,
		Confidence: floatPtr(0.4),
		PersonName: "should be dropped",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if r.Confidence != nil {
		t.Error("no_face must not carry a positive confidence")
	}
	if r.PersonName != "" {
		t.Error("no_face must not carry a person name")
	}
	if r.Message == "" {
		t.Error("expected a default message")
	}
}

func TestNormalize_NoMatchKeepsMessage(t *testing.T) {
	r, err := Normalize(Result{
		Status:  StatusNoMatch,
		Message: "similarity below threshold",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if r.Message != "similarity below threshold" {
		t.Errorf("expected backend message preserved, got %q", r.Message)
	}
	if r.Recognized {
		t.Error("expected recognized to be false")
	}
}

func TestNormalize_UnknownStatus(t *testing.T) {
	r, err := Normalize(Result{Status: "weird"})
	if err == nil {
		t.Error("expected error for unknown status")
	}
	if r.Status != StatusError {
		t.Errorf("expected error result, got %q", r.Status)
	}
}

func TestNormalize_ErrorKeepsProcessingTime(t *testing.T) {
	r, err := Normalize(Result{
		Status:            StatusError,
		ProcessingSeconds: floatPtr(1.2),
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if r.ProcessingSeconds == nil || *r.ProcessingSeconds != 1.2 {
		t.Error("expected processing time preserved on error results")
	}
	if r.Message == "" {
		t.Error("expected a default error message")
	}
}

func TestPresent_SuccessHasConfidenceBar(t *testing.T) {
	r, _ := Normalize(Result{
		Status:            StatusSuccess,
		PersonName:        "Jane Doe",
		Confidence:        floatPtr(0.93),
		ProcessingSeconds: floatPtr(0.42),
	})

	p := Present(r)

	if p.Title != "Jane Doe" {
		t.Errorf("expected title 'Jane Doe', got %q", p.Title)
	}
	if p.ConfidencePercent == nil || *p.ConfidencePercent != 93 {
		t.Error("expected 93% confidence")
	}
	if p.ProcessingTime != "420ms" {
		t.Errorf("expected '420ms', got %q", p.ProcessingTime)
	}
	if p.Color != "green" {
		t.Errorf("expected green, got %q", p.Color)
	}
}

func TestPresent_NoConfidenceBarOutsideSuccess(t *testing.T) {
	for _, status := range []Status{StatusNoMatch, StatusNoFace, StatusError} {
		r, _ := Normalize(Result{Status: status})
		p := Present(r)
		if p.ConfidencePercent != nil {
			t.Errorf("status %q must not render a confidence bar", status)
		}
	}
}

func TestPresent_ProcessingTimeRegardlessOfStatus(t *testing.T) {
	r, _ := Normalize(Result{
		Status:            StatusNoFace,
		ProcessingSeconds: floatPtr(0.05),
	})

	p := Present(r)
	if p.ProcessingTime != "50ms" {
		t.Errorf("expected '50ms' even for no_face, got %q", p.ProcessingTime)
	}
}

func TestHistory_BoundedEviction(t *testing.T) {
	h := NewHistory(10)

	for i := 0; i < 15; i++ {
		r, _ := Normalize(Result{Status: StatusNoMatch})
		h.Add(r, "upload")
	}

	if h.Len() != 10 {
		t.Errorf("expected 10 entries after 15 adds, got %d", h.Len())
	}
}

func TestHistory_RecentNewestFirst(t *testing.T) {
	h := NewHistory(3)

	first, _ := Normalize(Result{Status: StatusNoMatch, Message: "first"})
	second, _ := Normalize(Result{Status: StatusNoMatch, Message: "second"})
	h.Add(first, "upload")
	h.Add(second, "webcam")

	recent := h.Recent()
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Result.Message != "second" || recent[1].Result.Message != "first" {
		t.Error("expected newest-first ordering")
	}
	if recent[0].Source != "webcam" {
		t.Errorf("expected source preserved, got %q", recent[0].Source)
	}
	if recent[0].ID == "" || recent[0].ID == recent[1].ID {
		t.Error("expected unique non-empty entry IDs")
	}
}
