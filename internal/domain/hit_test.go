package domain

import "testing"

func TestHitField(t *testing.T) {
	h := NewHit(map[string]string{"reading_id": "281-3", "category": ""})

	if got := h.Field("reading_id"); got != "281-3" {
		t.Errorf("expected 281-3, got %q", got)
	}
	if got := h.Field("missing"); got != "" {
		t.Errorf("expected empty string for absent attribute, got %q", got)
	}
}

func TestHitFieldOr(t *testing.T) {
	h := NewHit(map[string]string{"reading_id": "281-3", "category": ""})

	if got := h.FieldOr("reading_id", "Unknown"); got != "281-3" {
		t.Errorf("expected 281-3, got %q", got)
	}
	if got := h.FieldOr("missing", "Unknown"); got != "Unknown" {
		t.Errorf("expected fallback for absent attribute, got %q", got)
	}
	if got := h.FieldOr("category", "Unknown"); got != "Unknown" {
		t.Errorf("expected fallback for empty attribute, got %q", got)
	}
}

func TestHitHas(t *testing.T) {
	h := NewHit(map[string]string{"category": ""})

	if !h.Has("category") {
		t.Error("expected empty-but-present attribute reported")
	}
	if h.Has("missing") {
		t.Error("expected absent attribute not reported")
	}
}

func TestHitZeroValue(t *testing.T) {
	var h Hit

	if got := h.Field("anything"); got != "" {
		t.Errorf("zero hit must read empty, got %q", got)
	}
	if h.Has("anything") {
		t.Error("zero hit must have no attributes")
	}
}
