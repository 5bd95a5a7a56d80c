package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, true)
	r := svc.Check(context.Background())

	if r.Status != "ok" {
		t.Errorf("expected status ok, got %q", r.Status)
	}
	if !r.Meilisearch {
		t.Error("expected meilisearch reachable")
	}
	if r.OpenAI != CredentialConfigured {
		t.Errorf("expected openai %q, got %q", CredentialConfigured, r.OpenAI)
	}
}

func TestCheck_ProbeErrorSwallowed(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}, true)
	r := svc.Check(context.Background())

	if r.Status != "ok" {
		t.Errorf("status must stay ok when the probe fails, got %q", r.Status)
	}
	if r.Meilisearch {
		t.Error("expected meilisearch unreachable")
	}
}

func TestCheck_MissingOpenAIKey(t *testing.T) {
	svc := New(&mockPinger{}, false)
	r := svc.Check(context.Background())

	if r.OpenAI != CredentialMissing {
		t.Errorf("expected openai %q, got %q", CredentialMissing, r.OpenAI)
	}
	if !r.Meilisearch {
		t.Error("expected meilisearch reachable")
	}
}

func TestCheck_NilPinger(t *testing.T) {
	svc := New(nil, false)
	r := svc.Check(context.Background())

	if r.Status != "ok" {
		t.Errorf("expected status ok, got %q", r.Status)
	}
	if r.Meilisearch {
		t.Error("expected meilisearch unreachable with no probe")
	}
}
