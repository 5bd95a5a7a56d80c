package health

import "context"

// Credential indicates whether an API credential is present.
type Credential string

const (
	// CredentialConfigured indicates the credential is set.
	CredentialConfigured Credential = "configured"
	// CredentialMissing indicates the credential is absent.
	CredentialMissing Credential = "missing"
)

// Report is the health check outcome. Status is always "ok": the endpoint
// reports component state, it never fails itself.
type Report struct {
	Status      string
	Meilisearch bool
	OpenAI      Credential
}

// Service probes the search backend and reports credential presence.
type Service struct {
	search       SearchPinger
	openAIKeySet bool
}

// New creates a health service. search may be nil.
func New(search SearchPinger, openAIKeySet bool) *Service {
	return &Service{search: search, openAIKeySet: openAIKeySet}
}

// Check runs the reachability probe. Probe errors are swallowed and reported
// as an unreachable backend, never propagated.
func (s *Service) Check(ctx context.Context) Report {
	reachable := false
	if s.search != nil && s.search.Ping(ctx) == nil {
		reachable = true
	}

	cred := CredentialMissing
	if s.openAIKeySet {
		cred = CredentialConfigured
	}

	return Report{
		Status:      "ok",
		Meilisearch: reachable,
		OpenAI:      cred,
	}
}
