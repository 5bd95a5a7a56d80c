package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSearchUnavailable signals a Meilisearch failure (network, auth, missing index).
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrModelUnavailable signals a language-model provider failure.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrMissingCredential signals an absent credential in the environment.
	ErrMissingCredential = errors.New("missing credential")
)

// MissingCredentialError wraps ErrMissingCredential with the environment
// variable name the caller needs to set.
type MissingCredentialError struct {
	Name string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing %s in environment", e.Name)
}

func (e *MissingCredentialError) Unwrap() error { return ErrMissingCredential }

// NewMissingCredential creates a missing credential error for an env var name.
func NewMissingCredential(name string) error {
	return &MissingCredentialError{Name: name}
}
