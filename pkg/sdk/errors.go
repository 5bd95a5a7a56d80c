package vault

import "fmt"

// APIError is a non-2xx response from the vault API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vault: API error %d: %s", e.StatusCode, e.Detail)
}
