package chi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func authProbe(t *testing.T, keys []string, path, header string) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := BearerAuthMiddleware(keys)(next)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestBearerAuth_DisabledWithoutKeys(t *testing.T) {
	w := authProbe(t, nil, "/search/precision", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected pass-through without keys, got %d", w.Code)
	}
}

func TestBearerAuth_EmptyKeysIgnored(t *testing.T) {
	w := authProbe(t, []string{""}, "/search/precision", "")
	if w.Code != http.StatusOK {
		t.Errorf("empty key entries must not enable auth, got %d", w.Code)
	}
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	w := authProbe(t, []string{"secret"}, "/search/precision", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "missing authorization header") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	w := authProbe(t, []string{"secret"}, "/search/precision", "Basic c2VjcmV0")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Bearer scheme") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestBearerAuth_InvalidKey(t *testing.T) {
	w := authProbe(t, []string{"secret"}, "/search/precision", "Bearer wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid api key") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestBearerAuth_ValidKey(t *testing.T) {
	w := authProbe(t, []string{"secret", "other"}, "/search/insight", "Bearer other")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for valid key, got %d", w.Code)
	}
}

func TestBearerAuth_ExemptPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		w := authProbe(t, []string{"secret"}, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("expected %s exempt from auth, got %d", path, w.Code)
		}
	}
}
