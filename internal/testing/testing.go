// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/polyphonic/polyphonic/internal/shared"
)

// MemStore is an in-memory credentials double keyed by library id.
type MemStore map[string]string

func (m MemStore) Secret(libraryID string) (string, error) {
	secret, ok := m[libraryID]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrCredentialNotFound, libraryID)
	}
	return secret, nil
}

func (m MemStore) SetSecret(libraryID, secret string) error {
	m[libraryID] = secret
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// SubsonicOK builds a 200 response carrying an ok envelope with the given
// payload under key.
func SubsonicOK(t *testing.T, key string, payload any) *http.Response {
	t.Helper()

	body := map[string]any{"status": "ok", "version": "1.16.1"}
	if key != "" {
		body[key] = payload
	}
	data, err := json.Marshal(map[string]any{"subsonic-response": body})
	if err != nil {
		t.Fatalf("failed to marshal envelope: %v", err)
	}

	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(data)),
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
