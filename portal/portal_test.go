// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pfetrack/pfetrack/lib/secret"
)

// testBuffer creates a secret.Buffer from a string for testing. The
// buffer is automatically closed when the test completes.
func testBuffer(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromBytes([]byte(value))
	if err != nil {
		t.Fatalf("creating test buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

// newTestClient starts an httptest server with the given handler and
// returns a Client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{ServerURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

// newTestSession wraps newTestClient with a fixed-token Session.
func newTestSession(t *testing.T, token string, handler http.HandlerFunc) *Session {
	t.Helper()
	return NewSession(newTestClient(t, handler), StaticToken(token))
}

// writeJSON writes v as the JSON response body.
func writeJSON(t *testing.T, writer http.ResponseWriter, v any) {
	t.Helper()
	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(v); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

// assertBearer fails the handler when the request does not carry the
// expected bearer token.
func assertBearer(t *testing.T, request *http.Request, token string) {
	t.Helper()
	if got := request.Header.Get("Authorization"); got != "Bearer "+token {
		t.Errorf("Authorization = %q, want %q", got, "Bearer "+token)
	}
}
