// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
)

// switchableToken is a TokenSource whose token can change between
// calls, standing in for a session manager across login and logout.
type switchableToken struct {
	mu    sync.Mutex
	token string
}

func (s *switchableToken) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *switchableToken) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func TestSessionRejectsWithoutToken(t *testing.T) {
	requests := 0
	session := newTestSession(t, "", func(writer http.ResponseWriter, request *http.Request) {
		requests++
		writeJSON(t, writer, []Topic{})
	})

	_, err := session.Topics.List(context.Background(), TopicFilter{})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("error = %v, want ErrNotAuthenticated", err)
	}
	if requests != 0 {
		t.Fatalf("unauthenticated call reached the server %d times", requests)
	}
}

func TestSessionReadsTokenFresh(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		seen = append(seen, request.Header.Get("Authorization"))
		writeJSON(t, writer, User{ID: 7})
	})

	tokens := &switchableToken{token: "first"}
	session := NewSession(client, tokens)

	if _, err := session.Profile.Get(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// A re-login rotates the token; the very next call must carry the
	// new one without any session reconstruction.
	tokens.set("second")
	if _, err := session.Profile.Get(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}

	// Logout revokes it; the call must fail before reaching the server.
	tokens.set("")
	if _, err := session.Profile.Get(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("post-logout call error = %v, want ErrNotAuthenticated", err)
	}

	want := []string{"Bearer first", "Bearer second"}
	if len(seen) != len(want) {
		t.Fatalf("server saw %d requests, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request %d Authorization = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestStaticToken(t *testing.T) {
	if token, ok := StaticToken("abc").AccessToken(); !ok || token != "abc" {
		t.Errorf("StaticToken(abc).AccessToken() = (%q, %v)", token, ok)
	}
	if _, ok := StaticToken("").AccessToken(); ok {
		t.Error("empty StaticToken reported a token")
	}
}
