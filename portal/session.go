// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"io"
	"net/url"
)

// TokenSource supplies the current bearer token. The session manager
// implements it; the second return is false while no user is logged
// in. Session reads it on every call rather than caching a token, so
// there is no stale-credential window across login and logout.
type TokenSource interface {
	AccessToken() (string, bool)
}

// StaticToken is a fixed-token TokenSource, useful for tests and for
// one-shot tooling that already holds a token.
type StaticToken string

// AccessToken implements TokenSource.
func (t StaticToken) AccessToken() (string, bool) {
	return string(t), t != ""
}

// Session is the authenticated channel. It wraps a Client with a
// TokenSource and exposes the domain sub-clients. Sessions are
// lightweight; they hold no credential state of their own.
type Session struct {
	client *Client
	tokens TokenSource

	Topics  *TopicsService
	Reports *ReportsService
	Grades  *GradesService
	Profile *ProfileService
}

// NewSession creates an authenticated channel over client. tokens is
// consulted at every call.
func NewSession(client *Client, tokens TokenSource) *Session {
	session := &Session{client: client, tokens: tokens}
	session.Topics = &TopicsService{session: session}
	session.Reports = &ReportsService{session: session}
	session.Grades = &GradesService{session: session}
	session.Profile = &ProfileService{session: session}
	return session
}

// do performs an authenticated JSON request. When no token is
// available the call fails with ErrNotAuthenticated before any
// network I/O.
func (s *Session) do(ctx context.Context, method, path string, requestBody any, query ...url.Values) ([]byte, error) {
	token, ok := s.tokens.AccessToken()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s.client.doRequest(ctx, method, path, token, requestBody, query...)
}

// doRaw performs an authenticated request with a prebuilt body (for
// multipart uploads).
func (s *Session) doRaw(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	token, ok := s.tokens.AccessToken()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s.client.doRequestRaw(ctx, method, path, token, contentType, body)
}

// doDownload performs an authenticated streaming download.
func (s *Session) doDownload(ctx context.Context, path string, w io.Writer) (int64, error) {
	token, ok := s.tokens.AccessToken()
	if !ok {
		return 0, ErrNotAuthenticated
	}
	return s.client.doDownload(ctx, path, token, w)
}
