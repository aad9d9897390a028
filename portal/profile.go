// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ProfileService covers /users/me.
type ProfileService struct {
	session *Session
}

// Get returns the caller's profile. Also serves as a cheap token
// validity probe: an invalid or revoked token fails here with a 401.
func (p *ProfileService) Get(ctx context.Context) (*User, error) {
	body, err := p.session.do(ctx, http.MethodGet, "/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("portal: get profile failed: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("portal: failed to parse profile response: %w", err)
	}
	return &user, nil
}

// Update changes the caller's profile fields.
func (p *ProfileService) Update(ctx context.Context, update ProfileUpdate) (*User, error) {
	body, err := p.session.do(ctx, http.MethodPut, "/users/me", update)
	if err != nil {
		return nil, fmt.Errorf("portal: update profile failed: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("portal: failed to parse profile response: %w", err)
	}
	return &user, nil
}
