// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// validateToken checks whether a bearer token is still usable at the
// given instant. Signature verification is the server's job; the
// client only needs to know when a token is certain to be rejected,
// which is exactly the malformed and past-expiry cases. A token that
// parses but carries no expiry claim is treated as valid until the
// user logs out.
func validateToken(token string, now time.Time) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("malformed token: %w", err)
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("unreadable expiry claim: %w", err)
	}
	if expiry == nil {
		return nil
	}
	if !expiry.After(now) {
		return fmt.Errorf("token expired at %s", expiry.Format(time.RFC3339))
	}
	return nil
}
