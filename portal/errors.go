// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by authenticated-channel calls made
// while no credential is available. The request is rejected before any
// network I/O happens.
var ErrNotAuthenticated = errors.New("portal: not authenticated")

// APIError is a structured error response from the portal server.
// Callers can use errors.As to extract it:
//
//	var apiErr *portal.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
	// Message is the server-provided description, when the server
	// sent one.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("portal: server returned %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given HTTP
// status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}
	return false
}
