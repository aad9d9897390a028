// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

// Package portal is the typed HTTP client for the student-management
// portal API.
//
// The package is split along the authentication boundary:
//
//   - Client is the public channel. It holds the server URL and HTTP
//     transport and serves only the endpoints that work without a
//     credential: login and register.
//   - Session is the authenticated channel. It wraps a Client with a
//     TokenSource and attaches the bearer token to every request,
//     reading the token fresh at call time so a login or logout that
//     happens between calls is reflected immediately. Domain
//     sub-clients (Topics, Reports, Grades, Profile) hang off the
//     Session and map each operation to exactly one HTTP verb + path.
//
// Both channels normalize responses the same way: a 2xx returns the
// payload, anything else becomes an *APIError carrying the server's
// message when one was provided. Transport failures surface as wrapped
// errors from net/http.
package portal
