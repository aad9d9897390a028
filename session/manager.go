// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the authenticated-user state of the client:
// who is logged in, the bearer token proving it, and the durable
// record that survives process restarts.
//
// Manager is the single source of truth. The process entry point
// constructs one, calls Initialize before showing anything that needs
// a session, and injects it into collaborators; there is no
// package-level state. The portal package consumes it as a
// TokenSource, so every authenticated request reads the credential
// that is current at that moment.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pfetrack/pfetrack/lib/clock"
	"github.com/pfetrack/pfetrack/lib/secret"
	"github.com/pfetrack/pfetrack/portal"
)

// State is the manager's readiness state.
type State int

const (
	// StateInitializing is the state before Initialize has completed.
	// Collaborators must not render protected content while here.
	StateInitializing State = iota
	// StateAnonymous means ready, with no authenticated user.
	StateAnonymous
	// StateAuthenticated means ready, with a logged-in user.
	StateAuthenticated
)

// Result is the outcome of Login and Register. Failures carry a
// message suitable for direct display; neither operation ever panics
// through to the caller.
type Result struct {
	Success bool
	Message string
}

// Authenticator is the slice of the portal client the manager needs.
// *portal.Client satisfies it; tests substitute fakes. Depending on
// the interface keeps the dependency pointing from session to portal,
// never back.
type Authenticator interface {
	Login(ctx context.Context, username string, password *secret.Buffer) (*portal.LoginResponse, error)
	Register(ctx context.Context, request portal.RegisterRequest) (*portal.User, error)
}

var _ Authenticator = (*portal.Client)(nil)

// Manager holds the current session. All state transitions are
// serialized by one mutex, so a logout issued while a login is
// completing cannot interleave with it.
type Manager struct {
	authn  Authenticator
	store  *RecordStore
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	identity *portal.User
	token    *secret.Buffer
}

// ManagerConfig holds dependencies for NewManager.
type ManagerConfig struct {
	// Authenticator performs the login/register network exchange.
	// Required.
	Authenticator Authenticator
	// Store is the durable session record. Required; no other
	// component may touch the record.
	Store *RecordStore
	// Clock is used for token-expiry decisions. If nil, clock.Real()
	// is used.
	Clock clock.Clock
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// NewManager creates a Manager in StateInitializing. Call Initialize
// before anything that depends on session state.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Authenticator == nil {
		return nil, fmt.Errorf("session: Authenticator is required")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("session: Store is required")
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		authn:  config.Authenticator,
		store:  config.Store,
		clock:  clk,
		logger: logger,
		state:  StateInitializing,
	}, nil
}

// Initialize restores the persisted session, if any, and moves the
// manager to a ready state. It is the readiness gate: it returns only
// after the transition has landed. An absent record, a corrupt
// record, or an expired token all end in StateAnonymous; the latter
// two also delete the record (silent logout, never an error surfaced
// to the user). Calling Initialize again after it has completed is a
// no-op.
func (m *Manager) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateInitializing {
		return
	}

	record, err := m.store.Load()
	if err != nil {
		// Corrupt or unreadable record: same treatment as an
		// expired token.
		m.logger.Warn("discarding unreadable session record", "error", err)
		m.clearLocked()
		return
	}
	if record == nil {
		m.state = StateAnonymous
		return
	}

	if err := validateToken(record.Token, m.clock.Now()); err != nil {
		m.logger.Info("stored session no longer valid", "reason", err)
		m.clearLocked()
		return
	}

	tokenBuffer, err := secret.NewFromBytes([]byte(record.Token))
	if err != nil {
		m.logger.Warn("could not protect restored token", "error", err)
		m.clearLocked()
		return
	}

	user := record.User
	m.identity = &user
	m.token = tokenBuffer
	m.state = StateAuthenticated
	m.logger.Info("restored session", "user_id", user.ID, "username", user.Username)
}

// Login authenticates and, on success, persists the session record
// and updates in-memory state. Every failure path, from wrong
// credentials to a persistence failure, returns a displayable
// failure Result and leaves the current state untouched.
func (m *Manager) Login(ctx context.Context, username string, password *secret.Buffer) Result {
	response, err := m.authn.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn("login failed", "username", username, "error", err)
		return Result{Message: loginFailureMessage(err)}
	}

	// Reject a token the portal's own expiry rules would discard on
	// the next restart. Persisting it would only defer the failure.
	if err := validateToken(response.Token, m.clock.Now()); err != nil {
		m.logger.Warn("server returned unusable token", "error", err)
		return Result{Message: "The server returned an invalid session token."}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record := &Record{Token: response.Token, User: response.User}
	if err := m.store.Save(record); err != nil {
		m.logger.Error("could not persist session record", "error", err)
		return Result{Message: "Login succeeded but the session could not be saved."}
	}

	tokenBuffer, err := secret.NewFromBytes([]byte(response.Token))
	if err != nil {
		m.store.Delete()
		m.logger.Error("could not protect session token", "error", err)
		return Result{Message: "Login succeeded but the session could not be saved."}
	}

	if m.token != nil {
		m.token.Close()
	}
	user := response.User
	m.identity = &user
	m.token = tokenBuffer
	m.state = StateAuthenticated
	return Result{Success: true}
}

// Register creates an account. Success does not establish a session;
// the user logs in afterwards.
func (m *Manager) Register(ctx context.Context, request portal.RegisterRequest) Result {
	if _, err := m.authn.Register(ctx, request); err != nil {
		m.logger.Warn("registration failed", "username", request.Username, "error", err)
		return Result{Message: registerFailureMessage(err)}
	}
	return Result{Success: true, Message: "Registration complete. You can now log in."}
}

// Logout deletes the persisted record and clears in-memory state.
// Idempotent: logging out while anonymous is a no-op with the same
// end state.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// clearLocked deletes the record and resets to StateAnonymous. The
// caller holds m.mu.
func (m *Manager) clearLocked() {
	if err := m.store.Delete(); err != nil {
		m.logger.Warn("could not delete session record", "error", err)
	}
	if m.token != nil {
		m.token.Close()
		m.token = nil
	}
	m.identity = nil
	m.state = StateAnonymous
}

// Identity returns a copy of the current user, or nil while
// anonymous or initializing. Pure read, no I/O.
func (m *Manager) Identity() *portal.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil
	}
	user := *m.identity
	return &user
}

// IsAuthenticated reports whether a user is logged in. Pure read.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateAuthenticated
}

// Loading reports whether Initialize has not yet completed.
// Collaborators render nothing (or a placeholder) while true.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateInitializing
}

// CurrentState returns the readiness state.
func (m *Manager) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// AccessToken implements portal.TokenSource. The token is read fresh
// here on every portal call, so there is no stale-credential window
// after a login or logout.
func (m *Manager) AccessToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || m.token == nil {
		return "", false
	}
	return m.token.String(), true
}

var _ portal.TokenSource = (*Manager)(nil)

// loginFailureMessage maps an authentication error to a displayable
// message. The server's own message wins when it sent one.
func loginFailureMessage(err error) string {
	if portal.IsStatus(err, 401) || portal.IsStatus(err, 403) {
		return "Incorrect username or password."
	}
	var apiErr *portal.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Could not reach the server. Please try again."
}

func registerFailureMessage(err error) string {
	var apiErr *portal.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Registration failed. Please try again."
}
