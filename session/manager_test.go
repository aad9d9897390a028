// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pfetrack/pfetrack/lib/clock"
	"github.com/pfetrack/pfetrack/lib/secret"
	"github.com/pfetrack/pfetrack/portal"
)

// fakeAuthenticator scripts login and register outcomes.
type fakeAuthenticator struct {
	loginResponse *portal.LoginResponse
	loginErr      error
	registerErr   error
	loginCalls    int
}

func (f *fakeAuthenticator) Login(ctx context.Context, username string, password *secret.Buffer) (*portal.LoginResponse, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResponse, nil
}

func (f *fakeAuthenticator) Register(ctx context.Context, request portal.RegisterRequest) (*portal.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &portal.User{ID: 99, Username: request.Username}, nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testManager(t *testing.T, authn *fakeAuthenticator) (*Manager, *RecordStore) {
	t.Helper()
	store := testStore(t)
	manager, err := NewManager(ManagerConfig{
		Authenticator: authn,
		Store:         store,
		Clock:         clock.Fake(testNow),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return manager, store
}

func passwordBuffer(t *testing.T) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromBytes([]byte("hunter2"))
	if err != nil {
		t.Fatalf("password buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func TestManagerStartsLoading(t *testing.T) {
	manager, _ := testManager(t, &fakeAuthenticator{})
	if !manager.Loading() {
		t.Fatal("manager not loading before Initialize")
	}
	if manager.IsAuthenticated() {
		t.Fatal("manager authenticated before Initialize")
	}
	if _, ok := manager.AccessToken(); ok {
		t.Fatal("AccessToken available before Initialize")
	}
}

func TestInitializeNoRecord(t *testing.T) {
	manager, _ := testManager(t, &fakeAuthenticator{})
	manager.Initialize()

	if manager.Loading() {
		t.Fatal("manager still loading after Initialize")
	}
	if manager.IsAuthenticated() {
		t.Fatal("manager authenticated with no stored record")
	}
	if got := manager.CurrentState(); got != StateAnonymous {
		t.Fatalf("state = %v, want StateAnonymous", got)
	}
}

func TestInitializeRestoresValidSession(t *testing.T) {
	manager, store := testManager(t, &fakeAuthenticator{})
	token := signedToken(t, jwt.MapClaims{
		"sub": "amina",
		"exp": jwt.NewNumericDate(testNow.Add(time.Hour)),
	})
	user := portal.User{ID: 7, Username: "amina", Role: "student"}
	if err := store.Save(&Record{Token: token, User: user}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	manager.Initialize()

	if !manager.IsAuthenticated() {
		t.Fatal("valid stored session not restored")
	}
	identity := manager.Identity()
	if identity == nil || identity.Username != "amina" {
		t.Fatalf("identity = %+v, want amina", identity)
	}
	got, ok := manager.AccessToken()
	if !ok || got != token {
		t.Fatalf("AccessToken = (%q, %v), want stored token", got, ok)
	}
}

func TestInitializeDiscardsExpiredToken(t *testing.T) {
	manager, store := testManager(t, &fakeAuthenticator{})
	token := signedToken(t, jwt.MapClaims{
		"exp": jwt.NewNumericDate(testNow.Add(-time.Hour)),
	})
	if err := store.Save(&Record{Token: token, User: portal.User{ID: 7}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	manager.Initialize()

	if manager.IsAuthenticated() {
		t.Fatal("expired session restored")
	}
	if record, err := store.Load(); err != nil || record != nil {
		t.Fatalf("expired record not deleted: (%+v, %v)", record, err)
	}
}

func TestInitializeDiscardsCorruptRecord(t *testing.T) {
	manager, store := testManager(t, &fakeAuthenticator{})
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("writing corrupt record: %v", err)
	}

	manager.Initialize()

	if manager.IsAuthenticated() {
		t.Fatal("corrupt record produced an authenticated session")
	}
	if record, err := store.Load(); err != nil || record != nil {
		t.Fatalf("corrupt record not deleted: (%+v, %v)", record, err)
	}
}

func TestInitializeIdempotent(t *testing.T) {
	manager, store := testManager(t, &fakeAuthenticator{})
	manager.Initialize()

	// A record appearing after the first Initialize must not flip the
	// state on a second call.
	token := signedToken(t, jwt.MapClaims{"sub": "late"})
	if err := store.Save(&Record{Token: token}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	manager.Initialize()

	if manager.IsAuthenticated() {
		t.Fatal("second Initialize re-read the record")
	}
}

func TestLoginSuccess(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "amina",
		"exp": jwt.NewNumericDate(testNow.Add(time.Hour)),
	})
	authn := &fakeAuthenticator{
		loginResponse: &portal.LoginResponse{
			Token: token,
			User:  portal.User{ID: 7, Username: "amina", Role: "student"},
		},
	}
	manager, store := testManager(t, authn)
	manager.Initialize()

	result := manager.Login(context.Background(), "amina", passwordBuffer(t))
	if !result.Success {
		t.Fatalf("login failed: %s", result.Message)
	}
	if !manager.IsAuthenticated() {
		t.Fatal("not authenticated after successful login")
	}
	got, ok := manager.AccessToken()
	if !ok || got != token {
		t.Fatalf("AccessToken = (%q, %v), want login token", got, ok)
	}

	record, err := store.Load()
	if err != nil || record == nil {
		t.Fatalf("record after login = (%+v, %v)", record, err)
	}
	if record.Token != token || record.User.Username != "amina" {
		t.Fatalf("persisted record = %+v", record)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	authn := &fakeAuthenticator{
		loginErr: &portal.APIError{StatusCode: 401, Message: "Unauthorized"},
	}
	manager, store := testManager(t, authn)
	manager.Initialize()

	result := manager.Login(context.Background(), "amina", passwordBuffer(t))
	if result.Success {
		t.Fatal("login with wrong credentials succeeded")
	}
	if result.Message != "Incorrect username or password." {
		t.Errorf("message = %q", result.Message)
	}
	if manager.IsAuthenticated() {
		t.Fatal("authenticated after failed login")
	}
	if record, err := store.Load(); err != nil || record != nil {
		t.Fatalf("failed login left a record: (%+v, %v)", record, err)
	}
}

func TestLoginServerMessagePassthrough(t *testing.T) {
	authn := &fakeAuthenticator{
		loginErr: &portal.APIError{StatusCode: 423, Message: "Account locked until review."},
	}
	manager, _ := testManager(t, authn)
	manager.Initialize()

	result := manager.Login(context.Background(), "amina", passwordBuffer(t))
	if result.Message != "Account locked until review." {
		t.Errorf("message = %q, want the server's message", result.Message)
	}
}

func TestLoginTransportError(t *testing.T) {
	authn := &fakeAuthenticator{loginErr: errors.New("dial tcp: connection refused")}
	manager, _ := testManager(t, authn)
	manager.Initialize()

	result := manager.Login(context.Background(), "amina", passwordBuffer(t))
	if result.Success {
		t.Fatal("login succeeded despite transport error")
	}
	if result.Message != "Could not reach the server. Please try again." {
		t.Errorf("message = %q", result.Message)
	}
}

func TestLoginRejectsExpiredServerToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"exp": jwt.NewNumericDate(testNow.Add(-time.Minute)),
	})
	authn := &fakeAuthenticator{
		loginResponse: &portal.LoginResponse{Token: token, User: portal.User{ID: 7}},
	}
	manager, store := testManager(t, authn)
	manager.Initialize()

	result := manager.Login(context.Background(), "amina", passwordBuffer(t))
	if result.Success {
		t.Fatal("login accepted an already-expired token")
	}
	if record, err := store.Load(); err != nil || record != nil {
		t.Fatalf("expired token was persisted: (%+v, %v)", record, err)
	}
}

func TestLogout(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "amina"})
	authn := &fakeAuthenticator{
		loginResponse: &portal.LoginResponse{Token: token, User: portal.User{ID: 7, Username: "amina"}},
	}
	manager, store := testManager(t, authn)
	manager.Initialize()

	if result := manager.Login(context.Background(), "amina", passwordBuffer(t)); !result.Success {
		t.Fatalf("login failed: %s", result.Message)
	}

	manager.Logout()

	if manager.IsAuthenticated() {
		t.Fatal("authenticated after logout")
	}
	if identity := manager.Identity(); identity != nil {
		t.Fatalf("identity after logout = %+v", identity)
	}
	if _, ok := manager.AccessToken(); ok {
		t.Fatal("AccessToken available after logout")
	}
	if record, err := store.Load(); err != nil || record != nil {
		t.Fatalf("record after logout = (%+v, %v)", record, err)
	}

	// Logging out again is a no-op.
	manager.Logout()
	if got := manager.CurrentState(); got != StateAnonymous {
		t.Fatalf("state after double logout = %v", got)
	}
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	manager, _ := testManager(t, &fakeAuthenticator{})
	manager.Initialize()

	result := manager.Register(context.Background(), portal.RegisterRequest{Username: "newcomer"})
	if !result.Success {
		t.Fatalf("register failed: %s", result.Message)
	}
	if manager.IsAuthenticated() {
		t.Fatal("registration established a session")
	}
}

func TestRegisterFailureMessage(t *testing.T) {
	authn := &fakeAuthenticator{
		registerErr: &portal.APIError{StatusCode: 409, Message: "Username already taken."},
	}
	manager, _ := testManager(t, authn)
	manager.Initialize()

	result := manager.Register(context.Background(), portal.RegisterRequest{Username: "taken"})
	if result.Success {
		t.Fatal("register succeeded despite conflict")
	}
	if result.Message != "Username already taken." {
		t.Errorf("message = %q, want the server's message", result.Message)
	}
}
