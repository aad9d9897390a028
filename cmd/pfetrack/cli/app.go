// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/pfetrack/pfetrack/lib/config"
	"github.com/pfetrack/pfetrack/lib/secret"
	"github.com/pfetrack/pfetrack/portal"
	"github.com/pfetrack/pfetrack/session"
)

// CommonFlags are accepted by every command that talks to the portal.
type CommonFlags struct {
	// ConfigPath is an explicit config file (--config). Empty falls
	// back to PFETRACK_CONFIG and then built-in defaults.
	ConfigPath string
	// ServerURL overrides the configured portal URL (--server).
	ServerURL string
	// SessionFile overrides the session record location
	// (--session-file).
	SessionFile string
}

// Register adds the common flags to a flag set.
func (f *CommonFlags) Register(flags *pflag.FlagSet) {
	flags.StringVar(&f.ConfigPath, "config", "", "path to config file")
	flags.StringVar(&f.ServerURL, "server", "", "portal server URL (overrides config)")
	flags.StringVar(&f.SessionFile, "session-file", "", "path to session record (overrides config)")
}

// App is the assembled client: configuration, the portal client, the
// session manager, and the authenticated channel built on top of it.
// One App is constructed per command invocation.
type App struct {
	Config  *config.Config
	Client  *portal.Client
	Manager *session.Manager
	Session *portal.Session
	Logger  *slog.Logger
}

// NewApp builds the client stack from the common flags and restores
// any persisted session. After NewApp returns, the manager is ready:
// either anonymous or authenticated, never still initializing.
func NewApp(flags CommonFlags, logger *slog.Logger) (*App, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if flags.ServerURL != "" {
		cfg.ServerURL = flags.ServerURL
	}
	if flags.SessionFile != "" {
		cfg.SessionFile = flags.SessionFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := portal.NewClient(portal.ClientConfig{
		ServerURL: cfg.ServerURL,
		Timeout:   cfg.RequestTimeout.Std(),
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	store, err := session.NewRecordStore(cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	manager, err := session.NewManager(session.ManagerConfig{
		Authenticator: client,
		Store:         store,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	manager.Initialize()

	return &App{
		Config:  cfg,
		Client:  client,
		Manager: manager,
		Session: portal.NewSession(client, manager),
		Logger:  logger,
	}, nil
}

// RequireLogin returns an error when no user is authenticated, so
// protected commands fail with one consistent message instead of a
// server round trip.
func (a *App) RequireLogin() error {
	if !a.Manager.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'pfetrack login <username>' first")
	}
	return nil
}

// ReadPassword obtains a password: from the given file ("-" reads
// stdin), or by interactive prompt when path is empty and stderr is a
// terminal. The caller owns the returned buffer.
func ReadPassword(path, prompt string) (*secret.Buffer, error) {
	if path != "" {
		return secret.ReadFromPath(path)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Piped stdin without --password-file: treat stdin as the
		// password source.
		return secret.ReadFromPath("-")
	}

	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("password is empty")
	}
	return secret.NewFromBytes(raw)
}
