package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/store"
)

// Manager owns the session lifecycle: local and remote login, registration,
// logout and restoring a persisted session at start-up.
type Manager struct {
	kv     domain.KeyValueStore
	remote domain.AuthClient
	state  *state.Store
	logger *slog.Logger

	bcryptCost int
}

// Options tunes a Manager
type Options struct {
	// BcryptCost is the hashing cost for local passwords. Zero means bcrypt.DefaultCost.
	BcryptCost int
}

// NewManager creates an auth manager
func NewManager(kv domain.KeyValueStore, remote domain.AuthClient, st *state.Store, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Manager{
		kv:         kv,
		remote:     remote,
		state:      st,
		logger:     logger,
		bcryptCost: opts.BcryptCost,
	}
}

// Login authenticates against the local registry first, then the remote
// service. Failures are *domain.AuthError and leave the session unauthenticated.
func (m *Manager) Login(ctx context.Context, username, password string) (domain.Session, error) {
	m.state.Dispatch(state.LoginStarted{})

	session, err := m.login(ctx, username, password)
	if err != nil {
		m.state.Dispatch(state.LoginFailed{Err: err.Error()})
		return domain.Session{}, err
	}

	m.state.Dispatch(state.LoginSucceeded{User: *session.User, Token: session.Token, ExpiresAt: session.ExpiresAt})
	m.logger.Info("logged in", "username", session.User.Username, "local", IsLocalToken(session.Token))
	return session, nil
}

func (m *Manager) login(ctx context.Context, username, password string) (domain.Session, error) {
	if m.matchLocal(username, password) {
		token, err := newLocalToken()
		if err != nil {
			return domain.Session{}, &domain.AuthError{Message: "failed to create session token", Err: err}
		}
		user := domain.User{Username: username}
		m.persist(token, user)
		return domain.Session{User: &user, Token: token}, nil
	}

	res, err := m.remote.Login(ctx, username, password)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return domain.Session{}, authErr
		}
		return domain.Session{}, &domain.AuthError{Message: err.Error(), Err: err}
	}

	user := res.User
	m.persist(res.Token, user)
	return domain.Session{User: &user, Token: res.Token, ExpiresAt: TokenExpiry(res.Token)}, nil
}

// matchLocal reports whether the registry holds these credentials.
// An unreadable registry is treated as empty.
func (m *Manager) matchLocal(username, password string) bool {
	creds, err := m.localUsers()
	if err != nil {
		m.logger.Warn("ignoring unreadable local users", "error", err)
		return false
	}
	for _, c := range creds {
		if c.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil {
			return true
		}
	}
	return false
}

func (m *Manager) localUsers() ([]domain.Credential, error) {
	var creds []domain.Credential
	if _, err := store.GetJSON(m.kv, store.KeyLocalUsers, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// persist writes the session pair. Failures are logged; the in-memory
// session is still valid for this run.
func (m *Manager) persist(token string, user domain.User) {
	if err := m.kv.Set(store.KeyToken, token); err != nil {
		m.logger.Error("failed to persist token", "error", err)
	}
	if err := store.SetJSON(m.kv, store.KeyUser, user); err != nil {
		m.logger.Error("failed to persist user", "error", err)
	}
}

// Register adds a local credential and logs in with it. The registration
// stays persisted even if the login that follows fails. Usernames are not
// checked for duplicates.
func (m *Manager) Register(ctx context.Context, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Session{}, &domain.AuthError{Message: "username and password are required"}
	}
	if allDigits(username) {
		// Numeric keys belong to remote accounts
		return domain.Session{}, &domain.AuthError{Message: "username must contain a letter or underscore"}
	}

	creds, err := m.localUsers()
	if err != nil {
		return domain.Session{}, &domain.AuthError{Message: "failed to read local users", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return domain.Session{}, &domain.AuthError{Message: "failed to hash password", Err: err}
	}

	creds = append(creds, domain.Credential{Username: username, Password: string(hash)})
	if err := store.SetJSON(m.kv, store.KeyLocalUsers, creds); err != nil {
		return domain.Session{}, &domain.AuthError{Message: "failed to save registration", Err: err}
	}
	m.logger.Info("registered local user", "username", username)

	return m.Login(ctx, username, password)
}

// Logout ends the session in memory and storage. Favourites and profile
// storage are left untouched.
func (m *Manager) Logout() {
	m.state.Dispatch(state.LoggedOut{})

	for _, key := range []string{store.KeyToken, store.KeyUser} {
		if err := m.kv.Remove(key); err != nil {
			m.logger.Error("failed to remove session key", "key", key, "error", err)
		}
	}
	m.logger.Info("logged out")
}

// Restore rehydrates a persisted session. ok is false when no complete
// session was stored.
func (m *Manager) Restore() (domain.Session, bool) {
	token, ok, err := m.kv.Get(store.KeyToken)
	if err != nil || !ok || token == "" {
		if err != nil {
			m.logger.Warn("failed to read token", "error", err)
		}
		return domain.Session{}, false
	}

	var user domain.User
	found, err := store.GetJSON(m.kv, store.KeyUser, &user)
	if err != nil || !found || user.Username == "" {
		if err != nil {
			m.logger.Warn("failed to read user", "error", err)
		}
		return domain.Session{}, false
	}

	expiresAt := TokenExpiry(token)
	m.state.Dispatch(state.LoginSucceeded{User: user, Token: token, ExpiresAt: expiresAt})
	m.logger.Info("session restored", "username", user.Username)
	return domain.Session{User: &user, Token: token, ExpiresAt: expiresAt}, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
