package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/streambox/internal/auth"
	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/store"
)

const guestName = "Guest"

// Manager owns the cached user profile
type Manager struct {
	kv     domain.KeyValueStore
	remote domain.AuthClient
	state  *state.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a profile manager
func NewManager(kv domain.KeyValueStore, remote domain.AuthClient, st *state.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		kv:     kv,
		remote: remote,
		state:  st,
		logger: logger,
		now:    time.Now,
	}
}

// LoadCached reads the stored profile into state. It returns nil when
// nothing is stored or the stored value is unreadable.
func (m *Manager) LoadCached() *domain.Profile {
	m.state.Dispatch(state.ProfileLoading{})

	var p domain.Profile
	found, err := store.GetJSON(m.kv, store.KeyProfile, &p)
	if err != nil {
		m.logger.Warn("failed to load cached profile", "error", err)
	}
	if err != nil || !found {
		m.state.Dispatch(state.ProfileLoaded{})
		return nil
	}

	m.state.Dispatch(state.ProfileLoaded{Profile: &p})
	return &p
}

// FetchRemote loads the profile of the token's user from the remote
// service and writes it through to storage.
func (m *Manager) FetchRemote(ctx context.Context, token string) (domain.Profile, error) {
	if token == "" {
		return domain.Profile{}, m.fetchFailed(&domain.ProfileFetchError{Message: "no session token"})
	}
	if auth.Expired(token, m.now()) {
		return domain.Profile{}, m.fetchFailed(&domain.ProfileFetchError{
			Message: "failed to fetch profile",
			Err:     domain.ErrSessionExpired,
		})
	}

	m.state.Dispatch(state.ProfileLoading{})

	user, err := m.remote.Me(ctx, token)
	if err != nil {
		return domain.Profile{}, m.fetchFailed(&domain.ProfileFetchError{Message: "failed to fetch profile", Err: err})
	}

	p := FromUser(*user)
	if err := store.SetJSON(m.kv, store.KeyProfile, p); err != nil {
		m.logger.Error("failed to cache profile", "error", err)
	}

	m.state.Dispatch(state.ProfileLoaded{Profile: &p})
	m.logger.Info("profile fetched", "username", p.Username)
	return p, nil
}

func (m *Manager) fetchFailed(err *domain.ProfileFetchError) error {
	m.logger.Warn("profile fetch failed", "error", err)
	m.state.Dispatch(state.ProfileFailed{Err: err.Error()})
	return err
}

// Update stores p and then makes it the current profile. When the write
// fails the current profile is left as it was.
func (m *Manager) Update(p domain.Profile) (domain.Profile, error) {
	if err := store.SetJSON(m.kv, store.KeyProfile, p); err != nil {
		saveErr := &domain.ProfileSaveError{Err: err}
		m.logger.Error("profile update failed", "error", err)
		m.state.Dispatch(state.ProfileFailed{Err: saveErr.Error()})
		return domain.Profile{}, saveErr
	}

	m.state.Dispatch(state.ProfileLoaded{Profile: &p})
	return p, nil
}

// Clear removes the stored profile and resets the in-memory view
func (m *Manager) Clear() {
	if err := m.kv.Remove(store.KeyProfile); err != nil {
		m.logger.Error("failed to remove profile", "error", err)
	}
	m.state.Dispatch(state.ProfileReset{})
}

// FromUser builds a profile from a session user record
func FromUser(u domain.User) domain.Profile {
	return domain.Profile{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Username:  u.Username,
		Avatar:    u.Image,
	}
}

// DisplayName picks the name to greet the user with
func DisplayName(st state.State) string {
	if p := st.Profile.Profile; p != nil {
		if name := p.FullName(); name != "" {
			return name
		}
	}
	if u := st.Session.User; u != nil {
		if name := u.FullName(); name != "" {
			return name
		}
		if u.Username != "" {
			return u.Username
		}
	}
	return guestName
}
