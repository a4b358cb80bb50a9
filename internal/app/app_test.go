package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmcdole/streambox/internal/adapter"
	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/profile"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/store"
)

// fakeBackend serves the catalog and credential endpoints
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/trending/movie/week", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[
			{"id":10,"title":"Heat","poster_path":"/heat.jpg","vote_average":8.3},
			{"id":11,"title":"Ronin","poster_path":"/ronin.jpg"}
		]}`))
	})
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":12,"title":"` + r.URL.Query().Get("query") + `","poster_path":"/q.jpg"}]}`))
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Username != "emilys" || body.Password != "emilyspass" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Invalid credentials"))
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"username":"emilys","firstName":"Emily","lastName":"Johnson","accessToken":"remote-token"}`))
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer remote-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"username":"emilys","firstName":"Em","lastName":"Johnson","email":"emily@x.io"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server, storagePath string) *adapter.Config {
	cfg := adapter.DefaultConfig()
	cfg.Catalog.BaseURL = srv.URL
	cfg.Catalog.ImageBaseURL = "https://img.test/t/p"
	cfg.Catalog.APIKey = "key"
	cfg.Catalog.Debounce = 20 * time.Millisecond
	cfg.Auth.BaseURL = srv.URL
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Storage.Path = storagePath
	return cfg
}

func openApp(t *testing.T, cfg *adapter.Config) *App {
	t.Helper()
	a, err := Open(cfg, adapter.NullLogger())
	require.NoError(t, err)
	return a
}

func TestLocalAccountFlow(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, testConfig(fakeBackend(t), ""))
	defer a.Close()

	assert.False(t, a.Start(ctx))
	assert.Equal(t, domain.ThemeLight, a.State.Snapshot().Theme.Theme)

	_, err := a.Register(ctx, "ann", "pass1")
	require.NoError(t, err)
	snap := a.State.Snapshot()
	require.True(t, snap.Session.IsAuthenticated())
	assert.Equal(t, "ann", snap.Favourites.UserID)
	assert.Equal(t, "ann", profile.DisplayName(snap))

	require.NoError(t, a.Browse(ctx, domain.CategoryMovies))
	snap = a.State.Snapshot()
	require.Equal(t, state.CatalogPopulated, snap.Catalog.Status())
	require.Len(t, snap.Catalog.Items, 2)

	heat := snap.Catalog.Items[0]
	_, err = a.Favourites.Toggle(heat)
	require.NoError(t, err)

	a.Logout()
	snap = a.State.Snapshot()
	assert.False(t, snap.Session.IsAuthenticated())
	assert.Empty(t, snap.Favourites.Items)
	assert.Equal(t, "Guest", profile.DisplayName(snap))

	_, err = a.Login(ctx, "ann", "pass1")
	require.NoError(t, err)
	assert.True(t, a.Favourites.IsFavourite(heat.ID), "favourites survive logout")
}

func TestRemoteAccountFlow(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, testConfig(fakeBackend(t), ""))
	defer a.Close()

	_, err := a.Login(ctx, "emilys", "wrong")
	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid credentials", authErr.Message)

	_, err = a.Login(ctx, "emilys", "emilyspass")
	require.NoError(t, err)

	snap := a.State.Snapshot()
	assert.Equal(t, "1", snap.Favourites.UserID, "remote users are keyed by id")
	require.NotNil(t, snap.Profile.Profile)
	assert.Equal(t, "emily@x.io", snap.Profile.Profile.Email)
	assert.Equal(t, "Em Johnson", profile.DisplayName(snap))
}

func TestDebouncedSearch(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, testConfig(fakeBackend(t), ""))
	defer a.Close()

	require.NoError(t, a.Browse(ctx, domain.CategoryMovies))

	a.Search("b")
	a.Search("ba")
	a.Search("bat")

	require.Eventually(t, func() bool {
		c := a.State.Snapshot().Catalog
		return c.Query == "bat" && c.Status() == state.CatalogPopulated
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "bat", a.State.Snapshot().Catalog.Items[0].Title)
}

func TestSessionRestoredAfterRestart(t *testing.T) {
	ctx := context.Background()
	srv := fakeBackend(t)
	cfg := testConfig(srv, filepath.Join(t.TempDir(), "streambox.db"))

	a := openApp(t, cfg)
	_, err := a.Register(ctx, "ann", "pass1")
	require.NoError(t, err)
	require.NoError(t, a.Browse(ctx, domain.CategoryMovies))
	require.NoError(t, a.Favourites.Add(a.State.Snapshot().Catalog.Items[1]))
	a.Theme.Toggle()
	require.NoError(t, a.Close())

	a = openApp(t, cfg)
	defer a.Close()

	require.True(t, a.Start(ctx))
	snap := a.State.Snapshot()
	assert.Equal(t, "ann", snap.Session.User.Username)
	assert.Equal(t, domain.ThemeDark, snap.Theme.Theme)
	assert.True(t, a.Favourites.IsFavourite(11))
}

func TestLogoutRemovesStoredProfile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(fakeBackend(t), filepath.Join(t.TempDir(), "streambox.db"))

	a := openApp(t, cfg)
	_, err := a.Login(ctx, "emilys", "emilyspass")
	require.NoError(t, err)
	require.Equal(t, "Em Johnson", profile.DisplayName(a.State.Snapshot()))
	a.Logout()
	require.NoError(t, a.Close())

	a = openApp(t, cfg)
	defer a.Close()

	assert.False(t, a.Start(ctx))
	assert.Nil(t, a.State.Snapshot().Profile.Profile)

	_, err = a.Register(ctx, "ann", "pass1")
	require.NoError(t, err)
	assert.Equal(t, "ann", profile.DisplayName(a.State.Snapshot()))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, testConfig(fakeBackend(t), ""))
	defer a.Close()

	_, err := a.Login(ctx, "emilys", "emilyspass")
	require.NoError(t, err)

	form := profile.FormValues(a.State.Snapshot())
	assert.Equal(t, "Em", form.FirstName)
	assert.Equal(t, "emily@x.io", form.Email)

	form.FirstName = "E"
	_, err = a.UpdateProfile(form)
	var verr *profile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "FirstName", verr.Field)
	assert.Equal(t, "Em Johnson", profile.DisplayName(a.State.Snapshot()), "rejected edits are not applied")

	form.FirstName = "Emily"
	form.Username = "emily_j"
	saved, err := a.UpdateProfile(form)
	require.NoError(t, err)
	assert.Equal(t, "emily_j", saved.Username)
	assert.Equal(t, "Emily Johnson", profile.DisplayName(a.State.Snapshot()))

	var stored domain.Profile
	found, err := store.GetJSON(a.KV, store.KeyProfile, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, stored)
}
