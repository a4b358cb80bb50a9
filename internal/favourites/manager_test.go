package favourites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/store"
)

type ManagerSuite struct {
	suite.Suite
	kv     *store.KVStore
	writer *store.Writer
	state  *state.Store
	mgr    *Manager
	ctx    context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = store.NewMemory()
	s.writer = store.NewWriter(s.kv, nil)
	s.state = state.New(nil)
	s.mgr = NewManager(s.kv, s.writer, s.state, nil)
}

func (s *ManagerSuite) TearDownTest() {
	s.Require().NoError(s.writer.Close())
	s.Require().NoError(s.kv.Close())
}

func movie(id int, title string) domain.CatalogItem {
	return domain.CatalogItem{ID: id, Title: title, Thumbnail: "https://img/" + title, MediaType: domain.MediaTypeMovie}
}

func (s *ManagerSuite) stored(userID string) []domain.CatalogItem {
	s.Require().NoError(s.writer.Flush(s.ctx))
	var items []domain.CatalogItem
	_, err := store.GetJSON(s.kv, store.FavouritesKey(userID), &items)
	s.Require().NoError(err)
	return items
}

func ids(items []domain.CatalogItem) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func (s *ManagerSuite) TestAddIsIdempotent() {
	s.mgr.LoadForUser(s.ctx, "ann")

	s.Require().NoError(s.mgr.Add(movie(1, "Dune")))
	s.Require().NoError(s.mgr.Add(movie(1, "Dune")))

	s.Len(s.state.Snapshot().Favourites.Items, 1)
	s.Equal([]int{1}, ids(s.stored("ann")))
	s.True(s.mgr.IsFavourite(1))
}

func (s *ManagerSuite) TestRemoveMissingIsNoop() {
	s.mgr.LoadForUser(s.ctx, "ann")
	s.Require().NoError(s.mgr.Add(movie(1, "Dune")))
	before := s.state.Snapshot()

	s.Require().NoError(s.mgr.Remove(42))

	after := s.state.Snapshot()
	s.Equal(before.Version, after.Version)
	s.Equal([]int{1}, ids(after.Favourites.Items))
}

func (s *ManagerSuite) TestRemovePersistsEmptySet() {
	s.mgr.LoadForUser(s.ctx, "ann")
	s.Require().NoError(s.mgr.Add(movie(1, "Dune")))
	s.Require().NoError(s.mgr.Remove(1))

	s.Require().NoError(s.writer.Flush(s.ctx))
	raw, ok, err := s.kv.Get(store.FavouritesKey("ann"))
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("[]", raw)
}

func (s *ManagerSuite) TestUsersAreIsolated() {
	s.mgr.LoadForUser(s.ctx, "A")
	s.Require().NoError(s.mgr.Add(movie(1, "Dune")))
	s.Require().NoError(s.mgr.Add(movie(2, "Alien")))

	s.mgr.LoadForUser(s.ctx, "B")
	s.Empty(s.state.Snapshot().Favourites.Items)
	s.Require().NoError(s.mgr.Add(movie(3, "Heat")))

	items := s.mgr.LoadForUser(s.ctx, "A")
	s.Equal([]int{1, 2}, ids(items))
	s.Equal("A", s.state.Snapshot().Favourites.UserID)
}

func (s *ManagerSuite) TestClearSessionViewKeepsStorage() {
	s.mgr.LoadForUser(s.ctx, "ann")
	s.Require().NoError(s.mgr.Add(movie(1, "Dune")))
	s.Require().NoError(s.mgr.Add(movie(2, "Alien")))

	s.mgr.ClearSessionView()
	snap := s.state.Snapshot()
	s.Empty(snap.Favourites.Items)
	s.Empty(snap.Favourites.UserID)

	items := s.mgr.LoadForUser(s.ctx, "ann")
	s.Equal([]int{1, 2}, ids(items))
}

func (s *ManagerSuite) TestMutationWithoutUserIsWarning() {
	err := s.mgr.Add(movie(1, "Dune"))
	s.ErrorIs(err, domain.ErrNoUserBound)
	s.True(s.mgr.IsFavourite(1), "state is still updated")
}

func (s *ManagerSuite) TestToggle() {
	s.mgr.LoadForUser(s.ctx, "ann")

	on, err := s.mgr.Toggle(movie(5, "Heat"))
	s.Require().NoError(err)
	s.True(on)

	on, err = s.mgr.Toggle(movie(5, "Heat"))
	s.Require().NoError(err)
	s.False(on)
	s.Empty(s.stored("ann"))
}

func (s *ManagerSuite) TestCorruptStorageLoadsEmpty() {
	s.Require().NoError(s.kv.Set(store.FavouritesKey("ann"), "{broken"))

	items := s.mgr.LoadForUser(s.ctx, "ann")
	s.Empty(items)
	s.Equal("ann", s.state.Snapshot().Favourites.UserID)
}

func (s *ManagerSuite) TestLastMutationWins() {
	s.mgr.LoadForUser(s.ctx, "ann")
	for i := 1; i <= 50; i++ {
		s.Require().NoError(s.mgr.Add(movie(i, "m")))
	}
	for i := 1; i <= 50; i += 2 {
		s.Require().NoError(s.mgr.Remove(i))
	}

	s.Equal(ids(s.state.Snapshot().Favourites.Items), ids(s.stored("ann")))
}

func TestFavouritesSurviveReopen(t *testing.T) {
	path := t.TempDir() + "/streambox.db"
	ctx := context.Background()

	kv, err := store.Open(path)
	require.NoError(t, err)
	w := store.NewWriter(kv, nil)
	m := NewManager(kv, w, state.New(nil), nil)
	m.LoadForUser(ctx, "7")
	require.NoError(t, m.Add(movie(1, "Dune")))
	require.NoError(t, w.Close())
	require.NoError(t, kv.Close())

	kv, err = store.Open(path)
	require.NoError(t, err)
	defer kv.Close()
	w = store.NewWriter(kv, nil)
	defer w.Close()

	items := NewManager(kv, w, state.New(nil), nil).LoadForUser(ctx, "7")
	assert.Equal(t, []int{1}, ids(items))
}
