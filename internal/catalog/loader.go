package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
)

// Loader runs catalog fetches into the state store. Each load is tagged with
// the sequence number assigned by the store; results from superseded loads
// are cancelled and, if they still arrive, dropped by the reducer.
type Loader struct {
	source    domain.CatalogSource
	store     *state.Store
	debouncer *Debouncer
	logger    *slog.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu     sync.Mutex // Orders request dispatch with cancellation
	cancel context.CancelFunc
	typed  string // Latest query pushed through Search
}

// NewLoader creates a loader. debounce is the search quiet window.
func NewLoader(source domain.CatalogSource, store *state.Store, debounce time.Duration, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		source:     source,
		store:      store,
		logger:     logger,
		baseCtx:    ctx,
		baseCancel: cancel,
	}
	l.debouncer = NewDebouncer(debounce, l.searchNow)
	return l
}

// Load fetches category/query immediately, superseding any in-flight load.
// It blocks until the fetch finishes and returns its error. A superseded
// load returns context.Canceled.
func (l *Loader) Load(ctx context.Context, category domain.Category, query string) error {
	query = strings.TrimSpace(query)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	st, _ := l.store.Dispatch(state.CatalogRequested{Category: category, Query: query})
	seq := st.Catalog.Seq
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	items, err := l.source.Fetch(ctx, category, query)
	if err != nil {
		if _, applied := l.store.Dispatch(state.CatalogFailed{Seq: seq, Err: err.Error()}); !applied {
			l.logger.Debug("dropped stale catalog failure", "seq", seq)
		}
		if errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		l.logger.Warn("catalog load failed", "category", category, "query", query, "error", err)
		return err
	}

	if _, applied := l.store.Dispatch(state.CatalogLoaded{Seq: seq, Items: items}); !applied {
		l.logger.Debug("dropped stale catalog result", "seq", seq, "category", category, "query", query)
	}
	return nil
}

// Search records a typed query and loads it once typing pauses.
// The current category is read from the store when the load fires.
func (l *Loader) Search(query string) {
	l.mu.Lock()
	l.typed = query
	l.mu.Unlock()
	l.debouncer.Push(query)
}

// FlushSearch loads a pending typed query immediately
func (l *Loader) FlushSearch() bool {
	return l.debouncer.Flush()
}

// SetCategory switches category immediately, keeping the latest typed query
func (l *Loader) SetCategory(ctx context.Context, category domain.Category) error {
	l.debouncer.Stop()
	l.mu.Lock()
	query := l.typed
	l.mu.Unlock()
	return l.Load(ctx, category, query)
}

// Reload repeats the current category and query
func (l *Loader) Reload(ctx context.Context) error {
	cat := l.store.Snapshot().Catalog
	return l.Load(ctx, cat.Category, cat.Query)
}

// Close discards pending searches and cancels any in-flight load
func (l *Loader) Close() {
	l.debouncer.Stop()
	l.baseCancel()
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()
}

func (l *Loader) searchNow(query string) {
	category := l.store.Snapshot().Catalog.Category
	if err := l.Load(l.baseCtx, category, query); err != nil && !errors.Is(err, context.Canceled) {
		l.logger.Debug("debounced search failed", "query", query, "error", err)
	}
}
