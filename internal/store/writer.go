package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/streambox/internal/domain"
)

const writeQueueSize = 64

type writeOp struct {
	key    string
	value  string
	remove bool
	flush  chan struct{} // non-nil for flush markers
}

// Writer applies writes to a KeyValueStore on a single background worker.
// Writes are applied in the order they were enqueued, so the last enqueued
// value for a key is the one that ends up stored. Failures are logged and
// never retried.
type Writer struct {
	kv     domain.KeyValueStore
	logger *slog.Logger

	mu     sync.Mutex // Protects closed and sends on queue
	closed bool
	queue  chan writeOp
	done   chan struct{}
}

// NewWriter starts a writer for kv
func NewWriter(kv domain.KeyValueStore, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Writer{
		kv:     kv,
		logger: logger,
		queue:  make(chan writeOp, writeQueueSize),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Writer) run() {
	defer close(w.done)
	for op := range w.queue {
		switch {
		case op.flush != nil:
			close(op.flush)
		case op.remove:
			if err := w.kv.Remove(op.key); err != nil {
				w.logger.Error("failed to remove key", "key", op.key, "error", err)
			}
		default:
			if err := w.kv.Set(op.key, op.value); err != nil {
				w.logger.Error("failed to write key", "key", op.key, "error", err)
			}
		}
	}
}

func (w *Writer) enqueue(op writeOp) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return domain.ErrStoreClosed
	}
	w.queue <- op
	return nil
}

// Set enqueues a write of value under key
func (w *Writer) Set(key, value string) error {
	return w.enqueue(writeOp{key: key, value: value})
}

// SetJSON encodes value now and enqueues the write, so later mutations
// of value do not leak into storage.
func (w *Writer) SetJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return w.Set(key, string(data))
}

// Remove enqueues deletion of key
func (w *Writer) Remove(key string) error {
	return w.enqueue(writeOp{key: key, remove: true})
}

// Flush blocks until every write enqueued before the call has been applied
func (w *Writer) Flush(ctx context.Context) error {
	marker := make(chan struct{})
	if err := w.enqueue(writeOp{flush: marker}); err != nil {
		return err
	}
	select {
	case <-marker:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes and stops the worker.
// It does not close the underlying store.
func (w *Writer) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
	return nil
}
