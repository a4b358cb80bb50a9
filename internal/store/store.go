package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/streambox/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketSession     = []byte("session")
	bucketPreferences = []byte("preferences")
	bucketFavourites  = []byte("favourites")
)

var allBuckets = [][]byte{bucketSession, bucketPreferences, bucketFavourites}

// KVStore implements domain.KeyValueStore using BoltDB.
// Keys are routed to buckets by namespace.
type KVStore struct {
	db     *bolt.DB
	mu     sync.RWMutex // Protects memory cache, gen and closed
	closed bool
	gen    uint64 // Bumped by every completed Set or Remove

	// In-memory cache for hot-path reads (promoted on access).
	// In memory-only mode this is the store.
	cache map[string]string
}

var _ domain.KeyValueStore = (*KVStore)(nil)

// Open opens (or creates) the database at path.
// An empty path selects memory-only mode (no persistence).
func Open(path string) (*KVStore, error) {
	if path == "" {
		return NewMemory(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &KVStore{db: db, cache: make(map[string]string)}, nil
}

// NewMemory returns a store that keeps everything in memory
func NewMemory() *KVStore {
	return &KVStore{cache: make(map[string]string)}
}

func (s *KVStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// bucketFor routes a key to its bucket
func bucketFor(key string) []byte {
	switch {
	case strings.HasPrefix(key, KeyFavouritesPrefix):
		return bucketFavourites
	case key == KeyToken || key == KeyUser || key == KeyLocalUsers:
		return bucketSession
	default:
		return bucketPreferences
	}
}

func (s *KVStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return "", false, domain.ErrStoreClosed
	}
	if v, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	gen := s.gen
	s.mu.RUnlock()

	if s.db == nil {
		return "", false, nil
	}

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFor(key))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value = string(v) // copies out of the mmap
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if !found {
		return "", false, nil
	}

	s.promote(key, value, gen)
	return value, true, nil
}

// promote caches a value read from disk at generation gen. A write that
// completed since then may have changed the key, so the value is dropped.
func (s *KVStore) promote(key, value string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.gen != gen {
		return
	}
	if _, ok := s.cache[key]; !ok {
		s.cache[key] = value
	}
}

func (s *KVStore) Set(key, value string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	if s.db == nil {
		s.cache[key] = value
		s.gen++
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFor(key)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	// Update memory cache only once the write is durable
	s.mu.Lock()
	s.cache[key] = value
	s.gen++
	s.mu.Unlock()
	return nil
}

func (s *KVStore) Remove(key string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	delete(s.cache, key)
	if s.db == nil {
		s.gen++
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFor(key))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}

	// A read that overlapped the delete may have cached the old value
	s.mu.Lock()
	delete(s.cache, key)
	s.gen++
	s.mu.Unlock()
	return nil
}
