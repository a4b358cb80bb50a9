package store

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/streambox/internal/domain"
)

// GetJSON decodes the value under key into dest.
// It returns false when the key does not exist.
func GetJSON(kv domain.KeyValueStore, key string, dest any) (bool, error) {
	raw, ok, err := kv.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key
func SetJSON(kv domain.KeyValueStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return kv.Set(key, string(data))
}
