package domain

// KeyValueStore is opaque string-keyed durable storage.
// Structured values are JSON-encoded by the caller.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Remove deletes key; removing a missing key is not an error
	Remove(key string) error

	Close() error
}
