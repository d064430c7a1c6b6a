// Package store is the durable key-value layer behind settings, notes,
// accounts and sessions. Values are strings; structured values are stored as
// JSON so every backend holds them the same way.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a key is absent or expired
var ErrNotFound = errors.New("key not found")

// Store defines the key-value operations the services rely on
type Store interface {
	// Get returns the value under key or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key; ttl <= 0 keeps it until overwritten
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Health checks if the backend is reachable
	Health(ctx context.Context) error

	// Close releases the backend connection
	Close() error
}

// GetJSON decodes the JSON value under key into v
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("malformed value under %q: %w", key, err)
	}
	return nil
}

// SetJSON encodes v as JSON and stores it under key
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}
	return s.Set(ctx, key, string(data), ttl)
}

// GetList reads a string list stored as a JSON array
func GetList(ctx context.Context, s Store, key string) ([]string, error) {
	var list []string
	if err := GetJSON(ctx, s, key, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// SetList stores a string list as a JSON array
func SetList(ctx context.Context, s Store, key string, list []string) error {
	if list == nil {
		list = []string{}
	}
	return SetJSON(ctx, s, key, list, 0)
}
