// Package store provides the key-value persistence used by every ledger.
package store

import (
	"encoding/json"
	"fmt"
)

// Keys under which the finance state is persisted.
const (
	KeyUsers         = "users"
	KeyLoggedInUser  = "loggedInUser"
	KeyLastUserEmail = "lastUserEmail"
	KeyTransactions  = "transactions"
	KeyBudgets       = "budgets"
	KeyCategories    = "categories"
)

// Store is a string-keyed store of serialized values. Set replaces the whole
// value at a key in one step.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Keys() ([]string, error)
	Close() error
}

// Load decodes the JSON value at key into a T. The bool is false when the key
// is absent, in which case the zero T is returned.
func Load[T any](s Store, key string) (T, bool, error) {
	var v T
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return v, true, nil
}

// Save encodes v as JSON and writes it at key. Nothing is written if encoding
// fails.
func Save(s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.Set(key, raw); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// GetString returns the raw value at key as a plain string.
func GetString(s Store, key string) (string, bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), true, nil
}

// SetString writes a plain string at key without JSON encoding.
func SetString(s Store, key, value string) error {
	if err := s.Set(key, []byte(value)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
