package store

import (
	"context"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
)

// KeyFunc derives a record's storage key from its state. It must be pure and
// deterministic; composite keys join fields with ":".
type KeyFunc[T any] func(state T) string

// Collection is a typed view over the Store for one record type: a type
// name, a record shape, and a key-derivation function. This replaces the
// one-class-per-entity hierarchy with plain data access.
type Collection[T any] struct {
	store *Store
	name  string
	keyOf KeyFunc[T]
}

// NewCollection declares a record type on the store.
func NewCollection[T any](s *Store, name string, keyOf KeyFunc[T]) Collection[T] {
	return Collection[T]{store: s, name: name, keyOf: keyOf}
}

// Name returns the collection's entity type name.
func (c Collection[T]) Name() string { return c.name }

// Key derives the storage key for a record.
func (c Collection[T]) Key(state T) string { return c.keyOf(state) }

// Create persists a new record, deriving its key from the state. Reports
// AlreadyExists when the key is taken.
func (c Collection[T]) Create(ctx context.Context, state T) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s record", c.name))
	}
	return c.store.Create(ctx, c.name, c.keyOf(state), raw)
}

// Get loads the record stored under key.
func (c Collection[T]) Get(ctx context.Context, key string) (T, error) {
	var state T
	raw, err := c.store.Get(ctx, c.name, key)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("decode %s record", c.name))
	}
	return state, nil
}

// Exists reports whether a record is stored under key.
func (c Collection[T]) Exists(ctx context.Context, key string) (bool, error) {
	return c.store.Exists(ctx, c.name, key)
}

// Patch merges partial fields into the stored record and returns the result.
func (c Collection[T]) Patch(ctx context.Context, key string, partial map[string]any) (T, error) {
	var state T
	raw, err := c.store.Patch(ctx, c.name, key, partial)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("decode %s record", c.name))
	}
	return state, nil
}

// Delete removes the record stored under key.
func (c Collection[T]) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, c.name, key)
}

// List returns every record of the collection in insertion order.
func (c Collection[T]) List(ctx context.Context) ([]T, error) {
	raws, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, err
	}
	states := make([]T, 0, len(raws))
	for _, raw := range raws {
		var state T
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("decode %s record", c.name))
		}
		states = append(states, state)
	}
	return states, nil
}
