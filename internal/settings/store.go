package settings

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates that no blob is stored under the requested key.
	ErrNotFound = errors.New("settings: key not found")
	// ErrKeyRequired indicates that store operations require a non-empty key.
	ErrKeyRequired = errors.New("settings: key is required")
	// ErrDatabaseRequired indicates a Bun store built without a database.
	ErrDatabaseRequired = errors.New("settings: bun store requires a database")
)

// Store persists opaque settings blobs by storage key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates blob change events.
type ChangeType string

const (
	// ChangeCreated indicates a blob was stored under a new key.
	ChangeCreated ChangeType = "created"
	// ChangeUpdated indicates an existing blob was replaced.
	ChangeUpdated ChangeType = "updated"
	// ChangeDeleted indicates a blob was removed.
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports blob mutations to subscribers.
type ChangeEvent struct {
	Type ChangeType
	Key  string
}
