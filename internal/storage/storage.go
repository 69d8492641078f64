package storage

import "context"

// DefaultKey is the fixed slot name under which the whole todo
// collection is stored as a single JSON array.
const DefaultKey = "todoflow_tasks"

// Store is a key-value slot holding the serialized todo collection.
// Save replaces the slot's entire contents; there is no incremental
// write.
type Store interface {
	// Load returns the slot's contents, or nil when the slot has
	// never been written.
	Load(ctx context.Context) ([]byte, error)

	// Save atomically replaces the slot's contents. After an error
	// the slot still holds either the previous or the new document,
	// never a mix.
	Save(ctx context.Context, data []byte) error
}
