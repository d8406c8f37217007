// Package storage provides the key-value persistence port for account
// records. The core treats records as opaque documents keyed by
// account id; saves of identical data are harmless.
package storage

import "context"

// Store is the persistence collaborator.
type Store interface {
	// Save writes the record for an account id, replacing any prior value.
	Save(ctx context.Context, accountID string, data []byte) error
	// Load returns the record for an account id, or (nil, nil) when absent.
	Load(ctx context.Context, accountID string) ([]byte, error)
	// List returns all stored account ids.
	List(ctx context.Context) ([]string, error)
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
