// Package storage defines the Provider interface for the local staging area
// that holds downloads between fetch and publish.
package storage

import (
	"context"
	"os"
)

// Provider stages per-request files.
type Provider interface {
	// Create opens a new, uniquely named file derived from name. The caller owns the returned file.
	Create(ctx context.Context, name string) (*os.File, error)
	// Remove deletes a staged file. Removing a file that no longer exists is not an error.
	Remove(ctx context.Context, path string) error
	// Root returns the staging directory.
	Root() string
}
