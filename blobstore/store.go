package blobstore

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store holds immutable named blobs.
//
// Implementations must be safe for concurrent use. Put replaces a blob
// atomically: readers observe either the old or the new content. Delete of a
// missing blob succeeds.
type Store interface {
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a whole blob. Missing blobs fail with ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a blob.
	Delete(ctx context.Context, name string) error

	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ValidateName rejects names that are empty, absolute or escape the store
// root.
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("blobstore: invalid blob name %q", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("blobstore: invalid blob name %q", name)
		}
	}
	return nil
}
