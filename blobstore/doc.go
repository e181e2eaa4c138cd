// Package blobstore provides the storage abstraction behind sparse.Archive.
//
// Store is the interface for reading and writing immutable named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests
//   - LocalStore: local filesystem with atomic rename on write
//   - CachingStore: LRU read cache in front of any Store
//   - s3.Store: Amazon S3 via aws-sdk-go-v2
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Put(ctx, name, data) error             // Atomic write
//	    Get(ctx, name) ([]byte, error)         // Whole-blob read
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
