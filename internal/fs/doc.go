// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: a file opened for writing, with Sync
//   - [FileSystem]: the operations blobstore.LocalStore needs (temp files, rename, walk)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetLimit(1024) // Fail after 1KB written
//	// inject ffs into component under test
//
// Operations take no context.Context. Local file system calls are not
// interruptible at the syscall level; blobstore.Store carries the context.
package fs
