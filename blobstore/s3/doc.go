// Package s3 provides an Amazon S3 implementation of the blobstore.Store
// interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("arrays/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	ar := sparse.NewArchive(store)
//
// # Features
//
//   - Multipart uploads for large arrays
//   - CRC32C integrity validation on upload
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
