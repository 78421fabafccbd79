// Package blobstore stores named, immutable package blobs.
//
// Packages are written once with Put and read back whole. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic writes, mmap reads
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 via the multipart upload manager
//   - minio.Store: MinIO and other S3-compatible services, fetched in one request
//
// # Reading
//
// View hands the blob bytes to a callback. Stores whose blobs implement
// Mappable do so without copying:
//
//	err := blobstore.View(ctx, store, "routes.bmpk", func(data []byte) error {
//	    p, err := pack.Unmarshal(data)
//	    ...
//	})
package blobstore
