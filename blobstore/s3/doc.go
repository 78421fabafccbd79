// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", s3.WithPrefix("packages/"))
//	if err != nil { ... }
//	err = store.Put(ctx, "moon-2024.bmpk", data)
//
// Credentials and region come from the default AWS configuration chain.
// Uploads go through the multipart upload manager with CRC32C checksums.
package s3
