package minio

import (
	"io"
	"os"
	"testing"

	"github.com/hupe1980/boardmap/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	bucket := "test-boardmap"

	store, err := New(Config{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}, bucket, "test-prefix/")
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := t.Context()

	// Check if MinIO is reachable
	if _, err = store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.bmpk", data))

	blob, err := store.Open(ctx, "test.bmpk")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())
	require.Implements(t, (*blobstore.Mappable)(nil), blob)

	part := make([]byte, 5)
	n, err := blob.ReadAt(part, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "minio", string(part))

	tail := make([]byte, 10)
	n, err = blob.ReadAt(tail, 12)
	assert.Equal(t, 5, n)
	assert.Equal(t, io.EOF, err)
	require.NoError(t, blob.Close())

	got, err := blobstore.ReadAll(ctx, store, "test.bmpk")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.bmpk")

	require.NoError(t, store.Delete(ctx, "test.bmpk"))

	_, err = store.Open(ctx, "test.bmpk")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
