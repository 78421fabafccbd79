package blobstore

import (
	"context"

	"github.com/hupe1980/boardmap/internal/resource"
)

// RateLimitedStore delays Put until the resource controller's IO budget
// admits the blob size. Reads pass through.
type RateLimitedStore struct {
	BlobStore
	rc *resource.Controller
}

// NewRateLimitedStore wraps s. A nil controller disables limiting.
func NewRateLimitedStore(s BlobStore, rc *resource.Controller) *RateLimitedStore {
	return &RateLimitedStore{BlobStore: s, rc: rc}
}

// Put waits for the IO budget and then writes data.
func (s *RateLimitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	return s.BlobStore.Put(ctx, name, data)
}
