package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for storing immutable data blobs (packages).
type BlobStore interface {
	// Open opens a blob for reading. The context governs the reads of
	// remote blobs.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically: readers see all of data or nothing.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	// This is a zero-copy operation if supported.
	Bytes() ([]byte, error)
}

// NewBytesBlob returns a Mappable Blob over data. Stores that fetch a whole
// package in one request hand it out this way.
func NewBytesBlob(data []byte) Blob {
	return &bytesBlob{Reader: bytes.NewReader(data), data: data}
}

type bytesBlob struct {
	*bytes.Reader
	data []byte
}

func (b *bytesBlob) Close() error           { return nil }
func (b *bytesBlob) Bytes() ([]byte, error) { return b.data, nil }

// View opens name and calls fn with its full contents. The slice must not be
// retained after fn returns.
func View(ctx context.Context, s BlobStore, name string, fn func(data []byte) error) error {
	b, err := s.Open(ctx, name)
	if err != nil {
		return err
	}
	defer b.Close()

	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return fmt.Errorf("map blob %s: %w", name, err)
		}
		return fn(data)
	}

	data := make([]byte, b.Size())
	if _, err := b.ReadAt(data, 0); err != nil && err != io.EOF {
		return fmt.Errorf("read blob %s: %w", name, err)
	}
	return fn(data)
}

// ReadAll returns a copy of the contents of name.
func ReadAll(ctx context.Context, s BlobStore, name string) ([]byte, error) {
	var out []byte
	err := View(ctx, s, name, func(data []byte) error {
		out = append([]byte(nil), data...)
		return nil
	})
	return out, err
}
