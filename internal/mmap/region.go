package mmap

import (
	"errors"
	"io"
	"math"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned by reads from an unmapped region.
	ErrClosed = errors.New("mmap: region is closed")
	// ErrTooLarge is returned for files that do not fit the address space.
	ErrTooLarge = errors.New("mmap: file too large to map")
	// ErrNegativeOffset is returned by ReadAt for offsets below zero.
	ErrNegativeOffset = errors.New("mmap: negative offset")
)

// Advice is an access hint passed to the kernel after mapping.
type Advice int

const (
	AdviceNormal Advice = iota
	// AdviceSequential suits a decoder that reads the file front to back.
	AdviceSequential
	// AdviceWillNeed asks for the whole file to be paged in early.
	AdviceWillNeed
)

// Region is a read-only mapping of a whole file.
type Region struct {
	data   []byte
	closed atomic.Bool
	unmap  func() error
}

// Map maps the file at path read-only and applies advice. An empty file
// yields an empty region that owns no mapping.
func Map(path string, advice Advice) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &Region{}, nil
	}
	if size > math.MaxInt {
		return nil, ErrTooLarge
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	// Advice is a hint; a kernel that rejects it still serves reads.
	_ = osAdvise(data, advice)
	return &Region{data: data, unmap: unmap}, nil
}

// Len returns the mapped length in bytes.
func (r *Region) Len() int { return len(r.data) }

// Bytes returns the mapped file. The slice must not be used after Close.
func (r *Region) Bytes() ([]byte, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	return r.data, nil
}

// ReadAt implements io.ReaderAt.
func (r *Region) ReadAt(p []byte, off int64) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the region. Later calls are no-ops.
func (r *Region) Close() error {
	if r.closed.Swap(true) || r.unmap == nil {
		return nil
	}
	return r.unmap()
}
