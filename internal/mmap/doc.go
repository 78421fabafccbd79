// Package mmap maps package files read-only so the local blob store can hand
// their bytes to the decoder without copying.
//
//	r, err := mmap.Map("routes.bmpk", mmap.AdviceSequential)
//	if err != nil { ... }
//	defer r.Close()
//	data, err := r.Bytes()
//
// Unix uses mmap(2) and madvise(2). Windows uses MapViewOfFile and ignores
// the advice.
package mmap
