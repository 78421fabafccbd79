// Package cache provides a size-bounded LRU cache.
//
// Entries are weighted by a caller-supplied cost (bytes for packages).
// When a resource.Controller is attached, the cached cost is also accounted
// against its memory limit; an entry the controller refuses is not cached.
package cache
