// Package hash provides the checksums and content keys used by boardmap.
//
// # CRC32-Castagnoli (CRC32C)
//
// Every section of a package carries a CRC32C checksum of its stored bytes.
// Go's crc32 package uses hardware instructions when available (SSE4.2, ARM CRC).
//
//	checksum := hash.CRC32C(data)
//
// # Content Keys
//
// Explorer sessions are memoized by a SHA-256 key of the package bytes:
//
//	key := hash.ContentKey(data)
package hash
