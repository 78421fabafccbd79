package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the Castagnoli checksum stored with every package section.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// Key identifies a byte sequence by content.
type Key [sha256.Size]byte

// ContentKey returns the SHA-256 key of data.
func ContentKey(data []byte) Key {
	return sha256.Sum256(data)
}

// String returns the lowercase hex form of k.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Short returns the first 12 hex characters, for log lines.
func (k Key) Short() string {
	return k.String()[:12]
}
