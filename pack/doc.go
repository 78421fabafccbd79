// Package pack implements the binary package container read by the explorer.
//
// # Layout
//
// All integers are little endian.
//
//	header   "BMPK" | version u16 | compression u8 | reserved u8 | sections u32
//	table    sections × { kind u8 | pad 3 | rows u32 | offset u64 | length u64 | crc32c u32 | pad u32 }
//	body     section payloads, contiguous, in table order
//
// Sections hold the optional info document (JSON) and the routes, holds and
// layouts tables. Table rows are fixed width except for strings, which are
// u32 length prefixed, and embeddings, which carry their dimension.
//
// # Compression
//
// With LZ4 or ZSTD every payload gets an 8-byte block header
// [uncompressed u32][compressed u32]. A compressed length of 0 marks a payload
// stored raw because compression did not save at least 10%.
//
// # Versions
//
// Version 2 is written. Version 1 packages, whose routes lack quality and
// ascents, are upgraded on read with those fields zeroed.
//
// Every decoding failure is reported as a *model.CorruptPackageError.
package pack
