package pack

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/boardmap/model"
)

const (
	magic = "BMPK"

	headerSize       = 12
	sectionEntrySize = 32

	// maxSections bounds the table; a valid package has at most one section per kind.
	maxSections = 16

	// maxPayloadSize bounds a single decompressed section.
	maxPayloadSize = 1 << 30
)

// SectionKind identifies the content of a section.
type SectionKind uint8

const (
	SectionInfo    SectionKind = 1
	SectionRoutes  SectionKind = 2
	SectionHolds   SectionKind = 3
	SectionLayouts SectionKind = 4
)

func (k SectionKind) String() string {
	switch k {
	case SectionInfo:
		return "info"
	case SectionRoutes:
		return "routes"
	case SectionHolds:
		return "holds"
	case SectionLayouts:
		return "layouts"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

func (k SectionKind) valid() bool {
	return k >= SectionInfo && k <= SectionLayouts
}

// Section is one entry of the section table.
type Section struct {
	Kind   SectionKind
	Rows   uint32
	Offset uint64
	Length uint64
	CRC32C uint32
}

// Header is the decoded fixed header plus section table.
type Header struct {
	Version     uint16
	Compression Compression
	Sections    []Section
}

func (h *Header) appendTo(dst []byte) []byte {
	dst = append(dst, magic...)
	dst = binary.LittleEndian.AppendUint16(dst, h.Version)
	dst = append(dst, byte(h.Compression), 0)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(h.Sections)))
	for _, s := range h.Sections {
		dst = append(dst, byte(s.Kind), 0, 0, 0)
		dst = binary.LittleEndian.AppendUint32(dst, s.Rows)
		dst = binary.LittleEndian.AppendUint64(dst, s.Offset)
		dst = binary.LittleEndian.AppendUint64(dst, s.Length)
		dst = binary.LittleEndian.AppendUint32(dst, s.CRC32C)
		dst = binary.LittleEndian.AppendUint32(dst, 0)
	}
	return dst
}

// ReadHeader decodes and checks the header and section table of a package
// without touching the payloads.
func ReadHeader(data []byte) (*Header, error) {
	if len(data) < headerSize {
		return nil, corrupt(nil, "truncated header: %d bytes", len(data))
	}
	if string(data[:4]) != magic {
		return nil, corrupt(nil, "bad magic %q", data[:4])
	}

	h := &Header{
		Version:     binary.LittleEndian.Uint16(data[4:]),
		Compression: Compression(data[6]),
	}
	if h.Version == 0 || h.Version > model.SchemaVersion {
		return nil, corrupt(nil, "unsupported schema version %d", h.Version)
	}
	if !h.Compression.valid() {
		return nil, corrupt(nil, "unknown compression %d", data[6])
	}

	count := binary.LittleEndian.Uint32(data[8:])
	if count > maxSections {
		return nil, corrupt(nil, "section count %d exceeds %d", count, maxSections)
	}
	bodyStart := uint64(headerSize) + uint64(count)*sectionEntrySize
	if uint64(len(data)) < bodyStart {
		return nil, corrupt(nil, "truncated section table")
	}

	seen := make(map[SectionKind]bool, count)
	next := bodyStart
	for i := uint32(0); i < count; i++ {
		e := data[headerSize+i*sectionEntrySize:]
		s := Section{
			Kind:   SectionKind(e[0]),
			Rows:   binary.LittleEndian.Uint32(e[4:]),
			Offset: binary.LittleEndian.Uint64(e[8:]),
			Length: binary.LittleEndian.Uint64(e[16:]),
			CRC32C: binary.LittleEndian.Uint32(e[24:]),
		}
		if !s.Kind.valid() {
			return nil, corrupt(nil, "unknown section kind %d", e[0])
		}
		if seen[s.Kind] {
			return nil, corrupt(nil, "duplicate %s section", s.Kind)
		}
		seen[s.Kind] = true

		if s.Offset != next {
			return nil, corrupt(nil, "%s section at offset %d, expected %d", s.Kind, s.Offset, next)
		}
		if s.Length > uint64(len(data))-s.Offset {
			return nil, corrupt(nil, "truncated %s section", s.Kind)
		}
		next = s.Offset + s.Length
		h.Sections = append(h.Sections, s)
	}

	if next != uint64(len(data)) {
		return nil, corrupt(nil, "%d trailing bytes", uint64(len(data))-next)
	}
	for _, k := range []SectionKind{SectionRoutes, SectionHolds, SectionLayouts} {
		if !seen[k] {
			return nil, corrupt(nil, "missing %s section", k)
		}
	}
	return h, nil
}

func corrupt(cause error, format string, args ...any) error {
	return model.NewCorruptPackageError(cause, format, args...)
}
