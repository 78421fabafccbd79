package pack

import (
	"fmt"

	"github.com/hupe1980/boardmap/codec"
	"github.com/hupe1980/boardmap/internal/conv"
	"github.com/hupe1980/boardmap/internal/hash"
	"github.com/hupe1980/boardmap/model"
)

type options struct {
	compression Compression
	codec       codec.Codec
}

func defaultOptions() options {
	return options{
		compression: CompressionNone,
		codec:       codec.Default,
	}
}

// Option configures Marshal, Unmarshal and EncodedSize.
type Option func(*options)

// WithCompression sets the payload compression used by Marshal.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCodec sets the codec of the info document.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Marshal validates p and encodes it as a version 2 container.
// An inconsistent package fails with *model.InvalidDatasetError.
func Marshal(p *model.Package, optFns ...Option) ([]byte, error) {
	o := applyOptions(optFns)
	if !o.compression.valid() {
		return nil, fmt.Errorf("pack: unknown compression %d", o.compression)
	}
	if err := p.Validate(); err != nil {
		return nil, &model.InvalidDatasetError{Reason: err.Error()}
	}
	return encode(p, o, model.SchemaVersion)
}

// EncodedSize returns an upper bound of len(Marshal(p, opts...)) without
// encoding the tables. Without compression the bound is exact. It does not
// depend on projected coordinates.
func EncodedSize(p *model.Package, optFns ...Option) (int64, error) {
	o := applyOptions(optFns)

	payloads := make([]int, 0, 4)
	if p.Info != nil {
		info, err := o.codec.Marshal(p.Info)
		if err != nil {
			return 0, fmt.Errorf("pack: encode info: %w", err)
		}
		payloads = append(payloads, len(info))
	}

	var routes, holds, layouts int
	for i := range p.Routes {
		routes += routeSize(&p.Routes[i], model.SchemaVersion)
	}
	for i := range p.Holds {
		holds += holdSize(&p.Holds[i])
	}
	for i := range p.Layouts {
		layouts += layoutSize(&p.Layouts[i])
	}
	payloads = append(payloads, routes, holds, layouts)

	size := int64(headerSize + len(payloads)*sectionEntrySize)
	for _, n := range payloads {
		size += int64(n + blockOverhead(o.compression))
	}
	return size, nil
}

type payload struct {
	kind SectionKind
	rows int
	data []byte
}

// encode writes p at the given schema version without validating it.
func encode(p *model.Package, o options, version uint16) ([]byte, error) {
	var payloads []payload

	if p.Info != nil {
		info, err := o.codec.Marshal(p.Info)
		if err != nil {
			return nil, fmt.Errorf("pack: encode info: %w", err)
		}
		payloads = append(payloads, payload{kind: SectionInfo, rows: 1, data: info})
	}

	var e encoder
	for i := range p.Routes {
		encodeRoute(&e, &p.Routes[i], version)
	}
	payloads = append(payloads, payload{kind: SectionRoutes, rows: len(p.Routes), data: e.buf})

	e = encoder{}
	for i := range p.Holds {
		encodeHold(&e, &p.Holds[i])
	}
	payloads = append(payloads, payload{kind: SectionHolds, rows: len(p.Holds), data: e.buf})

	e = encoder{}
	for i := range p.Layouts {
		encodeLayout(&e, &p.Layouts[i])
	}
	payloads = append(payloads, payload{kind: SectionLayouts, rows: len(p.Layouts), data: e.buf})

	h := Header{Version: version, Compression: o.compression}
	offset := uint64(headerSize + len(payloads)*sectionEntrySize)
	stored := make([][]byte, len(payloads))
	for i, pl := range payloads {
		data, err := compressBlock(pl.data, o.compression)
		if err != nil {
			return nil, fmt.Errorf("pack: compress %s: %w", pl.kind, err)
		}
		rows, err := conv.IntToUint32(pl.rows)
		if err != nil {
			return nil, fmt.Errorf("pack: %s rows: %w", pl.kind, err)
		}
		stored[i] = data
		h.Sections = append(h.Sections, Section{
			Kind:   pl.kind,
			Rows:   rows,
			Offset: offset,
			Length: uint64(len(data)),
			CRC32C: hash.CRC32C(data),
		})
		offset += uint64(len(data))
	}

	out := make([]byte, 0, offset)
	out = h.appendTo(out)
	for _, data := range stored {
		out = append(out, data...)
	}
	return out, nil
}

// Unmarshal decodes a package. Version 1 input is upgraded to the current
// schema. Any structural or referential problem fails with
// *model.CorruptPackageError; no row is ever dropped.
func Unmarshal(data []byte, optFns ...Option) (*model.Package, error) {
	o := applyOptions(optFns)

	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	p := &model.Package{SchemaVersion: model.SchemaVersion}
	for _, s := range h.Sections {
		stored := data[s.Offset : s.Offset+s.Length]
		if sum := hash.CRC32C(stored); sum != s.CRC32C {
			return nil, corrupt(nil, "%s section checksum mismatch: %08x != %08x", s.Kind, sum, s.CRC32C)
		}
		raw, err := decompressBlock(stored, h.Compression)
		if err != nil {
			return nil, corrupt(err, "decompress %s section", s.Kind)
		}
		if err := decodeSection(p, s, raw, h.Version, o); err != nil {
			return nil, err
		}
	}

	if err := p.Validate(); err != nil {
		return nil, corrupt(err, "referential integrity")
	}
	return p, nil
}

func decodeSection(p *model.Package, s Section, raw []byte, version uint16, o options) error {
	if s.Kind == SectionInfo {
		var info model.PackageInfo
		if err := o.codec.Unmarshal(raw, &info); err != nil {
			return corrupt(err, "decode info section")
		}
		p.Info = &info
		return nil
	}

	d := &decoder{buf: raw}
	// A row is at least a few bytes wide, which bounds the preallocation.
	rows, err := conv.Uint32ToInt(s.Rows)
	if err != nil {
		return corrupt(err, "%s section row count", s.Kind)
	}
	if rows > len(raw) {
		return corrupt(nil, "%s section declares %d rows in %d bytes", s.Kind, rows, len(raw))
	}

	switch s.Kind {
	case SectionRoutes:
		p.Routes = make([]model.Route, 0, rows)
		for i := 0; i < rows && d.err == nil; i++ {
			p.Routes = append(p.Routes, decodeRoute(d, version))
		}
	case SectionHolds:
		p.Holds = make([]model.Hold, 0, rows)
		for i := 0; i < rows && d.err == nil; i++ {
			p.Holds = append(p.Holds, decodeHold(d))
		}
	case SectionLayouts:
		p.Layouts = make([]model.BoardLayout, 0, rows)
		for i := 0; i < rows && d.err == nil; i++ {
			p.Layouts = append(p.Layouts, decodeLayout(d))
		}
	}

	if err := d.finish(); err != nil {
		return corrupt(err, "decode %s section", s.Kind)
	}
	return nil
}
