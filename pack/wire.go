package pack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/boardmap/model"
)

var errShortRead = errors.New("unexpected end of section")

// encoder appends little-endian values to a byte slice.
type encoder struct {
	buf []byte
}

func (e *encoder) u8(v uint8)    { e.buf = append(e.buf, v) }
func (e *encoder) u32(v uint32)  { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *encoder) i32(v int32)   { e.u32(uint32(v)) }
func (e *encoder) i64(v int64)   { e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v)) }
func (e *encoder) f32(v float32) { e.u32(math.Float32bits(v)) }
func (e *encoder) f64(v float64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v)) }
func (e *encoder) point(p model.Point) {
	e.f64(p.X)
	e.f64(p.Y)
}

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

// decoder reads little-endian values and remembers the first error.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.buf)-d.off {
		d.err = errShortRead
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if b := d.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) u64() uint64 {
	if b := d.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (d *decoder) i32() int32   { return int32(d.u32()) }
func (d *decoder) i64() int64   { return int64(d.u64()) }
func (d *decoder) f32() float32 { return math.Float32frombits(d.u32()) }
func (d *decoder) f64() float64 { return math.Float64frombits(d.u64()) }

func (d *decoder) point() model.Point {
	x := d.f64()
	return model.Point{X: x, Y: d.f64()}
}

func (d *decoder) str() string {
	n := d.u32()
	return string(d.take(int(n)))
}

// count reads a u32 element count and checks that at least width bytes per
// element remain, so corrupt counts fail before allocating.
func (d *decoder) count(width int) int {
	n := int(d.u32())
	if d.err == nil && n > (len(d.buf)-d.off)/max(width, 1) {
		d.err = errShortRead
		return 0
	}
	return n
}

func (d *decoder) finish() error {
	if d.err != nil {
		return d.err
	}
	if d.off != len(d.buf) {
		return fmt.Errorf("%d unread bytes", len(d.buf)-d.off)
	}
	return nil
}

// Row encodings. Sizes are exact: strSize counts the length prefix.

func strSize(s string) int { return 4 + len(s) }

func routeSize(r *model.Route, version uint16) int {
	n := strSize(r.ID) + strSize(r.Name) + strSize(r.Grade)
	n += 8 + 4 // difficulty, angle
	if version >= 2 {
		n += 8 + 4 // quality, ascents
	}
	n += 8 + 16 // layout, projected
	n += 4 + 4*len(r.Embedding)
	return n
}

func encodeRoute(e *encoder, r *model.Route, version uint16) {
	e.str(r.ID)
	e.str(r.Name)
	e.str(r.Grade)
	e.f64(r.Difficulty)
	e.i32(int32(r.Angle))
	if version >= 2 {
		e.f64(r.Quality)
		e.u32(uint32(r.Ascents))
	}
	e.i64(r.LayoutID)
	e.point(r.Projected)
	e.u32(uint32(len(r.Embedding)))
	for _, v := range r.Embedding {
		e.f32(v)
	}
}

func decodeRoute(d *decoder, version uint16) model.Route {
	var r model.Route
	r.ID = d.str()
	r.Name = d.str()
	r.Grade = d.str()
	r.Difficulty = d.f64()
	r.Angle = int(d.i32())
	if version >= 2 {
		r.Quality = d.f64()
		r.Ascents = int(d.u32())
	}
	r.LayoutID = d.i64()
	r.Projected = d.point()
	// Nil and empty embeddings share the zero-length encoding and decode as nil.
	if dim := d.count(4); dim > 0 {
		r.Embedding = make([]float32, dim)
		for i := range r.Embedding {
			r.Embedding[i] = d.f32()
		}
	}
	return r
}

func holdSize(h *model.Hold) int {
	return strSize(h.RouteID) + 16 + 1
}

func encodeHold(e *encoder, h *model.Hold) {
	e.str(h.RouteID)
	e.point(h.Pos)
	e.u8(uint8(h.Role))
}

func decodeHold(d *decoder) model.Hold {
	var h model.Hold
	h.RouteID = d.str()
	h.Pos = d.point()
	h.Role = model.HoldRole(d.u8())
	return h
}

func layoutSize(l *model.BoardLayout) int {
	return 8 + strSize(l.Name) + 16 + strSize(l.ImageRef) + 4 + 16*len(l.Holes)
}

func encodeLayout(e *encoder, l *model.BoardLayout) {
	e.i64(l.ID)
	e.str(l.Name)
	e.f64(l.Width)
	e.f64(l.Height)
	e.str(l.ImageRef)
	e.u32(uint32(len(l.Holes)))
	for _, p := range l.Holes {
		e.point(p)
	}
}

func decodeLayout(d *decoder) model.BoardLayout {
	var l model.BoardLayout
	l.ID = d.i64()
	l.Name = d.str()
	l.Width = d.f64()
	l.Height = d.f64()
	l.ImageRef = d.str()
	if n := d.count(16); n > 0 {
		l.Holes = make([]model.Point, n)
		for i := range l.Holes {
			l.Holes[i] = d.point()
		}
	}
	return l
}
