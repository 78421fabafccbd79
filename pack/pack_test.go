package pack

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/hupe1980/boardmap/codec"
	"github.com/hupe1980/boardmap/internal/hash"
	"github.com/hupe1980/boardmap/model"
	"github.com/hupe1980/boardmap/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPackage builds a consistent package from the synthetic dataset.
func testPackage(t *testing.T, routes int) *model.Package {
	t.Helper()

	ds := testutil.Dataset(testutil.DatasetConfig{Routes: routes, Layouts: 3, Dim: 6, Seed: 5})
	p := &model.Package{
		SchemaVersion: model.SchemaVersion,
		Info: &model.PackageInfo{
			RequestedThreshold: 0,
			EffectiveThreshold: 0,
			SourceRoutes:       routes,
			SourceHolds:        len(ds.Holds),
			SourceLayouts:      3,
			Projection:         model.ProjectionParams{NNeighbors: 15, MinDist: 0.1, Spread: 1, Seed: 42, Metric: "euclidean"},
			CreatedAt:          time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		Routes:  ds.Routes,
		Holds:   ds.Holds,
		Layouts: ds.Layouts,
	}
	for i := range p.Routes {
		p.Routes[i].Projected = model.Point{X: float64(i) * 0.37, Y: -float64(i) * 1.13}
	}
	return p
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			p := testPackage(t, 60)

			data, err := Marshal(p, WithCompression(c))
			require.NoError(t, err)

			got, err := Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, p, got)

			h, err := ReadHeader(data)
			require.NoError(t, err)
			assert.Equal(t, c, h.Compression)
			assert.Equal(t, uint16(model.SchemaVersion), h.Version)
			require.Len(t, h.Sections, 4)
		})
	}
}

func TestRoundTrip_WithoutInfo(t *testing.T) {
	p := testPackage(t, 10)
	p.Info = nil

	data, err := Marshal(p, WithCodec(codec.JSON{}))
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Nil(t, got.Info)
	assert.Equal(t, p.Routes, got.Routes)
}

func TestRoundTrip_WithoutEmbeddings(t *testing.T) {
	p := testPackage(t, 8)
	for i := range p.Routes {
		p.Routes[i].Embedding = nil
	}

	data, err := Marshal(p)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	for i := range p.Routes {
		p.Routes[i].Embedding = []float32{}
	}
	empty, err := Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, data, empty)

	got, err = Unmarshal(empty)
	require.NoError(t, err)
	for i := range got.Routes {
		assert.Nil(t, got.Routes[i].Embedding)
	}
}

func TestCompression_Shrinks(t *testing.T) {
	p := testPackage(t, 300)

	raw, err := Marshal(p)
	require.NoError(t, err)
	zst, err := Marshal(p, WithCompression(CompressionZSTD))
	require.NoError(t, err)
	assert.Less(t, len(zst), len(raw))
}

func TestEncodedSize(t *testing.T) {
	p := testPackage(t, 40)

	t.Run("exact without compression", func(t *testing.T) {
		data, err := Marshal(p)
		require.NoError(t, err)
		size, err := EncodedSize(p)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), size)
	})

	t.Run("upper bound with compression", func(t *testing.T) {
		for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
			data, err := Marshal(p, WithCompression(c))
			require.NoError(t, err)
			size, err := EncodedSize(p, WithCompression(c))
			require.NoError(t, err)
			assert.LessOrEqual(t, int64(len(data)), size)
		}
	})

	t.Run("independent of coordinates", func(t *testing.T) {
		before, err := EncodedSize(p)
		require.NoError(t, err)
		for i := range p.Routes {
			p.Routes[i].Projected = model.Point{X: 1e300, Y: -1e-300}
		}
		after, err := EncodedSize(p)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("monotone in routes", func(t *testing.T) {
		small := testPackage(t, 10)
		large := testPackage(t, 30)
		s, err := EncodedSize(small)
		require.NoError(t, err)
		l, err := EncodedSize(large)
		require.NoError(t, err)
		assert.Less(t, s, l)
	})
}

func TestMarshal_RejectsInvalid(t *testing.T) {
	p := testPackage(t, 5)
	p.Holds = append(p.Holds, model.Hold{RouteID: "ghost", Role: model.RoleHand})

	_, err := Marshal(p)
	require.ErrorIs(t, err, model.ErrInvalidDataset)
}

func TestMarshal_RejectsNarrowingColumns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.Route)
	}{
		{"angle above int32", func(r *model.Route) { r.Angle = int(int64(math.MaxInt32) + 1) }},
		{"angle below int32", func(r *model.Route) { r.Angle = int(int64(math.MinInt32) - 1) }},
		{"negative ascents", func(r *model.Route) { r.Ascents = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPackage(t, 5)
			tt.mutate(&p.Routes[2])

			_, err := Marshal(p)
			require.ErrorIs(t, err, model.ErrInvalidDataset)
		})
	}

	t.Run("int32 bounds round trip", func(t *testing.T) {
		p := testPackage(t, 5)
		p.Routes[0].Angle = math.MinInt32
		p.Routes[1].Angle = math.MaxInt32
		p.Routes[2].Ascents = math.MaxInt32

		data, err := Marshal(p)
		require.NoError(t, err)
		got, err := Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})
}

func TestUpgradeVersion1(t *testing.T) {
	p := testPackage(t, 12)

	data, err := encode(p, defaultOptions(), 1)
	require.NoError(t, err)

	h, err := ReadHeader(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), h.Version)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, model.SchemaVersion, got.SchemaVersion)
	require.Len(t, got.Routes, len(p.Routes))
	for i, r := range got.Routes {
		assert.Zero(t, r.Quality)
		assert.Zero(t, r.Ascents)
		assert.Equal(t, p.Routes[i].ID, r.ID)
		assert.Equal(t, p.Routes[i].Projected, r.Projected)
		assert.Equal(t, p.Routes[i].Embedding, r.Embedding)
	}
}

func TestUnmarshal_Corrupt(t *testing.T) {
	valid, err := Marshal(testPackage(t, 8))
	require.NoError(t, err)

	h, err := ReadHeader(valid)
	require.NoError(t, err)
	routes := h.Sections[1]
	require.Equal(t, SectionRoutes, routes.Kind)

	mutate := func(fn func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return fn(b)
	}
	entry := func(i int) int { return headerSize + i*sectionEntrySize }

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated header", valid[:6]},
		{"bad magic", mutate(func(b []byte) []byte { copy(b, "XXXX"); return b })},
		{"version zero", mutate(func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:], 0); return b })},
		{"future version", mutate(func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:], 99); return b })},
		{"unknown compression", mutate(func(b []byte) []byte { b[6] = 9; return b })},
		{"too many sections", mutate(func(b []byte) []byte { binary.LittleEndian.PutUint32(b[8:], 1000); return b })},
		{"truncated body", valid[:len(valid)-3]},
		{"trailing bytes", mutate(func(b []byte) []byte { return append(b, 0) })},
		{"checksum mismatch", mutate(func(b []byte) []byte { b[routes.Offset] ^= 0xff; return b })},
		{"unknown section kind", mutate(func(b []byte) []byte { b[entry(1)] = 42; return b })},
		{"duplicate section", mutate(func(b []byte) []byte { b[entry(2)] = byte(SectionRoutes); return b })},
		{"swapped section kinds", mutate(func(b []byte) []byte {
			b[entry(0)] = byte(SectionLayouts)
			b[entry(3)] = byte(SectionInfo)
			return b
		})},
		{"row count mismatch", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[entry(1)+4:], routes.Rows+1)
			return b
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data)
			require.ErrorIs(t, err, model.ErrCorruptPackage)

			var cpe *model.CorruptPackageError
			require.ErrorAs(t, err, &cpe)
			assert.NotEmpty(t, cpe.Reason)
		})
	}
}

func TestUnmarshal_ReferentialViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.Package)
	}{
		{"orphan hold", func(p *model.Package) {
			p.Holds = append(p.Holds, model.Hold{RouteID: "missing-route", Role: model.RoleStart})
		}},
		{"duplicate route", func(p *model.Package) {
			p.Routes = append(p.Routes, p.Routes[0])
		}},
		{"unused layout", func(p *model.Package) {
			p.Layouts = append(p.Layouts, testutil.Layout(99))
		}},
		{"missing layout", func(p *model.Package) {
			p.Layouts = p.Layouts[1:]
		}},
		{"invalid role", func(p *model.Package) {
			p.Holds[0].Role = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPackage(t, 9)
			tt.mutate(p)

			data, err := encode(p, defaultOptions(), model.SchemaVersion)
			require.NoError(t, err)

			_, err = Unmarshal(data)
			require.ErrorIs(t, err, model.ErrCorruptPackage)
		})
	}
}

func TestUnmarshal_CorruptCompressedBlock(t *testing.T) {
	valid, err := Marshal(testPackage(t, 50), WithCompression(CompressionLZ4))
	require.NoError(t, err)

	h, err := ReadHeader(valid)
	require.NoError(t, err)
	s := h.Sections[1]

	b := append([]byte(nil), valid...)
	// Declare a larger uncompressed size and fix the checksum so the
	// failure surfaces in decompression.
	binary.LittleEndian.PutUint32(b[s.Offset:], binary.LittleEndian.Uint32(b[s.Offset:])+1)
	sum := hash.CRC32C(b[s.Offset : s.Offset+s.Length])
	binary.LittleEndian.PutUint32(b[headerSize+sectionEntrySize+24:], sum)

	_, err = Unmarshal(b)
	require.ErrorIs(t, err, model.ErrCorruptPackage)
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "LZ4": CompressionLZ4, "zstd": CompressionZSTD} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("brotli")
	require.Error(t, err)
}

func TestReadHeader_MissingSection(t *testing.T) {
	h := Header{Version: model.SchemaVersion, Sections: []Section{
		{Kind: SectionRoutes, Offset: headerSize + 2*sectionEntrySize},
		{Kind: SectionHolds, Offset: headerSize + 2*sectionEntrySize},
	}}
	data := h.appendTo(nil)

	_, err := ReadHeader(data)
	require.ErrorIs(t, err, model.ErrCorruptPackage)
	assert.Contains(t, err.Error(), "missing layouts section")
}
