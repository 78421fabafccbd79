package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want uint32
		err  bool
	}{
		{"zero", 0, 0, false},
		{"positive", 123, 123, false},
		{"max int32", math.MaxInt32, math.MaxInt32, false},
		{"negative", -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntToUint32(tt.in)
			if tt.err {
				require.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntToUint32_TooLarge(t *testing.T) {
	if math.MaxInt == math.MaxInt32 {
		t.Skip("int is 32 bits")
	}
	v := uint64(math.MaxUint32) + 1
	_, err := IntToUint32(int(v))
	require.ErrorIs(t, err, ErrOverflow)
}

func TestUint32ToInt(t *testing.T) {
	got, err := Uint32ToInt(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = Uint32ToInt(math.MaxInt32)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, got)
}

func TestIntToInt32(t *testing.T) {
	for _, v := range []int{0, -40, math.MinInt32, math.MaxInt32} {
		got, err := IntToInt32(v)
		require.NoError(t, err)
		assert.Equal(t, int32(v), got)
	}

	if math.MaxInt == math.MaxInt32 {
		return
	}
	for _, v := range []int64{math.MaxInt32 + 1, math.MinInt32 - 1} {
		_, err := IntToInt32(int(v))
		require.ErrorIs(t, err, ErrOverflow)
	}
}
