package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// Known-answer value for the Castagnoli polynomial.
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))
	assert.Zero(t, CRC32C(nil))
}

func TestContentKey(t *testing.T) {
	a := ContentKey([]byte("board"))
	b := ContentKey([]byte("board"))
	c := ContentKey([]byte("boards"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.String(), 64)
	assert.Equal(t, a.String()[:12], a.Short())
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ContentKey(nil).String())
}
