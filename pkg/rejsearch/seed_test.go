package rejsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	want := Seed{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}
	inputs := []string{
		"000102030405060708090a0b0c0d0e0f",
		"0x000102030405060708090A0B0C0D0E0F",
		"  000102030405060708090a0b0c0d0e0f\n",
		"[00, 01, 02, 03, 04, 05, 06, 07, 08, 09, 0a, 0b, 0c, 0d, 0e, 0f]",
	}
	for _, in := range inputs {
		got, err := ParseSeed(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, "000102030405060708090a0b0c0d0e0f", want.String())
}

func TestParseSeed_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"0001",
		"000102030405060708090a0b0c0d0e0f10",
		"zz0102030405060708090a0b0c0d0e0f",
		"[00, 01",
		"[100]",
	}
	for _, in := range inputs {
		_, err := ParseSeed(in)
		assert.ErrorIs(t, err, ErrInvalidSeed, "input %q", in)
	}
}

func TestSeed_Text(t *testing.T) {
	var s Seed
	require.NoError(t, s.UnmarshalText([]byte("ffeeddccbbaa99887766554433221100")))
	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ffeeddccbbaa99887766554433221100", string(text))

	assert.ErrorIs(t, s.UnmarshalText([]byte("ff")), ErrInvalidSeed)
}
