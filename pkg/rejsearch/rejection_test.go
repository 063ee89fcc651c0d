package rejsearch

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRejection(t *testing.T) *Rejection {
	t.Helper()
	return &Rejection{
		Field:    "field128",
		PRG:      "sha3",
		Seed:     testSeed,
		Binder:   []byte{0xbe, 0xef},
		Offset:   41,
		Length:   42,
		Rejected: decimal(t, "340282366920938463463374607431768211455"),
		Next:     big.NewInt(7),
	}
}

func TestWriteReport_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleRejection(t), FormatText))

	want := "Rejection found, seed = 000102030405060708090a0b0c0d0e0f, offset = 41 (length 42)\n" +
		"rejected = 340282366920938463463374607431768211455, next = 7\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteReport_ReadBack(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			rej := sampleRejection(t)
			require.NoError(t, WriteReport(&buf, rej, format))

			got, err := ReadReport(&buf)
			require.NoError(t, err)
			assert.Equal(t, rej.Field, got.Field)
			assert.Equal(t, rej.PRG, got.PRG)
			assert.Equal(t, rej.Seed, got.Seed)
			assert.Equal(t, rej.Binder, got.Binder)
			assert.Empty(t, got.Custom)
			assert.Equal(t, rej.Offset, got.Offset)
			assert.Equal(t, rej.Length, got.Length)
			assert.Equal(t, 0, rej.Rejected.Cmp(got.Rejected))
			assert.Equal(t, 0, rej.Next.Cmp(got.Next))
		})
	}
}

func TestWriteReport_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleRejection(t), FormatJSON))

	out := buf.String()
	assert.Contains(t, out, `"seed": "000102030405060708090a0b0c0d0e0f"`)
	assert.Contains(t, out, `"rejected": "340282366920938463463374607431768211455"`)
	assert.Contains(t, out, `"binder": "beef"`)
	assert.NotContains(t, out, `"custom"`)
}

func TestWriteReport_UnknownFormat(t *testing.T) {
	err := WriteReport(&bytes.Buffer{}, sampleRejection(t), "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestReadReport_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad seed":     `{"seed": "00", "offset": 0, "length": 1, "rejected": "1", "next": "2"}`,
		"bad rejected": `{"seed": "000102030405060708090a0b0c0d0e0f", "rejected": "x", "next": "2"}`,
		"bad binder":   `{"seed": "000102030405060708090a0b0c0d0e0f", "binder": "zz", "rejected": "1", "next": "2"}`,
		"not a report": `[1, 2, 3]`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadReport(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}
