package rejsearch

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// toyField returns a small field where rejections are frequent.
func toyField(t *testing.T, modulus int64, size int) Field {
	t.Helper()
	f, err := NewField("toy", big.NewInt(modulus), size)
	require.NoError(t, err)
	return f
}

// builtinField looks up a registry field or fails the test.
func builtinField(t *testing.T, name string) Field {
	t.Helper()
	f, err := FieldByName(name)
	require.NoError(t, err)
	return f
}

// testContext bounds a search so a broken stop path fails instead of hanging.
func testContext(t *testing.T, d time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}

func decimal(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad decimal %s", s)
	return n
}
