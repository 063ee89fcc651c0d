package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/vdaf-rejection-search/pkg/rejsearch"
)

// execute runs the CLI with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_DefaultFlags(t *testing.T) {
	cmd := newRootCmd()

	jobs := cmd.Flags().Lookup("jobs")
	require.NotNil(t, jobs)
	assert.Equal(t, "j", jobs.Shorthand)
	assert.Equal(t, strconv.Itoa(runtime.NumCPU()), jobs.DefValue)

	iterations := cmd.Flags().Lookup("prg-iterations")
	require.NotNil(t, iterations)
	assert.Equal(t, "n", iterations.Shorthand)
	assert.Equal(t, "100000", iterations.DefValue)

	assert.Equal(t, "field64", cmd.Flags().Lookup("field").DefValue)
}

func TestRoot_ConfigErrorsPrintNoReport(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero jobs", []string{"-j", "0"}},
		{"zero iterations", []string{"-n", "0"}},
		{"unknown field", []string{"--field", "field65"}},
		{"unknown prg", []string{"--prg", "aes128"}},
		{"unknown output", []string{"-o", "xml"}},
		{"bad custom", []string{"--custom", "hex:zz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, rejsearch.ErrInvalidConfig)
			assert.Empty(t, out)
		})
	}
}

func TestRoot_NonNumericJobs(t *testing.T) {
	out, err := execute(t, "-j", "many")
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log", "chatty", "fields"})
	assert.Error(t, cmd.Execute())
}

func TestRoot_SearchTextReport(t *testing.T) {
	out, err := execute(t, "--field", "koalabear", "-j", "2", "-n", "100")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Rejection found, seed = "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "rejected = "), lines[1])
}

func TestSearch_JSONReportReplays(t *testing.T) {
	out, err := execute(t, "search", "--field", "babybear", "--prg", "blake3", "--binder", "hex:0102", "-j", "4", "-n", "10", "-o", "json")
	require.NoError(t, err)

	rej, err := rejsearch.ReadReport(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "babybear", rej.Field)
	assert.Equal(t, "blake3", rej.PRG)
	assert.Equal(t, []byte{1, 2}, rej.Binder)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	verified, err := execute(t, "replay", "--report", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(verified, "verified: "), verified)
}

func TestSearch_Timeout(t *testing.T) {
	// Field128 rejects about once in 2^62 draws.
	out, err := execute(t, "--field", "field128", "-j", "2", "-n", "1000", "--timeout", "100ms")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, out)
}

func TestReplay_PrintsChunks(t *testing.T) {
	out, err := execute(t, "replay", "--seed", "000102030405060708090a0b0c0d0e0f", "--field", "koalabear", "-c", "6")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, strconv.Itoa(i)+": "), line)
	}
}

func TestReplay_VerifyFlags(t *testing.T) {
	seed := "000102030405060708090a0b0c0d0e0f"
	f, err := rejsearch.FieldByName("koalabear")
	require.NoError(t, err)

	values, err := rejsearch.Replay(rejsearch.PRGSha3{}, f, mustSeed(t, seed), nil, nil, 64)
	require.NoError(t, err)
	offset := -1
	for i := 0; i+1 < len(values); i++ {
		if values[i].Cmp(f.Modulus()) >= 0 {
			offset = i
			break
		}
	}
	require.NotEqual(t, -1, offset, "no rejection in the first 64 koalabear chunks")

	out, err := execute(t, "replay", "--seed", seed, "--field", "koalabear",
		"--offset", strconv.Itoa(offset),
		"--rejected", values[offset].Text(10),
		"--next", values[offset+1].Text(10))
	require.NoError(t, err)
	assert.Contains(t, out, "verified")

	_, err = execute(t, "replay", "--seed", seed, "--field", "koalabear",
		"--offset", strconv.Itoa(offset),
		"--rejected", values[offset].Text(10),
		"--next", "1")
	assert.ErrorIs(t, err, rejsearch.ErrMismatch)
}

func TestReplay_BadSeed(t *testing.T) {
	_, err := execute(t, "replay", "--seed", "abcd")
	assert.ErrorIs(t, err, rejsearch.ErrInvalidSeed)
}

func TestFields_ListsRegistry(t *testing.T) {
	out, err := execute(t, "fields")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	for _, f := range rejsearch.Fields() {
		assert.Contains(t, out, f.Name())
	}
	assert.Contains(t, out, "18446744069414584321")
}

func mustSeed(t *testing.T, s string) rejsearch.Seed {
	t.Helper()
	seed, err := rejsearch.ParseSeed(s)
	require.NoError(t, err)
	return seed
}
