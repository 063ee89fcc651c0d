// Package parser decodes the textual forms of seeds, PRG context strings and
// integers accepted on the command line and in saved reports.
package parser

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ContextHexPrefix marks a context string that should be hex-decoded rather
// than taken as raw UTF-8.
const ContextHexPrefix = "hex:"

// ParseBytes decodes a byte string written either as hex, with an optional
// 0x prefix, or as a bracketed list of hex bytes such as "[0a, 1b, ff]".
func ParseBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		return parseByteList(s)
	}
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex %q: %w", s, err)
	}
	return b, nil
}

// parseByteList handles the "[0a, 1b, ...]" form.
func parseByteList(s string) ([]byte, error) {
	if !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("unterminated byte list %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []byte{}, nil
	}
	parts := strings.Split(body, ",")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, "0x")
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte %q in list: %w", p, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// ParseContext decodes a PRG customization or binder string. Values with
// the "hex:" prefix are hex-decoded, anything else is used verbatim.
func ParseContext(s string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(s, ContextHexPrefix); ok {
		b, err := hex.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("failed to decode context %q: %w", s, err)
		}
		return b, nil
	}
	return []byte(s), nil
}

// ParseBigInt parses a non-negative integer in decimal or, with a 0x prefix,
// hexadecimal.
func ParseBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	base := 10
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		s, base = rest, 16
	}
	z, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid number format: %s", s)
	}
	if z.Sign() < 0 {
		return nil, fmt.Errorf("negative value: %s", s)
	}
	return z, nil
}
