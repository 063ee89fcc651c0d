package rejsearch

import (
	"encoding/hex"
	"fmt"

	"github.com/mahdiidarabi/vdaf-rejection-search/internal/parser"
)

// SeedSize is the length in bytes of a PRG seed.
const SeedSize = 16

// Seed keys one pseudorandom stream.
type Seed [SeedSize]byte

// String returns the seed as lowercase hex.
func (s Seed) String() string {
	return hex.EncodeToString(s[:])
}

// SeedFromBytes copies b into a Seed. b must be exactly SeedSize bytes long.
func SeedFromBytes(b []byte) (Seed, error) {
	var s Seed
	if len(b) != SeedSize {
		return s, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSeed, SeedSize, len(b))
	}
	copy(s[:], b)
	return s, nil
}

// ParseSeed decodes a seed from hex ("0x" prefix optional) or from the
// bracketed byte list form "[0a, 1b, ...]".
func ParseSeed(s string) (Seed, error) {
	b, err := parser.ParseBytes(s)
	if err != nil {
		return Seed{}, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	return SeedFromBytes(b)
}

// MarshalText implements encoding.TextMarshaler so reports carry the seed
// as hex.
func (s Seed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Seed) UnmarshalText(text []byte) error {
	parsed, err := ParseSeed(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
