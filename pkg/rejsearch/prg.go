package rejsearch

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// SeedStream is a keyed, deterministic byte stream. A stream is owned by a
// single goroutine and is reused across seeds via Reset.
type SeedStream interface {
	// Reset rekeys the stream with seed and binder. The customization
	// string is fixed when the stream is created.
	Reset(seed *Seed, binder []byte)

	// Fill overwrites p with the next len(p) bytes of the stream.
	Fill(p []byte)
}

// PRG derives seed streams. Implementations must be deterministic: the same
// seed, customization and binder always produce the same stream.
type PRG interface {
	// Name returns the identifier used on the command line.
	Name() string

	// NewStream allocates a stream with the given customization string.
	// The stream must be Reset before the first Fill.
	NewStream(custom []byte) SeedStream
}

// PRGSha3 is the VDAF PrgSha3 generator: cSHAKE128 with an empty function
// name and the customization string as S, absorbing seed || binder.
type PRGSha3 struct{}

// Name implements PRG.
func (PRGSha3) Name() string { return "sha3" }

// NewStream implements PRG.
func (PRGSha3) NewStream(custom []byte) SeedStream {
	return &sha3Stream{h: sha3.NewCShake128(nil, custom)}
}

type sha3Stream struct {
	h sha3.ShakeHash
}

func (s *sha3Stream) Reset(seed *Seed, binder []byte) {
	s.h.Reset()
	s.h.Write(seed[:])
	s.h.Write(binder)
}

func (s *sha3Stream) Fill(p []byte) {
	// ShakeHash reads never fail.
	s.h.Read(p)
}

// PRGBlake3 expands len(custom) || custom || seed || binder with the BLAKE3
// extendable output function.
type PRGBlake3 struct{}

// Name implements PRG.
func (PRGBlake3) Name() string { return "blake3" }

// NewStream implements PRG.
func (PRGBlake3) NewStream(custom []byte) SeedStream {
	prefix := make([]byte, 8+len(custom))
	binary.LittleEndian.PutUint64(prefix, uint64(len(custom)))
	copy(prefix[8:], custom)
	return &blake3Stream{h: blake3.New(32, nil), prefix: prefix}
}

type blake3Stream struct {
	h      *blake3.Hasher
	prefix []byte
	out    *blake3.OutputReader
}

func (s *blake3Stream) Reset(seed *Seed, binder []byte) {
	s.h.Reset()
	s.h.Write(s.prefix)
	s.h.Write(seed[:])
	s.h.Write(binder)
	s.out = s.h.XOF()
}

func (s *blake3Stream) Fill(p []byte) {
	s.out.Read(p)
}

// DefaultPRGName is the generator used when none is specified.
const DefaultPRGName = "sha3"

// PRGByName returns the generator with the given name.
func PRGByName(name string) (PRG, error) {
	switch name {
	case "sha3":
		return PRGSha3{}, nil
	case "blake3":
		return PRGBlake3{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown prg %q", ErrInvalidConfig, name)
	}
}
