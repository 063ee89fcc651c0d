package rejsearch

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"filippo.io/edwards25519"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/field/babybear"
	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/gnark-crypto/field/koalabear"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Field describes the finite field whose elements are being sampled.
// Only the modulus and the width of the canonical encoding matter to the
// search; no arithmetic is ever performed.
type Field interface {
	// Name returns a short identifier, e.g. "field64".
	Name() string

	// Modulus returns the field size. Callers must not modify the result.
	Modulus() *big.Int

	// EncodedSize returns the number of bytes in the canonical
	// little-endian encoding of one element.
	EncodedSize() int
}

// DefaultFieldName is the field searched when none is specified.
const DefaultFieldName = "field64"

// descriptor is the Field implementation used for every built-in field.
type descriptor struct {
	name    string
	modulus *big.Int
	size    int
}

func (d *descriptor) Name() string      { return d.name }
func (d *descriptor) Modulus() *big.Int { return d.modulus }
func (d *descriptor) EncodedSize() int  { return d.size }

func (d *descriptor) String() string {
	return fmt.Sprintf("%s (modulus %s, %d bytes)", d.name, d.modulus.Text(10), d.size)
}

// NewField returns a descriptor for an arbitrary field, such as a toy
// modulus used in tests. The descriptor is validated by ValidateField.
func NewField(name string, modulus *big.Int, size int) (Field, error) {
	if modulus == nil {
		return nil, fmt.Errorf("%w: field %q has no modulus", ErrInvalidConfig, name)
	}
	f := &descriptor{name: name, modulus: new(big.Int).Set(modulus), size: size}
	if err := ValidateField(f); err != nil {
		return nil, err
	}
	return f, nil
}

// ValidateField checks that a field can be searched: the encoding is at
// least one byte wide and the modulus is positive and representable in it.
// A modulus equal to 2^(8*size) is accepted even though it can never
// produce a rejection.
func ValidateField(f Field) error {
	if f == nil {
		return fmt.Errorf("%w: no field given", ErrInvalidConfig)
	}
	size := f.EncodedSize()
	if size < 1 {
		return fmt.Errorf("%w: field %s has encoded size %d", ErrInvalidConfig, f.Name(), size)
	}
	m := f.Modulus()
	if m == nil || m.Sign() <= 0 {
		return fmt.Errorf("%w: field %s has non-positive modulus", ErrInvalidConfig, f.Name())
	}
	if m.Cmp(encodedRange(size)) > 0 {
		return fmt.Errorf("%w: modulus of field %s does not fit in %d bytes", ErrInvalidConfig, f.Name(), size)
	}
	return nil
}

// encodedRange returns 2^(8*size).
func encodedRange(size int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(8*size))
}

// RejectionProbability returns the probability that a single uniformly
// drawn chunk of f.EncodedSize() bytes is not less than the modulus.
func RejectionProbability(f Field) float64 {
	span := new(big.Float).SetInt(encodedRange(f.EncodedSize()))
	gap := new(big.Float).SetInt(new(big.Int).Sub(encodedRange(f.EncodedSize()), f.Modulus()))
	p, _ := new(big.Float).Quo(gap, span).Float64()
	return p
}

// ExpectedCandidates returns the mean number of candidates drawn per
// rejection, or +Inf if the field can never reject.
func ExpectedCandidates(f Field) float64 {
	p := RejectionProbability(f)
	if p == 0 {
		return math.Inf(1)
	}
	return 1 / p
}

var registry = map[string]Field{}

func register(name string, modulus *big.Int, size int) {
	registry[name] = &descriptor{name: name, modulus: modulus, size: size}
}

func mustDecimal(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("rejsearch: bad modulus constant " + s)
	}
	return n
}

// ed25519Order derives the order of the edwards25519 prime-order subgroup
// from the scalar arithmetic itself: (-1 mod l) + 1.
func ed25519Order() *big.Int {
	var one [32]byte
	one[0] = 1
	s, err := edwards25519.NewScalar().SetCanonicalBytes(one[:])
	if err != nil {
		panic(err)
	}
	minusOne := edwards25519.NewScalar().Subtract(edwards25519.NewScalar(), s).Bytes()
	// Bytes is little-endian
	for i, j := 0, len(minusOne)-1; i < j; i, j = i+1, j-1 {
		minusOne[i], minusOne[j] = minusOne[j], minusOne[i]
	}
	l := new(big.Int).SetBytes(minusOne)
	return l.Add(l, big.NewInt(1))
}

func init() {
	// Fields used by the prio VDAFs.
	register("field32", mustDecimal("4293918721"), 4)
	register("field64", goldilocks.Modulus(), goldilocks.Bytes)
	register("field96", mustDecimal("79228148845226978974766202881"), 12)
	register("field128", mustDecimal("340282366920938462946865773367900766209"), 16)

	// Small STARK-friendly fields.
	register("babybear", babybear.Modulus(), babybear.Bytes)
	register("koalabear", koalabear.Modulus(), koalabear.Bytes)

	// Scalar and base fields of common curves. These encode in 32 bytes
	// and are compared without the 128-bit fast path.
	register("bn254-fr", bn254fr.Modulus(), bn254fr.Bytes)
	register("bls12-377-fr", fr.Modulus(), fr.Bytes)
	register("secp256k1-n", new(big.Int).Set(secp256k1.Params().N), 32)
	register("secp256k1-p", new(big.Int).Set(secp256k1.Params().P), 32)
	register("ed25519-l", ed25519Order(), 32)
}

// FieldByName looks up a built-in field.
func FieldByName(name string) (Field, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidConfig, name)
	}
	return f, nil
}

// Fields returns every built-in field ordered by name.
func Fields() []Field {
	out := make([]Field, 0, len(registry))
	for _, f := range registry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
