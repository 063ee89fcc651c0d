package rejsearch

import (
	"math/big"

	"lukechampine.com/uint128"
)

// narrowLimit is the widest encoding decoded into a 128-bit candidate.
const narrowLimit = 16

// DecodeLE decodes up to 16 little-endian bytes into a 128-bit integer,
// treating missing high bytes as zero.
func DecodeLE(b []byte) uint128.Uint128 {
	var buf [narrowLimit]byte
	copy(buf[:], b)
	return uint128.FromBytes(buf[:])
}

// leToBig decodes a little-endian byte string of any width.
func leToBig(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// bigToLE encodes n little-endian into exactly size bytes. n must fit.
func bigToLE(n *big.Int, size int) []byte {
	out := n.FillBytes(make([]byte, size))
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// geLE reports whether a >= b for equal-length little-endian byte strings.
func geLE(a, b []byte) bool {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return true
}

// threshold decides whether a candidate is rejected for one field. It is
// built once per run and shared read-only by every worker.
type threshold struct {
	size int

	// never is set when the modulus covers the whole encoded range.
	never bool

	// narrow fields compare as 128-bit integers, wide fields bytewise.
	narrow bool
	mod128 uint128.Uint128
	modLE  []byte
}

func newThreshold(f Field) *threshold {
	size := f.EncodedSize()
	t := &threshold{
		size:   size,
		never:  f.Modulus().Cmp(encodedRange(size)) == 0,
		narrow: size <= narrowLimit,
	}
	if t.never {
		return t
	}
	if t.narrow {
		t.mod128 = DecodeLE(bigToLE(f.Modulus(), size))
	} else {
		t.modLE = bigToLE(f.Modulus(), size)
	}
	return t
}

// rejects reports whether the first t.size bytes of buf, read
// little-endian, are not less than the modulus. For narrow fields buf must
// be 16 bytes long with everything past t.size zeroed.
func (t *threshold) rejects(buf []byte) bool {
	if t.never {
		return false
	}
	if t.narrow {
		return uint128.FromBytes(buf).Cmp(t.mod128) >= 0
	}
	return geLE(buf[:t.size], t.modLE)
}

// value decodes the candidate held in buf for reporting.
func (t *threshold) value(buf []byte) *big.Int {
	if t.narrow {
		return uint128.FromBytes(buf).Big()
	}
	return leToBig(buf[:t.size])
}

// bufferLen is the scratch buffer length a worker needs for this field.
func (t *threshold) bufferLen() int {
	if t.narrow {
		return narrowLimit
	}
	return t.size
}
