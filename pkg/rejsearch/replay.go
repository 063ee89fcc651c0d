package rejsearch

import (
	"fmt"
	"math/big"
)

// Replay re-expands seed and returns the first count chunk values, decoded
// exactly as the search decodes them.
//
// Args:
//   - prg, field: generator and field the seed was searched with
//   - seed, custom, binder: stream key and context
//   - count: number of chunks to decode
func Replay(prg PRG, field Field, seed Seed, custom, binder []byte, count int) ([]*big.Int, error) {
	if err := validateReplay(prg, field); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative chunk count %d", ErrInvalidConfig, count)
	}

	t := newThreshold(field)
	stream := prg.NewStream(custom)
	stream.Reset(&seed, binder)

	buf := make([]byte, t.bufferLen())
	values := make([]*big.Int, count)
	for i := range values {
		stream.Fill(buf[:t.size])
		values[i] = t.value(buf)
	}
	return values, nil
}

func validateReplay(prg PRG, field Field) error {
	if prg == nil {
		return fmt.Errorf("%w: no prg given", ErrInvalidConfig)
	}
	return ValidateField(field)
}

// Verify checks that rej is reproducible: replaying its seed must yield the
// rejected value at Offset, a value not less than the modulus, and the
// reported next value right after it.
//
// Chunks before Offset are skipped through a single buffer, so memory does
// not grow with the offset.
func Verify(prg PRG, field Field, rej *Rejection) error {
	if err := validateReplay(prg, field); err != nil {
		return err
	}
	if rej == nil {
		return fmt.Errorf("%w: no rejection given", ErrInvalidConfig)
	}
	if rej.Field != "" && rej.Field != field.Name() {
		return fmt.Errorf("%w: rejection is for field %s, not %s", ErrMismatch, rej.Field, field.Name())
	}
	if rej.PRG != "" && rej.PRG != prg.Name() {
		return fmt.Errorf("%w: rejection is for prg %s, not %s", ErrMismatch, rej.PRG, prg.Name())
	}
	if rej.Rejected == nil || rej.Next == nil {
		return fmt.Errorf("%w: rejection carries no values", ErrMismatch)
	}
	if rej.Offset < 0 || rej.Length != rej.Offset+1 {
		return fmt.Errorf("%w: offset %d and length %d disagree", ErrMismatch, rej.Offset, rej.Length)
	}

	t := newThreshold(field)
	stream := prg.NewStream(rej.Custom)
	stream.Reset(&rej.Seed, rej.Binder)

	buf := make([]byte, t.bufferLen())
	chunk := buf[:t.size]
	for i := 0; i < rej.Offset; i++ {
		stream.Fill(chunk)
	}
	stream.Fill(chunk)
	got := t.value(buf)
	stream.Fill(chunk)
	next := t.value(buf)

	if got.Cmp(rej.Rejected) != 0 {
		return fmt.Errorf("%w: chunk %d is %s, reported %s", ErrMismatch, rej.Offset, got, rej.Rejected)
	}
	if got.Cmp(field.Modulus()) < 0 {
		return fmt.Errorf("%w: chunk %d is %s, below the modulus", ErrMismatch, rej.Offset, got)
	}
	if next.Cmp(rej.Next) != 0 {
		return fmt.Errorf("%w: chunk %d is %s, reported next %s", ErrMismatch, rej.Offset+1, next, rej.Next)
	}
	return nil
}
