package rejsearch

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/vdaf-rejection-search/internal/parser"
)

// Rejection is the first out-of-range candidate found by a search.
type Rejection struct {
	Field  string // Name of the searched field
	PRG    string // Name of the generator
	Seed   Seed   // Seed whose stream produced the rejection
	Custom []byte // PRG customization string
	Binder []byte // PRG binder string

	Offset int // Zero-based index of the rejected chunk within the stream
	Length int // Number of chunks drawn up to and including the rejection

	Rejected *big.Int // Value of the rejected chunk, >= the modulus
	Next     *big.Int // Value of the chunk following it

	Worker int // Worker that found it
}

// Stats summarizes the work done by one run.
type Stats struct {
	Seeds      uint64        // Seeds drawn across all workers
	Candidates uint64        // Candidates compared across all workers
	Discarded  int           // Rejections found after another worker won
	Elapsed    time.Duration // Wall time of the run
}

// Result is returned by a successful search.
type Result struct {
	Rejection *Rejection
	Stats     Stats
}

// Output formats accepted by WriteReport.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the serialized form of a Rejection. Integers are written as
// decimal strings and byte strings as hex so that values wider than 64 bits
// survive every format.
type Report struct {
	Field    string `json:"field" yaml:"field"`
	PRG      string `json:"prg" yaml:"prg"`
	Seed     string `json:"seed" yaml:"seed"`
	Custom   string `json:"custom,omitempty" yaml:"custom,omitempty"`
	Binder   string `json:"binder,omitempty" yaml:"binder,omitempty"`
	Offset   int    `json:"offset" yaml:"offset"`
	Length   int    `json:"length" yaml:"length"`
	Rejected string `json:"rejected" yaml:"rejected"`
	Next     string `json:"next" yaml:"next"`
}

// Report converts r to its serialized form.
func (r *Rejection) Report() Report {
	return Report{
		Field:    r.Field,
		PRG:      r.PRG,
		Seed:     r.Seed.String(),
		Custom:   hex.EncodeToString(r.Custom),
		Binder:   hex.EncodeToString(r.Binder),
		Offset:   r.Offset,
		Length:   r.Length,
		Rejected: r.Rejected.Text(10),
		Next:     r.Next.Text(10),
	}
}

// Rejection parses a serialized report back into a Rejection.
func (rep Report) Rejection() (*Rejection, error) {
	seed, err := ParseSeed(rep.Seed)
	if err != nil {
		return nil, err
	}
	custom, err := hex.DecodeString(rep.Custom)
	if err != nil {
		return nil, fmt.Errorf("failed to parse custom: %w", err)
	}
	binder, err := hex.DecodeString(rep.Binder)
	if err != nil {
		return nil, fmt.Errorf("failed to parse binder: %w", err)
	}
	rejected, err := parser.ParseBigInt(rep.Rejected)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rejected: %w", err)
	}
	next, err := parser.ParseBigInt(rep.Next)
	if err != nil {
		return nil, fmt.Errorf("failed to parse next: %w", err)
	}
	return &Rejection{
		Field:    rep.Field,
		PRG:      rep.PRG,
		Seed:     seed,
		Custom:   custom,
		Binder:   binder,
		Offset:   rep.Offset,
		Length:   rep.Length,
		Rejected: rejected,
		Next:     next,
	}, nil
}

// String renders the rejection the way the text report prints it.
func (r *Rejection) String() string {
	return fmt.Sprintf("Rejection found, seed = %s, offset = %d (length %d)\nrejected = %s, next = %s",
		r.Seed, r.Offset, r.Length, r.Rejected.Text(10), r.Next.Text(10))
}

// WriteReport writes r to w in the given format.
func WriteReport(w io.Writer, r *Rejection, format string) error {
	switch format {
	case FormatText, "":
		_, err := fmt.Fprintln(w, r.String())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Report())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r.Report())
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, format)
	}
}

// ReadReport parses a report previously written in the JSON or YAML format.
func ReadReport(r io.Reader) (*Rejection, error) {
	var rep Report
	// JSON documents are valid YAML, so one decoder covers both.
	if err := yaml.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return rep.Rejection()
}
