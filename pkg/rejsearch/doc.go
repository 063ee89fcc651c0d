// Package rejsearch searches for rejection events in the seed-stream
// sampling used by VDAFs to draw uniform field elements.
//
// A VDAF expands a short seed into a byte stream and reads one field
// element from every chunk of EncodedSize bytes, discarding chunks whose
// little-endian value is not below the field modulus. Such rejections are
// rare for the prio fields, so finding a seed that triggers one (for test
// vectors, or to exercise the retry path of another implementation)
// takes a brute-force search across all cores.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/vdaf-rejection-search/pkg/rejsearch"
//
//	field, _ := rejsearch.FieldByName("field64")
//	result, err := rejsearch.NewSearcher(field).
//	    WithConfig(rejsearch.Config{Jobs: runtime.NumCPU(), PRGIterations: 100000}).
//	    Search(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Rejection)
//
// # Replaying a Result
//
// Every reported seed can be re-expanded to check the rejected and next
// values:
//
//	err := rejsearch.Verify(rejsearch.PRGSha3{}, field, result.Rejection)
//
// # Custom Fields
//
// Any modulus that fits its encoding can be searched, which keeps tests
// fast:
//
//	toy, _ := rejsearch.NewField("toy", big.NewInt(200), 1)
package rejsearch
