package groupjoin

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// JSONFormat specifies the JSON output format
type JSONFormat int

const (
	// JSONRecords outputs as array of row objects: [{"left_index":0,"right_index":2}, ...]
	JSONRecords JSONFormat = iota
	// JSONColumns outputs as object of column arrays: {"left_index":[0,5],"right_index":[2,2]}
	JSONColumns
)

// JSONWriteOptions configures JSON writing behavior
type JSONWriteOptions struct {
	Format JSONFormat // Output format
	Indent string     // Indent string (default "", no indent)
}

// DefaultJSONWriteOptions returns default JSON writing options
func DefaultJSONWriteOptions() JSONWriteOptions {
	return JSONWriteOptions{
		Format: JSONColumns,
	}
}

type indexPairRecord struct {
	Left  int `json:"left_index"`
	Right int `json:"right_index"`
}

type indexPairColumns struct {
	Left  []int `json:"left_index"`
	Right []int `json:"right_index"`
}

// WriteIndexPairsJSON writes pairs to a JSON file
func WriteIndexPairsJSON(path string, pairs *IndexPairs, opts ...JSONWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer f.Close()

	if err := WriteIndexPairsJSONToWriter(f, pairs, opts...); err != nil {
		return err
	}
	return f.Close()
}

// WriteIndexPairsJSONToWriter writes pairs to an io.Writer
func WriteIndexPairsJSONToWriter(w io.Writer, pairs *IndexPairs, opts ...JSONWriteOptions) error {
	opt := DefaultJSONWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	var data interface{}
	switch opt.Format {
	case JSONRecords:
		records := make([]indexPairRecord, pairs.Len())
		for k := range records {
			records[k] = indexPairRecord{Left: pairs.Left[k], Right: pairs.Right[k]}
		}
		data = records
	case JSONColumns:
		data = indexPairColumns{Left: nonNil(pairs.Left), Right: nonNil(pairs.Right)}
	default:
		return errors.Newf("unknown JSON format: %d", opt.Format)
	}

	encoder := json.NewEncoder(w)
	if opt.Indent != "" {
		encoder.SetIndent("", opt.Indent)
	}
	return encoder.Encode(data)
}

// ReadIndexPairsJSON reads pairs written in either JSON format. The format
// is detected from the first token.
func ReadIndexPairsJSON(r io.Reader) (*IndexPairs, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read data")
	}

	for _, c := range data {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			var records []indexPairRecord
			if err := json.Unmarshal(data, &records); err != nil {
				return nil, errors.Wrap(err, "failed to parse JSON records")
			}
			pairs := &IndexPairs{Left: make([]int, len(records)), Right: make([]int, len(records))}
			for k, rec := range records {
				pairs.Left[k], pairs.Right[k] = rec.Left, rec.Right
			}
			return pairs, nil
		default:
			var cols indexPairColumns
			if err := json.Unmarshal(data, &cols); err != nil {
				return nil, errors.Wrap(err, "failed to parse JSON columns")
			}
			if len(cols.Left) != len(cols.Right) {
				return nil, errors.Newf("column lengths differ: %d vs %d", len(cols.Left), len(cols.Right))
			}
			return &IndexPairs{Left: nonNil(cols.Left), Right: nonNil(cols.Right)}, nil
		}
	}
	return nil, errors.New("empty JSON input")
}

// nonNil keeps empty columns encoding as [] rather than null
func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
