package groupjoin

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// CSVReadOptions configures CSV reading behavior
type CSVReadOptions struct {
	Delimiter rune // Field delimiter (default ',')
	HasHeader bool // First row is header (default true)
	SkipRows  int  // Skip first N rows
	MaxRows   int  // Max rows to read (0 = unlimited)
	TrimSpace bool // Trim whitespace from values
	Comment   rune // Comment character (skip lines starting with this)
}

// DefaultCSVReadOptions returns default CSV reading options
func DefaultCSVReadOptions() CSVReadOptions {
	return CSVReadOptions{
		Delimiter: ',',
		HasHeader: true,
		TrimSpace: true,
	}
}

// ReadGroupsCSV reads one integer label column from a CSV file
func ReadGroupsCSV(path, column string, opts ...CSVReadOptions) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	return ReadGroupsCSVFromReader(f, column, opts...)
}

// ReadGroupsCSVFromReader reads one integer label column from CSV data.
// With HasHeader the column is found by name; otherwise column must be a
// zero-based index such as "0". Empty cells are null labels and fail with
// ErrInvalidGroupLabel; the reader does not know which join side it feeds,
// so the LabelError carries SideUnknown for the caller to fill in.
func ReadGroupsCSVFromReader(r io.Reader, column string, opts ...CSVReadOptions) ([]int64, error) {
	opt := DefaultCSVReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(r)
	reader.Comma = opt.Delimiter
	if opt.Comment != 0 {
		reader.Comment = opt.Comment
	}
	reader.TrimLeadingSpace = opt.TrimSpace
	reader.FieldsPerRecord = -1

	for i := 0; i < opt.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, errors.Wrapf(err, "failed to skip row %d", i)
		}
	}

	colIdx, err := resolveCSVColumn(reader, column, opt.HasHeader)
	if err != nil {
		return nil, err
	}

	var labels []int64
	for opt.MaxRows <= 0 || len(labels) < opt.MaxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row %d", len(labels))
		}

		row := len(labels)
		if colIdx >= len(record) {
			return nil, &LabelError{Position: row, Null: true}
		}
		val := record[colIdx]
		if opt.TrimSpace {
			val = strings.TrimSpace(val)
		}
		if val == "" {
			return nil, &LabelError{Position: row, Null: true}
		}
		v, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: label %q is not an integer", row, val)
		}
		labels = append(labels, v)
	}

	return labels, nil
}

func resolveCSVColumn(reader *csv.Reader, column string, hasHeader bool) (int, error) {
	if !hasHeader {
		idx, err := strconv.Atoi(column)
		if err != nil || idx < 0 {
			return 0, errors.Newf("column %q must be a zero-based index when the CSV has no header", column)
		}
		return idx, nil
	}

	headers, err := reader.Read()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read header")
	}
	for i, h := range headers {
		if strings.TrimSpace(h) == column {
			return i, nil
		}
	}
	return 0, errors.Newf("column '%s' not found in CSV header", column)
}
