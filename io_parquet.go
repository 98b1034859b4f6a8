package groupjoin

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
)

// ============================================================================
// Parquet Read
// ============================================================================

// ReadGroupsParquet reads one integer label column from a Parquet file
func ReadGroupsParquet(path, column string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	return ReadGroupsParquetFromReader(f, stat.Size(), column)
}

// ReadGroupsParquetFromReader reads one integer label column from Parquet
// data. The column must be a top-level INT32 or INT64 leaf; nulls are
// rejected with ErrInvalidGroupLabel (Side left as SideUnknown, as with
// ReadGroupsCSV).
func ReadGroupsParquetFromReader(r io.ReaderAt, size int64, column string) ([]int64, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open parquet file")
	}

	leaf, ok := pf.Schema().Lookup(column)
	if !ok {
		return nil, errors.Newf("column '%s' not found in parquet file", column)
	}
	switch kind := leaf.Node.Type().Kind(); kind {
	case parquet.Int32, parquet.Int64:
	default:
		return nil, errors.Newf("column '%s' has parquet type %s, want an integer", column, kind)
	}

	labels := make([]int64, 0, pf.NumRows())
	rowBuf := make([]parquet.Row, 1000)
	for rgIdx, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(rowBuf)
			for _, row := range rowBuf[:n] {
				if leaf.ColumnIndex >= len(row) || row[leaf.ColumnIndex].IsNull() {
					rows.Close()
					return nil, &LabelError{Position: len(labels), Null: true}
				}
				labels = append(labels, parquetLabel(row[leaf.ColumnIndex]))
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return nil, errors.Wrapf(err, "failed to read row group %d", rgIdx)
			}
			if n == 0 {
				break
			}
		}
		rows.Close()
	}

	return labels, nil
}

func parquetLabel(v parquet.Value) int64 {
	if v.Kind() == parquet.Int32 {
		return int64(v.Int32())
	}
	return v.Int64()
}

// ============================================================================
// Parquet Write
// ============================================================================

// ParquetWriteOptions configures Parquet writing behavior
type ParquetWriteOptions struct {
	Compression  string // "snappy", "gzip", "zstd", "none" (default "snappy")
	RowGroupSize int    // Rows per row group (default 1000000)
}

// DefaultParquetWriteOptions returns default Parquet writing options
func DefaultParquetWriteOptions() ParquetWriteOptions {
	return ParquetWriteOptions{
		Compression:  "snappy",
		RowGroupSize: 1000000,
	}
}

func (o ParquetWriteOptions) writerOptions(schema *parquet.Schema) []parquet.WriterOption {
	writerOpts := []parquet.WriterOption{schema}
	switch o.Compression {
	case "snappy":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Snappy))
	case "gzip":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Gzip))
	case "zstd":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Zstd))
	}
	if o.RowGroupSize > 0 {
		writerOpts = append(writerOpts, parquet.MaxRowsPerRowGroup(int64(o.RowGroupSize)))
	}
	return writerOpts
}

func resolveParquetWriteOptions(opts []ParquetWriteOptions) ParquetWriteOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return DefaultParquetWriteOptions()
}

// WriteIndexPairsParquet writes pairs to a Parquet file with INT64 columns
// left_index and right_index
func WriteIndexPairsParquet(path string, pairs *IndexPairs, opts ...ParquetWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer f.Close()

	if err := WriteIndexPairsParquetToWriter(f, pairs, opts...); err != nil {
		return err
	}
	return f.Close()
}

// WriteIndexPairsParquetToWriter writes pairs to an io.Writer
func WriteIndexPairsParquetToWriter(w io.Writer, pairs *IndexPairs, opts ...ParquetWriteOptions) error {
	return writeInt64Columns(w, "index_pairs", []string{LeftIndexColumn, RightIndexColumn}, pairs.Len(),
		func(row parquet.Row, k int) {
			row[0] = parquet.Int64Value(int64(pairs.Left[k])).Level(0, 0, 0)
			row[1] = parquet.Int64Value(int64(pairs.Right[k])).Level(0, 0, 1)
		}, resolveParquetWriteOptions(opts))
}

// WriteGroupsParquetToWriter writes a label sequence as a single INT64 column
func WriteGroupsParquetToWriter[T Label](w io.Writer, column string, labels []T, opts ...ParquetWriteOptions) error {
	return writeInt64Columns(w, "groups", []string{column}, len(labels),
		func(row parquet.Row, k int) {
			row[0] = parquet.Int64Value(int64(labels[k])).Level(0, 0, 0)
		}, resolveParquetWriteOptions(opts))
}

// writeInt64Columns writes height rows of required INT64 columns. names must
// be sorted: parquet.Group orders its leaves by name.
func writeInt64Columns(w io.Writer, schemaName string, names []string, height int, fill func(row parquet.Row, k int), opt ParquetWriteOptions) error {
	group := make(parquet.Group)
	for _, name := range names {
		group[name] = parquet.Leaf(parquet.Int64Type)
	}
	schema := parquet.NewSchema(schemaName, group)

	pw := parquet.NewWriter(w, opt.writerOptions(schema)...)

	batchSize := 1000
	rows := make([]parquet.Row, 0, batchSize)
	for k := 0; k < height; k++ {
		row := make(parquet.Row, len(names))
		fill(row, k)
		rows = append(rows, row)

		// Flush batch when full
		if len(rows) >= batchSize {
			if _, err := pw.WriteRows(rows); err != nil {
				return errors.Wrapf(err, "failed to write rows at %d", k-len(rows)+1)
			}
			rows = rows[:0]
		}
	}

	if len(rows) > 0 {
		if _, err := pw.WriteRows(rows); err != nil {
			return errors.Wrap(err, "failed to write final rows")
		}
	}

	return pw.Close()
}
