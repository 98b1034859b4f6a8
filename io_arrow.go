package groupjoin

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/errors"
)

// Column names of an index-pair record
const (
	LeftIndexColumn  = "left_index"
	RightIndexColumn = "right_index"
)

// indexPairsSchema is the schema of records produced by ToArrow
var indexPairsSchema = arrow.NewSchema([]arrow.Field{
	{Name: LeftIndexColumn, Type: arrow.PrimitiveTypes.Int64},
	{Name: RightIndexColumn, Type: arrow.PrimitiveTypes.Int64},
}, nil)

// ============================================================================
// Arrow Join
// ============================================================================

// JoinArrow joins two Arrow integer label columns and returns the result as
// a record with int64 columns left_index and right_index.
// Null labels fail with ErrInvalidGroupLabel.
// The caller is responsible for calling Release() on the returned Record.
func JoinArrow(left, right arrow.Array, maxGroup int, mem memory.Allocator, opts ...JoinOptions) (arrow.Record, error) {
	lv, err := LabelsFromArrow(left, SideLeft)
	if err != nil {
		return nil, err
	}
	rv, err := LabelsFromArrow(right, SideRight)
	if err != nil {
		return nil, err
	}

	pairs, err := JoinPairs(lv, rv, maxGroup, opts...)
	if err != nil {
		return nil, err
	}
	return pairs.ToArrow(mem)
}

// LabelsFromArrow widens an Arrow integer array to int64 labels.
// Int64 arrays are returned without copying.
func LabelsFromArrow(arr arrow.Array, side Side) ([]int64, error) {
	if arr == nil {
		return nil, errors.Newf("groupjoin: %s labels: array is nil", side)
	}
	if arr.NullN() > 0 {
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				return nil, &LabelError{Side: side, Position: i, Null: true}
			}
		}
	}

	switch a := arr.(type) {
	case *array.Int64:
		return a.Int64Values(), nil
	case *array.Int32:
		return widen(a.Int32Values()), nil
	case *array.Int16:
		return widen(a.Int16Values()), nil
	case *array.Int8:
		return widen(a.Int8Values()), nil
	case *array.Uint64:
		return widen(a.Uint64Values()), nil
	case *array.Uint32:
		return widen(a.Uint32Values()), nil
	case *array.Uint16:
		return widen(a.Uint16Values()), nil
	case *array.Uint8:
		return widen(a.Uint8Values()), nil
	default:
		return nil, errors.Newf("groupjoin: %s labels: unsupported arrow type %s", side, arr.DataType())
	}
}

// widen copies vals to int64. Uint64 values above MaxInt64 become negative
// and are then rejected as labels.
func widen[T Label](vals []T) []int64 {
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = int64(v)
	}
	return out
}

// ============================================================================
// Arrow Export / Import
// ============================================================================

// ToArrow exports the pairs to an Arrow Record.
// The caller is responsible for calling Release() on the returned Record.
func (p *IndexPairs) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	arrays := make([]arrow.Array, 2)
	for i, col := range [][]int{p.Left, p.Right} {
		arrays[i] = indicesToArrowArray(col, mem)
	}

	record := array.NewRecord(indexPairsSchema, arrays, int64(p.Len()))

	// Release arrays (Record retains them)
	for _, arr := range arrays {
		arr.Release()
	}
	return record, nil
}

func indicesToArrowArray(indices []int, mem memory.Allocator) arrow.Array {
	builder := array.NewInt64Builder(mem)
	defer builder.Release()
	builder.Reserve(len(indices))
	for _, v := range indices {
		builder.UnsafeAppend(int64(v))
	}
	return builder.NewArray()
}

// IndexPairsFromArrow reads pairs back from a record produced by ToArrow.
func IndexPairsFromArrow(record arrow.Record) (*IndexPairs, error) {
	if record == nil {
		return nil, errors.New("groupjoin: record is nil")
	}

	cols := make([][]int, 2)
	for i, name := range []string{LeftIndexColumn, RightIndexColumn} {
		idx := record.Schema().FieldIndices(name)
		if len(idx) == 0 {
			return nil, errors.Newf("groupjoin: column %q not found in record", name)
		}
		col, ok := record.Column(idx[0]).(*array.Int64)
		if !ok {
			return nil, errors.Newf("groupjoin: column %q has type %s, want int64", name, record.Column(idx[0]).DataType())
		}
		if col.NullN() > 0 {
			return nil, errors.Newf("groupjoin: column %q contains nulls", name)
		}
		data := make([]int, col.Len())
		for j, v := range col.Int64Values() {
			data[j] = int(v)
		}
		cols[i] = data
	}

	return &IndexPairs{Left: cols[0], Right: cols[1]}, nil
}
