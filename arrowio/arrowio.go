// Package arrowio adapts Arrow record batches to the engine's float64
// matrices and back: embedding columns in, attention results out.
package arrowio

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/longbow-recurve/attention"
	"github.com/23skdu/longbow-recurve/internal/errors"
)

// Column names written by VectorRecord and expected by the extraction
// helpers' callers.
const (
	EmbeddingColumn = "embedding"
	DepthColumn     = "depth"
)

func findColumn(rec arrow.RecordBatch, name string) (arrow.Array, error) {
	for i, field := range rec.Schema().Fields() {
		if field.Name == name {
			return rec.Column(i), nil
		}
	}
	return nil, errors.NewValidationError("arrow", "column not found").
		WithContext("column", name)
}

// VectorsFromRecord extracts a FixedSizeList embedding column as one row
// vector per record row. Float64 rows alias the record's buffers and are
// only valid while the record is retained; Float32 rows are converted
// copies.
func VectorsFromRecord(rec arrow.RecordBatch, column string) ([][]float64, error) {
	if rec == nil {
		return nil, errors.NewValidationError("arrow", "record is nil")
	}
	col, err := findColumn(rec, column)
	if err != nil {
		return nil, err
	}
	listArr, ok := col.(*array.FixedSizeList)
	if !ok {
		return nil, errors.NewValidationError("arrow", "column is not FixedSizeList").
			WithContext("column", column).
			WithContext("type", col.DataType().String())
	}

	listType := listArr.DataType().(*arrow.FixedSizeListType)
	width := int(listType.Len())
	values := listArr.Data().Children()[0]
	rows := make([][]float64, listArr.Len())

	switch listType.Elem().ID() {
	case arrow.FLOAT64:
		floatArr := array.NewFloat64Data(values)
		defer floatArr.Release()
		vals := floatArr.Float64Values()
		for i := range rows {
			start := i * width
			rows[i] = vals[start : start+width : start+width]
		}
	case arrow.FLOAT32:
		floatArr := array.NewFloat32Data(values)
		defer floatArr.Release()
		vals := floatArr.Float32Values()
		for i := range rows {
			row := make([]float64, width)
			for j := 0; j < width; j++ {
				row[j] = float64(vals[i*width+j])
			}
			rows[i] = row
		}
	default:
		return nil, errors.NewValidationError("arrow", "unsupported embedding element type").
			WithContext("column", column).
			WithContext("type", listType.Elem().String())
	}
	return rows, nil
}

// DepthsFromRecord extracts an Int32 hierarchy-depth column as []int.
func DepthsFromRecord(rec arrow.RecordBatch, column string) ([]int, error) {
	if rec == nil {
		return nil, errors.NewValidationError("arrow", "record is nil")
	}
	col, err := findColumn(rec, column)
	if err != nil {
		return nil, err
	}
	intArr, ok := col.(*array.Int32)
	if !ok {
		return nil, errors.NewValidationError("arrow", "depth column is not Int32").
			WithContext("column", column).
			WithContext("type", col.DataType().String())
	}
	vals := intArr.Int32Values()
	depths := make([]int, len(vals))
	for i, v := range vals {
		depths[i] = int(v)
	}
	return depths, nil
}

// VectorRecord builds a one-batch embedding record: an "embedding"
// FixedSizeList<Float64> column and, when depths is non-nil, a "depth"
// Int32 column. The caller releases the returned record.
func VectorRecord(vectors [][]float64, depths []int, mem memory.Allocator) (arrow.RecordBatch, error) {
	if len(vectors) == 0 {
		return nil, errors.NewValidationError("arrow", "empty vector list")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.NewValidationError("arrow", "zero-dimensional vectors")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errors.NewValidationError("arrow", "inconsistent vector dimensions").
				WithContext("row", i).
				WithContext("want", dim).
				WithContext("got", len(v))
		}
	}
	if depths != nil && len(depths) != len(vectors) {
		return nil, errors.NewValidationError("arrow", "depths length does not match vectors").
			WithContext("vectors", len(vectors)).
			WithContext("depths", len(depths))
	}

	fields := []arrow.Field{
		{Name: EmbeddingColumn, Type: arrow.FixedSizeListOf(int32(dim), arrow.PrimitiveTypes.Float64)},
	}
	if depths != nil {
		fields = append(fields, arrow.Field{Name: DepthColumn, Type: arrow.PrimitiveTypes.Int32})
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	vecBuilder := b.Field(0).(*array.FixedSizeListBuilder)
	valBuilder := vecBuilder.ValueBuilder().(*array.Float64Builder)
	for _, v := range vectors {
		vecBuilder.Append(true)
		valBuilder.AppendValues(v, nil)
	}
	if depths != nil {
		depthBuilder := b.Field(1).(*array.Int32Builder)
		for _, d := range depths {
			depthBuilder.Append(int32(d))
		}
	}
	return b.NewRecordBatch(), nil
}

// ResultRecord serializes an attention result as a one-row record:
// scalar time, fixed-size space and projected columns, and variable-length
// weights and curvatures lists. The caller releases the returned record.
func ResultRecord(res attention.Result, mem memory.Allocator) (arrow.RecordBatch, error) {
	dim := len(res.Point.Space)
	if dim == 0 {
		return nil, errors.NewValidationError("arrow", "result has no spatial coordinates")
	}
	if len(res.Projected) != dim {
		return nil, errors.NewValidationError("arrow", "projected length does not match space").
			WithContext("space", dim).
			WithContext("projected", len(res.Projected))
	}

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "time", Type: arrow.PrimitiveTypes.Float64},
		{Name: "space", Type: arrow.FixedSizeListOf(int32(dim), arrow.PrimitiveTypes.Float64)},
		{Name: "projected", Type: arrow.FixedSizeListOf(int32(dim), arrow.PrimitiveTypes.Float64)},
		{Name: "weights", Type: arrow.ListOf(arrow.PrimitiveTypes.Float64)},
		{Name: "curvatures", Type: arrow.ListOf(arrow.PrimitiveTypes.Float64)},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	b.Field(0).(*array.Float64Builder).Append(res.Point.Time)

	spaceBuilder := b.Field(1).(*array.FixedSizeListBuilder)
	spaceBuilder.Append(true)
	spaceBuilder.ValueBuilder().(*array.Float64Builder).AppendValues(res.Point.Space, nil)

	projBuilder := b.Field(2).(*array.FixedSizeListBuilder)
	projBuilder.Append(true)
	projBuilder.ValueBuilder().(*array.Float64Builder).AppendValues(res.Projected, nil)

	weightsBuilder := b.Field(3).(*array.ListBuilder)
	weightsBuilder.Append(true)
	weightsBuilder.ValueBuilder().(*array.Float64Builder).AppendValues(res.Weights, nil)

	curvBuilder := b.Field(4).(*array.ListBuilder)
	curvBuilder.Append(true)
	curvBuilder.ValueBuilder().(*array.Float64Builder).AppendValues(res.CurvaturesUsed, nil)

	return b.NewRecordBatch(), nil
}
