package arrowio

import (
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/tensor"
)

// ErrNoRecord is returned by Read when the stream holds a schema but no
// record batch.
var ErrNoRecord = errors.New("arrow stream holds no record batch")

// Read decodes a tensor set written by Write. A malformed or truncated
// stream is an error.
func Read(r io.Reader, opts ...Option) (set *tensor.Set, err error) {
	cfg := newConfig(opts)
	// Arrow panics when it builds arrays over buffers shorter than their
	// offsets claim
	defer func() {
		if p := recover(); p != nil {
			set, err = nil, fmt.Errorf("corrupt arrow stream: %v", p)
		}
	}()

	rdr, err := ipc.NewReader(r, ipc.WithAllocator(cfg.mem))
	if err != nil {
		return nil, fmt.Errorf("open arrow stream: %w", err)
	}
	defer rdr.Release()

	schema := rdr.Schema()
	set, err = readHeader(schema.Metadata())
	if err != nil {
		return nil, err
	}

	if !rdr.Next() {
		if err := rdr.Err(); err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		return nil, ErrNoRecord
	}
	rec := rdr.Record()
	if len(schema.Fields()) > 0 && rec.NumRows() != 1 {
		return nil, fmt.Errorf("record holds %d rows, want 1", rec.NumRows())
	}

	for i, f := range schema.Fields() {
		v, err := readVariable(f, rec.Column(i), set)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", f.Name, err)
		}
		if err := set.AddVariable(v); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func readHeader(md arrow.Metadata) (*tensor.Set, error) {
	format, ok := lookup(md, keyFormat)
	if !ok {
		return nil, fmt.Errorf("not an idsgo arrow stream: missing %s", keyFormat)
	}
	if format != FormatVersion {
		return nil, fmt.Errorf("unsupported stream format %q", format)
	}

	var dims []dimension
	if err := unmarshalJSON(md, keyDimensions, &dims); err != nil {
		return nil, err
	}
	attrs := map[string]string{}
	if err := unmarshalJSON(md, keyAttributes, &attrs); err != nil {
		return nil, err
	}

	set := tensor.NewSet()
	for _, d := range dims {
		if err := set.AddDimension(d.Name, d.Size); err != nil {
			return nil, err
		}
	}
	for k, v := range attrs {
		set.SetAttr(k, v)
	}
	return set, nil
}

func readVariable(f arrow.Field, col arrow.Array, set *tensor.Set) (*tensor.Variable, error) {
	kindName, ok := lookup(f.Metadata, keyKind)
	if !ok {
		return nil, fmt.Errorf("missing %s metadata", keyKind)
	}
	kind, err := parseKind(kindName)
	if err != nil {
		return nil, err
	}
	var dims []string
	if err := unmarshalJSON(f.Metadata, keyDims, &dims); err != nil {
		return nil, err
	}
	attrs := map[string]string{}
	if err := unmarshalJSON(f.Metadata, keyAttrs, &attrs); err != nil {
		return nil, err
	}

	v := &tensor.Variable{Name: f.Name, Kind: kind, Dims: dims, Attrs: attrs}
	if kind.IsContainer() {
		return v, nil
	}
	if col.Len() < 1 {
		return nil, errors.New("column holds no rows")
	}
	if col.IsNull(0) {
		return nil, fmt.Errorf("%s variable without data", kind)
	}

	shape := make([]int, len(dims))
	for i, d := range dims {
		size, ok := set.DimensionSize(d)
		if !ok {
			return nil, fmt.Errorf("unknown dimension %q", d)
		}
		shape[i] = size
	}

	list, ok := col.(*array.List)
	if !ok {
		return nil, fmt.Errorf("column type %s, want list", col.DataType())
	}
	start, end, err := firstListRange(list)
	if err != nil {
		return nil, err
	}
	values, err := listValues(kind, list.ListValues(), start, end)
	if err != nil {
		return nil, err
	}
	v.Data, err = tensor.FromValues(values, shape)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// firstListRange returns the value range of the first list in col after
// checking it against the offsets and child buffers.
func firstListRange(list *array.List) (int, int, error) {
	if list.Len() < 1 {
		return 0, 0, errors.New("empty list column")
	}
	data := list.Data()
	buf := data.Buffers()[1]
	if buf == nil {
		return 0, 0, errors.New("list column without offsets")
	}
	offsets := arrow.Int32Traits.CastFromBytes(buf.Bytes())
	if len(offsets) < data.Offset()+2 {
		return 0, 0, fmt.Errorf("list offsets buffer holds %d offsets", len(offsets))
	}
	start, end := int(offsets[data.Offset()]), int(offsets[data.Offset()+1])
	if start < 0 || end < start || end > list.ListValues().Len() {
		return 0, 0, fmt.Errorf("list offsets [%d, %d) outside %d values", start, end, list.ListValues().Len())
	}
	return start, end, nil
}

// listValues copies the elements in [start, end) out of the Arrow buffer.
func listValues(kind ir.DataType, arr arrow.Array, start, end int) (any, error) {
	if start < 0 || end < start || end > arr.Len() {
		return nil, fmt.Errorf("value range [%d, %d) outside %d values", start, end, arr.Len())
	}
	switch a := arr.(type) {
	case *array.Int32:
		if kind != ir.Integer {
			break
		}
		return append([]int32{}, a.Int32Values()[start:end]...), nil
	case *array.Float64:
		raw := a.Float64Values()[start:end]
		switch kind {
		case ir.Float:
			return append([]float64{}, raw...), nil
		case ir.Complex:
			if len(raw)%2 != 0 {
				return nil, fmt.Errorf("odd number of complex parts %d", len(raw))
			}
			out := make([]complex128, len(raw)/2)
			for i := range out {
				out[i] = complex(raw[2*i], raw[2*i+1])
			}
			return out, nil
		}
	case *array.String:
		if kind != ir.String {
			break
		}
		out := make([]string, end-start)
		for i := range out {
			out[i] = a.Value(start + i)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s values stored as %s", kind, arr.DataType())
}

var kinds = []ir.DataType{ir.Structure, ir.StructArray, ir.String, ir.Integer, ir.Float, ir.Complex}

func parseKind(s string) (ir.DataType, error) {
	for _, k := range kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown variable kind %q", s)
}
