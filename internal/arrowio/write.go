package arrowio

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/roach88/idsgo/internal/tensor"
)

// Write encodes set to w as an Arrow IPC stream.
func Write(w io.Writer, set *tensor.Set, opts ...Option) error {
	cfg := newConfig(opts)

	schema, err := buildSchema(set)
	if err != nil {
		return err
	}

	b := array.NewRecordBuilder(cfg.mem, schema)
	defer b.Release()
	for i, v := range set.Variables() {
		if err := appendVariable(b.Field(i), v); err != nil {
			return fmt.Errorf("variable %q: %w", v.Name, err)
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(cfg.mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return fmt.Errorf("write record: %w", err)
	}
	if err := wr.Close(); err != nil {
		return fmt.Errorf("close stream: %w", err)
	}
	return nil
}

func buildSchema(set *tensor.Set) (*arrow.Schema, error) {
	dims := make([]any, 0, len(set.Dimensions()))
	for _, d := range set.Dimensions() {
		dims = append(dims, map[string]any{"name": d.Name, "size": d.Size})
	}
	dimsJSON, err := marshalJSON(dims)
	if err != nil {
		return nil, fmt.Errorf("encode dimensions: %w", err)
	}
	attrsJSON, err := marshalJSON(stringMap(set.Attrs()))
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	vars := set.Variables()
	fields := make([]arrow.Field, len(vars))
	for i, v := range vars {
		typ, err := columnType(v.Kind)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name, err)
		}
		vdims := make([]any, len(v.Dims))
		for j, d := range v.Dims {
			vdims[j] = d
		}
		vdimsJSON, err := marshalJSON(vdims)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name, err)
		}
		vattrsJSON, err := marshalJSON(stringMap(v.Attrs))
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name, err)
		}
		fields[i] = arrow.Field{
			Name:     v.Name,
			Type:     typ,
			Nullable: true,
			Metadata: arrow.NewMetadata(
				[]string{keyKind, keyDims, keyAttrs},
				[]string{v.Kind.String(), vdimsJSON, vattrsJSON},
			),
		}
	}

	md := arrow.NewMetadata(
		[]string{keyFormat, keyDimensions, keyAttributes},
		[]string{FormatVersion, dimsJSON, attrsJSON},
	)
	return arrow.NewSchema(fields, &md), nil
}

func appendVariable(b array.Builder, v *tensor.Variable) error {
	if v.Data == nil {
		b.AppendNull()
		return nil
	}
	lb, ok := b.(*array.ListBuilder)
	if !ok {
		return fmt.Errorf("unexpected builder %T", b)
	}
	lb.Append(true)

	switch values := v.Data.Values().(type) {
	case []int32:
		lb.ValueBuilder().(*array.Int32Builder).AppendValues(values, nil)
	case []float64:
		lb.ValueBuilder().(*array.Float64Builder).AppendValues(values, nil)
	case []complex128:
		vb := lb.ValueBuilder().(*array.Float64Builder)
		for _, c := range values {
			vb.Append(real(c))
			vb.Append(imag(c))
		}
	case []string:
		lb.ValueBuilder().(*array.StringBuilder).AppendValues(values, nil)
	default:
		return fmt.Errorf("unsupported values %T", values)
	}
	return nil
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
