package arrowio

import (
	"encoding/json"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/roach88/idsgo/internal/ir"
)

// Metadata keys.
const (
	keyFormat     = "idsgo:format"
	keyDimensions = "idsgo:dimensions"
	keyAttributes = "idsgo:attributes"
	keyKind       = "idsgo:kind"
	keyDims       = "idsgo:dims"
	keyAttrs      = "idsgo:attrs"
)

// FormatVersion is written to every stream and checked on read.
const FormatVersion = "1"

type config struct {
	mem memory.Allocator
}

// Option configures Write and Read.
type Option func(*config)

// WithAllocator sets the Arrow allocator. The default is a Go allocator.
func WithAllocator(mem memory.Allocator) Option {
	return func(c *config) {
		c.mem = mem
	}
}

func newConfig(opts []Option) config {
	c := config{mem: memory.NewGoAllocator()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// columnType returns the Arrow type of a variable column.
func columnType(kind ir.DataType) (arrow.DataType, error) {
	switch kind {
	case ir.Structure, ir.StructArray:
		return arrow.Null, nil
	case ir.Integer:
		return arrow.ListOf(arrow.PrimitiveTypes.Int32), nil
	case ir.Float, ir.Complex:
		return arrow.ListOf(arrow.PrimitiveTypes.Float64), nil
	case ir.String:
		return arrow.ListOf(arrow.BinaryTypes.String), nil
	}
	return nil, fmt.Errorf("no arrow column for %s", kind)
}

func lookup(md arrow.Metadata, key string) (string, bool) {
	i := md.FindKey(key)
	if i < 0 {
		return "", false
	}
	return md.Values()[i], true
}

type dimension struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func marshalJSON(v any) (string, error) {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalJSON(md arrow.Metadata, key string, out any) error {
	raw, ok := lookup(md, key)
	if !ok {
		return fmt.Errorf("missing %s metadata", key)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s metadata: %w", key, err)
	}
	return nil
}
