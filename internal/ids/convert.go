package ids

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/tensor"
)

func convert(kind ir.DataType, ndim int, v any) (tensor.Tensor, error) {
	var shape []int
	var flat []any
	if ndim == 0 {
		flat = []any{v}
	} else {
		var err error
		shape, err = shapeOf(v, ndim)
		if err != nil {
			return nil, err
		}
		flat = flatten(v, ndim, nil)
	}

	switch kind {
	case ir.Integer:
		return convertAll(flat, shape, toInt)
	case ir.Float:
		return convertAll(flat, shape, toFloat)
	case ir.Complex:
		return convertAll(flat, shape, toComplex)
	case ir.String:
		return convertAll(flat, shape, toString)
	}
	return nil, fmt.Errorf("cannot assign a value to %s", kind)
}

func convertAll[T tensor.Element](flat []any, shape []int, conv func(any) (T, error)) (tensor.Tensor, error) {
	out := make([]T, len(flat))
	for i, x := range flat {
		v, err := conv(x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return tensor.FromSlice(out, shape...)
}

// shapeOf infers the shape of a rectangular nested list of depth ndim.
func shapeOf(v any, ndim int) ([]int, error) {
	shape := make([]int, ndim)
	seen := make([]bool, ndim)
	if err := measure(v, shape, seen, 0); err != nil {
		return nil, err
	}
	return shape, nil
}

func measure(v any, shape []int, seen []bool, depth int) error {
	items, ok := asList(v)
	if !ok {
		return fmt.Errorf("expected a %d-dimensional list, got %T at depth %d", len(shape), v, depth)
	}
	if !seen[depth] {
		seen[depth] = true
		shape[depth] = len(items)
	}
	if len(items) != shape[depth] {
		return fmt.Errorf("ragged list: length %d at depth %d, expected %d", len(items), depth, shape[depth])
	}
	if depth+1 == len(shape) {
		for _, item := range items {
			if _, nested := asList(item); nested {
				return fmt.Errorf("list nested deeper than %d dimensions", len(shape))
			}
		}
		return nil
	}
	for _, item := range items {
		if err := measure(item, shape, seen, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func flatten(v any, ndim int, out []any) []any {
	items, _ := asList(v)
	if ndim == 1 {
		return append(out, items...)
	}
	for _, item := range items {
		out = flatten(item, ndim-1, out)
	}
	return out
}

func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []float64:
		return toAnys(x), true
	case []int:
		return toAnys(x), true
	case []int32:
		return toAnys(x), true
	case []string:
		return toAnys(x), true
	case []complex128:
		return toAnys(x), true
	}
	return nil, false
}

func toAnys[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func toInt(v any) (int32, error) {
	switch x := v.(type) {
	case int:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return 0, fmt.Errorf("integer %d overflows int32", x)
		}
		return int32(x), nil
	case int32:
		return x, nil
	case int64:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return 0, fmt.Errorf("integer %d overflows int32", x)
		}
		return int32(x), nil
	case float64:
		if x != math.Trunc(x) || x < math.MinInt32 || x > math.MaxInt32 {
			return 0, fmt.Errorf("%v is not an int32", x)
		}
		return int32(x), nil
	}
	return 0, fmt.Errorf("cannot use %T as integer", v)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		// YAML has no literal for these.
		switch strings.ToLower(x) {
		case "nan", ".nan":
			return math.NaN(), nil
		case "inf", ".inf", "+inf":
			return math.Inf(1), nil
		case "-inf", "-.inf":
			return math.Inf(-1), nil
		}
	}
	return 0, fmt.Errorf("cannot use %T as float", v)
}

func toComplex(v any) (complex128, error) {
	switch x := v.(type) {
	case complex128:
		return x, nil
	case string:
		c, err := strconv.ParseComplex(x, 128)
		if err != nil {
			return 0, fmt.Errorf("invalid complex %q", x)
		}
		return c, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("cannot use %T as complex", v)
	}
	return complex(f, 0), nil
}

func toString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("cannot use %T as string", v)
}
