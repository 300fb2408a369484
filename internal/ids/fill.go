package ids

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/roach88/idsgo/internal/tensor"
)

// Fill populates s from a nested map as produced by YAML or JSON decoders.
// Structures take maps, arrays of structures take lists of maps, leaves
// take anything Leaf.SetValue accepts. Unknown keys are errors.
func Fill(s *Structure, data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		child, ok := s.Child(key)
		if !ok {
			return fmt.Errorf("%s has no field %q", s.meta.DisplayPath(), key)
		}
		if err := fillNode(child, data[key]); err != nil {
			return err
		}
	}
	return nil
}

func fillNode(n Node, v any) error {
	switch x := n.(type) {
	case *Structure:
		m, ok := asMap(v)
		if !ok {
			return fmt.Errorf("%s: expected a map, got %T", x.meta.Path, v)
		}
		return Fill(x, m)
	case *StructArray:
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected a list, got %T", x.meta.Path, v)
		}
		if err := x.Resize(len(items)); err != nil {
			return err
		}
		for i, item := range items {
			m, ok := asMap(item)
			if !ok {
				return fmt.Errorf("%s[%d]: expected a map, got %T", x.meta.Path, i, item)
			}
			if err := Fill(x.elems[i], m); err != nil {
				return err
			}
		}
		return nil
	case *Leaf:
		return x.SetValue(v)
	}
	return fmt.Errorf("unexpected node %T", n)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	case nil:
		return map[string]any{}, true
	}
	return nil, false
}

// ToMap is the inverse of Fill: it returns the non-empty content of s as
// nested maps and lists. Complex values are rendered as strings.
func ToMap(s *Structure) map[string]any {
	out := make(map[string]any)
	for _, child := range s.children {
		if child.IsEmpty() {
			continue
		}
		switch c := child.(type) {
		case *Structure:
			out[c.meta.Name] = ToMap(c)
		case *StructArray:
			items := make([]any, len(c.elems))
			for i, elem := range c.elems {
				items[i] = ToMap(elem)
			}
			out[c.meta.Name] = items
		case *Leaf:
			out[c.meta.Name] = leafValue(c.value)
		}
	}
	return out
}

func leafValue(t tensor.Tensor) any {
	flat := toAnysFrom(t.Values())
	if t.NDim() == 0 {
		return flat[0]
	}
	return nest(flat, t.Shape())
}

func toAnysFrom(values any) []any {
	switch v := values.(type) {
	case []int32:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = int(x)
		}
		return out
	case []float64:
		return toAnys(v)
	case []string:
		return toAnys(v)
	case []complex128:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = strconv.FormatComplex(x, 'g', -1, 128)
		}
		return out
	}
	return nil
}

func nest(flat []any, shape []int) []any {
	if len(shape) == 1 {
		return flat
	}
	n := len(flat) / max(shape[0], 1)
	out := make([]any, shape[0])
	for i := range out {
		out[i] = nest(flat[i*n:(i+1)*n], shape[1:])
	}
	return out
}
