package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/tensor"
)

// marshalStrings converts a string list to canonical JSON TEXT for storage.
func marshalStrings(values []string) (string, error) {
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal strings: %w", err)
	}
	return string(data), nil
}

// marshalAttrs converts attributes to canonical JSON TEXT for storage.
func marshalAttrs(attrs map[string]string) (string, error) {
	obj := make(map[string]any, len(attrs))
	for k, v := range attrs {
		obj[k] = v
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal attrs: %w", err)
	}
	return string(data), nil
}

// marshalShape converts a tensor shape to canonical JSON TEXT for storage.
func marshalShape(shape []int) (string, error) {
	list := make([]any, len(shape))
	for i, n := range shape {
		list[i] = n
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal shape: %w", err)
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal strings: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func unmarshalAttrs(data string) (map[string]string, error) {
	out := map[string]string{}
	if data == "" || data == "{}" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal attrs: %w", err)
	}
	return out, nil
}

func unmarshalShape(data string) ([]int, error) {
	var out []int
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal shape: %w", err)
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}

var kinds = []ir.DataType{ir.Structure, ir.StructArray, ir.String, ir.Integer, ir.Float, ir.Complex}

// parseKind inverts ir.DataType.String.
func parseKind(s string) (ir.DataType, error) {
	for _, k := range kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown variable kind %q", s)
}

// variableHash hashes v's description and payload. Containers hash an
// empty payload.
func variableHash(v *tensor.Variable) (string, []byte, error) {
	var payload []byte
	if v.Data != nil {
		payload = tensor.MarshalBinary(v.Data)
	}
	h, err := ir.VariableHash(v.Describe(), payload)
	if err != nil {
		return "", nil, fmt.Errorf("variable %q: %w", v.Name, err)
	}
	return h, payload, nil
}
