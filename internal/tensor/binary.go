package tensor

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/roach88/idsgo/internal/ir"
)

// MarshalBinary encodes the elements of t in row-major, little-endian
// order. Strings are length-prefixed with a uvarint. The shape is not
// included.
func MarshalBinary(t Tensor) []byte {
	switch v := t.Values().(type) {
	case []int32:
		out := make([]byte, 0, 4*len(v))
		for _, x := range v {
			out = binary.LittleEndian.AppendUint32(out, uint32(x))
		}
		return out
	case []float64:
		out := make([]byte, 0, 8*len(v))
		for _, x := range v {
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(x))
		}
		return out
	case []complex128:
		out := make([]byte, 0, 16*len(v))
		for _, x := range v {
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(real(x)))
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(imag(x)))
		}
		return out
	case []string:
		var out []byte
		for _, x := range v {
			out = binary.AppendUvarint(out, uint64(len(x)))
			out = append(out, x...)
		}
		return out
	}
	return nil
}

// UnmarshalBinary decodes data written by MarshalBinary.
func UnmarshalBinary(kind ir.DataType, shape []int, data []byte) (Tensor, error) {
	n := sizeOf(shape)
	width := map[ir.DataType]int{ir.Integer: 4, ir.Float: 8, ir.Complex: 16}[kind]
	if width > 0 && len(data) != n*width {
		return nil, fmt.Errorf("%s payload of %d bytes does not hold %d elements", kind, len(data), n)
	}

	switch kind {
	case ir.Integer:
		values := make([]int32, n)
		for i := range values {
			values[i] = int32(binary.LittleEndian.Uint32(data[4*i:]))
		}
		return FromSlice(values, shape...)
	case ir.Float:
		values := make([]float64, n)
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
		}
		return FromSlice(values, shape...)
	case ir.Complex:
		values := make([]complex128, n)
		for i := range values {
			re := math.Float64frombits(binary.LittleEndian.Uint64(data[16*i:]))
			im := math.Float64frombits(binary.LittleEndian.Uint64(data[16*i+8:]))
			values[i] = complex(re, im)
		}
		return FromSlice(values, shape...)
	case ir.String:
		values := make([]string, n)
		for i := range values {
			length, k := binary.Uvarint(data)
			if k <= 0 || uint64(len(data)-k) < length {
				return nil, fmt.Errorf("truncated string payload at element %d", i)
			}
			values[i] = string(data[k : k+int(length)])
			data = data[k+int(length):]
		}
		if len(data) != 0 {
			return nil, fmt.Errorf("%d trailing bytes in string payload", len(data))
		}
		return FromSlice(values, shape...)
	}
	return nil, fmt.Errorf("no tensor representation for %s", kind)
}
