package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DataType is the element type of a Data Dictionary node.
type DataType int

const (
	// Structure is a container with a fixed set of named children.
	Structure DataType = iota + 1
	// StructArray is a resizable array of structures (AoS).
	StructArray
	// String is character data.
	String
	// Integer is 32-bit integer data.
	Integer
	// Float is 64-bit floating point data.
	Float
	// Complex is 128-bit complex data.
	Complex
)

var dataTypeNames = map[DataType]string{
	Structure:   "structure",
	StructArray: "struct_array",
	String:      "STR",
	Integer:     "INT",
	Float:       "FLT",
	Complex:     "CPX",
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// IsScalar reports whether values of this type carry numeric or string data.
func (t DataType) IsScalar() bool {
	switch t {
	case String, Integer, Float, Complex:
		return true
	}
	return false
}

// IsContainer reports whether the type is a structure or array of structures.
func (t DataType) IsContainer() bool {
	return t == Structure || t == StructArray
}

// MaxDimensions is the highest dimensionality the Data Dictionary declares.
const MaxDimensions = 6

// ParseDataType parses a Data Dictionary type string.
//
//	ParseDataType("STR_1D")       // String, 1
//	ParseDataType("struct_array") // StructArray, 1
//	ParseDataType("structure")    // Structure, 0
//	ParseDataType("CPX_5D")       // Complex, 5
//	ParseDataType("flt_1d_type")  // Float, 1 (legacy spelling)
//	ParseDataType("int_type")     // Integer, 0 (legacy spelling)
func ParseDataType(s string) (DataType, int, error) {
	switch s {
	case "structure":
		return Structure, 0, nil
	case "struct_array":
		return StructArray, 1, nil
	}

	parts := strings.Split(strings.ToUpper(s), "_")
	var dt DataType
	switch parts[0] {
	case "STR":
		dt = String
	case "INT":
		dt = Integer
	case "FLT":
		dt = Float
	case "CPX":
		dt = Complex
	default:
		return 0, 0, fmt.Errorf("unknown data type %q", s)
	}

	rest := parts[1:]
	if len(rest) == 1 && rest[0] == "TYPE" {
		return dt, 0, nil
	}
	if len(rest) == 0 || len(rest) > 2 || !strings.HasSuffix(rest[0], "D") {
		return 0, 0, fmt.Errorf("unknown data type %q", s)
	}
	if len(rest) == 2 && rest[1] != "TYPE" {
		return 0, 0, fmt.Errorf("unknown data type %q", s)
	}
	ndim, err := strconv.Atoi(strings.TrimSuffix(rest[0], "D"))
	if err != nil || ndim < 0 || ndim > MaxDimensions {
		return 0, 0, fmt.Errorf("unknown data type %q", s)
	}
	return dt, ndim, nil
}

// FormatDataType is the inverse of ParseDataType for non-legacy spellings.
func FormatDataType(t DataType, ndim int) string {
	if t.IsContainer() {
		return t.String()
	}
	return fmt.Sprintf("%s_%dD", t, ndim)
}

// Empty sentinels: the value of an unset 0-D quantity in a document.
const (
	EmptyInt   int32   = -999999999
	EmptyFloat float64 = -9e40
)

// EmptyComplex is the unset value of a 0-D complex quantity.
var EmptyComplex = complex(EmptyFloat, EmptyFloat)

// Fill values pad dense tensors where an instance has no data. They follow
// the netCDF default fill values and are part of the storage contract.
const (
	FillInt   int32   = -2147483647
	FillFloat float64 = 9.969209968386869e36
)

// FillComplex is the fill value for complex tensors.
var FillComplex = complex(FillFloat, FillFloat)

// ShapeKind is the element type of shape side-tables.
const ShapeKind = Integer

// IsEmptyFloat reports whether f is the empty float sentinel.
// NaN is never empty: it is a legitimate (if unusual) stored value.
func IsEmptyFloat(f float64) bool {
	return f == EmptyFloat
}

// IsFillFloat reports whether f is the float fill value.
func IsFillFloat(f float64) bool {
	return f == FillFloat || (math.IsNaN(f) && math.IsNaN(FillFloat))
}
