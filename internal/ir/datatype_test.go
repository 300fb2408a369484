package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		input string
		dt    DataType
		ndim  int
	}{
		{"STR_1D", String, 1},
		{"STR_0D", String, 0},
		{"INT_0D", Integer, 0},
		{"FLT_3D", Float, 3},
		{"CPX_5D", Complex, 5},
		{"structure", Structure, 0},
		{"struct_array", StructArray, 1},
		{"flt_1d_type", Float, 1},
		{"int_type", Integer, 0},
		{"str_type", String, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dt, ndim, err := ParseDataType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.dt, dt)
			assert.Equal(t, tt.ndim, ndim)
		})
	}
}

func TestParseDataTypeErrors(t *testing.T) {
	for _, input := range []string{"", "BOOL_0D", "FLT", "FLT_XD", "FLT_9D", "Structure"} {
		t.Run(input, func(t *testing.T) {
			_, _, err := ParseDataType(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unknown data type")
		})
	}
}

func TestFormatDataType(t *testing.T) {
	assert.Equal(t, "FLT_1D", FormatDataType(Float, 1))
	assert.Equal(t, "INT_0D", FormatDataType(Integer, 0))
	assert.Equal(t, "struct_array", FormatDataType(StructArray, 1))
}

func TestSentinelsDiffer(t *testing.T) {
	assert.NotEqual(t, EmptyInt, FillInt)
	assert.NotEqual(t, EmptyFloat, FillFloat)
	assert.True(t, IsEmptyFloat(-9e40))
	assert.True(t, IsFillFloat(FillFloat))
	assert.False(t, IsFillFloat(EmptyFloat))
}

func TestTimeMode(t *testing.T) {
	assert.True(t, TimeModeHomogeneous.Valid())
	assert.True(t, TimeModeHeterogeneous.Valid())
	assert.True(t, TimeModeIndependent.Valid())
	assert.False(t, TimeModeUnknown.Valid())
	assert.False(t, TimeMode(7).Valid())
	assert.Equal(t, "homogeneous", TimeModeHomogeneous.String())
}

func TestDDVersionCompare(t *testing.T) {
	assert.True(t, DDVersion("3.38.1").AtMost("3.38.1"))
	assert.True(t, DDVersion("3.38.1").AtMost("3.39.0"))
	assert.False(t, DDVersion("3.40.0").AtMost("3.38.1"))
	assert.True(t, DDVersion("3.9.0").AtMost("3.10.0"), "comparison must be numeric")
	assert.Equal(t, -1, DDVersion("garbage").Compare("3.38.1"))

	_, err := ParseDDVersion("not-a-version")
	require.Error(t, err)
	v, err := ParseDDVersion(" 4.0.0 ")
	require.NoError(t, err)
	assert.Equal(t, DDVersion("4.0.0"), v)
}
