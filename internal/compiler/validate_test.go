package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/idsgo/internal/metadata"
	"github.com/roach88/idsgo/internal/testutil"
)

type node struct {
	parent string
	spec   metadata.NodeSpec
}

var timeMode = node{"ids_properties", metadata.NodeSpec{Name: "homogeneous_time", DataType: "INT_0D"}}

func build(t *testing.T, nodes ...node) *metadata.Tree {
	t.Helper()
	b, err := metadata.NewBuilder(testutil.DDVersion, metadata.NodeSpec{Name: "test"})
	require.NoError(t, err)
	_, err = b.Add("", metadata.NodeSpec{Name: "ids_properties", DataType: "structure"})
	require.NoError(t, err)
	for _, n := range nodes {
		_, err := b.Add(n.parent, n.spec)
		require.NoError(t, err)
	}
	tree, err := b.Build()
	require.NoError(t, err)
	return tree
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateFixture(t *testing.T) {
	assert.Empty(t, Validate(testutil.Dictionary(t)))
	assert.Empty(t, Validate(testutil.CoreProfiles(t)))
}

func TestValidateUnsupportedType(t *testing.T) {
	errs := Validate("core_profiles")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedType, errs[0].Code)
	assert.Contains(t, errs[0].Message, "string")
}

func TestValidateMissingTimeMode(t *testing.T) {
	tree := build(t)
	errs := Validate(tree)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrMissingTimeMode, errs[0].Code)
	assert.Equal(t, "test/ids_properties/homogeneous_time", errs[0].Field)

	tree = build(t, node{"ids_properties", metadata.NodeSpec{Name: "homogeneous_time", DataType: "FLT_0D"}})
	assert.Equal(t, []string{ErrMissingTimeMode}, codes(Validate(tree)))
}

func TestValidateMissingTimeBase(t *testing.T) {
	b, err := metadata.NewBuilder(testutil.DDVersion, metadata.NodeSpec{Name: "pulse", Lifecycle: "dynamic"})
	require.NoError(t, err)
	_, err = b.Add("", metadata.NodeSpec{Name: "ids_properties", DataType: "structure"})
	require.NoError(t, err)
	_, err = b.Add(timeMode.parent, timeMode.spec)
	require.NoError(t, err)
	tree, err := b.Build()
	require.NoError(t, err)

	errs := Validate(tree)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrMissingTimeBase, errs[0].Code)
	assert.Equal(t, "pulse/time", errs[0].Field)
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []node
		wantCodes []string
		wantField string
		wantMsg   string
	}{
		{
			name: "unknown reference",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"grid/r"}}},
			},
			wantCodes: []string{ErrCoordinateNotFound},
			wantField: "test/flux.coordinates[0]",
			wantMsg:   "coordinate grid/r: no such node",
		},
		{
			name: "structure reference",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "grid", DataType: "structure"}},
				{"", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"grid"}}},
			},
			wantCodes: []string{ErrCoordinateNotQuantity},
			wantMsg:   "is a structure",
		},
		{
			name: "scalar reference",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "r0", DataType: "FLT_0D"}},
				{"", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"r0"}}},
			},
			wantCodes: []string{ErrCoordinateNotQuantity},
			wantMsg:   "is a 0-D quantity",
		},
		{
			name: "own element time",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "slice", DataType: "struct_array", Coordinates: []string{"slice(itime)/time"}}},
				{"slice", metadata.NodeSpec{Name: "time", DataType: "FLT_0D"}},
			},
		},
		{
			name: "dummy outside tree",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "element", DataType: "struct_array"}},
				{"element", metadata.NodeSpec{Name: "x", DataType: "FLT_1D"}},
				{"", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"element(i1)/x"}}},
			},
			wantCodes: []string{ErrDummyIndexOutside},
			wantMsg:   "dummy index element(i1) is not bound by an ancestor of flux",
		},
		{
			name: "literal index outside tree",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "element", DataType: "struct_array"}},
				{"element", metadata.NodeSpec{Name: "x", DataType: "FLT_1D"}},
				{"", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"element(2)/x"}}},
			},
		},
		{
			name: "relative reference",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "grid", DataType: "structure"}},
				{"grid", metadata.NodeSpec{Name: "r", DataType: "FLT_1D"}},
				{"", metadata.NodeSpec{Name: "profile", DataType: "structure"}},
				{"profile", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"../grid/r"}}},
			},
		},
		{
			name: "relative reference above root",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"../../r"}}},
			},
			wantCodes: []string{ErrCoordinateNotFound},
		},
		{
			name: "every alternative checked",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "r", DataType: "FLT_1D"}},
				{"", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"r OR rho"}}},
			},
			wantCodes: []string{ErrCoordinateNotFound},
			wantMsg:   "coordinate rho",
		},
		{
			name: "same_as missing",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "b", DataType: "FLT_1D", CoordinatesSameAs: []string{"psi"}}},
			},
			wantCodes: []string{ErrSameAsInvalid},
			wantField: "test/b.coordinates_same_as[0]",
		},
		{
			name: "same_as too few dimensions",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "psi", DataType: "FLT_1D"}},
				{"", metadata.NodeSpec{Name: "b", DataType: "FLT_2D", CoordinatesSameAs: []string{"psi", "psi"}}},
			},
			wantCodes: []string{ErrSameAsInvalid},
			wantMsg:   "psi has 1 dimensions, dimension 2 is compared",
		},
		{
			name: "alternative not 1-D",
			nodes: []node{
				{"", metadata.NodeSpec{Name: "rho", DataType: "FLT_2D"}},
				{"", metadata.NodeSpec{Name: "r", DataType: "FLT_1D", AlternativeCoordinate1: []string{"rho", "missing"}}},
			},
			wantCodes: []string{ErrAlternativeInvalid, ErrAlternativeInvalid},
			wantField: "test/r.alternative_coordinate1[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := build(t, append([]node{timeMode}, tt.nodes...)...)
			errs := Validate(tree)
			if len(tt.wantCodes) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.wantCodes, codes(errs))
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, errs[0].Field)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, errs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	err := ValidationError{Field: "test/flux.coordinates[0]", Message: "coordinate r: no such node", Code: ErrCoordinateNotFound}
	assert.Equal(t, "[E110] test/flux.coordinates[0]: coordinate r: no such node", err.Error())
}
