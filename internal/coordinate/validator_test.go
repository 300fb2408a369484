package coordinate

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
	"github.com/roach88/idsgo/internal/testutil"
)

func newDoc(t *testing.T, tree *metadata.Tree, data map[string]any) *ids.IDS {
	t.Helper()
	doc, err := ids.New(tree)
	require.NoError(t, err)
	require.NoError(t, ids.Fill(doc.Root(), data))
	return doc
}

func coreProfiles(t *testing.T, data map[string]any) *ids.IDS {
	t.Helper()
	return newDoc(t, testutil.CoreProfiles(t), data)
}

func homogeneous(data map[string]any) map[string]any {
	data["ids_properties"] = map[string]any{"homogeneous_time": int(ir.TimeModeHomogeneous)}
	return data
}

func heterogeneous(data map[string]any) map[string]any {
	data["ids_properties"] = map[string]any{"homogeneous_time": int(ir.TimeModeHeterogeneous)}
	return data
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		// msg is the exact error message; empty means the document is valid.
		msg string
	}{
		{
			name: "empty homogeneous document",
			data: homogeneous(map[string]any{}),
		},
		{
			name: "time coordinate matches",
			data: homogeneous(map[string]any{
				"time":              []any{0.0, 1.0, 2.0},
				"global_quantities": map[string]any{"ip": []any{1.0, 2.0, 3.0}},
			}),
		},
		{
			name: "time coordinate mismatch",
			data: homogeneous(map[string]any{
				"time":              []any{0.0, 1.0, 2.0},
				"global_quantities": map[string]any{"ip": []any{1.0, 2.0}},
			}),
			msg: `dimension 1 of element "global_quantities/ip" has incorrect size 2: expected size 3 (size of coordinate time)`,
		},
		{
			name: "time coordinate unset",
			data: homogeneous(map[string]any{
				"code": map[string]any{"output_flag": []any{1}},
			}),
			msg: `dimension 1 of element "code/output_flag" has incorrect size 1: expected size 0 (size of coordinate time)`,
		},
		{
			name: "homogeneous array of structures uses the root time",
			data: homogeneous(map[string]any{
				"time": []any{0.0},
				"profiles_1d": []any{
					map[string]any{"time": 0.0},
					map[string]any{"time": 1.0},
				},
			}),
			msg: `dimension 1 of element "profiles_1d" has incorrect size 2: expected size 1 (size of coordinate time)`,
		},
		{
			name: "heterogeneous array of structures uses its own time",
			data: heterogeneous(map[string]any{
				"time": []any{0.0},
				"profiles_1d": []any{
					map[string]any{"time": 0.0},
					map[string]any{"time": 1.0},
				},
			}),
		},
		{
			name: "heterogeneous array of structures with an unset time",
			data: heterogeneous(map[string]any{
				"profiles_1d": []any{
					map[string]any{"time": 0.0},
					map[string]any{},
				},
			}),
			msg: `coordinate "profiles_1d[1]/time" of element "profiles_1d" is empty`,
		},
		{
			name: "fixed size",
			data: homogeneous(map[string]any{"b_field": []any{1.0, 2.0, 3.0}}),
		},
		{
			name: "fixed size mismatch",
			data: homogeneous(map[string]any{"b_field": []any{1.0, 2.0}}),
			msg:  `dimension 1 of element "b_field" has incorrect size 2: expected size 3`,
		},
		{
			name: "index coordinate accepts any size",
			data: homogeneous(map[string]any{"species": []any{"D", "T", "He"}}),
		},
		{
			name: "single reference",
			data: homogeneous(map[string]any{
				"position": map[string]any{"r": []any{1.0, 2.0}, "flux": []any{1.0, 2.0}},
			}),
		},
		{
			name: "single reference mismatch",
			data: homogeneous(map[string]any{
				"position": map[string]any{"r": []any{1.0, 2.0}, "flux": []any{1.0}},
			}),
			msg: `dimension 1 of element "position/flux" has incorrect size 1: expected size 2 (size of coordinate position/r)`,
		},
		{
			name: "alternative coordinate of the coordinate",
			data: homogeneous(map[string]any{
				"position": map[string]any{"rho": []any{1.0, 2.0, 3.0}, "flux": []any{1.0, 2.0, 3.0}},
			}),
		},
		{
			name: "alternative coordinate of the coordinate mismatch",
			data: homogeneous(map[string]any{
				"position": map[string]any{"rho": []any{1.0, 2.0, 3.0}, "flux": []any{1.0, 2.0}},
			}),
			msg: `dimension 1 of element "position/flux" has incorrect size 2: expected size 3 (size of coordinate position/rho)`,
		},
		{
			name: "coordinate and its alternative both unset",
			data: homogeneous(map[string]any{
				"position": map[string]any{"flux": []any{1.0}},
			}),
			msg: `dimension 1 of element "position/flux" has incorrect size 1: expected size 0 (size of coordinate position/r)`,
		},
		{
			name: "one of two alternatives",
			data: homogeneous(map[string]any{
				"position": map[string]any{"rho": []any{1.0, 2.0}, "flux_alt": []any{1.0, 2.0}},
			}),
		},
		{
			name: "no alternative set",
			data: homogeneous(map[string]any{
				"position": map[string]any{"flux_alt": []any{1.0}},
			}),
			msg: `dimension 1 of element "position/flux_alt" must have exactly one of its coordinates (position/r, position/rho) set, but none are set`,
		},
		{
			name: "alternatives with different sizes",
			data: homogeneous(map[string]any{
				"position": map[string]any{
					"r":        []any{1.0, 2.0},
					"rho":      []any{1.0, 2.0, 3.0},
					"flux_alt": []any{1.0, 2.0},
				},
			}),
			msg: "dimension 1 of element \"position/flux_alt\" has multiple alternative coordinates set, " +
				"but they don't have matching sizes:\n    position/r has size 2\n    position/rho has size 3",
		},
		{
			name: "alternatives with equal sizes",
			data: homogeneous(map[string]any{
				"position": map[string]any{
					"r":        []any{1.0, 2.0},
					"rho":      []any{1.0, 2.0},
					"flux_alt": []any{1.0, 2.0},
				},
			}),
		},
		{
			name: "fixed size alternative",
			data: homogeneous(map[string]any{
				"position": map[string]any{"power": []any{1.0}},
			}),
		},
		{
			name: "fixed size alternative mismatch",
			data: homogeneous(map[string]any{
				"position": map[string]any{"power": []any{1.0, 2.0}},
			}),
			msg: `dimension 1 of element "position/power" has incorrect size 2: expected size 1`,
		},
		{
			name: "quantity alternative of a fixed size",
			data: homogeneous(map[string]any{
				"position": map[string]any{"length": []any{1.0, 2.0}, "power": []any{1.0, 2.0}},
			}),
		},
		{
			name: "nested arrays report their elements",
			data: homogeneous(map[string]any{
				"time": []any{0.0, 1.0},
				"profiles_1d": []any{
					map[string]any{"time": 0.0},
					map[string]any{
						"time": 1.0,
						"grid": map[string]any{"rho_tor_norm": []any{0.0, 0.5, 1.0}},
						"ion": []any{
							map[string]any{"density": []any{1.0, 2.0}},
						},
					},
				},
			}),
			msg: `dimension 1 of element "profiles_1d/ion/density" has incorrect size 2: expected size 3 ` +
				`(size of coordinate profiles_1d/grid/rho_tor_norm) in element 1 of profiles_1d, element 0 of profiles_1d/ion`,
		},
		{
			name: "same as",
			data: homogeneous(map[string]any{
				"time": []any{0.0},
				"profiles_2d": []any{map[string]any{
					"r":   []any{1.0, 2.0},
					"z":   []any{1.0, 2.0, 3.0},
					"psi": []any{[]any{1.0, 2.0, 3.0}, []any{4.0, 5.0, 6.0}},
					"b_r": []any{[]any{1.0, 2.0, 3.0}, []any{4.0, 5.0, 6.0}},
				}},
			}),
		},
		{
			name: "same as mismatch",
			data: homogeneous(map[string]any{
				"time": []any{0.0},
				"profiles_2d": []any{map[string]any{
					"r":   []any{1.0, 2.0},
					"z":   []any{1.0, 2.0, 3.0},
					"psi": []any{[]any{1.0, 2.0, 3.0}, []any{4.0, 5.0, 6.0}},
					"b_r": []any{[]any{1.0, 2.0}, []any{3.0, 4.0}},
				}},
			}),
			msg: `dimension 2 of element "profiles_2d/b_r" has incorrect size 2: expected size 3 ` +
				`(size of coordinate profiles_2d/psi) in element 0 of profiles_2d`,
		},
		{
			name: "two dimensional coordinates",
			data: homogeneous(map[string]any{
				"time": []any{0.0},
				"profiles_2d": []any{map[string]any{
					"r":   []any{1.0, 2.0},
					"z":   []any{1.0},
					"psi": []any{[]any{1.0, 2.0}, []any{3.0, 4.0}},
				}},
			}),
			msg: `dimension 2 of element "profiles_2d/psi" has incorrect size 2: expected size 1 ` +
				`(size of coordinate profiles_2d/z) in element 0 of profiles_2d`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := coreProfiles(t, tt.data)
			err := Validate(doc)
			if tt.msg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %T: %v", err, err)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestValidateSizeErrorFields(t *testing.T) {
	doc := coreProfiles(t, homogeneous(map[string]any{
		"time": []any{0.0, 1.0},
		"profiles_1d": []any{
			map[string]any{"time": 0.0},
			map[string]any{
				"time": 1.0,
				"grid": map[string]any{"rho_tor_norm": []any{0.0, 1.0}},
				"q":    []any{1.0, 2.0, 3.0},
			},
		},
	}))

	err := Validate(doc)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, &ValidationError{
		Path:       "profiles_1d/q",
		Dim:        0,
		Actual:     3,
		Expected:   2,
		Coordinate: "profiles_1d/grid/rho_tor_norm",
		AoS:        []Position{{Path: "profiles_1d", Index: 1}},
	}, ve)
}

func TestValidateTimeMode(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		doc := coreProfiles(t, map[string]any{"time": []any{0.0}})
		err := Validate(doc)
		require.Error(t, err)
		assert.Equal(t, "invalid value for ids_properties/homogeneous_time: -999999999", err.Error())
	})

	t.Run("out of range", func(t *testing.T) {
		doc := coreProfiles(t, map[string]any{"ids_properties": map[string]any{"homogeneous_time": 7}})
		err := Validate(doc)
		require.Error(t, err)
		assert.Equal(t, "invalid value for ids_properties/homogeneous_time: 7", err.Error())
	})

	t.Run("independent forbids dynamic data", func(t *testing.T) {
		doc := coreProfiles(t, map[string]any{
			"ids_properties":    map[string]any{"homogeneous_time": int(ir.TimeModeIndependent)},
			"global_quantities": map[string]any{"beta_pol": 0.5},
		})
		err := Validate(doc)
		require.Error(t, err)
		assert.Equal(t, `dynamic element "global_quantities/beta_pol" is not allowed in independent time mode`, err.Error())
	})

	t.Run("independent with static data", func(t *testing.T) {
		doc := coreProfiles(t, map[string]any{
			"ids_properties": map[string]any{"homogeneous_time": int(ir.TimeModeIndependent)},
			"b_field":        []any{1.0, 2.0, 3.0},
		})
		require.NoError(t, Validate(doc))
	})

	t.Run("constant IDS must be independent", func(t *testing.T) {
		doc := newDoc(t, testutil.Wall(t), map[string]any{
			"ids_properties": map[string]any{"homogeneous_time": int(ir.TimeModeHomogeneous)},
		})
		err := Validate(doc)
		require.Error(t, err)
		assert.Equal(t, "invalid value for ids_properties/homogeneous_time: 1: "+
			"the IDS is constant, therefore it must be 2 (independent)", err.Error())
	})

	t.Run("constant IDS", func(t *testing.T) {
		doc := newDoc(t, testutil.Wall(t), map[string]any{
			"ids_properties":          map[string]any{"homogeneous_time": int(ir.TimeModeIndependent)},
			"first_wall_surface_area": 12.5,
		})
		require.NoError(t, Validate(doc))
	})

	t.Run("constant IDS with time", func(t *testing.T) {
		doc := newDoc(t, testutil.Wall(t), map[string]any{
			"ids_properties": map[string]any{"homogeneous_time": int(ir.TimeModeIndependent)},
			"time":           []any{0.0},
		})
		err := Validate(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `dynamic element "time"`)
	})
}

func TestValidateTieBreak(t *testing.T) {
	data := homogeneous(map[string]any{
		"position": map[string]any{
			"r":        []any{1.0, 2.0},
			"rho":      []any{3.0, 4.0},
			"flux_alt": []any{1.0, 2.0},
		},
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	require.NoError(t, Validate(coreProfiles(t, data), WithLogger(logger)))
	assert.Contains(t, buf.String(), "multiple alternative coordinates are set")
	assert.Contains(t, buf.String(), "coordinate=position/r")

	err := Validate(coreProfiles(t, data), WithTieBreak(TieBreakReject))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.True(t, IsLookupKind(err, KindAlternatives))
	assert.Contains(t, err.Error(), "but 2 are set")
}

// legacyTree has coordinate metadata that cannot be resolved.
func legacyTree(t *testing.T, version ir.DDVersion) *metadata.Tree {
	t.Helper()
	b, err := metadata.NewBuilder(version, metadata.NodeSpec{Name: "legacy", Lifecycle: "dynamic"})
	require.NoError(t, err)
	for _, n := range []struct {
		parent string
		spec   metadata.NodeSpec
	}{
		{"", metadata.NodeSpec{Name: "ids_properties", DataType: "structure"}},
		{"ids_properties", metadata.NodeSpec{Name: "homogeneous_time", DataType: "INT_0D"}},
		{"", metadata.NodeSpec{Name: "grid", DataType: "structure"}},
		{"grid", metadata.NodeSpec{Name: "dim1", DataType: "FLT_1D"}},
		{"", metadata.NodeSpec{Name: "on_structure", DataType: "FLT_1D", Coordinates: []string{"grid"}}},
		{"", metadata.NodeSpec{Name: "on_missing", DataType: "FLT_1D", Coordinates: []string{"grid/dim9"}}},
		{"", metadata.NodeSpec{Name: "scalar", DataType: "FLT_0D"}},
		{"", metadata.NodeSpec{Name: "on_scalar", DataType: "FLT_1D", Coordinates: []string{"scalar"}}},
		{"", metadata.NodeSpec{Name: "element", DataType: "struct_array"}},
		{"element", metadata.NodeSpec{Name: "x", DataType: "FLT_1D"}},
		{"", metadata.NodeSpec{Name: "outside", DataType: "FLT_1D", Coordinates: []string{"element(i1)/x"}}},
		{"", metadata.NodeSpec{Name: "first", DataType: "FLT_1D", Coordinates: []string{"element(2)/x"}}},
	} {
		_, err := b.Add(n.parent, n.spec)
		require.NoError(t, err)
	}
	tree, err := b.Build()
	require.NoError(t, err)
	return tree
}

// legacyQuirks covers the nodes of legacyTree with unresolvable coordinates.
var legacyQuirks = Quirks{
	{MaxVersion: testutil.LegacyDDVersion, IDS: "legacy", Path: "on_structure",
		Kinds: []LookupKind{KindNotQuantity}, Reason: "points at a structure"},
	{MaxVersion: testutil.LegacyDDVersion, IDS: "legacy", Path: "on_scalar",
		Kinds: []LookupKind{KindNotQuantity}, Reason: "points at a scalar"},
	{MaxVersion: testutil.LegacyDDVersion, IDS: "legacy", Path: "on_missing",
		Kinds: []LookupKind{KindNotFound}, Reason: "points at an undefined node"},
}

func TestValidateQuirks(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		version ir.DDVersion
		kind    LookupKind
	}{
		{"structure in legacy release", "on_structure", testutil.LegacyDDVersion, ""},
		{"structure in fixed release", "on_structure", testutil.DDVersion, KindNotQuantity},
		{"scalar in legacy release", "on_scalar", testutil.LegacyDDVersion, ""},
		{"scalar in fixed release", "on_scalar", testutil.DDVersion, KindNotQuantity},
		{"missing node in legacy release", "on_missing", testutil.LegacyDDVersion, ""},
		{"missing node in fixed release", "on_missing", testutil.DDVersion, KindNotFound},
		{"outside the tree", "outside", testutil.DDVersion, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(t, legacyTree(t, tt.version), homogeneous(map[string]any{
				tt.field: []any{1.0, 2.0},
			}))
			err := Validate(doc, WithQuirks(legacyQuirks))
			if tt.kind == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %T: %v", err, err)
			assert.True(t, IsLookupKind(err, tt.kind), "got %v", err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Path)
			assert.Equal(t, 0, ve.Dim)
		})
	}

	t.Run("empty table", func(t *testing.T) {
		doc := newDoc(t, legacyTree(t, testutil.LegacyDDVersion), homogeneous(map[string]any{
			"on_structure": []any{1.0},
		}))
		err := Validate(doc, WithQuirks(nil))
		assert.True(t, IsValidationError(err))
		assert.True(t, IsLookupKind(err, KindNotQuantity))
	})

	t.Run("default table does not cover other nodes", func(t *testing.T) {
		doc := newDoc(t, legacyTree(t, testutil.LegacyDDVersion), homogeneous(map[string]any{
			"on_missing": []any{1.0},
		}))
		err := Validate(doc)
		assert.True(t, IsValidationError(err))
		assert.True(t, IsLookupKind(err, KindNotFound))
	})

	t.Run("lookup failure inside an array of structures", func(t *testing.T) {
		b, err := metadata.NewBuilder(testutil.DDVersion, metadata.NodeSpec{Name: "legacy", Lifecycle: "dynamic"})
		require.NoError(t, err)
		for _, n := range []struct {
			parent string
			spec   metadata.NodeSpec
		}{
			{"", metadata.NodeSpec{Name: "ids_properties", DataType: "structure"}},
			{"ids_properties", metadata.NodeSpec{Name: "homogeneous_time", DataType: "INT_0D"}},
			{"", metadata.NodeSpec{Name: "element", DataType: "struct_array"}},
			{"element", metadata.NodeSpec{Name: "y", DataType: "FLT_1D", Coordinates: []string{"element(i1)/nowhere"}}},
		} {
			_, err := b.Add(n.parent, n.spec)
			require.NoError(t, err)
		}
		tree, err := b.Build()
		require.NoError(t, err)

		doc := newDoc(t, tree, homogeneous(map[string]any{
			"element": []any{map[string]any{"y": []any{1.0}}},
		}))
		err = Validate(doc)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "element/y", ve.Path)
		require.Len(t, ve.AoS, 1)
		assert.Equal(t, 0, ve.AoS[0].Index)
		assert.True(t, IsLookupKind(err, KindNotFound))
	})
}

func TestValidateInvalidIndex(t *testing.T) {
	doc := newDoc(t, legacyTree(t, testutil.DDVersion), homogeneous(map[string]any{
		"element": []any{map[string]any{"x": []any{1.0}}},
		"first":   []any{1.0},
	}))
	err := Validate(doc)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.True(t, IsLookupKind(err, KindInvalidIndex))
	assert.Equal(t, `dimension 1 of element "first" has an invalid index provided for coordinate element(2)/x`, err.Error())
}
