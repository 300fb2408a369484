package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
)

// DDVersion is the Data Dictionary version of the test fixtures.
const DDVersion ir.DDVersion = "3.39.0"

// LegacyDDVersion predates the coordinate metadata fixes.
const LegacyDDVersion ir.DDVersion = "3.38.1"

type fixtureNode struct {
	parent string
	spec   metadata.NodeSpec
}

// coreProfiles is a reduced core_profiles IDS. It keeps one example of
// every coordinate rule the validator and codec distinguish.
var coreProfiles = []fixtureNode{
	{"", metadata.NodeSpec{Name: "ids_properties", DataType: "structure"}},
	{"ids_properties", metadata.NodeSpec{Name: "homogeneous_time", DataType: "INT_0D"}},
	{"ids_properties", metadata.NodeSpec{Name: "comment", DataType: "STR_0D"}},
	{"", metadata.NodeSpec{Name: "time", DataType: "FLT_1D", Coordinates: []string{"1...N"}, Units: "s", Lifecycle: "dynamic",
		Documentation: "Generic time"}},
	{"", metadata.NodeSpec{Name: "species", DataType: "STR_1D", Coordinates: []string{"1...N"}}},
	{"", metadata.NodeSpec{Name: "b_field", DataType: "FLT_1D", Coordinates: []string{"1...3"}, Units: "T"}},
	{"", metadata.NodeSpec{Name: "spectrum", DataType: "CPX_1D", Coordinates: []string{"1...N"}}},

	{"", metadata.NodeSpec{Name: "position", DataType: "structure"}},
	{"position", metadata.NodeSpec{Name: "r", DataType: "FLT_1D", Units: "m", AlternativeCoordinate1: []string{"position/rho"}}},
	{"position", metadata.NodeSpec{Name: "rho", DataType: "FLT_1D", Units: "-"}},
	{"position", metadata.NodeSpec{Name: "length", DataType: "FLT_1D", Units: "m"}},
	{"position", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"position/r"}, Units: "Wb"}},
	{"position", metadata.NodeSpec{Name: "flux_alt", DataType: "FLT_1D",
		Coordinates: []string{"position/r OR position/rho"}, Units: "Wb"}},
	{"position", metadata.NodeSpec{Name: "power", DataType: "FLT_1D",
		Coordinates: []string{"position/length OR 1...1"}, Units: "W"}},

	{"", metadata.NodeSpec{Name: "global_quantities", DataType: "structure"}},
	{"global_quantities", metadata.NodeSpec{Name: "ip", DataType: "FLT_1D", Coordinates: []string{"time"}, Units: "A",
		Lifecycle: "dynamic", Documentation: "Plasma current"}},
	{"global_quantities", metadata.NodeSpec{Name: "beta_pol", DataType: "FLT_0D", Lifecycle: "dynamic"}},

	{"", metadata.NodeSpec{Name: "profiles_1d", DataType: "struct_array", Coordinates: []string{"profiles_1d(itime)/time"},
		Lifecycle: "dynamic", Documentation: "Core plasma radial profiles"}},
	{"profiles_1d", metadata.NodeSpec{Name: "grid", DataType: "structure"}},
	{"profiles_1d/grid", metadata.NodeSpec{Name: "rho_tor_norm", DataType: "FLT_1D", Units: "-"}},
	{"profiles_1d/grid", metadata.NodeSpec{Name: "psi", DataType: "FLT_1D",
		Coordinates: []string{"profiles_1d(itime)/grid/rho_tor_norm"}, Units: "Wb"}},
	{"profiles_1d", metadata.NodeSpec{Name: "q", DataType: "FLT_1D",
		Coordinates: []string{"profiles_1d(itime)/grid/rho_tor_norm"}}},
	{"profiles_1d", metadata.NodeSpec{Name: "ion", DataType: "struct_array"}},
	{"profiles_1d/ion", metadata.NodeSpec{Name: "label", DataType: "STR_0D"}},
	{"profiles_1d/ion", metadata.NodeSpec{Name: "z_ion", DataType: "FLT_0D", Units: "e"}},
	{"profiles_1d/ion", metadata.NodeSpec{Name: "density", DataType: "FLT_1D",
		Coordinates: []string{"profiles_1d(itime)/grid/rho_tor_norm"}, Units: "m^-3"}},
	{"profiles_1d/ion", metadata.NodeSpec{Name: "state_index", DataType: "INT_1D"}},
	{"profiles_1d", metadata.NodeSpec{Name: "time", DataType: "FLT_0D", Units: "s", Lifecycle: "dynamic"}},

	{"", metadata.NodeSpec{Name: "profiles_2d", DataType: "struct_array", Coordinates: []string{"profiles_2d(itime)/time"},
		Lifecycle: "dynamic"}},
	{"profiles_2d", metadata.NodeSpec{Name: "r", DataType: "FLT_1D", Units: "m"}},
	{"profiles_2d", metadata.NodeSpec{Name: "z", DataType: "FLT_1D", Units: "m"}},
	{"profiles_2d", metadata.NodeSpec{Name: "psi", DataType: "FLT_2D",
		Coordinates: []string{"profiles_2d(itime)/r", "profiles_2d(itime)/z"}, Units: "Wb"}},
	{"profiles_2d", metadata.NodeSpec{Name: "b_r", DataType: "FLT_2D",
		CoordinatesSameAs: []string{"profiles_2d(itime)/psi", "profiles_2d(itime)/psi"}, Units: "T"}},
	{"profiles_2d", metadata.NodeSpec{Name: "time", DataType: "FLT_0D", Units: "s", Lifecycle: "dynamic"}},

	{"", metadata.NodeSpec{Name: "code", DataType: "structure"}},
	{"code", metadata.NodeSpec{Name: "name", DataType: "STR_0D"}},
	{"code", metadata.NodeSpec{Name: "output_flag", DataType: "INT_1D", Coordinates: []string{"time"}, Lifecycle: "dynamic"}},
}

// wall is a constant IDS.
var wall = []fixtureNode{
	{"", metadata.NodeSpec{Name: "ids_properties", DataType: "structure"}},
	{"ids_properties", metadata.NodeSpec{Name: "homogeneous_time", DataType: "INT_0D"}},
	{"", metadata.NodeSpec{Name: "time", DataType: "FLT_1D", Lifecycle: "dynamic"}},
	{"", metadata.NodeSpec{Name: "first_wall_surface_area", DataType: "FLT_0D", Units: "m^2"}},
}

func buildTree(version ir.DDVersion, root metadata.NodeSpec, nodes []fixtureNode) (*metadata.Tree, error) {
	b, err := metadata.NewBuilder(version, root)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if _, err := b.Add(n.parent, n.spec); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// CoreProfiles returns the core_profiles fixture tree at DDVersion.
func CoreProfiles(t testing.TB) *metadata.Tree {
	return CoreProfilesAt(t, DDVersion)
}

// CoreProfilesAt returns the core_profiles fixture tree at the given version.
func CoreProfilesAt(t testing.TB, version ir.DDVersion) *metadata.Tree {
	t.Helper()
	tree, err := buildTree(version, metadata.NodeSpec{
		Name: "core_profiles", Lifecycle: "dynamic", Documentation: "Core plasma profiles",
	}, coreProfiles)
	require.NoError(t, err)
	return tree
}

// Wall returns the constant wall fixture tree at DDVersion.
func Wall(t testing.TB) *metadata.Tree {
	t.Helper()
	tree, err := buildTree(DDVersion, metadata.NodeSpec{Name: "wall", Lifecycle: "constant"}, wall)
	require.NoError(t, err)
	return tree
}

// Dictionary returns both fixture trees at DDVersion.
func Dictionary(t testing.TB) *metadata.Dictionary {
	t.Helper()
	d, err := metadata.NewDictionary(DDVersion, CoreProfiles(t), Wall(t))
	require.NoError(t, err)
	return d
}
