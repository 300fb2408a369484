package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/idsgo/internal/metadata"
	"github.com/roach88/idsgo/internal/testutil"
)

// TestAnalyzeCycles_Fixture tests that the fixture dictionary has no cycles.
func TestAnalyzeCycles_Fixture(t *testing.T) {
	assert.Empty(t, AnalyzeCycles(testutil.CoreProfiles(t)))
	assert.Empty(t, AnalyzeCycles(testutil.Wall(t)))
}

// TestAnalyzeCycles_OwnElement tests that an AoS indexed by its own time is not a loop.
func TestAnalyzeCycles_OwnElement(t *testing.T) {
	tree := build(t,
		node{"", metadata.NodeSpec{Name: "slice", DataType: "struct_array", Coordinates: []string{"slice(itime)/time"}}},
		node{"slice", metadata.NodeSpec{Name: "time", DataType: "FLT_0D"}},
	)
	assert.Empty(t, AnalyzeCycles(tree))
}

// TestAnalyzeCycles_SelfLoop tests detection of a node that is its own coordinate.
func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	tree := build(t,
		node{"", metadata.NodeSpec{Name: "time", DataType: "FLT_1D", Coordinates: []string{"time"}}},
	)

	warnings := AnalyzeCycles(tree)
	require.Len(t, warnings, 1)

	warning := warnings[0]
	assert.Equal(t, []string{"time", "time"}, warning.Path)
	assert.Equal(t, "time is its own coordinate", warning.Message)
	assert.Equal(t, "info", warning.Level)
}

// TestAnalyzeCycles_TwoNodeCycle tests detection of A → B → A.
func TestAnalyzeCycles_TwoNodeCycle(t *testing.T) {
	tree := build(t,
		node{"", metadata.NodeSpec{Name: "r", DataType: "FLT_1D", Coordinates: []string{"z"}}},
		node{"", metadata.NodeSpec{Name: "z", DataType: "FLT_1D", Coordinates: []string{"r"}}},
	)

	warnings := AnalyzeCycles(tree)
	require.Len(t, warnings, 1)

	warning := warnings[0]
	assert.Equal(t, []string{"r", "z", "r"}, warning.Path)
	assert.Equal(t, "coordinate cycle: r → z → r", warning.Message)
	assert.Equal(t, "warning", warning.Level)
}

// TestAnalyzeCycles_ThreeNodeCycle tests detection of A → B → C → A with a tail.
func TestAnalyzeCycles_ThreeNodeCycle(t *testing.T) {
	tree := build(t,
		node{"", metadata.NodeSpec{Name: "grid", DataType: "structure"}},
		node{"grid", metadata.NodeSpec{Name: "a", DataType: "FLT_1D", Coordinates: []string{"grid/b"}}},
		node{"grid", metadata.NodeSpec{Name: "b", DataType: "FLT_1D", Coordinates: []string{"../grid/c"}}},
		node{"grid", metadata.NodeSpec{Name: "c", DataType: "FLT_1D", Coordinates: []string{"grid/a"}}},
		node{"", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"grid/a"}}},
	)

	warnings := AnalyzeCycles(tree)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"grid/a", "grid/b", "grid/c", "grid/a"}, warnings[0].Path)
}

// TestAnalyzeCycles_Alternatives tests that every alternative contributes an edge.
func TestAnalyzeCycles_Alternatives(t *testing.T) {
	tree := build(t,
		node{"", metadata.NodeSpec{Name: "r", DataType: "FLT_1D", Coordinates: []string{"rho OR 1...3"}}},
		node{"", metadata.NodeSpec{Name: "rho", DataType: "FLT_1D", Coordinates: []string{"length OR r"}}},
		node{"", metadata.NodeSpec{Name: "length", DataType: "FLT_1D"}},
	)

	warnings := AnalyzeCycles(tree)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"r", "rho", "r"}, warnings[0].Path)
}

// TestAnalyzeCycles_MissingTargets tests that dangling references are left to Validate.
func TestAnalyzeCycles_MissingTargets(t *testing.T) {
	tree := build(t,
		node{"", metadata.NodeSpec{Name: "flux", DataType: "FLT_1D", Coordinates: []string{"nowhere"}}},
	)
	assert.Empty(t, AnalyzeCycles(tree))
}

// TestTarjanSCC_DAG tests that a DAG yields only singleton components.
func TestTarjanSCC_DAG(t *testing.T) {
	graph := dependencyGraph{
		edges: map[string][]string{"a": {"b"}, "b": {"c"}, "c": {}},
		order: []string{"a", "b", "c"},
	}
	for _, scc := range tarjanSCC(graph) {
		assert.Len(t, scc, 1)
	}
}

// TestReconstructCyclePath_Empty tests the empty component.
func TestReconstructCyclePath_Empty(t *testing.T) {
	assert.Empty(t, reconstructCyclePath(nil, dependencyGraph{}))
}
