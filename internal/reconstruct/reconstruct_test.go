package reconstruct

import (
	"testing"

	"github.com/A6721jpn/vexis/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// twoPartMesh builds a Rubber cube sitting directly on top of a Ground
// cube, sharing no nodes, so boundary faces and cross-part proximity both
// have something real to measure.
func twoPartMesh() *geometry.Mesh {
	rubberNodes := []r3.Vec{
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		{X: 0, Y: 0, Z: 2}, {X: 1, Y: 0, Z: 2}, {X: 1, Y: 1, Z: 2}, {X: 0, Y: 1, Z: 2},
	}
	groundNodes := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}

	nodes := append(append([]r3.Vec(nil), groundNodes...), rubberNodes...)
	elements := []geometry.Element{
		{Type: geometry.Hex8, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}, Part: "Ground", Index: 0},
		{Type: geometry.Hex8, Nodes: []int{8, 9, 10, 11, 12, 13, 14, 15}, Part: "Rubber", Index: 1},
	}
	parts := map[string]geometry.PartRange{
		"Ground": {Start: 0, End: 1},
		"Rubber": {Start: 1, End: 2},
	}
	return &geometry.Mesh{Nodes: nodes, Elements: elements, Parts: parts}
}

func defaultContext() Context {
	return Context{EpsAbs: 1e-6, NormalAngleDeg: 45, DefaultCrossPartDistance: 0.1}
}

func TestApplyZMinPlaneSelectsBottomNodes(t *testing.T) {
	mesh := twoPartMesh()
	rule := Rule{Kind: ZMinPlane, Part: "Ground"}
	sel, err := Apply(mesh, rule, NodeSetKind, defaultContext())
	require.NoError(t, err)
	assert.Len(t, sel.NodeIDs, 4)
	for _, id := range sel.NodeIDs {
		assert.InDelta(t, 0, mesh.Nodes[id].Z, 1e-9)
	}
}

func TestApplyCrossPartProximityFindsTouchingFaces(t *testing.T) {
	mesh := twoPartMesh()
	rule := Rule{Kind: CrossPartProximity, Part: "Rubber", OtherPart: "Ground", Distance: 0.01}
	sel, err := Apply(mesh, rule, SurfaceKind, defaultContext())
	require.NoError(t, err)
	require.Len(t, sel.Faces, 1)

	c := geometry.FaceCentroid(mesh, sel.Faces[0])
	assert.InDelta(t, 1, c.Z, 1e-9)
}

func TestApplyRelativeBoundsWholePartMatchesEverything(t *testing.T) {
	mesh := twoPartMesh()
	rule := Rule{Kind: RelativeBounds, Part: "Rubber", Box: Bounds6{FxHi: 1, FyHi: 1, FzHi: 1}}
	sel, err := Apply(mesh, rule, NodeSetKind, defaultContext())
	require.NoError(t, err)
	assert.Len(t, sel.NodeIDs, 8)
}

func TestApplyIntersectionNarrowsToSharedFaces(t *testing.T) {
	mesh := twoPartMesh()
	bottomHalf := Rule{Kind: RelativeBounds, Part: "Rubber", Box: Bounds6{FzHi: 0.5, FxHi: 1, FyHi: 1}}
	proximity := Rule{Kind: CrossPartProximity, Part: "Rubber", OtherPart: "Ground", Distance: 0.01}
	combo := Rule{Kind: Intersection, Part: "Rubber", Sub: []Rule{bottomHalf, proximity}}

	sel, err := Apply(mesh, combo, SurfaceKind, defaultContext())
	require.NoError(t, err)
	require.Len(t, sel.Faces, 1)
}

func TestReconstructFailsClosedWhenSelectionLost(t *testing.T) {
	mesh := twoPartMesh()
	ruleTable := map[string]Rule{
		// Fractions FzLo=FzHi=2 place the box at z=3, above Rubber's top
		// face (z=2), so this contrived box matches nothing.
		"GONE": {Kind: RelativeBounds, Part: "Rubber", Box: Bounds6{FzLo: 2, FzHi: 2, FxHi: 1, FyHi: 1}},
	}
	reqs := []Request{{Name: "GONE", Kind: SurfaceKind, OldNonEmpty: true}}

	_, err := Reconstruct(mesh, mesh, ruleTable, defaultContext(), reqs)
	require.Error(t, err)
	var lost *SelectionLostError
	assert.ErrorAs(t, err, &lost)
	assert.Equal(t, "GONE", lost.Name)
}

func TestReconstructUsesDefaultRuleForUnknownName(t *testing.T) {
	mesh := twoPartMesh()
	// The template selection referenced the top face's nodes (indices 12-15
	// in the combined node slice, z==2) of Rubber.
	oldIDs := []int{12, 13, 14, 15}
	reqs := []Request{{Name: "RUBBER_TOP", Kind: NodeSetKind, OldNonEmpty: true, OldIDs: oldIDs}}

	result, err := Reconstruct(mesh, mesh, nil, defaultContext(), reqs)
	require.NoError(t, err)

	sel := result.NodeSets["RUBBER_TOP"]
	assert.False(t, sel.Empty())
	for _, id := range sel.NodeIDs {
		assert.InDelta(t, 2, mesh.Nodes[id].Z, 1e-9)
	}
	assert.Equal(t, RelativeBounds, result.ResolvedRules["RUBBER_TOP"].Kind)
}

func TestEnforceContactPolicyRejectsSamePartCrossProximity(t *testing.T) {
	mesh := twoPartMesh()
	// Two surfaces of the single Rubber part: this is same-part, so both
	// must have used RelativeBounds.
	surfaces := map[string]Selection{
		"A": {Kind: SurfaceKind, Faces: []geometry.Face{{ElementIndex: 1, LocalFace: 0}}},
		"B": {Kind: SurfaceKind, Faces: []geometry.Face{{ElementIndex: 1, LocalFace: 1}}},
	}
	rules := map[string]Rule{
		"A": {Kind: RelativeBounds, Part: "Rubber"},
		"B": {Kind: CrossPartProximity, Part: "Rubber", OtherPart: "Ground"},
	}

	err := EnforceContactPolicy(mesh, "pair", "A", "B", surfaces, rules)
	require.Error(t, err)
	var policyErr *ContactPolicyError
	assert.ErrorAs(t, err, &policyErr)
}

func TestParseIDListConvertsToZeroBased(t *testing.T) {
	ids, err := ParseIDList("1, 2,3\n4")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, ids)
}
