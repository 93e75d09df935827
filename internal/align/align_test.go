package align

import (
	"testing"

	"github.com/A6721jpn/vexis/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func cube(origin r3.Vec, part string) *geometry.Mesh {
	nodes := []r3.Vec{
		{X: origin.X, Y: origin.Y, Z: origin.Z},
		{X: origin.X + 1, Y: origin.Y, Z: origin.Z},
		{X: origin.X + 1, Y: origin.Y + 1, Z: origin.Z},
		{X: origin.X, Y: origin.Y + 1, Z: origin.Z},
		{X: origin.X, Y: origin.Y, Z: origin.Z + 1},
		{X: origin.X + 1, Y: origin.Y, Z: origin.Z + 1},
		{X: origin.X + 1, Y: origin.Y + 1, Z: origin.Z + 1},
		{X: origin.X, Y: origin.Y + 1, Z: origin.Z + 1},
	}
	el := geometry.Element{Type: geometry.Hex8, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}, Part: part}
	return &geometry.Mesh{
		Nodes:    nodes,
		Elements: []geometry.Element{el},
		Parts:    map[string]geometry.PartRange{part: {Start: 0, End: 1}},
	}
}

func TestComputeAndApplyTranslatesOntoTemplateFrame(t *testing.T) {
	oldMesh := cube(r3.Vec{X: 5, Y: 5, Z: 5}, "Rubber")
	newMesh := cube(r3.Vec{X: 0, Y: 0, Z: 0}, "Rubber")

	off, err := Compute(oldMesh, newMesh, "Rubber")
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 5, Y: 5, Z: 5}, off.Delta)

	Apply(newMesh, off)
	assert.Equal(t, oldMesh.Nodes, newMesh.Nodes)
}

func TestComputeMissingReferencePart(t *testing.T) {
	oldMesh := cube(r3.Vec{}, "Rubber")
	newMesh := cube(r3.Vec{}, "Rubber")

	_, err := Compute(oldMesh, newMesh, "Ground")
	assert.Error(t, err)
}
