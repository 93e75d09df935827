// Package align computes and applies the rigid translation that brings a
// freshly meshed geometry back into the coordinate frame the physics
// template was authored against (spec §4.4).
package align

import (
	"fmt"

	"github.com/A6721jpn/vexis/internal/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// Offset is the translation applied to the new mesh: new + Offset == old
// frame, measured at the reference part's minimum corner.
type Offset struct {
	Delta r3.Vec
}

// Compute derives the min-corner translation between the reference part's
// bounding box in the old (template-authored) mesh and the same part's
// bounding box in the freshly generated mesh. Alignment anchors on the
// minimum corner rather than the centroid: centroids drift with local mesh
// density changes between mesher runs, the minimum corner of a part
// bounded by machined/molded faces does not.
func Compute(oldMesh, newMesh *geometry.Mesh, referencePart string) (Offset, error) {
	if _, ok := oldMesh.Parts[referencePart]; !ok {
		return Offset{}, fmt.Errorf("align: reference part %q absent from template mesh", referencePart)
	}
	if _, ok := newMesh.Parts[referencePart]; !ok {
		return Offset{}, fmt.Errorf("align: reference part %q absent from generated mesh", referencePart)
	}

	oldBox := geometry.Bbox(oldMesh, referencePart)
	newBox := geometry.Bbox(newMesh, referencePart)

	return Offset{Delta: r3.Sub(oldBox.Min, newBox.Min)}, nil
}

// Apply translates every node of m in place by off.
func Apply(m *geometry.Mesh, off Offset) {
	m.Translate(off.Delta)
}
