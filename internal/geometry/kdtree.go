package geometry

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r3"
)

// FaceIndex is a spatial index over a fixed set of faces, built once per
// query set (spec §4.1: "via a point/KD-tree built once per query set").
// It is backed by an R-tree (github.com/dhconnelly/rtreego), the teacher's
// own spatial-index dependency.
type FaceIndex struct {
	tree  *rtreego.Rtree
	faces []Face
}

// facePoint wraps a face's centroid as a degenerate (zero-volume) spatial
// object so it can be inserted into an rtreego.Rtree.
type facePoint struct {
	loc  r3.Vec
	face Face
}

func (p *facePoint) Bounds() rtreego.Rect {
	pt := rtreego.Point{p.loc.X, p.loc.Y, p.loc.Z}
	rect, err := rtreego.NewRect(pt, []float64{1e-9, 1e-9, 1e-9})
	if err != nil {
		// Degenerate point; rtreego requires strictly positive side
		// lengths, so we always pass a tiny epsilon box above and this
		// path is unreachable in practice.
		panic(err)
	}
	return rect
}

// NewFaceIndex builds a spatial index over the centroids of faces.
func NewFaceIndex(m *Mesh, faces []Face) *FaceIndex {
	tree := rtreego.NewTree(3, 4, 16)
	idx := &FaceIndex{tree: tree, faces: faces}
	for _, f := range faces {
		tree.Insert(&facePoint{loc: FaceCentroid(m, f), face: f})
	}
	return idx
}

// NearestFaceDistance returns the shortest centroid-to-centroid distance
// from f to any face in the index, via the index's underlying R-tree.
func NearestFaceDistance(m *Mesh, idx *FaceIndex, f Face) float64 {
	if len(idx.faces) == 0 {
		return math.Inf(1)
	}
	loc := FaceCentroid(m, f)
	pt := rtreego.Point{loc.X, loc.Y, loc.Z}
	nearest := idx.tree.NearestNeighbor(pt)
	if nearest == nil {
		return math.Inf(1)
	}
	fp := nearest.(*facePoint)
	return r3.Norm(r3.Sub(loc, fp.loc))
}
