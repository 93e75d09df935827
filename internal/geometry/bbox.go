package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min, Max r3.Vec
}

// Edge returns the box's extent along each axis.
func (b BBox) Edge() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// MaxEdge returns the largest of the box's three axis extents, the scale
// used by the default epsilon (spec §4.1) and by cross_part_distance_rel
// (spec §9 open question: "source uses bbox edge").
func (b BBox) MaxEdge() float64 {
	e := b.Edge()
	return math.Max(e.X, math.Max(e.Y, e.Z))
}

// Diagonal returns the box's diagonal length.
func (b BBox) Diagonal() float64 {
	return r3.Norm(b.Edge())
}

// Scale returns a new box whose corners are b's corners interpolated by the
// six fractions (fxLo, fyLo, fzLo, fxHi, fyHi, fzHi) — the shape consumed by
// reconstruct.RelativeBounds.
func (b BBox) Scale(fxLo, fyLo, fzLo, fxHi, fyHi, fzHi float64) BBox {
	e := b.Edge()
	return BBox{
		Min: r3.Vec{
			X: b.Min.X + fxLo*e.X,
			Y: b.Min.Y + fyLo*e.Y,
			Z: b.Min.Z + fzLo*e.Z,
		},
		Max: r3.Vec{
			X: b.Min.X + fxHi*e.X,
			Y: b.Min.Y + fyHi*e.Y,
			Z: b.Min.Z + fzHi*e.Z,
		},
	}
}

// Contains reports whether p lies within the box (inclusive).
func (b BBox) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Bbox computes the bounding box over all nodes of part, or the whole mesh
// if part is "".
func Bbox(m *Mesh, part string) BBox {
	var nodeIdx func() []int
	if part == "" {
		nodeIdx = func() []int {
			seen := make([]bool, len(m.Nodes))
			idx := make([]int, 0, len(m.Nodes))
			for i := range m.Nodes {
				if !seen[i] {
					seen[i] = true
					idx = append(idx, i)
				}
			}
			return idx
		}
	} else {
		nodeIdx = func() []int {
			els := m.ElementsOf(part)
			seen := make(map[int]bool)
			idx := make([]int, 0)
			for _, el := range els {
				for _, n := range el.Nodes {
					if !seen[n] {
						seen[n] = true
						idx = append(idx, n)
					}
				}
			}
			return idx
		}
	}

	idx := nodeIdx()
	if len(idx) == 0 {
		return BBox{}
	}
	min := m.Nodes[idx[0]]
	max := min
	for _, i := range idx[1:] {
		p := m.Nodes[i]
		min = r3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = r3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	return BBox{Min: min, Max: max}
}

// DefaultEpsilon returns the module-wide default tolerance: 1e-6 times the
// largest bounding-box edge of the whole mesh (spec §4.1).
func DefaultEpsilon(m *Mesh) float64 {
	return 1e-6 * Bbox(m, "").MaxEdge()
}
