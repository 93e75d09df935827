package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultNormalAngleDeg is theta, the angular threshold used to classify a
// face normal as pointing "down" (spec §4.1: normal_angle_deg, default 45).
const DefaultNormalAngleDeg = 45.0

// FaceCentroid returns the mean of the face's node positions.
func FaceCentroid(m *Mesh, f Face) r3.Vec {
	nodes := f.Nodes(m)
	var sum r3.Vec
	for _, n := range nodes {
		sum = r3.Add(sum, m.Nodes[n])
	}
	k := float64(len(nodes))
	return r3.Scale(1/k, sum)
}

// FaceNormal returns the outward unit normal of f: the cross product of two
// non-collinear edges of the face's canonical ordering, oriented away from
// the owning element's centroid (spec §4.1).
func FaceNormal(m *Mesh, f Face) r3.Vec {
	nodes := f.Nodes(m)
	p0, p1, p2 := m.Nodes[nodes[0]], m.Nodes[nodes[1]], m.Nodes[nodes[2]]
	e1 := r3.Sub(p1, p0)
	e2 := r3.Sub(p2, p0)
	n := r3.Cross(e1, e2)

	// Try subsequent triples if the first three happen to be collinear
	// (degenerate for some quadratic-face windings).
	for i := 3; r3.Norm(n) < 1e-12 && i < len(nodes); i++ {
		p2 = m.Nodes[nodes[i]]
		e2 = r3.Sub(p2, p0)
		n = r3.Cross(e1, e2)
	}
	length := r3.Norm(n)
	if length == 0 {
		return r3.Vec{}
	}
	n = r3.Scale(1/length, n)

	el := m.Elements[f.ElementIndex]
	elCentroid := elementCentroid(m, el)
	faceCentroid := FaceCentroid(m, f)
	outward := r3.Sub(faceCentroid, elCentroid)
	if r3.Dot(n, outward) < 0 {
		n = r3.Scale(-1, n)
	}
	return n
}

func elementCentroid(m *Mesh, el Element) r3.Vec {
	var sum r3.Vec
	for _, n := range el.Nodes {
		sum = r3.Add(sum, m.Nodes[n])
	}
	return r3.Scale(1/float64(len(el.Nodes)), sum)
}

// IsDownward reports whether normal, dotted with (0,0,-1), exceeds cos(theta)
// — the z_down classification of spec §4.5 ("z_down_except_bottom").
func IsDownward(normal r3.Vec, thetaDeg float64) bool {
	cosTheta := math.Cos(thetaDeg * math.Pi / 180)
	return r3.Dot(normal, r3.Vec{Z: -1}) > cosTheta
}
