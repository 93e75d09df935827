package geometry

import "gonum.org/v1/gonum/spatial/r3"

// BoundaryFaces returns every face of part whose node-multiset signature
// appears exactly once among the faces of that part — the boundary-face
// invariant of spec §8 invariant 1.
//
// Emptiness of the result must always be tested with len(...) == 0 by
// callers, never by an implicit boolean check: a nil and an empty non-nil
// slice must be treated identically, and relying on "if faces" style checks
// on a type whose zero value is ambiguous is exactly the correctness bug
// class the spec calls out (§4.1 "Containers with ambiguous emptiness").
func BoundaryFaces(m *Mesh, part string) []Face {
	els := m.ElementsOf(part)
	if len(els) == 0 {
		return nil
	}

	counts := make(map[faceSig]int)
	faces := make(map[faceSig]Face)

	for _, el := range els {
		table := elementFaceTable(el.Type)
		for local := range table {
			f := Face{ElementIndex: el.Index, LocalFace: local}
			sig := f.signature(m)
			counts[sig]++
			if _, ok := faces[sig]; !ok {
				faces[sig] = f
			}
		}
	}

	result := make([]Face, 0, len(faces))
	for sig, f := range faces {
		if counts[sig] == 1 {
			result = append(result, f)
		}
	}
	return result
}

// NodesOnPlane returns the node indices of part (or the whole mesh when
// part == "") whose coordinate along axis equals value within eps.
// axis is 0, 1 or 2 for X, Y, Z.
func NodesOnPlane(m *Mesh, part string, axis int, value, eps float64) []int {
	var idx []int
	seen := make(map[int]bool)
	add := func(n int) {
		if seen[n] {
			return
		}
		seen[n] = true
		c := component(m.Nodes[n], axis)
		if c >= value-eps && c <= value+eps {
			idx = append(idx, n)
		}
	}

	if part == "" {
		for n := range m.Nodes {
			add(n)
		}
	} else {
		for _, el := range m.ElementsOf(part) {
			for _, n := range el.Nodes {
				add(n)
			}
		}
	}
	return idx
}

func component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
