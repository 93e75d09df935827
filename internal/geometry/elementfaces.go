package geometry

// elementFaceTable returns, for an element type, the local node indices of
// each of its faces in canonical winding order. Corner nodes are listed
// first, followed by any mid-edge nodes (for the quadratic types Tet10 and
// Hex20); face_normal and face_centroid only need the leading corners, so
// callers that want the full face (for Surface output) use the whole row
// and callers that want three non-collinear points for a normal use the
// first three entries.
//
// Node numbering follows the CalculiX / ABAQUS convention, the same
// convention the teacher's element types (Hex8, Hex20, Tet4) document in
// their own comments: http://www.dhondt.de/ccx_2.20.pdf
func elementFaceTable(t ElementType) [][]int {
	switch t {
	case Tet4:
		return tet4Faces
	case Tet10:
		return tet10Faces
	case Hex8:
		return hex8Faces
	case Hex20:
		return hex20Faces
	case Wedge6:
		return wedge6Faces
	case Pyramid5:
		return pyramid5Faces
	default:
		return nil
	}
}

var tet4Faces = [][]int{
	{0, 1, 2},
	{0, 3, 1},
	{1, 3, 2},
	{2, 3, 0},
}

var tet10Faces = [][]int{
	{0, 1, 2, 4, 5, 6},
	{0, 3, 1, 7, 8, 4},
	{1, 3, 2, 8, 9, 5},
	{2, 3, 0, 9, 7, 6},
}

var hex8Faces = [][]int{
	{0, 1, 2, 3}, // bottom
	{4, 7, 6, 5}, // top
	{0, 4, 5, 1},
	{1, 5, 6, 2},
	{2, 6, 7, 3},
	{3, 7, 4, 0},
}

var hex20Faces = [][]int{
	{0, 1, 2, 3, 8, 9, 10, 11},
	{4, 7, 6, 5, 15, 14, 13, 12},
	{0, 4, 5, 1, 16, 12, 17, 8},
	{1, 5, 6, 2, 17, 13, 18, 9},
	{2, 6, 7, 3, 18, 14, 19, 10},
	{3, 7, 4, 0, 19, 15, 16, 11},
}

var wedge6Faces = [][]int{
	{0, 1, 2},
	{3, 4, 5},
	{0, 1, 4, 3},
	{1, 2, 5, 4},
	{2, 0, 3, 5},
}

var pyramid5Faces = [][]int{
	{0, 1, 2, 3},
	{0, 1, 4},
	{1, 2, 4},
	{2, 3, 4},
	{3, 0, 4},
}
