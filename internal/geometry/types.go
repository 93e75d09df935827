// Package geometry implements topological and predicate operations on an
// in-memory unstructured mesh: bounding boxes, boundary-face extraction,
// face-normal direction and a spatial index for nearest-neighbour queries.
//
// Elements and faces are stored in arenas and referenced by index rather
// than by pointer, so the mesh graph never has owning-pointer cycles: a
// Face carries (ElementIndex, LocalFace) and recomputes its node list from
// the owning Mesh on demand.
package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ElementType identifies the shape and node arity of an Element.
type ElementType int

const (
	Tet4 ElementType = iota
	Tet10
	Hex8
	Hex20
	Wedge6
	Pyramid5
)

// String names an ElementType the way the FEA template names it.
func (t ElementType) String() string {
	switch t {
	case Tet4:
		return "tet4"
	case Tet10:
		return "tet10"
	case Hex8:
		return "hex8"
	case Hex20:
		return "hex20"
	case Wedge6:
		return "wedge"
	case Pyramid5:
		return "pyramid"
	default:
		return fmt.Sprintf("elementtype(%d)", int(t))
	}
}

// NodeCount returns the arity required by the element type.
func (t ElementType) NodeCount() int {
	switch t {
	case Tet4:
		return 4
	case Tet10:
		return 10
	case Hex8:
		return 8
	case Hex20:
		return 20
	case Wedge6:
		return 6
	case Pyramid5:
		return 5
	default:
		return 0
	}
}

// Element is one finite element: a type, an ordered node-index tuple, the
// owning part name and its own stable index within Mesh.Elements.
type Element struct {
	Type  ElementType
	Nodes []int // indices into Mesh.Nodes, length == Type.NodeCount()
	Part  string
	Index int
}

// PartRange is a contiguous, half-open index range [Start, End) into
// Mesh.Elements belonging to one part.
type PartRange struct {
	Start, End int
}

// Mesh is (N, E, P): an ordered sequence of points, an ordered sequence of
// elements, and a mapping from part name to the range of E it owns.
//
// Invariant: every node index referenced by an element is in [0, len(Nodes)).
// Invariant: part ranges are disjoint and cover Elements.
type Mesh struct {
	Nodes    []r3.Vec
	Elements []Element
	Parts    map[string]PartRange
}

// ElementsOf returns the elements belonging to part, or nil if part is
// unknown. Never relies on implicit truthiness: callers must check
// len(...) == 0 explicitly, not range over a possibly-nil slice and infer
// emptiness from iteration count alone (see package doc on containers with
// ambiguous emptiness).
func (m *Mesh) ElementsOf(part string) []Element {
	r, ok := m.Parts[part]
	if !ok {
		return nil
	}
	return m.Elements[r.Start:r.End]
}

// PartNames returns the part names in an order determined only by m.Parts'
// iteration, which callers must not depend on; sort at call sites that need
// determinism.
func (m *Mesh) PartNames() []string {
	names := make([]string, 0, len(m.Parts))
	for name := range m.Parts {
		names = append(names, name)
	}
	return names
}

// Translate applies delta to every node of the mesh in place. This is the
// only mutation a Mesh undergoes after construction (see Aligner, spec
// §4.4).
func (m *Mesh) Translate(delta r3.Vec) {
	for i := range m.Nodes {
		m.Nodes[i] = r3.Add(m.Nodes[i], delta)
	}
}

// Face is derived, never stored: an element index plus a local face number
// within that element's canonical face table (see elementFaceTable).
type Face struct {
	ElementIndex int
	LocalFace    int
}

// Nodes returns the face's node indices in canonical order (the order the
// element type's face table defines, which is also the order written to
// a Surface - see internal/reconstruct "Output ordering").
func (f Face) Nodes(m *Mesh) []int {
	el := m.Elements[f.ElementIndex]
	table := elementFaceTable(el.Type)
	local := table[f.LocalFace]
	nodes := make([]int, len(local))
	for i, ln := range local {
		nodes[i] = el.Nodes[ln]
	}
	return nodes
}

// signature returns an order-independent key for a face's node set, used to
// test whether two faces (possibly from different elements) are the same
// geometric face.
func (f Face) signature(m *Mesh) faceSig {
	nodes := f.Nodes(m)
	return newFaceSig(nodes)
}

// faceSig is a sorted tuple used as a map key; two faces sharing the same
// node multiset compare equal regardless of winding.
type faceSig struct {
	key string
}

func newFaceSig(nodes []int) faceSig {
	sorted := append([]int(nil), nodes...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	var key []byte
	for _, n := range sorted {
		key = fmt.Appendf(key, "%d,", n)
	}
	return faceSig{key: string(key)}
}
