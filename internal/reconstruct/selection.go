// Package reconstruct rebuilds every named selection (node set, element
// set, surface) of the FEA template against a freshly generated mesh,
// using only geometric predicates — the mesh-swap engine's core (spec
// §4.5).
package reconstruct

import (
	"sort"

	"github.com/A6721jpn/vexis/internal/geometry"
)

// SelectionKind identifies which of the three named-selection kinds a rule
// targets.
type SelectionKind int

const (
	NodeSetKind SelectionKind = iota
	ElementSetKind
	SurfaceKind
)

// Selection is the reconstructed content of one named selection. Exactly
// one of NodeIDs, ElementIDs or Faces is populated, matching Kind.
type Selection struct {
	Kind       SelectionKind
	NodeIDs    []int
	ElementIDs []int
	Faces      []geometry.Face
}

// Empty reports whether the selection carries no content. Tested by
// explicit length, never by ranging over a possibly-nil slice and
// inferring emptiness from iteration count (spec §4.1 "ambiguous
// emptiness" invariant) — a false-empty result here would surface as
// SelectionLost for a selection that is actually fine, and a
// false-non-empty result would let real data loss through silently.
func (s Selection) Empty() bool {
	switch s.Kind {
	case NodeSetKind:
		return len(s.NodeIDs) == 0
	case ElementSetKind:
		return len(s.ElementIDs) == 0
	case SurfaceKind:
		return len(s.Faces) == 0
	default:
		return true
	}
}

// dedupSortedInts returns a sorted, duplicate-free copy of ids. It never
// mutates the caller's slice.
func dedupSortedInts(ids []int) []int {
	cp := append([]int(nil), ids...)
	sort.Ints(cp)
	out := cp[:0]
	for i, id := range cp {
		if i == 0 || id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

// sortFaces orders faces by owning element id ascending, then by local
// face number (spec §4.5 "Output ordering").
func sortFaces(faces []geometry.Face) []geometry.Face {
	out := append([]geometry.Face(nil), faces...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ElementIndex != out[j].ElementIndex {
			return out[i].ElementIndex < out[j].ElementIndex
		}
		return out[i].LocalFace < out[j].LocalFace
	})
	return out
}

// facesToSelection converts a raw boundary-face match set into the
// selection kind the caller actually asked for: as faces for a Surface, as
// their owning element ids for an ElementSet, or as their referenced node
// ids for a NodeSet.
func facesToSelection(mesh *geometry.Mesh, faces []geometry.Face, want SelectionKind) Selection {
	switch want {
	case SurfaceKind:
		return Selection{Kind: SurfaceKind, Faces: sortFaces(faces)}
	case ElementSetKind:
		ids := make([]int, 0, len(faces))
		for _, f := range faces {
			ids = append(ids, f.ElementIndex)
		}
		return Selection{Kind: ElementSetKind, ElementIDs: dedupSortedInts(ids)}
	case NodeSetKind:
		var ids []int
		for _, f := range faces {
			ids = append(ids, f.Nodes(mesh)...)
		}
		return Selection{Kind: NodeSetKind, NodeIDs: dedupSortedInts(ids)}
	default:
		return Selection{}
	}
}
