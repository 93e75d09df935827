package reconstruct

import (
	"fmt"
	"math"

	"github.com/A6721jpn/vexis/internal/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// RuleKind is a tagged variant of predicate kinds: a single Apply
// operation per variant, no class hierarchy (spec §9 "Dynamic dispatch
// over rules").
type RuleKind int

const (
	ZMinPlane RuleKind = iota
	ZDownExceptBottom
	RelativeBounds
	CrossPartProximity
	AxisCylinder
	Intersection
)

// Bounds6 is a box expressed as fractions of a part's bounding box:
// (fx_lo, fy_lo, fz_lo, fx_hi, fy_hi, fz_hi).
type Bounds6 struct {
	FxLo, FyLo, FzLo float64
	FxHi, FyHi, FzHi float64
}

// Rule is one reconstruction rule bound to the part it evaluates over.
// Only the fields relevant to Kind are meaningful.
type Rule struct {
	Kind RuleKind
	Part string

	Box       Bounds6 // RelativeBounds
	OtherPart string  // CrossPartProximity
	Distance  float64 // CrossPartProximity; 0 selects Context's default
	Axis      int     // AxisCylinder: 0=X, 1=Y, 2=Z
	RMin      float64 // AxisCylinder
	RMax      float64 // AxisCylinder
	Sub       []Rule  // Intersection
}

// Context carries the numeric knobs a rule needs that aren't part of the
// rule itself: tolerances derived from configuration and the mesh under
// evaluation (spec §4.1 "Tie-breaks & numerics").
type Context struct {
	EpsAbs                   float64
	NormalAngleDeg           float64
	DefaultCrossPartDistance float64
}

// Apply evaluates rule against mesh, producing a selection of kind want.
func Apply(mesh *geometry.Mesh, rule Rule, want SelectionKind, ctx Context) (Selection, error) {
	switch rule.Kind {
	case ZMinPlane:
		return applyZMinPlane(mesh, rule, want, ctx)
	case ZDownExceptBottom:
		return applyZDownExceptBottom(mesh, rule, want, ctx)
	case RelativeBounds:
		return applyRelativeBounds(mesh, rule, want, ctx)
	case CrossPartProximity:
		return applyCrossPartProximity(mesh, rule, want, ctx)
	case AxisCylinder:
		return applyAxisCylinder(mesh, rule, want, ctx)
	case Intersection:
		return applyIntersection(mesh, rule, want, ctx)
	default:
		return Selection{}, fmt.Errorf("reconstruct: unknown rule kind %d", rule.Kind)
	}
}

func applyZMinPlane(mesh *geometry.Mesh, rule Rule, want SelectionKind, ctx Context) (Selection, error) {
	if want != NodeSetKind {
		return Selection{}, fmt.Errorf("reconstruct: z_min_plane produces only a node set, not kind %d", want)
	}
	zMin := geometry.Bbox(mesh, rule.Part).Min.Z
	ids := geometry.NodesOnPlane(mesh, rule.Part, 2, zMin, ctx.EpsAbs)
	return Selection{Kind: NodeSetKind, NodeIDs: dedupSortedInts(ids)}, nil
}

// applyZDownExceptBottom selects boundary faces whose outward normal
// points down past the angular threshold and whose centroid is strictly
// above the part's z_min — the dome's foot fillets and chamfers, excluding
// its flat ground face (spec §4.5).
func applyZDownExceptBottom(mesh *geometry.Mesh, rule Rule, want SelectionKind, ctx Context) (Selection, error) {
	zMin := geometry.Bbox(mesh, rule.Part).Min.Z
	faces := geometry.BoundaryFaces(mesh, rule.Part)
	var matched []geometry.Face
	for _, f := range faces {
		n := geometry.FaceNormal(mesh, f)
		c := geometry.FaceCentroid(mesh, f)
		if geometry.IsDownward(n, ctx.NormalAngleDeg) && c.Z > zMin+ctx.EpsAbs {
			matched = append(matched, f)
		}
	}
	return facesToSelection(mesh, matched, want), nil
}

func applyRelativeBounds(mesh *geometry.Mesh, rule Rule, want SelectionKind, ctx Context) (Selection, error) {
	box := geometry.Bbox(mesh, rule.Part).Scale(
		rule.Box.FxLo, rule.Box.FyLo, rule.Box.FzLo,
		rule.Box.FxHi, rule.Box.FyHi, rule.Box.FzHi,
	)
	if want == NodeSetKind {
		var ids []int
		for _, n := range partNodeIDs(mesh, rule.Part) {
			if box.Contains(mesh.Nodes[n]) {
				ids = append(ids, n)
			}
		}
		return Selection{Kind: NodeSetKind, NodeIDs: dedupSortedInts(ids)}, nil
	}
	faces := geometry.BoundaryFaces(mesh, rule.Part)
	var matched []geometry.Face
	for _, f := range faces {
		if box.Contains(geometry.FaceCentroid(mesh, f)) {
			matched = append(matched, f)
		}
	}
	return facesToSelection(mesh, matched, want), nil
}

// applyCrossPartProximity selects boundary faces of rule.Part within
// distance d of any boundary face of rule.OtherPart, using a spatial index
// over the other part's face centroids built once per call (spec §4.5).
func applyCrossPartProximity(mesh *geometry.Mesh, rule Rule, want SelectionKind, ctx Context) (Selection, error) {
	d := rule.Distance
	if d == 0 {
		d = ctx.DefaultCrossPartDistance
	}
	otherFaces := geometry.BoundaryFaces(mesh, rule.OtherPart)
	idx := geometry.NewFaceIndex(mesh, otherFaces)

	faces := geometry.BoundaryFaces(mesh, rule.Part)
	var matched []geometry.Face
	for _, f := range faces {
		if geometry.NearestFaceDistance(mesh, idx, f) <= d {
			matched = append(matched, f)
		}
	}
	return facesToSelection(mesh, matched, want), nil
}

func applyAxisCylinder(mesh *geometry.Mesh, rule Rule, want SelectionKind, ctx Context) (Selection, error) {
	inBand := func(p r3.Vec) bool {
		r := radial(p, rule.Axis)
		return r >= rule.RMin-ctx.EpsAbs && r <= rule.RMax+ctx.EpsAbs
	}
	if want == NodeSetKind {
		var ids []int
		for _, n := range partNodeIDs(mesh, rule.Part) {
			if inBand(mesh.Nodes[n]) {
				ids = append(ids, n)
			}
		}
		return Selection{Kind: NodeSetKind, NodeIDs: dedupSortedInts(ids)}, nil
	}
	faces := geometry.BoundaryFaces(mesh, rule.Part)
	var matched []geometry.Face
	for _, f := range faces {
		if inBand(geometry.FaceCentroid(mesh, f)) {
			matched = append(matched, f)
		}
	}
	return facesToSelection(mesh, matched, want), nil
}

// applyIntersection combines several rules by set intersection over
// whatever representation want calls for (spec §3 "plus combinations by
// intersection").
func applyIntersection(mesh *geometry.Mesh, rule Rule, want SelectionKind, ctx Context) (Selection, error) {
	if len(rule.Sub) == 0 {
		return Selection{}, fmt.Errorf("reconstruct: intersection rule has no sub-rules")
	}
	acc, err := Apply(mesh, rule.Sub[0], want, ctx)
	if err != nil {
		return Selection{}, err
	}
	for _, sub := range rule.Sub[1:] {
		next, err := Apply(mesh, sub, want, ctx)
		if err != nil {
			return Selection{}, err
		}
		acc = intersectSelections(acc, next)
	}
	return acc, nil
}

func radial(p r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return math.Hypot(p.Y, p.Z)
	case 1:
		return math.Hypot(p.X, p.Z)
	default:
		return math.Hypot(p.X, p.Y)
	}
}

func partNodeIDs(mesh *geometry.Mesh, part string) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, el := range mesh.ElementsOf(part) {
		for _, n := range el.Nodes {
			if !seen[n] {
				seen[n] = true
				ids = append(ids, n)
			}
		}
	}
	return ids
}

func intersectSelections(a, b Selection) Selection {
	switch a.Kind {
	case NodeSetKind:
		return Selection{Kind: NodeSetKind, NodeIDs: intersectInts(a.NodeIDs, b.NodeIDs)}
	case ElementSetKind:
		return Selection{Kind: ElementSetKind, ElementIDs: intersectInts(a.ElementIDs, b.ElementIDs)}
	case SurfaceKind:
		return Selection{Kind: SurfaceKind, Faces: intersectFaces(a.Faces, b.Faces)}
	default:
		return Selection{}
	}
}

func intersectInts(a, b []int) []int {
	set := make(map[int]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	var out []int
	for _, v := range a {
		if set[v] {
			out = append(out, v)
		}
	}
	return dedupSortedInts(out)
}

func intersectFaces(a, b []geometry.Face) []geometry.Face {
	set := make(map[geometry.Face]bool, len(b))
	for _, f := range b {
		set[f] = true
	}
	var out []geometry.Face
	for _, f := range a {
		if set[f] {
			out = append(out, f)
		}
	}
	return sortFaces(out)
}
