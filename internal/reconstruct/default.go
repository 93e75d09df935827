package reconstruct

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/A6721jpn/vexis/internal/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// ParseIDList parses a comma/whitespace-separated list of 1-based ids as
// they appear in the template's text content, returning 0-based indices.
func ParseIDList(text string) ([]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == '\t' || r == ' '
	})
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("reconstruct: bad id %q in selection list: %w", f, err)
		}
		ids = append(ids, n-1)
	}
	return ids, nil
}

// DefaultRule infers a relative_bounds rule from how a named selection's
// ids sit inside their owning part's bounding box in the old mesh — "a
// default derived from the selection kind and part ... optionally
// filtered by relative bounds inferred from the old mesh's selection's
// relative bounds" (spec §4.5), used for names absent from the rule
// table.
func DefaultRule(oldMesh *geometry.Mesh, kind SelectionKind, oldIDs []int) (Rule, error) {
	if len(oldIDs) == 0 {
		return Rule{}, fmt.Errorf("reconstruct: cannot infer a default rule from an empty selection")
	}

	part, points, err := locate(oldMesh, kind, oldIDs)
	if err != nil {
		return Rule{}, err
	}

	partBox := geometry.Bbox(oldMesh, part)
	selMin, selMax := points[0], points[0]
	for _, p := range points[1:] {
		selMin = r3.Vec{X: math.Min(selMin.X, p.X), Y: math.Min(selMin.Y, p.Y), Z: math.Min(selMin.Z, p.Z)}
		selMax = r3.Vec{X: math.Max(selMax.X, p.X), Y: math.Max(selMax.Y, p.Y), Z: math.Max(selMax.Z, p.Z)}
	}

	edge := partBox.Edge()
	frac := func(v, lo, e float64) float64 {
		if e == 0 {
			return 0
		}
		return (v - lo) / e
	}
	box := Bounds6{
		FxLo: frac(selMin.X, partBox.Min.X, edge.X),
		FyLo: frac(selMin.Y, partBox.Min.Y, edge.Y),
		FzLo: frac(selMin.Z, partBox.Min.Z, edge.Z),
		FxHi: frac(selMax.X, partBox.Min.X, edge.X),
		FyHi: frac(selMax.Y, partBox.Min.Y, edge.Y),
		FzHi: frac(selMax.Z, partBox.Min.Z, edge.Z),
	}
	return Rule{Kind: RelativeBounds, Part: part, Box: box}, nil
}

// locate returns the dominant part referenced by ids and the node
// positions the selection spans, used to fit a bounding box.
func locate(mesh *geometry.Mesh, kind SelectionKind, ids []int) (string, []r3.Vec, error) {
	count := make(map[string]int)
	var points []r3.Vec

	switch kind {
	case NodeSetKind:
		idSet := make(map[int]bool, len(ids))
		for _, id := range ids {
			if id < 0 || id >= len(mesh.Nodes) {
				return "", nil, fmt.Errorf("reconstruct: node id out of range: %d", id)
			}
			idSet[id] = true
			points = append(points, mesh.Nodes[id])
		}
		for _, el := range mesh.Elements {
			for _, n := range el.Nodes {
				if idSet[n] {
					count[el.Part]++
				}
			}
		}
	case ElementSetKind, SurfaceKind:
		for _, id := range ids {
			if id < 0 || id >= len(mesh.Elements) {
				return "", nil, fmt.Errorf("reconstruct: element id out of range: %d", id)
			}
			el := mesh.Elements[id]
			count[el.Part]++
			for _, n := range el.Nodes {
				points = append(points, mesh.Nodes[n])
			}
		}
	}

	if len(points) == 0 {
		return "", nil, fmt.Errorf("reconstruct: selection resolved to no nodes")
	}

	best, bestCount := "", -1
	for part, c := range count {
		if c > bestCount {
			best, bestCount = part, c
		}
	}
	return best, points, nil
}
