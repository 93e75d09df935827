package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/A6721jpn/vexis/internal/febdoc"
	"github.com/A6721jpn/vexis/internal/geometry"
	"github.com/A6721jpn/vexis/internal/reconstruct"
)

// oldSelection resolves one named selection's ids as recorded in the
// template's own placeholder content, plus whether it was non-empty — the
// two pieces reconstruct.Request needs to enforce the non-empty invariant
// and drive DefaultRule inference (spec §4.5, §3 "named selections in the
// old mesh are read-only references").
func oldSelection(doc *febdoc.Document, oldMesh *geometry.Mesh, kind reconstruct.SelectionKind, name string) (ids []int, nonEmpty bool, err error) {
	switch kind {
	case reconstruct.NodeSetKind:
		span, ok := doc.NodeSets[name]
		if !ok {
			return nil, false, nil
		}
		ids, err = reconstruct.ParseIDList(string(doc.Source[span.Start:span.End]))
	case reconstruct.ElementSetKind:
		span, ok := doc.ElemSets[name]
		if !ok {
			return nil, false, nil
		}
		ids, err = reconstruct.ParseIDList(string(doc.Source[span.Start:span.End]))
	case reconstruct.SurfaceKind:
		span, ok := doc.Surfaces[name]
		if !ok {
			return nil, false, nil
		}
		ids, err = surfaceElementIDs(doc.Source[span.Start:span.End], oldMesh)
	default:
		return nil, false, fmt.Errorf("pipeline: unknown selection kind")
	}
	if err != nil {
		return nil, false, err
	}
	return ids, len(ids) > 0, nil
}

// surfaceElementIDs maps a rendered <tri3>/<quad4>/... face block back to
// the owning element ids in oldMesh, by matching each row's node set
// (order-independent) against oldMesh's boundary faces. DefaultRule only
// needs the owning elements to locate the dominant part and fit a box, not
// the faces themselves.
func surfaceElementIDs(content []byte, oldMesh *geometry.Mesh) ([]int, error) {
	bySig := make(map[string]int, len(oldMesh.Elements))
	for _, part := range oldMesh.PartNames() {
		for _, f := range geometry.BoundaryFaces(oldMesh, part) {
			bySig[sigOf(f.Nodes(oldMesh))] = f.ElementIndex
		}
	}

	var ids []int
	for _, line := range strings.Split(string(content), "\n") {
		nodes, ok := faceRowNodes(line)
		if !ok {
			continue
		}
		if elIdx, found := bySig[sigOf(nodes)]; found {
			ids = append(ids, elIdx)
		}
	}
	return ids, nil
}

func faceRowNodes(line string) ([]int, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "<") {
		return nil, false
	}
	gt := strings.IndexByte(line, '>')
	ltClose := strings.LastIndexByte(line, '<')
	if gt < 0 || ltClose <= gt {
		return nil, false
	}
	body := line[gt+1 : ltClose]
	fields := strings.Split(body, ",")
	nodes := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		nodes = append(nodes, n-1)
	}
	if len(nodes) == 0 {
		return nil, false
	}
	return nodes, true
}

func sigOf(nodes []int) string {
	sorted := append([]int(nil), nodes...)
	sort.Ints(sorted)
	var b strings.Builder
	for _, n := range sorted {
		fmt.Fprintf(&b, "%d,", n)
	}
	return b.String()
}
