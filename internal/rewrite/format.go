package rewrite

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/A6721jpn/vexis/internal/geometry"
)

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatNodes renders every mesh node as a <node id="..."> line, in
// ascending id order (node id == array index + 1).
func formatNodes(mesh *geometry.Mesh) []byte {
	var buf bytes.Buffer
	for i, p := range mesh.Nodes {
		fmt.Fprintf(&buf, "      <node id=\"%d\">%s,%s,%s</node>\n", i+1, fmtFloat(p.X), fmtFloat(p.Y), fmtFloat(p.Z))
	}
	return buf.Bytes()
}

// formatElements renders part's elements as <elem id="..."> lines using
// each element's stable mesh index as its id, so ids stay globally unique
// and ascending across parts (spec §4.2 "node/element IDs are emitted in
// ascending order").
func formatElements(mesh *geometry.Mesh, part string) []byte {
	var buf bytes.Buffer
	for _, el := range mesh.ElementsOf(part) {
		ids := make([]string, len(el.Nodes))
		for i, n := range el.Nodes {
			ids[i] = strconv.Itoa(n + 1)
		}
		fmt.Fprintf(&buf, "      <elem id=\"%d\">%s</elem>\n", el.Index+1, strings.Join(ids, ","))
	}
	return buf.Bytes()
}

// formatIDList renders a sorted, 0-based id slice as an ascending
// comma-separated 1-based list, the NodeSet/ElementSet body format.
func formatIDList(ids []int) []byte {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id + 1)
	}
	return []byte(strings.Join(parts, ","))
}

// formatSurface renders faces (already sorted by element id then local
// face number, spec §4.5 "Output ordering") as a sequence of face-shape
// elements, each carrying its own 1-based sequence id and node list.
func formatSurface(mesh *geometry.Mesh, faces []geometry.Face) []byte {
	var buf bytes.Buffer
	for i, f := range faces {
		nodes := f.Nodes(mesh)
		tag := faceTag(len(nodes))
		ids := make([]string, len(nodes))
		for j, n := range nodes {
			ids[j] = strconv.Itoa(n + 1)
		}
		fmt.Fprintf(&buf, "      <%s id=\"%d\">%s</%s>\n", tag, i+1, strings.Join(ids, ","), tag)
	}
	return buf.Bytes()
}

func faceTag(nodeCount int) string {
	switch nodeCount {
	case 3:
		return "tri3"
	case 4:
		return "quad4"
	case 6:
		return "tri6"
	case 8:
		return "quad8"
	default:
		return fmt.Sprintf("face%d", nodeCount)
	}
}
