package febdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/A6721jpn/vexis/internal/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

var elementTypeByTag = map[string]geometry.ElementType{
	"tet4":    geometry.Tet4,
	"tet10":   geometry.Tet10,
	"hex8":    geometry.Hex8,
	"hex20":   geometry.Hex20,
	"wedge":   geometry.Wedge6,
	"pyramid": geometry.Pyramid5,
}

// EmbeddedMesh parses the placeholder mesh the template already carries
// (its own <node>/<elem> rows) into a geometry.Mesh, so the Set
// Reconstructor can learn, from the *old* mesh, which named selections
// were non-empty and what their relative extents were (spec §4.5
// default-rule inference, §3 "named selections in the old mesh are
// read-only references").
func (d *Document) EmbeddedMesh() (*geometry.Mesh, error) {
	nodes, err := parseNodes(d.Source[d.NodeSpan.Start:d.NodeSpan.End])
	if err != nil {
		return nil, fmt.Errorf("febdoc: parse embedded nodes: %w", err)
	}

	mesh := &geometry.Mesh{Nodes: nodes, Parts: make(map[string]geometry.PartRange)}
	for _, part := range d.Parts {
		typ, ok := elementTypeByTag[part.Type]
		if !ok {
			return nil, fmt.Errorf("febdoc: part %q: unknown element type %q", part.Name, part.Type)
		}
		start := len(mesh.Elements)
		els, err := parseElements(d.Source[part.Span.Start:part.Span.End], typ, part.Name, len(nodes))
		if err != nil {
			return nil, fmt.Errorf("febdoc: part %q: %w", part.Name, err)
		}
		for i := range els {
			els[i].Index = start + i
		}
		mesh.Elements = append(mesh.Elements, els...)
		mesh.Parts[part.Name] = geometry.PartRange{Start: start, End: len(mesh.Elements)}
	}
	return mesh, nil
}

func parseNodes(content []byte) ([]r3.Vec, error) {
	var nodes []r3.Vec
	for _, line := range strings.Split(string(content), "\n") {
		body, ok := innerTag(line, "node")
		if !ok {
			continue
		}
		coords := strings.Split(body, ",")
		if len(coords) != 3 {
			return nil, fmt.Errorf("malformed node row %q", line)
		}
		v, err := parseVec(coords)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, v)
	}
	return nodes, nil
}

func parseVec(coords []string) (r3.Vec, error) {
	vals := make([]float64, 3)
	for i, c := range coords {
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("malformed coordinate %q: %w", c, err)
		}
		vals[i] = f
	}
	return r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func parseElements(content []byte, typ geometry.ElementType, part string, nodeCount int) ([]geometry.Element, error) {
	var out []geometry.Element
	for _, line := range strings.Split(string(content), "\n") {
		body, ok := innerTag(line, "elem")
		if !ok {
			continue
		}
		ids, err := parseIDCSV(body)
		if err != nil {
			return nil, err
		}
		if len(ids) != typ.NodeCount() {
			return nil, fmt.Errorf("element row %q: want %d nodes for %s, got %d", line, typ.NodeCount(), typ, len(ids))
		}
		for _, id := range ids {
			if id < 0 || id >= nodeCount {
				return nil, fmt.Errorf("element row %q: node id out of range", line)
			}
		}
		out = append(out, geometry.Element{Type: typ, Nodes: ids, Part: part, Index: 0})
	}
	for i := range out {
		out[i].Index = i
	}
	return out, nil
}

// parseIDCSV parses a comma-separated list of 1-based ids into 0-based
// indices.
func parseIDCSV(body string) ([]int, error) {
	fields := strings.Split(body, ",")
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("malformed id %q: %w", f, err)
		}
		ids = append(ids, n-1)
	}
	return ids, nil
}

// innerTag extracts the text content of a single-line "<tag ...>content</tag>"
// row, tolerating any attributes on the opening tag.
func innerTag(line, tag string) (string, bool) {
	line = strings.TrimSpace(line)
	open := "<" + tag
	closeTag := "</" + tag + ">"
	if !strings.HasPrefix(line, open) || !strings.HasSuffix(line, closeTag) {
		return "", false
	}
	gt := strings.IndexByte(line, '>')
	if gt < 0 {
		return "", false
	}
	contentEnd := len(line) - len(closeTag)
	if contentEnd < gt+1 {
		return "", false
	}
	return line[gt+1 : contentEnd], true
}
