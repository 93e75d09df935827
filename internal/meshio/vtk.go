// Package meshio parses the mesher's output format into the Geometry
// Kernel's in-memory Mesh (spec §4.3). The mesher itself is an opaque,
// out-of-scope collaborator (spec §1); this package only reads what it
// produces: a legacy unstructured-grid container, VTK-legacy-shaped
// (POINTS / CELLS / CELL_TYPES), with one extra CELL_DATA array naming the
// owning part of every cell — the "named cell arrays for part membership"
// of spec §4.3. Cell-type codes follow the real VTK numbering (the same
// table the gofem forks' tools/GenVtu.go maps shape names onto via
// shp.GetVtkCode), since the mesher is assumed to share that convention
// with every other VTK-consuming tool in this toolchain.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/A6721jpn/vexis/internal/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// MalformedMeshError is returned when the mesh file cannot be parsed or
// contains an unknown cell type.
type MalformedMeshError struct {
	Reason string
}

func (e *MalformedMeshError) Error() string { return "malformed mesh: " + e.Reason }

// MissingPartError is returned when a part name required by the template
// is absent from the mesh file.
type MissingPartError struct {
	Part string
}

func (e *MissingPartError) Error() string { return fmt.Sprintf("missing part: %q", e.Part) }

// vtkCellType maps VTK's numeric cell-type codes onto geometry.ElementType.
var vtkCellType = map[int]geometry.ElementType{
	10: geometry.Tet4,
	24: geometry.Tet10,
	12: geometry.Hex8,
	25: geometry.Hex20,
	13: geometry.Wedge6,
	14: geometry.Pyramid5,
}

// Load reads the mesh file at path and validates that every part in
// requiredParts is present.
func Load(path string, requiredParts []string) (*geometry.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, requiredParts)
}

// Parse reads a legacy unstructured-grid mesh from r.
func Parse(r io.Reader, requiredParts []string) (*geometry.Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var nodes []r3.Vec
	var cellNodes [][]int
	var cellTypes []int
	var cellParts []string

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "POINTS":
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, &MalformedMeshError{Reason: "bad POINTS count"}
			}
			nodes = make([]r3.Vec, 0, n)
			for len(nodes) < n && sc.Scan() {
				vals := strings.Fields(strings.TrimSpace(sc.Text()))
				for i := 0; i+2 < len(vals)+1 && len(nodes) < n; i += 3 {
					x, e1 := strconv.ParseFloat(vals[i], 64)
					y, e2 := strconv.ParseFloat(vals[i+1], 64)
					z, e3 := strconv.ParseFloat(vals[i+2], 64)
					if e1 != nil || e2 != nil || e3 != nil {
						return nil, &MalformedMeshError{Reason: "bad POINTS row"}
					}
					nodes = append(nodes, r3.Vec{X: x, Y: y, Z: z})
				}
			}
		case "CELLS":
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, &MalformedMeshError{Reason: "bad CELLS count"}
			}
			cellNodes = make([][]int, 0, n)
			for len(cellNodes) < n && sc.Scan() {
				vals := strings.Fields(strings.TrimSpace(sc.Text()))
				if len(vals) == 0 {
					continue
				}
				count, err := strconv.Atoi(vals[0])
				if err != nil || len(vals) < count+1 {
					return nil, &MalformedMeshError{Reason: "bad CELLS row"}
				}
				ids := make([]int, count)
				for i := 0; i < count; i++ {
					id, err := strconv.Atoi(vals[i+1])
					if err != nil {
						return nil, &MalformedMeshError{Reason: "bad CELLS node index"}
					}
					ids[i] = id
				}
				cellNodes = append(cellNodes, ids)
			}
		case "CELL_TYPES":
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, &MalformedMeshError{Reason: "bad CELL_TYPES count"}
			}
			cellTypes = make([]int, 0, n)
			for len(cellTypes) < n && sc.Scan() {
				vals := strings.Fields(strings.TrimSpace(sc.Text()))
				for _, v := range vals {
					if len(cellTypes) >= n {
						break
					}
					code, err := strconv.Atoi(v)
					if err != nil {
						return nil, &MalformedMeshError{Reason: "bad CELL_TYPES value"}
					}
					cellTypes = append(cellTypes, code)
				}
			}
		case "SCALARS":
			// SCALARS part string 1 / LOOKUP_TABLE default, followed by one
			// part name per cell. This is the mesher's "named cell arrays
			// for part membership" (spec §4.3).
			if len(fields) < 2 || fields[1] != "part" {
				continue
			}
			if sc.Scan() && !strings.HasPrefix(strings.TrimSpace(sc.Text()), "LOOKUP_TABLE") {
				return nil, &MalformedMeshError{Reason: "part SCALARS missing LOOKUP_TABLE"}
			}
			n := len(cellTypes)
			if n == 0 {
				n = len(cellNodes)
			}
			cellParts = make([]string, 0, n)
			for len(cellParts) < n && sc.Scan() {
				name := strings.TrimSpace(sc.Text())
				if name == "" {
					continue
				}
				cellParts = append(cellParts, name)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &MalformedMeshError{Reason: err.Error()}
	}

	if len(cellNodes) != len(cellTypes) {
		return nil, &MalformedMeshError{Reason: "CELLS/CELL_TYPES count mismatch"}
	}
	if len(cellParts) != len(cellNodes) {
		return nil, &MalformedMeshError{Reason: "part array does not cover every cell"}
	}

	// Group elements by part, preserving first-seen part order, so that
	// Mesh.Parts ranges stay contiguous as the invariant requires.
	order := make([]string, 0)
	seen := make(map[string]bool)
	byPart := make(map[string][]geometry.Element)
	for i, ids := range cellNodes {
		et, ok := vtkCellType[cellTypes[i]]
		if !ok {
			return nil, &MalformedMeshError{Reason: fmt.Sprintf("unknown VTK cell type %d", cellTypes[i])}
		}
		if len(ids) != et.NodeCount() {
			return nil, &MalformedMeshError{Reason: fmt.Sprintf("cell %d has %d nodes, want %d for %s", i, len(ids), et.NodeCount(), et)}
		}
		for _, id := range ids {
			if id < 0 || id >= len(nodes) {
				return nil, &MalformedMeshError{Reason: fmt.Sprintf("cell %d references out-of-range node %d", i, id)}
			}
		}
		part := cellParts[i]
		if !seen[part] {
			seen[part] = true
			order = append(order, part)
		}
		byPart[part] = append(byPart[part], geometry.Element{Type: et, Nodes: ids, Part: part})
	}

	elements := make([]geometry.Element, 0, len(cellNodes))
	parts := make(map[string]geometry.PartRange, len(order))
	for _, part := range order {
		start := len(elements)
		for _, el := range byPart[part] {
			el.Index = len(elements)
			elements = append(elements, el)
		}
		parts[part] = geometry.PartRange{Start: start, End: len(elements)}
	}

	mesh := &geometry.Mesh{Nodes: nodes, Elements: elements, Parts: parts}

	for _, req := range requiredParts {
		if _, ok := mesh.Parts[req]; !ok {
			return nil, &MissingPartError{Part: req}
		}
	}

	return mesh, nil
}
