package meshio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGrid = `# vtk DataFile Version 3.0
vexis mesh
ASCII
DATASET UNSTRUCTURED_GRID
POINTS 16 float
0 0 0
1 0 0
1 1 0
0 1 0
0 0 1
1 0 1
1 1 1
0 1 1
0 0 1
1 0 1
1 1 1
0 1 1
0 0 2
1 0 2
1 1 2
0 1 2
CELLS 2 18
8 0 1 2 3 4 5 6 7
8 8 9 10 11 12 13 14 15
CELL_TYPES 2
12
12
CELL_DATA 2
SCALARS part string 1
LOOKUP_TABLE default
Rubber
Indenter
`

func TestParseGroupsElementsByPart(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleGrid), nil)
	require.NoError(t, err)

	assert.Len(t, m.Nodes, 16)
	assert.Len(t, m.Elements, 2)
	assert.ElementsMatch(t, []string{"Rubber", "Indenter"}, m.PartNames())

	rubber := m.ElementsOf("Rubber")
	require.Len(t, rubber, 1)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, rubber[0].Nodes)

	indenter := m.ElementsOf("Indenter")
	require.Len(t, indenter, 1)
	assert.Equal(t, []int{8, 9, 10, 11, 12, 13, 14, 15}, indenter[0].Nodes)
}

func TestParseMissingRequiredPart(t *testing.T) {
	_, err := Parse(strings.NewReader(sampleGrid), []string{"Rubber", "Ground"})
	require.Error(t, err)
	var mp *MissingPartError
	assert.ErrorAs(t, err, &mp)
	assert.Equal(t, "Ground", mp.Part)
}

func TestParseUnknownCellType(t *testing.T) {
	bad := strings.Replace(sampleGrid, "CELL_TYPES 2\n12\n12\n", "CELL_TYPES 2\n99\n99\n", 1)
	_, err := Parse(strings.NewReader(bad), nil)
	require.Error(t, err)
	var me *MalformedMeshError
	assert.ErrorAs(t, err, &me)
}

func TestParseNodeCountMismatch(t *testing.T) {
	bad := strings.Replace(sampleGrid, "8 0 1 2 3 4 5 6 7\n", "8 0 1 2 3 4 5 6\n", 1)
	_, err := Parse(strings.NewReader(bad), nil)
	require.Error(t, err)
}
