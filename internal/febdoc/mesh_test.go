package febdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const embeddedTemplate = `<?xml version="1.0"?>
<febio_spec version="3.0">
  <Mesh>
    <Nodes>
      <node id="1">0,0,0</node>
      <node id="2">1,0,0</node>
      <node id="3">1,1,0</node>
      <node id="4">0,1,0</node>
      <node id="5">0,0,1</node>
      <node id="6">1,0,1</node>
      <node id="7">1,1,1</node>
      <node id="8">0,1,1</node>
    </Nodes>
    <Elements type="hex8" name="Rubber">
      <elem id="1">1,2,3,4,5,6,7,8</elem>
    </Elements>
  </Mesh>
</febio_spec>
`

func TestEmbeddedMeshParsesNodesAndElements(t *testing.T) {
	doc, err := Parse([]byte(embeddedTemplate))
	require.NoError(t, err)

	mesh, err := doc.EmbeddedMesh()
	require.NoError(t, err)

	require.Len(t, mesh.Nodes, 8)
	assert.Equal(t, 0.0, mesh.Nodes[0].X)
	assert.Equal(t, 1.0, mesh.Nodes[6].X)

	els := mesh.ElementsOf("Rubber")
	require.Len(t, els, 1)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, els[0].Nodes)
}

func TestEmbeddedMeshRejectsUnknownElementType(t *testing.T) {
	bad := `<?xml version="1.0"?>
<febio_spec>
  <Mesh>
    <Nodes><node id="1">0,0,0</node></Nodes>
    <Elements type="octopus" name="Weird"><elem id="1">1</elem></Elements>
  </Mesh>
</febio_spec>
`
	doc, err := Parse([]byte(bad))
	require.NoError(t, err)
	_, err = doc.EmbeddedMesh()
	assert.Error(t, err)
}
