package febdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTemplate = `<?xml version="1.0"?>
<febio_spec version="3.0">
  <Mesh>
    <Nodes>
      <node id="1">0,0,0</node>
      <node id="2">1,0,0</node>
    </Nodes>
    <Elements type="hex8" name="Rubber">
      <elem id="1">1,2,3,4,5,6,7,8</elem>
    </Elements>
  </Mesh>
  <MeshDomains>
    <SolidDomain name="Rubber" mat="RubberMat"/>
  </MeshDomains>
  <Boundary>
    <NodeSet name="RUBBER_BOTTOM_FIX">1,2,3</NodeSet>
  </Boundary>
  <MeshData>
    <ElementSet name="RUBBER_ALL">1</ElementSet>
    <Surface name="RUBBER_BOTTOM_CONTACT_Secondary">
      <quad4 id="1">1,2,3,4</quad4>
    </Surface>
  </MeshData>
  <Contact>
    <contact type="sliding-elastic">
      <surface_pair name="RubberBottom">
        <primary>RUBBER_BOTTOM_CONTACT_Primary</primary>
        <secondary>RUBBER_BOTTOM_CONTACT_Secondary</secondary>
      </surface_pair>
    </contact>
  </Contact>
  <Control>
    <time_steps>10</time_steps>
    <step_size>0.100000</step_size>
    <step>
      <Control>
        <time_steps>5</time_steps>
        <step_size>0.050000</step_size>
      </Control>
    </step>
  </Control>
  <Output>
    <plotfile type="febio" file="result.xplt"/>
  </Output>
</febio_spec>
`

func TestParseLocators(t *testing.T) {
	doc, err := Parse([]byte(sampleTemplate))
	require.NoError(t, err)

	assert.Equal(t, []string{"Rubber"}, doc.PartNames())
	assert.Equal(t, []string{"RUBBER_BOTTOM_FIX"}, doc.NodeSetNames())
	assert.Equal(t, []string{"RUBBER_ALL"}, doc.ElementSetNames())
	assert.Equal(t, []string{"RUBBER_BOTTOM_CONTACT_Secondary"}, doc.SurfaceNames())

	require.Len(t, doc.ContactPairs, 1)
	assert.Equal(t, "RUBBER_BOTTOM_CONTACT_Primary", doc.ContactPairs[0].Primary)
	assert.Equal(t, "RUBBER_BOTTOM_CONTACT_Secondary", doc.ContactPairs[0].Secondary)

	assert.False(t, doc.OutputPlotfileAttr.empty())
	got := string(doc.Source[doc.OutputPlotfileAttr.Start:doc.OutputPlotfileAttr.End])
	assert.Equal(t, "result.xplt", got)
}

func TestTotalSimulatedTime(t *testing.T) {
	total, err := TotalSimulatedTime([]byte(sampleTemplate))
	require.NoError(t, err)
	assert.InDelta(t, 10*0.1+5*0.05, total, 1e-9)
}

func TestBuilderReplacesOnlyTargetedSpans(t *testing.T) {
	doc, err := Parse([]byte(sampleTemplate))
	require.NoError(t, err)

	b := NewBuilder(doc)
	require.NoError(t, b.SetNodeSet("RUBBER_BOTTOM_FIX", []byte("9,10,11")))
	out, err := b.Apply()
	require.NoError(t, err)

	outStr := string(out)
	assert.Contains(t, outStr, "<NodeSet name=\"RUBBER_BOTTOM_FIX\">9,10,11</NodeSet>")
	// Everything else is untouched: the part/material binding survives
	// byte-for-byte.
	assert.Contains(t, outStr, `<SolidDomain name="Rubber" mat="RubberMat"/>`)
	assert.Contains(t, outStr, `<elem id="1">1,2,3,4,5,6,7,8</elem>`)
}

func TestBuilderRejectsUnknownNames(t *testing.T) {
	doc, err := Parse([]byte(sampleTemplate))
	require.NoError(t, err)

	b := NewBuilder(doc)
	assert.Error(t, b.SetNodeSet("NOPE", []byte("1")))
	assert.Error(t, b.SetElementSet("NOPE", []byte("1")))
	assert.Error(t, b.SetSurface("NOPE", []byte("1")))
	assert.Error(t, b.ReplaceElements("NOPE", []byte("1")))
}
