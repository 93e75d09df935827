// Package febdoc implements a typed, span-indexed view over the FEA
// template document (the solver's FEBio-like XML dialect): locating the
// mesh block, element blocks per part, named node/element sets, surface
// definitions, contact pairs and the output plotfile attribute, reading
// the control block (TotalSimulatedTime), and mutating the located regions
// while leaving every other byte of the document untouched. Material-to-part
// bindings (<MeshDomains>) are not indexed; they pass through as raw bytes.
//
// The document is never fully unmarshalled and re-marshalled (that would
// reflow whitespace and attribute order and violate the document
// preservation invariant, spec §8 invariant 6). Instead each locator
// resolves to a [start,end) byte span within the original source, found by
// streaming encoding/xml.Decoder tokens and recording InputOffset() at the
// moments a region opens and closes. A mutation replaces only its span's
// bytes.
package febdoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Span is a half-open byte range [Start, End) into Document.Source
// delimiting one element's inner content (the bytes between its opening
// tag's '>' and its closing tag's '<').
type Span struct {
	Start, End int64
}

func (s Span) empty() bool { return s.Start == 0 && s.End == 0 }

// Part describes one <Elements> block: its element type attribute, part
// name, and the span of its element rows.
type Part struct {
	Name string
	Type string
	Span Span
}

// ContactPair names the two surfaces of one <contact>/<surface_pair>.
type ContactPair struct {
	Name      string
	Primary   string
	Secondary string
}

// Document is a navigable, mutable view over one FEA template file.
type Document struct {
	Source []byte

	MeshSpan Span
	NodeSpan Span

	Parts      []Part
	NodeSets   map[string]Span
	nodeSetOrd []string
	ElemSets   map[string]Span
	elemSetOrd []string
	Surfaces   map[string]Span
	surfaceOrd []string

	ContactPairs []ContactPair

	// OutputPlotfileAttr is the span of the `file` attribute value of
	// <Output><plotfile file="..."/></Output>, rewritten only when
	// adaptors change which plot file a run produces.
	OutputPlotfileAttr Span
}

// Parse builds a Document from the raw bytes of a template file.
func Parse(source []byte) (*Document, error) {
	d := &Document{
		Source:   source,
		NodeSets: make(map[string]Span),
		ElemSets: make(map[string]Span),
		Surfaces: make(map[string]Span),
	}

	dec := xml.NewDecoder(bytes.NewReader(source))

	type frame struct {
		name  string
		attrs []xml.Attr
	}
	var stack []frame

	for {
		startOffset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("febdoc: parse template: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, frame{name: t.Name.Local, attrs: t.Attr})
			contentStart := dec.InputOffset()

			switch t.Name.Local {
			case "Mesh":
				d.MeshSpan.Start = contentStart
			case "Nodes":
				d.NodeSpan.Start = contentStart
			case "Elements":
				d.Parts = append(d.Parts, Part{
					Name: attrVal(t.Attr, "name"),
					Type: attrVal(t.Attr, "type"),
					Span: Span{Start: contentStart},
				})
			case "NodeSet":
				name := attrVal(t.Attr, "name")
				d.nodeSetOrd = append(d.nodeSetOrd, name)
				d.NodeSets[name] = Span{Start: contentStart}
			case "ElementSet":
				name := attrVal(t.Attr, "name")
				d.elemSetOrd = append(d.elemSetOrd, name)
				d.ElemSets[name] = Span{Start: contentStart}
			case "Surface":
				name := attrVal(t.Attr, "name")
				d.surfaceOrd = append(d.surfaceOrd, name)
				d.Surfaces[name] = Span{Start: contentStart}
			case "surface_pair":
				d.ContactPairs = append(d.ContactPairs, ContactPair{Name: attrVal(t.Attr, "name")})
			case "primary":
				// text content fills in on CharData below; nothing to do here.
			case "plotfile":
				if v, ok := attrOffset(source, startOffset, t, "file"); ok {
					d.OutputPlotfileAttr = v
				}
			}

		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				text := string(bytes.TrimSpace(t))
				if text == "" {
					break
				}
				switch top.name {
				case "primary":
					if n := len(d.ContactPairs); n > 0 && d.ContactPairs[n-1].Primary == "" {
						d.ContactPairs[n-1].Primary = text
					}
				case "secondary":
					if n := len(d.ContactPairs); n > 0 {
						d.ContactPairs[n-1].Secondary = text
					}
				}
			}

		case xml.EndElement:
			endOffset := startOffset
			if len(stack) == 0 {
				break
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch top.name {
			case "Mesh":
				d.MeshSpan.End = endOffset
			case "Nodes":
				d.NodeSpan.End = endOffset
			case "Elements":
				if n := len(d.Parts); n > 0 {
					d.Parts[n-1].Span.End = endOffset
				}
			case "NodeSet":
				name := attrVal(top.attrs, "name")
				s := d.NodeSets[name]
				s.End = endOffset
				d.NodeSets[name] = s
			case "ElementSet":
				name := attrVal(top.attrs, "name")
				s := d.ElemSets[name]
				s.End = endOffset
				d.ElemSets[name] = s
			case "Surface":
				name := attrVal(top.attrs, "name")
				s := d.Surfaces[name]
				s.End = endOffset
				d.Surfaces[name] = s
			}
		}
	}

	return d, nil
}

func attrVal(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// attrOffset finds the byte span of attribute name's value within the raw
// start-tag text between startOffset (the '<' of the tag) and the first '>'
// after it. It re-scans the raw bytes because encoding/xml does not expose
// attribute-value offsets itself.
func attrOffset(source []byte, startOffset int64, t xml.StartElement, name string) (Span, bool) {
	val := attrVal(t.Attr, name)
	if val == "" {
		return Span{}, false
	}
	// Search for the tag's '>' to bound the scan to this start tag only.
	end := bytes.IndexByte(source[startOffset:], '>')
	if end < 0 {
		return Span{}, false
	}
	tagBytes := source[startOffset : startOffset+int64(end)]
	needle := []byte(name + "=\"" + val + "\"")
	idx := bytes.Index(tagBytes, needle)
	if idx < 0 {
		// try single-quoted form
		needle = []byte(name + "='" + val + "'")
		idx = bytes.Index(tagBytes, needle)
		if idx < 0 {
			return Span{}, false
		}
	}
	valStart := startOffset + int64(idx) + int64(len(name)) + 2
	return Span{Start: valStart, End: valStart + int64(len(val))}, true
}

// PartNames returns part names in template order.
func (d *Document) PartNames() []string {
	names := make([]string, 0, len(d.Parts))
	for _, p := range d.Parts {
		names = append(names, p.Name)
	}
	return names
}

// NodeSetNames returns node-set names in template order.
func (d *Document) NodeSetNames() []string { return append([]string(nil), d.nodeSetOrd...) }

// ElementSetNames returns element-set names in template order.
func (d *Document) ElementSetNames() []string { return append([]string(nil), d.elemSetOrd...) }

// SurfaceNames returns surface names in template order.
func (d *Document) SurfaceNames() []string { return append([]string(nil), d.surfaceOrd...) }
