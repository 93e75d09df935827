package febdoc

import (
	"fmt"
	"sort"
)

// Edit replaces the bytes of Span with Replacement.
type Edit struct {
	Span        Span
	Replacement []byte
}

// Builder accumulates edits against one Document and applies them all in a
// single pass (spec §4.6: "Atomically replaces in one pass").
type Builder struct {
	doc   *Document
	edits []Edit
}

// NewBuilder starts a rewrite against doc.
func NewBuilder(doc *Document) *Builder {
	return &Builder{doc: doc}
}

// ReplaceNodes overwrites the <Nodes> block content.
func (b *Builder) ReplaceNodes(content []byte) {
	b.edits = append(b.edits, Edit{Span: b.doc.NodeSpan, Replacement: content})
}

// ReplaceElements overwrites the <Elements> block content for part.
func (b *Builder) ReplaceElements(part string, content []byte) error {
	for _, p := range b.doc.Parts {
		if p.Name == part {
			b.edits = append(b.edits, Edit{Span: p.Span, Replacement: content})
			return nil
		}
	}
	return fmt.Errorf("febdoc: template has no <Elements> block named %q", part)
}

// SetNodeSet overwrites a named NodeSet's content.
func (b *Builder) SetNodeSet(name string, content []byte) error {
	span, ok := b.doc.NodeSets[name]
	if !ok {
		return fmt.Errorf("febdoc: template has no NodeSet named %q", name)
	}
	b.edits = append(b.edits, Edit{Span: span, Replacement: content})
	return nil
}

// SetElementSet overwrites a named ElementSet's content.
func (b *Builder) SetElementSet(name string, content []byte) error {
	span, ok := b.doc.ElemSets[name]
	if !ok {
		return fmt.Errorf("febdoc: template has no ElementSet named %q", name)
	}
	b.edits = append(b.edits, Edit{Span: span, Replacement: content})
	return nil
}

// SetSurface overwrites a named Surface's content.
func (b *Builder) SetSurface(name string, content []byte) error {
	span, ok := b.doc.Surfaces[name]
	if !ok {
		return fmt.Errorf("febdoc: template has no Surface named %q", name)
	}
	b.edits = append(b.edits, Edit{Span: span, Replacement: content})
	return nil
}

// SetOutputPlotfile overwrites the <Output><plotfile file="..."/> attribute
// value, used only when adaptors are enabled (spec §8 invariant 6).
func (b *Builder) SetOutputPlotfile(name string) error {
	if b.doc.OutputPlotfileAttr.empty() {
		return fmt.Errorf("febdoc: template has no <Output><plotfile file=...> attribute")
	}
	b.edits = append(b.edits, Edit{Span: b.doc.OutputPlotfileAttr, Replacement: []byte(name)})
	return nil
}

// Apply returns the document bytes with all accumulated edits applied.
// Edits are applied in ascending span order so that replacing one span
// never invalidates the recorded offsets of a span that precedes it.
func (b *Builder) Apply() ([]byte, error) {
	edits := append([]Edit(nil), b.edits...)
	sort.Slice(edits, func(i, j int) bool { return edits[i].Span.Start < edits[j].Span.Start })

	for i := 1; i < len(edits); i++ {
		if edits[i].Span.Start < edits[i-1].Span.End {
			return nil, fmt.Errorf("febdoc: overlapping edits at offsets %d and %d", edits[i-1].Span.Start, edits[i].Span.Start)
		}
	}

	out := make([]byte, 0, len(b.doc.Source))
	var cursor int64
	for _, e := range edits {
		out = append(out, b.doc.Source[cursor:e.Span.Start]...)
		out = append(out, e.Replacement...)
		cursor = e.Span.End
	}
	out = append(out, b.doc.Source[cursor:]...)
	return out, nil
}
