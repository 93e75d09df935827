// Package rewrite ties the Geometry Kernel, XML Document Model and Set
// Reconstructor together to produce the prepared FEA document: the new
// mesh's nodes and elements plus every reconstructed named selection,
// written into the template's byte layout (spec §4.6).
package rewrite

import (
	"fmt"
	"os"

	"github.com/A6721jpn/vexis/internal/febdoc"
	"github.com/A6721jpn/vexis/internal/geometry"
	"github.com/A6721jpn/vexis/internal/reconstruct"
)

// TemplateMissingPartError is returned when the mesh and template parts
// don't correspond 1:1 (spec §4.6 "TemplateMissingPart(name)").
type TemplateMissingPartError struct {
	Part string
}

func (e *TemplateMissingPartError) Error() string {
	return fmt.Sprintf("rewrite: part %q present on one side of mesh/template only", e.Part)
}

// Write rebuilds doc with mesh's nodes/elements and reconstructed's named
// selections, and atomically publishes the result to outPath: written to
// a `.tmp` sibling first and renamed only on success, so a cancellation or
// crash mid-write never leaves a partial document at outPath (spec §5
// "Cancellation").
func Write(doc *febdoc.Document, mesh *geometry.Mesh, reconstructed reconstruct.Result, outPath string) error {
	if err := checkParts(doc, mesh); err != nil {
		return err
	}

	b := febdoc.NewBuilder(doc)
	b.ReplaceNodes(formatNodes(mesh))
	for _, p := range doc.Parts {
		if err := b.ReplaceElements(p.Name, formatElements(mesh, p.Name)); err != nil {
			return err
		}
	}
	for name, sel := range reconstructed.NodeSets {
		if err := b.SetNodeSet(name, formatIDList(sel.NodeIDs)); err != nil {
			return err
		}
	}
	for name, sel := range reconstructed.ElementSets {
		if err := b.SetElementSet(name, formatIDList(sel.ElementIDs)); err != nil {
			return err
		}
	}
	for name, sel := range reconstructed.Surfaces {
		if err := b.SetSurface(name, formatSurface(mesh, sel.Faces)); err != nil {
			return err
		}
	}

	out, err := b.Apply()
	if err != nil {
		return err
	}

	tmp := outPath + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func checkParts(doc *febdoc.Document, mesh *geometry.Mesh) error {
	meshParts := make(map[string]bool)
	for _, p := range mesh.PartNames() {
		meshParts[p] = true
	}
	templateParts := make(map[string]bool, len(doc.Parts))
	for _, p := range doc.Parts {
		templateParts[p.Name] = true
	}
	for p := range meshParts {
		if !templateParts[p] {
			return &TemplateMissingPartError{Part: p}
		}
	}
	for p := range templateParts {
		if !meshParts[p] {
			return &TemplateMissingPartError{Part: p}
		}
	}
	return nil
}
