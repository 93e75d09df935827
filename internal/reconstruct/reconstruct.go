package reconstruct

import (
	"fmt"

	"github.com/A6721jpn/vexis/internal/geometry"
)

// Result carries the reconstructed content for every named selection the
// template defines, keyed by name.
type Result struct {
	NodeSets    map[string]Selection
	ElementSets map[string]Selection
	Surfaces    map[string]Selection
	// ResolvedRules records, per name, the rule actually used — either the
	// table's entry or an inferred DefaultRule — so EnforceContactPolicy
	// and the Document Rewriter can see what produced each selection.
	ResolvedRules map[string]Rule
}

// Request is one named selection awaiting reconstruction.
type Request struct {
	Name        string
	Kind        SelectionKind
	OldNonEmpty bool  // was this selection non-empty in the template?
	OldIDs      []int // template (old-mesh) ids, for default-rule inference; nil if unavailable
}

// Reconstruct resolves every requested named selection against newMesh,
// using ruleTable for names with an explicit entry and DefaultRule for
// everything else, and enforces the non-empty invariant (spec §8
// invariant 4, "Non-empty invariant" in §4.5).
func Reconstruct(newMesh, oldMesh *geometry.Mesh, ruleTable map[string]Rule, ctx Context, reqs []Request) (Result, error) {
	result := Result{
		NodeSets:      make(map[string]Selection),
		ElementSets:   make(map[string]Selection),
		Surfaces:      make(map[string]Selection),
		ResolvedRules: make(map[string]Rule, len(reqs)),
	}

	for _, req := range reqs {
		rule, ok := ruleTable[req.Name]
		if !ok {
			if oldMesh == nil || req.OldIDs == nil {
				return Result{}, fmt.Errorf("reconstruct: %q: no rule in the table and no template data to infer a default", req.Name)
			}
			inferred, err := DefaultRule(oldMesh, req.Kind, req.OldIDs)
			if err != nil {
				return Result{}, fmt.Errorf("reconstruct: %q: %w", req.Name, err)
			}
			rule = inferred
		}
		result.ResolvedRules[req.Name] = rule

		sel, err := Apply(newMesh, rule, req.Kind, ctx)
		if err != nil {
			return Result{}, fmt.Errorf("reconstruct: %q: %w", req.Name, err)
		}
		if req.OldNonEmpty && sel.Empty() {
			return Result{}, &SelectionLostError{Name: req.Name}
		}

		switch req.Kind {
		case NodeSetKind:
			result.NodeSets[req.Name] = sel
		case ElementSetKind:
			result.ElementSets[req.Name] = sel
		case SurfaceKind:
			result.Surfaces[req.Name] = sel
		}
	}

	return result, nil
}
