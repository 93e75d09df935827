package reconstruct

import "fmt"

// SelectionLostError is returned when a selection non-empty in the
// template became empty after reconstruction (spec §8 invariant 4).
type SelectionLostError struct {
	Name string
}

func (e *SelectionLostError) Error() string {
	return fmt.Sprintf("reconstruct: selection %q lost: non-empty in template, empty after reconstruction", e.Name)
}

// ContactPolicyError is returned when a same-part contact pair's two
// surfaces were not both reconstructed under RelativeBounds (spec §8
// invariant 5).
type ContactPolicyError struct {
	Pair string
}

func (e *ContactPolicyError) Error() string {
	return fmt.Sprintf("reconstruct: contact pair %q is same-part but its surfaces were not both reconstructed under relative_bounds", e.Pair)
}
