package reconstruct

import "github.com/A6721jpn/vexis/internal/geometry"

// SamePart reports whether the union of elements referenced by two
// surfaces lies within a single part of mesh (spec §3 Contact Pair
// "same-part").
func SamePart(mesh *geometry.Mesh, primary, secondary []geometry.Face) bool {
	part := ""
	seen := false
	check := func(idx int) bool {
		p := mesh.Elements[idx].Part
		if !seen {
			part, seen = p, true
			return true
		}
		return p == part
	}
	for _, f := range primary {
		if !check(f.ElementIndex) {
			return false
		}
	}
	for _, f := range secondary {
		if !check(f.ElementIndex) {
			return false
		}
	}
	return seen
}

// EnforceContactPolicy checks the same-part contact rule (spec §8
// invariant 5): a contact pair whose surfaces lie in one part of the new
// mesh must have had both surfaces reconstructed under RelativeBounds;
// cross-part proximity is forbidden there because two geometrically
// distinct folds of the same part can be arbitrarily close to each other.
func EnforceContactPolicy(mesh *geometry.Mesh, pairName, primaryName, secondaryName string, surfaces map[string]Selection, rules map[string]Rule) error {
	primary, ok := surfaces[primaryName]
	if !ok {
		return nil
	}
	secondary, ok := surfaces[secondaryName]
	if !ok {
		return nil
	}
	if !SamePart(mesh, primary.Faces, secondary.Faces) {
		return nil
	}
	if rules[primaryName].Kind == RelativeBounds && rules[secondaryName].Kind == RelativeBounds {
		return nil
	}
	return &ContactPolicyError{Pair: pairName}
}
