package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/A6721jpn/vexis/internal/reconstruct"
)

var ruleKindNames = map[string]reconstruct.RuleKind{
	"z_min_plane":          reconstruct.ZMinPlane,
	"z_down_except_bottom": reconstruct.ZDownExceptBottom,
	"relative_bounds":      reconstruct.RelativeBounds,
	"cross_part_proximity": reconstruct.CrossPartProximity,
	"axis_cylinder":        reconstruct.AxisCylinder,
	"intersection":         reconstruct.Intersection,
}

// decodeRuleTable reads the "reconstruction_rules" map (name -> rule
// definition) into a reconstruct.Rule table (SPEC_FULL.md §4.5
// "[FULL] Rule table source": operators retarget named selections by
// editing configuration, never by recompiling).
func decodeRuleTable(v *viper.Viper) (map[string]reconstruct.Rule, error) {
	raw := v.GetStringMap("reconstruction_rules")
	out := make(map[string]reconstruct.Rule, len(raw))
	for name := range raw {
		sub := v.Sub("reconstruction_rules." + name)
		if sub == nil {
			continue
		}
		rule, err := decodeRule(sub)
		if err != nil {
			return nil, fmt.Errorf("config: rule %q: %w", name, err)
		}
		out[name] = rule
	}
	return out, nil
}

func decodeRule(v *viper.Viper) (reconstruct.Rule, error) {
	kindName := v.GetString("kind")
	kind, ok := ruleKindNames[kindName]
	if !ok {
		return reconstruct.Rule{}, fmt.Errorf("unknown rule kind %q", kindName)
	}

	rule := reconstruct.Rule{
		Kind:      kind,
		Part:      v.GetString("part"),
		OtherPart: v.GetString("other_part"),
		Distance:  v.GetFloat64("distance"),
		Axis:      axisFromName(v.GetString("axis")),
		RMin:      v.GetFloat64("r_min"),
		RMax:      v.GetFloat64("r_max"),
	}

	if v.IsSet("box") {
		box := v.GetStringMap("box")
		rule.Box = reconstruct.Bounds6{
			FxLo: toFloat(box["fx_lo"]),
			FyLo: toFloat(box["fy_lo"]),
			FzLo: toFloat(box["fz_lo"]),
			FxHi: toFloat(box["fx_hi"], 1),
			FyHi: toFloat(box["fy_hi"], 1),
			FzHi: toFloat(box["fz_hi"], 1),
		}
	}

	if kind == reconstruct.Intersection {
		raw, _ := v.Get("sub").([]interface{})
		for i := range raw {
			subV := v.Sub(fmt.Sprintf("sub.%d", i))
			if subV == nil {
				continue
			}
			subRule, err := decodeRule(subV)
			if err != nil {
				return reconstruct.Rule{}, fmt.Errorf("sub-rule %d: %w", i, err)
			}
			rule.Sub = append(rule.Sub, subRule)
		}
	}

	return rule, nil
}

func axisFromName(s string) int {
	switch s {
	case "x", "X":
		return 0
	case "y", "Y":
		return 1
	default:
		return 2
	}
}

func toFloat(v interface{}, def ...float64) float64 {
	if v == nil {
		if len(def) > 0 {
			return def[0]
		}
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
