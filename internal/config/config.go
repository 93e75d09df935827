// Package config loads the pipeline's run configuration: solver paths,
// geometric tolerances, and the per-selection-name reconstruction rule
// table (spec §6, SPEC_FULL.md §4.5 "[FULL] Rule table source").
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/A6721jpn/vexis/internal/geometry"
	"github.com/A6721jpn/vexis/internal/reconstruct"
)

// Config is the immutable, fully-resolved run configuration. It is built
// once by Load and passed by value into the pipeline — there is no
// package-level singleton (spec §9: "global state is injected, not a
// singleton").
type Config struct {
	FebioPath            string
	FebioFallbackPath    string
	ToleranceEpsRel      float64
	NormalAngleDeg       float64
	CrossPartDistanceRel float64
	ReferencePartName    string
	ReconstructionRules  map[string]reconstruct.Rule
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tolerance_eps_rel", 1e-6)
	v.SetDefault("normal_angle_deg", geometry.DefaultNormalAngleDeg)
	v.SetDefault("cross_part_distance_rel", 0.05)
	v.SetDefault("reconstruction_rules", map[string]interface{}{})
}

// Load reads configuration from path (any format viper supports — YAML,
// TOML, JSON) and overlays environment variables prefixed VEXIS_.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("vexis")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	rules, err := decodeRuleTable(v)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		FebioPath:            v.GetString("febio_path"),
		FebioFallbackPath:    v.GetString("febio_fallback_path"),
		ToleranceEpsRel:      v.GetFloat64("tolerance_eps_rel"),
		NormalAngleDeg:       v.GetFloat64("normal_angle_deg"),
		CrossPartDistanceRel: v.GetFloat64("cross_part_distance_rel"),
		ReferencePartName:    v.GetString("reference_part_name"),
		ReconstructionRules:  rules,
	}
	if cfg.FebioPath == "" {
		return Config{}, fmt.Errorf("config: febio_path is required")
	}
	if cfg.ReferencePartName == "" {
		return Config{}, fmt.Errorf("config: reference_part_name is required")
	}
	return cfg, nil
}

// ReconstructContext adapts Config into the tolerance/angle bundle
// internal/reconstruct's rule evaluators need, scaled against a concrete
// mesh's own extent (tolerance_eps_rel and cross_part_distance_rel are
// both expressed relative to a bbox edge, spec §6/§9).
func ReconstructContext(cfg Config, mesh *geometry.Mesh, part string) reconstruct.Context {
	edge := geometry.Bbox(mesh, part).MaxEdge()
	return reconstruct.Context{
		EpsAbs:                   cfg.ToleranceEpsRel * edge,
		NormalAngleDeg:           cfg.NormalAngleDeg,
		DefaultCrossPartDistance: cfg.CrossPartDistanceRel * edge,
	}
}
