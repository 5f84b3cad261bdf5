package physics

// config.go reads a yaml World configuration, the way load/shd.go reads a
// yaml shader configuration: unmarshal into a private mirror struct, then
// translate into the package's own types.

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/strata2d/strata2d/math/lin"
)

// worldConfig mirrors the yaml document; Cfg (below) is what callers use.
type worldConfig struct {
	Gravity struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	} `yaml:"gravity"`
	BaumgarteBias   float64 `yaml:"baumgarteBias"`
	SolverSteps     int     `yaml:"solverSteps"`
	SlopP           float64 `yaml:"slopP"`
	SlopR           float64 `yaml:"slopR"`
	AABBMargin      float64 `yaml:"aabbMargin"`
	SmoothingRadius float64 `yaml:"smoothingRadius"`
}

// Cfg is the decoded, ready-to-use form of a World's construction
// parameters.
type Cfg struct {
	Gravity         lin.Vec2
	BaumgarteBias   float64
	SolverSteps     int
	SlopP, SlopR    float64
	AABBMargin      float64
	SmoothingRadius float64
}

// WorldCfg decodes a yaml World configuration, filling in the source's
// documented defaults (baumgarteBias 0.2, solverSteps 10, slopP 0.005,
// slopR 0, aabbMargin 0.1, smoothingRadius 0.08) for any field the
// document omits.
func WorldCfg(data []byte) (Cfg, error) {
	cfg := worldConfig{BaumgarteBias: 0.2, SolverSteps: 10, SlopP: 0.005, AABBMargin: 0.1, SmoothingRadius: defaultSmoothingRadius}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Cfg{}, fmt.Errorf("WorldCfg: yaml %w", err)
	}
	if cfg.SolverSteps < 1 {
		return Cfg{}, fmt.Errorf("WorldCfg: solverSteps must be >= 1, got %d", cfg.SolverSteps)
	}
	return Cfg{
		Gravity:         lin.Vec2{X: cfg.Gravity.X, Y: cfg.Gravity.Y},
		BaumgarteBias:   cfg.BaumgarteBias,
		SolverSteps:     cfg.SolverSteps,
		SlopP:           cfg.SlopP,
		SlopR:           cfg.SlopR,
		AABBMargin:      cfg.AABBMargin,
		SmoothingRadius: cfg.SmoothingRadius,
	}, nil
}

// NewWorldFromCfg builds a World from decoded configuration, using cfg's
// SmoothingRadius for the fluid solver instead of the package default.
func NewWorldFromCfg(cfg Cfg) *World {
	w := NewWorld(cfg.Gravity, cfg.BaumgarteBias, cfg.SolverSteps, cfg.SlopP, cfg.SlopR, cfg.AABBMargin)
	w.fluid = newFluid(cfg.SmoothingRadius)
	return w
}
