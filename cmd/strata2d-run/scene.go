// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

// scene.go reads a yaml scene document (world config plus initial bodies
// and fluid particles) the way gazed/vu's load/shd.go reads a shader
// config: unmarshal into a private mirror, then build the real thing.

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/strata2d/strata2d/math/lin"
	"github.com/strata2d/strata2d/physics"
)

type bodyDoc struct {
	Shape       string       `yaml:"shape"` // "circle" or "polygon"
	Radius      float64      `yaml:"radius"`
	Points      [][2]float64 `yaml:"points"`
	Pos         [2]float64   `yaml:"pos"`
	Mass        float64      `yaml:"mass"`
	Moment      float64      `yaml:"moment"`
	Restitution float64      `yaml:"restitution"`
	Friction    float64      `yaml:"friction"`
}

type fluidParticleDoc struct {
	Pos  [2]float64 `yaml:"pos"`
	Vel  [2]float64 `yaml:"vel"`
	Mass float64    `yaml:"mass"`
}

type sceneDoc struct {
	World     map[string]interface{} `yaml:"world"`
	Bodies    []bodyDoc              `yaml:"bodies"`
	Particles []fluidParticleDoc     `yaml:"particles"`
}

// scene is the decoded, ready-to-run form of a scene document.
type scene struct {
	World *physics.World
}

// loadScene decodes a yaml scene document and builds its World.
func loadScene(data []byte) (*scene, error) {
	var doc sceneDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loadScene: yaml %w", err)
	}

	worldYAML, err := yaml.Marshal(doc.World)
	if err != nil {
		return nil, fmt.Errorf("loadScene: re-encode world block: %w", err)
	}
	cfg, err := physics.WorldCfg(worldYAML)
	if err != nil {
		return nil, fmt.Errorf("loadScene: %w", err)
	}
	w := physics.NewWorldFromCfg(cfg)

	for i, b := range doc.Bodies {
		obj := physics.NewObject(b.Mass, b.Moment, b.Restitution, b.Friction, nil)
		obj.Pos = lin.Vec2{X: b.Pos[0], Y: b.Pos[1]}
		switch b.Shape {
		case "circle":
			physics.NewCircle(obj, b.Radius)
		case "polygon":
			pts := make([]lin.Vec2, len(b.Points))
			for j, p := range b.Points {
				pts[j] = lin.Vec2{X: p[0], Y: p[1]}
			}
			if !physics.CheckWinding(pts) {
				for l, r := 0, len(pts)-1; l < r; l, r = l+1, r-1 {
					pts[l], pts[r] = pts[r], pts[l]
				}
			}
			physics.NewPolygon(obj, pts)
		default:
			return nil, fmt.Errorf("loadScene: body %d: unknown shape %q", i, b.Shape)
		}
		w.AddObject(obj)
	}

	for _, p := range doc.Particles {
		mass := p.Mass
		if mass == 0 {
			mass = 1
		}
		w.AddFluidParticle(
			lin.Vec2{X: p.Pos[0], Y: p.Pos[1]},
			lin.Vec2{X: p.Vel[0], Y: p.Vel[1]},
			lin.Vec3{X: 0.2, Y: 0.4, Z: 0.9},
			mass,
		)
	}

	return &scene{World: w}, nil
}
