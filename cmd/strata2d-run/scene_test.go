// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import "testing"

func TestLoadSceneBuildsWorldWithBodiesAndParticles(t *testing.T) {
	doc := []byte(`
world:
  gravity: {x: 0, y: -10}
bodies:
  - shape: circle
    radius: 1
    pos: [0, 5]
    mass: 1
    moment: 1
    restitution: 0.2
    friction: 0.3
  - shape: polygon
    points: [[-5, -1], [5, -1], [5, 1], [-5, 1]]
    pos: [0, -2]
    mass: -1
    moment: -1
particles:
  - pos: [0, 0]
    vel: [0, 0]
    mass: 1
`)

	sc, err := loadScene(doc)
	if err != nil {
		t.Fatalf("loadScene returned an error: %v", err)
	}
	if got := len(sc.World.Objects()); got != 2 {
		t.Errorf("expected 2 bodies, got %d", got)
	}
	if got := len(sc.World.FluidParticles()); got != 1 {
		t.Errorf("expected 1 fluid particle, got %d", got)
	}
}

func TestLoadSceneRejectsUnknownShape(t *testing.T) {
	doc := []byte(`
bodies:
  - shape: triangle
    pos: [0, 0]
`)
	if _, err := loadScene(doc); err == nil {
		t.Error("loadScene should reject an unrecognized body shape")
	}
}

func TestLoadSceneRejectsMalformedYAML(t *testing.T) {
	if _, err := loadScene([]byte("bodies: [not, valid")); err == nil {
		t.Error("loadScene should reject malformed yaml")
	}
}
