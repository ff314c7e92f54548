package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/cannon/pkg/collision"
)

const testStagesYAML = `
maxPlacementAttempts: 40
defaultSpawnVolume:
  center: {x: 0, y: 0, z: 30}
  size: {x: 20, y: 0, z: 20}
stages:
  - name: "Warm Up"
    targetCount: 3
    requiredDestroyCount: 2
    shotLimit: 3
    timeLimit: 60
  - name: "Windy"
    unlocked: false
    targetCount: 5
    requiredDestroyCount: 999
    evenDistribution: false
    windEnabled: true
    windStrength: 2.5
    movingTargetsEnabled: true
    scoreRange: {min: 100, max: 300}
    spawnVolume:
      center: {x: 0, y: 2, z: 40}
      size: {x: 30, y: 0, z: 10}
    surfaces:
      - category: reflective_wall
        shape: {kind: box, center: {x: 10, y: 5, z: 30}, halfExtents: {x: 0.5, y: 5, z: 10}}
      - category: teleport_volume
        shape: {kind: sphere, center: {x: -5, y: 5, z: 20}, radius: 1.5}
        exit:
          position: {x: 5, y: 8, z: 35}
          forward: {x: 0, y: 0, z: 1}
      - category: wind_volume
        shape: {kind: box, center: {x: 0, y: 5, z: 25}, halfExtents: {x: 3, y: 3, z: 3}}
`

func TestParseStageCollection(t *testing.T) {
	c, err := ParseStageCollection([]byte(testStagesYAML))
	if err != nil {
		t.Fatalf("ParseStageCollection() failed: %v", err)
	}

	if c.Count() != 2 {
		t.Fatalf("Expected 2 stages, got %d", c.Count())
	}
	if c.MaxPlacementAttempts != 40 {
		t.Errorf("Expected maxPlacementAttempts 40, got %d", c.MaxPlacementAttempts)
	}

	warmUp := c.Stages[0]
	if warmUp.TargetCount != 3 || warmUp.RequiredDestroyCount != 2 || warmUp.ShotLimit != 3 || warmUp.TimeLimit != 60 {
		t.Errorf("Warm Up stage parsed wrong: %+v", warmUp)
	}
	if !warmUp.IsUnlocked() || !warmUp.IsEvenDistribution() {
		t.Error("unlocked and evenDistribution should default to true")
	}
	if c.SpawnVolumeFor(&warmUp) != c.DefaultSpawnVolume {
		t.Error("stage without spawnVolume should use the collection default")
	}

	windy := c.Stages[1]
	if windy.IsUnlocked() || windy.IsEvenDistribution() {
		t.Error("explicit false flags were not honored")
	}
	if windy.RequiredDestroyCount != 999 {
		t.Errorf("requiredDestroyCount should be kept for clamping at generation time, got %d", windy.RequiredDestroyCount)
	}
	if windy.ScoreRange != (IntRange{Min: 100, Max: 300}) {
		t.Errorf("scoreRange = %+v", windy.ScoreRange)
	}
	if len(windy.Surfaces) != 3 {
		t.Fatalf("Expected 3 surfaces, got %d", len(windy.Surfaces))
	}
	if windy.Surfaces[0].Category != collision.ReflectiveWall || windy.Surfaces[0].Shape.Kind != collision.Box {
		t.Errorf("surface 0 = %+v", windy.Surfaces[0])
	}
	if windy.Surfaces[1].Exit == nil || windy.Surfaces[1].Exit.Position.Y != 8 {
		t.Errorf("teleport exit not parsed: %+v", windy.Surfaces[1].Exit)
	}
	for i, s := range windy.Surfaces {
		if s.ID != i+1 {
			t.Errorf("surface %d: ID = %d, want %d", i, s.ID, i+1)
		}
	}
}

func TestApplyStageDefaults(t *testing.T) {
	c, err := ParseStageCollection([]byte("stages:\n  - {}\n"))
	if err != nil {
		t.Fatalf("ParseStageCollection() failed: %v", err)
	}
	s := c.Stages[0]

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"name", s.Name, "Stage 1"},
		{"targetCount", s.TargetCount, DefaultTargetCount},
		{"requiredDestroyCount", s.RequiredDestroyCount, DefaultRequiredDestroyCount},
		{"timeLimit", s.TimeLimit, DefaultTimeLimit},
		{"shotLimit", s.ShotLimit, DefaultShotLimit},
		{"scoreRange", s.ScoreRange, IntRange{Min: 50, Max: 200}},
		{"heightRange", s.HeightRange, Range{Min: 1, Max: 10}},
		{"minSeparation", s.MinSeparation, DefaultMinSeparation},
		{"targetRadius", s.TargetRadius, DefaultTargetRadius},
		{"maxPlacementAttempts", c.MaxPlacementAttempts, DefaultMaxPlacementAttempts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestStageCollectionValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty", "stages: []\n", "at least one stage"},
		{"negative shots", "stages:\n  - shotLimit: -1\n", "shotLimit cannot be negative"},
		{"score range inverted", "stages:\n  - scoreRange: {min: 10, max: 5}\n", "scoreRange"},
		{"height range inverted", "stages:\n  - heightRange: {min: 10, max: 5}\n", "heightRange"},
		{"unknown category", "stages:\n  - surfaces:\n      - category: lava\n", "unknown collider category"},
		{"teleport without exit", "stages:\n  - surfaces:\n      - category: teleport_volume\n        shape: {kind: sphere, radius: 1}\n", "no exit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStageCollection([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGetStageClampsInvalidIndex(t *testing.T) {
	c, err := ParseStageCollection([]byte(testStagesYAML))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		index int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 0},
		{-1, 0},
		{999, 0},
	}
	for _, tt := range tests {
		s, got := c.GetStage(tt.index)
		if got != tt.want || s != &c.Stages[tt.want] {
			t.Errorf("GetStage(%d) = index %d, want %d", tt.index, got, tt.want)
		}
	}

	empty := &StageCollection{}
	if s, i := empty.GetStage(3); s != nil || i != 0 {
		t.Errorf("empty collection GetStage = (%v, %d), want (nil, 0)", s, i)
	}
}

func TestLoadStageCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stages.yaml")
	if err := os.WriteFile(path, []byte(testStagesYAML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	c, err := LoadStageCollection(path)
	if err != nil {
		t.Fatalf("LoadStageCollection() failed: %v", err)
	}
	if c.Count() != 2 {
		t.Errorf("Expected 2 stages, got %d", c.Count())
	}

	if _, err := LoadStageCollection(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
