package stage

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/utils"
)

func boolPtr(b bool) *bool { return &b }

func newStage(n int, even bool) *config.StageConfig {
	return &config.StageConfig{
		Name:             "test",
		TargetCount:      n,
		ScoreRange:       config.IntRange{Min: 50, Max: 200},
		TargetRadius:     0.5,
		HeightRange:      config.Range{Min: 1, Max: 10},
		MinSeparation:    2,
		EvenDistribution: boolPtr(even),
		WindStrength:     1,
	}
}

var wideVolume = &config.SpawnVolume{Center: utils.V3(0, 0, 30), Size: utils.V3(40, 0, 40)}

// TestGenerateExactCountWithSeparation 区域足够大时生成数量精确且两两间距满足约束
func TestGenerateExactCountWithSeparation(t *testing.T) {
	for _, even := range []bool{true, false} {
		name := "rejection"
		if even {
			name = "grid"
		}
		t.Run(name, func(t *testing.T) {
			g := NewGenerator(rand.New(rand.NewSource(42)), 30)
			cfg := newStage(9, even)

			r, err := g.Generate(cfg, wideVolume)
			if err != nil {
				t.Fatalf("Generate() failed: %v", err)
			}
			if r.Generated() != 9 || r.Skipped != 0 || r.UnderGenerated() {
				t.Fatalf("generated %d (skipped %d), want 9", r.Generated(), r.Skipped)
			}

			for i := 0; i < len(r.Targets); i++ {
				for j := i + 1; j < len(r.Targets); j++ {
					if d := r.Targets[i].Position.Distance(r.Targets[j].Position); d < cfg.MinSeparation {
						t.Errorf("targets %d and %d are %.3f apart, want >= %v", i, j, d, cfg.MinSeparation)
					}
				}
			}
		})
	}
}

func TestGenerateTargetAttributes(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(7)), 30)
	cfg := newStage(6, false)

	r, err := g.Generate(cfg, wideVolume)
	if err != nil {
		t.Fatal(err)
	}
	for i, tg := range r.Targets {
		if tg.ID != i+1 {
			t.Errorf("target %d: ID = %d", i, tg.ID)
		}
		if tg.ScoreValue < 50 || tg.ScoreValue > 200 {
			t.Errorf("target %d: score %d outside [50, 200]", i, tg.ScoreValue)
		}
		y := tg.Position.Y - wideVolume.Center.Y
		if y < 1 || y > 10 {
			t.Errorf("target %d: height %v outside heightRange", i, y)
		}
		if math.Abs(tg.Position.X) > 20 || math.Abs(tg.Position.Z-30) > 20 {
			t.Errorf("target %d: position %v outside spawn volume", i, tg.Position)
		}
		if !tg.Destructible || tg.Motion != nil || tg.Home != tg.Position {
			t.Errorf("target %d: unexpected attributes %+v", i, tg)
		}
	}
}

// TestGridCellMembership 网格分布时第 i 个标靶落在第 (i/g, i%g) 个单元格的 [0.1, 0.9] 区间内
func TestGridCellMembership(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(3)), 30)
	cfg := newStage(4, true)
	cfg.AllowOverlap = true

	r, err := g.Generate(cfg, wideVolume)
	if err != nil {
		t.Fatal(err)
	}
	const grid, cell = 2, 20.0
	for i, tg := range r.Targets {
		row, col := i/grid, i%grid
		localX := tg.Position.X - wideVolume.Center.X + 20
		localZ := tg.Position.Z - wideVolume.Center.Z + 20
		fx := localX/cell - float64(col)
		fz := localZ/cell - float64(row)
		if fx < 0.1-1e-9 || fx > 0.9+1e-9 || fz < 0.1-1e-9 || fz > 0.9+1e-9 {
			t.Errorf("target %d at cell fraction (%.3f, %.3f), want within [0.1, 0.9]", i, fx, fz)
		}
	}
}

// TestPlacementExhaustionSkipsSlot 尝试次数耗尽时跳过该标靶，继续生成其余标靶
func TestPlacementExhaustionSkipsSlot(t *testing.T) {
	point := &config.SpawnVolume{Center: utils.V3(0, 0, 10), Size: utils.Zero}
	cfg := newStage(3, false)
	cfg.HeightRange = config.Range{Min: 2, Max: 2}

	r, err := NewGenerator(rand.New(rand.NewSource(1)), 30).Generate(cfg, point)
	if err != nil {
		t.Fatalf("exhaustion must not be an error: %v", err)
	}
	if r.Generated() != 1 || r.Skipped != 2 || r.Requested != 3 {
		t.Errorf("generated=%d skipped=%d requested=%d, want 1/2/3", r.Generated(), r.Skipped, r.Requested)
	}
	if !r.UnderGenerated() {
		t.Error("UnderGenerated() should be true")
	}

	cfg.AllowOverlap = true
	r, err = NewGenerator(rand.New(rand.NewSource(1)), 30).Generate(cfg, point)
	if err != nil {
		t.Fatal(err)
	}
	if r.Generated() != 3 {
		t.Errorf("allowOverlap: generated %d, want 3", r.Generated())
	}
}

func TestPlacementAvoidsObstacles(t *testing.T) {
	cfg := newStage(5, false)
	cfg.Obstacles = []collision.Shape{
		collision.BoxShape(utils.V3(0, 5, 30), utils.V3(30, 30, 30)),
	}
	r, err := NewGenerator(rand.New(rand.NewSource(5)), 10).Generate(cfg, wideVolume)
	if err != nil {
		t.Fatal(err)
	}
	if r.Generated() != 0 || r.Skipped != 5 {
		t.Errorf("generated=%d skipped=%d, want every slot blocked", r.Generated(), r.Skipped)
	}

	// 风区不算障碍
	cfg.Obstacles = nil
	cfg.Surfaces = []collision.Collider{{ID: 1, Category: collision.WindVolume, Shape: collision.BoxShape(utils.V3(0, 5, 30), utils.V3(30, 30, 30))}}
	r, err = NewGenerator(rand.New(rand.NewSource(5)), 30).Generate(cfg, wideVolume)
	if err != nil {
		t.Fatal(err)
	}
	if r.Generated() != 5 {
		t.Errorf("wind volume should not block placement, generated %d", r.Generated())
	}
}

func TestGenerateNoSpawnVolume(t *testing.T) {
	_, err := NewGenerator(nil, 0).Generate(newStage(3, true), nil)
	if !errors.Is(err, ErrNoSpawnVolume) {
		t.Errorf("err = %v, want ErrNoSpawnVolume", err)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	cfg := newStage(5, false)
	a, _ := NewGenerator(rand.New(rand.NewSource(99)), 30).Generate(cfg, wideVolume)
	b, _ := NewGenerator(rand.New(rand.NewSource(99)), 30).Generate(cfg, wideVolume)
	for i := range a.Targets {
		if a.Targets[i].Position != b.Targets[i].Position || a.Targets[i].ScoreValue != b.Targets[i].ScoreValue {
			t.Fatalf("target %d differs between runs with the same seed", i)
		}
	}
}

func TestGenerateWindAndMovingTargets(t *testing.T) {
	cfg := newStage(6, true)
	cfg.WindEnabled = true
	cfg.WindStrength = 2.5
	cfg.MovingTargetsEnabled = true
	cfg.MovingTargetSpeed = 1.5

	r, err := NewGenerator(rand.New(rand.NewSource(11)), 30).Generate(cfg, wideVolume)
	if err != nil {
		t.Fatal(err)
	}
	if !r.WindEnabled || r.Wind.Strength != 2.5 {
		t.Errorf("wind = %+v enabled=%v", r.Wind, r.WindEnabled)
	}
	if r.Wind.Direction.Y != 0 || math.Abs(r.Wind.Direction.Len()-1) > 1e-9 {
		t.Errorf("wind direction %v should be a horizontal unit vector", r.Wind.Direction)
	}

	for i, tg := range r.Targets {
		if tg.Motion == nil {
			t.Fatalf("target %d has no motion", i)
		}
		if tg.Motion.Distance < 2 || tg.Motion.Distance > 5 || tg.Motion.Speed != 1.5 {
			t.Errorf("target %d motion = %+v", i, tg.Motion)
		}
	}

	cfg.WindEnabled = false
	r, _ = NewGenerator(rand.New(rand.NewSource(11)), 30).Generate(cfg, wideVolume)
	if r.WindEnabled {
		t.Error("wind should be disabled")
	}
}
