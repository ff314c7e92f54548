package systems

import (
	"math"
	"testing"

	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/ecs"
)

type fakeGate struct {
	allow    bool
	calls    int
	resolved int
}

func (g *fakeGate) ShotFired() bool {
	g.calls++
	return g.allow
}

func (g *fakeGate) ShotResolved() { g.resolved++ }

func newTestCannon(gate ShotGate) (*ecs.EntityManager, *CannonSystem) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultCannonConfig()
	return em, NewCannonSystem(em, cfg, ballistics.NewIntegrator(cfg.Easing), gate)
}

func TestCannonDefaults(t *testing.T) {
	_, cannon := newTestCannon(nil)
	aim := cannon.Aim()

	if aim.Yaw != 0 || aim.Pitch != 30 || aim.Power != 20 {
		t.Errorf("aim = %+v, want yaw 0 pitch 30 power 20", aim)
	}
}

func TestCannonDrag(t *testing.T) {
	tests := []struct {
		name      string
		invertY   bool
		dx, dy    float64
		wantYaw   float64
		wantPitch float64
	}{
		{"水平拖动", false, 100, 0, 10, 30},
		{"向上拖动抬高仰角", false, 0, 50, 0, 35},
		{"反转Y轴", true, 0, 50, 0, 25},
		{"仰角上限", false, 0, 10000, 0, 80},
		{"仰角下限", false, 0, -10000, 0, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cannon := newTestCannon(nil)
			cannon.InvertY = tt.invertY
			cannon.Drag(tt.dx, tt.dy)

			aim := cannon.Aim()
			if math.Abs(aim.Yaw-tt.wantYaw) > 1e-9 || math.Abs(aim.Pitch-tt.wantPitch) > 1e-9 {
				t.Errorf("aim = yaw %v pitch %v, want yaw %v pitch %v", aim.Yaw, aim.Pitch, tt.wantYaw, tt.wantPitch)
			}
		})
	}
}

func TestCannonPowerClamped(t *testing.T) {
	_, cannon := newTestCannon(nil)

	cannon.SetPower(5)
	if got := cannon.Aim().Power; got != 10 {
		t.Errorf("Power = %v, want 10", got)
	}
	cannon.AdjustPower(100)
	if got := cannon.Aim().Power; got != 30 {
		t.Errorf("Power = %v, want 30", got)
	}
}

func TestCannonFire(t *testing.T) {
	t.Run("拒绝发射时不生成炮弹", func(t *testing.T) {
		gate := &fakeGate{allow: false}
		em, cannon := newTestCannon(gate)

		if _, ok := cannon.Fire(); ok {
			t.Error("Fire() succeeded while gate refused")
		}
		if gate.calls != 1 {
			t.Errorf("gate called %d times, want 1", gate.calls)
		}
		if n := len(ecs.GetEntitiesWith1[*components.ProjectileComponent](em)); n != 0 {
			t.Errorf("%d projectiles spawned, want 0", n)
		}
	})

	t.Run("发射后生成炮弹", func(t *testing.T) {
		gate := &fakeGate{allow: true}
		em, cannon := newTestCannon(gate)
		cannon.SetBallisticType(ballistics.NoiseDriven)

		id, ok := cannon.Fire()
		if !ok {
			t.Fatal("Fire() refused")
		}
		proj, ok := ecs.GetComponent[*components.ProjectileComponent](em, id)
		if !ok {
			t.Fatal("projectile component missing")
		}
		cfg := cannon.Config()
		if proj.State.Position != cfg.Muzzle {
			t.Errorf("launch position = %v, want %v", proj.State.Position, cfg.Muzzle)
		}
		wantSpeed := 20 * cfg.Easing.InitialSpeedMultiplier
		if math.Abs(proj.State.Velocity.Len()-wantSpeed) > 1e-9 {
			t.Errorf("launch speed = %v, want %v", proj.State.Velocity.Len(), wantSpeed)
		}
		if proj.Params.Type != ballistics.NoiseDriven {
			t.Errorf("projectile type = %v, want noise_driven", proj.Params.Type)
		}

		// 发射后切换类型不影响已发射的炮弹
		cannon.CycleBallisticType()
		if proj.Params.Type != ballistics.NoiseDriven {
			t.Error("in-flight projectile params changed")
		}
	})
}

func TestCannonResetRestoresHome(t *testing.T) {
	_, cannon := newTestCannon(nil)
	cannon.Drag(300, -200)
	cannon.SetPower(12)

	cannon.Reset()

	aim := cannon.Aim()
	if aim.Yaw != 0 || aim.Pitch != 30 || aim.Power != 20 {
		t.Errorf("aim after reset = %+v", aim)
	}
}

func TestPredictionMatchesProjectileFlight(t *testing.T) {
	for _, bt := range []ballistics.BallisticType{ballistics.Curving, ballistics.ImpulseChange, ballistics.NoiseDriven} {
		t.Run(bt.String(), func(t *testing.T) {
			em, cannon := newTestCannon(&fakeGate{allow: true})
			cannon.SetBallisticType(bt)
			cannon.Config().ImpulseTiming = 0.9
			cannon.Config().PredictionSteps = 70
			cannon.Drag(120, 40)

			points := cannon.Prediction()
			if len(points) != cannon.Config().PredictionSteps+1 {
				t.Fatalf("len(points) = %d, want %d", len(points), cannon.Config().PredictionSteps+1)
			}

			id, ok := cannon.Fire()
			if !ok {
				t.Fatal("Fire() refused")
			}
			ps := NewProjectileSystem(em, cannon.integrator, nil, nil)
			proj, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)

			for i := 1; i < len(points); i++ {
				ps.Update(cannon.Config().PredictionStep)
				if d := proj.State.Position.Distance(points[i]); d > 1e-9 {
					t.Fatalf("step %d: live %v, predicted %v (deviation %g)", i, proj.State.Position, points[i], d)
				}
			}
		})
	}
}

func TestCannonFireReleasesShotWhenSpawnFails(t *testing.T) {
	gate := &fakeGate{allow: true}
	em, cannon := newTestCannon(gate)
	cannon.integrator = nil

	if _, ok := cannon.Fire(); ok {
		t.Fatal("Fire() succeeded without an integrator")
	}
	if gate.calls != 1 || gate.resolved != 1 {
		t.Errorf("gate calls = %d resolved = %d, want 1 and 1", gate.calls, gate.resolved)
	}
	if n := len(ecs.GetEntitiesWith1[*components.ProjectileComponent](em)); n != 0 {
		t.Errorf("projectile entities = %d, want 0", n)
	}
}
