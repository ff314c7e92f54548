package entities

import (
	"math"
	"testing"

	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/stage"
	"github.com/decker502/cannon/pkg/utils"
)

func TestNewProjectileEntity(t *testing.T) {
	tests := []struct {
		name      string
		easing    ballistics.Easing
		power     float64
		wantSpeed float64
	}{
		{name: "无缓动时以基础速度发射", easing: ballistics.Easing{}, power: 20, wantSpeed: 20},
		{name: "缓动时按初速倍率发射", easing: ballistics.Easing{Duration: 0.8, InitialSpeedMultiplier: 1.5}, power: 20, wantSpeed: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			origin := utils.V3(0, 1, 0)
			p := ballistics.Params{Direction: utils.Fwd, BasePower: tt.power, Type: ballistics.Curving}

			id, err := NewProjectileEntity(em, ballistics.NewIntegrator(tt.easing), origin, p)
			if err != nil {
				t.Fatalf("NewProjectileEntity() error = %v", err)
			}

			proj, ok := ecs.GetComponent[*components.ProjectileComponent](em, id)
			if !ok {
				t.Fatal("projectile entity should have ProjectileComponent")
			}
			if proj.State.Position != origin {
				t.Errorf("position = %v, want %v", proj.State.Position, origin)
			}
			if got := proj.State.Velocity.Len(); math.Abs(got-tt.wantSpeed) > 1e-9 {
				t.Errorf("launch speed = %v, want %v", got, tt.wantSpeed)
			}
			if len(proj.Trail) != 1 || proj.Trail[0] != origin {
				t.Errorf("trail = %v, want [origin]", proj.Trail)
			}
			if proj.Params.Type != ballistics.Curving {
				t.Errorf("type = %v, want curving", proj.Params.Type)
			}
		})
	}
}

func TestNewProjectileEntityNilArgs(t *testing.T) {
	p := ballistics.Params{Direction: utils.Fwd, BasePower: 10}

	if _, err := NewProjectileEntity(nil, ballistics.NewIntegrator(ballistics.Easing{}), utils.Zero, p); err == nil {
		t.Error("nil entity manager should return error")
	}
	if _, err := NewProjectileEntity(ecs.NewEntityManager(), nil, utils.Zero, p); err == nil {
		t.Error("nil integrator should return error")
	}
}

func TestNewCannonEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	id := NewCannonEntity(em, components.CannonComponent{Yaw: 10, Pitch: 30, Power: 15})

	aim, ok := ecs.GetComponent[*components.CannonComponent](em, id)
	if !ok {
		t.Fatal("cannon entity should have CannonComponent")
	}
	if aim.Yaw != 10 || aim.Pitch != 30 || aim.Power != 15 {
		t.Errorf("aim = %+v", aim)
	}
}

func TestStageEntities(t *testing.T) {
	em := ecs.NewEntityManager()
	target := &stage.TargetInstance{ID: 3, Position: utils.V3(0, 2, 20), Radius: 1, ScoreValue: 10, Destructible: true}
	wall := &collision.Collider{ID: 7, Category: collision.ReflectiveWall, Shape: collision.BoxShape(utils.V3(0, 5, 40), utils.V3(10, 5, 0.5))}

	targetID := NewTargetEntity(em, target)
	surfaceID := NewSurfaceEntity(em, wall)

	tc, ok := ecs.GetComponent[*components.TargetComponent](em, targetID)
	if !ok || tc.Instance != target {
		t.Errorf("target component = %+v, want instance %d", tc, target.ID)
	}
	sc, ok := ecs.GetComponent[*components.SurfaceComponent](em, surfaceID)
	if !ok || sc.Collider != wall {
		t.Errorf("surface component = %+v, want collider %d", sc, wall.ID)
	}
	if got := len(ecs.GetEntitiesWith1[*components.TargetComponent](em)); got != 1 {
		t.Errorf("target entities = %d, want 1", got)
	}
}
