package ballistics

import (
	"errors"
	"math"
	"testing"

	"github.com/decker502/cannon/pkg/utils"
)

const eps = 1e-9

func testParams(t BallisticType) Params {
	p, err := Params{
		Direction:        utils.DirectionFromAngles(10, 30),
		BasePower:        20,
		Type:             t,
		CurveFactor:      2,
		ImpulseTiming:    1.5,
		GravityDirection: utils.V3(0, -1, 0),
		GravityStrength:  DefaultGravityStrength,
	}.Normalized()
	if err != nil {
		panic(err)
	}
	return p
}

func near(a, b utils.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

// TestPredictionMatchesLiveFlight 预测线与实际飞行在相同时间点的位置一致
func TestPredictionMatchesLiveFlight(t *testing.T) {
	for _, bt := range []BallisticType{Curving, ImpulseChange} {
		t.Run(bt.String(), func(t *testing.T) {
			in := NewIntegrator(DefaultEasing())
			p := testParams(bt)
			origin := utils.V3(0, 1, 0)

			predicted := in.Predict(origin, p, 150, PredictionStep)
			live := in.Simulate(origin, p, 150, PredictionStep, nil)

			if len(predicted) != len(live) {
				t.Fatalf("predicted %d points, live %d states", len(predicted), len(live))
			}
			for i := range predicted {
				if !near(predicted[i], live[i].Position, eps) {
					t.Fatalf("step %d: predicted %v, live %v", i, predicted[i], live[i].Position)
				}
			}
		})
	}
}

// TestLiveFlightStepByStep 逐帧推进（模拟帧回调）与预测线一致
func TestLiveFlightStepByStep(t *testing.T) {
	in := NewIntegrator(DefaultEasing())
	p := testParams(Curving)
	origin := utils.V3(1, 2, 3)

	predicted := in.Predict(origin, p, 60, PredictionStep)
	s := in.Launch(origin, p)
	for i := 1; i < len(predicted); i++ {
		s = in.Step(s, p, PredictionStep, utils.Zero)
		if !near(predicted[i], s.Position, eps) {
			t.Fatalf("frame %d: predicted %v, live %v", i, predicted[i], s.Position)
		}
	}
}

// TestImpulseFiresExactlyOnce 重力突变弹在 ImpulseTiming 前后出现且仅出现一次速度跳变
func TestImpulseFiresExactlyOnce(t *testing.T) {
	in := NewIntegrator(DefaultEasing())
	p := testParams(ImpulseChange)
	states := in.Simulate(utils.Zero, p, 240, PredictionStep, nil)

	kick := utils.Up.Scale(p.CurveFactor * ImpulseMultiplier)
	gravity := GravityDelta(p, PredictionStep)

	jumps := 0
	for i := 1; i < len(states); i++ {
		prev, cur := states[i-1], states[i]
		if !prev.EaseDone {
			continue
		}
		dv := cur.Velocity.Sub(prev.Velocity).Sub(gravity)
		switch {
		case near(dv, kick, 1e-6):
			jumps++
			if prev.Elapsed >= p.ImpulseTiming || cur.Elapsed < p.ImpulseTiming {
				t.Errorf("impulse fired between %.4f and %.4f, timing %.4f", prev.Elapsed, cur.Elapsed, p.ImpulseTiming)
			}
			if prev.ImpulseFired || !cur.ImpulseFired {
				t.Errorf("ImpulseFired latch wrong: prev=%v cur=%v", prev.ImpulseFired, cur.ImpulseFired)
			}
		case dv.Len() > 1e-6:
			t.Errorf("unexpected velocity change %v at t=%.4f", dv, cur.Elapsed)
		}
	}
	if jumps != 1 {
		t.Fatalf("impulse jumps = %d, want exactly 1", jumps)
	}
}

// TestImpulseInsideEasing 缓动期内触发的冲量不改变速度大小
func TestImpulseInsideEasing(t *testing.T) {
	in := NewIntegrator(DefaultEasing())
	p := testParams(ImpulseChange)
	p.ImpulseTiming = 0.3
	states := in.Simulate(utils.Zero, p, 60, PredictionStep, nil)

	fired := -1
	for i, s := range states {
		if s.ImpulseFired {
			fired = i
			break
		}
	}
	if fired < 1 {
		t.Fatalf("impulse never fired within %d steps", len(states))
	}

	cur := states[fired]
	if cur.EaseDone {
		t.Fatalf("impulse fired at %.4f after easing ended", cur.Elapsed)
	}
	mag, _ := in.Easing.Magnitude(p.BasePower, cur.Elapsed)
	if got := cur.Velocity.Len(); math.Abs(got-mag) > 1e-9 {
		t.Errorf("speed at impulse = %v, want eased %v", got, mag)
	}
}

// TestEaseOutSchedule 缓动期间速度大小遵循 1-(1-t)² 曲线，结束后等于 basePower
func TestEaseOutSchedule(t *testing.T) {
	easing := DefaultEasing()
	in := NewIntegrator(easing)
	p := testParams(Curving)
	p.CurveFactor = 0
	p.GravityStrength = 0

	s := in.Launch(utils.Zero, p)
	if got, want := s.Velocity.Len(), p.BasePower*1.7; math.Abs(got-want) > eps {
		t.Fatalf("launch speed = %v, want %v", got, want)
	}

	for i := 0; i < 120; i++ {
		s = in.Step(s, p, PredictionStep, utils.Zero)
		want, active := easing.Magnitude(p.BasePower, s.Elapsed)
		if math.Abs(s.Velocity.Len()-want) > 1e-9 {
			t.Fatalf("t=%.4f speed = %v, want %v", s.Elapsed, s.Velocity.Len(), want)
		}
		if !active && !s.EaseDone {
			t.Fatalf("t=%.4f ease should be done", s.Elapsed)
		}
	}
	if math.Abs(s.Velocity.Len()-p.BasePower) > eps {
		t.Errorf("final speed = %v, want basePower %v", s.Velocity.Len(), p.BasePower)
	}
	if !near(s.Velocity.Normalized(), p.Direction, 1e-9) {
		t.Errorf("direction should be preserved without forces: %v vs %v", s.Velocity.Normalized(), p.Direction)
	}
}

func TestEasingMagnitude(t *testing.T) {
	e := DefaultEasing()
	tests := []struct {
		name    string
		elapsed float64
		want    float64
		active  bool
	}{
		{"起点", 0, 17, true},
		{"中点", 0.4, 17 + (10-17)*0.75, true},
		{"结束", 0.8, 10, false},
		{"之后", 3, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, active := e.Magnitude(10, tt.elapsed)
			if math.Abs(got-tt.want) > 1e-9 || active != tt.active {
				t.Errorf("Magnitude(10, %v) = (%v, %v), want (%v, %v)", tt.elapsed, got, active, tt.want, tt.active)
			}
		})
	}

	disabled := Easing{}
	if got := disabled.LaunchSpeed(10); got != 10 {
		t.Errorf("disabled easing launch speed = %v, want 10", got)
	}
}

// TestCurvingDeflectsSideways 旋转弹向 cross(heading, up) 方向偏转
func TestCurvingDeflectsSideways(t *testing.T) {
	in := NewIntegrator(Easing{})
	p, _ := Params{
		Direction:   utils.Fwd,
		BasePower:   10,
		Type:        Curving,
		CurveFactor: 5,
	}.Normalized()

	s := in.Launch(utils.Zero, p)
	for i := 0; i < 60; i++ {
		s = in.Step(s, p, PredictionStep, utils.Zero)
	}
	if s.Position.X >= 0 {
		t.Errorf("curving shot heading +Z should drift toward -X, got X=%v", s.Position.X)
	}
	if math.Abs(s.Position.Y) > eps {
		t.Errorf("curving force must stay horizontal without gravity, got Y=%v", s.Position.Y)
	}
}

// TestNoiseDrivenDeterministic 随风弹在相同参数下两次模拟结果一致
func TestNoiseDrivenDeterministic(t *testing.T) {
	in := NewIntegrator(DefaultEasing())
	p := testParams(NoiseDriven)

	a := in.Simulate(utils.Zero, p, 120, PredictionStep, nil)
	b := in.Simulate(utils.Zero, p, 120, PredictionStep, nil)
	for i := range a {
		if a[i].Position != b[i].Position {
			t.Fatalf("step %d diverged: %v vs %v", i, a[i].Position, b[i].Position)
		}
	}

	for _, elapsed := range []float64{0.13, 0.5, 2.71} {
		f := NoiseForce(elapsed, 3)
		if f.Len() > 3+eps {
			t.Errorf("NoiseForce(%v) magnitude %v exceeds curveFactor", elapsed, f.Len())
		}
	}
}

func TestMaxLifetimeExpires(t *testing.T) {
	in := NewIntegrator(DefaultEasing())
	p := testParams(Curving)
	p.GravityStrength = 0

	states := in.Simulate(utils.Zero, p, 1000, PredictionStep, nil)
	last := states[len(states)-1]
	if last.Elapsed > MaxLifetime+eps {
		t.Errorf("last live state elapsed %v exceeds MaxLifetime", last.Elapsed)
	}
	if len(states) >= 1000 {
		t.Errorf("simulation should stop at max lifetime, got %d states", len(states))
	}

	s := last
	for !s.Expired {
		s = in.Step(s, p, PredictionStep, utils.Zero)
	}
	if s.Elapsed <= MaxLifetime {
		t.Errorf("expired at %v, want > %v", s.Elapsed, MaxLifetime)
	}
}

func TestParamsNormalized(t *testing.T) {
	t.Run("零方向被拒绝", func(t *testing.T) {
		_, err := Params{Direction: utils.Zero, BasePower: 10}.Normalized()
		if !errors.Is(err, ErrZeroDirection) {
			t.Errorf("err = %v, want ErrZeroDirection", err)
		}
	})

	t.Run("NaN方向被拒绝", func(t *testing.T) {
		_, err := Params{Direction: utils.V3(math.NaN(), 0, 1), BasePower: 10}.Normalized()
		if !errors.Is(err, ErrZeroDirection) {
			t.Errorf("err = %v, want ErrZeroDirection", err)
		}
	})

	t.Run("非正速度被拒绝", func(t *testing.T) {
		_, err := Params{Direction: utils.Fwd, BasePower: 0}.Normalized()
		if !errors.Is(err, ErrInvalidPower) {
			t.Errorf("err = %v, want ErrInvalidPower", err)
		}
	})

	t.Run("方向被归一化", func(t *testing.T) {
		p, err := Params{Direction: utils.V3(0, 0, 5), BasePower: 10, GravityDirection: utils.V3(0, -3, 0), GravityStrength: 9.81}.Normalized()
		if err != nil {
			t.Fatal(err)
		}
		if !near(p.Direction, utils.Fwd, eps) {
			t.Errorf("Direction = %v, want %v", p.Direction, utils.Fwd)
		}
		if !near(p.GravityDirection, utils.V3(0, -1, 0), eps) {
			t.Errorf("GravityDirection = %v", p.GravityDirection)
		}
	})

	t.Run("退化重力方向禁用重力", func(t *testing.T) {
		p, err := Params{Direction: utils.Fwd, BasePower: 10, GravityStrength: 9.81}.Normalized()
		if err != nil {
			t.Fatal(err)
		}
		if p.GravityStrength != 0 {
			t.Errorf("GravityStrength = %v, want 0", p.GravityStrength)
		}
	})
}

// TestNonFiniteStateRejected 非有限状态不会传播
func TestNonFiniteStateRejected(t *testing.T) {
	in := NewIntegrator(Easing{})
	p := testParams(Curving)

	s := State{Position: utils.V3(1, 2, 3), Velocity: utils.V3(math.NaN(), 0, 0), EaseDone: true}
	next := in.Step(s, p, PredictionStep, utils.Zero)
	if !next.Expired {
		t.Fatal("non-finite velocity should expire the projectile")
	}
	if next.Position != s.Position {
		t.Errorf("position should be kept, got %v", next.Position)
	}

	// 非有限风场被忽略
	ok := in.Launch(utils.Zero, p)
	next = in.Step(ok, p, PredictionStep, utils.V3(math.Inf(1), 0, 0))
	if next.Expired || !next.Position.IsFinite() {
		t.Errorf("non-finite ambient should be ignored, got %+v", next)
	}
}

func TestParseBallisticType(t *testing.T) {
	tests := []struct {
		in   string
		want BallisticType
		ok   bool
	}{
		{"curving", Curving, true},
		{"Impulse_Change", ImpulseChange, true},
		{" noise_driven ", NoiseDriven, true},
		{"magnus", Curving, false},
	}
	for _, tt := range tests {
		got, err := ParseBallisticType(tt.in)
		if (err == nil) != tt.ok || (tt.ok && got != tt.want) {
			t.Errorf("ParseBallisticType(%q) = (%v, %v)", tt.in, got, err)
		}
	}
	if NoiseDriven.Next() != Curving {
		t.Errorf("NoiseDriven.Next() = %v, want Curving", NoiseDriven.Next())
	}
}

func TestPredictEdgeCases(t *testing.T) {
	in := NewIntegrator(DefaultEasing())
	p := testParams(Curving)
	if pts := in.Predict(utils.Zero, p, 0, PredictionStep); pts != nil {
		t.Errorf("Predict with 0 steps should return nil, got %d points", len(pts))
	}
	pts := in.Predict(utils.V3(0, 5, 0), p, 30, 0)
	if len(pts) != 31 {
		t.Fatalf("Predict returned %d points, want 31", len(pts))
	}
	if pts[0] != utils.V3(0, 5, 0) {
		t.Errorf("first point should be the origin, got %v", pts[0])
	}
}
