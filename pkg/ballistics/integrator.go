package ballistics

import (
	"github.com/decker502/cannon/pkg/utils"
)

// Easing 出膛减速参数
//
// 发射瞬间速度为 basePower * InitialSpeedMultiplier，
// 在 Duration 秒内按 1-(1-t)² 缓出到 basePower。
// 缓动期间只控制速度大小，方向仍由受力决定。
type Easing struct {
	Duration               float64 `yaml:"duration"`               // 缓动时长（秒），<=0 表示不缓动
	InitialSpeedMultiplier float64 `yaml:"initialSpeedMultiplier"` // 初速倍率
}

// DefaultEasing 返回默认缓动参数（0.8 秒，1.7 倍初速）
func DefaultEasing() Easing {
	return Easing{
		Duration:               0.8,
		InitialSpeedMultiplier: 1.7,
	}
}

// Enabled 是否启用缓动
func (e Easing) Enabled() bool {
	return e.Duration > 0
}

// LaunchSpeed 发射瞬间的速度大小
func (e Easing) LaunchSpeed(basePower float64) float64 {
	if !e.Enabled() || e.InitialSpeedMultiplier <= 0 {
		return basePower
	}
	return basePower * e.InitialSpeedMultiplier
}

// Magnitude 计算 elapsed 时刻的速度大小
//
// 返回：
//   - float64: 速度大小
//   - bool: 缓动是否仍在进行（elapsed < Duration）
func (e Easing) Magnitude(basePower, elapsed float64) (float64, bool) {
	if !e.Enabled() || elapsed >= e.Duration {
		return basePower, false
	}
	t := utils.Clamp01(elapsed / e.Duration)
	return utils.Lerp(e.LaunchSpeed(basePower), basePower, utils.EaseOutQuad(t)), true
}

// Integrator 固定步长显式欧拉积分器
type Integrator struct {
	Easing      Easing
	MaxLifetime float64
}

// NewIntegrator 创建积分器
func NewIntegrator(easing Easing) *Integrator {
	return &Integrator{
		Easing:      easing,
		MaxLifetime: MaxLifetime,
	}
}

// Launch 创建发射瞬间的炮弹状态
// p 必须已经过 Params.Normalized 校验
func (in *Integrator) Launch(origin utils.Vec3, p Params) State {
	s := State{
		Position: origin,
		Velocity: p.Direction.Scale(in.Easing.LaunchSpeed(p.BasePower)),
		EaseDone: !in.Easing.Enabled(),
	}
	return s
}

// Step 推进一个步长
//
// 更新顺序（实际飞行与预测线共用）：
//  1. elapsed += dt，超过最大存活时间则标记 Expired 并返回
//  2. velocity += 重力项 + 类型力项 + ambient * dt
//  3. 缓动期间：velocity = normalize(velocity) * 缓动速度；缓动结束的那一步把大小设为 basePower
//  4. position += velocity * dt
//
// 任何非有限结果都会被拒绝：保留上一步的位置与速度并标记 Expired。
//
// 参数：
//   - s: 当前状态
//   - p: 已归一化的弹道参数
//   - dt: 步长（秒）
//   - ambient: 环境加速度（风场），没有时传零向量
func (in *Integrator) Step(s State, p Params, dt float64, ambient utils.Vec3) State {
	if s.Expired || dt <= 0 {
		return s
	}

	next := s
	next.Elapsed += dt

	maxLife := in.MaxLifetime
	if maxLife <= 0 {
		maxLife = MaxLifetime
	}
	if next.Elapsed > maxLife {
		next.Expired = true
		return next
	}

	v := next.Velocity
	v = v.Add(GravityDelta(p, dt))
	v = v.Add(ModelFor(p.Type).VelocityDelta(&next, p, dt))
	if ambient.IsFinite() {
		v = v.Add(ambient.Scale(dt))
	}

	// 缓动期内速度大小被重设，此时触发的冲量只改变方向
	if !next.EaseDone {
		mag, active := in.Easing.Magnitude(p.BasePower, next.Elapsed)
		if !active {
			next.EaseDone = true
		}
		v = v.WithLen(mag)
	}

	pos := next.Position.Add(v.Scale(dt))
	if !v.IsFinite() || !pos.IsFinite() {
		s.Expired = true
		return s
	}

	next.Velocity = v
	next.Position = pos
	return next
}
