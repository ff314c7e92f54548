package ballistics

import "github.com/decker502/cannon/pkg/utils"

// 随风弹噪声采样参数
const (
	noiseDirectionFreq = 3.0 // 方向噪声的时间频率
	noiseMagnitudeFreq = 2.0 // 强度噪声的时间频率
)

// ForceModel 计算一个步长内的速度增量
//
// 实现必须只依赖 State 与 Params（确定性），
// 需要锁存的模型（冲量）直接修改传入的 State。
type ForceModel interface {
	VelocityDelta(s *State, p Params, dt float64) utils.Vec3
}

// ModelFor 返回弹道类型对应的力模型
func ModelFor(t BallisticType) ForceModel {
	switch t {
	case ImpulseChange:
		return impulseForce{}
	case NoiseDriven:
		return noiseForce{}
	default:
		return curvingForce{}
	}
}

// GravityDelta 所有类型共享的常量重力项：gravityDirection * gravityStrength * dt
func GravityDelta(p Params, dt float64) utils.Vec3 {
	return p.GravityDirection.Scale(p.GravityStrength * dt)
}

// curvingForce 侧向力：cross(normalize(v), up) * curveFactor * dt
type curvingForce struct{}

func (curvingForce) VelocityDelta(s *State, p Params, dt float64) utils.Vec3 {
	heading, ok := s.Velocity.Normalize()
	if !ok {
		return utils.Zero
	}
	return heading.Cross(utils.Up).Scale(p.CurveFactor * dt)
}

// impulseForce 到达 ImpulseTiming 后施加一次 up * curveFactor * 10（瞬时冲量，不乘 dt）
type impulseForce struct{}

func (impulseForce) VelocityDelta(s *State, p Params, dt float64) utils.Vec3 {
	if s.ImpulseFired || s.Elapsed < p.ImpulseTiming {
		return utils.Zero
	}
	s.ImpulseFired = true
	return utils.Up.Scale(p.CurveFactor * ImpulseMultiplier)
}

// noiseForce 噪声驱动的随机方向力
type noiseForce struct{}

func (noiseForce) VelocityDelta(s *State, p Params, dt float64) utils.Vec3 {
	return NoiseForce(s.Elapsed, p.CurveFactor).Scale(dt)
}

// NoiseDirection 由三个轴独立的平滑噪声构造单位方向
// 三个轴都恰好为 0 时返回零向量
func NoiseDirection(elapsed float64) utils.Vec3 {
	t := elapsed * noiseDirectionFreq
	raw := utils.V3(
		utils.SignedNoise(t, 0),
		utils.SignedNoise(t, 1),
		utils.SignedNoise(t, 2),
	)
	return raw.Normalized()
}

// NoiseForce 随风弹在 elapsed 时刻的力（加速度）
// = NoiseDirection(t) * curveFactor * scalarNoise(t)
func NoiseForce(elapsed, curveFactor float64) utils.Vec3 {
	scalar := utils.SignedNoise(elapsed*noiseMagnitudeFreq, 0)
	return NoiseDirection(elapsed).Scale(curveFactor * scalar)
}
