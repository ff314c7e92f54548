package ballistics

import "github.com/decker502/cannon/pkg/utils"

// Predict 计算预测线采样点
//
// 以固定虚拟步长运行与实际飞行相同的 Step（不读取帧时间、不含风场），
// 第 0 个点为发射点，之后每个点对应一步之后的位置。炮弹超时即提前结束。
//
// 参数：
//   - origin: 发射点
//   - p: 已归一化的弹道参数
//   - steps: 采样步数
//   - dt: 虚拟步长，<=0 时使用 PredictionStep
//
// 返回：
//   - []utils.Vec3: 采样点序列（长度 <= steps+1）
func (in *Integrator) Predict(origin utils.Vec3, p Params, steps int, dt float64) []utils.Vec3 {
	if steps <= 0 {
		return nil
	}
	if dt <= 0 {
		dt = PredictionStep
	}

	points := make([]utils.Vec3, 0, steps+1)
	s := in.Launch(origin, p)
	points = append(points, s.Position)

	for i := 0; i < steps; i++ {
		s = in.Step(s, p, dt, utils.Zero)
		if s.Expired {
			break
		}
		points = append(points, s.Position)
	}
	return points
}

// Simulate 以固定步长推进状态并记录每一步的完整状态
// 供验证工具与测试对比预测线和实际轨迹
func (in *Integrator) Simulate(origin utils.Vec3, p Params, steps int, dt float64, wind func(pos utils.Vec3, elapsed float64) utils.Vec3) []State {
	states := make([]State, 0, steps+1)
	s := in.Launch(origin, p)
	states = append(states, s)
	for i := 0; i < steps; i++ {
		ambient := utils.Zero
		if wind != nil {
			ambient = wind(s.Position, s.Elapsed)
		}
		s = in.Step(s, p, dt, ambient)
		if s.Expired {
			break
		}
		states = append(states, s)
	}
	return states
}
