// Package ballistics 实现炮弹的弹道模拟
//
// 同一个 Integrator.Step 既驱动实际飞行（按帧时间步进），
// 也驱动预测线（固定虚拟步长，提前计算 N 步），
// 两处共享完全相同的更新公式，预测线才能与实际轨迹重合。
package ballistics

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/decker502/cannon/pkg/utils"
	"gopkg.in/yaml.v3"
)

// 弹道常量
const (
	// MaxLifetime 炮弹最大存活时间（秒），超时强制销毁
	MaxLifetime = 10.0

	// ImpulseMultiplier 重力突变弹的瞬时冲量倍数（up * curveFactor * 10）
	ImpulseMultiplier = 10.0

	// DefaultGravityStrength 默认重力强度
	DefaultGravityStrength = 9.81

	// PredictionStep 预测线的固定虚拟步长（秒）
	PredictionStep = 1.0 / 60.0
)

// 参数校验错误
var (
	ErrZeroDirection = errors.New("launch direction is zero or not finite")
	ErrInvalidPower  = errors.New("base power must be positive and finite")
)

// BallisticType 弹道类型
type BallisticType int

const (
	// Curving 旋转弹：受垂直于前进方向与世界上方向的侧向力，形成香蕉球轨迹
	Curving BallisticType = iota
	// ImpulseChange 重力突变弹：到达指定时间后获得一次性向上冲量
	ImpulseChange
	// NoiseDriven 随风弹：受平滑噪声驱动的随机方向力
	NoiseDriven
)

var ballisticTypeNames = map[BallisticType]string{
	Curving:       "curving",
	ImpulseChange: "impulse_change",
	NoiseDriven:   "noise_driven",
}

// String 返回弹道类型名称
func (t BallisticType) String() string {
	if name, ok := ballisticTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BallisticType(%d)", int(t))
}

// ParseBallisticType 解析弹道类型名称（不区分大小写）
func ParseBallisticType(s string) (BallisticType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range ballisticTypeNames {
		if name == s {
			return t, nil
		}
	}
	return Curving, fmt.Errorf("unknown ballistic type %q (must be one of: curving, impulse_change, noise_driven)", s)
}

// Next 循环切换到下一个弹道类型
func (t BallisticType) Next() BallisticType {
	return (t + 1) % BallisticType(len(ballisticTypeNames))
}

// UnmarshalYAML 从 YAML 字符串解析弹道类型
func (t *BallisticType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseBallisticType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML 以名称形式输出弹道类型
func (t BallisticType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// Params 弹道参数（发射后不可变，由炮弹实例独占）
type Params struct {
	Direction        utils.Vec3    // 发射方向（单位向量）
	BasePower        float64       // 基础速度
	Type             BallisticType // 弹道类型
	CurveFactor      float64       // 曲线系数
	ImpulseTiming    float64       // 冲量触发时间（秒）
	GravityDirection utils.Vec3    // 重力方向（单位向量）
	GravityStrength  float64       // 重力强度
}

// Normalized 校验并归一化参数
//
// 发射方向为零向量或含 NaN 时返回 ErrZeroDirection；
// 重力方向退化时禁用重力（强度置零），不视为错误。
//
// 返回：
//   - Params: 方向已归一化的参数副本
//   - error: 参数无法使用时返回错误
func (p Params) Normalized() (Params, error) {
	dir, ok := p.Direction.Normalize()
	if !ok {
		return p, ErrZeroDirection
	}
	p.Direction = dir

	if !(p.BasePower > 0) || math.IsInf(p.BasePower, 0) {
		return p, ErrInvalidPower
	}

	gravityDir, ok := p.GravityDirection.Normalize()
	if !ok || math.IsNaN(p.GravityStrength) || math.IsInf(p.GravityStrength, 0) {
		p.GravityDirection = utils.Zero
		p.GravityStrength = 0
	} else {
		p.GravityDirection = gravityDir
	}

	if math.IsNaN(p.CurveFactor) || math.IsInf(p.CurveFactor, 0) {
		p.CurveFactor = 0
	}
	return p, nil
}

// State 炮弹的运动状态
// 发射时创建，每个模拟帧由 Integrator 与碰撞解析各修改一次
type State struct {
	Position     utils.Vec3
	Velocity     utils.Vec3
	Elapsed      float64 // 发射后经过的时间（秒）
	ImpulseFired bool    // 冲量已触发（每发炮弹最多一次）
	EaseDone     bool    // 出膛减速已结束
	HasHitTarget bool    // 命中锁存：每发炮弹最多一次计分命中
	Expired      bool    // 超时或状态非法，需要销毁
}
