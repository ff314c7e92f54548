// Package stage 实现关卡标靶的生成与管理
package stage

import (
	"fmt"
	"math"

	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/utils"
)

// MotionPattern 移动标靶的运动方式
type MotionPattern int

const (
	// Horizontal 沿 X 轴正弦往返
	Horizontal MotionPattern = iota
	// Vertical 沿 Y 轴正弦往返
	Vertical
	// Circular 水平面内绕圆心公转
	Circular
)

// String 返回运动方式名称
func (p MotionPattern) String() string {
	switch p {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Circular:
		return "circular"
	default:
		return fmt.Sprintf("MotionPattern(%d)", int(p))
	}
}

// Motion 移动标靶的运动参数
type Motion struct {
	Pattern  MotionPattern
	Speed    float64    // 角速度（弧度/秒）
	Distance float64    // 振幅或公转半径
	Center   utils.Vec3 // 公转圆心（仅 Circular）
	Phase    float64    // 当前相位（弧度）
}

// Advance 推进 dt 秒并返回新位置
// home 为标靶的初始位置
func (m *Motion) Advance(home utils.Vec3, dt float64) utils.Vec3 {
	m.Phase += dt * m.Speed

	switch m.Pattern {
	case Horizontal:
		return home.Add(utils.V3(math.Sin(m.Phase)*m.Distance, 0, 0))
	case Vertical:
		return home.Add(utils.V3(0, math.Sin(m.Phase)*m.Distance, 0))
	case Circular:
		return utils.V3(
			m.Center.X+math.Cos(m.Phase)*m.Distance,
			home.Y,
			m.Center.Z+math.Sin(m.Phase)*m.Distance,
		)
	}
	return home
}

// TargetInstance 关卡中存活的标靶
type TargetInstance struct {
	ID           int
	Position     utils.Vec3
	Home         utils.Vec3 // 生成位置，移动标靶围绕它运动
	Radius       float64
	ScoreValue   int
	Destructible bool
	Motion       *Motion // 为空表示静止标靶

	hit bool
}

// Hit 锁存命中
// 只有第一次调用返回 true，之后同一帧或后续帧的重复命中都被忽略
func (t *TargetInstance) Hit() bool {
	if t.hit {
		return false
	}
	t.hit = true
	return true
}

// IsHit 是否已被命中
func (t *TargetInstance) IsHit() bool {
	return t.hit
}

// Update 推进移动标靶
func (t *TargetInstance) Update(dt float64) {
	if t.Motion == nil || t.hit {
		return
	}
	t.Position = t.Motion.Advance(t.Home, dt)
}

// Collider 返回标靶当前位置的碰撞体
func (t *TargetInstance) Collider() *collision.Collider {
	return &collision.Collider{
		ID:       t.ID,
		Category: collision.Target,
		Shape:    collision.SphereShape(t.Position, t.Radius),
		TargetID: t.ID,
	}
}

// TargetSet 当前关卡的标靶集合
// 关卡重新生成时整体替换，旧标靶不会残留到下一关
type TargetSet struct {
	targets []*TargetInstance
}

// NewTargetSet 创建空集合
func NewTargetSet() *TargetSet {
	return &TargetSet{}
}

// Replace 清空旧标靶并装入新生成的标靶
//
// 返回：
//   - []*TargetInstance: 被移除的旧标靶（调用方据此销毁对应实体）
func (s *TargetSet) Replace(r *Result) []*TargetInstance {
	removed := s.targets
	s.targets = nil
	if r != nil {
		s.targets = append(s.targets, r.Targets...)
	}
	return removed
}

// Clear 移除全部标靶
func (s *TargetSet) Clear() []*TargetInstance {
	return s.Replace(nil)
}

// Get 按 ID 查找存活标靶
func (s *TargetSet) Get(id int) (*TargetInstance, bool) {
	for _, t := range s.targets {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Hit 命中并移除标靶
//
// 返回：
//   - *TargetInstance: 被命中的标靶
//   - bool: 本次是否为有效命中（标靶不存在或已被命中时为 false）
func (s *TargetSet) Hit(id int) (*TargetInstance, bool) {
	for i, t := range s.targets {
		if t.ID != id {
			continue
		}
		if !t.Hit() {
			return t, false
		}
		if t.Destructible {
			s.targets = append(s.targets[:i], s.targets[i+1:]...)
		}
		return t, true
	}
	return nil, false
}

// Alive 存活标靶列表（只读）
func (s *TargetSet) Alive() []*TargetInstance {
	return s.targets
}

// Len 存活标靶数量
func (s *TargetSet) Len() int {
	return len(s.targets)
}

// Update 推进所有移动标靶
func (s *TargetSet) Update(dt float64) {
	for _, t := range s.targets {
		t.Update(dt)
	}
}

// Colliders 所有存活标靶的碰撞体
func (s *TargetSet) Colliders() []*collision.Collider {
	out := make([]*collision.Collider, 0, len(s.targets))
	for _, t := range s.targets {
		if !t.IsHit() {
			out = append(out, t.Collider())
		}
	}
	return out
}
