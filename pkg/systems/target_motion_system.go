package systems

import (
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/ecs"
)

// TargetMotionSystem 推进移动标靶
type TargetMotionSystem struct {
	entityManager *ecs.EntityManager
}

// NewTargetMotionSystem 创建移动标靶系统
func NewTargetMotionSystem(em *ecs.EntityManager) *TargetMotionSystem {
	return &TargetMotionSystem{
		entityManager: em,
	}
}

// Update 更新所有标靶的位置
// 静止标靶与已被命中的标靶保持不动
func (s *TargetMotionSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.TargetComponent](s.entityManager)

	for _, id := range entities {
		target, ok := ecs.GetComponent[*components.TargetComponent](s.entityManager, id)
		if !ok || target.Instance == nil {
			continue
		}
		target.Instance.Update(deltaTime)
	}
}
