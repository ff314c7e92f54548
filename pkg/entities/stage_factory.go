package entities

import (
	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/stage"
)

// NewTargetEntity 创建标靶实体
func NewTargetEntity(em *ecs.EntityManager, t *stage.TargetInstance) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TargetComponent{Instance: t})
	return id
}

// NewSurfaceEntity 创建静态碰撞体实体（反射墙、传送区、风区、实体障碍）
func NewSurfaceEntity(em *ecs.EntityManager, c *collision.Collider) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.SurfaceComponent{Collider: c})
	return id
}
