package entities

import (
	"fmt"
	"log"

	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/utils"
)

// NewCannonEntity 创建大炮实体
//
// 参数：
//   - em: 实体管理器
//   - aim: 初始瞄准状态
//
// 返回：
//   - ecs.EntityID: 大炮实体ID
func NewCannonEntity(em *ecs.EntityManager, aim components.CannonComponent) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &aim)
	return id
}

// NewProjectileEntity 创建炮弹实体
//
// 炮弹的初始状态由 integrator.Launch 计算，参数在飞行期间不再改变。
//
// 参数：
//   - em: 实体管理器
//   - integrator: 弹道积分器
//   - origin: 发射点（炮口）
//   - p: 已归一化的发射参数
//
// 返回：
//   - ecs.EntityID: 炮弹实体ID
//   - error: em 或 integrator 为空时返回错误
func NewProjectileEntity(em *ecs.EntityManager, integrator *ballistics.Integrator, origin utils.Vec3, p ballistics.Params) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if integrator == nil {
		return 0, fmt.Errorf("integrator cannot be nil")
	}

	id := em.CreateEntity()
	state := integrator.Launch(origin, p)
	ecs.AddComponent(em, id, &components.ProjectileComponent{
		State:  state,
		Params: p,
		Trail:  []utils.Vec3{origin},
	})

	log.Printf("[ProjectileFactory] Created projectile %d: type=%s speed=%.2f", id, p.Type, state.Velocity.Len())
	return id, nil
}
