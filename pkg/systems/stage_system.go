package systems

import (
	"fmt"
	"log"

	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/entities"
	"github.com/decker502/cannon/pkg/stage"
)

// StageSystem 关卡场景的布置与查询
//
// 实现 session.Placer：每次（重新）布置关卡都会先销毁上一关的全部标靶、
// 表面与炮弹实体，再运行 stage.Generator 生成新标靶。
// 同时实现 Arena，为 ProjectileSystem 提供碰撞体与风场。
type StageSystem struct {
	em        *ecs.EntityManager
	stages    *config.StageCollection
	generator *stage.Generator

	targets        *stage.TargetSet
	targetEntities map[int]ecs.EntityID
	surfaces       []*collision.Collider
	wind           *collision.WindField
	result         *stage.Result
}

// NewStageSystem 创建关卡系统
//
// 参数：
//   - em: 实体管理器
//   - stages: 关卡合集（提供默认生成区域），可为 nil
//   - generator: 标靶生成器，为空时使用固定种子的默认生成器
func NewStageSystem(em *ecs.EntityManager, stages *config.StageCollection, generator *stage.Generator) *StageSystem {
	if generator == nil {
		attempts := 0
		if stages != nil {
			attempts = stages.MaxPlacementAttempts
		}
		generator = stage.NewGenerator(nil, attempts)
	}
	return &StageSystem{
		em:             em,
		stages:         stages,
		generator:      generator,
		targets:        stage.NewTargetSet(),
		targetEntities: make(map[int]ecs.EntityID),
	}
}

// PrepareStage 布置关卡
//
// 返回：
//   - int: 实际生成的标靶数
//   - error: 配置无法生成时返回错误，此时关卡没有标靶
func (s *StageSystem) PrepareStage(index int, cfg *config.StageConfig) (int, error) {
	s.Clear()
	if cfg == nil {
		return 0, fmt.Errorf("stage %d has no config", index)
	}

	for i := range cfg.Surfaces {
		c := cfg.Surfaces[i]
		s.surfaces = append(s.surfaces, &c)
		entities.NewSurfaceEntity(s.em, &c)
	}

	var volume *config.SpawnVolume
	if s.stages != nil {
		volume = s.stages.SpawnVolumeFor(cfg)
	} else {
		volume = cfg.SpawnVolume
	}

	res, err := s.generator.Generate(cfg, volume)
	if err != nil {
		s.wind = collision.NewWindField(collision.DefaultAmbientWind(), false, s.surfaces)
		return 0, fmt.Errorf("failed to generate stage %d: %w", index, err)
	}
	s.result = res
	s.wind = collision.NewWindField(res.Wind, res.WindEnabled, s.surfaces)

	s.targets.Replace(res)
	for _, t := range res.Targets {
		s.targetEntities[t.ID] = entities.NewTargetEntity(s.em, t)
	}

	log.Printf("[StageSystem] Stage %d (%s) prepared: %d targets, %d surfaces, wind=%v",
		index, cfg.Name, res.Generated(), len(s.surfaces), res.WindEnabled)
	return res.Generated(), nil
}

// Clear 销毁当前关卡的所有标靶、表面与炮弹实体
func (s *StageSystem) Clear() {
	destroy := func(ids []ecs.EntityID) {
		for _, id := range ids {
			s.em.DestroyEntity(id)
		}
	}
	destroy(ecs.GetEntitiesWith1[*components.TargetComponent](s.em))
	destroy(ecs.GetEntitiesWith1[*components.SurfaceComponent](s.em))
	destroy(ecs.GetEntitiesWith1[*components.ProjectileComponent](s.em))
	s.em.RemoveMarkedEntities()

	s.targets.Clear()
	s.targetEntities = make(map[int]ecs.EntityID)
	s.surfaces = nil
	s.wind = nil
	s.result = nil
}

// Colliders 静态表面与存活标靶的碰撞体
func (s *StageSystem) Colliders() []*collision.Collider {
	out := make([]*collision.Collider, 0, len(s.surfaces)+s.targets.Len())
	out = append(out, s.surfaces...)
	out = append(out, s.targets.Colliders()...)
	return out
}

// Wind 当前关卡风场
func (s *StageSystem) Wind() *collision.WindField {
	return s.wind
}

// HitTarget 命中标靶：可破坏的标靶连同实体一起移除
func (s *StageSystem) HitTarget(id int) (*stage.TargetInstance, bool) {
	t, ok := s.targets.Hit(id)
	if !ok {
		return t, false
	}
	if t.Destructible {
		if eid, exists := s.targetEntities[id]; exists {
			s.em.DestroyEntity(eid)
			delete(s.targetEntities, id)
		}
	}
	return t, true
}

// Targets 当前关卡的标靶集合
func (s *StageSystem) Targets() *stage.TargetSet {
	return s.targets
}

// Surfaces 当前关卡的静态表面
func (s *StageSystem) Surfaces() []*collision.Collider {
	return s.surfaces
}

// Result 最近一次生成的结果，关卡未布置或生成失败时为 nil
func (s *StageSystem) Result() *stage.Result {
	return s.result
}
