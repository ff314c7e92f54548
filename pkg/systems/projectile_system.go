package systems

import (
	"log"

	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/stage"
)

// Arena 炮弹飞行的关卡环境
type Arena interface {
	// Colliders 当前帧参与扫掠的碰撞体（静态表面与存活标靶）
	Colliders() []*collision.Collider
	// Wind 当前关卡的风场，可为 nil
	Wind() *collision.WindField
	// HitTarget 命中并移除标靶，第二次命中同一标靶返回 false
	HitTarget(id int) (*stage.TargetInstance, bool)
}

// ScoreSink 计分与弹数结算
// 由关卡生命周期实现
type ScoreSink interface {
	AddScore(points int) bool
	ShotResolved()
}

// ProjectileSystem 推进所有飞行中的炮弹
//
// 每帧对每发炮弹：查询风场 → Integrator.Step → 对上一帧到本帧的线段做扫掠 →
// 应用最近的碰撞。命中标靶时计分并销毁标靶实体；终止碰撞或超时后销毁炮弹，
// 并通知 ScoreSink 结算这一发。
type ProjectileSystem struct {
	em         *ecs.EntityManager
	integrator *ballistics.Integrator
	resolver   *collision.Resolver
	arena      Arena
	sink       ScoreSink
}

// NewProjectileSystem 创建炮弹系统
//
// 参数：
//   - em: 实体管理器
//   - integrator: 与 CannonSystem 共用的积分器（预测线与实际轨迹一致）
//   - arena: 关卡环境
//   - sink: 计分结算，可为 nil
func NewProjectileSystem(em *ecs.EntityManager, integrator *ballistics.Integrator, arena Arena, sink ScoreSink) *ProjectileSystem {
	if integrator == nil {
		integrator = ballistics.NewIntegrator(ballistics.DefaultEasing())
	}
	return &ProjectileSystem{
		em:         em,
		integrator: integrator,
		resolver:   collision.NewResolver(),
		arena:      arena,
		sink:       sink,
	}
}

// Update 推进一帧
func (s *ProjectileSystem) Update(deltaTime float64) {
	ids := ecs.GetEntitiesWith1[*components.ProjectileComponent](s.em)
	if len(ids) == 0 {
		return
	}

	var field *collision.WindField
	var colliders []*collision.Collider
	if s.arena != nil {
		field = s.arena.Wind()
		colliders = s.arena.Colliders()
	}

	for _, id := range ids {
		if s.em.IsPendingDestroy(id) {
			continue
		}
		proj, ok := ecs.GetComponent[*components.ProjectileComponent](s.em, id)
		if !ok {
			continue
		}

		scored := s.step(id, proj, field, colliders, deltaTime)
		if scored && s.arena != nil {
			// 被击破的标靶不再参与本帧后续炮弹的扫掠
			colliders = s.arena.Colliders()
		}
	}
}

// step 推进单发炮弹，返回是否击破了标靶
func (s *ProjectileSystem) step(id ecs.EntityID, proj *components.ProjectileComponent,
	field *collision.WindField, colliders []*collision.Collider, dt float64) bool {

	prev := proj.State
	proj.Wind.Update(field, prev.Position)
	ambient := field.At(prev.Position, prev.Elapsed)

	next := s.integrator.Step(prev, proj.Params, dt, ambient)
	if !prev.ImpulseFired && next.ImpulseFired {
		log.Printf("[ProjectileSystem] Projectile %d impulse fired at t=%.2fs", id, next.Elapsed)
	}
	if next.Expired {
		proj.State = next
		log.Printf("[ProjectileSystem] Projectile %d expired after %.2fs", id, next.Elapsed)
		s.finish(id)
		return false
	}

	scored := false
	ev, hit := s.resolver.Resolve(prev.Position, next.Position, colliders)
	if hit {
		out := s.resolver.Apply(ev, &next)
		if out.Scored {
			scored = s.score(id, out.TargetID)
		}
		proj.State = next
		proj.PushTrail(next.Position)
		if out.Terminal {
			log.Printf("[ProjectileSystem] Projectile %d stopped by %s", id, ev.Collider.Label())
			s.finish(id)
		}
		return scored
	}

	proj.State = next
	proj.PushTrail(next.Position)
	return false
}

// score 击破标靶：计分并销毁标靶实体
func (s *ProjectileSystem) score(projectile ecs.EntityID, targetID int) bool {
	if s.arena == nil {
		return false
	}
	target, ok := s.arena.HitTarget(targetID)
	if !ok {
		return false
	}
	log.Printf("[ProjectileSystem] Projectile %d destroyed target %d (+%d)", projectile, targetID, target.ScoreValue)
	if s.sink != nil {
		s.sink.AddScore(target.ScoreValue)
	}
	return true
}

// finish 销毁炮弹并结算这一发
func (s *ProjectileSystem) finish(id ecs.EntityID) {
	s.em.DestroyEntity(id)
	if s.sink != nil {
		s.sink.ShotResolved()
	}
}
