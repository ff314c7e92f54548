package collision

import (
	"log"
	"math"

	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/utils"
)

// tieEpsilon 两个命中参数 t 之差小于该值时按类别优先级裁决
const tieEpsilon = 1e-9

// Event 一次碰撞事件
type Event struct {
	Collider *Collider
	Hit
}

// Outcome 碰撞应用结果
type Outcome struct {
	Category Category
	Terminal bool // 炮弹需要销毁
	Scored   bool // 命中标靶且是本炮弹的第一次命中
	Ignored  bool // 标靶命中被命中锁存拦截
	TargetID int
}

// Resolver 碰撞解析器
type Resolver struct {
	// Nudge 反射后沿法线推出的距离
	Nudge float64
}

// NewResolver 创建碰撞解析器
func NewResolver() *Resolver {
	return &Resolver{Nudge: SurfaceNudge}
}

// Resolve 对线段 prev→next 做扫掠测试，返回最近的命中
//
// 风区不阻挡炮弹，不参与扫掠。命中参数相同时按类别优先级裁决（Target 优先），
// 再按 ID 裁决，结果与碰撞体顺序无关。
func (r *Resolver) Resolve(prev, next utils.Vec3, colliders []*Collider) (Event, bool) {
	var best Event
	found := false

	for _, c := range colliders {
		if c == nil || c.Category == WindVolume {
			continue
		}
		hit, ok := SweepSegment(prev, next, c.Shape)
		if !ok {
			continue
		}
		if !found || better(hit, c, best) {
			best = Event{Collider: c, Hit: hit}
			found = true
		}
	}
	return best, found
}

func better(hit Hit, c *Collider, cur Event) bool {
	if math.Abs(hit.T-cur.T) > tieEpsilon {
		return hit.T < cur.T
	}
	if c.Category != cur.Collider.Category {
		return c.Category < cur.Collider.Category
	}
	return c.ID < cur.Collider.ID
}

// Apply 把碰撞事件应用到炮弹状态
//
// Target：已命中过的炮弹忽略（非终止），否则锁存命中并终止。
// ReflectiveWall：velocity = reflect(v, n) * damping，位置移到命中点外侧。
// TeleportVolume：移动到出口位置，速度沿出口朝向，大小不变。
// Solid：终止。
func (r *Resolver) Apply(ev Event, s *ballistics.State) Outcome {
	c := ev.Collider
	out := Outcome{Category: c.Category, TargetID: c.TargetID}

	switch c.Category {
	case Target:
		if s.HasHitTarget {
			out.Ignored = true
			return out
		}
		s.HasHitTarget = true
		s.Position = ev.Point
		out.Terminal = true
		out.Scored = true

	case ReflectiveWall:
		s.Velocity = s.Velocity.Reflect(ev.Normal).Scale(c.damping())
		s.Position = ev.Point.Add(ev.Normal.Scale(r.nudge()))

	case TeleportVolume:
		if c.Exit == nil {
			log.Printf("[Collision] Warning: teleport %s has no exit, ignored", c.Label())
			return out
		}
		speed := s.Velocity.Len()
		if c.Exit.Speed > 0 {
			speed = c.Exit.Speed
		}
		forward, ok := c.Exit.Forward.Normalize()
		if !ok {
			forward = s.Velocity.Normalized()
		}
		s.Position = c.Exit.Position
		s.Velocity = forward.Scale(speed)

	case WindVolume:
		// 风区由 WindField 处理

	default:
		s.Position = ev.Point
		out.Terminal = true
	}
	return out
}

func (r *Resolver) nudge() float64 {
	if r.Nudge > 0 {
		return r.Nudge
	}
	return SurfaceNudge
}
