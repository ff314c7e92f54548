package components

import (
	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/utils"
)

// TrailLength 拖尾保留的位置数
const TrailLength = 24

// ProjectileComponent 飞行中的炮弹
// 发射时创建，参数在整个飞行过程中不变
type ProjectileComponent struct {
	State  ballistics.State
	Params ballistics.Params
	Wind   collision.WindTracker // 当前所在的风区
	Trail  []utils.Vec3          // 最近的位置，渲染拖尾用
}

// PushTrail 记录一个拖尾位置
func (p *ProjectileComponent) PushTrail(pos utils.Vec3) {
	p.Trail = append(p.Trail, pos)
	if len(p.Trail) > TrailLength {
		p.Trail = p.Trail[len(p.Trail)-TrailLength:]
	}
}
