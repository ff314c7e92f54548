package components

import "github.com/decker502/cannon/pkg/ballistics"

// CannonComponent 大炮的瞄准状态（角度制）
type CannonComponent struct {
	Yaw   float64 // 水平角
	Pitch float64 // 仰角，限制在 [MinElevation, MaxElevation]
	Power float64 // 发射力，限制在 [PowerMin, PowerMax]
	Type  ballistics.BallisticType
}
