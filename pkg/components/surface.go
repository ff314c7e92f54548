package components

import "github.com/decker502/cannon/pkg/collision"

// SurfaceComponent 关卡中的静态碰撞体（反射墙、传送区、风区、实体障碍）
type SurfaceComponent struct {
	Collider *collision.Collider
}
