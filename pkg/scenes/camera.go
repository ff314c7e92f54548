package scenes

import (
	"math"

	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/utils"
)

// Camera 简单透视投影：固定位置，只有俯角，朝 +Z 方向观察
type Camera struct {
	Eye    utils.Vec3
	Pitch  float64 // 俯角（角度制，向下为正）
	Focal  float64 // 焦距（像素）
	Near   float64
	Width  float64 // 屏幕宽度
	Height float64 // 屏幕高度
}

// DefaultCamera 按布局配置创建摄像机
func DefaultCamera() Camera {
	return Camera{
		Eye:    utils.V3(config.CameraEyeX, config.CameraEyeY, config.CameraEyeZ),
		Pitch:  config.CameraPitch,
		Focal:  config.CameraFocal,
		Near:   config.CameraNear,
		Width:  config.GameWindowWidth,
		Height: config.GameWindowHeight,
	}
}

// Depth 点在视线方向上的深度
func (c Camera) Depth(p utils.Vec3) float64 {
	rel := p.Sub(c.Eye)
	sin, cos := math.Sincos(c.Pitch * math.Pi / 180)
	return rel.Z*cos - rel.Y*sin
}

// Project 把世界坐标投影到屏幕
//
// 返回：
//   - x, y: 屏幕坐标
//   - ok: 点在近裁剪面之前时为 false
func (c Camera) Project(p utils.Vec3) (x, y float32, ok bool) {
	rel := p.Sub(c.Eye)
	sin, cos := math.Sincos(c.Pitch * math.Pi / 180)
	depth := rel.Z*cos - rel.Y*sin
	if depth < c.Near {
		return 0, 0, false
	}
	up := rel.Y*cos + rel.Z*sin
	sx := c.Width/2 + c.Focal*rel.X/depth
	sy := c.Height/2 - c.Focal*up/depth
	return float32(sx), float32(sy), true
}

// ScaleAt 世界长度 length 在点 p 处对应的屏幕像素
// 点不可见时返回 0
func (c Camera) ScaleAt(p utils.Vec3, length float64) float32 {
	depth := c.Depth(p)
	if depth < c.Near {
		return 0
	}
	return float32(c.Focal * length / depth)
}
