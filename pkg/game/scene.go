package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个游戏场景
// 每个场景有独立的更新与绘制逻辑
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为距离上一帧的秒数
	Update(deltaTime float64)

	// Draw 绘制场景
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：场景在游戏关闭时保存状态
type Saveable interface {
	// SaveOnExit 保存状态
	// 返回 false 表示保存失败（程序仍会正常退出）
	SaveOnExit() bool
}
