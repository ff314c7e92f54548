package input

import (
	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 键盘微调速度
const (
	keyRotateSpeed = 45.0 // 度/秒
	keyPowerSpeed  = 10.0 // 每秒
)

// Cannon 可被操作的大炮
type Cannon interface {
	Drag(dx, dy float64)
	Rotate(dYaw, dPitch float64)
	AdjustPower(delta float64)
	CycleBallisticType() ballistics.BallisticType
	Fire() (ecs.EntityID, bool)
}

// KeyState 本帧的键盘输入
type KeyState struct {
	Left, Right      bool // 水平转动（按住）
	Up, Down         bool // 仰角（按住）
	PowerUp, PowerDn bool // 发射力（按住）
	CycleType        bool // 切换弹道类型（按下瞬间）
	Fire             bool // 发射（按下瞬间）
}

// ReadKeys 读取 ebiten 键盘状态
func ReadKeys() KeyState {
	return KeyState{
		Left:      ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right:     ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		Up:        ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:      ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		PowerUp:   ebiten.IsKeyPressed(ebiten.KeyW),
		PowerDn:   ebiten.IsKeyPressed(ebiten.KeyS),
		CycleType: inpututil.IsKeyJustPressed(ebiten.KeyTab),
		Fire:      inpututil.IsKeyJustPressed(ebiten.KeySpace),
	}
}

// AimController 拖动瞄准、松开发射
//
// 按住鼠标左键或单指拖动调整角度，松开时发射；空格键也可发射。
type AimController struct {
	cannon Cannon
	drag   *DragTracker
}

// NewAimController 创建瞄准控制器
func NewAimController(cannon Cannon) *AimController {
	return &AimController{
		cannon: cannon,
		drag:   NewDragTracker(),
	}
}

// Drag 拖动跟踪器
func (a *AimController) Drag() *DragTracker {
	return a.drag
}

// Update 读取本帧输入并操作大炮
//
// 返回：
//   - bool: 本帧是否成功发射
func (a *AimController) Update(dt float64) bool {
	a.drag.Poll()
	fired := a.ApplyDrag()
	if a.ApplyKeys(ReadKeys(), dt) {
		fired = true
	}
	return fired
}

// ApplyDrag 把拖动增量转换为瞄准调整，拖动结束时发射
// 屏幕坐标 Y 向下，向上拖动抬高仰角
func (a *AimController) ApplyDrag() bool {
	if dx, dy := a.drag.Delta(); dx != 0 || dy != 0 {
		a.cannon.Drag(float64(dx), -float64(dy))
	}
	if a.drag.JustEnded() {
		_, ok := a.cannon.Fire()
		return ok
	}
	return false
}

// ApplyKeys 应用键盘输入
func (a *AimController) ApplyKeys(keys KeyState, dt float64) bool {
	var yaw, pitch, power float64
	if keys.Left {
		yaw -= keyRotateSpeed * dt
	}
	if keys.Right {
		yaw += keyRotateSpeed * dt
	}
	if keys.Up {
		pitch += keyRotateSpeed * dt
	}
	if keys.Down {
		pitch -= keyRotateSpeed * dt
	}
	if keys.PowerUp {
		power += keyPowerSpeed * dt
	}
	if keys.PowerDn {
		power -= keyPowerSpeed * dt
	}
	if yaw != 0 || pitch != 0 {
		a.cannon.Rotate(yaw, pitch)
	}
	if power != 0 {
		a.cannon.AdjustPower(power)
	}
	if keys.CycleType {
		a.cannon.CycleBallisticType()
	}
	if keys.Fire {
		_, ok := a.cannon.Fire()
		return ok
	}
	return false
}
