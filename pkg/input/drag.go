// Package input 把鼠标、触摸与键盘输入转换为大炮操作
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DragState 拖动状态
type DragState int

const (
	// DragNone 无拖动
	DragNone DragState = iota
	// DragStarted 本帧刚按下
	DragStarted
	// DragMoving 按住移动中
	DragMoving
	// DragEnded 本帧刚释放（只持续一帧）
	DragEnded
)

// mouseTouchID 鼠标拖动使用的伪触摸 ID
const mouseTouchID ebiten.TouchID = -1

// DragInfo 拖动信息（屏幕坐标）
type DragInfo struct {
	State          DragState
	StartX, StartY int
	LastX, LastY   int // 上一帧位置，用于计算本帧增量
	CurX, CurY     int
	TouchID        ebiten.TouchID
	IsTouch        bool
}

// DragTracker 跟踪一次鼠标或单指拖动
//
// Poll 每帧读取 ebiten 输入；Begin / MoveTo / Release 为纯状态转换，
// 不依赖运行中的游戏循环。
type DragTracker struct {
	info DragInfo
}

// NewDragTracker 创建拖动跟踪器
func NewDragTracker() *DragTracker {
	t := &DragTracker{}
	t.Reset()
	return t
}

// Poll 读取本帧输入并推进拖动状态
func (t *DragTracker) Poll() {
	switch t.info.State {
	case DragNone, DragEnded:
		if t.info.State == DragEnded {
			t.Reset()
		}
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			x, y := ebiten.TouchPosition(ids[0])
			t.Begin(x, y, ids[0], true)
			return
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			t.Begin(x, y, mouseTouchID, false)
		}

	case DragStarted, DragMoving:
		if t.info.IsTouch {
			if inpututil.IsTouchJustReleased(t.info.TouchID) {
				t.Release()
				return
			}
			x, y := ebiten.TouchPosition(t.info.TouchID)
			t.MoveTo(x, y)
			return
		}
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			t.Release()
			return
		}
		x, y := ebiten.CursorPosition()
		t.MoveTo(x, y)
	}
}

// Begin 开始拖动
func (t *DragTracker) Begin(x, y int, id ebiten.TouchID, isTouch bool) {
	t.info = DragInfo{
		State:   DragStarted,
		StartX:  x,
		StartY:  y,
		LastX:   x,
		LastY:   y,
		CurX:    x,
		CurY:    y,
		TouchID: id,
		IsTouch: isTouch,
	}
}

// MoveTo 更新当前位置
func (t *DragTracker) MoveTo(x, y int) {
	if t.info.State != DragStarted && t.info.State != DragMoving {
		return
	}
	t.info.State = DragMoving
	t.info.LastX, t.info.LastY = t.info.CurX, t.info.CurY
	t.info.CurX, t.info.CurY = x, y
}

// Release 结束拖动
func (t *DragTracker) Release() {
	if t.info.State != DragStarted && t.info.State != DragMoving {
		return
	}
	t.info.State = DragEnded
	t.info.LastX, t.info.LastY = t.info.CurX, t.info.CurY
}

// Reset 清空拖动状态
func (t *DragTracker) Reset() {
	t.info = DragInfo{State: DragNone, TouchID: mouseTouchID}
}

// Info 当前拖动信息
func (t *DragTracker) Info() DragInfo {
	return t.info
}

// Delta 本帧移动量（屏幕坐标，向下为正）
func (t *DragTracker) Delta() (dx, dy int) {
	if t.info.State != DragMoving {
		return 0, 0
	}
	return t.info.CurX - t.info.LastX, t.info.CurY - t.info.LastY
}

// JustEnded 本帧刚结束拖动
func (t *DragTracker) JustEnded() bool {
	return t.info.State == DragEnded
}

// IsDragging 是否正在拖动
func (t *DragTracker) IsDragging() bool {
	return t.info.State == DragStarted || t.info.State == DragMoving
}
