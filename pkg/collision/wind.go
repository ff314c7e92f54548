package collision

import (
	"log"

	"github.com/decker502/cannon/pkg/utils"
)

// gustFrequency 阵风噪声的时间频率
const gustFrequency = 2.0

// WindField 环境风场
//
// 炮弹位于风区内时受该风区的风力，否则受关卡默认风（未启用时为零）。
// 两者都乘以随时间变化的阵风系数 SignedNoise(elapsed*2, 0)。
type WindField struct {
	Ambient Wind
	Enabled bool
	Volumes []*Collider
}

// NewWindField 从碰撞体列表中收集风区
func NewWindField(ambient Wind, enabled bool, colliders []*Collider) *WindField {
	f := &WindField{Ambient: ambient, Enabled: enabled}
	for _, c := range colliders {
		if c != nil && c.Category == WindVolume {
			f.Volumes = append(f.Volumes, c)
		}
	}
	return f
}

// VolumeAt 返回包含该位置的风区（按 ID 最小者），没有时返回 nil
func (f *WindField) VolumeAt(pos utils.Vec3) *Collider {
	if f == nil {
		return nil
	}
	var found *Collider
	for _, v := range f.Volumes {
		if v.Shape.Contains(pos) && (found == nil || v.ID < found.ID) {
			found = v
		}
	}
	return found
}

// At 返回位置 pos、飞行时间 elapsed 时的环境加速度
func (f *WindField) At(pos utils.Vec3, elapsed float64) utils.Vec3 {
	if f == nil {
		return utils.Zero
	}
	gust := utils.SignedNoise(elapsed*gustFrequency, 0)
	if v := f.VolumeAt(pos); v != nil {
		return v.wind().Vector().Scale(gust)
	}
	if !f.Enabled {
		return utils.Zero
	}
	return f.Ambient.Vector().Scale(gust)
}

// WindTracker 记录单个炮弹当前所在的风区
type WindTracker struct {
	current *Collider
}

// Current 当前所在风区，不在风区内时为 nil
func (t *WindTracker) Current() *Collider {
	return t.current
}

// Update 根据新位置更新所在风区
//
// 返回：
//   - bool: 进出风区状态是否发生变化
func (t *WindTracker) Update(f *WindField, pos utils.Vec3) bool {
	next := f.VolumeAt(pos)
	if next == t.current {
		return false
	}
	if t.current != nil {
		log.Printf("[Wind] Projectile left wind volume %s", t.current.Label())
	}
	if next != nil {
		log.Printf("[Wind] Projectile entered wind volume %s", next.Label())
	}
	t.current = next
	return true
}
