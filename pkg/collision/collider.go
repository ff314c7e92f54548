// Package collision 实现炮弹与场景表面的碰撞解析
//
// 每个模拟帧积分之后，以上一帧位置到当前位置的线段做扫掠测试，
// 取最近的命中并按表面类别应用状态转换：
//   - Target：计分并销毁炮弹（终止）
//   - ReflectiveWall：反射并衰减速度（继续飞行）
//   - TeleportVolume：移动到出口并沿出口朝向继续（继续飞行）
//   - WindVolume：不阻挡，作为环境风场被积分器查询
//   - Solid：销毁炮弹（终止）
package collision

import (
	"fmt"
	"strings"

	"github.com/decker502/cannon/pkg/utils"
	"gopkg.in/yaml.v3"
)

// 碰撞常量
const (
	// DefaultDamping 反射壁默认速度衰减系数
	DefaultDamping = 0.8

	// SurfaceNudge 反射后沿法线推出的距离，避免再次穿入
	SurfaceNudge = 0.1
)

// Category 碰撞体类别
// 数值越小优先级越高：同一位置多个类别同时命中时 Target 优先
type Category int

const (
	Target Category = iota
	ReflectiveWall
	TeleportVolume
	WindVolume
	Solid
)

var categoryNames = []string{"target", "reflective_wall", "teleport_volume", "wind_volume", "solid"}

// String 返回类别名称
func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory 解析类别名称（不区分大小写）
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return Solid, fmt.Errorf("unknown collider category %q", s)
}

// UnmarshalYAML 从名称解析类别
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML 以名称形式输出
func (c Category) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Terminal 该类别命中后炮弹是否销毁
func (c Category) Terminal() bool {
	return c == Target || c == Solid
}

// Wind 方向性风力
type Wind struct {
	Direction utils.Vec3 `yaml:"direction"`
	Strength  float64    `yaml:"strength"`
}

// DefaultVolumeWind 风区默认参数：+X 方向，强度 3
func DefaultVolumeWind() Wind {
	return Wind{Direction: utils.Right, Strength: 3}
}

// DefaultAmbientWind 关卡默认风：+X 方向，强度 1
func DefaultAmbientWind() Wind {
	return Wind{Direction: utils.Right, Strength: 1}
}

// Vector 风力向量（方向归一化后乘以强度），方向退化时为零
func (w Wind) Vector() utils.Vec3 {
	dir, ok := w.Direction.Normalize()
	if !ok {
		return utils.Zero
	}
	return dir.Scale(w.Strength)
}

// Exit 传送出口
type Exit struct {
	Position utils.Vec3 `yaml:"position"`
	Forward  utils.Vec3 `yaml:"forward"`
	// Speed 大于 0 时出口速度固定为该值，否则保留进入时的速度大小
	Speed float64 `yaml:"speed,omitempty"`
}

// Collider 场景中的一个碰撞体
type Collider struct {
	ID       int      `yaml:"id"`
	Name     string   `yaml:"name,omitempty"`
	Category Category `yaml:"category"`
	Shape    Shape    `yaml:"shape"`

	// TargetID Target 类别对应的标靶 ID
	TargetID int `yaml:"-"`

	// Damping ReflectiveWall 的反射衰减系数，<=0 时使用 DefaultDamping
	Damping float64 `yaml:"damping,omitempty"`

	// Exit TeleportVolume 的出口
	Exit *Exit `yaml:"exit,omitempty"`

	// Wind WindVolume 的风力，为空时使用 DefaultVolumeWind
	Wind *Wind `yaml:"wind,omitempty"`
}

// Validate 检查碰撞体配置是否完整
func (c *Collider) Validate() error {
	switch c.Shape.Kind {
	case Sphere:
		if c.Shape.Radius <= 0 {
			return fmt.Errorf("collider %d (%s): sphere radius must be positive", c.ID, c.Category)
		}
	case Box:
		h := c.Shape.HalfExtents
		if h.X < 0 || h.Y < 0 || h.Z < 0 || (h.X == 0 && h.Y == 0 && h.Z == 0) {
			return fmt.Errorf("collider %d (%s): box half extents must be non-negative and non-zero", c.ID, c.Category)
		}
	}
	if c.Category == TeleportVolume && c.Exit == nil {
		return fmt.Errorf("collider %d (%s): teleport volume has no exit", c.ID, c.Category)
	}
	return nil
}

func (c *Collider) damping() float64 {
	if c.Damping > 0 {
		return c.Damping
	}
	return DefaultDamping
}

func (c *Collider) wind() Wind {
	if c.Wind != nil {
		return *c.Wind
	}
	return DefaultVolumeWind()
}

// Label 日志中使用的名称
func (c *Collider) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%s#%d", c.Category, c.ID)
}
