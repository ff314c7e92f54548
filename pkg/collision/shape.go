package collision

import (
	"fmt"
	"math"
	"strings"

	"github.com/decker502/cannon/pkg/utils"
	"gopkg.in/yaml.v3"
)

// ShapeKind 碰撞体几何类型
type ShapeKind int

const (
	// Sphere 球体（Center + Radius）
	Sphere ShapeKind = iota
	// Box 轴对齐包围盒（Center + HalfExtents）
	Box
)

// String 返回几何类型名称
func (k ShapeKind) String() string {
	switch k {
	case Sphere:
		return "sphere"
	case Box:
		return "box"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// UnmarshalYAML 从名称解析几何类型
func (k *ShapeKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sphere":
		*k = Sphere
	case "box":
		*k = Box
	default:
		return fmt.Errorf("unknown shape kind %q (must be sphere or box)", s)
	}
	return nil
}

// MarshalYAML 以名称形式输出
func (k ShapeKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Shape 碰撞体几何
type Shape struct {
	Kind        ShapeKind  `yaml:"kind"`
	Center      utils.Vec3 `yaml:"center"`
	Radius      float64    `yaml:"radius,omitempty"`
	HalfExtents utils.Vec3 `yaml:"halfExtents,omitempty"`
}

// SphereShape 创建球体
func SphereShape(center utils.Vec3, radius float64) Shape {
	return Shape{Kind: Sphere, Center: center, Radius: radius}
}

// BoxShape 创建轴对齐包围盒
func BoxShape(center, halfExtents utils.Vec3) Shape {
	return Shape{Kind: Box, Center: center, HalfExtents: halfExtents}
}

// Min 包围盒最小角（球体返回外接盒）
func (s Shape) Min() utils.Vec3 {
	return s.Center.Sub(s.extents())
}

// Max 包围盒最大角（球体返回外接盒）
func (s Shape) Max() utils.Vec3 {
	return s.Center.Add(s.extents())
}

func (s Shape) extents() utils.Vec3 {
	if s.Kind == Sphere {
		return utils.V3(s.Radius, s.Radius, s.Radius)
	}
	return s.HalfExtents
}

// Contains 点是否在几何体内部（含边界）
func (s Shape) Contains(p utils.Vec3) bool {
	switch s.Kind {
	case Sphere:
		return p.Sub(s.Center).LenSq() <= s.Radius*s.Radius
	case Box:
		d := p.Sub(s.Center)
		return math.Abs(d.X) <= s.HalfExtents.X &&
			math.Abs(d.Y) <= s.HalfExtents.Y &&
			math.Abs(d.Z) <= s.HalfExtents.Z
	}
	return false
}

// IntersectsSphere 几何体与球体是否重叠
// 用于关卡生成时检查候选位置是否压在障碍物上
func (s Shape) IntersectsSphere(center utils.Vec3, radius float64) bool {
	switch s.Kind {
	case Sphere:
		r := s.Radius + radius
		return s.Center.Sub(center).LenSq() < r*r
	case Box:
		lo, hi := s.Min(), s.Max()
		closest := utils.V3(
			utils.Clamp(center.X, lo.X, hi.X),
			utils.Clamp(center.Y, lo.Y, hi.Y),
			utils.Clamp(center.Z, lo.Z, hi.Z),
		)
		return closest.Sub(center).LenSq() < radius*radius
	}
	return false
}

// Hit 线段扫掠命中信息
type Hit struct {
	T      float64    // 命中位置在线段上的参数 [0, 1]
	Point  utils.Vec3 // 命中点
	Normal utils.Vec3 // 命中面的单位外法线
}

// SweepSegment 线段 a→b 与几何体的首次进入交点
//
// 起点已在几何体内部或线段退化时不报告命中，
// 刚被反射或传送出来的炮弹不会在同一几何体上重复触发。
func SweepSegment(a, b utils.Vec3, s Shape) (Hit, bool) {
	d := b.Sub(a)
	if d.LenSq() < 1e-18 || !d.IsFinite() {
		return Hit{}, false
	}
	switch s.Kind {
	case Sphere:
		return sweepSphere(a, d, s.Center, s.Radius)
	case Box:
		return sweepBox(a, d, s.Min(), s.Max())
	}
	return Hit{}, false
}

func sweepSphere(a, d, center utils.Vec3, radius float64) (Hit, bool) {
	if radius <= 0 {
		return Hit{}, false
	}
	f := a.Sub(center)
	c := f.LenSq() - radius*radius
	if c <= 0 {
		return Hit{}, false
	}

	// |f + t d|² = r²
	qa := d.LenSq()
	qb := 2 * f.Dot(d)
	disc := qb*qb - 4*qa*c
	if disc < 0 {
		return Hit{}, false
	}
	t := (-qb - math.Sqrt(disc)) / (2 * qa)
	if t < 0 || t > 1 {
		return Hit{}, false
	}

	point := a.Add(d.Scale(t))
	normal, ok := point.Sub(center).Normalize()
	if !ok {
		normal = d.Scale(-1).Normalized()
	}
	return Hit{T: t, Point: point, Normal: normal}, true
}

func sweepBox(a, d, lo, hi utils.Vec3) (Hit, bool) {
	origin := [3]float64{a.X, a.Y, a.Z}
	dir := [3]float64{d.X, d.Y, d.Z}
	min := [3]float64{lo.X, lo.Y, lo.Z}
	max := [3]float64{hi.X, hi.Y, hi.Z}

	tEnter, tExit := math.Inf(-1), math.Inf(1)
	enterAxis, enterSign := -1, 0.0
	inside := true

	for i := 0; i < 3; i++ {
		if origin[i] < min[i] || origin[i] > max[i] {
			inside = false
		}
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < min[i] || origin[i] > max[i] {
				return Hit{}, false
			}
			continue
		}
		t1 := (min[i] - origin[i]) / dir[i]
		t2 := (max[i] - origin[i]) / dir[i]
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tEnter {
			tEnter = t1
			enterAxis = i
			enterSign = sign
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEnter > tExit {
			return Hit{}, false
		}
	}

	if inside || enterAxis < 0 || tEnter < 0 || tEnter > 1 {
		return Hit{}, false
	}

	var n [3]float64
	n[enterAxis] = enterSign
	return Hit{
		T:      tEnter,
		Point:  a.Add(d.Scale(tEnter)),
		Normal: utils.V3(n[0], n[1], n[2]),
	}, true
}
