// Package utils 提供弹道模拟与关卡生成共用的数学工具
//
// vec3.go 提供三维向量类型。世界坐标系约定：
//   - Y 轴向上（Up = (0, 1, 0)）
//   - X 轴向右，Z 轴指向炮口默认朝向（水平角 0°）
//
// 所有方法均为值语义，不修改接收者。
package utils

import "math"

// Vec3 三维向量（世界坐标，单位：米）
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// 常用向量
var (
	Zero  = Vec3{}
	Up    = Vec3{X: 0, Y: 1, Z: 0}
	Right = Vec3{X: 1, Y: 0, Z: 0}
	Fwd   = Vec3{X: 0, Y: 0, Z: 1}
)

// V3 创建向量的简写
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add 向量加法
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 向量减法
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 数乘
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross 叉积
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LenSq 长度平方
func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

// Len 长度
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Distance 两点距离
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Len()
}

// IsFinite 所有分量均为有限值（非 NaN、非 Inf）
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Normalize 返回单位向量
//
// 返回：
//   - Vec3: 单位向量；输入为零向量或含 NaN/Inf 时返回零向量
//   - bool: 是否成功归一化
func (v Vec3) Normalize() (Vec3, bool) {
	if !v.IsFinite() {
		return Vec3{}, false
	}
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}, false
	}
	return v.Scale(1 / l), true
}

// Normalized 返回单位向量，失败时返回零向量
func (v Vec3) Normalized() Vec3 {
	n, _ := v.Normalize()
	return n
}

// Reflect 以法线 n 反射向量：v - 2(v·n)n
// n 必须是单位向量
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// WithLen 保持方向，设置长度；零向量保持不变
func (v Vec3) WithLen(l float64) Vec3 {
	n, ok := v.Normalize()
	if !ok {
		return v
	}
	return n.Scale(l)
}

// DirectionFromAngles 由水平角（绕 Y 轴）与仰角计算单位方向向量（角度制）
//
// 水平角 0°、仰角 0° 指向 +Z；仰角为正时向上。
func DirectionFromAngles(yawDeg, pitchDeg float64) Vec3 {
	yaw := yawDeg * math.Pi / 180
	pitch := pitchDeg * math.Pi / 180
	return Vec3{
		X: math.Sin(yaw) * math.Cos(pitch),
		Y: math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
