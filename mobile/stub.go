//go:build !mobile

// Package mobile 是 gomobile bind 的入口，仅在 -tags mobile 时包含实际代码
package mobile

// Dummy 让非移动端构建时包仍可被引用
func Dummy() {}
