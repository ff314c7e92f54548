//go:build !mobile

package utils

import "os"

// IsMobile 是否按触屏设备运行（没有键盘，横幅改为点击继续）
// 桌面构建默认为 false，设置 CANNON_MOBILE_EMULATE=1 可在桌面上模拟
func IsMobile() bool {
	return os.Getenv("CANNON_MOBILE_EMULATE") == "1"
}
