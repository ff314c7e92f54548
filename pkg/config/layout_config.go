package config

// 布局配置常量
// 本文件定义了窗口尺寸、摄像机参数与界面元素位置

// 窗口
const (
	// GameWindowWidth 逻辑屏幕宽度（像素）
	GameWindowWidth = 960
	// GameWindowHeight 逻辑屏幕高度（像素）
	GameWindowHeight = 540
)

// 摄像机（世界坐标，Y 轴向上，大炮朝 +Z 射击）
const (
	// CameraEyeX/Y/Z 摄像机位置，位于大炮后上方
	CameraEyeX = 0.0
	CameraEyeY = 6.0
	CameraEyeZ = -10.0

	// CameraPitch 摄像机俯角（角度制，向下为正）
	CameraPitch = 10.0

	// CameraFocal 焦距（像素）
	CameraFocal = 620.0

	// CameraNear 近裁剪距离，更近的点不绘制
	CameraNear = 0.5
)

// 地面网格
const (
	// GroundGridSpacing 地面网格间距（米）
	GroundGridSpacing = 5.0
	// GroundGridHalfWidth 地面网格在 X 方向的半宽
	GroundGridHalfWidth = 30.0
	// GroundGridDepth 地面网格在 Z 方向的长度
	GroundGridDepth = 60.0
)

// 界面
const (
	// HUDMarginX / HUDMarginY HUD 左上角位置
	HUDMarginX = 12.0
	HUDMarginY = 12.0
	// HUDLineHeight HUD 行高
	HUDLineHeight = 16.0

	// BannerScale 横幅文字放大倍数
	BannerScale = 3.0

	// ScorePopupDuration 得分提示显示时长（秒）
	ScorePopupDuration = 1.0
	// FlashMessageDuration 临时提示显示时长（秒）
	FlashMessageDuration = 2.0
)

// GetGroundBounds 返回地面网格的世界坐标边界
// 返回值：minX, minZ, maxX, maxZ
func GetGroundBounds() (minX, minZ, maxX, maxZ float64) {
	return -GroundGridHalfWidth, 0, GroundGridHalfWidth, GroundGridDepth
}
