package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 拖动灵敏度范围
const (
	MinDragSensitivity = 0.1
	MaxDragSensitivity = 5.0
)

// GameSettings 全局游戏设置
type GameSettings struct {
	// 操作设置
	DragSensitivity float64 `yaml:"dragSensitivity"` // 拖动瞄准灵敏度
	InvertYAxis     bool    `yaml:"invertYAxis"`     // 反转垂直拖动

	// 显示设置
	ShowTrajectory bool `yaml:"showTrajectory"` // 显示预测线
	Fullscreen     bool `yaml:"fullscreen"`     // 启动时是否全屏

	// 流程设置
	AutoAdvance bool `yaml:"autoAdvance"` // 过关后自动进入下一关
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		DragSensitivity: 1.0,
		InvertYAxis:     false,
		ShowTrajectory:  true,
		Fullscreen:      false,
		AutoAdvance:     true,
	}
}

// SettingsManager 设置管理器
// 负责游戏设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 加载失败不是致命错误，使用默认设置
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 先填默认值，缺失的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.DragSensitivity = clampSensitivity(loaded.DragSensitivity)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetDragSensitivity 设置拖动灵敏度
//
// 值会被限制在 [MinDragSensitivity, MaxDragSensitivity] 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetDragSensitivity(v float64) {
	sm.settings.DragSensitivity = clampSensitivity(v)
}

// SetInvertYAxis 设置是否反转垂直拖动
func (sm *SettingsManager) SetInvertYAxis(invert bool) {
	sm.settings.InvertYAxis = invert
}

// SetShowTrajectory 设置是否显示预测线
func (sm *SettingsManager) SetShowTrajectory(show bool) {
	sm.settings.ShowTrajectory = show
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetAutoAdvance 设置过关后是否自动进入下一关
func (sm *SettingsManager) SetAutoAdvance(enabled bool) {
	sm.settings.AutoAdvance = enabled
}

// clampSensitivity 将灵敏度限制在有效范围内，0 或非法值回退为默认值
func clampSensitivity(v float64) float64 {
	if !(v > 0) {
		return DefaultSettings().DragSensitivity
	}
	if v < MinDragSensitivity {
		return MinDragSensitivity
	}
	if v > MaxDragSensitivity {
		return MaxDragSensitivity
	}
	return v
}
