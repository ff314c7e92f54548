package game

import (
	"log"

	"github.com/decker502/cannon/pkg/utils"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "cannon_arcade"

// GameState 跨场景共享的全局状态
// 持有 gdata 存储以及基于它的存档、设置管理器
type GameState struct {
	gdataManager    *gdata.Manager // 可为 nil（降级模式）
	saveManager     *SaveManager
	settingsManager *SettingsManager
}

// NewGameState 打开 gdata 存储并创建存档、设置管理器
//
// 存储无法打开时以降级模式运行：进度与设置只保存在内存中。
//
// 参数：
//   - appName: gdata 应用名，为空时使用 AppName
func NewGameState(appName string) *GameState {
	if appName == "" {
		appName = AppName
	}
	manager, err := openGdata(appName)
	if err != nil {
		log.Printf("[GameState] Warning: gdata unavailable: %v (progress will not be saved)", err)
		manager = nil
	}
	return NewGameStateWith(manager)
}

// NewGameStateWith 使用已打开的 gdata 存储创建全局状态
// manager 可为 nil
func NewGameStateWith(manager *gdata.Manager) *GameState {
	return &GameState{
		gdataManager:    manager,
		saveManager:     NewSaveManager(manager),
		settingsManager: NewSettingsManager(manager),
	}
}

func openGdata(appName string) (*gdata.Manager, error) {
	// Android 上 gdata 不会预先创建存储目录
	if err := utils.EnsureStorageDir(appName); err != nil {
		return nil, err
	}
	if path := utils.GetStoragePath(); path != "" {
		log.Printf("[GameState] Storage path: %s", path)
	}
	return gdata.Open(gdata.Config{AppName: appName})
}

// GetGdataManager gdata 存储，降级模式下为 nil
func (gs *GameState) GetGdataManager() *gdata.Manager {
	return gs.gdataManager
}

// GetSaveManager 进度存档管理器
func (gs *GameState) GetSaveManager() *SaveManager {
	return gs.saveManager
}

// GetSettingsManager 设置管理器
func (gs *GameState) GetSettingsManager() *SettingsManager {
	return gs.settingsManager
}

// SaveAll 保存进度与设置
// 用于游戏关闭时
func (gs *GameState) SaveAll() error {
	if err := gs.saveManager.Save(); err != nil {
		return err
	}
	return gs.settingsManager.Save()
}
