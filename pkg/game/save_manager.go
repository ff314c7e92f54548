package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ProgressData 跨会话保存的游戏进度
type ProgressData struct {
	CurrentStage int `yaml:"currentStage"` // 下次启动时进入的关卡
	HighestStage int `yaml:"highestStage"` // 到达过的最高关卡（解锁判定用）
	HighScore    int `yaml:"highScore"`    // 通关最高分
	ClearCount   int `yaml:"clearCount"`   // 通关次数
}

// SaveManager 进度存档管理器
//
// 职责：
//   - 记录当前关卡与到达过的最高关卡
//   - 通关时记录最高分
//
// 每次修改后立即写入 gdata；gdataManager 为 nil 时只保存在内存中（降级模式）。
type SaveManager struct {
	gdataManager *gdata.Manager
	data         *ProgressData
}

// 存储路径常量
const (
	progressObject   = "progress"
	progressProperty = "default"
)

// NewSaveManager 创建存档管理器并加载已有进度
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//
// 返回：
//   - *SaveManager: 存档管理器实例（加载失败时使用空进度）
func NewSaveManager(gdataManager *gdata.Manager) *SaveManager {
	sm := &SaveManager{
		gdataManager: gdataManager,
		data:         &ProgressData{},
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SaveManager] Warning: Failed to load progress: %v (starting fresh)", err)
	}
	return sm
}

// Load 从 gdata 加载进度
//
// 返回：
//   - error: 数据存在但无法读取或解析时返回错误
func (sm *SaveManager) Load() error {
	if sm.gdataManager == nil {
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}

	raw, err := sm.gdataManager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	var loaded ProgressData
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	if loaded.CurrentStage < 0 {
		loaded.CurrentStage = 0
	}
	if loaded.HighestStage < loaded.CurrentStage {
		loaded.HighestStage = loaded.CurrentStage
	}

	sm.data = &loaded
	log.Printf("[SaveManager] Progress loaded: stage=%d highest=%d highScore=%d",
		loaded.CurrentStage, loaded.HighestStage, loaded.HighScore)
	return nil
}

// Save 保存进度到 gdata
// 降级模式下直接返回 nil
func (sm *SaveManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	raw, err := yaml.Marshal(sm.data)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(progressObject, progressProperty, raw); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// CurrentStage 保存的当前关卡
func (sm *SaveManager) CurrentStage() int {
	return sm.data.CurrentStage
}

// SetCurrentStage 记录当前关卡，并更新到达过的最高关卡
func (sm *SaveManager) SetCurrentStage(index int) {
	if index < 0 {
		index = 0
	}
	sm.data.CurrentStage = index
	if index > sm.data.HighestStage {
		sm.data.HighestStage = index
	}
	sm.persist()
}

// HighestStage 到达过的最高关卡
func (sm *SaveManager) HighestStage() int {
	return sm.data.HighestStage
}

// HighScore 通关最高分
func (sm *SaveManager) HighScore() int {
	return sm.data.HighScore
}

// RecordScore 记录一次通关的最终分数
//
// 返回：
//   - int: 记录后的最高分
//   - bool: 是否刷新了纪录
func (sm *SaveManager) RecordScore(score int) (int, bool) {
	sm.data.ClearCount++
	record := score > sm.data.HighScore
	if record {
		sm.data.HighScore = score
		log.Printf("[SaveManager] New high score: %d", score)
	}
	sm.persist()
	return sm.data.HighScore, record
}

// Progress 当前进度的副本
func (sm *SaveManager) Progress() ProgressData {
	return *sm.data
}

// Reset 清空进度（最高分保留）
func (sm *SaveManager) Reset() {
	sm.data = &ProgressData{HighScore: sm.data.HighScore, ClearCount: sm.data.ClearCount}
	sm.persist()
}

func (sm *SaveManager) persist() {
	if err := sm.Save(); err != nil {
		log.Printf("[SaveManager] Error: %v", err)
	}
}
