package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数
// 用于创建从指定关卡开始的游戏场景，避免循环依赖
type SceneFactory func(stageIndex int) Scene

// SceneManager 管理当前活动场景
// 同一时刻只有一个场景的 Update 与 Draw 会被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器
// 初始没有活动场景，使用 SwitchTo 设置
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换活动场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadStage 创建并切换到从指定关卡开始的游戏场景
func (sm *SceneManager) LoadStage(stageIndex int) {
	log.Printf("[SceneManager] Loading stage %d", stageIndex)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Error: SceneFactory not set")
		return
	}

	newScene := sm.sceneFactory(stageIndex)
	if newScene == nil {
		log.Printf("[SceneManager] Error: failed to create scene for stage %d", stageIndex)
		return
	}
	sm.SwitchTo(newScene)
}

// SaveOnExit 如果当前场景实现了 Saveable，调用其 SaveOnExit
// 没有场景或场景不需要保存时返回 true
func (sm *SceneManager) SaveOnExit() bool {
	if s, ok := sm.currentScene.(Saveable); ok {
		return s.SaveOnExit()
	}
	return true
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
