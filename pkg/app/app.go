// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/embedded"
	"github.com/decker502/cannon/pkg/game"
	"github.com/decker502/cannon/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 嵌入的默认配置
const (
	StagesDataPath = "data/stages.yaml"
	CannonDataPath = "data/cannon.yaml"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Stage 起始关卡索引，小于 0 时从存档继续
	Stage int
	// StagesPath 关卡配置文件路径，为空时使用嵌入的配置
	StagesPath string
	// CannonPath 大炮配置文件路径，为空时使用嵌入的配置
	CannonPath string
	// AppName gdata 存储使用的应用名，为空时使用默认值
	AppName string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	gameState                *game.GameState
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 使用嵌入配置时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	stages, err := loadStages(cfg.StagesPath)
	if err != nil {
		return nil, fmt.Errorf("关卡配置加载失败: %w", err)
	}
	cannonCfg, err := loadCannon(cfg.CannonPath)
	if err != nil {
		return nil, fmt.Errorf("大炮配置加载失败: %w", err)
	}
	log.Printf("[Config] Loaded %d stages", stages.Count())

	gameState := game.NewGameState(cfg.AppName)
	if gameState.GetSettingsManager().GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	startStage := cfg.Stage
	if startStage < 0 {
		startStage = gameState.GetSaveManager().CurrentStage()
		log.Printf("[App] Continuing from save: stage %d", startStage)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(stageIndex int) game.Scene {
		return scenes.NewGameScene(scenes.GameSceneConfig{
			Stages:     stages,
			Cannon:     cannonCfg,
			State:      gameState,
			StartStage: stageIndex,
		})
	})
	sceneManager.LoadStage(startStage)

	return &App{
		sceneManager: sceneManager,
		gameState:    gameState,
		verbose:      cfg.Verbose,
	}, nil
}

// loadStages 从文件或嵌入资源加载关卡合集
func loadStages(path string) (*config.StageCollection, error) {
	if path != "" {
		return config.LoadStageCollection(path)
	}
	data, err := embedded.ReadFile(StagesDataPath)
	if err != nil {
		return nil, err
	}
	return config.ParseStageCollection(data)
}

// loadCannon 从文件或嵌入资源加载大炮配置
// 嵌入资源中没有配置时使用默认值
func loadCannon(path string) (*config.CannonConfig, error) {
	if path != "" {
		return config.LoadCannonConfig(path)
	}
	if !embedded.Exists(CannonDataPath) {
		log.Printf("[Config] Warning: %s not embedded, using default cannon config", CannonDataPath)
		return config.DefaultCannonConfig(), nil
	}
	data, err := embedded.ReadFile(CannonDataPath)
	if err != nil {
		return nil, err
	}
	return config.ParseCannonConfig(data)
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	settings := a.gameState.GetSettingsManager()
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		settings.SetFullscreen(false)
	} else {
		ebiten.SetFullscreen(true)
		settings.SetFullscreen(true)
	}
	if err := settings.Save(); err != nil {
		log.Printf("[App] Error: failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Shutdown 游戏关闭时保存当前场景与全局状态
func (a *App) Shutdown() {
	if !a.sceneManager.SaveOnExit() {
		log.Printf("[App] Warning: scene failed to save on exit")
	}
	if err := a.gameState.SaveAll(); err != nil {
		log.Printf("[App] Error: failed to save on exit: %v", err)
	}
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
