// Package scenes 实现游戏场景：把关卡生命周期、大炮与炮弹系统接到 ebiten 主循环
package scenes

import (
	"log"

	"github.com/atotto/clipboard"
	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/event"
	"github.com/decker502/cannon/pkg/game"
	"github.com/decker502/cannon/pkg/input"
	"github.com/decker502/cannon/pkg/session"
	"github.com/decker502/cannon/pkg/systems"
	"github.com/decker502/cannon/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// Command 场景快捷键命令
type Command int

const (
	// CmdRestart R: 从第一关重新开始
	CmdRestart Command = iota
	// CmdRetry Y: 重玩本关
	CmdRetry
	// CmdAdvance N: 手动进入下一关
	CmdAdvance
	// CmdCopySummary C: 复制本局摘要
	CmdCopySummary
	// CmdToggleTrajectory T: 显示/隐藏预测线
	CmdToggleTrajectory
	// CmdToggleInvertY I: 反转垂直拖动
	CmdToggleInvertY
)

// GameSceneConfig 游戏场景的依赖
type GameSceneConfig struct {
	Stages     *config.StageCollection
	Cannon     *config.CannonConfig // 为空时使用默认配置
	State      *game.GameState
	StartStage int
}

// GameScene 游戏场景
//
// 每帧顺序：快捷键 → 瞄准输入 → 生命周期计时 → 标靶移动 → 炮弹推进 → 清理实体。
type GameScene struct {
	em     *ecs.EntityManager
	events *event.Dispatcher
	state  *game.GameState

	life        *session.Lifecycle
	stage       *systems.StageSystem
	cannon      *systems.CannonSystem
	projectiles *systems.ProjectileSystem
	motion      *systems.TargetMotionSystem
	aim         *input.AimController

	hud    *HUD
	camera Camera
	face   *text.GoXFace

	// copyToClipboard 写剪贴板，测试时替换
	copyToClipboard func(string) error
}

// NewGameScene 创建游戏场景并开始指定关卡
func NewGameScene(cfg GameSceneConfig) *GameScene {
	cannonCfg := cfg.Cannon
	if cannonCfg == nil {
		cannonCfg = config.DefaultCannonConfig()
	}
	gs := cfg.State
	if gs == nil {
		gs = game.NewGameStateWith(nil)
	}
	settings := gs.GetSettingsManager().GetSettings()

	em := ecs.NewEntityManager()
	events := event.NewDispatcher()
	// 预测线与实际飞行共用同一个积分器
	integrator := ballistics.NewIntegrator(cannonCfg.Easing)

	stageSys := systems.NewStageSystem(em, cfg.Stages, nil)
	cannon := systems.NewCannonSystem(em, cannonCfg, integrator, nil)
	cannon.DragSensitivity = settings.DragSensitivity
	cannon.InvertY = settings.InvertYAxis

	opts := session.DefaultOptions()
	opts.AutoAdvance = settings.AutoAdvance
	var stages session.StageSource
	if cfg.Stages != nil {
		stages = cfg.Stages
	}
	life := session.NewLifecycle(session.Deps{
		Stages: stages,
		Placer: stageSys,
		Store:  gs.GetSaveManager(),
		Homer:  cannon,
		Events: events,
	}, opts)
	cannon.SetGate(life)

	s := &GameScene{
		em:              em,
		events:          events,
		state:           gs,
		life:            life,
		stage:           stageSys,
		cannon:          cannon,
		projectiles:     systems.NewProjectileSystem(em, integrator, stageSys, life),
		motion:          systems.NewTargetMotionSystem(em),
		aim:             input.NewAimController(cannon),
		hud:             NewHUD(events),
		camera:          DefaultCamera(),
		face:            text.NewGoXFace(basicfont.Face7x13),
		copyToClipboard: clipboard.WriteAll,
	}

	log.Printf("[GameScene] Starting at stage %d", cfg.StartStage)
	life.Start(cfg.StartStage)
	return s
}

// Lifecycle 关卡生命周期
func (s *GameScene) Lifecycle() *session.Lifecycle {
	return s.life
}

// Cannon 大炮系统
func (s *GameScene) Cannon() *systems.CannonSystem {
	return s.cannon
}

// HUD 界面状态
func (s *GameScene) HUD() *HUD {
	return s.hud
}

// Update 读取输入并推进一帧
func (s *GameScene) Update(deltaTime float64) {
	for _, cmd := range readCommands() {
		s.Apply(cmd)
	}
	if idx, ok := readStageJump(); ok {
		s.JumpTo(idx)
	}
	if utils.IsMobile() && len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		if banner, ok := s.hud.Banner(); ok {
			if cmd, ok := BannerTapCommand(banner); ok {
				s.Apply(cmd)
			}
		}
	}
	s.aim.Update(deltaTime)
	s.Step(deltaTime)
}

// Step 推进一帧游戏逻辑（不读取输入）
func (s *GameScene) Step(deltaTime float64) {
	s.life.Tick(deltaTime)
	s.motion.Update(deltaTime)
	s.projectiles.Update(deltaTime)
	s.hud.Update(deltaTime)
	s.em.RemoveMarkedEntities()
}

// Apply 执行快捷键命令
func (s *GameScene) Apply(cmd Command) {
	settings := s.state.GetSettingsManager()
	switch cmd {
	case CmdRestart:
		s.life.RestartInPlace()
	case CmdRetry:
		s.life.RetryStage()
	case CmdAdvance:
		if !s.life.Advance() {
			log.Printf("[GameScene] Advance ignored in phase %s", s.life.State().Phase)
		}
	case CmdCopySummary:
		summary := RunSummary(s.life.State(), s.hud.Finish())
		if err := s.copyToClipboard(summary); err != nil {
			log.Printf("[GameScene] Warning: failed to copy run summary: %v", err)
			s.hud.Flash("CLIPBOARD UNAVAILABLE")
			return
		}
		s.hud.Flash("SUMMARY COPIED")
	case CmdToggleTrajectory:
		settings.SetShowTrajectory(!settings.GetSettings().ShowTrajectory)
		s.saveSettings()
	case CmdToggleInvertY:
		settings.SetInvertYAxis(!settings.GetSettings().InvertYAxis)
		s.cannon.InvertY = settings.GetSettings().InvertYAxis
		s.saveSettings()
	}
}

// JumpTo 跳转到指定关卡，未解锁时显示提示
func (s *GameScene) JumpTo(index int) {
	if err := s.life.JumpToStage(index); err != nil {
		log.Printf("[GameScene] Jump rejected: %v", err)
		s.hud.Flash(err.Error())
	}
}

// SaveOnExit 游戏关闭时保存进度与设置
func (s *GameScene) SaveOnExit() bool {
	if err := s.state.SaveAll(); err != nil {
		log.Printf("[GameScene] Error: failed to save on exit: %v", err)
		return false
	}
	return true
}

func (s *GameScene) saveSettings() {
	if err := s.state.GetSettingsManager().Save(); err != nil {
		log.Printf("[GameScene] Error: failed to save settings: %v", err)
	}
}

var commandKeys = []struct {
	key ebiten.Key
	cmd Command
}{
	{ebiten.KeyR, CmdRestart},
	{ebiten.KeyY, CmdRetry},
	{ebiten.KeyN, CmdAdvance},
	{ebiten.KeyC, CmdCopySummary},
	{ebiten.KeyT, CmdToggleTrajectory},
	{ebiten.KeyI, CmdToggleInvertY},
}

func readCommands() []Command {
	var cmds []Command
	for _, k := range commandKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			cmds = append(cmds, k.cmd)
		}
	}
	return cmds
}

// BannerTapCommand 触屏设备上点击横幅对应的命令（没有键盘时使用）
func BannerTapCommand(banner event.BannerData) (Command, bool) {
	switch banner.Kind {
	case event.BannerFail:
		return CmdRetry, true
	case event.BannerFinal:
		return CmdRestart, true
	case event.BannerClear:
		if banner.Duration == 0 {
			return CmdAdvance, true
		}
	}
	return 0, false
}

// readStageJump 数字键 1-9 跳转到对应关卡
func readStageJump() (int, bool) {
	for i := 0; i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			return i, true
		}
	}
	return 0, false
}
