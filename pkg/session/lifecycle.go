package session

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/event"
)

// 失败原因
const (
	FailReasonShots = "shots"
	FailReasonTime  = "time"
)

// StageSource 关卡配置来源
type StageSource interface {
	Count() int
	// GetStage 返回关卡配置与实际使用的索引（越界时回退到 0）
	GetStage(index int) (*config.StageConfig, int)
}

// Placer 关卡场景的布置者
type Placer interface {
	// PrepareStage 清空上一关的全部标靶与炮弹并生成新关卡
	// 返回实际生成的标靶数
	PrepareStage(index int, cfg *config.StageConfig) (int, error)
}

// ProgressStore 跨会话进度存储
type ProgressStore interface {
	SetCurrentStage(index int)
	HighestStage() int
	// RecordScore 记录最终分数，返回历史最高分与是否刷新纪录
	RecordScore(score int) (int, bool)
}

// Homer 把大炮恢复到初始瞄准状态
type Homer interface {
	Reset()
}

// Options 生命周期参数
type Options struct {
	StartBannerTime float64 // 关卡开始横幅时长（秒）
	ClearBannerTime float64 // 过关横幅时长（秒）
	AutoAdvance     bool    // 过关后自动进入下一关
}

// DefaultOptions 默认参数：开始横幅 1 秒，过关横幅 2 秒，自动进入下一关
func DefaultOptions() Options {
	return Options{
		StartBannerTime: 1.0,
		ClearBannerTime: 2.0,
		AutoAdvance:     true,
	}
}

// Deps 生命周期的协作者
type Deps struct {
	Stages    StageSource
	Placer    Placer
	Store     ProgressStore     // 可为空
	Homer     Homer             // 可为空
	Events    *event.Dispatcher // 可为空
	Scheduler *Scheduler        // 为空时自动创建
}

// Lifecycle 关卡生命周期（会话上下文）
type Lifecycle struct {
	deps  Deps
	opts  Options
	sched *Scheduler

	state          RunState
	stage          *config.StageConfig
	stageBaseScore int // 进入当前关卡时的分数，重玩本关时恢复
	lastSecond     int
}

// NewLifecycle 创建生命周期
func NewLifecycle(deps Deps, opts Options) *Lifecycle {
	sched := deps.Scheduler
	if sched == nil {
		sched = NewScheduler()
	}
	return &Lifecycle{
		deps:  deps,
		opts:  opts,
		sched: sched,
		state: RunState{Phase: Idle},
	}
}

// State 返回运行状态快照
func (l *Lifecycle) State() RunState {
	return l.state
}

// Stage 当前关卡配置
func (l *Lifecycle) Stage() *config.StageConfig {
	return l.stage
}

// Scheduler 生命周期使用的调度器
func (l *Lifecycle) Scheduler() *Scheduler {
	return l.sched
}

// CanFire 当前是否接受发射
func (l *Lifecycle) CanFire() bool {
	return l.state.Phase == Playing && !l.state.TransitionLock && l.state.RemainingShots > 0
}

// IsFinalStage 当前是否为最终关
func (l *Lifecycle) IsFinalStage() bool {
	return l.deps.Stages == nil || l.state.CurrentStageIndex >= l.deps.Stages.Count()-1
}

// Start 开始一局游戏
// 索引越界时回退到第 0 关
func (l *Lifecycle) Start(stageIndex int) {
	log.Printf("[Lifecycle] Starting session at stage %d", stageIndex)
	l.sched.CancelAll()
	l.state.Score = 0
	l.enterStage(stageIndex)
}

// Tick 每帧调用：推进调度器，游戏中倒计时
func (l *Lifecycle) Tick(dt float64) {
	// 本帧刚解锁的关卡从下一帧开始计时
	counting := l.acceptingInput()
	l.sched.Update(dt)

	if !counting || !l.acceptingInput() || dt <= 0 {
		return
	}

	l.state.RemainingTime = math.Max(0, l.state.RemainingTime-dt)
	if sec := int(math.Ceil(l.state.RemainingTime)); sec != l.lastSecond {
		l.lastSecond = sec
		l.emit(event.TimeChanged, event.TimeData{Remaining: l.state.RemainingTime})
	}

	if l.state.RemainingTime <= 0 {
		l.fail(FailReasonTime)
	}
}

// ShotFired 发射一发炮弹
//
// 过场中或非游戏阶段时忽略（返回 false），调用方不得生成炮弹。
// 弹数用尽且击破数不足时立即失败，仍在飞行的炮弹之后命中也不再计分。
// 返回 true 时炮弹已计入弹数，即使随后判定失败也应生成。
func (l *Lifecycle) ShotFired() bool {
	if !l.CanFire() {
		return false
	}
	l.state.RemainingShots--
	if l.state.RemainingShots < 0 {
		l.state.RemainingShots = 0
	}
	l.state.ShotsInFlight++
	l.emit(event.ShotsChanged, event.ShotsData{Remaining: l.state.RemainingShots, Limit: l.state.ShotLimit})

	if l.state.RemainingShots <= 0 && l.state.DestroyedCount < l.state.RequiredDestroyCount {
		l.fail(FailReasonShots)
	}
	return true
}

// ShotResolved 一发炮弹结束（命中、落地、超时或被销毁）
// 只用于统计飞行中的炮弹数
func (l *Lifecycle) ShotResolved() {
	if l.state.ShotsInFlight > 0 {
		l.state.ShotsInFlight--
	}
}

// AddScore 记录一次击破
// 过场中或非游戏阶段时忽略（返回 false）
func (l *Lifecycle) AddScore(points int) bool {
	if !l.acceptingInput() {
		return false
	}
	l.state.Score += points
	l.state.DestroyedCount++
	log.Printf("[Lifecycle] Score +%d = %d, destroyed %d/%d",
		points, l.state.Score, l.state.DestroyedCount, l.state.RequiredDestroyCount)
	l.emit(event.ScoreChanged, event.ScoreData{
		Score:     l.state.Score,
		Delta:     points,
		Destroyed: l.state.DestroyedCount,
		Required:  l.state.RequiredDestroyCount,
	})

	if l.state.DestroyedCount >= l.state.RequiredDestroyCount {
		l.clear()
	}
	return true
}

// Advance 关闭自动进关时，手动从过关状态进入下一关
func (l *Lifecycle) Advance() bool {
	if l.state.Phase != Cleared || l.IsFinalStage() {
		return false
	}
	l.sched.CancelAll()
	l.transitionToNext()
	return true
}

// RestartInPlace 不重新加载场景，从第 0 关重新开始
// 分数清零，重新生成标靶并让大炮回到初始状态
func (l *Lifecycle) RestartInPlace() {
	log.Printf("[Lifecycle] Restarting in place")
	l.sched.CancelAll()
	l.state.Score = 0
	l.enterStage(0)
}

// RetryStage 重玩当前关卡
// 分数恢复到进入本关时的值
func (l *Lifecycle) RetryStage() {
	log.Printf("[Lifecycle] Retrying stage %d", l.state.CurrentStageIndex)
	l.sched.CancelAll()
	l.state.Score = l.stageBaseScore
	l.enterStage(l.state.CurrentStageIndex)
}

// JumpToStage 跳转到指定关卡
// 索引越界或关卡未解锁时拒绝跳转
func (l *Lifecycle) JumpToStage(index int) error {
	if l.deps.Stages == nil || index < 0 || index >= l.deps.Stages.Count() {
		return fmt.Errorf("invalid stage index %d", index)
	}
	if !l.IsUnlocked(index) {
		return fmt.Errorf("stage %d is locked", index)
	}
	log.Printf("[Lifecycle] Jumping to stage %d", index)
	l.sched.CancelAll()
	l.state.Score = 0
	l.enterStage(index)
	return nil
}

// IsUnlocked 关卡是否可进入：配置为解锁，或已经到达过
func (l *Lifecycle) IsUnlocked(index int) bool {
	if l.deps.Stages == nil {
		return false
	}
	cfg, got := l.deps.Stages.GetStage(index)
	if cfg == nil || got != index {
		return false
	}
	if cfg.IsUnlocked() {
		return true
	}
	return l.deps.Store != nil && index <= l.deps.Store.HighestStage()
}

func (l *Lifecycle) acceptingInput() bool {
	return l.state.Phase == Playing && !l.state.TransitionLock
}

// enterStage 加锁、布置关卡、显示开始横幅，横幅结束后重置关卡计数并解锁
func (l *Lifecycle) enterStage(index int) {
	l.lock(Transitioning)
	l.setupStage(index)
	if l.deps.Homer != nil {
		l.deps.Homer.Reset()
	}
	l.showStartBanner()
}

// setupStage 重新生成标靶并按实际数量收紧过关条件
func (l *Lifecycle) setupStage(index int) {
	if l.deps.Stages == nil {
		log.Printf("[Lifecycle] Error: no stage source configured")
		return
	}
	cfg, idx := l.deps.Stages.GetStage(index)
	l.stage = cfg
	l.state.CurrentStageIndex = idx
	l.state.ShotsInFlight = 0
	l.stageBaseScore = l.state.Score

	if cfg == nil {
		l.state.GeneratedCount = 0
		l.state.RequiredDestroyCount = clampRequired(0, 0)
		return
	}
	l.state.StageName = cfg.Name

	generated := 0
	if l.deps.Placer == nil {
		log.Printf("[Lifecycle] Error: no placer configured, stage %q has no targets", cfg.Name)
	} else {
		n, err := l.deps.Placer.PrepareStage(idx, cfg)
		if err != nil {
			log.Printf("[Lifecycle] Error: failed to prepare stage %q: %v", cfg.Name, err)
		}
		generated = n
	}

	l.state.GeneratedCount = generated
	l.state.RequiredDestroyCount = clampRequired(cfg.RequiredDestroyCount, generated)
	if generated == 0 {
		log.Printf("[Lifecycle] Warning: stage %q has no targets and cannot be cleared", cfg.Name)
	} else if l.state.RequiredDestroyCount != cfg.RequiredDestroyCount {
		log.Printf("[Lifecycle] Required destroy count for %q clamped %d -> %d (generated %d)",
			cfg.Name, cfg.RequiredDestroyCount, l.state.RequiredDestroyCount, generated)
	}

	if l.deps.Store != nil {
		l.deps.Store.SetCurrentStage(idx)
	}
}

func (l *Lifecycle) showStartBanner() {
	name := fmt.Sprintf("STAGE %d", l.state.CurrentStageIndex+1)
	if l.stage != nil && l.stage.Name != "" {
		name = l.stage.Name
	}
	l.emit(event.BannerShown, event.BannerData{Kind: event.BannerStart, Text: name, Duration: l.opts.StartBannerTime})

	l.sched.After(l.opts.StartBannerTime, func() {
		l.emit(event.BannerHidden, event.BannerData{Kind: event.BannerStart})
		l.resetCounters()
		l.state.Phase = Playing
		l.state.TransitionLock = false
		log.Printf("[Lifecycle] Stage %d (%s) started: targets=%d required=%d shots=%d time=%.0fs",
			l.state.CurrentStageIndex, l.state.StageName, l.state.GeneratedCount,
			l.state.RequiredDestroyCount, l.state.RemainingShots, l.state.RemainingTime)
		l.emit(event.StageStarting, l.stageData(""))
	})
}

// resetCounters 重置关卡计数（分数跨关保留）
func (l *Lifecycle) resetCounters() {
	l.state.DestroyedCount = 0
	if l.stage != nil {
		l.state.ShotLimit = l.stage.ShotLimit
		l.state.TimeLimit = l.stage.TimeLimit
	}
	l.state.RemainingShots = l.state.ShotLimit
	l.state.RemainingTime = l.state.TimeLimit
	l.lastSecond = int(math.Ceil(l.state.RemainingTime))

	l.emit(event.ScoreChanged, event.ScoreData{Score: l.state.Score, Required: l.state.RequiredDestroyCount})
	l.emit(event.ShotsChanged, event.ShotsData{Remaining: l.state.RemainingShots, Limit: l.state.ShotLimit})
	l.emit(event.TimeChanged, event.TimeData{Remaining: l.state.RemainingTime})
}

func (l *Lifecycle) lock(phase Phase) {
	l.state.Phase = phase
	l.state.TransitionLock = true
}

// clear 过关：最终关进入 Finished，否则显示过关横幅后进入下一关
func (l *Lifecycle) clear() {
	l.lock(Cleared)
	final := l.IsFinalStage()
	log.Printf("[Lifecycle] Stage %d cleared (final=%v), score %d", l.state.CurrentStageIndex, final, l.state.Score)
	l.emit(event.StageCleared, l.stageData(""))

	if final {
		l.finish()
		return
	}

	if !l.opts.AutoAdvance {
		l.emit(event.BannerShown, event.BannerData{Kind: event.BannerClear, Text: l.clearText()})
		return
	}

	l.emit(event.BannerShown, event.BannerData{Kind: event.BannerClear, Text: l.clearText(), Duration: l.opts.ClearBannerTime})
	l.sched.After(l.opts.ClearBannerTime, func() {
		l.emit(event.BannerHidden, event.BannerData{Kind: event.BannerClear})
		l.transitionToNext()
	})
}

func (l *Lifecycle) transitionToNext() {
	l.lock(Transitioning)
	l.setupStage(l.state.CurrentStageIndex + 1)
	l.showStartBanner()
}

// finish 最终关过关：记录最高分，进度回到第 0 关
func (l *Lifecycle) finish() {
	l.state.Phase = Finished
	high, record := l.state.Score, true
	if l.deps.Store != nil {
		high, record = l.deps.Store.RecordScore(l.state.Score)
		l.deps.Store.SetCurrentStage(0)
	}
	l.state.CurrentStageIndex = 0
	log.Printf("[Lifecycle] Game finished: score=%d high=%d newRecord=%v", l.state.Score, high, record)

	l.emit(event.GameFinished, event.FinishData{Score: l.state.Score, HighScore: high, NewRecord: record})
	l.emit(event.BannerShown, event.BannerData{Kind: event.BannerFinal, Text: "ALL STAGES CLEAR!"})
}

// fail 失败：保持锁定直到重新开始
func (l *Lifecycle) fail(reason string) {
	l.lock(Failed)
	log.Printf("[Lifecycle] Stage %d failed (%s): destroyed %d/%d",
		l.state.CurrentStageIndex, reason, l.state.DestroyedCount, l.state.RequiredDestroyCount)
	l.emit(event.StageFailed, l.stageData(reason))
	l.emit(event.BannerShown, event.BannerData{Kind: event.BannerFail, Text: "GAME OVER"})
}

func (l *Lifecycle) clearText() string {
	return fmt.Sprintf("STAGE %d CLEAR!", l.state.CurrentStageIndex+1)
}

func (l *Lifecycle) stageData(reason string) event.StageData {
	return event.StageData{
		Index:    l.state.CurrentStageIndex,
		Name:     l.state.StageName,
		Score:    l.state.Score,
		Final:    l.IsFinalStage(),
		Reason:   reason,
		Required: l.state.RequiredDestroyCount,
		Targets:  l.state.GeneratedCount,
	}
}

func (l *Lifecycle) emit(t event.EventType, data interface{}) {
	l.deps.Events.Dispatch(event.Event{Type: t, Data: data})
}
