package scenes

import (
	"fmt"
	"strings"

	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/event"
	"github.com/decker502/cannon/pkg/session"
)

// scorePopup 命中得分提示
type scorePopup struct {
	Text string
	TTL  float64
}

// HUD 界面状态
//
// 订阅生命周期事件，记录横幅、通关结果与得分提示；数值直接从 RunState 读取。
type HUD struct {
	events *event.Dispatcher
	subs   []event.SubscriptionID

	banner        event.BannerData
	bannerVisible bool
	bannerTTL     float64 // 0 表示直到 BannerHidden

	finish *event.FinishData
	popups []scorePopup

	flash    string
	flashTTL float64
}

// NewHUD 创建 HUD 并订阅事件
func NewHUD(events *event.Dispatcher) *HUD {
	h := &HUD{events: events}
	if events == nil {
		return h
	}
	h.subs = append(h.subs,
		events.SubscribeFunc(event.BannerShown, h.onBannerShown),
		events.SubscribeFunc(event.BannerHidden, h.onBannerHidden),
		events.SubscribeFunc(event.ScoreChanged, h.onScoreChanged),
		events.SubscribeFunc(event.GameFinished, h.onGameFinished),
	)
	return h
}

// Close 取消订阅
func (h *HUD) Close() {
	for _, id := range h.subs {
		h.events.Unsubscribe(id)
	}
	h.subs = nil
}

func (h *HUD) onBannerShown(e event.Event) {
	data, ok := e.Data.(event.BannerData)
	if !ok {
		return
	}
	h.banner = data
	h.bannerVisible = true
	h.bannerTTL = data.Duration
	if data.Kind == event.BannerStart {
		// 新的一关开始，上一局的通关结果不再显示
		h.finish = nil
		h.popups = nil
	}
}

func (h *HUD) onBannerHidden(e event.Event) {
	data, ok := e.Data.(event.BannerData)
	if !ok || data.Kind != h.banner.Kind {
		return
	}
	h.bannerVisible = false
}

func (h *HUD) onScoreChanged(e event.Event) {
	data, ok := e.Data.(event.ScoreData)
	if !ok || data.Delta == 0 {
		return
	}
	h.popups = append(h.popups, scorePopup{
		Text: fmt.Sprintf("+%d", data.Delta),
		TTL:  config.ScorePopupDuration,
	})
}

func (h *HUD) onGameFinished(e event.Event) {
	data, ok := e.Data.(event.FinishData)
	if !ok {
		return
	}
	h.finish = &data
}

// Flash 显示一条临时提示
func (h *HUD) Flash(msg string) {
	h.flash = msg
	h.flashTTL = config.FlashMessageDuration
}

// Update 推进提示计时
func (h *HUD) Update(dt float64) {
	if h.bannerVisible && h.bannerTTL > 0 {
		h.bannerTTL -= dt
		if h.bannerTTL <= 0 {
			h.bannerVisible = false
		}
	}

	alive := h.popups[:0]
	for _, p := range h.popups {
		p.TTL -= dt
		if p.TTL > 0 {
			alive = append(alive, p)
		}
	}
	h.popups = alive

	if h.flashTTL > 0 {
		h.flashTTL -= dt
		if h.flashTTL <= 0 {
			h.flash = ""
		}
	}
}

// Banner 当前横幅
func (h *HUD) Banner() (event.BannerData, bool) {
	return h.banner, h.bannerVisible
}

// Finish 最近一次通关结果
func (h *HUD) Finish() *event.FinishData {
	return h.finish
}

// Popups 正在显示的得分提示
func (h *HUD) Popups() []scorePopup {
	return h.popups
}

// FlashMessage 当前临时提示
func (h *HUD) FlashMessage() string {
	return h.flash
}

// Lines HUD 左上角的文字行
func (h *HUD) Lines(state session.RunState, aim *components.CannonComponent) []string {
	lines := []string{
		fmt.Sprintf("%s  [%s]", state.StageName, state.Phase),
		fmt.Sprintf("SCORE   %d", state.Score),
		fmt.Sprintf("TARGETS %d/%d", state.DestroyedCount, state.RequiredDestroyCount),
		fmt.Sprintf("SHOTS   %d/%d", state.RemainingShots, state.ShotLimit),
		fmt.Sprintf("TIME    %d", ceilSeconds(state.RemainingTime)),
	}
	if aim != nil {
		lines = append(lines, fmt.Sprintf("TYPE %s  POWER %.1f  ELEV %.1f  YAW %.1f",
			aim.Type, aim.Power, aim.Pitch, aim.Yaw))
	}
	return lines
}

// FinishText 通关结果文字
func FinishText(f event.FinishData) string {
	if f.NewRecord {
		return fmt.Sprintf("NEW RECORD: %d", f.Score)
	}
	return fmt.Sprintf("SCORE: %d  HIGH SCORE: %d", f.Score, f.HighScore)
}

// RunSummary 本局摘要（复制到剪贴板）
func RunSummary(state session.RunState, finish *event.FinishData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stage: %d (%s)\n", state.CurrentStageIndex+1, state.StageName)
	fmt.Fprintf(&b, "Phase: %s\n", state.Phase)
	fmt.Fprintf(&b, "Score: %d\n", state.Score)
	fmt.Fprintf(&b, "Destroyed: %d/%d (generated %d)\n", state.DestroyedCount, state.RequiredDestroyCount, state.GeneratedCount)
	fmt.Fprintf(&b, "Shots left: %d/%d\n", state.RemainingShots, state.ShotLimit)
	fmt.Fprintf(&b, "Time left: %.1fs\n", state.RemainingTime)
	if finish != nil {
		b.WriteString(FinishText(*finish))
		b.WriteString("\n")
	}
	return b.String()
}

func ceilSeconds(v float64) int {
	n := int(v)
	if float64(n) < v {
		n++
	}
	return n
}
