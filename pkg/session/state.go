// Package session 实现一局游戏的关卡生命周期与运行状态
//
// Lifecycle 是会话上下文：一局游戏创建一次，持有关卡配置、标靶生成、
// 进度存储与界面通知等协作者，所有状态修改都在游戏主循环线程内完成。
//
// 状态机：
//
//	Idle → Playing → {Cleared, Failed} → Transitioning → Playing(下一关) | Finished
//
// 过场（横幅显示期间）持有过场锁：计时、扣弹、过关/失败判定全部暂停，
// 同一帧内的第二次命中不会再次触发过关。
package session

import "fmt"

// Phase 关卡阶段
type Phase int

const (
	Idle Phase = iota
	Playing
	Cleared
	Failed
	Transitioning
	Finished
)

var phaseNames = []string{"idle", "playing", "cleared", "failed", "transitioning", "finished"}

// String 返回阶段名称
func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// RunState 一局游戏的运行状态
type RunState struct {
	Score                int
	DestroyedCount       int
	RequiredDestroyCount int // 已按实际生成数量收紧到 [1, GeneratedCount]
	GeneratedCount       int
	RemainingShots       int // 始终 >= 0
	ShotLimit            int
	RemainingTime        float64
	TimeLimit            float64
	CurrentStageIndex    int
	StageName            string
	Phase                Phase
	TransitionLock       bool
	ShotsInFlight        int
}

// clampRequired 把过关所需击破数收紧到 [1, generated]
// 未配置（<=0）或超过实际生成数时取实际生成数
func clampRequired(required, generated int) int {
	if generated <= 0 {
		return 1
	}
	if required <= 0 || required > generated {
		return generated
	}
	return required
}
