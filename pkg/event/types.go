package event

const (
	ScoreChanged  EventType = "ScoreChanged"  // 分数变化，Data: ScoreData
	ShotsChanged  EventType = "ShotsChanged"  // 剩余弹数变化，Data: ShotsData
	TimeChanged   EventType = "TimeChanged"   // 剩余时间变化（整秒变化时），Data: TimeData
	StageStarting EventType = "StageStarting" // 关卡开始，Data: StageData
	StageCleared  EventType = "StageCleared"  // 过关，Data: StageData
	StageFailed   EventType = "StageFailed"   // 失败，Data: StageData
	GameFinished  EventType = "GameFinished"  // 最终关过关，Data: FinishData
	BannerShown   EventType = "BannerShown"   // 横幅显示，Data: BannerData
	BannerHidden  EventType = "BannerHidden"  // 横幅隐藏，Data: BannerData
)

// ScoreData 分数事件数据
type ScoreData struct {
	Score     int
	Delta     int
	Destroyed int
	Required  int
}

// ShotsData 弹数事件数据
type ShotsData struct {
	Remaining int
	Limit     int
}

// TimeData 时间事件数据
type TimeData struct {
	Remaining float64
}

// StageData 关卡事件数据
type StageData struct {
	Index    int
	Name     string
	Score    int
	Final    bool   // 是否为最终关
	Reason   string // 失败原因：shots / time
	Required int
	Targets  int
}

// FinishData 通关事件数据
type FinishData struct {
	Score     int
	HighScore int
	NewRecord bool
}

// BannerKind 横幅种类
type BannerKind string

const (
	BannerStart BannerKind = "start"
	BannerClear BannerKind = "clear"
	BannerFail  BannerKind = "fail"
	BannerFinal BannerKind = "final"
)

// BannerData 横幅事件数据
type BannerData struct {
	Kind     BannerKind
	Text     string
	Duration float64 // 显示时长（秒），0 表示直到下一次隐藏
}
