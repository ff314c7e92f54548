package components

import "github.com/decker502/cannon/pkg/stage"

// TargetComponent 标靶实体
// Instance 同时登记在 StageSystem 的 TargetSet 中
type TargetComponent struct {
	Instance *stage.TargetInstance
}
