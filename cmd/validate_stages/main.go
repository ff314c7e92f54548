// validate_stages 校验关卡与大炮配置文件
//
// 用法：
//
//	go run ./cmd/validate_stages [--stages data/stages.yaml] [--cannon data/cannon.yaml]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/config"
)

func main() {
	stagesPath := flag.String("stages", "data/stages.yaml", "关卡配置文件路径")
	cannonPath := flag.String("cannon", "data/cannon.yaml", "大炮配置文件路径")
	flag.Parse()

	failed := false

	stages, err := config.LoadStageCollection(*stagesPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		failed = true
	} else {
		fmt.Printf("✅ %s: %d stages\n", *stagesPath, stages.Count())
		for i := range stages.Stages {
			s := &stages.Stages[i]
			fmt.Printf("  [%d] %-20s targets=%d required=%d shots=%d time=%.0fs unlocked=%v surfaces=%s\n",
				i, s.Name, s.TargetCount, s.RequiredDestroyCount, s.ShotLimit, s.TimeLimit,
				s.IsUnlocked(), surfaceSummary(s.Surfaces))
			if stages.SpawnVolumeFor(s) == nil {
				fmt.Printf("  ❌ stage %d has no spawn volume and cannot be placed\n", i)
				failed = true
			}
			if s.RequiredDestroyCount > s.TargetCount {
				fmt.Printf("  ⚠️  requiredDestroyCount %d exceeds targetCount %d, will be clamped\n",
					s.RequiredDestroyCount, s.TargetCount)
			}
		}
	}

	cannon, err := config.LoadCannonConfig(*cannonPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		failed = true
	} else {
		fmt.Printf("✅ %s: elevation [%.0f, %.0f] power [%.0f, %.0f] type %s\n", *cannonPath,
			cannon.MinElevation, cannon.MaxElevation, cannon.PowerMin, cannon.PowerMax, cannon.BallisticType)
	}

	if failed {
		os.Exit(1)
	}
}

// surfaceSummary 按类别统计表面数量
func surfaceSummary(surfaces []collision.Collider) string {
	if len(surfaces) == 0 {
		return "-"
	}
	counts := map[collision.Category]int{}
	for _, s := range surfaces {
		counts[s.Category]++
	}
	var parts []string
	for c := collision.Target; c <= collision.Solid; c++ {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", c, n))
		}
	}
	return strings.Join(parts, ",")
}
