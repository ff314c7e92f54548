// verify_placement 以固定种子生成一个关卡并打印标靶
//
// 用法：
//
//	go run ./cmd/verify_placement [--stages data/stages.yaml] [--stage 0] [--seed 1] [--runs 1]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/stage"
)

var (
	stagesPath = flag.String("stages", "data/stages.yaml", "关卡配置文件路径")
	stageIndex = flag.Int("stage", 0, "关卡索引（从 0 开始）")
	seed       = flag.Int64("seed", 1, "随机种子")
	runs       = flag.Int("runs", 1, "连续生成次数（共用同一随机源）")
	verbose    = flag.Bool("verbose", false, "显示生成日志")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	stages, err := config.LoadStageCollection(*stagesPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	cfg, idx := stages.GetStage(*stageIndex)
	if idx != *stageIndex {
		fmt.Printf("⚠️  stage %d out of range, using stage %d\n", *stageIndex, idx)
	}

	gen := stage.NewGenerator(rand.New(rand.NewSource(*seed)), stages.MaxPlacementAttempts)
	volume := stages.SpawnVolumeFor(cfg)

	for run := 1; run <= *runs; run++ {
		res, err := gen.Generate(cfg, volume)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("=== %s (stage %d) run %d: %d/%d targets, %d skipped ===\n",
			cfg.Name, idx, run, res.Generated(), res.Requested, res.Skipped)
		for _, t := range res.Targets {
			motion := "static"
			if t.Motion != nil {
				motion = fmt.Sprintf("%s d=%.2f", t.Motion.Pattern, t.Motion.Distance)
			}
			fmt.Printf("  #%-2d pos (%6.2f, %5.2f, %6.2f)  score %3d  %s\n",
				t.ID, t.Position.X, t.Position.Y, t.Position.Z, t.ScoreValue, motion)
		}
		if res.WindEnabled {
			v := res.Wind.Vector()
			fmt.Printf("  wind (%.2f, %.2f, %.2f)\n", v.X, v.Y, v.Z)
		}
		if required := cfg.RequiredDestroyCount; required > res.Generated() {
			fmt.Printf("  ⚠️  requiredDestroyCount %d will be clamped to %d\n", required, res.Generated())
		}
	}
}
