// verify_trajectory 对比预测线与实际飞行轨迹
//
// 对每种弹道类型，先用 CannonSystem.Prediction 计算预测线，再发射一发炮弹，
// 由 ProjectileSystem 以相同步长推进，逐点比较位置偏差。
// 开启 --wind 时实际飞行受环境风影响（预测线不含风场），用于观察偏差大小。
//
// 用法：
//
//	go run ./cmd/verify_trajectory [--cannon data/cannon.yaml] [--steps 30] [--wind 0] [--verbose]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/stage"
	"github.com/decker502/cannon/pkg/systems"
	"github.com/decker502/cannon/pkg/utils"
)

var (
	cannonPath = flag.String("cannon", "data/cannon.yaml", "大炮配置文件路径，文件不存在时使用默认配置")
	steps      = flag.Int("steps", 0, "比较的步数，默认使用配置中的预测点数")
	wind       = flag.Float64("wind", 0, "实际飞行时的环境风强度（+X 方向）")
	tolerance  = flag.Float64("tolerance", 1e-6, "无风时允许的最大偏差")
	verbose    = flag.Bool("verbose", false, "打印每个采样点")
)

// windArena 只提供环境风的关卡环境
type windArena struct {
	field *collision.WindField
}

func (a *windArena) Colliders() []*collision.Collider { return nil }
func (a *windArena) Wind() *collision.WindField       { return a.field }
func (a *windArena) HitTarget(int) (*stage.TargetInstance, bool) {
	return nil, false
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadCannonConfig(*cannonPath)
	if err != nil {
		fmt.Printf("⚠️  %v，使用默认配置\n", err)
		cfg = config.DefaultCannonConfig()
	}
	if *steps > 0 {
		cfg.PredictionSteps = *steps
	}

	arena := &windArena{
		field: collision.NewWindField(collision.Wind{Direction: utils.Right, Strength: *wind}, *wind > 0, nil),
	}

	failed := false
	for _, bt := range []ballistics.BallisticType{ballistics.Curving, ballistics.ImpulseChange, ballistics.NoiseDriven} {
		maxDev, compared := verify(cfg, bt, arena)
		status := "✅"
		if compared == 0 || (*wind == 0 && maxDev > *tolerance) {
			status = "❌"
			failed = true
		}
		fmt.Printf("%s %-15s compared %3d samples, max deviation %.3e\n", status, bt, compared, maxDev)
	}

	if failed {
		os.Exit(1)
	}
}

// verify 对一种弹道类型比较预测与实际轨迹，返回最大偏差与比较的点数
func verify(cfg *config.CannonConfig, bt ballistics.BallisticType, arena systems.Arena) (float64, int) {
	em := ecs.NewEntityManager()
	integrator := ballistics.NewIntegrator(cfg.Easing)
	cannon := systems.NewCannonSystem(em, cfg, integrator, nil)
	cannon.SetBallisticType(bt)
	projectiles := systems.NewProjectileSystem(em, integrator, arena, nil)

	predicted := cannon.Prediction()
	id, ok := cannon.Fire()
	if !ok {
		fmt.Printf("❌ %s: fire rejected\n", bt)
		return 0, 0
	}

	maxDev := 0.0
	compared := 0
	for i, want := range predicted {
		if i > 0 {
			projectiles.Update(cfg.PredictionStep)
			em.RemoveMarkedEntities()
		}
		proj, exists := ecs.GetComponent[*components.ProjectileComponent](em, id)
		if !exists {
			break
		}
		dev := proj.State.Position.Distance(want)
		if dev > maxDev {
			maxDev = dev
		}
		compared++
		if *verbose {
			fmt.Printf("  %s #%02d predicted (%.3f, %.3f, %.3f) live (%.3f, %.3f, %.3f) dev %.2e\n",
				bt, i, want.X, want.Y, want.Z,
				proj.State.Position.X, proj.State.Position.Y, proj.State.Position.Z, dev)
		}
	}
	return maxDev, compared
}
