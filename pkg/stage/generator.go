package stage

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/utils"
)

// 生成参数
const (
	// DefaultMaxPlacementAttempts 每个标靶位置的最大尝试次数
	DefaultMaxPlacementAttempts = 30

	// ObstacleProbeRadius 检查候选位置与障碍物重叠时使用的球半径
	ObstacleProbeRadius = 0.5

	// 网格均匀分布时在单元格内的采样范围（避开单元格边缘）
	cellMarginMin = 0.1
	cellMarginMax = 0.9

	// 移动标靶的振幅/半径范围
	motionDistanceMin = 2.0
	motionDistanceMax = 5.0
)

// ErrNoSpawnVolume 关卡没有配置生成区域（致命配置错误，不重试）
var ErrNoSpawnVolume = errors.New("no spawn volume configured")

// Result 一次生成的结果
type Result struct {
	Targets   []*TargetInstance
	Requested int // 配置要求的标靶数
	Skipped   int // 尝试次数耗尽而跳过的标靶数

	WindEnabled bool
	Wind        collision.Wind // 关卡环境风（随机水平方向 × windStrength）
}

// Generated 实际生成的标靶数
func (r *Result) Generated() int {
	return len(r.Targets)
}

// UnderGenerated 实际数量少于要求数量
func (r *Result) UnderGenerated() bool {
	return r.Generated() < r.Requested
}

// Generator 标靶生成器
type Generator struct {
	// Rand 共享随机源，测试中注入固定种子
	Rand *rand.Rand
	// MaxPlacementAttempts 每个标靶的最大尝试次数
	MaxPlacementAttempts int
}

// NewGenerator 创建生成器
// rng 为空时使用以 1 为种子的随机源
func NewGenerator(rng *rand.Rand, maxAttempts int) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxPlacementAttempts
	}
	return &Generator{Rand: rng, MaxPlacementAttempts: maxAttempts}
}

// Generate 为关卡生成标靶
//
// 每个标靶最多尝试 MaxPlacementAttempts 次：候选位置与已放置标靶距离小于
// minSeparation（允许重叠时不检查）或与障碍物重叠则重新采样；
// 全部失败时跳过该标靶并记录日志，继续生成剩余标靶。
//
// 参数：
//   - cfg: 关卡配置
//   - volume: 生成区域，为空时返回 ErrNoSpawnVolume
//
// 返回：
//   - *Result: 生成结果，Generated() 可能小于 Requested
//   - error: 配置无法生成时返回错误
func (g *Generator) Generate(cfg *config.StageConfig, volume *config.SpawnVolume) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("stage config is nil")
	}
	if volume == nil {
		return nil, fmt.Errorf("stage %q: %w", cfg.Name, ErrNoSpawnVolume)
	}

	n := cfg.TargetCount
	result := &Result{Requested: n}
	obstacles := obstacleShapes(cfg)
	even := cfg.IsEvenDistribution() && n > 1

	placed := make([]utils.Vec3, 0, n)
	for i := 0; i < n; i++ {
		pos, attempts, ok := g.place(cfg, volume, obstacles, placed, i, n, even)
		if !ok {
			result.Skipped++
			log.Printf("[Placement] Warning: target %d/%d of %q could not be placed after %d attempts, skipped",
				i+1, n, cfg.Name, attempts)
			continue
		}
		placed = append(placed, pos)

		t := &TargetInstance{
			ID:           len(result.Targets) + 1,
			Position:     pos,
			Home:         pos,
			Radius:       cfg.TargetRadius,
			ScoreValue:   g.score(cfg.ScoreRange),
			Destructible: true,
		}
		if cfg.MovingTargetsEnabled {
			t.Motion = g.motion(pos, cfg.MovingTargetSpeed)
		}
		result.Targets = append(result.Targets, t)
	}

	if cfg.WindEnabled {
		result.WindEnabled = true
		result.Wind = collision.Wind{Direction: g.horizontalDirection(), Strength: cfg.WindStrength}
	}

	if result.UnderGenerated() {
		log.Printf("[Placement] Warning: stage %q under-generated: %d/%d targets (%d skipped)",
			cfg.Name, result.Generated(), n, result.Skipped)
	} else {
		log.Printf("[Placement] Stage %q: generated %d targets", cfg.Name, result.Generated())
	}
	return result, nil
}

// place 为第 index 个标靶寻找位置
func (g *Generator) place(cfg *config.StageConfig, volume *config.SpawnVolume, obstacles []collision.Shape,
	placed []utils.Vec3, index, total int, even bool) (utils.Vec3, int, bool) {
	attempts := 0
	for attempts < g.MaxPlacementAttempts {
		attempts++

		var candidate utils.Vec3
		if even {
			candidate = g.gridPosition(volume, cfg.HeightRange, index, total)
		} else {
			candidate = g.randomPosition(volume, cfg.HeightRange)
		}

		if !cfg.AllowOverlap && tooClose(candidate, placed, cfg.MinSeparation) {
			continue
		}
		if intersectsAny(candidate, obstacles) {
			continue
		}
		return candidate, attempts, true
	}
	return utils.Zero, attempts, false
}

// gridPosition 网格均匀分布：区域划分为 ceil(sqrt(n))² 个单元格，
// 第 index 个标靶落在 (index/grid, index%grid) 单元格内的随机位置
func (g *Generator) gridPosition(volume *config.SpawnVolume, height config.Range, index, total int) utils.Vec3 {
	grid := int(math.Ceil(math.Sqrt(float64(total))))
	row := index / grid
	col := index % grid

	cellWidth := volume.Size.X / float64(grid)
	cellDepth := volume.Size.Z / float64(grid)

	x := (float64(col)+g.uniform(cellMarginMin, cellMarginMax))*cellWidth - volume.Size.X*0.5
	z := (float64(row)+g.uniform(cellMarginMin, cellMarginMax))*cellDepth - volume.Size.Z*0.5
	y := g.uniform(height.Min, height.Max)

	return volume.Center.Add(utils.V3(x, y, z))
}

// randomPosition 在整个区域内均匀采样
func (g *Generator) randomPosition(volume *config.SpawnVolume, height config.Range) utils.Vec3 {
	x := g.uniform(-volume.Size.X*0.5, volume.Size.X*0.5)
	z := g.uniform(-volume.Size.Z*0.5, volume.Size.Z*0.5)
	y := g.uniform(height.Min, height.Max)
	return volume.Center.Add(utils.V3(x, y, z))
}

func (g *Generator) uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + g.Rand.Float64()*(max-min)
}

// score 在 [Min, Max] 内均匀采样整数分数
func (g *Generator) score(r config.IntRange) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + g.Rand.Intn(r.Max-r.Min+1)
}

// motion 随机选择运动方式与幅度
func (g *Generator) motion(home utils.Vec3, speed float64) *Motion {
	m := &Motion{
		Pattern:  MotionPattern(g.Rand.Intn(3)),
		Speed:    speed,
		Distance: g.uniform(motionDistanceMin, motionDistanceMax),
	}
	if m.Pattern == Circular {
		// 初始位置在圆周上，圆心沿随机水平方向偏移一个半径
		dir := g.horizontalDirection()
		m.Center = home.Sub(dir.Scale(m.Distance))
		m.Phase = math.Atan2(dir.Z, dir.X)
	}
	return m
}

// horizontalDirection 随机水平单位方向
func (g *Generator) horizontalDirection() utils.Vec3 {
	for i := 0; i < 8; i++ {
		dir, ok := utils.V3(g.uniform(-1, 1), 0, g.uniform(-1, 1)).Normalize()
		if ok {
			return dir
		}
	}
	return utils.Right
}

func tooClose(candidate utils.Vec3, placed []utils.Vec3, minSeparation float64) bool {
	for _, p := range placed {
		if p.Distance(candidate) < minSeparation {
			return true
		}
	}
	return false
}

func intersectsAny(candidate utils.Vec3, obstacles []collision.Shape) bool {
	for _, o := range obstacles {
		if o.IntersectsSphere(candidate, ObstacleProbeRadius) {
			return true
		}
	}
	return false
}

// obstacleShapes 关卡中需要避开的几何体：显式障碍 + 除风区外的所有表面
func obstacleShapes(cfg *config.StageConfig) []collision.Shape {
	shapes := append([]collision.Shape(nil), cfg.Obstacles...)
	for _, s := range cfg.Surfaces {
		if s.Category != collision.WindVolume {
			shapes = append(shapes, s.Shape)
		}
	}
	return shapes
}
