package config

import (
	"fmt"
	"log"
	"os"

	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/utils"
	"gopkg.in/yaml.v3"
)

// 关卡配置默认值
const (
	DefaultTargetCount          = 5
	DefaultRequiredDestroyCount = 3
	DefaultTimeLimit            = 180.0
	DefaultShotLimit            = 5
	DefaultMinSeparation        = 2.0
	DefaultWindStrength         = 1.0
	DefaultMovingTargetSpeed    = 1.0
	DefaultTargetRadius         = 0.5
	DefaultMaxPlacementAttempts = 30
)

// Range 浮点区间 [Min, Max]
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// IntRange 整数区间 [Min, Max]（含两端）
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// SpawnVolume 标靶生成区域（轴对齐长方体）
// 高度由关卡的 HeightRange 决定，相对于 Center.Y
type SpawnVolume struct {
	Center utils.Vec3 `yaml:"center"`
	Size   utils.Vec3 `yaml:"size"`
}

// StageConfig 单个关卡的配置（只读，关卡开始时读取）
type StageConfig struct {
	Name     string `yaml:"name"`     // 关卡名称
	Unlocked *bool  `yaml:"unlocked"` // 是否已解锁，默认 true

	// 胜负条件
	TargetCount          int     `yaml:"targetCount"`          // 生成标靶数
	RequiredDestroyCount int     `yaml:"requiredDestroyCount"` // 过关所需击破数
	TimeLimit            float64 `yaml:"timeLimit"`            // 限时（秒）
	ShotLimit            int     `yaml:"shotLimit"`            // 可发射次数

	// 标靶
	ScoreRange   IntRange `yaml:"scoreRange"`   // 分数区间，默认 [50, 200]
	TargetRadius float64  `yaml:"targetRadius"` // 标靶碰撞半径

	// 配置
	SpawnVolume      *SpawnVolume `yaml:"spawnVolume"`      // 生成区域，为空时使用合集的默认区域
	HeightRange      Range        `yaml:"heightRange"`      // 高度区间，默认 [1, 10]
	AllowOverlap     bool         `yaml:"allowOverlap"`     // 允许标靶重叠
	MinSeparation    float64      `yaml:"minSeparation"`    // 标靶最小间距
	EvenDistribution *bool        `yaml:"evenDistribution"` // 网格均匀分布，默认 true

	// 特殊机关
	WindEnabled          bool    `yaml:"windEnabled"`
	WindStrength         float64 `yaml:"windStrength"`
	MovingTargetsEnabled bool    `yaml:"movingTargetsEnabled"`
	MovingTargetSpeed    float64 `yaml:"movingTargetSpeed"`

	// 场景表面（反射壁、传送门、风区、实体障碍）
	Surfaces []collision.Collider `yaml:"surfaces"`
	// 生成标靶时需要避开的障碍
	Obstacles []collision.Shape `yaml:"obstacles"`
}

// IsUnlocked 关卡是否已解锁
func (s *StageConfig) IsUnlocked() bool {
	return s.Unlocked == nil || *s.Unlocked
}

// IsEvenDistribution 是否使用网格均匀分布
func (s *StageConfig) IsEvenDistribution() bool {
	return s.EvenDistribution == nil || *s.EvenDistribution
}

// StageCollection 关卡合集
type StageCollection struct {
	Stages               []StageConfig `yaml:"stages"`
	DefaultSpawnVolume   *SpawnVolume  `yaml:"defaultSpawnVolume"`
	MaxPlacementAttempts int           `yaml:"maxPlacementAttempts"`
}

// Count 关卡数量
func (c *StageCollection) Count() int {
	return len(c.Stages)
}

// GetStage 获取关卡配置
//
// 索引越界时回退到第 0 关并记录日志，不返回错误。
//
// 返回：
//   - *StageConfig: 关卡配置（合集为空时为 nil）
//   - int: 实际使用的关卡索引
func (c *StageCollection) GetStage(index int) (*StageConfig, int) {
	if len(c.Stages) == 0 {
		log.Printf("[StageConfig] Error: stage collection is empty")
		return nil, 0
	}
	if index < 0 || index >= len(c.Stages) {
		log.Printf("[StageConfig] Warning: invalid stage index %d (have %d stages), falling back to 0", index, len(c.Stages))
		index = 0
	}
	return &c.Stages[index], index
}

// SpawnVolumeFor 返回关卡使用的生成区域（关卡自身优先，其次合集默认）
func (c *StageCollection) SpawnVolumeFor(s *StageConfig) *SpawnVolume {
	if s != nil && s.SpawnVolume != nil {
		return s.SpawnVolume
	}
	return c.DefaultSpawnVolume
}

// LoadStageCollection 从 YAML 文件加载关卡合集
func LoadStageCollection(path string) (*StageCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage config file %s: %w", path, err)
	}
	collection, err := ParseStageCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return collection, nil
}

// ParseStageCollection 从 YAML 数据解析关卡合集
// 嵌入资源与测试直接使用该函数
func ParseStageCollection(data []byte) (*StageCollection, error) {
	var collection StageCollection
	if err := yaml.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse stage config YAML: %w", err)
	}

	applyStageDefaults(&collection)

	if err := validateStageCollection(&collection); err != nil {
		return nil, fmt.Errorf("invalid stage config: %w", err)
	}
	return &collection, nil
}

// applyStageDefaults 为缺失的可选字段设置默认值
func applyStageDefaults(c *StageCollection) {
	if c.MaxPlacementAttempts <= 0 {
		c.MaxPlacementAttempts = DefaultMaxPlacementAttempts
	}

	for i := range c.Stages {
		s := &c.Stages[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("Stage %d", i+1)
		}
		if s.TargetCount == 0 {
			s.TargetCount = DefaultTargetCount
		}
		if s.RequiredDestroyCount == 0 {
			s.RequiredDestroyCount = DefaultRequiredDestroyCount
		}
		if s.TimeLimit == 0 {
			s.TimeLimit = DefaultTimeLimit
		}
		if s.ShotLimit == 0 {
			s.ShotLimit = DefaultShotLimit
		}
		if s.ScoreRange == (IntRange{}) {
			s.ScoreRange = IntRange{Min: 50, Max: 200}
		}
		if s.TargetRadius == 0 {
			s.TargetRadius = DefaultTargetRadius
		}
		if s.HeightRange == (Range{}) {
			s.HeightRange = Range{Min: 1, Max: 10}
		}
		if s.MinSeparation == 0 {
			s.MinSeparation = DefaultMinSeparation
		}
		if s.WindStrength == 0 {
			s.WindStrength = DefaultWindStrength
		}
		if s.MovingTargetSpeed == 0 {
			s.MovingTargetSpeed = DefaultMovingTargetSpeed
		}
		for j := range s.Surfaces {
			if s.Surfaces[j].ID == 0 {
				s.Surfaces[j].ID = j + 1
			}
		}
	}
}

// validateStageCollection 校验字段范围
// requiredDestroyCount 大于 targetCount 不算错误，生成后按实际数量收紧
func validateStageCollection(c *StageCollection) error {
	if len(c.Stages) == 0 {
		return fmt.Errorf("at least one stage is required")
	}

	for i := range c.Stages {
		s := &c.Stages[i]
		if s.TargetCount < 0 {
			return fmt.Errorf("stage %d (%s): targetCount cannot be negative, got %d", i, s.Name, s.TargetCount)
		}
		if s.RequiredDestroyCount < 0 {
			return fmt.Errorf("stage %d (%s): requiredDestroyCount cannot be negative, got %d", i, s.Name, s.RequiredDestroyCount)
		}
		if s.TimeLimit < 0 {
			return fmt.Errorf("stage %d (%s): timeLimit cannot be negative, got %v", i, s.Name, s.TimeLimit)
		}
		if s.ShotLimit < 0 {
			return fmt.Errorf("stage %d (%s): shotLimit cannot be negative, got %d", i, s.Name, s.ShotLimit)
		}
		if s.ScoreRange.Min > s.ScoreRange.Max {
			return fmt.Errorf("stage %d (%s): scoreRange min %d is greater than max %d", i, s.Name, s.ScoreRange.Min, s.ScoreRange.Max)
		}
		if s.HeightRange.Min > s.HeightRange.Max {
			return fmt.Errorf("stage %d (%s): heightRange min %v is greater than max %v", i, s.Name, s.HeightRange.Min, s.HeightRange.Max)
		}
		if s.MinSeparation < 0 {
			return fmt.Errorf("stage %d (%s): minSeparation cannot be negative", i, s.Name)
		}
		if v := c.SpawnVolumeFor(s); v != nil {
			if v.Size.X < 0 || v.Size.Z < 0 {
				return fmt.Errorf("stage %d (%s): spawnVolume size cannot be negative", i, s.Name)
			}
		}
		for j := range s.Surfaces {
			if err := s.Surfaces[j].Validate(); err != nil {
				return fmt.Errorf("stage %d (%s): surface %d: %w", i, s.Name, j, err)
			}
		}
	}
	return nil
}
