package config

import (
	"fmt"
	"os"

	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/utils"
	"gopkg.in/yaml.v3"
)

// CannonConfig 大炮与弹道参数配置
type CannonConfig struct {
	// 炮口位置（世界坐标）
	Muzzle utils.Vec3 `yaml:"muzzle"`

	// 瞄准限制（角度制）
	MinElevation     float64 `yaml:"minElevation"`     // 最小仰角，默认 -10
	MaxElevation     float64 `yaml:"maxElevation"`     // 最大仰角，默认 80
	DefaultElevation float64 `yaml:"defaultElevation"` // 初始仰角，默认 30
	DefaultYaw       float64 `yaml:"defaultYaw"`       // 初始水平角，默认 0

	// 发射力
	PowerMin float64 `yaml:"powerMin"` // 默认 10
	PowerMax float64 `yaml:"powerMax"` // 默认 30

	// 弹道参数
	BallisticType   ballistics.BallisticType `yaml:"ballisticType"`
	CurveFactor     float64                  `yaml:"curveFactor"`      // 默认 1
	ImpulseTiming   float64                  `yaml:"impulseTiming"`    // 默认 1 秒
	GravityDir      utils.Vec3               `yaml:"gravityDirection"` // 默认 (0,-1,0)
	GravityStrength float64                  `yaml:"gravityStrength"`  // 默认 9.81

	// 出膛减速
	Easing ballistics.Easing `yaml:"easing"`

	// 预测线
	PredictionSteps int     `yaml:"predictionSteps"` // 采样点数，默认 30
	PredictionStep  float64 `yaml:"predictionStep"`  // 采样步长（秒），默认 1/60
}

// DefaultCannonConfig 返回默认大炮配置
func DefaultCannonConfig() *CannonConfig {
	c := &CannonConfig{}
	applyCannonDefaults(c)
	return c
}

// DefaultPower 初始发射力（区间中点）
func (c *CannonConfig) DefaultPower() float64 {
	return (c.PowerMin + c.PowerMax) / 2
}

// Params 以给定的瞄准方向与发射力构造弹道参数
func (c *CannonConfig) Params(direction utils.Vec3, power float64) ballistics.Params {
	return ballistics.Params{
		Direction:        direction,
		BasePower:        power,
		Type:             c.BallisticType,
		CurveFactor:      c.CurveFactor,
		ImpulseTiming:    c.ImpulseTiming,
		GravityDirection: c.GravityDir,
		GravityStrength:  c.GravityStrength,
	}
}

// LoadCannonConfig 从 YAML 文件加载大炮配置
func LoadCannonConfig(path string) (*CannonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cannon config file %s: %w", path, err)
	}
	c, err := ParseCannonConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCannonConfig 从 YAML 数据解析大炮配置
func ParseCannonConfig(data []byte) (*CannonConfig, error) {
	var c CannonConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse cannon config YAML: %w", err)
	}
	applyCannonDefaults(&c)
	if err := validateCannonConfig(&c); err != nil {
		return nil, fmt.Errorf("invalid cannon config: %w", err)
	}
	return &c, nil
}

func applyCannonDefaults(c *CannonConfig) {
	if c.MinElevation == 0 && c.MaxElevation == 0 {
		c.MinElevation = -10
		c.MaxElevation = 80
	}
	if c.DefaultElevation == 0 {
		c.DefaultElevation = 30
	}
	if c.PowerMin == 0 {
		c.PowerMin = 10
	}
	if c.PowerMax == 0 {
		c.PowerMax = 30
	}
	if c.CurveFactor == 0 {
		c.CurveFactor = 1
	}
	if c.ImpulseTiming == 0 {
		c.ImpulseTiming = 1
	}
	if c.GravityDir == utils.Zero {
		c.GravityDir = utils.V3(0, -1, 0)
	}
	if c.GravityStrength == 0 {
		c.GravityStrength = ballistics.DefaultGravityStrength
	}
	if c.Easing == (ballistics.Easing{}) {
		c.Easing = ballistics.DefaultEasing()
	}
	if c.PredictionSteps == 0 {
		c.PredictionSteps = 30
	}
	if c.PredictionStep == 0 {
		c.PredictionStep = ballistics.PredictionStep
	}
	if c.Muzzle == utils.Zero {
		c.Muzzle = utils.V3(0, 1, 0)
	}
}

func validateCannonConfig(c *CannonConfig) error {
	if c.MinElevation > c.MaxElevation {
		return fmt.Errorf("minElevation %v is greater than maxElevation %v", c.MinElevation, c.MaxElevation)
	}
	if c.MinElevation < -90 || c.MaxElevation > 90 {
		return fmt.Errorf("elevation limits must be within [-90, 90], got [%v, %v]", c.MinElevation, c.MaxElevation)
	}
	if c.PowerMin <= 0 || c.PowerMin > c.PowerMax {
		return fmt.Errorf("power range must satisfy 0 < powerMin <= powerMax, got [%v, %v]", c.PowerMin, c.PowerMax)
	}
	if c.ImpulseTiming < 0 {
		return fmt.Errorf("impulseTiming cannot be negative, got %v", c.ImpulseTiming)
	}
	if c.GravityStrength < 0 {
		return fmt.Errorf("gravityStrength cannot be negative, got %v", c.GravityStrength)
	}
	if c.PredictionSteps < 0 || c.PredictionStep < 0 {
		return fmt.Errorf("prediction sampling cannot be negative")
	}
	if c.Easing.Duration < 0 || c.Easing.InitialSpeedMultiplier < 0 {
		return fmt.Errorf("easing parameters cannot be negative")
	}
	// 缓动期内每步都会重设速度大小，冲量会被吞没
	if c.Easing.Enabled() && c.ImpulseTiming < c.Easing.Duration {
		return fmt.Errorf("impulseTiming %v must not be shorter than easing.duration %v", c.ImpulseTiming, c.Easing.Duration)
	}
	return nil
}
