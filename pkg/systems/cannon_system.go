package systems

import (
	"log"

	"github.com/decker502/cannon/pkg/ballistics"
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/entities"
	"github.com/decker502/cannon/pkg/utils"
)

// dragScale 拖动像素到角度的换算系数（再乘以拖动灵敏度）
const dragScale = 0.1

// ShotGate 发射许可
// 由关卡生命周期实现：过场中或弹数用尽时拒绝发射
type ShotGate interface {
	ShotFired() bool
	// ShotResolved 已获准的炮弹结束（包括未能生成实体的情况）
	ShotResolved()
}

// CannonSystem 大炮瞄准与发射
//
// 大炮是一个持有 CannonComponent 的实体。发射时先向 ShotGate 申请，
// 获准后创建持有 ProjectileComponent 的炮弹实体，之后由 ProjectileSystem 推进。
type CannonSystem struct {
	em         *ecs.EntityManager
	cfg        *config.CannonConfig
	integrator *ballistics.Integrator
	gate       ShotGate
	cannonID   ecs.EntityID

	// DragSensitivity 拖动灵敏度
	DragSensitivity float64
	// InvertY 反转垂直拖动方向
	InvertY bool
}

// NewCannonSystem 创建大炮系统并生成大炮实体
//
// 参数：
//   - em: 实体管理器
//   - cfg: 大炮配置，为空时使用默认配置
//   - integrator: 与 ProjectileSystem 共用的积分器
//   - gate: 发射许可，为空时总是允许
func NewCannonSystem(em *ecs.EntityManager, cfg *config.CannonConfig, integrator *ballistics.Integrator, gate ShotGate) *CannonSystem {
	if cfg == nil {
		cfg = config.DefaultCannonConfig()
	}
	if integrator == nil {
		integrator = ballistics.NewIntegrator(cfg.Easing)
	}
	s := &CannonSystem{
		em:              em,
		cfg:             cfg,
		integrator:      integrator,
		gate:            gate,
		DragSensitivity: 1.0,
	}
	s.cannonID = entities.NewCannonEntity(em, components.CannonComponent{Type: cfg.BallisticType})
	s.Reset()
	return s
}

// SetGate 设置发射许可
func (s *CannonSystem) SetGate(gate ShotGate) {
	s.gate = gate
}

// Aim 返回大炮的瞄准状态
func (s *CannonSystem) Aim() *components.CannonComponent {
	aim, ok := ecs.GetComponent[*components.CannonComponent](s.em, s.cannonID)
	if !ok {
		// 大炮实体被外部销毁时重新创建
		s.cannonID = entities.NewCannonEntity(s.em, components.CannonComponent{Type: s.cfg.BallisticType})
		aim, _ = ecs.GetComponent[*components.CannonComponent](s.em, s.cannonID)
	}
	return aim
}

// Config 大炮配置
func (s *CannonSystem) Config() *config.CannonConfig {
	return s.cfg
}

// Drag 按拖动距离调整瞄准
//
// dx 向右为正，dy 向上为正（屏幕坐标需要调用方翻转）。
// 位移乘以 DragSensitivity * 0.1 换算为角度，仰角限制在配置范围内。
func (s *CannonSystem) Drag(dx, dy float64) {
	scale := s.DragSensitivity * dragScale
	mult := 1.0
	if s.InvertY {
		mult = -1.0
	}
	s.Rotate(dx*scale, dy*scale*mult)
}

// Rotate 直接调整水平角与仰角（角度制）
func (s *CannonSystem) Rotate(dYaw, dPitch float64) {
	aim := s.Aim()
	aim.Yaw += dYaw
	aim.Pitch = utils.Clamp(aim.Pitch+dPitch, s.cfg.MinElevation, s.cfg.MaxElevation)
}

// SetPower 设置发射力，限制在配置范围内
func (s *CannonSystem) SetPower(power float64) {
	s.Aim().Power = utils.Clamp(power, s.cfg.PowerMin, s.cfg.PowerMax)
}

// AdjustPower 增减发射力
func (s *CannonSystem) AdjustPower(delta float64) {
	s.SetPower(s.Aim().Power + delta)
}

// SetBallisticType 设置之后发射的炮弹的弹道类型
// 已经在飞行中的炮弹不受影响
func (s *CannonSystem) SetBallisticType(t ballistics.BallisticType) {
	s.Aim().Type = t
	log.Printf("[CannonSystem] Ballistic type set to %s", t)
}

// CycleBallisticType 切换到下一个弹道类型
func (s *CannonSystem) CycleBallisticType() ballistics.BallisticType {
	next := s.Aim().Type.Next()
	s.SetBallisticType(next)
	return next
}

// Direction 当前瞄准方向（单位向量）
func (s *CannonSystem) Direction() utils.Vec3 {
	aim := s.Aim()
	return utils.DirectionFromAngles(aim.Yaw, aim.Pitch)
}

// Params 以当前瞄准状态构造弹道参数
func (s *CannonSystem) Params() ballistics.Params {
	aim := s.Aim()
	p := s.cfg.Params(s.Direction(), aim.Power)
	p.Type = aim.Type
	return p
}

// Prediction 预测线采样点
// 参数无效时返回 nil
func (s *CannonSystem) Prediction() []utils.Vec3 {
	p, err := s.Params().Normalized()
	if err != nil {
		return nil
	}
	return s.integrator.Predict(s.cfg.Muzzle, p, s.cfg.PredictionSteps, s.cfg.PredictionStep)
}

// Fire 发射一发炮弹
//
// 返回：
//   - ecs.EntityID: 新炮弹实体
//   - bool: 是否成功发射（被拒绝或参数无效时为 false）
func (s *CannonSystem) Fire() (ecs.EntityID, bool) {
	p, err := s.Params().Normalized()
	if err != nil {
		log.Printf("[CannonSystem] Error: cannot fire: %v", err)
		return 0, false
	}
	if s.gate != nil && !s.gate.ShotFired() {
		return 0, false
	}

	id, err := entities.NewProjectileEntity(s.em, s.integrator, s.cfg.Muzzle, p)
	if err != nil {
		log.Printf("[CannonSystem] Error: %v", err)
		if s.gate != nil {
			s.gate.ShotResolved()
		}
		return 0, false
	}
	aim := s.Aim()
	log.Printf("[CannonSystem] Fired projectile %d: type=%s yaw=%.1f pitch=%.1f power=%.1f",
		id, p.Type, aim.Yaw, aim.Pitch, p.BasePower)
	return id, true
}

// Reset 大炮回到初始瞄准状态
func (s *CannonSystem) Reset() {
	aim := s.Aim()
	aim.Yaw = s.cfg.DefaultYaw
	aim.Pitch = utils.Clamp(s.cfg.DefaultElevation, s.cfg.MinElevation, s.cfg.MaxElevation)
	aim.Power = s.cfg.DefaultPower()
	log.Printf("[CannonSystem] Cannon reset: yaw=%.1f pitch=%.1f power=%.1f", aim.Yaw, aim.Pitch, aim.Power)
}
