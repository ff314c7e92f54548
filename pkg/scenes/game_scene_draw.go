package scenes

import (
	"image/color"

	"github.com/decker502/cannon/pkg/collision"
	"github.com/decker502/cannon/pkg/components"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/event"
	"github.com/decker502/cannon/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 绘制参数
const (
	projectileRadius = 0.25 // 炮弹绘制半径（米）
	barrelLength     = 1.5  // 炮管绘制长度（米）
)

var (
	colorSky        = color.RGBA{R: 24, G: 28, B: 40, A: 255}
	colorGrid       = color.RGBA{R: 60, G: 70, B: 80, A: 255}
	colorPrediction = color.RGBA{R: 255, G: 255, B: 255, A: 140}
	colorProjectile = color.RGBA{R: 255, G: 200, B: 60, A: 255}
	colorTrail      = color.RGBA{R: 255, G: 160, B: 40, A: 120}
	colorCannon     = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	colorTarget     = color.RGBA{R: 230, G: 70, B: 70, A: 255}
	colorTargetHigh = color.RGBA{R: 250, G: 210, B: 60, A: 255}
	colorText       = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	colorPopup      = color.RGBA{R: 255, G: 230, B: 120, A: 255}
	colorBannerBack = color.RGBA{R: 0, G: 0, B: 0, A: 150}
)

// surfaceColors 各类表面的颜色
var surfaceColors = map[collision.Category]color.RGBA{
	collision.Solid:          {R: 120, G: 120, B: 120, A: 255},
	collision.ReflectiveWall: {R: 80, G: 220, B: 230, A: 255},
	collision.TeleportVolume: {R: 220, G: 90, B: 230, A: 255},
	collision.WindVolume:     {R: 140, G: 180, B: 255, A: 120},
}

// bannerColors 各类横幅的颜色
var bannerColors = map[event.BannerKind]color.RGBA{
	event.BannerStart: {R: 255, G: 255, B: 255, A: 255},
	event.BannerClear: {R: 120, G: 255, B: 140, A: 255},
	event.BannerFail:  {R: 255, G: 90, B: 90, A: 255},
	event.BannerFinal: {R: 255, G: 220, B: 80, A: 255},
}

// Draw 绘制场景
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorSky)

	s.drawGround(screen)
	s.drawSurfaces(screen)
	s.drawTargets(screen)
	if s.state.GetSettingsManager().GetSettings().ShowTrajectory && s.life.CanFire() {
		s.drawPrediction(screen)
	}
	s.drawCannon(screen)
	s.drawProjectiles(screen)
	s.drawHUD(screen)
}

func (s *GameScene) line(screen *ebiten.Image, a, b utils.Vec3, width float32, clr color.Color) {
	ax, ay, okA := s.camera.Project(a)
	bx, by, okB := s.camera.Project(b)
	if !okA || !okB {
		return
	}
	vector.StrokeLine(screen, ax, ay, bx, by, width, clr, true)
}

func (s *GameScene) drawGround(screen *ebiten.Image) {
	minX, minZ, maxX, maxZ := config.GetGroundBounds()
	for x := minX; x <= maxX; x += config.GroundGridSpacing {
		s.line(screen, utils.V3(x, 0, minZ), utils.V3(x, 0, maxZ), 1, colorGrid)
	}
	for z := minZ; z <= maxZ; z += config.GroundGridSpacing {
		s.line(screen, utils.V3(minX, 0, z), utils.V3(maxX, 0, z), 1, colorGrid)
	}
}

func (s *GameScene) drawSurfaces(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.SurfaceComponent](s.em) {
		surface, ok := ecs.GetComponent[*components.SurfaceComponent](s.em, id)
		if !ok || surface.Collider == nil {
			continue
		}
		c := surface.Collider
		clr, ok := surfaceColors[c.Category]
		if !ok {
			clr = surfaceColors[collision.Solid]
		}
		if c.Shape.Kind == collision.Sphere {
			s.sphere(screen, c.Shape.Center, c.Shape.Radius, clr, false)
			continue
		}
		s.box(screen, c.Shape, clr)
	}
}

// box 绘制轴对齐长方体的线框
func (s *GameScene) box(screen *ebiten.Image, shape collision.Shape, clr color.Color) {
	lo, hi := shape.Min(), shape.Max()
	corners := [8]utils.Vec3{}
	for i := range corners {
		p := lo
		if i&1 != 0 {
			p.X = hi.X
		}
		if i&2 != 0 {
			p.Y = hi.Y
		}
		if i&4 != 0 {
			p.Z = hi.Z
		}
		corners[i] = p
	}
	// 只相差一个坐标的角点之间连线
	for i := range corners {
		for _, bit := range []int{1, 2, 4} {
			if j := i | bit; j != i {
				s.line(screen, corners[i], corners[j], 1.5, clr)
			}
		}
	}
}

func (s *GameScene) sphere(screen *ebiten.Image, center utils.Vec3, radius float64, clr color.Color, filled bool) {
	x, y, ok := s.camera.Project(center)
	if !ok {
		return
	}
	r := s.camera.ScaleAt(center, radius)
	if r < 1 {
		r = 1
	}
	if filled {
		vector.FillCircle(screen, x, y, r, clr, true)
		return
	}
	vector.StrokeCircle(screen, x, y, r, 1.5, clr, true)
}

func (s *GameScene) drawTargets(screen *ebiten.Image) {
	ids := ecs.GetEntitiesWith1[*components.TargetComponent](s.em)
	// 远处的先画
	targets := make([]*components.TargetComponent, 0, len(ids))
	for _, id := range ids {
		if t, ok := ecs.GetComponent[*components.TargetComponent](s.em, id); ok && t.Instance != nil && !t.Instance.IsHit() {
			targets = append(targets, t)
		}
	}
	for i := 1; i < len(targets); i++ {
		for j := i; j > 0 && s.camera.Depth(targets[j].Instance.Position) > s.camera.Depth(targets[j-1].Instance.Position); j-- {
			targets[j], targets[j-1] = targets[j-1], targets[j]
		}
	}

	for _, t := range targets {
		clr := colorTarget
		if t.Instance.ScoreValue >= 150 {
			clr = colorTargetHigh
		}
		s.sphere(screen, t.Instance.Position, t.Instance.Radius, clr, true)
	}
}

func (s *GameScene) drawPrediction(screen *ebiten.Image) {
	points := s.cannon.Prediction()
	for i := 1; i < len(points); i++ {
		s.line(screen, points[i-1], points[i], 2, colorPrediction)
	}
}

func (s *GameScene) drawCannon(screen *ebiten.Image) {
	muzzle := s.cannon.Config().Muzzle
	tip := muzzle.Add(s.cannon.Direction().Scale(barrelLength))
	s.line(screen, muzzle, tip, 6, colorCannon)
	s.sphere(screen, muzzle, 0.4, colorCannon, true)
}

func (s *GameScene) drawProjectiles(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.ProjectileComponent](s.em) {
		proj, ok := ecs.GetComponent[*components.ProjectileComponent](s.em, id)
		if !ok {
			continue
		}
		for i := 1; i < len(proj.Trail); i++ {
			s.line(screen, proj.Trail[i-1], proj.Trail[i], 2, colorTrail)
		}
		s.sphere(screen, proj.State.Position, projectileRadius, colorProjectile, true)
	}
}

func (s *GameScene) drawText(screen *ebiten.Image, str string, x, y, scale float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, s.face, op)
}

// drawCentered 水平居中绘制文字
func (s *GameScene) drawCentered(screen *ebiten.Image, str string, y, scale float64, clr color.Color) {
	w := text.Advance(str, s.face) * scale
	s.drawText(screen, str, (config.GameWindowWidth-w)/2, y, scale, clr)
}

func (s *GameScene) drawHUD(screen *ebiten.Image) {
	state := s.life.State()
	for i, line := range s.hud.Lines(state, s.cannon.Aim()) {
		s.drawText(screen, line, config.HUDMarginX, config.HUDMarginY+float64(i)*config.HUDLineHeight, 1, colorText)
	}

	for i, p := range s.hud.Popups() {
		rise := utils.EaseOutCubic(utils.Clamp01(1-p.TTL/config.ScorePopupDuration)) * config.HUDLineHeight * 2
		y := config.GameWindowHeight/3 - float64(i)*config.HUDLineHeight*1.5 - rise
		s.drawCentered(screen, p.Text, y, 1.5, colorPopup)
	}

	if banner, ok := s.hud.Banner(); ok {
		h := 13 * config.BannerScale
		top := config.GameWindowHeight/2 - h
		vector.FillRect(screen, 0, float32(top-10), config.GameWindowWidth, float32(h*2+20), colorBannerBack, false)
		clr, ok := bannerColors[banner.Kind]
		if !ok {
			clr = colorText
		}
		s.drawCentered(screen, banner.Text, top, config.BannerScale, clr)

		hint := ""
		if utils.IsMobile() {
			if _, ok := BannerTapCommand(banner); ok {
				hint = "tap to continue"
			}
		} else {
			switch banner.Kind {
			case event.BannerFail:
				hint = "Y: retry stage   R: restart"
			case event.BannerFinal:
				hint = "R: play again   C: copy summary"
			case event.BannerClear:
				if banner.Duration == 0 {
					hint = "N: next stage"
				}
			}
		}
		if f := s.hud.Finish(); f != nil && banner.Kind == event.BannerFinal {
			s.drawCentered(screen, FinishText(*f), top+h+4, 1.5, colorText)
		} else if hint != "" {
			s.drawCentered(screen, hint, top+h+4, 1, colorText)
		}
	}

	if msg := s.hud.FlashMessage(); msg != "" {
		s.drawCentered(screen, msg, config.GameWindowHeight-3*config.HUDLineHeight, 1, colorText)
	}
	help := "drag: aim  release/space: fire  W/S: power  tab: type  1-9: stage"
	if utils.IsMobile() {
		help = "drag: aim  release: fire"
	}
	s.drawCentered(screen, help, config.GameWindowHeight-config.HUDLineHeight-4, 1, colorGrid)
}
