package systems

import (
	"math"
	"testing"

	"github.com/decker502/cannon/pkg/ecs"
	"github.com/decker502/cannon/pkg/entities"
	"github.com/decker502/cannon/pkg/stage"
	"github.com/decker502/cannon/pkg/utils"
)

func TestTargetMotionSystem(t *testing.T) {
	home := utils.V3(0, 2, 20)
	quarter := math.Pi / 2

	tests := []struct {
		name   string
		motion *stage.Motion
		hit    bool
		want   utils.Vec3
	}{
		{
			name: "静止标靶不动",
			want: home,
		},
		{
			name:   "水平往返",
			motion: &stage.Motion{Pattern: stage.Horizontal, Speed: quarter, Distance: 3},
			want:   utils.V3(3, 2, 20),
		},
		{
			name:   "垂直往返",
			motion: &stage.Motion{Pattern: stage.Vertical, Speed: quarter, Distance: 1.5},
			want:   utils.V3(0, 3.5, 20),
		},
		{
			name:   "已命中的标靶停止移动",
			motion: &stage.Motion{Pattern: stage.Horizontal, Speed: quarter, Distance: 3},
			hit:    true,
			want:   home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			target := &stage.TargetInstance{ID: 1, Position: home, Home: home, Radius: 1, Motion: tt.motion}
			if tt.hit {
				target.Hit()
			}
			entities.NewTargetEntity(em, target)

			NewTargetMotionSystem(em).Update(1.0)

			if target.Position.Distance(tt.want) > 1e-9 {
				t.Errorf("position = %v, want %v", target.Position, tt.want)
			}
		})
	}
}
