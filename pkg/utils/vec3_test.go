package utils

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

func TestVec3Basics(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)

	if got := a.Add(b); got != V3(5, -3, 9) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); got != V3(-3, 7, -3) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Dot(b); got != 4-10+18 {
		t.Errorf("Dot: got %v, want 12", got)
	}
	if got := Right.Cross(Up); got != Fwd {
		t.Errorf("Right x Up: got %v, want %v", got, Fwd)
	}
	if got := Fwd.Cross(Up); got != V3(-1, 0, 0) {
		t.Errorf("Fwd x Up: got %v, want (-1,0,0)", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name   string
		input  Vec3
		wantOK bool
	}{
		{"普通向量", V3(3, 0, 4), true},
		{"零向量", Zero, false},
		{"NaN", V3(math.NaN(), 1, 0), false},
		{"Inf", V3(math.Inf(1), 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := tt.input.Normalize()
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && math.Abs(n.Len()-1) > 1e-9 {
				t.Errorf("Normalize(%v) length = %v, want 1", tt.input, n.Len())
			}
			if !ok && n != Zero {
				t.Errorf("failed Normalize should return zero vector, got %v", n)
			}
		})
	}
}

func TestVec3Reflect(t *testing.T) {
	v := V3(3, -4, 0)
	got := v.Reflect(Up)
	if !vecNear(got, V3(3, 4, 0), 1e-12) {
		t.Errorf("Reflect: got %v, want (3,4,0)", got)
	}
	if math.Abs(got.Len()-v.Len()) > 1e-12 {
		t.Errorf("Reflect should preserve length: %v vs %v", got.Len(), v.Len())
	}
}

func TestDirectionFromAngles(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float64
		want       Vec3
	}{
		{"正前方", 0, 0, Fwd},
		{"正上方", 0, 90, Up},
		{"右侧", 90, 0, Right},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DirectionFromAngles(tt.yaw, tt.pitch)
			if !vecNear(got, tt.want, 1e-9) {
				t.Errorf("DirectionFromAngles(%v, %v) = %v, want %v", tt.yaw, tt.pitch, got, tt.want)
			}
		})
	}
}

func TestWithLen(t *testing.T) {
	got := V3(0, 0, 2).WithLen(5)
	if !vecNear(got, V3(0, 0, 5), 1e-12) {
		t.Errorf("WithLen: got %v", got)
	}
	if got := Zero.WithLen(5); got != Zero {
		t.Errorf("WithLen on zero vector should be a no-op, got %v", got)
	}
}
