// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestVector2D_Add(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector2D
		v2       Vector2D
		expected Vector2D
	}{
		{
			name:     "positive_vectors",
			v1:       Vector2D{X: 3, Y: 4},
			v2:       Vector2D{X: 1, Y: 2},
			expected: Vector2D{X: 4, Y: 6},
		},
		{
			name:     "mixed_signs",
			v1:       Vector2D{X: 5, Y: -3},
			v2:       Vector2D{X: -2, Y: 7},
			expected: Vector2D{X: 3, Y: 4},
		},
		{
			name:     "zero_vector",
			v1:       Vector2D{X: 0, Y: 0},
			v2:       Vector2D{X: 5, Y: -3},
			expected: Vector2D{X: 5, Y: -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Add(tt.v2)
			if result != tt.expected {
				t.Errorf("Add() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector2D_SubAndScale(t *testing.T) {
	v := Vector2D{X: 10, Y: -4}
	if got := v.Sub(Vector2D{X: 4, Y: 1}); got != (Vector2D{X: 6, Y: -5}) {
		t.Errorf("Sub() = %v", got)
	}
	if got := v.Scale(0.5); got != (Vector2D{X: 5, Y: -2}) {
		t.Errorf("Scale() = %v", got)
	}
	if got := v.Scale(0); got != (Vector2D{}) {
		t.Errorf("Scale(0) = %v", got)
	}
}

func TestVector2D_LengthAndDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        Vector2D
		b        Vector2D
		expected float64
	}{
		{"three_four_five", Vector2D{X: 0, Y: 0}, Vector2D{X: 3, Y: 4}, 5},
		{"same_point", Vector2D{X: 7, Y: 7}, Vector2D{X: 7, Y: 7}, 0},
		{"negative_coordinates", Vector2D{X: -1, Y: -1}, Vector2D{X: 2, Y: 3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Distance(tt.b); !approxEqual(got, tt.expected) {
				t.Errorf("Distance() = %f, expected %f", got, tt.expected)
			}
			if got := tt.b.Sub(tt.a).Length(); !approxEqual(got, tt.expected) {
				t.Errorf("Length() = %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestFromElevation(t *testing.T) {
	tests := []struct {
		name      string
		angle     float64
		magnitude float64
		expected  Vector2D
	}{
		{"horizontal", 0, 10, Vector2D{X: 10, Y: 0}},
		{"straight_up", math.Pi / 2, 10, Vector2D{X: 0, Y: -10}},
		{"forty_five", math.Pi / 4, math.Sqrt2, Vector2D{X: 1, Y: -1}},
		{"below_horizon", -math.Pi / 2, 2, Vector2D{X: 0, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromElevation(tt.angle, tt.magnitude)
			if !approxEqual(got.X, tt.expected.X) || !approxEqual(got.Y, tt.expected.Y) {
				t.Errorf("FromElevation(%f, %f) = %v, expected %v", tt.angle, tt.magnitude, got, tt.expected)
			}
		})
	}
}

func TestVector2D_IsFinite(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		expected bool
	}{
		{"finite", Vector2D{X: 1, Y: -2}, true},
		{"nan_x", Vector2D{X: math.NaN(), Y: 0}, false},
		{"inf_y", Vector2D{X: 0, Y: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.expected {
				t.Errorf("IsFinite() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func BenchmarkVector2D_Distance(b *testing.B) {
	v1 := Vector2D{X: 3, Y: 4}
	v2 := Vector2D{X: 1, Y: 2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v1.Distance(v2)
	}
}
