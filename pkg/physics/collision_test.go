// pkg/physics/collision_test.go
package physics

import (
	"testing"
)

func TestCircle_Contains(t *testing.T) {
	target := Circle{Center: Vector2D{X: 100, Y: 100}, Radius: 20}

	tests := []struct {
		name     string
		point    Vector2D
		expected bool
	}{
		{
			name:     "center",
			point:    Vector2D{X: 100, Y: 100},
			expected: true,
		},
		{
			name:     "inside",
			point:    Vector2D{X: 110, Y: 110},
			expected: true,
		},
		{
			name:     "on_rim",
			point:    Vector2D{X: 120, Y: 100},
			expected: false, // Distance equals radius, containment uses <
		},
		{
			name:     "outside",
			point:    Vector2D{X: 130, Y: 100},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := target.Contains(tt.point); got != tt.expected {
				t.Errorf("Circle.Contains(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestField_OutOfBounds(t *testing.T) {
	field := Field{Width: 800, Height: 600, GroundY: 530}

	tests := []struct {
		name     string
		point    Vector2D
		expected bool
	}{
		{"inside", Vector2D{X: 400, Y: 300}, false},
		{"left_edge", Vector2D{X: 0, Y: 300}, false},
		{"right_edge", Vector2D{X: 800, Y: 300}, false},
		{"past_left", Vector2D{X: -0.1, Y: 300}, true},
		{"past_right", Vector2D{X: 800.1, Y: 300}, true},
		{"on_ground", Vector2D{X: 400, Y: 530}, true},
		{"below_ground", Vector2D{X: 400, Y: 560}, true},
		{"above_top", Vector2D{X: 400, Y: -500}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := field.OutOfBounds(tt.point); got != tt.expected {
				t.Errorf("OutOfBounds(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}
