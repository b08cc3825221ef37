// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geom

import (
	"testing"

	"github.com/golang/geo/r2"
)

func square(origin r2.Point, size float64) Polygon {
	return Polygon{
		origin,
		{X: origin.X + size, Y: origin.Y},
		{X: origin.X + size, Y: origin.Y + size},
		{X: origin.X, Y: origin.Y + size},
	}
}

func TestPolygon_Area(t *testing.T) {
	tests := []struct {
		name string
		p    Polygon
		want float64
	}{
		{"unit square", square(r2.Point{}, 1), 1},
		{"big square", square(r2.Point{X: 10, Y: 10}, 200), 40000},
		{"triangle", Polygon{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Area(); !almostEqual(got, tt.want) {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygon_IsCCW(t *testing.T) {
	ccw := square(r2.Point{}, 10)
	if !ccw.IsCCW() {
		t.Errorf("IsCCW() = false for a counter clockwise square")
	}
	cw := Polygon{ccw[3], ccw[2], ccw[1], ccw[0]}
	if cw.IsCCW() {
		t.Errorf("IsCCW() = true for a clockwise square")
	}
}

func TestPolygon_IsSimple(t *testing.T) {
	if !square(r2.Point{}, 10).IsSimple() {
		t.Errorf("IsSimple() = false for a square")
	}
	bowtie := Polygon{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	if bowtie.IsSimple() {
		t.Errorf("IsSimple() = true for a self crossing polygon")
	}
}

func TestPolygon_Contains(t *testing.T) {
	p := square(r2.Point{}, 100)
	tests := []struct {
		name  string
		point r2.Point
		want  bool
	}{
		{"center", r2.Point{X: 50, Y: 50}, true},
		{"outside", r2.Point{X: 150, Y: 50}, false},
		{"on the boundary", r2.Point{X: 0, Y: 50}, true},
		{"near the boundary outside", r2.Point{X: -0.5, Y: 50}, true},
		{"far outside", r2.Point{X: -10, Y: 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Contains(tt.point, 1.0); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestPolygon_ContainsPolygon(t *testing.T) {
	container := square(r2.Point{}, 1000)
	tests := []struct {
		name  string
		other Polygon
		want  bool
	}{
		{"enclosed", square(r2.Point{X: 400, Y: 400}, 200), true},
		{"identical", square(r2.Point{}, 1000), true},
		{"touching the boundary", square(r2.Point{X: 0, Y: 400}, 200), true},
		{"crossing the boundary", square(r2.Point{X: 900, Y: 400}, 200), false},
		{"outside", square(r2.Point{X: 2000, Y: 0}, 200), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := container.ContainsPolygon(tt.other, 1.0); got != tt.want {
				t.Errorf("ContainsPolygon() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygon_CrossesPolygon(t *testing.T) {
	container := square(r2.Point{}, 1000)
	tests := []struct {
		name  string
		other Polygon
		want  bool
	}{
		{"enclosed", square(r2.Point{X: 400, Y: 400}, 200), false},
		{"crossing", square(r2.Point{X: 900, Y: 400}, 200), true},
		{"outside", square(r2.Point{X: 2000, Y: 0}, 200), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := container.CrossesPolygon(tt.other, 1.0); got != tt.want {
				t.Errorf("CrossesPolygon() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygon_Disjoint(t *testing.T) {
	p := square(r2.Point{}, 1000)
	tests := []struct {
		name  string
		other Polygon
		want  bool
	}{
		{"far away", square(r2.Point{X: 5000, Y: 0}, 200), true},
		{"sharing a boundary edge", square(r2.Point{X: 1000, Y: 0}, 200), true},
		{"overlapping", square(r2.Point{X: 900, Y: 400}, 200), false},
		{"enclosed", square(r2.Point{X: 400, Y: 400}, 200), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Disjoint(tt.other, 1.0); got != tt.want {
				t.Errorf("Disjoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygon_SegmentIntersectsInterior(t *testing.T) {
	p := square(r2.Point{}, 1000)
	tests := []struct {
		name string
		a, b r2.Point
		want bool
	}{
		{"through the middle", r2.Point{X: -100, Y: 500}, r2.Point{X: 1100, Y: 500}, true},
		{"fully inside", r2.Point{X: 200, Y: 200}, r2.Point{X: 800, Y: 800}, true},
		{"along the boundary", r2.Point{X: 0, Y: 0}, r2.Point{X: 0, Y: 1000}, false},
		{"fully outside", r2.Point{X: -100, Y: -100}, r2.Point{X: -100, Y: 2000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.SegmentIntersectsInterior(tt.a, tt.b, 1.0); got != tt.want {
				t.Errorf("SegmentIntersectsInterior() = %v, want %v", got, tt.want)
			}
		})
	}
}
