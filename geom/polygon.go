// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geom

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// Polygon is an ordered ring of points. The ring is implicitly closed:
// the last point connects back to the first.
type Polygon []r2.Point

// SignedArea returns the shoelace area of the polygon,
// positive for a counter clockwise ring.
func (p Polygon) SignedArea() float64 {
	var area float64
	n := len(p)
	for i := range n {
		j := (i + 1) % n
		area += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return area / 2
}

// Area returns the absolute area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Perimeter returns the total boundary length of the polygon.
func (p Polygon) Perimeter() float64 {
	var length float64
	n := len(p)
	for i := range n {
		length += Distance(p[i], p[(i+1)%n])
	}
	return length
}

// IsCCW returns true if the ring runs counter clockwise.
func (p Polygon) IsCCW() bool {
	return p.SignedArea() > 0
}

// IsSimple returns true if no two non adjacent edges of the ring intersect.
func (p Polygon) IsSimple() bool {
	n := len(p)
	for i := range n {
		a1, a2 := p[i], p[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1, b2 := p[j], p[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

// Contains returns true if the point lies inside the ring or within
// epsilon of its boundary.
func (p Polygon) Contains(point r2.Point, epsilon float64) bool {
	if p.DistanceToBoundary(point) <= epsilon {
		return true
	}
	return p.interior(point)
}

// ContainsStrictly returns true if the point lies inside the ring and
// farther than epsilon from its boundary.
func (p Polygon) ContainsStrictly(point r2.Point, epsilon float64) bool {
	return p.interior(point) && p.DistanceToBoundary(point) > epsilon
}

// interior is a ray casting point-in-polygon test, boundary excluded or
// included depending on floating point luck. Callers needing boundary
// tolerance go through Contains or ContainsStrictly.
func (p Polygon) interior(point r2.Point) bool {
	inside := false
	n := len(p)
	j := n - 1
	for i := range n {
		pi, pj := p[i], p[j]
		if (pi.Y > point.Y) != (pj.Y > point.Y) &&
			point.X < (pj.X-pi.X)*(point.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// DistanceToBoundary returns the distance from the point to the nearest
// point of the ring boundary.
func (p Polygon) DistanceToBoundary(point r2.Point) float64 {
	best := math.Inf(1)
	n := len(p)
	for i := range n {
		d := distanceToSegment(point, p[i], p[(i+1)%n])
		if d < best {
			best = d
		}
	}
	return best
}

// ContainsPolygon returns true if the other ring lies fully inside the
// ring dilated by epsilon. This mirrors a containment test on a slightly
// buffered polygon: it tolerates vertices sitting on the boundary within
// floating point error.
func (p Polygon) ContainsPolygon(other Polygon, epsilon float64) bool {
	for _, point := range other {
		if !p.Contains(point, epsilon) {
			return false
		}
	}
	// vertices inside is not enough for non convex containers: an edge of
	// the candidate may still escape and come back through the boundary
	n := len(other)
	for i := range n {
		a, b := other[i], other[(i+1)%n]
		mid := Barycenter(a, b, 0.5)
		if !p.Contains(mid, epsilon) {
			return false
		}
		if p.properCrossing(a, b, epsilon) {
			return false
		}
	}
	return true
}

// CrossesPolygon returns true if the other ring partially overlaps the
// ring without being contained: part of it lies strictly inside and part
// strictly outside, beyond epsilon.
func (p Polygon) CrossesPolygon(other Polygon, epsilon float64) bool {
	someInside := false
	someOutside := false
	for _, point := range other {
		if p.ContainsStrictly(point, epsilon) {
			someInside = true
		} else if !p.Contains(point, epsilon) {
			someOutside = true
		}
	}
	n := len(other)
	for i := range n {
		if p.properCrossing(other[i], other[(i+1)%n], epsilon) {
			someInside = true
			someOutside = true
		}
	}
	return someInside && someOutside
}

// Disjoint returns true if the two rings share no interior point beyond
// epsilon: touching boundaries still count as disjoint. This mirrors a
// disjointness test against a slightly eroded polygon.
func (p Polygon) Disjoint(other Polygon, epsilon float64) bool {
	for _, point := range other {
		if p.ContainsStrictly(point, epsilon) {
			return false
		}
	}
	for _, point := range p {
		if other.ContainsStrictly(point, epsilon) {
			return false
		}
	}
	n := len(other)
	for i := range n {
		if p.properCrossing(other[i], other[(i+1)%n], epsilon) {
			return false
		}
	}
	return true
}

// properCrossing reports whether the segment [a, b] crosses the ring
// boundary transversally, with the intersection farther than epsilon from
// both segment extremities.
func (p Polygon) properCrossing(a, b r2.Point, epsilon float64) bool {
	ab := b.Sub(a)
	abLength := Magnitude(ab)
	if abLength == 0 {
		return false
	}
	n := len(p)
	for i := range n {
		c, d := p[i], p[(i+1)%n]
		cd := d.Sub(c)
		denom := Cross(ab, cd)
		if denom == 0 {
			continue
		}
		diff := c.Sub(a)
		t := Cross(diff, cd) / denom
		u := Cross(diff, ab) / denom
		cdLength := Magnitude(cd)
		if cdLength == 0 {
			continue
		}
		tSlack := epsilon / abLength
		uSlack := epsilon / cdLength
		if t > tSlack && t < 1-tSlack && u > uSlack && u < 1-uSlack {
			return true
		}
	}
	return false
}

// SegmentIntersectsInterior returns true if any part of the segment [a, b]
// lies strictly inside the ring, farther than epsilon from its boundary.
// This mirrors an intersection test against a slightly eroded polygon.
func (p Polygon) SegmentIntersectsInterior(a, b r2.Point, epsilon float64) bool {
	ab := b.Sub(a)
	length := Magnitude(ab)
	if length == 0 {
		return p.ContainsStrictly(a, epsilon)
	}

	// split the segment at every boundary crossing and probe the middle of
	// each piece
	params := []float64{0, 1}
	n := len(p)
	for i := range n {
		c, d := p[i], p[(i+1)%n]
		cd := d.Sub(c)
		denom := Cross(ab, cd)
		if denom == 0 {
			continue
		}
		diff := c.Sub(a)
		t := Cross(diff, cd) / denom
		u := Cross(diff, ab) / denom
		if t > 0 && t < 1 && u >= 0 && u <= 1 {
			params = append(params, t)
		}
	}
	sort.Float64s(params)
	for i := 0; i < len(params)-1; i++ {
		mid := a.Add(ab.Mul((params[i] + params[i+1]) / 2))
		if p.ContainsStrictly(mid, epsilon) {
			return true
		}
	}
	return false
}

func distanceToSegment(point, a, b r2.Point) float64 {
	ab := b.Sub(a)
	length2 := Dot(ab, ab)
	if length2 == 0 {
		return Distance(point, a)
	}
	t := Dot(point.Sub(a), ab) / length2
	t = math.Max(0, math.Min(1, t))
	return Distance(point, a.Add(ab.Mul(t)))
}

func segmentsIntersect(a1, a2, b1, b2 r2.Point) bool {
	d1 := Cross(a2.Sub(a1), b1.Sub(a1))
	d2 := Cross(a2.Sub(a1), b2.Sub(a1))
	d3 := Cross(b2.Sub(b1), a1.Sub(b1))
	d4 := Cross(b2.Sub(b1), a2.Sub(b1))
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(a1, a2, b1)) ||
		(d2 == 0 && onSegment(a1, a2, b2)) ||
		(d3 == 0 && onSegment(b1, b2, a1)) ||
		(d4 == 0 && onSegment(b1, b2, a2))
}

func onSegment(a, b, point r2.Point) bool {
	return math.Min(a.X, b.X) <= point.X && point.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= point.Y && point.Y <= math.Max(a.Y, b.Y)
}
