// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package geom provides the planar vector and polygon primitives used by the
// planmesh kernel. Angles are expressed in degrees, counter clockwise.
package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Magnitude returns the length of the vector.
func Magnitude(v r2.Point) float64 {
	return math.Hypot(v.X, v.Y)
}

// Unit returns the vector scaled to length 1.
// The zero vector is returned unchanged.
func Unit(v r2.Point) r2.Point {
	m := Magnitude(v)
	if m == 0 {
		return v
	}
	return r2.Point{X: v.X / m, Y: v.Y / m}
}

// UnitVector returns the unit vector pointing at the given absolute angle.
func UnitVector(angle float64) r2.Point {
	rad := angle * math.Pi / 180.0
	return r2.Point{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Opposite returns the reversed vector.
func Opposite(v r2.Point) r2.Point {
	return r2.Point{X: -v.X, Y: -v.Y}
}

// Normal returns the counter clockwise unit normal of the vector.
// Per convention the zero vector has a zero normal.
func Normal(v r2.Point) r2.Point {
	return Unit(r2.Point{X: -v.Y, Y: v.X})
}

// Dot returns the dot product of the two vectors.
func Dot(v, w r2.Point) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the cross product of the two vectors.
func Cross(v, w r2.Point) float64 {
	return v.X*w.Y - v.Y*w.X
}

// AbsoluteAngle returns the absolute angle of the vector in [0, 360).
func AbsoluteAngle(v r2.Point) float64 {
	angle := math.Atan2(v.Y, v.X) * 180.0 / math.Pi
	if angle < 0 {
		angle += 360.0
	}
	return angle
}

// CCWAngle returns the counter clockwise angle from v to w in [0, 360).
func CCWAngle(v, w r2.Point) float64 {
	angle := AbsoluteAngle(w) - AbsoluteAngle(v)
	if angle < 0 {
		angle += 360.0
	}
	return angle
}

// PseudoEqual returns true if the two values differ by at most epsilon.
func PseudoEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Truncate cuts the value to the given number of decimals, toward zero.
func Truncate(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Trunc(value*pow) / pow
}

// Distance returns the distance between two points.
func Distance(p, q r2.Point) float64 {
	return Magnitude(q.Sub(p))
}

// Barycenter returns the barycenter of the two points for the given
// coefficient: 0 yields p, 1 yields q.
func Barycenter(p, q r2.Point, coeff float64) r2.Point {
	return p.Add(q.Sub(p).Mul(coeff))
}

// MovePoint translates the point by the given distance along the direction.
func MovePoint(p, direction r2.Point, distance float64) r2.Point {
	return p.Add(Unit(direction).Mul(distance))
}

// ProjectPointOnSegment casts a ray from the point along the direction and
// returns its intersection with the segment [a, b]. The epsilon extends the
// segment at both extremities to absorb floating point near misses. When
// noDirection is set the full line through the point is considered instead
// of the half line. The second return value is false when there is no
// intersection.
func ProjectPointOnSegment(point, direction, a, b r2.Point,
	epsilon float64, noDirection bool) (r2.Point, bool) {
	seg := b.Sub(a)
	segLength := Magnitude(seg)
	if segLength == 0 {
		return r2.Point{}, false
	}

	denom := Cross(direction, seg)
	if denom == 0 {
		// parallel ray and segment
		return r2.Point{}, false
	}

	diff := a.Sub(point)
	t := Cross(diff, seg) / denom
	u := Cross(diff, direction) / denom

	if !noDirection && t < 0 {
		return r2.Point{}, false
	}

	slack := epsilon / segLength
	if u < -slack || u > 1+slack {
		return r2.Point{}, false
	}

	return point.Add(direction.Mul(t)), true
}
