// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"errors"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"github.com/2dChan/planmesh/geom"
)

// Traverse selects how a recursive cut continues into the next face.
type Traverse int

const (
	// TraverseNone stops after the first face.
	TraverseNone Traverse = iota
	// TraverseAbsolute keeps cutting along the same absolute direction.
	TraverseAbsolute
	// TraverseRelative keeps cutting at the same angle relative to each
	// newly reached edge.
	TraverseRelative
)

// CutResult holds the two edges starting at the cut vertex and the
// intersection vertex, and the face created by the cut. Face is nil when
// the cut reused an existing edge instead of creating a face.
type CutResult struct {
	Start *Edge
	End   *Edge
	Face  *Face
}

// CutCallback is called after each face cut by a recursive cut. Returning
// true stops the traversal.
type CutCallback func(*CutResult) bool

type cutConfig struct {
	vector    *r2.Point
	maxLength float64
	limited   bool
	traverse  Traverse
	callback  CutCallback
}

// CutOption configures a cut.
type CutOption func(*cutConfig)

// CutAlong forces the cut direction to an absolute vector,
// overriding the angle.
func CutAlong(vector r2.Point) CutOption {
	return func(c *cutConfig) { c.vector = &vector }
}

// CutMaxLength bounds the total length of the cut.
func CutMaxLength(length float64) CutOption {
	return func(c *cutConfig) {
		c.maxLength = length
		c.limited = true
	}
}

// CutTraverse sets how a recursive cut crosses into the next face.
func CutTraverse(traverse Traverse) CutOption {
	return func(c *cutConfig) { c.traverse = traverse }
}

// CutNotify registers a callback invoked after each face cut.
func CutNotify(callback CutCallback) CutOption {
	return func(c *cutConfig) { c.callback = callback }
}

func newCutConfig(traverse Traverse, opts []CutOption) cutConfig {
	config := cutConfig{traverse: traverse}
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// angleInsideFace returns true if a cut direction, expressed as an angle
// from the end vertex of the edge, points strictly inside the face.
func (e *Edge) angleInsideFace(angle float64) bool {
	minAngle := e.mesh.tol.MinAngle
	if !(180-minAngle > angle && angle > 180.0-e.NextAngle()+minAngle) {
		e.mesh.log.Debug("planmesh: cut angle points outside the face",
			zap.Float64("angle", angle), zap.Float64("nextAngle", e.NextAngle()))
		return false
	}
	return true
}

// Intersect finds the opposite point of the edge end on the face boundary
// along the vector direction, splits the boundary edge there and returns
// the edge ending at the intersection vertex. A negative maxLength means
// unlimited. Returns nil when no intersection exists or the intersection is
// too far.
func (e *Edge) Intersect(vector r2.Point, maxLength float64) *Edge {
	vertex, closestEdge, distance := e.End().ProjectPoint(e.face, vector)
	if vertex == nil {
		return nil
	}

	if maxLength >= 0 && maxLength < distance {
		e.mesh.removeVertex(vertex)
		return nil
	}

	closestEdge = closestEdge.Split(vertex)
	return closestEdge.Previous()
}

// Cut cuts the face of the edge from the given vertex on the edge,
// following the given angle in degrees counter clockwise from the edge
// direction, and returns the created edges and face. Returns nil when the
// cut direction points outside the face or no viable intersection exists.
func (e *Edge) Cut(vertex *Vertex, angle float64, opts ...CutOption) *CutResult {
	config := newCutConfig(TraverseNone, opts)
	return e.cut(vertex, angle, config)
}

func (e *Edge) cut(vertex *Vertex, angle float64, config cutConfig) *CutResult {
	// never cut from the outer region
	if e.face == nil {
		return nil
	}

	firstEdge := e

	if config.vector != nil {
		angle = geom.CCWAngle(e.Vector(), *config.vector)
	}

	vertex = vertex.SnapTo(e.start, e.End())

	// cutting from the start vertex is cutting from the end of the
	// previous edge, with the angle adjusted accordingly
	if vertex == e.start {
		firstEdge = e.Previous()
		angle = angle + 180.0 - e.PreviousAngle()
	}

	if vertex == firstEdge.End() && !firstEdge.angleInsideFace(angle) {
		return nil
	}

	firstEdge.Split(vertex)

	lineVector := geom.UnitVector(e.AbsoluteAngle() + angle)
	if config.vector != nil {
		lineVector = *config.vector
	}
	maxLength := -1.0
	if config.limited {
		maxLength = config.maxLength
	}
	closestEdge := firstEdge.Intersect(lineVector, maxLength)
	if closestEdge == nil {
		e.mesh.log.Info("planmesh: could not create a viable cut",
			zap.Stringer("edge", e), zap.Float64("angle", angle))
		return nil
	}

	// the split may have moved the face anchor to the other side
	firstEdge.face.edge = firstEdge

	closestEdgeNext := closestEdge.next
	firstEdgeNext := firstEdge.next

	newFace, err := firstEdge.Link(closestEdge)
	if err != nil {
		panic(err)
	}
	// when the link was a no-op because the edges were already linked,
	// return an end edge that still enables a next cut
	if newFace == nil && closestEdge.next == firstEdge {
		closestEdgeNext = firstEdge.pair.next
	}

	return &CutResult{Start: firstEdgeNext, End: closestEdgeNext, Face: newFace}
}

// RecursiveCut cuts the face from the vertex at the given angle, then keeps
// cutting through the following faces according to the traverse mode,
// the optional max length budget and the optional callback.
func (e *Edge) RecursiveCut(vertex *Vertex, angle float64, opts ...CutOption) *CutResult {
	config := newCutConfig(TraverseAbsolute, opts)
	return e.recursiveCut(vertex, angle, config)
}

func (e *Edge) recursiveCut(vertex *Vertex, angle float64, config cutConfig) *CutResult {
	if e.face == nil {
		return nil
	}

	if config.vector != nil {
		angle = geom.CCWAngle(e.Vector(), *config.vector)
	} else {
		vector := geom.UnitVector(e.AbsoluteAngle() + angle)
		config.vector = &vector
	}

	result := e.cut(vertex, angle, config)
	if result == nil {
		return nil
	}

	if config.traverse == TraverseNone {
		if config.callback != nil {
			config.callback(result)
		}
		return result
	}

	// walk clockwise around the intersection vertex until we find an edge
	// from which the next cut can start
	correctEdge := result.End
	for {
		nextAngle := geom.CCWAngle(correctEdge.pair.Vector(), *config.vector)
		if correctEdge.pair.angleInsideFace(nextAngle) {
			break
		}
		correctEdge = correctEdge.CW()
		if correctEdge == result.End {
			break
		}
	}
	result.End = correctEdge

	if config.callback != nil && config.callback(result) {
		return result
	}

	if config.limited && result.Start != nil {
		config.maxLength -= result.Start.start.DistanceTo(result.End.start)
		// coordinate truncation can push the remainder slightly below
		// zero, which Intersect would read as unlimited
		if config.maxLength < 0 {
			config.maxLength = 0
		}
	}

	if config.traverse == TraverseRelative {
		config.vector = nil
	}

	if next := result.End.pair.recursiveCut(result.End.start, angle, config); next != nil {
		return next
	}
	return result
}

// BarycenterCut cuts the face at the barycentric position on the edge:
// 0 is the start vertex, 1 the end vertex.
func (e *Edge) BarycenterCut(coeff, angle float64, opts ...CutOption) *CutResult {
	config := newCutConfig(TraverseNone, opts)
	vertex := e.barycenterVertex(coeff)
	result := e.cut(vertex, angle, config)
	e.cleanFailedCutVertex(result, vertex)
	return result
}

// RecursiveBarycenterCut cuts the face at the barycentric position on the
// edge and keeps cutting through the following faces. The traverse mode
// defaults to relative.
func (e *Edge) RecursiveBarycenterCut(coeff, angle float64, opts ...CutOption) *CutResult {
	config := newCutConfig(TraverseRelative, opts)
	vertex := e.barycenterVertex(coeff)
	result := e.recursiveCut(vertex, angle, config)
	e.cleanFailedCutVertex(result, vertex)
	return result
}

func (e *Edge) barycenterVertex(coeff float64) *Vertex {
	switch coeff {
	case 0:
		return e.start
	case 1:
		return e.End()
	}
	return e.Barycenter(coeff)
}

func (e *Edge) cleanFailedCutVertex(result *CutResult, vertex *Vertex) {
	if result == nil && vertex.edge == nil && vertex.mesh != nil {
		e.mesh.removeVertex(vertex)
	}
}

// OrthoCut cuts the face at the edge start vertex, orthogonally to the
// first reachable edge of the face. Returns nil when no orthogonal cut
// is possible.
func (e *Edge) OrthoCut() *CutResult {
	minAngle := e.mesh.tol.MinAngle

	for _, edge := range e.Siblings() {
		// skip the two edges touching the start vertex
		if edge == e || edge == e.Previous() {
			continue
		}

		vector := geom.Opposite(edge.Normal())
		angle := geom.CCWAngle(e.Vector(), vector)
		if !(minAngle < angle && angle < e.PreviousAngle()-minAngle) {
			e.mesh.log.Debug("planmesh: orthogonal cut points outside the face",
				zap.Float64("angle", angle))
			continue
		}

		point, ok := geom.ProjectPointOnSegment(e.start.Point(), vector,
			edge.start.Point(), edge.End().Point(), 0, false)
		if !ok {
			continue
		}

		// keep the closest intersection so the cut stays inside the face
		closestEdge := edge
		closestPoint := point
		minDistance := geom.Distance(point, e.start.Point())
		for _, other := range edge.Siblings() {
			if other == e || other == e.Previous() || other == edge {
				continue
			}
			otherPoint, ok := geom.ProjectPointOnSegment(e.start.Point(), vector,
				other.start.Point(), other.End().Point(), 0, false)
			if !ok {
				continue
			}
			if distance := geom.Distance(otherPoint, e.start.Point()); distance < minDistance {
				closestEdge = other
				closestPoint = otherPoint
				minDistance = distance
			}
		}

		vertex := e.mesh.newVertex(closestPoint.X, closestPoint.Y, true)
		splitEdge := closestEdge.Split(vertex)

		splitEdgePrevious := splitEdge.Previous()
		selfPrevious := e.Previous()

		newFace, err := selfPrevious.Link(splitEdgePrevious)
		if err != nil {
			panic(err)
		}
		if newFace == nil {
			if vertex.mesh != nil && vertex.edge == nil {
				e.mesh.removeVertex(vertex)
			}
			continue
		}

		return &CutResult{Start: e, End: splitEdge, Face: newFace}
	}

	return nil
}

// Slice cuts the face of the edge along a line offset from the edge by the
// given distance along its normal. A zero vector slices parallel to the
// edge. Returns the faces resulting from the slice, including the initial
// face. Can create multiple faces when the line crosses the face several
// times.
//
//	+-------------------------+
//	|                         |
//	|        new face         |
//	|                         |
//	|        line cut         | vector ->
//	*-----------+-------------*
//	|           ^             |
//	|           | offset      |
//	|           |             |
//	+--------->EDGE+----------+
func (e *Edge) Slice(offset float64, vector r2.Point) ([]*Face, error) {
	e.mesh.log.Debug("planmesh: slicing a face from an edge",
		zap.Stringer("edge", e), zap.Float64("offset", offset))

	if offset < 0 {
		return nil, errors.New("planmesh: the slice offset must be a positive float")
	}
	if e.face == nil {
		return nil, errors.New("planmesh: cannot slice from an edge on the mesh boundary")
	}

	if vector == (r2.Point{}) {
		vector = e.OppositeVector()
	}

	point := geom.MovePoint(e.start.Point(), e.Normal(), offset)
	vertex := e.mesh.newVertex(point.X, point.Y, true)
	faces, err := e.face.Slice(vertex, vector)
	e.mesh.removeVertex(vertex)

	return faces, err
}
