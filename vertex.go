// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"github.com/2dChan/planmesh/geom"
)

// Vertex is a 2D point owned by a mesh. Coordinates are truncated to the
// mesh precision on write. A non mutable vertex (an original boundary
// corner) is never collapsed or cleaned away.
type Vertex struct {
	mesh    *Mesh
	id      ID
	x, y    float64
	edge    *Edge // one outgoing edge, anchor into the fan around the vertex
	mutable bool
}

func (v *Vertex) String() string {
	return fmt.Sprintf("vertex: (%v, %v) - %d", v.x, v.y, v.id)
}

// ID returns the vertex id.
func (v *Vertex) ID() ID { return v.id }

// Mesh returns the owning mesh, nil if the vertex is detached.
func (v *Vertex) Mesh() *Mesh { return v.mesh }

// X returns the x coordinate.
func (v *Vertex) X() float64 { return v.x }

// Y returns the y coordinate.
func (v *Vertex) Y() float64 { return v.y }

// Point returns the vertex coordinates.
func (v *Vertex) Point() r2.Point { return r2.Point{X: v.x, Y: v.y} }

// Mutable returns false for fixed vertices such as original boundary corners.
func (v *Vertex) Mutable() bool { return v.mutable }

// Edge returns the anchor outgoing edge of the vertex, nil if unattached.
func (v *Vertex) Edge() *Edge { return v.edge }

// SetEdge sets the anchor outgoing edge. The edge must start at the vertex.
func (v *Vertex) SetEdge(e *Edge) { v.edge = e }

func (v *Vertex) setPoint(p r2.Point) {
	decimals := v.mesh.tol.CoordDecimals
	v.x = geom.Truncate(p.X, decimals)
	v.y = geom.Truncate(p.Y, decimals)
}

func (v *Vertex) ref() ComponentRef { return ComponentRef{Kind: KindVertex, ID: v.id} }

// Edges returns every edge starting from the vertex, walking the rotational
// fan from the anchor edge.
func (v *Vertex) Edges() []*Edge {
	if v.edge == nil {
		return nil
	}
	edges := []*Edge{v.edge}
	for e := v.edge.Previous().pair; e != v.edge; e = e.Previous().pair {
		if len(edges) > v.mesh.loopGuard() {
			panic(fmt.Sprintf("planmesh: infinite fan around %s", v))
		}
		edges = append(edges, e)
	}
	return edges
}

// DistanceTo returns the euclidean distance to the other vertex.
func (v *Vertex) DistanceTo(other *Vertex) float64 {
	return geom.Distance(v.Point(), other.Point())
}

// Vector returns the vector from the vertex to the other vertex.
func (v *Vertex) Vector(other *Vertex) r2.Point {
	return other.Point().Sub(v.Point())
}

// IsClose is the pseudo equality used for snapping.
func (v *Vertex) IsClose(other *Vertex) bool {
	return v.DistanceTo(other) <= v.mesh.tol.CoordEpsilon
}

// SnapTo returns the first candidate within the snapping radius, rewiring
// every edge starting at the vertex onto that candidate and detaching the
// vertex from the mesh. If no candidate is close enough the vertex itself is
// returned and nothing is modified. Snapping a vertex to itself is a no-op.
func (v *Vertex) SnapTo(others ...*Vertex) *Vertex {
	for _, other := range others {
		if v == other {
			return v
		}
		if !v.IsClose(other) {
			continue
		}
		if v.edge != nil {
			for _, e := range v.Edges() {
				e.start = other
			}
			v.edge = nil
		}
		if v.mesh != nil {
			v.mesh.removeVertex(v)
		}
		return other
	}
	return v
}

// SnapToEdge attaches the vertex onto the first edge it lies on, splitting
// that edge, and returns the edge starting at the vertex afterwards. When
// the vertex sits on an internal edge junction several directional choices
// exist; the edge minimizing the turning angle from the vertex own edge
// direction is kept. Returns nil if the vertex is on none of the edges.
func (v *Vertex) SnapToEdge(edges ...*Edge) *Edge {
	tol := v.mesh.tol
	var best *Edge
	minAngle := math.Inf(1)
	var vector r2.Point
	hasVector := v.edge != nil
	if hasVector {
		vector = v.edge.Vector()
	}

	for _, edge := range edges {
		var newEdge *Edge
		switch {
		case v == edge.start || v.SnapTo(edge.start) != v:
			newEdge = edge
		case v == edge.End() || v.SnapTo(edge.End()) != v:
			newEdge = edge.next
		default:
			closest, ok := geom.ProjectPointOnSegment(v.Point(), edge.Normal(),
				edge.start.Point(), edge.End().Point(), tol.CoordEpsilon, true)
			if !ok || geom.Distance(v.Point(), closest) > tol.CoordEpsilon {
				continue
			}
			v.setPoint(closest)
			newEdge = edge.Split(v)
		}
		if newEdge == nil {
			continue
		}
		// snapping onto an extremity detaches the vertex; the scan keeps
		// going from the surviving one
		v = newEdge.start

		internalJunction := edge.IsInternal() ||
			edge.pair.next.IsInternal() ||
			edge.pair.next.pair.next.IsInternal()

		if !internalJunction || !hasVector {
			return newEdge
		}

		// several candidate half-edges share the junction: keep the one
		// turning the least away from the vertex own direction
		newAngle := geom.CCWAngle(newEdge.Vector(), vector)
		if geom.PseudoEqual(newAngle, 360.0, tol.AngleEpsilon) {
			newAngle = 0.0
		}
		if newAngle < minAngle {
			best = newEdge
			minAngle = newAngle
			if geom.PseudoEqual(minAngle, 0.0, tol.AngleEpsilon) {
				break
			}
		}
	}
	return best
}

// ProjectPoint casts a ray from the vertex along the vector and returns a
// new vertex at the nearest intersection with the face boundary, along with
// the intersected edge and the distance. Edges incident to the vertex and
// edges facing away from the ray are ignored. The returned vertex is
// attached to the mesh but not yet inserted in the topology; the caller
// must either split the edge with it or remove it.
func (v *Vertex) ProjectPoint(face *Face, vector r2.Point) (*Vertex, *Edge, float64) {
	tol := v.mesh.tol
	var closestEdge *Edge
	var closestPoint r2.Point
	shortest := math.Inf(1)

	for _, edge := range face.Edges() {
		if geom.Dot(edge.Normal(), vector) >= 0 {
			continue
		}
		if v == edge.start || v == edge.End() {
			continue
		}
		point, ok := geom.ProjectPointOnSegment(v.Point(), vector,
			edge.start.Point(), edge.End().Point(), tol.CoordEpsilon, false)
		if !ok {
			continue
		}
		d := geom.Distance(point, v.Point())
		if d < shortest {
			closestEdge = edge
			closestPoint = point
			shortest = d
		}
	}

	if closestEdge == nil {
		return nil, nil, 0
	}
	return v.mesh.newVertex(closestPoint.X, closestPoint.Y, true), closestEdge, shortest
}

// Clean removes the vertex if it is mutable and joins exactly two aligned
// edges, merging them into one edge pair. Returns the removed half-edges,
// empty if nothing was done.
func (v *Vertex) Clean() []*Edge {
	if !v.mutable {
		return nil
	}

	edges := v.Edges()
	if len(edges) > 2 {
		v.mesh.log.Debug("planmesh: cannot clean a vertex used by more than two edges",
			zap.Stringer("vertex", v))
		return nil
	}
	if len(edges) != 2 {
		return nil
	}

	previous := v.edge.Previous()
	if previous.pair != edges[1] {
		panic(fmt.Sprintf("planmesh: malformed vertex fan, cannot clean: %s", v))
	}
	if !previous.NextIsAligned() {
		return nil
	}

	edge := v.edge
	pairNext := edge.pair.next // previous.pair, removed together with edge

	edge.preserveReferences(nil)
	pairNext.preserveReferences(nil)

	v.mesh.removeEdge(edge)
	v.mesh.removeEdge(pairNext)

	previous.next = edge.next
	edge.pair.next = pairNext.next

	setPair(previous, edge.pair)

	v.mesh.removeVertex(v)

	return []*Edge{edge, pairNext}
}
