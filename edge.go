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

// Infinity is the conventional distance returned when a measure between two
// edges is unbounded.
const Infinity = float64(math.MaxInt64)

// Edge is a half-edge: a directed arc from its start vertex to the start of
// the next edge, always paired with a reciprocal twin on the opposite side.
// A nil face marks an edge bounding the outer, unbounded region. An edge
// whose face equals its pair's face is internal: it bridges a hole to the
// outer boundary of the same face.
type Edge struct {
	mesh  *Mesh
	id    ID
	start *Vertex
	next  *Edge
	pair  *Edge
	face  *Face
}

func (e *Edge) String() string {
	end := "?"
	if e.End() != nil {
		end = fmt.Sprintf("(%v, %v)", e.End().x, e.End().y)
	}
	return fmt.Sprintf("edge: [(%v, %v), %s] - %d", e.start.x, e.start.y, end, e.id)
}

// ID returns the edge id.
func (e *Edge) ID() ID { return e.id }

// Mesh returns the owning mesh, nil if the edge is detached.
func (e *Edge) Mesh() *Mesh { return e.mesh }

// Start returns the vertex the edge starts from.
func (e *Edge) Start() *Vertex { return e.start }

// End returns the vertex the edge points to, nil if the edge has no next.
func (e *Edge) End() *Vertex {
	if e.next == nil {
		return nil
	}
	return e.next.start
}

// Next returns the following edge around the same face, counter clockwise.
func (e *Edge) Next() *Edge { return e.next }

// SetNext wires the following edge. Kernel mutations keep next cycles
// consistent; callers should not need this outside deserialization helpers.
func (e *Edge) SetNext(next *Edge) { e.next = next }

// Pair returns the reciprocal twin edge.
func (e *Edge) Pair() *Edge { return e.pair }

// Face returns the face the edge belongs to, nil for the outer region.
func (e *Edge) Face() *Face { return e.face }

// setPair wires the two half-edges as reciprocal twins. Pairing is always
// established through this single helper so the reciprocity invariant has
// one enforcement point.
func setPair(a, b *Edge) {
	a.pair = b
	b.pair = a
}

func (e *Edge) ref() ComponentRef { return ComponentRef{Kind: KindEdge, ID: e.id} }

// Previous returns the edge preceding this one on its face loop. Previous
// is derived by walking the loop, never stored.
func (e *Edge) Previous() *Edge {
	guard := 0
	for sibling := e.next; ; sibling = sibling.next {
		if sibling.next == nil {
			panic(fmt.Sprintf("planmesh: open loop, edge has no next: %s", sibling))
		}
		if sibling.next == e {
			return sibling
		}
		if guard++; guard > e.mesh.loopGuard() {
			panic(fmt.Sprintf("planmesh: no previous edge found for %s", e))
		}
	}
}

// CCW returns the next edge starting from the same vertex,
// in counter clockwise order.
func (e *Edge) CCW() *Edge { return e.Previous().pair }

// CW returns the next edge starting from the same vertex,
// in clockwise order.
func (e *Edge) CW() *Edge { return e.pair.next }

// IsMeshBoundary returns true if the edge borders the outer region.
func (e *Edge) IsMeshBoundary() bool {
	return e.face == nil || e.pair.face == nil
}

// IsInternal returns true if the edge and its pair belong to the same face,
// which happens for edges bridging a hole to the face boundary.
func (e *Edge) IsInternal() bool {
	return e.face == e.pair.face
}

// Siblings returns the edges of the loop, starting with the edge itself and
// following next pointers counter clockwise.
func (e *Edge) Siblings() []*Edge {
	edges := []*Edge{e}
	for sibling := e.next; sibling != e; sibling = sibling.next {
		if sibling == nil {
			panic(fmt.Sprintf("planmesh: open loop starting from %s", e))
		}
		if len(edges) > e.mesh.loopGuard() {
			panic(fmt.Sprintf("planmesh: infinite loop starting from %s", e))
		}
		edges = append(edges, sibling)
	}
	return edges
}

// ReverseSiblings returns the edges of the loop, starting with the edge
// itself and walking backward.
func (e *Edge) ReverseSiblings() []*Edge {
	edges := []*Edge{e}
	for sibling := e.Previous(); sibling != e; sibling = sibling.Previous() {
		if len(edges) > e.mesh.loopGuard() {
			panic(fmt.Sprintf("planmesh: infinite reverse loop starting from %s", e))
		}
		edges = append(edges, sibling)
	}
	return edges
}

// Length returns the length of the edge.
func (e *Edge) Length() float64 {
	return e.start.DistanceTo(e.End())
}

// Vector returns the direction vector of the edge.
func (e *Edge) Vector() r2.Point {
	return e.End().Point().Sub(e.start.Point())
}

// OppositeVector returns the reversed direction vector of the edge.
func (e *Edge) OppositeVector() r2.Point {
	return e.start.Point().Sub(e.End().Point())
}

// UnitVector returns the direction of the edge with length 1.
func (e *Edge) UnitVector() r2.Point {
	return geom.Unit(e.Vector())
}

// Normal returns the counter clockwise unit normal of the edge.
func (e *Edge) Normal() r2.Point {
	return geom.Normal(e.Vector())
}

// AbsoluteAngle returns the absolute direction of the edge in degrees.
func (e *Edge) AbsoluteAngle() float64 {
	return geom.AbsoluteAngle(e.Vector())
}

// NextAngle returns the interior angle, in degrees, between the edge and
// the next one.
func (e *Edge) NextAngle() float64 {
	return geom.CCWAngle(e.next.Vector(), e.OppositeVector())
}

// PreviousAngle returns the interior angle, in degrees, between the
// previous edge and this one.
func (e *Edge) PreviousAngle() float64 {
	return geom.CCWAngle(e.Vector(), e.Previous().OppositeVector())
}

// NextIsOutward returns true if the loop turns outward at the end vertex.
func (e *Edge) NextIsOutward() bool {
	return e.NextAngle() > 180
}

// NextIsAligned returns true if the next edge continues in approximately
// the same direction.
func (e *Edge) NextIsAligned() bool {
	return geom.PseudoEqual(e.NextAngle(), 180, e.mesh.tol.AngleEpsilon)
}

// PreviousIsAligned returns true if the previous edge arrives in
// approximately the same direction.
func (e *Edge) PreviousIsAligned() bool {
	return geom.PseudoEqual(e.PreviousAngle(), 180, e.mesh.tol.AngleEpsilon)
}

// NextIsOrtho returns true if the next edge turns orthogonally.
func (e *Edge) NextIsOrtho() bool {
	return geom.PseudoEqual(e.NextAngle(), 90, e.mesh.tol.AngleEpsilon)
}

// PreviousIsOrtho returns true if the previous edge turns orthogonally.
func (e *Edge) PreviousIsOrtho() bool {
	return geom.PseudoEqual(e.PreviousAngle(), 90, e.mesh.tol.AngleEpsilon)
}

// NextOrtho returns the next edge of the loop after the accumulated turn
// reaches 90 degrees.
func (e *Edge) NextOrtho() *Edge {
	angle := 0.0
	for _, edge := range e.Siblings() {
		angle += geom.CCWAngle(edge.Vector(), edge.next.Vector())
		if angle >= 90.0-e.mesh.tol.AngleEpsilon {
			return edge.next
		}
	}
	panic("planmesh: no orthogonal edge found forward")
}

// PreviousOrtho returns the previous edge of the loop after the accumulated
// turn reaches 90 degrees backward.
func (e *Edge) PreviousOrtho() *Edge {
	angle := 0.0
	for _, edge := range e.ReverseSiblings() {
		angle += geom.CCWAngle(edge.Previous().Vector(), edge.Vector())
		if angle >= 90.0-e.mesh.tol.AngleEpsilon {
			return edge.Previous()
		}
	}
	panic("planmesh: no orthogonal edge found backward")
}

// Cardinality counts the other edges attached to the extremities of
// the edge.
func (e *Edge) Cardinality() int {
	return len(e.start.Edges()) - 1 + len(e.End().Edges()) - 1
}

// Contains returns true if the vertex lies on the edge, within the
// snapping radius.
func (e *Edge) Contains(vertex *Vertex) bool {
	closest, ok := geom.ProjectPointOnSegment(vertex.Point(), e.Normal(),
		e.start.Point(), e.End().Point(), e.mesh.tol.CoordEpsilon, true)
	return ok && geom.Distance(vertex.Point(), closest) <= e.mesh.tol.CoordEpsilon
}

// Barycenter returns a new mesh vertex on the edge at the barycentric
// position: 0 is the start, 1 the end.
func (e *Edge) Barycenter(coeff float64) *Vertex {
	point := geom.Barycenter(e.start.Point(), e.End().Point(), coeff)
	return e.mesh.newVertex(point.X, point.Y, true)
}

// Depth returns the distance from the middle of the edge to the opposite
// side of its face, along the edge normal.
func (e *Edge) Depth() float64 {
	if e.face == nil {
		return 0.0
	}
	middle := geom.Barycenter(e.start.Point(), e.End().Point(), 0.5)
	vector := e.Normal()
	minDepth := math.Inf(1)
	for _, edge := range e.Siblings() {
		if edge == e {
			continue
		}
		point, ok := geom.ProjectPointOnSegment(middle, vector,
			edge.start.Point(), edge.End().Point(), 0, false)
		if !ok {
			continue
		}
		if d := geom.Distance(point, middle); d < minDepth {
			minDepth = d
		}
	}
	return minDepth
}

// MaxDistance returns the largest distance between the edge and another
// edge of the same face, measured along the edge normal. Infinity is
// returned when no extremity projects onto the other edge, or when parallel
// is set and the edges are not roughly parallel.
func (e *Edge) MaxDistance(other *Edge, parallel bool) (float64, error) {
	if e.face == nil || e.face != other.face {
		return 0, fmt.Errorf("planmesh: cannot compute the distance of two edges"+
			" not on the same face: %s - %s", e, other)
	}
	if parallel && !geom.PseudoEqual(geom.CCWAngle(other.Vector(), e.Vector()), 180.0, 15.0) {
		return Infinity, nil
	}

	normal := e.Normal()
	opposite := geom.Opposite(normal)
	max := -1.0
	project := func(point, direction, a, b r2.Point) {
		p, ok := geom.ProjectPointOnSegment(point, direction, a, b, 0, false)
		if !ok {
			return
		}
		if d := geom.Distance(point, p); d > max {
			max = d
		}
	}
	project(e.start.Point(), normal, other.start.Point(), other.End().Point())
	project(e.End().Point(), normal, other.start.Point(), other.End().Point())
	project(other.start.Point(), opposite, e.start.Point(), e.End().Point())
	project(other.End().Point(), opposite, e.start.Point(), e.End().Point())

	if max < 0 {
		return Infinity, nil
	}
	return max, nil
}

// AlignedEdge returns the edge continuing this one in the same direction
// past the end vertex, nil when the line stops there.
func (e *Edge) AlignedEdge() *Edge {
	if e.NextIsAligned() {
		return e.next
	}
	for _, edge := range e.End().Edges() {
		if edge.pair == e {
			continue
		}
		if geom.PseudoEqual(geom.CCWAngle(e.Vector(), edge.OppositeVector()),
			180, e.mesh.tol.AngleEpsilon) {
			return edge
		}
	}
	return nil
}

// ContinuousEdge returns the edge in the continuity of this one when the
// line crosses another line at the end vertex: the end vertex must have
// exactly four outgoing edges, two of them aligned with each other.
func (e *Edge) ContinuousEdge() *Edge {
	edges := []*Edge{e.pair}
	for current := e.next; current != e.pair; current = current.pair.next {
		edges = append(edges, current)
		if len(edges) > e.mesh.loopGuard() {
			panic(fmt.Sprintf("planmesh: infinite fan at the end of %s", e))
		}
	}
	if len(edges) != 4 {
		return nil
	}
	if !geom.PseudoEqual(geom.CCWAngle(edges[1].Vector(), edges[3].Vector()),
		180.0, e.mesh.tol.AngleEpsilon) {
		return nil
	}
	return edges[2]
}

// Line returns every edge forming a straight line with this one, crossing
// junctions when the line continues on the other side.
func (e *Edge) Line() []*Edge {
	var output []*Edge

	guard := 0
	for current := e; current != nil; {
		output = append(output, current)
		next := current.AlignedEdge()
		if next == nil {
			next = current.ContinuousEdge()
		}
		current = next
		if guard++; guard > e.mesh.loopGuard() {
			panic(fmt.Sprintf("planmesh: line loops forever from %s", e))
		}
	}

	current := e.pair.AlignedEdge()
	if current == nil {
		current = e.pair.ContinuousEdge()
	}
	for current != nil {
		output = append([]*Edge{current.pair}, output...)
		next := current.AlignedEdge()
		if next == nil {
			next = current.ContinuousEdge()
		}
		current = next
		if guard++; guard > e.mesh.loopGuard() {
			panic(fmt.Sprintf("planmesh: line loops forever from %s", e))
		}
	}

	return output
}

// AlignedSiblings returns the contiguous edges aligned with this one:
// the edge itself, then forward, then backward.
func (e *Edge) AlignedSiblings() []*Edge {
	edges := []*Edge{e}
	for _, edge := range e.next.Siblings() {
		if !edge.PreviousIsAligned() {
			break
		}
		edges = append(edges, edge)
	}
	for _, edge := range e.Previous().ReverseSiblings() {
		if !edge.NextIsAligned() {
			break
		}
		edges = append(edges, edge)
	}
	return edges
}

// IsLinkedToFace returns true if the face anchor edge is reachable from
// this edge's loop.
func (e *Edge) IsLinkedToFace(face *Face) bool {
	if face.edge == e {
		return true
	}
	for _, sibling := range e.Siblings() {
		if sibling == face.edge {
			return true
		}
	}
	return false
}

// preserveReferences re-points every back-reference held on the edge (face
// anchor, mesh boundary anchor, start vertex anchor) onto a sibling, so the
// edge can be removed without leaving dangling references. Must be called
// while the topology around the edge is still intact.
func (e *Edge) preserveReferences(other *Edge) {
	if e.face != nil && e.face.edge == e {
		if other != nil {
			e.face.edge = other
		} else {
			e.face.edge = e.next
		}
	}

	if e.mesh.boundary == e {
		if other != nil {
			e.mesh.boundary = other
		} else {
			e.mesh.boundary = e.next
		}
	}

	if e.start.edge == e {
		if other != nil {
			e.start.edge = other
		} else {
			e.start.edge = e.CCW()
		}
	}
}

func (e *Edge) checkSize() {
	if e.start == nil || e.End() == nil {
		return
	}
	if e.start == e.End() {
		panic(fmt.Sprintf("planmesh: cannot create an edge starting and ending"+
			" with the same vertex: %s", e.start))
	}
	if e.Length() < e.mesh.tol.CoordEpsilon/4 {
		e.mesh.log.Debug("planmesh: created a very small edge",
			zap.Stringer("start", e.start), zap.Stringer("end", e.End()))
	}
}

// Split inserts the vertex into the edge, creating a new edge pair from
// the vertex to the old end:
//
//	---------> - - - ->
//	old edge  • new edge
//	<- - - - - <-------
//	new pair   old pair
//
// If the vertex is within the snapping radius of an extremity it is snapped
// there and no topology changes: splitting at the start returns the edge
// itself, at the end the next edge.
func (e *Edge) Split(vertex *Vertex) *Edge {
	vertex = vertex.SnapTo(e.start, e.End())
	if vertex == e.start {
		return e
	}
	if vertex == e.End() {
		return e.next
	}

	nextEdge := e.next
	edgePair := e.pair
	nextEdgePair := e.pair.next

	newEdge := e.mesh.newEdge(vertex, nextEdge, e.face)
	setPair(newEdge, edgePair)
	newEdgePair := e.mesh.newEdge(vertex, nextEdgePair, edgePair.face)
	setPair(newEdgePair, e)

	if vertex.edge == nil {
		vertex.edge = newEdge
	}

	e.next = newEdge
	edgePair.next = newEdgePair

	e.mesh.storeModification(OpInsert, newEdge.ref(), e.ref())
	e.mesh.storeModification(OpInsert, newEdgePair.ref(), edgePair.ref())

	newEdge.checkSize()
	newEdgePair.checkSize()

	return newEdge
}

// SplitBarycenter splits the edge at the barycentric position and returns
// the edge starting at the created vertex.
func (e *Edge) SplitBarycenter(coeff float64) *Edge {
	return e.Split(e.Barycenter(coeff))
}

// Link connects the end vertices of this edge and the other edge with a new
// edge pair, splitting their shared face into two faces. Returns the new
// face, or nil when the edges are already linked or share their end vertex
// (a recoverable no-op). Linking edges of two different faces is a caller
// precondition violation and returns an error.
func (e *Edge) Link(other *Edge) (*Face, error) {
	if e.face != other.face {
		return nil, fmt.Errorf("planmesh: cannot link two edges that do not"+
			" share the same face: %s - %s", e, other)
	}
	if other.next == e || e.next == other {
		e.mesh.log.Info("planmesh: cannot link two edges that are already linked",
			zap.Stringer("edge", e), zap.Stringer("other", other))
		return nil, nil
	}
	if e.End() == other.End() {
		e.mesh.log.Warn("planmesh: cannot link one vertex to itself",
			zap.Stringer("edge", e), zap.Stringer("other", other))
		return nil, nil
	}

	newEdge := e.mesh.newEdge(e.End(), other.next, e.face)
	e.face.edge = e // keep the anchor on the surviving side of the split
	newEdgePair := e.mesh.newEdge(other.End(), e.next, nil)
	setPair(newEdge, newEdgePair)

	e.next = newEdge
	other.next = newEdgePair

	newFace := e.mesh.newFace(newEdgePair)
	newFace.Space = e.face.Space
	for _, edge := range newEdgePair.Siblings() {
		edge.face = newFace
	}

	e.mesh.storeModification(OpInsert, newFace.ref(), e.face.ref())

	return newFace, nil
}

// Collapse merges the two extremities of the edge into one vertex and
// removes the edge pair. Used to eliminate near zero length edges produced
// by floating point noise.
func (e *Edge) Collapse() {
	e.start = e.start.SnapTo(e.End())

	e.preserveReferences(nil)
	e.pair.preserveReferences(nil)

	e.Previous().next = e.next
	e.pair.Previous().next = e.pair.next

	e.mesh.removeEdge(e)
	e.mesh.removeEdge(e.pair)
}

// Remove deletes the edge and its pair, merging the two adjacent faces, and
// returns the remaining face. Internal edges bridging a hole can only be
// removed when they dangle on a lone vertex; removing a bridge that still
// connects a hole is a caller error. When cleanVertices is set, extremity
// vertices left with two aligned edges are cleaned away.
func (e *Edge) Remove(cleanVertices bool) (*Face, error) {
	otherFace := e.pair.face
	removedFace := e.face
	remainingFace := otherFace
	if e.face == nil {
		removedFace = otherFace
		remainingFace = nil
	}

	if e.face == nil || e.pair.face == nil {
		e.mesh.log.Warn("planmesh: removing an edge on the boundary of the mesh",
			zap.Stringer("edge", e))
	}

	if e.IsInternal() {
		// a bridge edge still connecting a hole to the face boundary must
		// stay: only a dangling edge ending on a lone vertex may go
		if e.next != e.pair && e.pair.next != e {
			return nil, fmt.Errorf("planmesh: cannot remove an edge that would"+
				" disconnect a hole in a face: %s", e)
		}

		e.mesh.log.Debug("planmesh: removing an isolated edge", zap.Stringer("edge", e))
		isolated := e
		if e.next != e.pair {
			isolated = e.pair
		}
		isolated.preserveReferences(isolated.pair.next)
		isolated.pair.preserveReferences(isolated.pair.next)
		isolated.Previous().next = isolated.pair.next
		e.mesh.removeVertex(isolated.End())
		isolated.start.Clean()
	} else {
		e.preserveReferences(nil)
		e.pair.preserveReferences(nil)

		for _, edge := range removedFace.Edges() {
			edge.face = remainingFace
		}
		e.mesh.removeFace(removedFace)

		e.pair.Previous().next = e.next
		e.Previous().next = e.pair.next

		if cleanVertices {
			e.start.Clean()
			e.End().Clean()
		}
	}

	e.mesh.removeEdge(e)
	e.mesh.removeEdge(e.pair)

	// the merge may leave a dangling isolated edge inside the face
	if remainingFace != nil {
		for _, edge := range remainingFace.Edges() {
			if edge.next == edge.pair {
				if _, err := edge.Remove(true); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	return remainingFace, nil
}
