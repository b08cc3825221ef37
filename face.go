// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"github.com/2dChan/planmesh/geom"
)

var (
	// ErrOutsideFace is returned when a face to insert lies outside the
	// receiving face.
	ErrOutsideFace = errors.New("planmesh: face is outside the receiving face")
	// ErrCrossingFace is returned when a face to insert crosses the
	// boundary of the receiving face.
	ErrCrossingFace = errors.New("planmesh: face crosses the receiving face")
	// ErrOutsideVertex is returned when a vertex expected on a face
	// boundary lies elsewhere.
	ErrOutsideVertex = errors.New("planmesh: vertex is not on the face boundary")
)

// Face is a bounded region of the plane, enclosed counter clockwise by a
// loop of edges. The outer unbounded region is not a Face: edges bounding
// it carry a nil face.
type Face struct {
	mesh *Mesh
	id   ID
	edge *Edge

	// Space is an opaque payload slot for callers attaching domain data
	// to the face. The mesh never reads it, but preserves it across
	// splits and identity swaps.
	Space any

	cachedArea    float64
	cachedAreaSet bool
}

func (f *Face) String() string {
	output := "face: ["
	for _, edge := range f.Edges() {
		output += fmt.Sprintf("(%v, %v)", edge.start.x, edge.start.y)
	}
	return fmt.Sprintf("%s] - %d", output, f.id)
}

// ID returns the face id.
func (f *Face) ID() ID { return f.id }

// Mesh returns the owning mesh, nil if the face is detached.
func (f *Face) Mesh() *Mesh { return f.mesh }

// Edge returns the anchor edge of the face loop.
func (f *Face) Edge() *Edge { return f.edge }

func (f *Face) ref() ComponentRef { return ComponentRef{Kind: KindFace, ID: f.id} }

// Edges returns the edges of the face loop, counter clockwise, starting
// from the anchor edge.
func (f *Face) Edges() []*Edge { return f.edge.Siblings() }

// Vertices returns the start vertices of the face edges.
func (f *Face) Vertices() []*Vertex {
	edges := f.Edges()
	vertices := make([]*Vertex, 0, len(edges))
	for _, edge := range edges {
		vertices = append(vertices, edge.start)
	}
	return vertices
}

// Points returns the coordinates of the face vertices.
func (f *Face) Points() []r2.Point {
	edges := f.Edges()
	points := make([]r2.Point, 0, len(edges))
	for _, edge := range edges {
		points = append(points, edge.start.Point())
	}
	return points
}

// Polygon returns the face boundary as a polygon.
func (f *Face) Polygon() geom.Polygon {
	return geom.Polygon(f.Points())
}

// Area returns the area of the face.
func (f *Face) Area() float64 {
	return f.Polygon().Area()
}

// CachedArea returns the memoized area of the face, computing it on first
// access. The cache is only refreshed by SetCachedArea or by the mesh wide
// ComputeCachedAreas.
func (f *Face) CachedArea() float64 {
	if !f.cachedAreaSet {
		f.SetCachedArea(f.Area())
	}
	return f.cachedArea
}

// SetCachedArea stores the memoized area of the face.
func (f *Face) SetCachedArea(value float64) {
	f.cachedArea = value
	f.cachedAreaSet = true
}

// Perimeter returns the perimeter length of the face.
func (f *Face) Perimeter() float64 {
	total := 0.0
	for _, edge := range f.Edges() {
		total += edge.Length()
	}
	return total
}

// MaxDistanceTo returns the largest vertex to vertex distance to the
// other face.
func (f *Face) MaxDistanceTo(other *Face) float64 {
	max := 0.0
	for _, v1 := range f.Vertices() {
		for _, v2 := range other.Vertices() {
			if d := v1.DistanceTo(v2); d > max {
				max = d
			}
		}
	}
	return max
}

// MinDistanceTo returns the smallest vertex to vertex distance to the
// other face.
func (f *Face) MinDistanceTo(other *Face) float64 {
	min := math.Inf(1)
	for _, v1 := range f.Vertices() {
		for _, v2 := range other.Vertices() {
			if d := v1.DistanceTo(v2); d < min {
				min = d
			}
		}
	}
	return min
}

// InternalEdges returns the edges of the face whose pair belongs to the
// same face, bridging holes to the outer boundary.
func (f *Face) InternalEdges() []*Edge {
	var internal []*Edge
	for _, edge := range f.Edges() {
		if edge.pair.face == f {
			internal = append(internal, edge)
		}
	}
	return internal
}

// HasInternalEdge returns true if the face has at least one internal edge.
func (f *Face) HasInternalEdge() bool {
	for _, edge := range f.Edges() {
		if edge.pair.face == f {
			return true
		}
	}
	return false
}

// Siblings returns the face and every adjacent face. When
// minAdjacencyLength is positive, only neighbors sharing an edge at least
// that long are included.
func (f *Face) Siblings(minAdjacencyLength float64) []*Face {
	seen := map[*Face]bool{f: true}
	faces := []*Face{f}
	for _, edge := range f.Edges() {
		neighbor := edge.pair.face
		if neighbor == nil || seen[neighbor] {
			continue
		}
		if minAdjacencyLength > 0 && edge.Length() < minAdjacencyLength {
			continue
		}
		seen[neighbor] = true
		faces = append(faces, neighbor)
	}
	return faces
}

// IsAdjacent returns true if the face shares at least one edge with
// the other face.
func (f *Face) IsAdjacent(other *Face) bool {
	for _, edge := range f.Edges() {
		if edge.pair.face == other {
			return true
		}
	}
	return false
}

// BoundingBox returns the width and depth of the rectangular box bounding
// the face along the direction vector. A zero vector uses the direction of
// the anchor edge.
func (f *Face) BoundingBox(vector r2.Point) (width, depth float64) {
	if vector == (r2.Point{}) {
		vector = f.edge.UnitVector()
	} else {
		vector = geom.Unit(vector)
	}
	normal := geom.Normal(vector)

	var totalX, maxX, minX, totalY, maxY, minY float64
	for _, edge := range f.Edges() {
		totalX += geom.Dot(edge.Vector(), vector)
		maxX = math.Max(totalX, maxX)
		minX = math.Min(totalX, minX)
		totalY += geom.Dot(edge.Vector(), normal)
		maxY = math.Max(totalY, maxY)
		minY = math.Min(totalY, minY)
	}

	return maxX - minX, maxY - minY
}

// GetEdge returns the edge of the face starting at the vertex, nil when
// the vertex is not a corner of the face.
func (f *Face) GetEdge(vertex *Vertex) *Edge {
	for _, edge := range f.Edges() {
		if edge.start == vertex {
			return edge
		}
	}
	return nil
}

// Contains returns true if the face contains the other face. The receiving
// face is dilated by the coordinate epsilon to absorb floating point noise.
func (f *Face) Contains(other *Face) bool {
	return f.Polygon().ContainsPolygon(other.Polygon(), f.mesh.tol.CoordEpsilon)
}

// Crosses returns true if the faces overlap without one containing
// the other.
func (f *Face) Crosses(other *Face) bool {
	return f.Polygon().CrossesPolygon(other.Polygon(), f.mesh.tol.CoordEpsilon)
}

// isInsertable returns nil if the other face fits inside the face,
// ErrOutsideFace when it lies outside, and ErrCrossingFace when the two
// boundaries overlap.
func (f *Face) isInsertable(other *Face) error {
	if other.mesh != f.mesh {
		return errors.New("planmesh: cannot insert a face from a different mesh")
	}
	if !f.Contains(other) {
		if f.Crosses(other) {
			return fmt.Errorf("%w: %s", ErrCrossingFace, other)
		}
		f.mesh.log.Info("planmesh: face to insert is outside the receiving face",
			zap.Stringer("face", other), zap.Stringer("receiving", f))
		return ErrOutsideFace
	}
	return nil
}

// addExterior assigns the other face to every pair of the face edges.
// Used before inserting the face inside the other.
func (f *Face) addExterior(other *Face) {
	for _, edge := range f.Edges() {
		edge.pair.face = other
	}
}

// Swap moves the identity of the face loop onto the given face: the edges
// and vertex anchors of the receiving face are re-attributed and the
// receiving face is removed from the mesh. A nil face swaps onto a fresh
// one. Returns the face now owning the loop.
func (f *Face) Swap(face *Face) *Face {
	var newFace *Face
	if face == nil {
		newFace = f.mesh.newFace(f.edge)
		newFace.Space = f.Space
	} else {
		newFace = face
		newFace.edge = f.edge
		f.mesh.addFace(newFace)
	}

	for _, edge := range f.Edges() {
		edge.face = newFace
	}

	// keep vertex anchors on edges of the surviving face
	for _, vertex := range newFace.Vertices() {
		for _, edge := range f.Edges() {
			if edge.start == vertex {
				vertex.edge = edge
			}
		}
	}

	f.mesh.removeFace(f)
	return newFace
}

// Slice cuts the face along the line passing through the vertex in the
// vector direction, and returns the resulting faces including the initial
// one. The vertex only carries the reference point, it is not modified.
func (f *Face) Slice(vertex *Vertex, vector r2.Point) ([]*Face, error) {
	translation := geom.Unit(vector)
	tol := f.mesh.tol

	// start from a point far outside the face so every crossing of the
	// line with the boundary is found on the same side
	referencePoint := geom.MovePoint(vertex.Point(), translation, -tol.LineLength)

	seen := map[*Edge]bool{}
	var intersectedEdges []*Edge
	for _, edge := range f.Edges() {
		if geom.Dot(edge.Normal(), vector) <= 0 {
			continue
		}
		point, ok := geom.ProjectPointOnSegment(referencePoint, vector,
			edge.start.Point(), edge.End().Point(), tol.CoordEpsilon, true)
		if !ok {
			continue
		}
		intersected := f.mesh.newVertex(point.X, point.Y, true).SnapToEdge(edge)
		if intersected == nil || seen[intersected] {
			continue
		}
		seen[intersected] = true
		intersectedEdges = append(intersectedEdges, intersected)
	}

	if len(intersectedEdges) == 0 {
		return []*Face{f}, nil
	}

	sort.Slice(intersectedEdges, func(i, j int) bool {
		return geom.Distance(referencePoint, intersectedEdges[i].start.Point()) <
			geom.Distance(referencePoint, intersectedEdges[j].start.Point())
	})

	modifiedFaces := []*Face{f}
	for _, intersectedEdge := range intersectedEdges {
		result := intersectedEdge.cut(intersectedEdge.start, 90.0,
			cutConfig{vector: &vector})
		if result == nil || result.Face == nil {
			continue
		}
		duplicate := false
		for _, face := range modifiedFaces {
			if face == result.Face {
				duplicate = true
				break
			}
		}
		if !duplicate {
			modifiedFaces = append(modifiedFaces, result.Face)
		}
	}

	return modifiedFaces, nil
}

// Merge merges the face with an adjacent one by removing a shared edge and
// returns the remaining face. Merging two faces that share no edge is a
// caller error.
func (f *Face) Merge(other *Face) (*Face, error) {
	for _, edge := range f.Edges() {
		if edge.pair.face == other {
			return edge.Remove(true)
		}
	}
	return nil, fmt.Errorf("planmesh: cannot merge two faces that do not share"+
		" at least one edge: %s - %s", f, other)
}

// Clean removes the face when it has collapsed to only two edges, merging
// the two edge pairs:
//
//	--------- >
//	  edge 1
//	•  face   •
//	  edge 2
//	< ---------
//
// Returns nil when the face was removed, the face itself otherwise.
func (f *Face) Clean() *Face {
	if f.edge.next.next != f.edge {
		return f
	}

	f.mesh.log.Debug("planmesh: cleaning a two edged face", zap.Stringer("face", f))

	mesh := f.mesh
	edge1 := f.edge
	edge2 := f.edge.next

	edge1.preserveReferences(edge2.pair)
	edge2.preserveReferences(edge1.pair)
	setPair(edge1.pair, edge2.pair)

	mesh.removeEdge(edge1)
	mesh.removeEdge(edge2)
	mesh.removeFace(f)

	mesh.Watch()

	return nil
}

// Simplify collapses the edges of the face shorter than the coordinate
// epsilon, choosing the collapse direction that preserves the alignment
// of the surrounding edges, and returns the modified edges. A face left
// with two edges is cleaned away.
func (f *Face) Simplify() []*Edge {
	var modifiedEdges []*Edge
	if f.Clean() == nil {
		return modifiedEdges
	}
	tol := f.mesh.tol

	for _, edge := range f.Edges() {
		if edge.Length() > tol.CoordEpsilon {
			continue
		}
		smallEdge := edge

		if !edge.start.mutable && !edge.End().mutable {
			return modifiedEdges
		}

		if edge.start.mutable {
			angle := geom.CCWAngle(edge.pair.Previous().OppositeVector(), edge.next.Vector())
			endAligned := geom.PseudoEqual(angle, 180.0, tol.AngleEpsilon)

			angle = geom.CCWAngle(edge.Previous().OppositeVector(), edge.pair.next.Vector())
			startAligned := geom.PseudoEqual(angle, 180.0, tol.AngleEpsilon)

			if !endAligned && startAligned {
				smallEdge = edge.pair
			}
		}

		f.mesh.log.Debug("planmesh: collapsing edge while simplifying face",
			zap.Stringer("edge", smallEdge))
		smallEdge.Collapse()
		modifiedEdges = append(modifiedEdges, smallEdge, smallEdge.pair)
		modifiedEdges = append(modifiedEdges, f.Simplify()...)
		break
	}
	return modifiedEdges
}

// RecursiveSimplify simplifies the face and every face modified in
// the process.
func (f *Face) RecursiveSimplify() []*Edge {
	modifiedEdges := f.Simplify()
	totalModifiedEdges := modifiedEdges

	for _, edge := range modifiedEdges {
		if edge.pair.face != nil {
			totalModifiedEdges = append(totalModifiedEdges,
				edge.pair.face.RecursiveSimplify()...)
		}
	}

	return totalModifiedEdges
}

// NumberOfCorners returns the number of corners of the face, counting a
// vertex as a corner when its edges deviate from a straight line by more
// than 20 degrees.
func (f *Face) NumberOfCorners() int {
	const cornerMinAngle = 20.0
	numCorners := 0
	for _, edge := range f.Edges() {
		angle := geom.CCWAngle(edge.OppositeVector(), edge.next.Vector())
		if !geom.PseudoEqual(angle, 180.0, cornerMinAngle) {
			numCorners++
		}
	}
	return numCorners
}

// InsertEdge inserts an edge on the boundary of the face by snapping both
// vertices to the boundary, splitting it as needed. Returns the edge
// starting at the first vertex. Vertices away from the boundary yield
// ErrOutsideVertex.
func (f *Face) InsertEdge(vertex1, vertex2 *Vertex) (*Edge, error) {
	var edges []*Edge
	for _, vertex := range []*Vertex{vertex1, vertex2} {
		edge := vertex.SnapToEdge(f.Edges()...)
		if edge == nil {
			if vertex1.edge == nil && vertex1.mesh != nil {
				f.mesh.removeVertex(vertex1)
			}
			if vertex2.edge == nil && vertex2.mesh != nil {
				f.mesh.removeVertex(vertex2)
			}
			return nil, ErrOutsideVertex
		}
		f.mesh.Watch()
		edges = append(edges, edge)
	}
	return edges[0], nil
}
