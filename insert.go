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

// swapID exchanges the ids of two edges, keeping the registry consistent.
// Used by the stitching algorithm to preserve external references to edges
// about to be merged away.
func (e *Edge) swapID(other *Edge) {
	e.id, other.id = other.id, e.id
	e.mesh.updateEdge(other)
	e.mesh.updateEdge(e)
}

func sortFacesByAreaDesc(faces []*Face) []*Face {
	sort.Slice(faces, func(i, j int) bool {
		return faces[i].Area() > faces[j].Area()
	})
	return faces
}

// insertEnclosedFace inserts a face fully enclosed inside the receiving
// face by bridging it to the boundary with a new internal edge pair. The
// bridge is searched along the main directions of the mesh, keeping the
// shortest projection that lands orthogonally or parallel on the boundary.
func (f *Face) insertEnclosedFace(face *Face) ([]*Face, error) {
	tol := f.mesh.tol

	vectors := make([]r2.Point, 0)
	for _, direction := range f.mesh.Directions() {
		vectors = append(vectors, geom.UnitVector(direction.Angle))
	}

	var (
		minDistance    = -1.0
		bestVertex     *Vertex
		bestNearVertex *Vertex
		bestSharedEdge *Edge
	)
	for _, edge := range face.Edges() {
		for _, vector := range vectors {
			for _, vertex := range []*Vertex{edge.pair.start, edge.pair.End()} {
				angle := geom.CCWAngle(edge.pair.Normal(), vector)
				var projection r2.Point
				switch {
				case angle <= 90.0-tol.MinAngle || angle >= 270.0+tol.MinAngle:
					projection = vector
				case 90+tol.MinAngle <= angle && angle <= 270.0-tol.MinAngle:
					projection = geom.Opposite(vector)
				default:
					continue
				}
				nearVertex, sharedEdge, distanceToVertex := vertex.ProjectPoint(f, projection)
				if nearVertex == nil {
					continue
				}
				projectedAngle := math.Mod(
					geom.CCWAngle(sharedEdge.Vector(), vertex.Vector(nearVertex)), 90)
				if !geom.PseudoEqual(projectedAngle, 0.0, tol.AngleEpsilon) &&
					!geom.PseudoEqual(projectedAngle, 90.0, tol.AngleEpsilon) {
					f.mesh.removeVertex(nearVertex)
					continue
				}
				if minDistance < 0 || distanceToVertex < minDistance {
					bestVertex = vertex
					if bestNearVertex != nil {
						f.mesh.removeVertex(bestNearVertex)
					}
					bestNearVertex = nearVertex
					bestSharedEdge = sharedEdge
					minDistance = distanceToVertex
				} else {
					f.mesh.removeVertex(nearVertex)
				}
			}
		}
	}

	if minDistance < 0 {
		return nil, fmt.Errorf("planmesh: cannot find an intersection point to"+
			" insert the face: %s", face)
	}

	// bridge the enclosed face to the boundary with a new edge pair
	edgeShared := bestNearVertex.SnapToEdge(bestSharedEdge)
	bestNearVertex = edgeShared.start
	sharedPrevious := edgeShared.Previous()
	newEdge := f.mesh.newEdge(bestNearVertex, bestVertex.edge.Previous().pair, f)
	newEdgePair := f.mesh.newEdge(bestVertex, edgeShared, f)
	setPair(newEdge, newEdgePair)
	bestNearVertex.edge = newEdge
	sharedPrevious.next = newEdge
	bestVertex.edge.pair.next = newEdgePair

	return []*Face{f}, nil
}

// insertTouchingFace inserts a face that shares one or several vertices
// with the receiving face, by stitching the two boundaries together at
// every shared vertex. The stitching can create several new faces, and
// can even consume the receiving face entirely. Returns the resulting
// faces, biggest first.
func (f *Face) insertTouchingFace(sharedEdges [][2]*Edge) []*Face {
	var touchingEdge, edge *Edge
	allFaces := []*Face{f}

	for _, shared := range sharedEdges {
		// touchingEdge is on the receiving face, edge on the inserted one
		touchingEdge, edge = shared[0], shared[1]
		previousEdge := edge.Previous()
		previousTouchingEdge := touchingEdge.Previous()

		previousTouchingEdge.next = previousEdge.pair
		edge.pair.next = touchingEdge

		f.edge = touchingEdge

		// backward check: a two edged face left behind is collapsed, the
		// surviving edge takes over the id of the removed touching edge
		// to preserve external references
		if previousEdge.pair.next.next == previousEdge.pair {
			removed := previousEdge.pair
			removed.preserveReferences(removed.next.pair)
			removed.next.preserveReferences(previousEdge)
			previousTouchingEdge.preserveReferences(previousEdge)
			f.mesh.removeEdge(removed)
			setPair(previousEdge, removed.next.pair)
			previousEdge.swapID(previousTouchingEdge)
			f.mesh.removeEdge(previousTouchingEdge)
		} else if !previousEdge.pair.IsLinkedToFace(f) {
			newFace := f.mesh.newFace(previousEdge.pair)
			newFace.Space = f.Space
			allFaces = append(allFaces, newFace)
			for _, orphan := range previousEdge.pair.Siblings() {
				orphan.face = newFace
			}
		}
	}

	// forward check: the last stitch can isolate a two edged face and
	// consume the receiving face
	if edge.pair.next.next == edge.pair {
		touchingEdge.preserveReferences(edge)
		f.mesh.removeEdge(edge.pair)
		setPair(edge, touchingEdge.pair)
		edge.swapID(touchingEdge)
		f.mesh.removeEdge(touchingEdge)
		f.mesh.removeFace(f)
		allFaces = allFaces[1:]
	}

	return sortFacesByAreaDesc(allFaces)
}

// insertIdenticalFace replaces the receiving face with a face of identical
// geometry: the loop keeps its edges and vertices, only the face identity
// changes.
func (f *Face) insertIdenticalFace(face *Face) ([]*Face, error) {
	f.mesh.log.Debug("planmesh: the inserted face is equal to the container face",
		zap.Stringer("face", face))
	if err := f.mesh.removeFaceAndChildren(face); err != nil {
		return nil, err
	}
	// the vertices of the loop survive, register them back
	for _, vertex := range face.Vertices() {
		f.mesh.addVertex(vertex)
	}
	f.Swap(face)
	return []*Face{}, nil
}

// insertFace inserts a face inside the receiving face, assuming no
// internal edge of the receiving face crosses it. Dispatches between the
// enclosed, identical and touching cases.
func (f *Face) insertFace(face *Face) ([]*Face, error) {
	if err := f.isInsertable(face); err != nil {
		return nil, err
	}

	face.addExterior(f)

	selfEdges := f.Edges()

	// split the edges of the inserted face on every vertex of the
	// receiving face they touch. Per convention the alignments of the
	// receiving face are never modified: only the inserted face snaps.
	guard := 0
	for edge, first := face.edge, true; first || edge != face.edge; edge, first = edge.next, false {
		selfVertices := f.Vertices()
		edge.start.SnapTo(selfVertices...)
		edge.End().SnapTo(selfVertices...)
		for _, vertex := range selfVertices {
			closest, ok := geom.ProjectPointOnSegment(vertex.Point(), edge.Normal(),
				edge.start.Point(), edge.End().Point(), 0, true)
			if !ok {
				continue
			}
			if geom.Distance(vertex.Point(), closest) <= f.mesh.tol.CoordEpsilon {
				edge.Split(vertex)
			}
		}
		if guard++; guard > f.mesh.loopGuard() {
			panic(fmt.Sprintf("planmesh: infinite loop splitting inserted face %s", face))
		}
	}

	// snap the vertices of the inserted face to the edges of the
	// receiving face, keeping the landing edges for the stitching
	var sharedEdges [][2]*Edge
	for _, edge := range face.Edges() {
		vertex := edge.start
		vertex.edge = edge // orient the snapping
		edgeShared := vertex.SnapToEdge(selfEdges...)
		if edgeShared != nil {
			sharedEdges = append(sharedEdges, [2]*Edge{edgeShared, edge})
			// a snap may have split the receiving boundary
			selfEdges = f.Edges()
		}
	}

	switch len(sharedEdges) {
	case 0:
		return f.insertEnclosedFace(face)
	case len(selfEdges):
		return f.insertIdenticalFace(face)
	}
	return f.insertTouchingFace(sharedEdges), nil
}

// insertFaceOverInternalEdge inserts a face overlapping one or several
// internal edges of the receiving face: the face is sliced along each
// internal edge, every slice is inserted separately, then the slices are
// merged back and the face identity restored.
func (f *Face) insertFaceOverInternalEdge(face *Face, internalEdges []*Edge) ([]*Face, error) {
	f.mesh.log.Debug("planmesh: inserting a face over an internal edge",
		zap.Stringer("face", face))

	faceCopy := face.Swap(nil)
	slicedFaces := []*Face{faceCopy}
	for _, internalEdge := range internalEdges {
		next := make([]*Face, 0, len(slicedFaces))
		for _, slicedFace := range slicedFaces {
			faces, err := slicedFace.Slice(internalEdge.start, internalEdge.Vector())
			if err != nil {
				return nil, err
			}
			next = append(next, faces...)
		}
		slicedFaces = next
	}

	// no slicing happened, proceed with a standard insert
	if len(slicedFaces) == 1 {
		faceCopy.Swap(face)
		return f.insertFace(face)
	}

	inSlices := func(faces []*Face, candidate *Face) bool {
		for _, face := range faces {
			if face == candidate {
				return true
			}
		}
		return false
	}

	// rebuild each slice as a brand new face detached from the others
	newFaces := make([]*Face, 0, len(slicedFaces))
	for _, slicedFace := range slicedFaces {
		newFace, err := f.mesh.NewFaceFromBoundary(slicedFace.Points())
		if err != nil {
			return nil, err
		}
		newFaces = append(newFaces, newFace)
		if err := f.mesh.removeFaceAndChildren(slicedFace); err != nil {
			return nil, err
		}
	}

	// insert each new face, trying every container face created so far
	containerFaces := []*Face{f}
	for _, newFace := range newFaces {
		inserted := false
		for i, containerFace := range containerFaces {
			insertedFaces, err := containerFace.insertFace(newFace)
			if errors.Is(err, ErrOutsideFace) {
				continue
			}
			if err != nil {
				return nil, err
			}
			containerFaces = append(containerFaces[:i], containerFaces[i+1:]...)
			containerFaces = append(containerFaces, insertedFaces...)
			inserted = true
			break
		}
		if !inserted {
			return nil, fmt.Errorf("planmesh: could not insert a sliced face: %s", face)
		}
	}

	// merge the slices back together
	remainingFace := newFaces[0]
	var edgesToRemove []*Edge
	for _, newFace := range newFaces {
		for _, edge := range newFace.Edges() {
			if inSlices(newFaces, edge.pair.face) {
				edgesToRemove = append(edgesToRemove, edge)
			}
		}
	}
	for _, edge := range edgesToRemove {
		if edge.mesh == nil {
			continue
		}
		if inSlices(newFaces, edge.pair.face) {
			// vertices must not be cleaned here: cleaning could delete an
			// edge we are still iterating on
			remaining, err := edge.Remove(false)
			if err != nil {
				return nil, err
			}
			remainingFace = remaining
		}
	}

	for _, vertex := range remainingFace.Vertices() {
		vertex.Clean()
	}

	// give the merged result the identity of the inserted face
	remainingFace.Swap(face)

	created := make([]*Face, 0, len(containerFaces))
	for _, containerFace := range containerFaces {
		if containerFace == remainingFace {
			created = append(created, face)
			continue
		}
		if containerFace.mesh == nil {
			continue
		}
		created = append(created, containerFace)
	}

	return sortFacesByAreaDesc(created), nil
}

// InsertFace inserts the face inside the receiving face and returns the
// faces created inside it, including the receiving face when it survives,
// biggest first. The face to insert must already belong to the mesh, fit
// inside the receiving face, and not cross its boundary.
func (f *Face) InsertFace(face *Face) ([]*Face, error) {
	mesh := f.mesh
	if err := f.isInsertable(face); err != nil {
		return nil, err
	}

	// a face overlapping an internal edge of the receiving face needs the
	// slice and merge treatment
	internalEdges := f.InternalEdges()
	intersectsAnInternalEdge := false
	facePolygon := face.Polygon()
	for _, edge := range internalEdges {
		if facePolygon.SegmentIntersectsInterior(edge.start.Point(), edge.End().Point(),
			mesh.tol.CoordEpsilon) {
			intersectsAnInternalEdge = true
			break
		}
	}

	var createdFaces []*Face
	var err error
	if intersectsAnInternalEdge {
		createdFaces, err = f.insertFaceOverInternalEdge(face, internalEdges)
	} else {
		createdFaces, err = f.insertFace(face)
	}
	if err != nil {
		return nil, err
	}

	receivingFaceWasDeleted := true
	mesh.storeModification(OpInsert, face.ref(), f.ref())
	for _, createdFace := range createdFaces {
		if createdFace == f {
			receivingFaceWasDeleted = false
			continue
		}
		mesh.storeModification(OpInsert, createdFace.ref(), f.ref())
	}
	if receivingFaceWasDeleted {
		mesh.storeModification(OpRemove, f.ref(), ComponentRef{})
	}

	return createdFaces, nil
}

// InsertFaceFromBoundary creates a face from the boundary and inserts it
// inside the receiving face. The created components are removed from the
// mesh when the insertion fails.
func (f *Face) InsertFaceFromBoundary(boundary []r2.Point) ([]*Face, error) {
	faceToInsert, err := f.mesh.NewFaceFromBoundary(boundary)
	if err != nil {
		return nil, err
	}
	newFaces, err := f.InsertFace(faceToInsert)
	if err != nil {
		if cleanupErr := f.mesh.removeFaceAndChildren(faceToInsert); cleanupErr != nil {
			f.mesh.log.Error("planmesh: could not clean up a failed insertion",
				zap.Error(cleanupErr))
		}
		return nil, err
	}
	return newFaces, nil
}

// InsertExternalFace inserts a face lying outside the mesh boundary,
// stitching it onto the boundary and extending the mesh. The face must be
// disjoint from the mesh interior and adjacent to its boundary. Returns
// the faces added to the mesh.
func (m *Mesh) InsertExternalFace(face *Face) ([]*Face, error) {
	if !m.BoundaryPolygon().Disjoint(face.Polygon(), m.tol.CoordEpsilon) {
		return nil, fmt.Errorf("%w: the face is not on the exterior of the mesh: %s",
			ErrOutsideFace, face)
	}

	boundaryEdges := m.BoundaryEdges()

	// snap the external vertices of the mesh to the face edges
	for _, edge := range m.BoundaryEdges() {
		vertex := edge.start
		if snapped := vertex.SnapToEdge(face.Edges()...); snapped != nil {
			m.log.Debug("planmesh: snapped a vertex from the mesh boundary",
				zap.Stringer("vertex", vertex))
		}
	}

	// snap the face vertices to the mesh boundary, keeping the landing
	// edges for the stitching
	var sharedEdges [][2]*Edge
	for _, edge := range face.Edges() {
		vertex := edge.start
		vertex.edge = edge // orient the snapping
		edgeShared := vertex.SnapToEdge(boundaryEdges...)
		if edgeShared != nil {
			sharedEdges = append(sharedEdges, [2]*Edge{edgeShared, edge})
			boundaryEdges = m.BoundaryEdges()
		}
	}

	if len(sharedEdges) == 0 {
		return nil, fmt.Errorf("planmesh: cannot add a face that is not adjacent"+
			" to the mesh: %s", face)
	}

	var touchingEdge, edge *Edge
	var allFaces []*Face

	for _, shared := range sharedEdges {
		// touchingEdge is on the mesh boundary, edge on the inserted face
		touchingEdge, edge = shared[0], shared[1]
		previousEdge := edge.Previous()
		previousTouchingEdge := touchingEdge.Previous()

		previousTouchingEdge.next = previousEdge.pair
		edge.pair.next = touchingEdge

		if err := m.SetBoundaryEdge(touchingEdge); err != nil {
			return nil, err
		}

		if previousEdge.pair.next.next == previousEdge.pair {
			removed := previousEdge.pair
			removed.preserveReferences(removed.next.pair)
			removed.next.preserveReferences(previousEdge)
			m.removeEdge(removed)
			setPair(previousEdge, removed.next.pair)
			previousEdge.swapID(previousTouchingEdge)
			m.removeEdge(previousTouchingEdge)
		} else if !previousEdge.pair.isOnBoundary() {
			newFace := m.newFace(previousEdge.pair)
			allFaces = append(allFaces, newFace)
			for _, orphan := range previousEdge.pair.Siblings() {
				orphan.face = newFace
			}
		}
	}

	// forward check: the last stitch can isolate a two edged face, and
	// one of the created faces becomes the new outer boundary
	if edge.pair.next.next == edge.pair {
		m.removeEdge(edge.pair)
		setPair(edge, touchingEdge.pair)
		edge.swapID(touchingEdge)
		m.removeEdge(touchingEdge)

		boundaryFound := false
		for i, candidate := range allFaces {
			if candidate.Polygon().IsCCW() {
				continue
			}
			for _, boundaryEdge := range candidate.Edges() {
				boundaryEdge.face = nil
			}
			m.boundary = candidate.edge
			allFaces = append(allFaces[:i], allFaces[i+1:]...)
			m.removeFace(candidate)
			boundaryFound = true
			break
		}
		if !boundaryFound {
			return nil, errors.New("planmesh: a boundary face should have been found")
		}
	}

	return allFaces, nil
}

// isOnBoundary returns true if the edge belongs to the outer boundary loop
// of the mesh.
func (e *Edge) isOnBoundary() bool {
	for _, edge := range e.mesh.BoundaryEdges() {
		if edge == e {
			return true
		}
	}
	return false
}
