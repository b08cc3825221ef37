// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"go.uber.org/zap"

	"github.com/2dChan/planmesh/geom"
)

// Check audits the structural invariants of the mesh: simple face
// polygons, registry membership, face attribution, pair reciprocity,
// vertex anchors, absence of two edged faces and folded edges, boundary
// edges without faces, no extraneous components, and area conservation
// between the faces and the mesh boundary. Violations are logged and
// false is returned. It is a best effort audit, not a proof.
func (m *Mesh) Check() bool {
	isValid := true
	seenEdges := map[ID]bool{}
	seenVertices := map[ID]bool{}

	for _, face := range m.Faces() {
		// a face enclosing a hole walks its bridge edge twice and can
		// never be a simple polygon
		if !face.HasInternalEdge() && !face.Polygon().IsSimple() {
			m.log.Error("planmesh: face is not a simple polygon", zap.Stringer("face", face))
			isValid = false
		}

		for _, edge := range face.Edges() {
			seenEdges[edge.id] = true
			seenVertices[edge.start.id] = true

			if m.edges[edge.id] != edge {
				m.log.Error("planmesh: edge not registered in the mesh",
					zap.Stringer("edge", edge))
				isValid = false
			}
			if m.vertices[edge.start.id] != edge.start {
				m.log.Error("planmesh: vertex not registered in the mesh",
					zap.Stringer("vertex", edge.start))
				isValid = false
			}
			if m.edges[edge.pair.id] != edge.pair {
				m.log.Error("planmesh: pair edge not registered in the mesh",
					zap.Stringer("edge", edge.pair))
				isValid = false
			}
			if edge.face != face {
				m.log.Error("planmesh: wrong face attribution",
					zap.Stringer("edge", edge), zap.Stringer("face", face))
				isValid = false
			}
			if edge.pair.pair != edge {
				m.log.Error("planmesh: wrong pair attribution", zap.Stringer("edge", edge))
				isValid = false
			}
			if edge.start.edge == nil {
				m.log.Error("planmesh: vertex has no edge", zap.Stringer("vertex", edge.start))
				isValid = false
			} else if edge.start.edge.start != edge.start {
				m.log.Error("planmesh: wrong edge attribution on vertex",
					zap.Stringer("vertex", edge.start), zap.Stringer("edge", edge))
				isValid = false
			}
			if edge.next.next == edge {
				m.log.Error("planmesh: two edged face found", zap.Stringer("edge", edge))
				isValid = false
			}
			if edge.next == edge.pair {
				m.log.Error("planmesh: folded edge found", zap.Stringer("edge", edge))
				isValid = false
			}
		}
	}

	for _, edge := range m.BoundaryEdges() {
		seenEdges[edge.id] = true
		seenVertices[edge.start.id] = true
		if edge.face != nil {
			m.log.Error("planmesh: boundary edge has a face", zap.Stringer("edge", edge))
			isValid = false
		}
	}

	// near duplicate vertices can legitimately survive snapping, report
	// them without failing the audit
	m.checkDuplicateVertices()

	for _, vertex := range m.Vertices() {
		if vertex.edge == nil || m.edges[vertex.edge.id] != vertex.edge {
			m.log.Error("planmesh: vertex references an edge outside the mesh",
				zap.Stringer("vertex", vertex))
			isValid = false
		}
	}

	for id, edge := range m.edges {
		if !seenEdges[id] {
			m.log.Error("planmesh: extraneous edge found in the mesh",
				zap.Stringer("edge", edge))
			isValid = false
		}
	}
	for id, vertex := range m.vertices {
		if !seenVertices[id] {
			m.log.Error("planmesh: extraneous vertex found in the mesh",
				zap.Stringer("vertex", vertex))
			isValid = false
		}
	}

	facesArea := 0.0
	for _, face := range m.Faces() {
		facesArea += face.Area()
	}
	meshArea := m.BoundaryPolygon().Area()
	epsilon := m.tol.CoordEpsilon * m.tol.CoordEpsilon
	if !geom.PseudoEqual(facesArea, meshArea, epsilon) {
		m.log.Error("planmesh: faces are overlapping",
			zap.Float64("facesArea", facesArea), zap.Float64("meshArea", meshArea))
		isValid = false
	}

	if isValid {
		m.log.Info("planmesh: mesh audit passed")
	} else {
		m.log.Warn("planmesh: mesh audit failed")
	}
	return isValid
}

func (m *Mesh) checkDuplicateVertices() {
	vertices := m.Vertices()
	for i, vertex := range vertices {
		for _, other := range vertices[i+1:] {
			if other.DistanceTo(vertex) < m.tol.CoordEpsilon/4 {
				m.log.Info("planmesh: found near duplicate vertices",
					zap.Stringer("vertex", vertex), zap.Stringer("other", other))
			}
		}
	}
}
