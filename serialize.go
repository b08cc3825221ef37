// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the serialized form of a mesh. Edges record the ids of their
// start vertex, next edge, pair edge and face, in that order. A zero face
// id marks an edge bounding the outer region.
//
// A snapshot is plain data: it can be marshaled, copied across goroutines
// and deserialized into an independent mesh.
type Snapshot struct {
	ID             string            `json:"id"`
	BoundaryEdgeID ID                `json:"edge"`
	Vertices       map[ID][2]float64 `json:"vertices"`
	Edges          map[ID][4]ID      `json:"edges"`
}

// Serialize returns a snapshot of the mesh geometry.
func (m *Mesh) Serialize() *Snapshot {
	vertices := make(map[ID][2]float64, len(m.vertices))
	for id, vertex := range m.vertices {
		vertices[id] = [2]float64{vertex.x, vertex.y}
	}

	edges := make(map[ID][4]ID, len(m.edges))
	for id, edge := range m.edges {
		faceID := NilID
		if edge.face != nil {
			faceID = edge.face.id
		}
		edges[id] = [4]ID{edge.start.id, edge.next.id, edge.pair.id, faceID}
	}

	snapshot := &Snapshot{
		ID:       m.id,
		Vertices: vertices,
		Edges:    edges,
	}
	if m.boundary != nil {
		snapshot.BoundaryEdgeID = m.boundary.id
	}
	return snapshot
}

// Deserialize rebuilds the mesh from a snapshot, replacing any existing
// content. Deserialization is not a mutation: the journal is left empty.
func (m *Mesh) Deserialize(snapshot *Snapshot) error {
	m.clear()
	m.id = snapshot.ID

	for id, point := range snapshot.Vertices {
		m.newVertexWithID(id, point[0], point[1], true)
	}

	for id, record := range snapshot.Edges {
		start := m.GetVertex(record[0])
		if start == nil {
			return fmt.Errorf("planmesh: snapshot edge %d references unknown"+
				" vertex %d", id, record[0])
		}
		edge := m.newEdgeWithID(id, start)
		if start.edge == nil {
			start.edge = edge
		}
		if faceID := record[3]; faceID != NilID {
			face := m.faces[faceID]
			if face == nil {
				face = m.newFaceWithID(faceID, edge)
			}
			edge.face = face
		}
	}

	// wire the next and pair pointers once every edge exists
	for id, record := range snapshot.Edges {
		edge := m.GetEdge(id)
		next := m.GetEdge(record[1])
		pair := m.GetEdge(record[2])
		if next == nil || pair == nil {
			return fmt.Errorf("planmesh: snapshot edge %d references unknown"+
				" edges %d, %d", id, record[1], record[2])
		}
		edge.next = next
		edge.pair = pair
	}

	if snapshot.BoundaryEdgeID != NilID {
		boundary := m.GetEdge(snapshot.BoundaryEdgeID)
		if boundary == nil {
			return fmt.Errorf("planmesh: snapshot references unknown boundary"+
				" edge %d", snapshot.BoundaryEdgeID)
		}
		if err := m.SetBoundaryEdge(boundary); err != nil {
			return err
		}
	}

	m.resetCounter()
	m.modifications = map[ID]Modification{}

	return nil
}

// Dump returns the mesh serialized as JSON.
func (m *Mesh) Dump() ([]byte, error) {
	return json.Marshal(m.Serialize())
}

// Load rebuilds the mesh from its JSON serialization.
func (m *Mesh) Load(data []byte) error {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("planmesh: cannot decode snapshot: %w", err)
	}
	return m.Deserialize(&snapshot)
}

// Clone returns an independent copy of the mesh sharing no component with
// the original. Watchers are not cloned.
func (m *Mesh) Clone() (*Mesh, error) {
	clone, err := NewMesh(WithTolerances(m.tol), WithLogger(m.log))
	if err != nil {
		return nil, err
	}
	if err := clone.Deserialize(m.Serialize()); err != nil {
		return nil, err
	}
	return clone, nil
}
