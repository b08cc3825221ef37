// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
)

func squareBoundary(origin r2.Point, size float64) []r2.Point {
	return []r2.Point{
		origin,
		{X: origin.X + size, Y: origin.Y},
		{X: origin.X + size, Y: origin.Y + size},
		{X: origin.X, Y: origin.Y + size},
	}
}

func mustNewMesh(t *testing.T, boundary []r2.Point) *Mesh {
	t.Helper()
	m, err := NewMeshFromBoundary(boundary)
	if err != nil {
		t.Fatalf("NewMeshFromBoundary() error = %v", err)
	}
	return m
}

func TestNewMeshFromBoundary(t *testing.T) {
	tests := []struct {
		name     string
		boundary []r2.Point
		wantErr  bool
	}{
		{
			name:     "square",
			boundary: squareBoundary(r2.Point{}, 1000),
		},
		{
			name:     "triangle",
			boundary: []r2.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 500, Y: 800}},
		},
		{
			name:     "too few points",
			boundary: []r2.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}},
			wantErr:  true,
		},
		{
			name:     "clockwise order",
			boundary: []r2.Point{{X: 0, Y: 0}, {X: 0, Y: 1000}, {X: 1000, Y: 1000}, {X: 1000, Y: 0}},
			wantErr:  true,
		},
		{
			name:     "self crossing",
			boundary: []r2.Point{{X: 0, Y: 0}, {X: 1000, Y: 1000}, {X: 1000, Y: 0}, {X: 0, Y: 1000}},
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMeshFromBoundary(tt.boundary)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewMeshFromBoundary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := len(m.Faces()); got != 1 {
				t.Errorf("len(Faces()) = %d, want 1", got)
			}
			if got := len(m.Vertices()); got != len(tt.boundary) {
				t.Errorf("len(Vertices()) = %d, want %d", got, len(tt.boundary))
			}
			if got := len(m.Edges()); got != 2*len(tt.boundary) {
				t.Errorf("len(Edges()) = %d, want %d", got, 2*len(tt.boundary))
			}
			if !m.Check() {
				t.Error("Check() = false, want true")
			}
		})
	}
}

func TestMesh_BoundaryPolygon(t *testing.T) {
	boundary := squareBoundary(r2.Point{}, 1000)
	m := mustNewMesh(t, boundary)

	polygon := m.BoundaryPolygon()
	if !polygon.IsCCW() {
		t.Error("BoundaryPolygon().IsCCW() = false, want true")
	}
	if got, want := polygon.Area(), 1000.0*1000.0; got != want {
		t.Errorf("BoundaryPolygon().Area() = %v, want %v", got, want)
	}
}

func TestMesh_Area(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))

	if got, want := m.Area(false), 1000.0*1000.0; got != want {
		t.Errorf("Area(false) = %v, want %v", got, want)
	}
}

func TestMesh_Directions(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))

	got := m.Directions()
	want := []Direction{
		{Angle: 0, Length: 2000},
		{Angle: 90, Length: 2000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Directions() mismatch (-want +got):\n%s", diff)
	}
}

func TestMesh_GetComponents(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))

	vertex := m.Vertices()[0]
	if got := m.GetVertex(vertex.ID()); got != vertex {
		t.Errorf("GetVertex(%d) = %v, want %v", vertex.ID(), got, vertex)
	}
	if !m.HasVertex(vertex.ID()) {
		t.Errorf("HasVertex(%d) = false, want true", vertex.ID())
	}
	if m.GetVertex(NilID) != nil {
		t.Error("GetVertex(NilID) != nil")
	}

	edge := m.Edges()[0]
	if got := m.GetEdge(edge.ID()); got != edge {
		t.Errorf("GetEdge(%d) = %v, want %v", edge.ID(), got, edge)
	}

	face := m.Faces()[0]
	if got := m.GetFace(face.ID()); got != face {
		t.Errorf("GetFace(%d) = %v, want %v", face.ID(), got, face)
	}
	if !m.HasFace(face.ID()) {
		t.Errorf("HasFace(%d) = false, want true", face.ID())
	}
}

func TestMesh_Watch(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))

	var received map[ID]Modification
	m.AddWatcher(func(modifications map[ID]Modification) {
		received = modifications
	})

	if len(m.Modifications()) == 0 {
		t.Fatal("Modifications() is empty after construction")
	}
	m.Watch()
	if len(received) == 0 {
		t.Error("watcher received no modifications")
	}
	if got := len(m.Modifications()); got != 0 {
		t.Errorf("len(Modifications()) = %d after Watch(), want 0", got)
	}
}

func TestMesh_ModificationsCancellation(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	m.Watch()

	// A component added then removed before a flush leaves no trace.
	vertex := m.newVertex(500, 500, true)
	m.removeVertex(vertex)
	if got := len(m.Modifications()); got != 0 {
		t.Errorf("len(Modifications()) = %d after add+remove, want 0", got)
	}
}

func TestConnected(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	face := m.Faces()[0]

	result := face.Edge().BarycenterCut(0.5, 90.0)
	if result == nil {
		t.Fatal("BarycenterCut() = nil")
	}
	faces := m.Faces()
	if len(faces) != 2 {
		t.Fatalf("len(Faces()) = %d after cut, want 2", len(faces))
	}

	if !Connected(faces, 0) {
		t.Error("Connected(faces, 0) = false, want true")
	}
	// The shared edge is 1000 long, shorter than the required adjacency.
	if Connected(faces, 2000) {
		t.Error("Connected(faces, 2000) = true, want false")
	}
	if !Connected(faces[:1], 0) {
		t.Error("Connected(single face) = false, want true")
	}
}

func TestMesh_Simplify(t *testing.T) {
	// The top side carries a sliver edge of length 0.5, below the
	// coordinate epsilon.
	boundary := []r2.Point{
		{X: 0, Y: 0},
		{X: 1000, Y: 0},
		{X: 1000, Y: 1000},
		{X: 0.5, Y: 1000},
		{X: 0, Y: 1000},
	}
	m := mustNewMesh(t, boundary)
	if got := len(m.Vertices()); got != 5 {
		t.Fatalf("len(Vertices()) = %d, want 5", got)
	}

	m.Simplify()
	if got := len(m.Vertices()); got != 4 {
		t.Errorf("len(Vertices()) = %d after Simplify(), want 4", got)
	}
	if !m.Check() {
		t.Error("Check() = false after Simplify()")
	}
}
