// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"errors"
	"testing"

	"github.com/golang/geo/r2"
)

func TestFace_Measures(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	face := m.Faces()[0]

	if got := face.Area(); got != 1000000 {
		t.Errorf("Area() = %v, want 1000000", got)
	}
	if got := face.Perimeter(); got != 4000 {
		t.Errorf("Perimeter() = %v, want 4000", got)
	}
	if got := len(face.Points()); got != 4 {
		t.Errorf("len(Points()) = %d, want 4", got)
	}
	if got := face.NumberOfCorners(); got != 4 {
		t.Errorf("NumberOfCorners() = %d, want 4", got)
	}
	width, depth := face.BoundingBox(r2.Point{})
	if width != 1000 || depth != 1000 {
		t.Errorf("BoundingBox() = (%v, %v), want (1000, 1000)", width, depth)
	}
}

func TestFace_CachedArea(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	face := m.Faces()[0]

	m.ComputeCachedAreas()
	if got := face.CachedArea(); got != 1000000 {
		t.Errorf("CachedArea() = %v, want 1000000", got)
	}
	face.SetCachedArea(42)
	if got := face.CachedArea(); got != 42 {
		t.Errorf("CachedArea() = %v after SetCachedArea, want 42", got)
	}
}

func TestFace_NumberOfCorners_AlignedVertex(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	face := m.Faces()[0]

	// An aligned vertex in the middle of a side is not a corner.
	face.Edge().SplitBarycenter(0.5)
	if got := face.NumberOfCorners(); got != 4 {
		t.Errorf("NumberOfCorners() = %d, want 4", got)
	}
}

func TestFace_ContainsAndCrosses(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	container := m.Faces()[0]

	inside, err := m.NewFaceFromBoundary(squareBoundary(r2.Point{X: 100, Y: 100}, 200))
	if err != nil {
		t.Fatalf("NewFaceFromBoundary() error = %v", err)
	}
	if !container.Contains(inside) {
		t.Error("Contains(enclosed face) = false, want true")
	}
	if container.Crosses(inside) {
		t.Error("Crosses(enclosed face) = true, want false")
	}

	crossing, err := m.NewFaceFromBoundary(squareBoundary(r2.Point{X: 900, Y: 900}, 200))
	if err != nil {
		t.Fatalf("NewFaceFromBoundary() error = %v", err)
	}
	if !container.Crosses(crossing) {
		t.Error("Crosses(overlapping face) = false, want true")
	}
	if container.Contains(crossing) {
		t.Error("Contains(overlapping face) = true, want false")
	}
}

func TestFace_Siblings(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	bottom := findEdge(t, m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1000, Y: 0})

	result := bottom.BarycenterCut(0.5, 90.0)
	if result == nil {
		t.Fatal("BarycenterCut() = nil")
	}
	faces := m.Faces()
	if len(faces) != 2 {
		t.Fatalf("len(Faces()) = %d, want 2", len(faces))
	}

	if !faces[0].IsAdjacent(faces[1]) {
		t.Error("IsAdjacent() = false, want true")
	}
	siblings := faces[0].Siblings(0)
	if len(siblings) != 1 || siblings[0] != faces[1] {
		t.Errorf("Siblings(0) = %v, want [%v]", siblings, faces[1])
	}
	// The shared edge is only 1000 long.
	if got := faces[0].Siblings(2000); len(got) != 0 {
		t.Errorf("Siblings(2000) = %v, want none", got)
	}
}

func TestFace_Merge(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	bottom := findEdge(t, m, r2.Point{X: 0, Y: 0}, r2.Point{X: 1000, Y: 0})

	result := bottom.BarycenterCut(0.5, 90.0)
	if result == nil {
		t.Fatal("BarycenterCut() = nil")
	}
	faces := m.Faces()

	merged, err := faces[0].Merge(faces[1])
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if got := len(m.Faces()); got != 1 {
		t.Errorf("len(Faces()) = %d after Merge(), want 1", got)
	}
	if got := merged.Area(); got != 1000000 {
		t.Errorf("merged face area = %v, want 1000000", got)
	}
	if !m.Check() {
		t.Error("Check() = false after Merge()")
	}
}

func TestFace_Merge_NotAdjacent(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	face := m.Faces()[0]

	if _, err := face.Merge(face); err == nil {
		t.Error("Merge() with no shared edge succeeded, want error")
	}
}

func TestFace_InsertEdge(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	face := m.Faces()[0]

	v1 := m.newVertex(300, 0, true)
	v2 := m.newVertex(700, 0, true)
	edge, err := face.InsertEdge(v1, v2)
	if err != nil {
		t.Fatalf("InsertEdge() error = %v", err)
	}
	if edge.Start().X() != 300 {
		t.Errorf("InsertEdge() starts at x=%v, want 300", edge.Start().X())
	}
	if got := len(m.Vertices()); got != 6 {
		t.Errorf("len(Vertices()) = %d, want 6", got)
	}
	if got := len(m.Faces()); got != 1 {
		t.Errorf("len(Faces()) = %d, want 1", got)
	}
	if !m.Check() {
		t.Error("Check() = false after InsertEdge()")
	}
}

func TestFace_InsertEdge_OutsideVertex(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	face := m.Faces()[0]

	v1 := m.newVertex(300, 0, true)
	v2 := m.newVertex(500, 500, true)
	_, err := face.InsertEdge(v1, v2)
	if !errors.Is(err, ErrOutsideVertex) {
		t.Fatalf("InsertEdge() error = %v, want ErrOutsideVertex", err)
	}
	if m.HasVertex(v2.ID()) {
		t.Error("outside vertex still registered after failure")
	}
}

func TestFace_GetEdge(t *testing.T) {
	m := mustNewMesh(t, squareBoundary(r2.Point{}, 1000))
	face := m.Faces()[0]

	vertex := face.Vertices()[0]
	edge := face.GetEdge(vertex)
	if edge == nil {
		t.Fatal("GetEdge() = nil")
	}
	if edge.Start() != vertex || edge.Face() != face {
		t.Errorf("GetEdge() = %v, want an edge of the face starting at %v", edge, vertex)
	}
}
