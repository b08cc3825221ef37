// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package planmesh

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"github.com/2dChan/planmesh/geom"
)

// Mesh is a planar subdivision in half-edge representation. Every vertex,
// edge and face is owned by the mesh and registered under an id unique
// across the three kinds. The outer unbounded region is represented by a
// nil face on the edges bounding it.
type Mesh struct {
	id       string
	boundary *Edge

	vertices map[ID]*Vertex
	edges    map[ID]*Edge
	faces    map[ID]*Face

	watchers      []Watcher
	modifications map[ID]Modification

	counter ID

	cachedArea    float64
	cachedAreaSet bool

	tol Tolerances
	log *zap.Logger
}

// Option configures a mesh.
type Option func(*Mesh) error

// WithLogger sets the mesh logger. By default the mesh does not log.
func WithLogger(log *zap.Logger) Option {
	return func(m *Mesh) error {
		if log == nil {
			return errors.New("planmesh: logger must not be nil")
		}
		m.log = log
		return nil
	}
}

// WithTolerances sets the geometric tolerances of the mesh.
func WithTolerances(tol Tolerances) Option {
	return func(m *Mesh) error {
		if err := tol.validate(); err != nil {
			return err
		}
		m.tol = tol
		return nil
	}
}

// WithID sets the mesh id instead of generating a random one.
func WithID(id string) Option {
	return func(m *Mesh) error {
		if id == "" {
			return errors.New("planmesh: mesh id must not be empty")
		}
		m.id = id
		return nil
	}
}

// NewMesh returns an empty mesh.
func NewMesh(opts ...Option) (*Mesh, error) {
	m := &Mesh{
		vertices:      map[ID]*Vertex{},
		edges:         map[ID]*Edge{},
		faces:         map[ID]*Face{},
		modifications: map[ID]Modification{},
		tol:           DefaultTolerances(),
		log:           zap.NewNop(),
		id:            randomID(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewMeshFromBoundary returns a mesh with a single face built from the
// boundary points, in counter clockwise order.
func NewMeshFromBoundary(boundary []r2.Point, opts ...Option) (*Mesh, error) {
	m, err := NewMesh(opts...)
	if err != nil {
		return nil, err
	}
	if err := m.FromBoundary(boundary); err != nil {
		return nil, err
	}
	return m, nil
}

func randomID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf)
}

// ID returns the mesh id.
func (m *Mesh) ID() string { return m.id }

// Tolerances returns the geometric tolerances of the mesh.
func (m *Mesh) Tolerances() Tolerances { return m.tol }

// loopGuard bounds loop walks: any well formed loop of the mesh is shorter
// than this.
func (m *Mesh) loopGuard() int {
	return 2*len(m.edges) + 1000
}

func (m *Mesh) nextID() ID {
	m.counter++
	return m.counter
}

// resetCounter moves the id counter past every registered id. Needed after
// deserializing a mesh.
func (m *Mesh) resetCounter() {
	max := ID(0)
	for id := range m.vertices {
		if id > max {
			max = id
		}
	}
	for id := range m.edges {
		if id > max {
			max = id
		}
	}
	for id := range m.faces {
		if id > max {
			max = id
		}
	}
	m.counter = max
}

func (m *Mesh) clear() {
	m.boundary = nil
	m.vertices = map[ID]*Vertex{}
	m.edges = map[ID]*Edge{}
	m.faces = map[ID]*Face{}
	m.watchers = nil
	m.modifications = map[ID]Modification{}
	m.counter = 0
	m.cachedAreaSet = false
}

// newVertex creates and registers a vertex. Coordinates are truncated to
// the mesh decimal resolution.
func (m *Mesh) newVertex(x, y float64, mutable bool) *Vertex {
	v := &Vertex{
		mesh:    m,
		id:      m.nextID(),
		x:       geom.Truncate(x, m.tol.CoordDecimals),
		y:       geom.Truncate(y, m.tol.CoordDecimals),
		mutable: mutable,
	}
	m.vertices[v.id] = v
	m.storeModification(OpAdd, v.ref(), ComponentRef{})
	return v
}

func (m *Mesh) newVertexWithID(id ID, x, y float64, mutable bool) *Vertex {
	v := &Vertex{
		mesh:    m,
		id:      id,
		x:       geom.Truncate(x, m.tol.CoordDecimals),
		y:       geom.Truncate(y, m.tol.CoordDecimals),
		mutable: mutable,
	}
	m.vertices[v.id] = v
	m.storeModification(OpAdd, v.ref(), ComponentRef{})
	return v
}

// addVertex registers back a detached vertex under a fresh id.
func (m *Mesh) addVertex(v *Vertex) {
	v.mesh = m
	v.id = m.nextID()
	m.vertices[v.id] = v
	m.storeModification(OpAdd, v.ref(), ComponentRef{})
}

func (m *Mesh) removeVertex(v *Vertex) {
	if _, ok := m.vertices[v.id]; !ok {
		m.log.Debug("planmesh: vertex is not in the mesh", zap.Stringer("vertex", v))
		return
	}
	m.storeModification(OpRemove, v.ref(), ComponentRef{})
	delete(m.vertices, v.id)
	v.mesh = nil
}

// newEdge creates and registers an edge. The pair is wired separately
// through setPair.
func (m *Mesh) newEdge(start *Vertex, next *Edge, face *Face) *Edge {
	e := &Edge{
		mesh:  m,
		id:    m.nextID(),
		start: start,
		next:  next,
		face:  face,
	}
	m.edges[e.id] = e
	m.storeModification(OpAdd, e.ref(), ComponentRef{})
	e.checkSize()
	return e
}

func (m *Mesh) newEdgeWithID(id ID, start *Vertex) *Edge {
	e := &Edge{
		mesh:  m,
		id:    id,
		start: start,
	}
	m.edges[e.id] = e
	m.storeModification(OpAdd, e.ref(), ComponentRef{})
	return e
}

func (m *Mesh) removeEdge(e *Edge) {
	if _, ok := m.edges[e.id]; !ok {
		m.log.Debug("planmesh: edge is not in the mesh", zap.Stringer("edge", e))
		return
	}
	m.storeModification(OpRemove, e.ref(), ComponentRef{})
	delete(m.edges, e.id)
	e.mesh = nil
}

// updateEdge re-registers an edge after an id change.
func (m *Mesh) updateEdge(e *Edge) {
	m.edges[e.id] = e
}

// newFace creates and registers a face anchored on the edge.
func (m *Mesh) newFace(edge *Edge) *Face {
	f := &Face{
		mesh: m,
		id:   m.nextID(),
		edge: edge,
	}
	m.faces[f.id] = f
	m.storeModification(OpAdd, f.ref(), ComponentRef{})
	return f
}

func (m *Mesh) newFaceWithID(id ID, edge *Edge) *Face {
	f := &Face{
		mesh: m,
		id:   id,
		edge: edge,
	}
	m.faces[f.id] = f
	m.storeModification(OpAdd, f.ref(), ComponentRef{})
	return f
}

// addFace registers back a detached face, keeping its id.
func (m *Mesh) addFace(f *Face) {
	f.mesh = m
	if f.id == NilID {
		f.id = m.nextID()
	}
	m.faces[f.id] = f
	m.storeModification(OpAdd, f.ref(), ComponentRef{})
}

func (m *Mesh) removeFace(f *Face) {
	if _, ok := m.faces[f.id]; !ok {
		m.log.Warn("planmesh: face is not in the mesh", zap.Stringer("face", f))
		return
	}
	m.storeModification(OpRemove, f.ref(), ComponentRef{})
	delete(m.faces, f.id)
	f.mesh = nil
}

// removeFaceAndChildren removes the face, its edges and their vertices
// from the mesh.
func (m *Mesh) removeFaceAndChildren(f *Face) error {
	if _, ok := m.faces[f.id]; !ok {
		return fmt.Errorf("planmesh: cannot remove a face that is not in the"+
			" mesh: %s", f)
	}
	for _, edge := range f.Edges() {
		if edge.mesh != nil {
			m.removeEdge(edge)
		}
		if edge.pair.mesh != nil {
			m.removeEdge(edge.pair)
		}
		if edge.start.mesh != nil {
			m.removeVertex(edge.start)
		}
	}
	m.removeFace(f)
	return nil
}

// storeModification records an operation in the journal. The journal keeps
// a single entry per component: a remove cancels a pending add, an insert
// supersedes a pending add, and an operation on a removed component
// re-registers it.
func (m *Mesh) storeModification(op Op, component, related ComponentRef) {
	if previous, ok := m.modifications[component.ID]; ok {
		switch previous.Op {
		case OpRemove:
			m.log.Debug("planmesh: modifying a removed component",
				zap.Stringer("component", component))
		case OpAdd, OpInsert:
			switch op {
			case OpAdd:
				return
			case OpRemove:
				delete(m.modifications, component.ID)
				return
			}
		}
	}
	m.modifications[component.ID] = Modification{Op: op, Component: component, Related: related}
}

// AddWatcher registers a watcher notified with the pending modifications
// at each call to Watch.
func (m *Mesh) AddWatcher(watcher Watcher) {
	m.watchers = append(m.watchers, watcher)
}

// Watch flushes the modification journal to the watchers. Watchers are
// never called implicitly: mutations accumulate until the caller decides
// the mesh is in a consistent state.
func (m *Mesh) Watch() {
	for _, watcher := range m.watchers {
		watcher(m.modifications)
	}
	m.modifications = map[ID]Modification{}
}

// Modifications returns a copy of the pending modification journal.
func (m *Mesh) Modifications() map[ID]Modification {
	modifications := make(map[ID]Modification, len(m.modifications))
	for id, modification := range m.modifications {
		modifications[id] = modification
	}
	return modifications
}

// Vertices returns the vertices of the mesh, in id order.
func (m *Mesh) Vertices() []*Vertex {
	vertices := make([]*Vertex, 0, len(m.vertices))
	for _, vertex := range m.vertices {
		vertices = append(vertices, vertex)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i].id < vertices[j].id })
	return vertices
}

// Edges returns the edges of the mesh, in id order.
func (m *Mesh) Edges() []*Edge {
	edges := make([]*Edge, 0, len(m.edges))
	for _, edge := range m.edges {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].id < edges[j].id })
	return edges
}

// Faces returns the faces of the mesh, in id order.
func (m *Mesh) Faces() []*Face {
	faces := make([]*Face, 0, len(m.faces))
	for _, face := range m.faces {
		faces = append(faces, face)
	}
	sort.Slice(faces, func(i, j int) bool { return faces[i].id < faces[j].id })
	return faces
}

// GetVertex returns the vertex with the given id, nil when absent.
func (m *Mesh) GetVertex(id ID) *Vertex { return m.vertices[id] }

// GetEdge returns the edge with the given id, nil when absent.
func (m *Mesh) GetEdge(id ID) *Edge { return m.edges[id] }

// GetFace returns the face with the given id, nil when absent.
func (m *Mesh) GetFace(id ID) *Face { return m.faces[id] }

// HasVertex returns true if a vertex with the id belongs to the mesh.
func (m *Mesh) HasVertex(id ID) bool { _, ok := m.vertices[id]; return ok }

// HasEdge returns true if an edge with the id belongs to the mesh.
func (m *Mesh) HasEdge(id ID) bool { _, ok := m.edges[id]; return ok }

// HasFace returns true if a face with the id belongs to the mesh.
func (m *Mesh) HasFace(id ID) bool { _, ok := m.faces[id]; return ok }

// BoundaryEdge returns one edge of the outer boundary loop.
func (m *Mesh) BoundaryEdge() *Edge { return m.boundary }

// SetBoundaryEdge sets the anchor edge of the outer boundary loop. The
// edge must bound the outer region.
func (m *Mesh) SetBoundaryEdge(e *Edge) error {
	if e.face != nil {
		return fmt.Errorf("planmesh: a boundary edge cannot have a face: %s", e)
	}
	m.boundary = e
	return nil
}

// BoundaryEdges returns the edges of the outer boundary loop.
func (m *Mesh) BoundaryEdges() []*Edge {
	if m.boundary == nil {
		panic("planmesh: the mesh has no boundary edge")
	}
	return m.boundary.Siblings()
}

// BoundaryPolygon returns the outer boundary of the mesh as a counter
// clockwise polygon.
func (m *Mesh) BoundaryPolygon() geom.Polygon {
	edges := m.BoundaryEdges()
	points := make([]r2.Point, 0, len(edges))
	for i := len(edges) - 1; i >= 0; i-- {
		points = append(points, edges[i].start.Point())
	}
	return geom.Polygon(points)
}

// Area returns the area enclosed by the mesh boundary. When cache is set,
// a previously computed value is returned without recomputation.
func (m *Mesh) Area(cache bool) float64 {
	if cache && m.cachedAreaSet {
		return m.cachedArea
	}
	m.cachedArea = m.BoundaryPolygon().Area()
	m.cachedAreaSet = true
	return m.cachedArea
}

// ComputeCachedAreas refreshes the memoized area of every face.
func (m *Mesh) ComputeCachedAreas() {
	for _, face := range m.Faces() {
		face.SetCachedArea(face.Area())
	}
}

// Direction is a main direction of the mesh: an angle modulo 180 degrees
// and the total boundary length following it.
type Direction struct {
	Angle  float64
	Length float64
}

// Directions returns the main directions of the mesh, computed from the
// boundary edges and sorted by decreasing total length.
func (m *Mesh) Directions() []Direction {
	lengths := map[float64]float64{}
	for _, edge := range m.BoundaryEdges() {
		angle := math.Round(math.Mod(edge.AbsoluteAngle(), 180.0))
		lengths[angle] += edge.Length()
	}

	directions := make([]Direction, 0, len(lengths))
	for angle, length := range lengths {
		directions = append(directions, Direction{Angle: angle, Length: length})
	}
	sort.Slice(directions, func(i, j int) bool {
		if directions[i].Length != directions[j].Length {
			return directions[i].Length > directions[j].Length
		}
		return directions[i].Angle < directions[j].Angle
	})
	return directions
}

// NewFaceFromBoundary creates a face from the boundary points, in counter
// clockwise order. The boundary must be a simple polygon of at least three
// points. The first vertex is immutable: it anchors the face against
// snapping drift. The face is created detached from any other face of the
// mesh: its pair edges carry no face.
func (m *Mesh) NewFaceFromBoundary(boundary []r2.Point) (*Face, error) {
	m.log.Debug("planmesh: creating a new face from a boundary")

	if len(boundary) < 3 {
		return nil, fmt.Errorf("planmesh: a face boundary needs at least three"+
			" points, got %d", len(boundary))
	}
	polygon := geom.Polygon(boundary)
	if !polygon.IsCCW() {
		return nil, fmt.Errorf("planmesh: the boundary is not counter clockwise: %v", boundary)
	}
	if !polygon.IsSimple() {
		return nil, fmt.Errorf("planmesh: the boundary crosses itself: %v", boundary)
	}

	initialVertex := m.newVertex(boundary[0].X, boundary[0].Y, false)
	initialEdge := m.newEdge(initialVertex, nil, nil)
	initialFace := m.newFace(initialEdge)

	initialEdge.face = initialFace
	initialVertex.edge = initialEdge

	previousEdge := initialEdge
	var previousPairEdge *Edge

	for _, point := range boundary[1:] {
		newVertex := m.newVertex(point.X, point.Y, true)

		newEdge := m.newEdge(newVertex, nil, initialFace)
		newVertex.edge = newEdge

		previousEdge.next = newEdge
		newPairEdge := m.newEdge(newVertex, previousPairEdge, nil)
		setPair(newPairEdge, previousEdge)

		previousPairEdge = newPairEdge
		previousEdge = newEdge
	}

	previousEdge.next = initialEdge
	newPairEdge := m.newEdge(initialVertex, previousPairEdge, nil)
	setPair(newPairEdge, previousEdge)
	initialEdge.pair.next = newPairEdge

	return initialFace, nil
}

// FromBoundary resets the mesh to a single face built from the boundary
// points, in counter clockwise order.
func (m *Mesh) FromBoundary(boundary []r2.Point) error {
	m.clear()
	newFace, err := m.NewFaceFromBoundary(boundary)
	if err != nil {
		return err
	}
	return m.SetBoundaryEdge(newFace.edge.pair)
}

// Simplify snaps close vertices across the whole mesh and returns the
// modified edges.
func (m *Mesh) Simplify() []*Edge {
	var modifiedEdges []*Edge
	for _, face := range m.Faces() {
		modifiedEdges = append(modifiedEdges, face.RecursiveSimplify()...)
	}
	return modifiedEdges
}

// Connected returns true if the faces form a connected set through
// adjacency. When minAdjacencyLength is positive, adjacency requires a
// shared edge at least that long.
func Connected(faces []*Face, minAdjacencyLength float64) bool {
	if len(faces) == 0 {
		return true
	}

	inSet := make(map[*Face]bool, len(faces))
	for _, face := range faces {
		inSet[face] = true
	}

	current := faces[0]
	parent := map[*Face]*Face{current: nil}
	for current != nil {
		advanced := false
		for _, sibling := range current.Siblings(minAdjacencyLength) {
			if sibling == current || !inSet[sibling] {
				continue
			}
			if _, seen := parent[sibling]; !seen {
				parent[sibling] = current
				current = sibling
				advanced = true
				break
			}
		}
		if !advanced {
			current = parent[current]
		}
	}

	return len(parent) == len(faces)
}
