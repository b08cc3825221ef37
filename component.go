// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package planmesh implements the half-edge planar mesh kernel used to carve
// a building envelope into rooms. A Mesh owns its vertices, edges and faces
// in id-keyed arenas; every topological mutation (cut, link, split, remove,
// face insertion) keeps the subdivision consistent: no overlaps, no gaps,
// reciprocal edge pairs, and a journal of structural changes for watchers.
package planmesh

import "fmt"

// ID identifies a component inside its mesh. Ids are allocated from a single
// per-mesh counter shared by vertices, edges and faces, so an id is unique
// across component kinds. The zero id is never allocated.
type ID int

// NilID is the absent component reference.
const NilID ID = 0

// Kind discriminates mesh component types.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindVertex
	KindEdge
	KindFace
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	case KindFace:
		return "face"
	}
	return "undefined"
}

// Op is the kind of structural modification recorded in the mesh journal.
type Op uint8

const (
	OpAdd Op = iota
	OpRemove
	OpInsert
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "added"
	case OpRemove:
		return "removed"
	case OpInsert:
		return "inserted"
	}
	return "unknown"
}

// ComponentRef is a kind-qualified component id, stable across the life of
// the mesh and its serialized snapshots.
type ComponentRef struct {
	Kind Kind
	ID   ID
}

func (r ComponentRef) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// Modification is one journal entry: an operation on a component, optionally
// related to another component (the splitting edge, the receiving face...).
type Modification struct {
	Op        Op
	Component ComponentRef
	Related   ComponentRef
}

// Watcher receives the accumulated modification journal, keyed by component
// id, when the mesh is flushed with Watch.
type Watcher func(modifications map[ID]Modification)
