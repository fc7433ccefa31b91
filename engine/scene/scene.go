package scene

import (
	"time"

	"github.com/google/uuid"

	"github.com/spaghettifunk/tessera/engine/geometry"
	"github.com/spaghettifunk/tessera/engine/math"
)

/**
 * @brief One placed mesh inside a composed scene.
 *
 * Source keeps the path exactly as the deck declared it; Name is the base
 * name used for reporting and cleaned-file naming. The mesh is already
 * deduplicated, repaired and translated into scene space.
 */
type SceneObject struct {
	Name        string
	Source      string
	Translation math.Vec3
	Mesh        *geometry.Mesh
	Stats       ObjectStats
}

// ObjectStats reports what ingestion did to one mesh.
type ObjectStats struct {
	// RawTriangles is the number of data rows parsed from the surf file.
	RawTriangles int
	// DeclaredCount is the header count, -1 when the file had none.
	DeclaredCount int
	// UniqueVertices counts the welded vertex pool after deduplication.
	UniqueVertices int
	// MergedVertices counts raw corners that collapsed onto earlier vertices.
	MergedVertices int
	// DroppedFaces counts degenerate faces removed by repair.
	DroppedFaces int
	// Elapsed covers parse, dedupe and repair for this file.
	Elapsed time.Duration
}

/**
 * @brief An ordered collection of placed objects with a cached global
 * bounding box.
 *
 * Objects keep deck order. The bounding box is recomputed lazily whenever
 * the object list changes, so repeated Bounds calls between edits are free.
 */
type Scene struct {
	ID      uuid.UUID
	Deck    string
	Objects []*SceneObject

	bounds      math.Extents3D
	boundsOK    bool
	boundsDirty bool
}

// NewScene creates an empty scene for the given deck with a fresh run id.
func NewScene(deck string) *Scene {
	return &Scene{
		ID:          uuid.New(),
		Deck:        deck,
		boundsDirty: true,
	}
}

// AddObject appends obj and invalidates the cached bounds.
func (s *Scene) AddObject(obj *SceneObject) {
	s.Objects = append(s.Objects, obj)
	s.boundsDirty = true
}

// Bounds returns the axis-aligned box spanning every vertex of every object,
// orphaned vertices included. ok is false while the scene holds no geometry.
func (s *Scene) Bounds() (math.Extents3D, bool) {
	if s.boundsDirty {
		s.recomputeBounds()
		s.boundsDirty = false
	}
	return s.bounds, s.boundsOK
}

func (s *Scene) recomputeBounds() {
	s.boundsOK = false
	for _, obj := range s.Objects {
		extents, ok := obj.Mesh.Extents()
		if !ok {
			continue
		}
		if !s.boundsOK {
			s.bounds = extents
			s.boundsOK = true
			continue
		}
		s.bounds = s.bounds.Union(extents)
	}
}

// TotalFaces sums the face counts across all objects.
func (s *Scene) TotalFaces() int {
	total := 0
	for _, obj := range s.Objects {
		total += len(obj.Mesh.Faces)
	}
	return total
}

// TotalVertices sums the vertex pool sizes across all objects.
func (s *Scene) TotalVertices() int {
	total := 0
	for _, obj := range s.Objects {
		total += len(obj.Mesh.Vertices)
	}
	return total
}
