package geometry

import (
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

// DefaultVertexTolerance is the per-axis distance below which two coordinate
// triples count as the same vertex.
const DefaultVertexTolerance = 1e-12

// DedupeConfig carries the welding tolerance. It travels explicitly through
// every call so concurrent pipelines with different tolerances never
// interfere.
type DedupeConfig struct {
	Tolerance float64
}

func DefaultDedupeConfig() DedupeConfig {
	return DedupeConfig{Tolerance: DefaultVertexTolerance}
}

// bucketKey is a vertex position quantized to the tolerance unit.
type bucketKey [3]int64

// vertexIndexer welds near-identical vertices while preserving insertion
// order. Buckets quantized to the tolerance unit keep lookups near O(1); any
// vertex within tolerance of the query lies in one of the 27 buckets around
// the query's own cell, so candidate scans stay tiny.
type vertexIndexer struct {
	tolerance float64
	vertices  []math.Vec3
	buckets   map[bucketKey][]uint32
}

func newVertexIndexer(tolerance float64) *vertexIndexer {
	return &vertexIndexer{
		tolerance: tolerance,
		buckets:   make(map[bucketKey][]uint32),
	}
}

func (ix *vertexIndexer) keyFor(v math.Vec3) bucketKey {
	return bucketKey{
		math.Quantize(v.X, ix.tolerance),
		math.Quantize(v.Y, ix.tolerance),
		math.Quantize(v.Z, ix.tolerance),
	}
}

// findOrAdd returns the index of the canonical vertex for v, appending v when
// no stored vertex lies within tolerance. Among matching candidates the
// lowest stored index wins, which keeps the first inserted vertex canonical
// exactly as a linear scan over the whole buffer would.
func (ix *vertexIndexer) findOrAdd(v math.Vec3) uint32 {
	key := ix.keyFor(v)

	found := false
	var canonical uint32
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				neighbor := bucketKey{key[0] + dx, key[1] + dy, key[2] + dz}
				for _, idx := range ix.buckets[neighbor] {
					if !ix.vertices[idx].Compare(v, ix.tolerance) {
						continue
					}
					if !found || idx < canonical {
						found = true
						canonical = idx
					}
				}
			}
		}
	}
	if found {
		return canonical
	}

	idx := uint32(len(ix.vertices))
	ix.vertices = append(ix.vertices, v)
	ix.buckets[key] = append(ix.buckets[key], idx)
	return idx
}

// Deduplicate converts raw triangles into the unrepaired indexed mesh.
// Corners are welded in file order, v1 then v2 then v3 per triangle, and the
// first inserted vertex within tolerance is always the canonical
// representative. Later near-duplicates never replace it. The equivalence is
// order-sensitive, not transitive: when A matches B and B matches C but A
// sits too far from C, class membership depends on which corner arrived
// first.
func Deduplicate(raw []RawTriangle, config DedupeConfig) *Mesh {
	tolerance := config.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultVertexTolerance
	}

	ix := newVertexIndexer(tolerance)
	faces := make([]Face, 0, len(raw))
	for _, tri := range raw {
		var f Face
		for c := 0; c < 3; c++ {
			f[c] = ix.findOrAdd(tri.Verts[c])
		}
		faces = append(faces, f)
	}

	merged := 3*len(raw) - len(ix.vertices)
	core.LogDebug("deduplicate: %d corners welded into %d vertices (%d merged)", 3*len(raw), len(ix.vertices), merged)

	return &Mesh{Vertices: ix.vertices, Faces: faces}
}
