package geometry

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

// DefaultDegenerateArea is the doubled-area floor below which a face is
// treated as degenerate and dropped.
const DefaultDegenerateArea = 1e-10

// Axis names a coordinate axis for the orientation flip transform.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "none"
}

// ParseAxis maps a configuration token onto an Axis. Empty and "none" both
// mean no flip.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AxisNone, nil
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisNone, fmt.Errorf("unknown flip axis %q", s)
}

// RepairConfig controls the two repair passes. Both are independent and
// skippable.
type RepairConfig struct {
	// DegenerateArea is the doubled-area epsilon below which a face is
	// dropped. Zero falls back to the default.
	DegenerateArea float64
	// Flip mirrors the mesh by negating one coordinate axis across every
	// vertex. Applying it to an already-correct mesh inverts it, so there is
	// no implicit default; callers name the axis or get no flip.
	Flip Axis
	// Compact drops orphaned vertices after filtering and renumbers the
	// remaining face indices.
	Compact bool
	// SkipDegeneracyFilter leaves degenerate faces in place.
	SkipDegeneracyFilter bool
}

func DefaultRepairConfig() RepairConfig {
	return RepairConfig{DegenerateArea: DefaultDegenerateArea}
}

// RepairStats reports what a repair pass changed.
type RepairStats struct {
	DroppedFaces      int
	CompactedVertices int
	Flipped           Axis
}

// Repair runs the degeneracy filter, the optional orientation flip and the
// optional vertex compaction over the mesh in place. name identifies the
// source file in errors and logs. A filter pass that drops every face fails
// with DegenerateMeshError instead of handing back an empty mesh.
func Repair(m *Mesh, name string, config RepairConfig) (RepairStats, error) {
	var stats RepairStats

	if !config.SkipDegeneracyFilter {
		epsilon := config.DegenerateArea
		if epsilon <= 0 {
			epsilon = DefaultDegenerateArea
		}
		stats.DroppedFaces = FilterDegenerateFaces(m, epsilon)
		if stats.DroppedFaces > 0 && len(m.Faces) == 0 {
			err := &core.DegenerateMeshError{Name: name, Dropped: stats.DroppedFaces}
			core.LogError(err.Error())
			return stats, err
		}
	}

	if config.Flip != AxisNone {
		FlipAxis(m, config.Flip)
		stats.Flipped = config.Flip
	}

	if config.Compact {
		stats.CompactedVertices = CompactVertices(m)
	}

	return stats, nil
}

// FilterDegenerateFaces drops every face whose doubled area falls below
// epsilon and returns the dropped count. Orphaned vertices stay in the
// buffer; compaction is a separate, explicit step since renumbering must also
// rewrite the remaining faces. Running the filter on its own output drops
// nothing further.
func FilterDegenerateFaces(m *Mesh, epsilon float64) int {
	kept := m.Faces[:0]
	dropped := 0
	for _, f := range m.Faces {
		area := math.TriangleAreaDoubled(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
		if area < epsilon {
			dropped++
			continue
		}
		kept = append(kept, f)
	}
	m.Faces = kept

	if dropped > 0 {
		core.LogDebug("degeneracy filter dropped %d faces, %d remain", dropped, len(m.Faces))
	}
	return dropped
}

// FlipAxis negates the given coordinate axis across every vertex, mirroring
// the whole mesh. This is a blunt global heuristic for matching an external
// orientation convention, not a per-face winding repair.
func FlipAxis(m *Mesh, axis Axis) {
	switch axis {
	case AxisX:
		for i := range m.Vertices {
			m.Vertices[i].X = -m.Vertices[i].X
		}
	case AxisY:
		for i := range m.Vertices {
			m.Vertices[i].Y = -m.Vertices[i].Y
		}
	case AxisZ:
		for i := range m.Vertices {
			m.Vertices[i].Z = -m.Vertices[i].Z
		}
	}
}

// CompactVertices drops vertices referenced by no face, rewrites the face
// indices against the compacted buffer and returns the number of removed
// vertices.
func CompactVertices(m *Mesh) int {
	referenced := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		referenced[f[0]] = true
		referenced[f[1]] = true
		referenced[f[2]] = true
	}

	remap := make([]uint32, len(m.Vertices))
	kept := m.Vertices[:0]
	next := uint32(0)
	for i, used := range referenced {
		if !used {
			continue
		}
		remap[i] = next
		kept = append(kept, m.Vertices[i])
		next++
	}
	removed := len(m.Vertices) - int(next)
	m.Vertices = kept

	for i := range m.Faces {
		m.Faces[i] = Face{remap[m.Faces[i][0]], remap[m.Faces[i][1]], remap[m.Faces[i][2]]}
	}

	if removed > 0 {
		core.LogDebug("compacted %d orphaned vertices, %d remain", removed, len(m.Vertices))
	}
	return removed
}
