package scene

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

// Manifest is the TOML document written next to the cleaned surf files. It
// summarizes the composed scene for downstream tools without repeating the
// vertex data.
type Manifest struct {
	Scene   ManifestScene    `toml:"scene"`
	Bounds  *ManifestBounds  `toml:"bounds,omitempty"`
	Objects []ManifestObject `toml:"objects"`
}

type ManifestScene struct {
	ID         string    `toml:"id"`
	Deck       string    `toml:"deck"`
	ComposedAt time.Time `toml:"composed_at"`
	Objects    int       `toml:"objects"`
	Faces      int       `toml:"faces"`
	Vertices   int       `toml:"vertices"`
}

type ManifestBounds struct {
	Min    [3]float64 `toml:"min"`
	Max    [3]float64 `toml:"max"`
	Center [3]float64 `toml:"center"`
	Size   [3]float64 `toml:"size"`
}

type ManifestObject struct {
	Name        string     `toml:"name"`
	Source      string     `toml:"source"`
	Cleaned     string     `toml:"cleaned,omitempty"`
	Translation [3]float64 `toml:"translation"`
	Triangles   int        `toml:"triangles"`
	Vertices    int        `toml:"vertices"`
	Faces       int        `toml:"faces"`
	Merged      int        `toml:"merged_vertices"`
	Dropped     int        `toml:"dropped_faces"`
	SurfaceArea float64    `toml:"surface_area"`
}

// BuildManifest flattens the scene for serialization. cleaned maps object
// index to the cleaned filename written for it, nil when none were written.
func BuildManifest(s *Scene, cleaned map[int]string) *Manifest {
	manifest := &Manifest{
		Scene: ManifestScene{
			ID:         s.ID.String(),
			Deck:       s.Deck,
			ComposedAt: time.Now().UTC(),
			Objects:    len(s.Objects),
			Faces:      s.TotalFaces(),
			Vertices:   s.TotalVertices(),
		},
	}

	if bounds, ok := s.Bounds(); ok {
		center := bounds.Center()
		size := bounds.Size()
		manifest.Bounds = &ManifestBounds{
			Min:    vecArray(bounds.Min),
			Max:    vecArray(bounds.Max),
			Center: vecArray(center),
			Size:   vecArray(size),
		}
	}

	manifest.Objects = make([]ManifestObject, 0, len(s.Objects))
	for i, obj := range s.Objects {
		entry := ManifestObject{
			Name:        obj.Name,
			Source:      obj.Source,
			Translation: vecArray(obj.Translation),
			Triangles:   obj.Stats.RawTriangles,
			Vertices:    len(obj.Mesh.Vertices),
			Faces:       len(obj.Mesh.Faces),
			Merged:      obj.Stats.MergedVertices,
			Dropped:     obj.Stats.DroppedFaces,
			SurfaceArea: obj.Mesh.SurfaceArea(),
		}
		if cleaned != nil {
			entry.Cleaned = cleaned[i]
		}
		manifest.Objects = append(manifest.Objects, entry)
	}
	return manifest
}

// WriteManifest marshals the manifest as TOML to path.
func WriteManifest(path string, manifest *Manifest) error {
	data, err := toml.Marshal(manifest)
	if err != nil {
		core.LogError("marshaling manifest: %v", err)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("wrote manifest %s", path)
	return nil
}

func vecArray(v math.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
