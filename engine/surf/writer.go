package surf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
)

const cleanedComment = "# cleaned SPARTA surface"

// WriteMesh serializes the mesh in the surf triangle format: a comment line,
// the count header restated with the surviving face count, the section
// marker, then one row per face with ids renumbered from 1 and coordinates in
// %.6e scientific notation. Data rows follow the marker immediately.
func WriteMesh(w io.Writer, mesh *geometry.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, cleanedComment)
	fmt.Fprintf(bw, "%d %s\n", len(mesh.Faces), strings.ToLower(SectionKeyword))
	fmt.Fprintln(bw, SectionKeyword)
	for i, f := range mesh.Faces {
		v1 := mesh.Vertices[f[0]]
		v2 := mesh.Vertices[f[1]]
		v3 := mesh.Vertices[f[2]]
		fmt.Fprintf(bw, "%d %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e\n",
			i+1, v1.X, v1.Y, v1.Z, v2.X, v2.Y, v2.Z, v3.X, v3.Y, v3.Z)
	}
	return bw.Flush()
}

// WriteMeshFile writes the mesh to path, creating or truncating the file.
func WriteMeshFile(path string, mesh *geometry.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	if err := WriteMesh(f, mesh); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	core.LogDebug("wrote %d faces to %s", len(mesh.Faces), path)
	return nil
}

// CleanedName maps a source filename onto its cleaned counterpart:
// "cupola.surf" becomes "cupola_clean.surf".
func CleanedName(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == "" {
		return base + "_clean.surf"
	}
	return strings.TrimSuffix(base, ext) + "_clean" + ext
}
