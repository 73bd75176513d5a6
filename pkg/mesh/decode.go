package mesh

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/chazu/lathser/pkg/logging"
)

// jsonModel mirrors the exported model format:
//
//	{"meshes": [{"vertices": [x0,y0,z0, ...], "normals": [...], "faces": [[i,j,k], ...]}]}
//
// Normals are carried by the format but recomputed from winding.
type jsonModel struct {
	Meshes []jsonMesh `json:"meshes"`
}

type jsonMesh struct {
	Vertices []float64 `json:"vertices"`
	Normals  []float64 `json:"normals"`
	Faces    [][]int   `json:"faces"`
}

// Decode reads a JSON model from r, flattens every sub-mesh into one
// triangle list and applies rotations quarter turns about X.
func Decode(r io.Reader, rotations int) (*Mesh, error) {
	var doc jsonModel
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("mesh: decode: %w", err)
	}

	var tris []geom.Triangle3D
	for mi, jm := range doc.Meshes {
		if len(jm.Vertices)%3 != 0 {
			return nil, fmt.Errorf("mesh: mesh %d: vertex array length %d is not a multiple of 3", mi, len(jm.Vertices))
		}
		verts := make([]geom.Vec3, len(jm.Vertices)/3)
		for i := range verts {
			verts[i] = geom.V3(jm.Vertices[i*3], jm.Vertices[i*3+1], jm.Vertices[i*3+2])
		}

		for fi, face := range jm.Faces {
			if len(face) != 3 {
				return nil, fmt.Errorf("mesh: mesh %d face %d: expected 3 indices, got %d", mi, fi, len(face))
			}
			for _, idx := range face {
				if idx < 0 || idx >= len(verts) {
					return nil, fmt.Errorf("mesh: mesh %d face %d: vertex index %d out of range [0,%d)", mi, fi, idx, len(verts))
				}
			}
			tris = append(tris, geom.NewTriangle3D(verts[face[0]], verts[face[1]], verts[face[2]]))
		}
	}

	m := New(tris)
	if rotations != 0 {
		m = m.RotateX90(rotations)
	}
	logging.Logger().Debug("decoded model", "meshes", len(doc.Meshes), "triangles", m.TriangleCount())
	return m, nil
}

// Load opens path and decodes it with Decode.
func Load(path string, rotations int) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: load: %w", err)
	}
	defer f.Close()

	m, err := Decode(f, rotations)
	if err != nil {
		return nil, fmt.Errorf("mesh: load %s: %w", path, err)
	}
	m.Name = filepath.Base(path)
	return m, nil
}
