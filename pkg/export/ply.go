package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/matzehuels/gittrophy/pkg/mesh"
)

// IndexedMesh is a vertex table plus faces referencing it.
type IndexedMesh struct {
	Vertices []vec3.T
	Faces    [][3]uint32
}

// vertexKey is the bit pattern of a vertex. Comparing bits keeps -0 and +0
// apart, which float equality would merge.
type vertexKey [3]uint64

func keyOf(v vec3.T) vertexKey {
	return vertexKey{math.Float64bits(v[0]), math.Float64bits(v[1]), math.Float64bits(v[2])}
}

// Index deduplicates the vertices of m by their exact bit pattern, so every
// PLY vertex decodes to the same doubles the STL prints. Vertices keep the
// order of their first appearance and face winding is preserved.
func Index(m *mesh.Mesh) IndexedMesh {
	seen := make(map[vertexKey]uint32)
	out := IndexedMesh{Faces: make([][3]uint32, 0, m.Len())}
	for _, tri := range m.Faces() {
		var f [3]uint32
		for j, v := range tri {
			k := keyOf(v)
			idx, ok := seen[k]
			if !ok {
				idx = uint32(len(out.Vertices))
				seen[k] = idx
				out.Vertices = append(out.Vertices, v)
			}
			f[j] = idx
		}
		out.Faces = append(out.Faces, f)
	}
	return out
}

// WritePLY writes m as binary big-endian PLY with double coordinates.
func WritePLY(w io.Writer, m *mesh.Mesh) error {
	im := Index(m)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "ply\nformat binary_big_endian 1.0\n")
	fmt.Fprintf(bw, "element vertex %d\n", len(im.Vertices))
	fmt.Fprintf(bw, "property double x\nproperty double y\nproperty double z\n")
	fmt.Fprintf(bw, "element face %d\n", len(im.Faces))
	fmt.Fprintf(bw, "property list uchar uint vertex_indices\n")
	fmt.Fprintf(bw, "end_header\n")

	var buf [8]byte
	for _, v := range im.Vertices {
		for _, c := range v {
			binary.BigEndian.PutUint64(buf[:], math.Float64bits(c))
			bw.Write(buf[:])
		}
	}
	for _, f := range im.Faces {
		bw.WriteByte(3)
		for _, idx := range f {
			binary.BigEndian.PutUint32(buf[:4], idx)
			bw.Write(buf[:4])
		}
	}
	return bw.Flush()
}
