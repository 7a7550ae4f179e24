package export

import (
	"bufio"
	"io"
	"strconv"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/matzehuels/gittrophy/pkg/mesh"
)

// SolidName is the name written on the solid/endsolid lines.
const SolidName = "gittrophy"

// WriteSTL writes m as ASCII STL. Coordinates use the shortest
// representation that parses back to the same float64.
func WriteSTL(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("solid " + SolidName + "\n")
	for _, tri := range m.Faces() {
		n := tri.Normal()
		bw.WriteString("  facet normal ")
		writeVec(bw, n)
		bw.WriteString("\n    outer loop\n")
		for _, v := range tri {
			bw.WriteString("      vertex ")
			writeVec(bw, v)
			bw.WriteByte('\n')
		}
		bw.WriteString("    endloop\n  endfacet\n")
	}
	bw.WriteString("endsolid " + SolidName + "\n")
	return bw.Flush()
}

func writeVec(bw *bufio.Writer, v vec3.T) {
	var buf []byte
	for i, c := range v {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendFloat(buf, c, 'g', -1, 64)
	}
	bw.Write(buf)
}
