package mesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Triangle is a single face given by three corner points.
type Triangle [3]vec3.T

// Normal returns the unit normal of the triangle using the right-hand rule
// on the corner order. Degenerate triangles yield the zero vector.
func (t Triangle) Normal() vec3.T {
	e1 := vec3.Sub(&t[1], &t[0])
	e2 := vec3.Sub(&t[2], &t[0])
	n := vec3.Cross(&e1, &e2)
	l := n.Length()
	if l == 0 {
		return vec3.Zero
	}
	return n.Scaled(1 / l)
}

// Centroid returns the mean of the three corners.
func (t Triangle) Centroid() vec3.T {
	c := vec3.Add(&t[0], &t[1])
	c.Add(&t[2])
	return c.Scaled(1.0 / 3.0)
}

// Mesh is an append-only triangle soup.
type Mesh struct {
	faces []Triangle
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// Add appends one face.
func (m *Mesh) Add(a, b, c vec3.T) {
	m.faces = append(m.faces, Triangle{a, b, c})
}

// Append appends faces in order.
func (m *Mesh) Append(faces ...Triangle) {
	m.faces = append(m.faces, faces...)
}

// Faces returns the faces in insertion order. The slice aliases the mesh
// storage and must not be modified.
func (m *Mesh) Faces() []Triangle {
	return m.faces
}

// Len returns the number of faces.
func (m *Mesh) Len() int {
	return len(m.faces)
}

// IsEmpty returns true if the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return len(m.faces) == 0
}

// Bounds returns the axis-aligned bounding box of all face corners.
// ok is false for an empty mesh.
func (m *Mesh) Bounds() (min, max vec3.T, ok bool) {
	return BoundsOf(m.faces)
}

// BoundsOf returns the axis-aligned bounding box of the given faces.
func BoundsOf(faces []Triangle) (min, max vec3.T, ok bool) {
	if len(faces) == 0 {
		return vec3.Zero, vec3.Zero, false
	}
	min = vec3.T{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = vec3.T{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, f := range faces {
		for _, p := range f {
			for i := 0; i < 3; i++ {
				min[i] = math.Min(min[i], p[i])
				max[i] = math.Max(max[i], p[i])
			}
		}
	}
	return min, max, true
}
