package mesh

import "github.com/ungerik/go3d/float64/vec3"

// Hexahedron returns the 12 faces of a six-sided solid from its corners.
// p[0..3] is the bottom quad and p[4..7] the top quad, both counter-clockwise
// seen from above starting at the (-x, -y) corner; p[i+4] sits above p[i].
func Hexahedron(p [8]vec3.T) []Triangle {
	return []Triangle{
		{p[0], p[2], p[1]},
		{p[0], p[3], p[2]}, // bottom
		{p[4], p[5], p[6]},
		{p[4], p[6], p[7]}, // top
		{p[3], p[0], p[4]},
		{p[3], p[4], p[7]}, // left
		{p[1], p[2], p[6]},
		{p[1], p[6], p[5]}, // right
		{p[0], p[1], p[5]},
		{p[0], p[5], p[4]}, // front
		{p[2], p[3], p[7]},
		{p[2], p[7], p[6]}, // back
	}
}

// Frustum returns the faces of a rectangular frustum centered on center.
// The bottom face is bottomLength x bottomWidth, the top face is
// topLength x topWidth, and both are height apart.
func Frustum(center vec3.T, topLength, topWidth, bottomLength, bottomWidth, height float64) []Triangle {
	htl, htw := topLength*0.5, topWidth*0.5
	hbl, hbw := bottomLength*0.5, bottomWidth*0.5
	hh := height * 0.5
	x, y, z := center[0], center[1], center[2]

	return Hexahedron([8]vec3.T{
		{x - hbl, y - hbw, z - hh},
		{x + hbl, y - hbw, z - hh},
		{x + hbl, y + hbw, z - hh},
		{x - hbl, y + hbw, z - hh},
		{x - htl, y - htw, z + hh},
		{x + htl, y - htw, z + hh},
		{x + htl, y + htw, z + hh},
		{x - htl, y + htw, z + hh},
	})
}

// Box returns the faces of an axis-aligned rectangular prism centered on center.
func Box(center vec3.T, length, width, height float64) []Triangle {
	return Frustum(center, length, width, length, width, height)
}
