// Package mesh provides the triangle-soup mesh that the trophy is built into.
//
// A [Mesh] is an append-only collection of independent triangles. Faces are
// never edited or removed and no adjacency is tracked; the exporter may build
// a vertex table when it writes indexed formats, but the mesh itself stays a
// flat arena of faces.
//
// # Solids
//
// [Frustum] and [Box] produce the 12 triangles of a closed six-sided solid
// with a rectangular top and bottom. Every face is wound counter-clockwise
// when seen from outside, so the right-hand-rule normal points outward:
//
//	faces := mesh.Box(vec3.T{0, 0, 0.5}, 1, 1, 1)
//	m := mesh.New()
//	m.Append(faces...)
//
// # Concurrency
//
// A Mesh is owned by a single build and is not safe for concurrent use.
package mesh
