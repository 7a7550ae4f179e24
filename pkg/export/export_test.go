package export

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/matzehuels/gittrophy/pkg/errors"
	"github.com/matzehuels/gittrophy/pkg/geometry"
	"github.com/matzehuels/gittrophy/pkg/history"
	"github.com/matzehuels/gittrophy/pkg/mesh"
	"github.com/matzehuels/gittrophy/pkg/trophy"
)

type plyFile struct {
	header   []string
	vertices []vec3.T
	faces    [][3]uint32
}

func readPLY(t *testing.T, data []byte) plyFile {
	t.Helper()
	r := bufio.NewReader(bytes.NewReader(data))
	var p plyFile
	var nv, nf int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("header: %v", err)
		}
		line = strings.TrimSuffix(line, "\n")
		p.header = append(p.header, line)
		if line == "end_header" {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 3 && fields[0] == "element" {
			n, _ := strconv.Atoi(fields[2])
			switch fields[1] {
			case "vertex":
				nv = n
			case "face":
				nf = n
			}
		}
	}
	for range nv {
		var v vec3.T
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			t.Fatalf("vertex: %v", err)
		}
		p.vertices = append(p.vertices, v)
	}
	for range nf {
		var count uint8
		var f [3]uint32
		if err := binary.Read(r, binary.BigEndian, &count); err != nil {
			t.Fatalf("face count: %v", err)
		}
		if count != 3 {
			t.Fatalf("face has %d indices", count)
		}
		if err := binary.Read(r, binary.BigEndian, &f); err != nil {
			t.Fatalf("face: %v", err)
		}
		p.faces = append(p.faces, f)
	}
	if rest, _ := io.ReadAll(r); len(rest) != 0 {
		t.Errorf("%d trailing bytes after faces", len(rest))
	}
	return p
}

func readSTL(t *testing.T, data []byte) []mesh.Triangle {
	t.Helper()
	var out []mesh.Triangle
	var cur mesh.Triangle
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 4 || fields[0] != "vertex" {
			continue
		}
		for i := range 3 {
			f, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				t.Fatalf("parse %q: %v", line, err)
			}
			cur[n][i] = f
		}
		n++
		if n == 3 {
			out = append(out, cur)
			n = 0
		}
	}
	return out
}

func sampleMesh() *mesh.Mesh {
	var h history.Histogram
	h[0], h[8], h[200] = 3, 1, 7
	m := mesh.New()
	trophy.Build(h, geometry.Default(), m)
	return m
}

func TestIndexDeduplicates(t *testing.T) {
	m := mesh.New()
	m.Append(mesh.Box(vec3.Zero, 1, 1, 1)...)
	im := Index(m)
	if len(im.Vertices) != 8 || len(im.Faces) != 12 {
		t.Errorf("vertices=%d faces=%d, want 8 and 12", len(im.Vertices), len(im.Faces))
	}
	for i, f := range im.Faces {
		for j, idx := range f {
			if im.Vertices[idx] != m.Faces()[i][j] {
				t.Fatalf("face %d corner %d maps to the wrong vertex", i, j)
			}
		}
	}
}

func TestWritePLY(t *testing.T) {
	m := sampleMesh()
	var buf bytes.Buffer
	if err := WritePLY(&buf, m); err != nil {
		t.Fatal(err)
	}
	p := readPLY(t, buf.Bytes())

	wantHeader := []string{
		"ply",
		"format binary_big_endian 1.0",
		"element vertex " + strconv.Itoa(len(p.vertices)),
		"property double x",
		"property double y",
		"property double z",
		"element face " + strconv.Itoa(m.Len()),
		"property list uchar uint vertex_indices",
		"end_header",
	}
	if strings.Join(p.header, "\n") != strings.Join(wantHeader, "\n") {
		t.Errorf("header:\n%s", strings.Join(p.header, "\n"))
	}
	if len(p.vertices) != len(Index(m).Vertices) {
		t.Errorf("vertex count %d does not match the vertex table", len(p.vertices))
	}
	for i, f := range p.faces {
		for j, idx := range f {
			if p.vertices[idx] != m.Faces()[i][j] {
				t.Fatalf("face %d corner %d: got %v want %v", i, j, p.vertices[idx], m.Faces()[i][j])
			}
		}
	}
}

func TestWriteSTL(t *testing.T) {
	m := sampleMesh()
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "solid gittrophy\n") || !strings.HasSuffix(out, "endsolid gittrophy\n") {
		t.Error("missing solid/endsolid lines")
	}
	if got := strings.Count(out, "facet normal"); got != m.Len() {
		t.Errorf("facets = %d, want %d", got, m.Len())
	}
	tris := readSTL(t, buf.Bytes())
	for i, tri := range tris {
		if tri != m.Faces()[i] {
			t.Fatalf("facet %d = %v, want %v", i, tri, m.Faces()[i])
		}
	}
}

func TestSTLRoundTripsAwkwardFloats(t *testing.T) {
	m := mesh.New()
	m.Add(
		vec3.T{0.1 + 0.2, 1e-17, math.Pi},
		vec3.T{-1.0 / 3.0, 123456789.123456789, 5e-324},
		vec3.T{math.MaxFloat64, -2.5, 7},
	)
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		t.Fatal(err)
	}
	if got := readSTL(t, buf.Bytes()); len(got) != 1 || got[0] != m.Faces()[0] {
		t.Errorf("round trip = %v, want %v", got, m.Faces()[0])
	}
}

func TestSTLNormals(t *testing.T) {
	m := mesh.New()
	m.Add(vec3.T{0, 0, 0}, vec3.T{2, 0, 0}, vec3.T{0, 2, 0})
	var buf bytes.Buffer
	WriteSTL(&buf, m)
	if !strings.Contains(buf.String(), "facet normal 0 0 1\n") {
		t.Errorf("unexpected normal:\n%s", buf.String())
	}
}

func TestPLYAndSTLShareVertices(t *testing.T) {
	m := sampleMesh()
	var ply, stl bytes.Buffer
	WritePLY(&ply, m)
	WriteSTL(&stl, m)

	stlVerts := map[vec3.T]bool{}
	for _, tri := range readSTL(t, stl.Bytes()) {
		for _, v := range tri {
			stlVerts[v] = true
		}
	}
	p := readPLY(t, ply.Bytes())
	for _, v := range p.vertices {
		if !stlVerts[v] {
			t.Errorf("PLY vertex %v has no STL counterpart", v)
		}
	}
	if len(stlVerts) != len(p.vertices) {
		t.Errorf("distinct vertices: STL %d, PLY %d", len(stlVerts), len(p.vertices))
	}
}

func TestSignedZeroKeepsBits(t *testing.T) {
	negZero := math.Copysign(0, -1)
	m := mesh.New()
	m.Add(vec3.T{0, 0, 0}, vec3.T{1, 0, 0}, vec3.T{0, 1, 0})
	m.Add(vec3.T{negZero, 0, 0}, vec3.T{0, 1, 0}, vec3.T{1, 0, 0})

	im := Index(m)
	if len(im.Vertices) != 4 {
		t.Fatalf("vertices = %d, want 4 (-0 and +0 kept apart)", len(im.Vertices))
	}

	var ply, stl bytes.Buffer
	if err := WritePLY(&ply, m); err != nil {
		t.Fatal(err)
	}
	if err := WriteSTL(&stl, m); err != nil {
		t.Fatal(err)
	}

	p := readPLY(t, ply.Bytes())
	corner := p.vertices[p.faces[1][0]]
	if !math.Signbit(corner[0]) {
		t.Errorf("PLY corner x = %v, want -0", corner[0])
	}
	tris := readSTL(t, stl.Bytes())
	if !math.Signbit(tris[1][0][0]) {
		t.Errorf("STL corner x = %v, want -0", tris[1][0][0])
	}
	if !strings.Contains(stl.String(), "vertex -0 0 0") {
		t.Errorf("STL should print the negative zero:\n%s", stl.String())
	}
}

func TestWriteFiles(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "trophy")
	paths, err := WriteFiles(sampleMesh(), stem)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != stem+".ply" || paths[1] != stem+".stl" {
		t.Errorf("paths = %v", paths)
	}
	for _, p := range paths {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}

func TestWriteFilesIOError(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "missing", "trophy")
	_, err := WriteFiles(sampleMesh(), stem)
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("error = %v, want IO", err)
	}
}
