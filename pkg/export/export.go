// Package export serializes trophy meshes.
//
// Two formats are written side by side from the same stem:
//
//   - <stem>.ply: binary big-endian PLY, double coordinates, indexed faces
//   - <stem>.stl: ASCII STL, one facet per triangle
//
// Both encode identical geometry. PLY shares vertices through a
// deduplicated table, STL repeats them per facet.
package export

import (
	"io"
	"os"

	"github.com/matzehuels/gittrophy/pkg/errors"
	"github.com/matzehuels/gittrophy/pkg/mesh"
)

// Format names a supported output encoding.
type Format string

// Supported formats. The value doubles as the file extension.
const (
	FormatPLY Format = "ply"
	FormatSTL Format = "stl"
)

// Formats lists every format WriteFiles produces, in write order.
var Formats = []Format{FormatPLY, FormatSTL}

// Writer returns the encoder for f.
func Writer(f Format) func(io.Writer, *mesh.Mesh) error {
	switch f {
	case FormatPLY:
		return WritePLY
	case FormatSTL:
		return WriteSTL
	}
	return nil
}

// Path returns the output path of format f for stem.
func Path(stem string, f Format) string {
	return stem + "." + string(f)
}

// WriteFiles writes every format for stem and returns the paths written.
// A failure stops the export with an IO error; files already written stay.
func WriteFiles(m *mesh.Mesh, stem string) ([]string, error) {
	paths := make([]string, 0, len(Formats))
	for _, f := range Formats {
		p := Path(stem, f)
		if err := writeFile(p, m, Writer(f)); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeFile(path string, m *mesh.Mesh, encode func(io.Writer, *mesh.Mesh) error) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := encode(out, m); err != nil {
		out.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}
