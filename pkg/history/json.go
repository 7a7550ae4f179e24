package history

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/gittrophy/pkg/errors"
)

// Heightmap is the JSON form of a histogram.
//
//	{"year": 2024, "commits": [0, 3, 1, ...]}
//
// Year is null when no year filter was applied.
type Heightmap struct {
	Year    *int  `json:"year"`
	Commits []int `json:"commits"`
}

// NewHeightmap wraps h for encoding.
func NewHeightmap(h Histogram, year *int) Heightmap {
	return Heightmap{Year: year, Commits: h[:]}
}

// Histogram validates the decoded counts and returns them as a Histogram.
func (m Heightmap) Histogram() (Histogram, error) {
	var h Histogram
	if len(m.Commits) != Days {
		return h, errors.New(errors.ErrCodeConfig, "heightmap has %d days, want %d", len(m.Commits), Days)
	}
	for d, c := range m.Commits {
		if c < 0 {
			return Histogram{}, errors.New(errors.ErrCodeConfig, "heightmap day %d has negative count %d", d, c)
		}
		h[d] = c
	}
	return h, nil
}

// WriteJSON encodes h as an indented heightmap.
func WriteJSON(w io.Writer, h Histogram, year *int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewHeightmap(h, year))
}

// ReadJSON decodes and validates a heightmap.
func ReadJSON(r io.Reader) (Histogram, *int, error) {
	var m Heightmap
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Histogram{}, nil, errors.Wrap(errors.ErrCodeConfig, err, "decode heightmap")
	}
	h, err := m.Histogram()
	return h, m.Year, err
}

// WriteFile writes h to path.
func WriteFile(path string, h Histogram, year *int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := WriteJSON(f, h, year); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}

// ReadFile reads a heightmap from path.
func ReadFile(path string) (Histogram, *int, error) {
	f, err := os.Open(path)
	if err != nil {
		return Histogram{}, nil, errors.Wrap(errors.ErrCodeConfig, err, "open heightmap")
	}
	defer f.Close()
	return ReadJSON(f)
}
