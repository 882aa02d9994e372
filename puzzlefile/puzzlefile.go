// Package puzzlefile reads and writes puzzle descriptions as YAML. Layers
// are written as human-readable color names; the package assigns each
// distinct name a numeric Color id in first-seen order and keeps the
// palette so solutions can be rendered back with names.
package puzzlefile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pourbot/pourbot/tube"
)

// Puzzle is the on-disk form of a puzzle. Tubes are listed bottom to top;
// rows shorter than the capacity are partially filled tubes. Method is
// optional and falls back to the configured default when empty.
type Puzzle struct {
	Capacity int        `yaml:"capacity"`
	Tubes    [][]string `yaml:"tubes"`
	Method   string     `yaml:"method,omitempty"`
}

// Parse decodes a YAML puzzle.
func Parse(data []byte) (*Puzzle, error) {
	var p Puzzle
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing puzzle: %w", err)
	}
	if p.Capacity <= 0 {
		return nil, fmt.Errorf("puzzle capacity must be positive, got %d", p.Capacity)
	}
	if len(p.Tubes) == 0 {
		return nil, fmt.Errorf("puzzle has no tubes")
	}
	return &p, nil
}

// Load reads and parses a puzzle file.
func Load(path string) (*Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Marshal encodes the puzzle back to YAML.
func (p *Puzzle) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// Palette maps between color names and Color ids for one puzzle.
type Palette struct {
	names []string
	ids   map[string]tube.Color
}

// Name returns the name for a color id assigned by Matrix.
func (pal *Palette) Name(c tube.Color) string {
	i := int(c) - 1
	if i < 0 || i >= len(pal.names) {
		return fmt.Sprintf("color-%d", c)
	}
	return pal.names[i]
}

// Size returns the number of distinct colors.
func (pal *Palette) Size() int { return len(pal.names) }

// Matrix converts the named layers into a color matrix for the solver,
// assigning ids 1, 2, ... in order of first appearance. Tube rows longer
// than the capacity are rejected here, before any layout is built, so the
// error carries the file's terms rather than the solver's.
func (p *Puzzle) Matrix() ([][]tube.Color, *Palette, error) {
	pal := &Palette{ids: make(map[string]tube.Color)}
	matrix := make([][]tube.Color, len(p.Tubes))
	for i, row := range p.Tubes {
		if len(row) > p.Capacity {
			return nil, nil, fmt.Errorf(
				"tube %d holds %d layers but capacity is %d", i, len(row), p.Capacity)
		}
		matrix[i] = make([]tube.Color, len(row))
		for k, name := range row {
			id, ok := pal.ids[name]
			if !ok {
				if len(pal.names) >= 255 {
					return nil, nil, fmt.Errorf("too many distinct colors (max 255)")
				}
				pal.names = append(pal.names, name)
				id = tube.Color(len(pal.names))
				pal.ids[name] = id
			}
			matrix[i][k] = id
		}
	}
	return matrix, pal, nil
}
