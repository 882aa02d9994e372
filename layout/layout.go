// Package layout models a whole puzzle state: an ordered, index-addressable
// collection of tubes sharing one capacity. It delegates pour legality and
// execution to the tube package and adds whole-puzzle queries.
package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/pourbot/pourbot/tube"
)

// ErrIndexOutOfRange is returned when a pour references a tube index
// outside [0, NumTubes).
var ErrIndexOutOfRange = errors.New("tube index out of range")

// Pour records one transfusion: pour the top of tube From onto tube To.
type Pour struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

func (p Pour) String() string {
	return fmt.Sprintf("%d->%d", p.From, p.To)
}

// Layout is an ordered list of tubes. Tubes are interchangeable slots for
// the purposes of search deduplication (see CanonicalForm), but pours
// reference them by index.
type Layout struct {
	tubes    []*tube.Tube
	capacity int
}

// New builds a layout from a matrix of colors, one row per tube, bottom to
// top. Rows shorter than the capacity are partially filled tubes. A row
// longer than the capacity is a construction error, never truncated.
func New(capacity int, matrix [][]tube.Color) (*Layout, error) {
	l := &Layout{
		tubes:    make([]*tube.Tube, 0, len(matrix)),
		capacity: capacity,
	}
	for i, row := range matrix {
		t, err := tube.New(capacity, row...)
		if err != nil {
			return nil, fmt.Errorf("tube %d: %w", i, err)
		}
		l.tubes = append(l.tubes, t)
	}
	return l, nil
}

// Extend appends n empty tubes.
func (l *Layout) Extend(n int) {
	for i := 0; i < n; i++ {
		l.tubes = append(l.tubes, tube.Empty(l.capacity))
	}
}

func (l *Layout) NumTubes() int { return len(l.tubes) }
func (l *Layout) Capacity() int { return l.capacity }

// Tube returns the tube at index i. The caller must not mutate it outside
// of Pour.
func (l *Layout) Tube(i int) *tube.Tube { return l.tubes[i] }

// LayerCount returns the total number of layers across all tubes. It is
// invariant under pours.
func (l *Layout) LayerCount() int {
	return lo.SumBy(l.tubes, func(t *tube.Tube) int { return t.Len() })
}

func (l *Layout) checkIndices(i, j int) error {
	if i < 0 || i >= len(l.tubes) {
		return fmt.Errorf("%w: source %d of %d", ErrIndexOutOfRange, i, len(l.tubes))
	}
	if j < 0 || j >= len(l.tubes) {
		return fmt.Errorf("%w: destination %d of %d", ErrIndexOutOfRange, j, len(l.tubes))
	}
	return nil
}

// CanPour reports whether pouring tube i into tube j is legal. A self-pour
// is never legal. Out-of-range indices are an error.
func (l *Layout) CanPour(i, j int) (bool, error) {
	if err := l.checkIndices(i, j); err != nil {
		return false, err
	}
	if i == j {
		return false, nil
	}
	return l.tubes[i].CanPourInto(l.tubes[j]), nil
}

// Pour executes the transfusion from tube i into tube j. A self-pour is a
// silent no-op so callers can offer same-index pairs; an illegal pour or an
// out-of-range index is an error.
func (l *Layout) Pour(i, j int) error {
	if err := l.checkIndices(i, j); err != nil {
		return err
	}
	if i == j {
		return nil
	}
	_, err := l.tubes[i].PourInto(l.tubes[j])
	return err
}

// Solved reports whether every tube is in final state.
func (l *Layout) Solved() bool {
	return lo.EveryBy(l.tubes, func(t *tube.Tube) bool { return t.InFinalState() })
}

// CanonicalForm renders each tube as its comma-joined layer string, sorts
// the strings lexicographically and joins them with newlines. Two layouts
// differing only by a permutation of structurally identical tubes share the
// same canonical form.
func (l *Layout) CanonicalForm() string {
	forms := lo.Map(l.tubes, func(t *tube.Tube, _ int) string { return t.String() })
	sort.Strings(forms)
	return strings.Join(forms, "\n")
}

// Copy returns an independent deep copy of the layout.
func (l *Layout) Copy() *Layout {
	c := &Layout{
		tubes:    make([]*tube.Tube, len(l.tubes)),
		capacity: l.capacity,
	}
	for i, t := range l.tubes {
		c.tubes[i] = t.Copy()
	}
	return c
}

// String renders the tubes in index order, one per line, for logs and the
// shell. Unlike CanonicalForm it preserves tube order.
func (l *Layout) String() string {
	var sb strings.Builder
	for i, t := range l.tubes {
		fmt.Fprintf(&sb, "%2d |%s|\n", i, t.String())
	}
	return sb.String()
}
