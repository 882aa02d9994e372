// Package tube models a single container of a color-sort puzzle: an ordered
// stack of colored layers with a fixed capacity shared by every tube in a
// puzzle. The pour (transfusion) rule lives here.
package tube

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrTubeOverflow is returned when a tube is constructed with more
	// layers than its capacity allows.
	ErrTubeOverflow = errors.New("tube contents exceed capacity")
	// ErrInvalidPour is returned by PourInto when the transfusion rule
	// does not permit the pour.
	ErrInvalidPour = errors.New("invalid pour")
)

// Color identifies one layer. Zero is reserved; real layers are nonzero.
// Only equality matters; there is no ordering between colors.
type Color uint8

// Tube is an ordered stack of layers, bottom to top. The zero value is not
// usable; create tubes with New or Empty.
type Tube struct {
	layers   []Color
	capacity int
}

// New creates a tube with the given capacity and initial layers, bottom to
// top. It fails with ErrTubeOverflow rather than truncating.
func New(capacity int, layers ...Color) (*Tube, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	if len(layers) > capacity {
		return nil, fmt.Errorf("%w: %d layers in a tube of capacity %d",
			ErrTubeOverflow, len(layers), capacity)
	}
	t := &Tube{
		layers:   make([]Color, len(layers), capacity),
		capacity: capacity,
	}
	copy(t.layers, layers)
	return t, nil
}

// Empty creates an empty tube with the given capacity.
func Empty(capacity int) *Tube {
	t, _ := New(capacity)
	return t
}

func (t *Tube) Len() int      { return len(t.layers) }
func (t *Tube) Capacity() int { return t.capacity }
func (t *Tube) IsEmpty() bool { return len(t.layers) == 0 }
func (t *Tube) IsFull() bool  { return len(t.layers) == t.capacity }

// Free returns the number of layers that still fit.
func (t *Tube) Free() int { return t.capacity - len(t.layers) }

// Top returns the topmost layer. It must not be called on an empty tube.
func (t *Tube) Top() Color { return t.layers[len(t.layers)-1] }

// Layers returns a copy of the layer stack, bottom to top.
func (t *Tube) Layers() []Color {
	out := make([]Color, len(t.layers))
	copy(out, t.layers)
	return out
}

// TopRun returns the length of the maximal run of equal-color layers at the
// top of the tube; zero for an empty tube.
func (t *Tube) TopRun() int {
	if t.IsEmpty() {
		return 0
	}
	top := t.Top()
	run := 0
	for i := len(t.layers) - 1; i >= 0 && t.layers[i] == top; i-- {
		run++
	}
	return run
}

// InFinalState reports whether the tube needs no further pours: it is empty,
// or full with every layer the same color.
func (t *Tube) InFinalState() bool {
	if t.IsEmpty() {
		return true
	}
	if !t.IsFull() {
		return false
	}
	first := t.layers[0]
	for _, c := range t.layers[1:] {
		if c != first {
			return false
		}
	}
	return true
}

// InRelaxedFinalState reports whether the tube is empty or full, ignoring
// color uniformity. This is the acceptance rule used when synthesizing
// puzzle fixtures; the solver never consults it.
func (t *Tube) InRelaxedFinalState() bool {
	return t.IsEmpty() || t.IsFull()
}

// CanPourInto reports whether pouring from t into dst is legal: t is
// non-empty, dst has free space, and dst is empty or its top color matches
// t's top color. It never mutates either tube.
func (t *Tube) CanPourInto(dst *Tube) bool {
	if t.IsEmpty() || dst.IsFull() {
		return false
	}
	if dst.IsEmpty() {
		return true
	}
	return t.Top() == dst.Top()
}

// PourInto moves min(top run of t, free space of dst) layers from the top
// of t onto dst, returning the number of layers moved. It fails with
// ErrInvalidPour if CanPourInto would return false; callers are expected to
// check legality first.
func (t *Tube) PourInto(dst *Tube) (int, error) {
	if !t.CanPourInto(dst) {
		return 0, ErrInvalidPour
	}
	moved := t.TopRun()
	if free := dst.Free(); moved > free {
		moved = free
	}
	color := t.Top()
	for i := 0; i < moved; i++ {
		dst.layers = append(dst.layers, color)
	}
	t.layers = t.layers[:len(t.layers)-moved]
	return moved, nil
}

// Copy returns an independent deep copy.
func (t *Tube) Copy() *Tube {
	c := &Tube{
		layers:   make([]Color, len(t.layers), t.capacity),
		capacity: t.capacity,
	}
	copy(c.layers, t.layers)
	return c
}

// String renders the layer stack bottom to top as comma-joined color ids,
// e.g. "3,3,1". An empty tube renders as "".
func (t *Tube) String() string {
	var sb strings.Builder
	for i, c := range t.layers {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(c)))
	}
	return sb.String()
}
