package tube

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"lukechampine.com/frand"
)

const (
	A Color = iota + 1
	B
	X
	Y
)

func mustNew(t *testing.T, capacity int, layers ...Color) *Tube {
	t.Helper()
	tb, err := New(capacity, layers...)
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

func TestNewOverflow(t *testing.T) {
	is := is.New(t)
	_, err := New(2, A, A, B)
	is.True(errors.Is(err, ErrTubeOverflow))

	_, err = New(0)
	is.True(err != nil)
}

func TestPourDeterminism(t *testing.T) {
	is := is.New(t)
	// run 2 at the source top, free 3 at the destination: moves 2.
	src := mustNew(t, 4, A, B, B)
	dst := mustNew(t, 4, B)

	is.True(src.CanPourInto(dst))
	moved, err := src.PourInto(dst)
	is.NoErr(err)
	is.Equal(moved, 2)
	is.Equal(src.Layers(), []Color{A})
	is.Equal(dst.Layers(), []Color{B, B, B})
}

func TestPourTruncatedByFreeSpace(t *testing.T) {
	is := is.New(t)
	src := mustNew(t, 4, B, B, B)
	dst := mustNew(t, 4, A, A, B)

	moved, err := src.PourInto(dst)
	is.NoErr(err)
	is.Equal(moved, 1)
	is.Equal(src.Len(), 2)
	is.True(dst.IsFull())
}

func TestPourIllegal(t *testing.T) {
	is := is.New(t)

	// Top colors differ; note legality is not symmetric in the contents.
	src := mustNew(t, 4, A, B)
	dst := mustNew(t, 4, B, A)
	is.True(!src.CanPourInto(dst))
	_, err := src.PourInto(dst)
	is.True(errors.Is(err, ErrInvalidPour))

	// Empty source.
	_, err = Empty(4).PourInto(mustNew(t, 4, A))
	is.True(errors.Is(err, ErrInvalidPour))

	// Full destination.
	full := mustNew(t, 4, A, A, A, A)
	_, err = mustNew(t, 4, A).PourInto(full)
	is.True(errors.Is(err, ErrInvalidPour))
}

func TestFinalState(t *testing.T) {
	cases := []struct {
		name           string
		layers         []Color
		final, relaxed bool
	}{
		{"empty", nil, true, true},
		{"full monochrome", []Color{X, X, X, X}, true, true},
		{"partial monochrome", []Color{X, X}, false, false},
		{"full mixed", []Color{X, Y, X, Y}, false, true},
		{"single layer", []Color{X}, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tb := mustNew(t, 4, tc.layers...)
			assert.Equal(t, tc.final, tb.InFinalState())
			assert.Equal(t, tc.relaxed, tb.InRelaxedFinalState())
		})
	}
}

func TestTopRun(t *testing.T) {
	is := is.New(t)
	is.Equal(Empty(4).TopRun(), 0)
	is.Equal(mustNew(t, 4, A, B, B).TopRun(), 2)
	is.Equal(mustNew(t, 4, B, B, B).TopRun(), 3)
	is.Equal(mustNew(t, 4, B, A).TopRun(), 1)
}

func TestCopyIndependent(t *testing.T) {
	is := is.New(t)
	orig := mustNew(t, 4, A, B)
	cp := orig.Copy()
	dst := Empty(4)
	_, err := cp.PourInto(dst)
	is.NoErr(err)
	is.Equal(orig.Layers(), []Color{A, B})
	is.Equal(cp.Layers(), []Color{A})
}

// Random pours between random tubes never violate the capacity invariant
// and never create or destroy layers.
func TestCapacityAndMassInvariants(t *testing.T) {
	is := is.New(t)
	const capacity = 4
	tubes := make([]*Tube, 6)
	total := 0
	for i := range tubes {
		n := frand.Intn(capacity + 1)
		layers := make([]Color, n)
		for k := range layers {
			layers[k] = Color(frand.Intn(3) + 1)
		}
		tubes[i] = mustNew(t, capacity, layers...)
		total += n
	}
	for iter := 0; iter < 500; iter++ {
		i, j := frand.Intn(len(tubes)), frand.Intn(len(tubes))
		if i == j || !tubes[i].CanPourInto(tubes[j]) {
			continue
		}
		_, err := tubes[i].PourInto(tubes[j])
		is.NoErr(err)
		sum := 0
		for _, tb := range tubes {
			is.True(tb.Len() >= 0 && tb.Len() <= capacity)
			sum += tb.Len()
		}
		is.Equal(sum, total)
	}
}
