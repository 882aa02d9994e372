package cache

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/pourbot/pourbot/layout"
	"github.com/pourbot/pourbot/solver"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "solutions.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)
	s := openTemp(t)

	sol := &solver.Solution{
		Pours:      []layout.Pour{{From: 0, To: 2}, {From: 1, To: 0}},
		ExtraTubes: 1,
	}
	is.NoErr(s.Put(0xdeadbeef, 4, solver.Balanced, sol))

	got, err := s.Get(0xdeadbeef, 4, solver.Balanced)
	is.NoErr(err)
	is.Equal(got, sol)
}

func TestMissReturnsNil(t *testing.T) {
	is := is.New(t)
	s := openTemp(t)

	got, err := s.Get(42, 4, solver.Fastest)
	is.NoErr(err)
	is.Equal(got, (*solver.Solution)(nil))
}

// The fingerprint hashes layer contents only, so the same matrix at two
// capacities is two different puzzles and must not share a cache entry.
func TestCapacityIsPartOfKey(t *testing.T) {
	is := is.New(t)
	s := openTemp(t)

	sol2 := &solver.Solution{Pours: []layout.Pour{}}
	is.NoErr(s.Put(0xabc, 2, solver.Fastest, sol2))

	got, err := s.Get(0xabc, 4, solver.Fastest)
	is.NoErr(err)
	is.Equal(got, (*solver.Solution)(nil))

	got, err = s.Get(0xabc, 2, solver.Fastest)
	is.NoErr(err)
	is.Equal(got, sol2)
}

func TestMethodsAreSeparateKeys(t *testing.T) {
	is := is.New(t)
	s := openTemp(t)

	fast := &solver.Solution{Pours: []layout.Pour{{From: 0, To: 1}, {From: 0, To: 1}}}
	short := &solver.Solution{Pours: []layout.Pour{{From: 0, To: 1}}}
	is.NoErr(s.Put(7, 4, solver.Fastest, fast))
	is.NoErr(s.Put(7, 4, solver.Shortest, short))

	got, err := s.Get(7, 4, solver.Shortest)
	is.NoErr(err)
	is.Equal(got, short)
}

func TestPutReplaces(t *testing.T) {
	is := is.New(t)
	s := openTemp(t)

	is.NoErr(s.Put(9, 4, solver.Fastest, &solver.Solution{ExtraTubes: 3,
		Pours: []layout.Pour{{From: 0, To: 1}}}))
	better := &solver.Solution{ExtraTubes: 1, Pours: []layout.Pour{{From: 1, To: 0}}}
	is.NoErr(s.Put(9, 4, solver.Fastest, better))

	got, err := s.Get(9, 4, solver.Fastest)
	is.NoErr(err)
	is.Equal(got, better)
}

func TestEmptyPourList(t *testing.T) {
	is := is.New(t)
	s := openTemp(t)

	is.NoErr(s.Put(1, 4, solver.Fastest, &solver.Solution{Pours: []layout.Pour{}}))
	got, err := s.Get(1, 4, solver.Fastest)
	is.NoErr(err)
	is.Equal(len(got.Pours), 0)
}
