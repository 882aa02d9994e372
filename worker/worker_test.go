package worker

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/pourbot/pourbot/cache"
	"github.com/pourbot/pourbot/fingerprint"
	"github.com/pourbot/pourbot/layout"
	"github.com/pourbot/pourbot/solver"
	"github.com/pourbot/pourbot/tube"
)

const (
	A tube.Color = iota + 1
	B
)

var testMatrix = [][]tube.Color{{A, B, A, B}, {B, A, B, A}}

func TestSubmitDeliversSolution(t *testing.T) {
	is := is.New(t)
	pool := New(2, nil)

	results := []<-chan Result{
		pool.Submit(Request{Capacity: 4, Matrix: testMatrix, Method: solver.Fastest}),
		pool.Submit(Request{Capacity: 4, Matrix: testMatrix, Method: solver.Shortest}),
		pool.Submit(Request{Capacity: 4, Matrix: testMatrix, Method: solver.Balanced}),
	}
	for _, ch := range results {
		res := <-ch
		is.NoErr(res.Err)
		is.True(res.Solution != nil)

		l, err := layout.New(4, testMatrix)
		is.NoErr(err)
		l.Extend(res.Solution.ExtraTubes)
		for _, p := range res.Solution.Pours {
			is.NoErr(l.Pour(p.From, p.To))
		}
		is.True(l.Solved())
	}
	pool.Wait()
}

func TestSubmitMalformedInput(t *testing.T) {
	is := is.New(t)
	pool := New(1, nil)
	res := <-pool.Submit(Request{Capacity: 2, Matrix: [][]tube.Color{{A, B, A}}})
	is.True(res.Err != nil)
	pool.Wait()
}

func TestCachePopulatedAndReused(t *testing.T) {
	is := is.New(t)
	store, err := cache.Open(filepath.Join(t.TempDir(), "solutions.db"))
	is.NoErr(err)
	defer store.Close()

	pool := New(1, store)
	req := Request{Capacity: 4, Matrix: testMatrix, Method: solver.Balanced}
	first := <-pool.Submit(req)
	is.NoErr(first.Err)
	is.True(first.Solution != nil)

	base, err := layout.New(4, testMatrix)
	is.NoErr(err)
	cached, err := store.Get(fingerprint.Of(base), 4, solver.Balanced)
	is.NoErr(err)
	is.Equal(cached, first.Solution)

	second := <-pool.Submit(req)
	is.NoErr(second.Err)
	is.Equal(second.Solution, first.Solution)
	pool.Wait()
}

// A solution cached for one capacity must never be served for the same
// matrix at another capacity. [[A,A]] is already solved at capacity 2 but
// unsolvable at capacity 4 with any amount of scratch space.
func TestCacheNotSharedAcrossCapacities(t *testing.T) {
	is := is.New(t)
	store, err := cache.Open(filepath.Join(t.TempDir(), "solutions.db"))
	is.NoErr(err)
	defer store.Close()

	pool := New(1, store)
	matrix := [][]tube.Color{{A, A}}

	atTwo := <-pool.Submit(Request{Capacity: 2, Matrix: matrix, Method: solver.Fastest})
	is.NoErr(atTwo.Err)
	is.True(atTwo.Solution != nil)
	is.Equal(len(atTwo.Solution.Pours), 0)

	atFour := <-pool.Submit(Request{Capacity: 4, Matrix: matrix, Method: solver.Fastest})
	is.NoErr(atFour.Err)
	is.Equal(atFour.Solution, (*solver.Solution)(nil))
	pool.Wait()
}

// A cache hit whose extra-tube count falls outside the request's bounds is
// ignored and the search runs under those bounds instead.
func TestCacheHitRespectsExtraTubeBounds(t *testing.T) {
	is := is.New(t)
	store, err := cache.Open(filepath.Join(t.TempDir(), "solutions.db"))
	is.NoErr(err)
	defer store.Close()

	base, err := layout.New(4, testMatrix)
	is.NoErr(err)
	fp := fingerprint.Of(base)
	// A stored solution using more scratch tubes than this caller allows.
	is.NoErr(store.Put(fp, 4, solver.Fastest, &solver.Solution{
		ExtraTubes: 3,
		Pours:      []layout.Pour{{From: 0, To: 2}},
	}))

	pool := New(1, store)
	res := <-pool.Submit(Request{
		Capacity: 4, Matrix: testMatrix, Method: solver.Fastest,
		Opts: solver.Options{MaxExtraTubes: 2},
	})
	is.NoErr(res.Err)
	is.True(res.Solution != nil)
	is.True(res.Solution.ExtraTubes <= 2)

	l := base.Copy()
	l.Extend(res.Solution.ExtraTubes)
	for _, p := range res.Solution.Pours {
		is.NoErr(l.Pour(p.From, p.To))
	}
	is.True(l.Solved())
	pool.Wait()
}

func TestDefaultLimitPositive(t *testing.T) {
	is := is.New(t)
	is.True(DefaultLimit() >= 1)
}
