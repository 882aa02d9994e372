// Package worker runs solve requests asynchronously. Each request gets its
// own goroutine and reports back over a channel; the caller blocks only
// when it reads the result, not during the search. The number of solves in
// flight is bounded, since a single search can be long-running and
// memory-hungry.
package worker

import (
	"runtime"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pourbot/pourbot/cache"
	"github.com/pourbot/pourbot/fingerprint"
	"github.com/pourbot/pourbot/layout"
	"github.com/pourbot/pourbot/solver"
	"github.com/pourbot/pourbot/tube"
)

// perSolveBudget is a rough upper estimate of one search's memory use
// (visited set plus frontier on a hard puzzle), used to derive the
// concurrency limit.
const perSolveBudget = 512 << 20

// Request is one puzzle to solve.
type Request struct {
	Capacity int
	Matrix   [][]tube.Color
	Method   solver.Method
	Opts     solver.Options
}

// Result is delivered once per request. Solution is nil with a nil Err when
// the puzzle has no solution within the extra-tube bound.
type Result struct {
	Solution *solver.Solution
	Err      error
	Elapsed  time.Duration
}

// Pool bounds the number of concurrent solves. A non-nil store is consulted
// before searching and updated after a successful solve.
type Pool struct {
	g     errgroup.Group
	store *cache.Store
}

// DefaultLimit derives a concurrency limit from the CPU count and total
// system memory.
func DefaultLimit() int {
	limit := runtime.NumCPU()
	if byMem := int(memory.TotalMemory() / perSolveBudget); byMem < limit {
		limit = byMem
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

// New creates a pool running at most limit solves at once; limit <= 0 means
// DefaultLimit. store may be nil to disable caching.
func New(limit int, store *cache.Store) *Pool {
	if limit <= 0 {
		limit = DefaultLimit()
	}
	log.Debug().Int("limit", limit).Msg("worker pool concurrency")
	p := &Pool{store: store}
	p.g.SetLimit(limit)
	return p
}

// Submit schedules a solve and returns a channel that will carry exactly
// one Result. The channel is buffered, so an abandoning caller does not
// leak the goroutine.
func (p *Pool) Submit(req Request) <-chan Result {
	ch := make(chan Result, 1)
	p.g.Go(func() error {
		start := time.Now()
		sol, err := p.solve(req)
		ch <- Result{Solution: sol, Err: err, Elapsed: time.Since(start)}
		return nil
	})
	return ch
}

// Wait blocks until every submitted solve has delivered its result.
func (p *Pool) Wait() {
	// Submitted funcs never return an error; failures travel in Results.
	_ = p.g.Wait()
}

func (p *Pool) solve(req Request) (*solver.Solution, error) {
	var fp uint64
	if p.store != nil {
		base, err := layout.New(req.Capacity, req.Matrix)
		if err != nil {
			return nil, err
		}
		fp = fingerprint.Of(base)
		sol, err := p.store.Get(fp, req.Capacity, req.Method)
		if err != nil {
			log.Warn().Err(err).Msg("cache lookup failed; searching anyway")
		} else if sol != nil {
			// A stored solution is only usable if its extra-tube count
			// satisfies this request's driver bounds.
			if sol.ExtraTubes >= req.Opts.MinExtraTubes &&
				sol.ExtraTubes <= req.Opts.MaxExtra() {
				return sol, nil
			}
			log.Debug().Int("extra", sol.ExtraTubes).
				Int("min", req.Opts.MinExtraTubes).Int("max", req.Opts.MaxExtra()).
				Msg("cached solution outside requested bounds; searching")
		}
	}
	sol, err := solver.Solve(req.Capacity, req.Matrix, req.Method, req.Opts)
	if err != nil {
		return nil, err
	}
	if sol != nil && p.store != nil {
		if err := p.store.Put(fp, req.Capacity, req.Method, sol); err != nil {
			log.Warn().Err(err).Msg("cache store failed")
		}
	}
	return sol, err
}
