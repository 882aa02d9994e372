// Package solver explores the graph of layouts reachable by legal pours and
// returns an ordered pour list bringing the puzzle to a solved state. Two
// frontier disciplines are available: a depth-first stack that finds some
// solution quickly, and a priority queue that approximates shortest-path
// search with a beam-style admission filter.
package solver

import (
	"github.com/rs/zerolog/log"

	"github.com/pourbot/pourbot/fingerprint"
	"github.com/pourbot/pourbot/layout"
	"github.com/pourbot/pourbot/tube"
)

// Sortedness counts adjacent equal-color layer pairs across all tubes.
// Higher values mean the layout is closer to sorted; a solved tube of
// capacity C contributes C-1. Used only to order and filter the priority
// discipline.
func Sortedness(l *layout.Layout) int {
	total := 0
	for i := 0; i < l.NumTubes(); i++ {
		layers := l.Tube(i).Layers()
		for k := 1; k < len(layers); k++ {
			if layers[k] == layers[k-1] {
				total++
			}
		}
	}
	return total
}

// search runs one exploration of the state graph from start. It returns the
// pour list of the first solved layout discovered under the given frontier
// discipline, or nil if the frontier empties first. A nil return is a
// normal outcome, not an error.
func search(start *layout.Layout, front frontier, filter admission) []layout.Pour {
	if start.Solved() {
		return []layout.Pour{}
	}
	n := start.NumTubes()
	visited := map[uint64]struct{}{fingerprint.Of(start): {}}
	root := &node{layout: start, metric: Sortedness(start)}
	front.push(root)
	expanded := 0

	for !front.empty() {
		cur := front.pop()
		if !filter.admit(cur) {
			continue
		}
		expanded++
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				if ok, _ := cur.layout.CanPour(i, j); !ok {
					continue
				}
				next := cur.layout.Copy()
				if err := next.Pour(i, j); err != nil {
					// CanPour was just checked; this cannot happen.
					panic(err)
				}
				fp := fingerprint.Of(next)
				if _, seen := visited[fp]; seen {
					continue
				}
				visited[fp] = struct{}{}
				child := cur.child(next, layout.Pour{From: i, To: j})
				if next.Solved() {
					log.Debug().Int("expanded", expanded).
						Int("visited", len(visited)).
						Int("moves", len(child.pours)).
						Msg("solution found")
					return child.pours
				}
				if filter.admit(child) {
					front.push(child)
				}
			}
		}
	}
	log.Debug().Int("expanded", expanded).Int("visited", len(visited)).
		Msg("frontier exhausted without a solution")
	return nil
}

// searchWith dispatches to the frontier discipline and admission filter
// implied by the method.
func searchWith(start *layout.Layout, method Method) []layout.Pour {
	if method == Fastest {
		return search(start, &stackFrontier{}, admitAll{})
	}
	return search(start, &priorityFrontier{}, newMetricWindow(method.tolerance()))
}

// DefaultMaxExtraTubes bounds the driver's retry loop when Options does not
// say otherwise. Layouts unsolvable with this much scratch space are
// reported as having no solution.
const DefaultMaxExtraTubes = 3

// NoExtraTubes as MaxExtraTubes forbids auxiliary empty tubes entirely.
const NoExtraTubes = -1

// Options bound the driver's auxiliary empty-tube loop.
type Options struct {
	MinExtraTubes int
	// MaxExtraTubes of zero means DefaultMaxExtraTubes, so the zero value
	// of Options gets the usual bound. Pass NoExtraTubes to forbid scratch
	// tubes altogether.
	MaxExtraTubes int
}

// MaxExtra resolves the effective upper bound on auxiliary empty tubes.
func (o Options) MaxExtra() int {
	if o.MaxExtraTubes < 0 {
		return 0
	}
	if o.MaxExtraTubes == 0 {
		return DefaultMaxExtraTubes
	}
	return o.MaxExtraTubes
}

// Solution is a successful solve: the pour list and the number of empty
// tubes that were appended to the input to make it solvable. Pour indices
// reference the extended layout (input tubes first, then the empty ones).
type Solution struct {
	Pours      []layout.Pour
	ExtraTubes int
}

// Solve builds a layout from the matrix (one row per tube, bottom to top)
// and searches for a solution under the given method, retrying with more
// auxiliary empty tubes up to the configured bound. It returns nil with a
// nil error when no solution exists within the bound; an error indicates
// malformed input only.
func Solve(capacity int, matrix [][]tube.Color, method Method, opts Options) (*Solution, error) {
	base, err := layout.New(capacity, matrix)
	if err != nil {
		return nil, err
	}
	maxExtra := opts.MaxExtra()
	for extra := opts.MinExtraTubes; extra <= maxExtra; extra++ {
		l := base.Copy()
		l.Extend(extra)
		log.Debug().Int("tubes", l.NumTubes()).Int("extra", extra).
			Stringer("method", method).Msg("starting search")
		if pours := searchWith(l, method); pours != nil {
			return &Solution{Pours: pours, ExtraTubes: extra}, nil
		}
	}
	log.Debug().Int("max-extra", maxExtra).Msg("no solution within bound")
	return nil, nil
}
