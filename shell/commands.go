package shell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pourbot/pourbot/layout"
	"github.com/pourbot/pourbot/puzzlefile"
	"github.com/pourbot/pourbot/solver"
	"github.com/pourbot/pourbot/tube"
	"github.com/pourbot/pourbot/worker"
)

var errNoPuzzle = errors.New("no puzzle loaded; use new or load")

func (sc *ShellController) newPuzzle(args []string) error {
	capacity := sc.cfg.GetInt("capacity")
	if len(args) > 0 {
		c, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad capacity %q", args[0])
		}
		capacity = c
	}
	sc.puzzle = &puzzlefile.Puzzle{Capacity: capacity}
	sc.showMessage(fmt.Sprintf(
		"new puzzle, capacity %d; add tubes with `tube <color> ...`", capacity))
	return nil
}

func (sc *ShellController) addTube(args []string) error {
	if sc.puzzle == nil {
		return errNoPuzzle
	}
	if len(args) > sc.puzzle.Capacity {
		return fmt.Errorf("%d layers in a tube of capacity %d",
			len(args), sc.puzzle.Capacity)
	}
	sc.puzzle.Tubes = append(sc.puzzle.Tubes, args)
	sc.showMessage(fmt.Sprintf("tube %d: %s",
		len(sc.puzzle.Tubes)-1, strings.Join(args, ",")))
	return nil
}

func (sc *ShellController) loadPuzzle(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load <path>")
	}
	p, err := puzzlefile.Load(args[0])
	if err != nil {
		return err
	}
	sc.puzzle = p
	return sc.showPuzzle()
}

func (sc *ShellController) savePuzzle(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: save <path>")
	}
	if sc.puzzle == nil {
		return errNoPuzzle
	}
	data, err := sc.puzzle.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(args[0], data, 0644)
}

func (sc *ShellController) showPuzzle() error {
	l, _, err := sc.currentLayout()
	if err != nil {
		return err
	}
	sc.showMessage(l.String())
	return nil
}

// currentLayout builds a layout and palette from the entered puzzle.
func (sc *ShellController) currentLayout() (*layout.Layout, *puzzlefile.Palette, error) {
	if sc.puzzle == nil {
		return nil, nil, errNoPuzzle
	}
	matrix, pal, err := sc.puzzle.Matrix()
	if err != nil {
		return nil, nil, err
	}
	l, err := layout.New(sc.puzzle.Capacity, matrix)
	if err != nil {
		return nil, nil, err
	}
	return l, pal, nil
}

func (sc *ShellController) solve(args []string) error {
	if sc.puzzle == nil {
		return errNoPuzzle
	}
	name := sc.cfg.GetString("method")
	if sc.puzzle.Method != "" {
		name = sc.puzzle.Method
	}
	if len(args) > 0 {
		name = args[0]
	}
	method, err := solver.MethodFromString(name)
	if err != nil {
		return err
	}
	matrix, pal, err := sc.puzzle.Matrix()
	if err != nil {
		return err
	}
	sc.showMessage(fmt.Sprintf("solving (%s)...", method))
	res := <-sc.pool.Submit(worker.Request{
		Capacity: sc.puzzle.Capacity,
		Matrix:   matrix,
		Method:   method,
		Opts: solver.Options{
			MinExtraTubes: sc.cfg.GetInt("min-extra-tubes"),
			MaxExtraTubes: sc.cfg.GetInt("max-extra-tubes"),
		},
	})
	if res.Err != nil {
		return res.Err
	}
	if res.Solution == nil {
		sc.showMessage(fmt.Sprintf(
			"no solution with up to %d extra tubes (%v)",
			sc.cfg.GetInt("max-extra-tubes"), res.Elapsed))
		return nil
	}
	sc.showSolution(matrix, pal, res.Solution)
	sc.showMessage(fmt.Sprintf("%d moves, %d extra tubes (%v)",
		len(res.Solution.Pours), res.Solution.ExtraTubes, res.Elapsed))
	return nil
}

// showSolution replays the pour list over the extended layout, printing the
// color and layer count each pour moves.
func (sc *ShellController) showSolution(matrix [][]tube.Color, pal *puzzlefile.Palette, sol *solver.Solution) {
	l, err := layout.New(sc.puzzle.Capacity, matrix)
	if err != nil {
		sc.showError(err)
		return
	}
	lines, err := formatPours(l, pal, sol)
	for _, line := range lines {
		sc.showMessage(line)
	}
	if err != nil {
		sc.showError(err)
	}
}

// formatPours replays the pour list over the layout (extended by the
// solution's extra tubes) and renders one line per pour. A pour list that
// does not fit the layout, such as a corrupt cache entry, is reported as an
// error rather than a panic; lines formatted before the bad pour are still
// returned.
func formatPours(l *layout.Layout, pal *puzzlefile.Palette, sol *solver.Solution) ([]string, error) {
	l.Extend(sol.ExtraTubes)
	lines := make([]string, 0, len(sol.Pours))
	for i, p := range sol.Pours {
		if p.From < 0 || p.From >= l.NumTubes() || p.To < 0 || p.To >= l.NumTubes() {
			return lines, fmt.Errorf("pour %d (%s) references a tube outside the layout", i+1, p)
		}
		src := l.Tube(p.From)
		if src.IsEmpty() {
			return lines, fmt.Errorf("pour %d (%s) pours from an empty tube", i+1, p)
		}
		color := src.Top()
		run := src.TopRun()
		if free := l.Tube(p.To).Free(); free < run {
			run = free
		}
		if err := l.Pour(p.From, p.To); err != nil {
			return lines, fmt.Errorf("replaying pour %d (%s): %w", i+1, p, err)
		}
		lines = append(lines, fmt.Sprintf("%2d. pour tube %d into tube %d (%s x%d)",
			i+1, p.From, p.To, pal.Name(color), run))
	}
	return lines, nil
}

func (sc *ShellController) setOption(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set <key> <value>")
	}
	key, value := args[0], args[1]
	switch key {
	case "method":
		if _, err := solver.MethodFromString(value); err != nil {
			return err
		}
		sc.cfg.Set(key, value)
	case "capacity", "min-extra-tubes", "max-extra-tubes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants a number, got %q", key, value)
		}
		sc.cfg.Set(key, n)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	sc.showMessage(key + " = " + value)
	return nil
}
