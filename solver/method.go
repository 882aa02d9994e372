package solver

import "fmt"

// Method selects the search discipline used to find a solution.
type Method int

const (
	// Fastest explores depth-first and returns the first solution found,
	// with no bound on its length.
	Fastest Method = iota
	// Shortest explores in expanding shells of move count, keeping only
	// metric-maximal nodes per depth. A heuristic approximation of
	// shortest-path search, not a proven-optimal one.
	Shortest
	// Balanced is Shortest with a slightly wider beam (tolerance 1).
	Balanced
)

func (m Method) String() string {
	switch m {
	case Fastest:
		return "fastest"
	case Shortest:
		return "shortest"
	case Balanced:
		return "balanced"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// MethodFromString parses a method name as it appears in config files and
// shell commands.
func MethodFromString(s string) (Method, error) {
	switch s {
	case "fastest":
		return Fastest, nil
	case "shortest":
		return Shortest, nil
	case "balanced":
		return Balanced, nil
	}
	return 0, fmt.Errorf("unknown solving method %q", s)
}

// tolerance is the metric window the priority discipline admits per move
// count. Fastest does not use an admission filter.
func (m Method) tolerance() int {
	if m == Balanced {
		return 1
	}
	return 0
}
