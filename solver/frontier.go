package solver

import (
	"container/heap"

	"github.com/pourbot/pourbot/layout"
)

// node is one not-yet-expanded search state: a layout, the pours that
// reached it, and its sortedness metric (only meaningful to the priority
// frontier).
type node struct {
	layout *layout.Layout
	pours  []layout.Pour
	metric int
}

// depth is the node's move count.
func (n *node) depth() int { return len(n.pours) }

// child builds the node reached from n by one more pour. The pour list is
// copied so siblings never share a backing array.
func (n *node) child(l *layout.Layout, p layout.Pour) *node {
	pours := make([]layout.Pour, len(n.pours), len(n.pours)+1)
	copy(pours, n.pours)
	return &node{
		layout: l,
		pours:  append(pours, p),
		metric: Sortedness(l),
	}
}

// frontier holds the not-yet-expanded nodes. The two implementations differ
// only in removal order.
type frontier interface {
	push(*node)
	pop() *node
	empty() bool
}

// stackFrontier pops the most recently pushed node (depth-first).
type stackFrontier struct {
	nodes []*node
}

func (f *stackFrontier) push(n *node) { f.nodes = append(f.nodes, n) }

func (f *stackFrontier) pop() *node {
	n := f.nodes[len(f.nodes)-1]
	f.nodes[len(f.nodes)-1] = nil
	f.nodes = f.nodes[:len(f.nodes)-1]
	return n
}

func (f *stackFrontier) empty() bool { return len(f.nodes) == 0 }

// nodeHeap orders nodes by ascending move count, breaking ties by
// descending metric, so the priority frontier explores in expanding shells
// of move count and prefers more-sorted layouts within a shell.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].depth() != h[j].depth() {
		return h[i].depth() < h[j].depth()
	}
	return h[i].metric > h[j].metric
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(*node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

// priorityFrontier pops the node with the lowest move count, highest
// metric first within a move count.
type priorityFrontier struct {
	h nodeHeap
}

func (f *priorityFrontier) push(n *node) { heap.Push(&f.h, n) }
func (f *priorityFrontier) pop() *node   { return heap.Pop(&f.h).(*node) }
func (f *priorityFrontier) empty() bool  { return f.h.Len() == 0 }

// admission decides whether a node is worth keeping. The depth-first
// discipline admits everything; the priority discipline keeps a per-depth
// best-metric table and admits nodes within a tolerance of it.
type admission interface {
	admit(*node) bool
}

type admitAll struct{}

func (admitAll) admit(*node) bool { return true }

// metricWindow tracks the best (highest) metric seen at each move count. A
// node passes if its metric is within tolerance of the best known for its
// depth; the table is updated whenever a better node is admitted. Tolerance
// 0 keeps only metric-maximal nodes per depth, 1 a slightly wider beam.
type metricWindow struct {
	best      map[int]int
	tolerance int
}

func newMetricWindow(tolerance int) *metricWindow {
	return &metricWindow{best: make(map[int]int), tolerance: tolerance}
}

func (w *metricWindow) admit(n *node) bool {
	best, seen := w.best[n.depth()]
	if !seen || n.metric > best {
		w.best[n.depth()] = n.metric
		return true
	}
	return n.metric+w.tolerance >= best
}
