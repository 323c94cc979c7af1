package search

import (
	"math"

	"github.com/arifwn/meshpath/pkg/pathgraph"
	"github.com/arifwn/meshpath/pkg/queue"
)

// priorityFunc turns a tentative cost at node into the value the priority
// queue orders on: the cost itself for Dijkstra, cost+heuristic for A*.
type priorityFunc func(cost float64, node string) float64

// Dijkstra runs a label-setting shortest path search from start to end on
// graph, honoring opts' callbacks. It returns (nil, nil) when no path
// exists and returns a non-nil error only when a TransitionGuard call
// returned one.
func Dijkstra(graph *pathgraph.CompactedGraph, start, end string, opts Options) (*Result, error) {
	return run(graph, start, end, func(cost float64, _ string) float64 { return cost }, opts)
}

// AStar runs the same search as Dijkstra but orders the priority queue by
// cost plus opts.Heuristic(node). A nil Heuristic degenerates exactly to
// Dijkstra.
func AStar(graph *pathgraph.CompactedGraph, start, end string, opts Options) (*Result, error) {
	h := opts.Heuristic
	if h == nil {
		h = func(string) float64 { return 0 }
	}
	return run(graph, start, end, func(cost float64, node string) float64 { return cost + h(node) }, opts)
}

func run(graph *pathgraph.CompactedGraph, start, end string, priority priorityFunc, opts Options) (*Result, error) {
	best := map[string]float64{start: 0}
	cameFrom := map[string]string{}
	entries := map[string]*queue.Entry[string]{}
	settled := map[string]bool{}
	needPath := opts.TransitionGuard != nil || opts.DirectionBias != nil

	pq := queue.New[string]()
	entries[start] = pq.Insert(start, priority(0, start))

	for pq.Len() > 0 {
		top := pq.ExtractMin()
		u := top.Elem()
		if settled[u] {
			continue
		}
		cost := best[u]
		settled[u] = true

		if opts.OnNodeExpanded != nil {
			opts.OnNodeExpanded(u, cost)
		}
		if u == end {
			return &Result{Cost: cost, Path: reconstruct(cameFrom, start, u)}, nil
		}

		var pathSoFar []string
		if needPath {
			pathSoFar = reconstruct(cameFrom, start, u)
		}

		for v, edge := range graph.Vertices[u] {
			if settled[v] {
				continue
			}

			if opts.TransitionGuard != nil {
				ok, err := opts.TransitionGuard(u, v, cost, pathSoFar)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}

			bias := 0.0
			if opts.DirectionBias != nil {
				bias = opts.DirectionBias(u, v, cost, pathSoFar)
			}

			newCost := cost + edge.Weight + bias
			if math.IsInf(newCost, 1) {
				continue
			}

			if existing, ok := best[v]; ok && newCost >= existing {
				continue
			}
			best[v] = newCost
			cameFrom[v] = u

			p := priority(newCost, v)
			if e, ok := entries[v]; ok {
				pq.DecreaseKey(e, p)
			} else {
				entries[v] = pq.Insert(v, p)
			}
		}
	}

	return nil, nil
}

func reconstruct(cameFrom map[string]string, start, node string) []string {
	path := []string{node}
	cur := node
	for cur != start {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
