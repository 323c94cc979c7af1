// Package search implements Dijkstra and A* over a pathgraph.CompactedGraph,
// sharing a single relaxation loop and priority-queue strategy. Neither
// algorithm knows about coordinates, geometry, or phantom vertices — that
// belongs to the facade layer that calls into this package.
package search

// DirectionBiasFunc returns an additive cost bias for the candidate
// transition from->to. cost is the tentative cost accumulated at from;
// path is the accepted key sequence from the search's start up to and
// including from (nil unless a guard or bias is configured, since
// building it costs a walk back through the predecessor chain).
type DirectionBiasFunc func(from, to string, cost float64, path []string) float64

// TransitionGuardFunc vetoes a transition by returning ok=false. An error
// return aborts the whole search; the error is returned to the caller of
// Dijkstra/AStar unchanged.
type TransitionGuardFunc func(from, to string, cost float64, path []string) (bool, error)

// NodeExpandedFunc is invoked exactly once per accepted pop, immediately
// before the goal check.
type NodeExpandedFunc func(key string, cost float64)

// HeuristicFunc estimates the remaining cost from node to the search
// goal. Dijkstra always uses nil (equivalent to a heuristic that is
// always 0); AStar treats a nil heuristic as always 0, and tolerates one
// returning 0 for nodes with no known coordinate, degrading admissibly to
// Dijkstra locally.
type HeuristicFunc func(node string) float64

// Options bundles every optional hook shared by Dijkstra and AStar.
type Options struct {
	DirectionBias   DirectionBiasFunc
	TransitionGuard TransitionGuardFunc
	OnNodeExpanded  NodeExpandedFunc
	Heuristic       HeuristicFunc
}

// Result is a successful search outcome.
type Result struct {
	Cost float64
	Path []string
}
