package pathgraph

import (
	"sort"

	"github.com/rs/zerolog"
)

// undirectedNeighbors returns, for every vertex that appears in raw
// (as a source or a target, or as a bare, edgeless coordinate), the set
// of distinct neighbors reachable by an edge in either direction.
func undirectedNeighbors(raw *RawGraph) map[string]map[string]bool {
	neighbors := make(map[string]map[string]bool)
	touch := func(v string) {
		if neighbors[v] == nil {
			neighbors[v] = make(map[string]bool)
		}
	}
	for from, tos := range raw.Vertices {
		touch(from)
		for to := range tos {
			touch(to)
			neighbors[from][to] = true
			neighbors[to][from] = true
		}
	}
	for v := range raw.SourceCoordinates {
		touch(v)
	}
	return neighbors
}

// Compact collapses every degree-two chain of raw into a single edge of
// the returned CompactedGraph, preserving intermediate geometry and
// folding per-raw-edge payloads across the chain via reduce (nil when no
// payload aggregation was configured).
func Compact(raw *RawGraph, reduce PayloadReduceFunc, logger zerolog.Logger) *CompactedGraph {
	return compactWithNeighbors(raw, undirectedNeighbors(raw), reduce, logger)
}

func compactWithNeighbors(raw *RawGraph, neighbors map[string]map[string]bool, reduce PayloadReduceFunc, logger zerolog.Logger) *CompactedGraph {
	isJunction := func(v string) bool { return len(neighbors[v]) != 2 }

	compacted := &CompactedGraph{
		Vertices:          make(map[string]map[string]CompactedEdge),
		SourceCoordinates: raw.SourceCoordinates,
		HasPayload:        raw.HasPayload,
	}

	visited := make(map[string]bool)

	walkAndEmit := func(anchor string) {
		compacted.ensureVertex(anchor)
		for first := range raw.Vertices[anchor] {
			edge, endKey := walkChain(raw, neighbors, anchor, first, reduce)
			compacted.ensureVertex(endKey)
			compacted.Vertices[anchor][endKey] = edge
		}
		visited[anchor] = true
	}

	// deterministic iteration order over junctions for reproducible
	// output across runs on the same input.
	var junctionKeys []string
	for v := range neighbors {
		if isJunction(v) {
			junctionKeys = append(junctionKeys, v)
		}
	}
	sort.Strings(junctionKeys)

	for _, j := range junctionKeys {
		walkAndEmit(j)
		markChainVisited(raw, neighbors, j, visited)
	}

	// Pure cycles with no junction anywhere are unreachable from the
	// walks above; anchor each remaining connected component at its
	// lexicographically smallest vertex so the loop is still searchable.
	var remaining []string
	for v := range neighbors {
		if !visited[v] {
			remaining = append(remaining, v)
		}
	}
	sort.Strings(remaining)
	for _, v := range remaining {
		if visited[v] {
			continue
		}
		walkAndEmit(v)
		markChainVisited(raw, neighbors, v, visited)
	}

	logger.Debug().
		Int("junctions", len(junctionKeys)).
		Int("compactedVertices", len(compacted.Vertices)).
		Msg("graph compacted")

	return compacted
}

// walkChain follows the chain starting at anchor->first until it reaches
// a junction, loops back to anchor, or hits a vertex whose degree-two
// neighbor has no outgoing edge to continue the walk (a directed dead
// end mid-chain). It returns the resulting compacted edge and the key of
// the vertex it terminated at.
func walkChain(raw *RawGraph, neighbors map[string]map[string]bool, anchor, first string, reduce PayloadReduceFunc) (CompactedEdge, string) {
	edge := CompactedEdge{}

	edge.Weight = raw.Vertices[anchor][first]
	edge.Coordinates = append(edge.Coordinates, raw.SourceCoordinates[first])
	if raw.HasPayload {
		edge.Payload = raw.EdgePayloads[anchor][first]
	}

	prev, current := anchor, first
	for {
		if current == anchor {
			return edge, current
		}
		if len(neighbors[current]) != 2 {
			return edge, current
		}

		next, found := otherNeighbor(neighbors[current], prev)
		if !found {
			return edge, current
		}

		w, ok := raw.Vertices[current][next]
		if !ok {
			// no directed continuation in this direction; current
			// terminates the walk despite its undirected degree.
			return edge, current
		}

		edge.Weight += w
		edge.Coordinates = append(edge.Coordinates, raw.SourceCoordinates[next])
		if raw.HasPayload {
			seed := raw.EdgePayloads[current][next]
			if reduce != nil {
				edge.Payload = reduce(edge.Payload, seed)
			} else {
				edge.Payload = seed
			}
		}

		prev, current = current, next
	}
}

// otherNeighbor returns the element of set distinct from exclude, when
// set has exactly that shape (degree-two vertex, one neighbor already
// visited).
func otherNeighbor(set map[string]bool, exclude string) (string, bool) {
	for n := range set {
		if n != exclude {
			return n, true
		}
	}
	return "", false
}

// markChainVisited walks every chain out of anchor purely to mark
// interior vertices visited, so the pure-cycle fallback pass doesn't
// re-anchor a component a junction already covers.
func markChainVisited(raw *RawGraph, neighbors map[string]map[string]bool, anchor string, visited map[string]bool) {
	for first := range raw.Vertices[anchor] {
		prev, current := anchor, first
		for {
			visited[current] = true
			if current == anchor || len(neighbors[current]) != 2 {
				break
			}
			next, found := otherNeighbor(neighbors[current], prev)
			if !found {
				break
			}
			if _, ok := raw.Vertices[current][next]; !ok {
				break
			}
			prev, current = current, next
		}
	}
}
