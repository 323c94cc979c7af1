package pathgraph

import "github.com/arifwn/meshpath/pkg/geo"

// NoCompact builds a CompactedGraph whose vertex set is exactly the raw
// graph's vertex set, one CompactedEdge per raw edge (single-hop
// geometry). It backs PathFinder's documented compact=false edge case:
// searches run directly on the raw graph, and phantom injection becomes
// a permanent no-op since every reachable coordinate is already a vertex.
func NoCompact(raw *RawGraph) *CompactedGraph {
	compacted := &CompactedGraph{
		Vertices:          make(map[string]map[string]CompactedEdge),
		SourceCoordinates: raw.SourceCoordinates,
		HasPayload:        raw.HasPayload,
	}
	for v := range raw.SourceCoordinates {
		compacted.ensureVertex(v)
	}
	for from, tos := range raw.Vertices {
		for to, w := range tos {
			var payload interface{}
			if raw.HasPayload {
				payload = raw.EdgePayloads[from][to]
			}
			compacted.Vertices[from][to] = CompactedEdge{
				Weight:      w,
				Coordinates: []geo.Coordinate{raw.SourceCoordinates[to]},
				Payload:     payload,
			}
		}
	}
	return compacted
}
