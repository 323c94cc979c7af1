package pathgraph

import "github.com/rs/zerolog"

// PreprocessedGraph bundles everything a facade needs for the lifetime of
// a search session: the raw graph and undirected neighbor sets (needed by
// the phantom injector to walk out from a mid-chain endpoint) plus the
// compacted graph searches actually run on.
type PreprocessedGraph struct {
	Raw        *RawGraph
	ReverseRaw *RawGraph
	Compacted  *CompactedGraph
	Neighbors  map[string]map[string]bool
	Reduce     PayloadReduceFunc
}

// Preprocess runs topology extraction followed by compaction, returning
// the bundle a PathFinder facade holds for its lifetime.
func Preprocess(features []Feature, opts BuildOptions) *PreprocessedGraph {
	return PreprocessWithMode(features, opts, true)
}

// PreprocessWithMode is Preprocess with an explicit compact flag; when
// compact is false the returned graph's compacted vertex set equals its
// raw vertex set (the documented compact=false edge case: searches run
// directly on the raw graph).
func PreprocessWithMode(features []Feature, opts BuildOptions, compact bool) *PreprocessedGraph {
	raw := BuildTopology(features, opts)
	neighbors := undirectedNeighbors(raw)

	var compacted *CompactedGraph
	if compact {
		compacted = compactWithNeighbors(raw, neighbors, opts.PayloadReduce, opts.Logger)
	} else {
		compacted = NoCompact(raw)
	}

	return &PreprocessedGraph{
		Raw:        raw,
		ReverseRaw: reverseGraph(raw),
		Compacted:  compacted,
		Neighbors:  neighbors,
		Reduce:     opts.PayloadReduce,
	}
}

// reverseGraph returns a RawGraph with every directed edge flipped,
// sharing the same source-coordinate table. The phantom injector uses it
// to walk backward from a mid-chain endpoint to the junction that feeds
// it, using exactly the same forward-walk logic as compaction.
func reverseGraph(raw *RawGraph) *RawGraph {
	rev := newRawGraph()
	rev.HasPayload = raw.HasPayload
	rev.SourceCoordinates = raw.SourceCoordinates
	for from, tos := range raw.Vertices {
		for to, w := range tos {
			if rev.Vertices[to] == nil {
				rev.Vertices[to] = make(map[string]float64)
			}
			rev.Vertices[to][from] = w
			if raw.HasPayload {
				if rev.EdgePayloads[to] == nil {
					rev.EdgePayloads[to] = make(map[string]interface{})
				}
				rev.EdgePayloads[to][from] = raw.EdgePayloads[from][to]
			}
		}
	}
	return rev
}

// Clone returns a deep-enough copy of pg safe to hand to an independent
// worker: the raw graph and neighbor sets are immutable after
// preprocessing and are shared, but the compacted graph's vertex map is
// copied since phantom injection mutates it in place.
func (pg *PreprocessedGraph) Clone(logger zerolog.Logger) *PreprocessedGraph {
	clonedVertices := make(map[string]map[string]CompactedEdge, len(pg.Compacted.Vertices))
	for from, tos := range pg.Compacted.Vertices {
		inner := make(map[string]CompactedEdge, len(tos))
		for to, edge := range tos {
			inner[to] = edge
		}
		clonedVertices[from] = inner
	}
	return &PreprocessedGraph{
		Raw:        pg.Raw,
		ReverseRaw: pg.ReverseRaw,
		Compacted: &CompactedGraph{
			Vertices:          clonedVertices,
			SourceCoordinates: pg.Compacted.SourceCoordinates,
			HasPayload:        pg.Compacted.HasPayload,
		},
		Neighbors: pg.Neighbors,
		Reduce:    pg.Reduce,
	}
}
