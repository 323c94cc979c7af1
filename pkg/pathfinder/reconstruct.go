package pathfinder

import (
	"github.com/arifwn/meshpath/pkg/geo"
	"github.com/arifwn/meshpath/pkg/pathgraph"
	"github.com/arifwn/meshpath/pkg/search"
)

// buildPath turns a key-sequence search result into caller-facing geometry
// and (optionally) per-edge payload, per the compacted edge's documented
// convention: Coordinates excludes the edge's own source and includes its
// target, so concatenating them behind the start's own coordinate yields
// the full path geometry with no duplicated points.
func buildPath(compacted *pathgraph.CompactedGraph, result *search.Result, simplifyTolerance float64) *Path {
	if result == nil {
		return nil
	}

	coords := make([]geo.Coordinate, 0, len(result.Path)+1)
	if c, ok := compacted.Coordinate(result.Path[0]); ok {
		coords = append(coords, c)
	}

	var edgeDatas []interface{}
	for i := 0; i+1 < len(result.Path); i++ {
		from, to := result.Path[i], result.Path[i+1]
		edge := compacted.Vertices[from][to]
		coords = append(coords, edge.Coordinates...)
		if compacted.HasPayload {
			edgeDatas = append(edgeDatas, edge.Payload)
		}
	}

	if simplifyTolerance > 0 {
		coords = geo.SimplifyDouglasPeucker(coords, simplifyTolerance)
	}

	return &Path{Path: coords, Weight: result.Cost, EdgeDatas: edgeDatas}
}
