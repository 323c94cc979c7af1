package pathfinder

import (
	"github.com/arifwn/meshpath/pkg/geo"
	"github.com/dhconnelly/rtreego"
)

// spatialVertex adapts one raw-graph vertex to rtreego.Spatial as a
// degenerate (zero-area) rectangle at its source coordinate.
type spatialVertex struct {
	key   string
	coord geo.Coordinate
}

func (v spatialVertex) Bounds() rtreego.Rect {
	rect, err := rtreego.NewRect(rtreego.Point{v.coord.X, v.coord.Y}, []float64{1e-12, 1e-12})
	if err != nil {
		// NewRect only errors on non-positive lengths, which never
		// happens here; fall back to a slightly larger box rather than
		// panic on an unreachable path.
		rect, _ = rtreego.NewRect(rtreego.Point{v.coord.X, v.coord.Y}, []float64{1e-9, 1e-9})
	}
	return rect
}

// buildVertexIndex indexes every raw vertex's source coordinate so
// resolveEndpoint can find tolerance-radius matches for a query point that
// doesn't land exactly on a keyed vertex.
func buildVertexIndex(sourceCoordinates map[string]geo.Coordinate) *rtreego.Rtree {
	tree := rtreego.NewTree(2, 25, 50)
	for key, coord := range sourceCoordinates {
		tree.Insert(spatialVertex{key: key, coord: coord})
	}
	return tree
}

// queryWithinTolerance returns every indexed vertex whose source coordinate
// is within tolerance (in each axis) of query.
func queryWithinTolerance(tree *rtreego.Rtree, query geo.Coordinate, tolerance float64) []spatialVertex {
	bb, err := rtreego.NewRect(
		rtreego.Point{query.X - tolerance, query.Y - tolerance},
		[]float64{2 * tolerance, 2 * tolerance},
	)
	if err != nil {
		return nil
	}
	hits := tree.SearchIntersect(bb)
	matches := make([]spatialVertex, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, h.(spatialVertex))
	}
	return matches
}
