package pathfinder

import "github.com/arifwn/meshpath/pkg/geo"

// coordOf resolves key's coordinate from the compacted graph's source
// table. Every key ever produced by topology construction has one,
// including phantoms (they are raw vertices too), so precedingPath's
// fallback below only exists to honor the documented contract rather than
// to cover a reachable gap in this implementation.
func (pf *PathFinder) coordOf(key string) geo.Coordinate {
	if c, ok := pf.pg.Compacted.Coordinate(key); ok {
		return c
	}
	return geo.Coordinate{}
}

// resolveCoordinate is coordOf with the documented fallback: when key's own
// coordinate is missing, use the last point of the compacted edge that led
// into it from precedingPath's final key.
func (pf *PathFinder) resolveCoordinate(key string, precedingPath []string) geo.Coordinate {
	if c, ok := pf.pg.Compacted.Coordinate(key); ok {
		return c
	}
	if len(precedingPath) == 0 {
		return geo.Coordinate{}
	}
	prev := precedingPath[len(precedingPath)-1]
	if edge, ok := pf.pg.Compacted.Vertices[prev][key]; ok && len(edge.Coordinates) > 0 {
		return edge.Coordinates[len(edge.Coordinates)-1]
	}
	return geo.Coordinate{}
}

// buildContext assembles the TraversalContext handed to a user
// DirectionBiasFunc/TransitionGuardFunc for the candidate transition
// from->to, given the accepted key path up to and including from.
func (pf *PathFinder) buildContext(from, to string, cost float64, path []string, goalCoord geo.Coordinate) TraversalContext {
	fromCoord := pf.resolveCoordinate(from, path[:len(path)-1])
	toCoord := pf.coordOf(to)

	ctx := TraversalContext{
		From:           from,
		To:             to,
		FromCoord:      fromCoord,
		ToCoord:        toCoord,
		Cost:           cost,
		Path:           path,
		FromToVector:   geo.VectorBetween(fromCoord, toCoord),
		FromGoalVector: geo.VectorBetween(fromCoord, goalCoord),
		ToGoalVector:   geo.VectorBetween(toCoord, goalCoord),
	}

	if n := len(path); n >= 2 {
		prevKey := path[n-2]
		prevCoord := pf.resolveCoordinate(prevKey, path[:n-2])
		ctx.HasPrevious = true
		ctx.Previous = prevKey
		ctx.PreviousToFromVector = geo.VectorBetween(prevCoord, fromCoord)
	}

	return ctx
}
