package pathfinder

import "github.com/arifwn/meshpath/pkg/geo"

// obtuseTurnAllows walks every consecutive triple in points and rejects
// the whole sequence if any triple's turn is sharper than a right angle:
// the dot product of the two vectors pointing outward from the vertex
// (back toward the previous point, ahead toward the next) is > 0 exactly
// when that angle is strictly acute. A right angle (dot == 0) and any
// obtuse angle (dot < 0) are both permitted; straight-through travel is
// the dot == -1*|.|*|.| extreme of that same allowed range. A zero-length
// outward vector makes that triple permissive rather than rejecting,
// since it usually just means two coincident coordinates in the source
// data.
func obtuseTurnAllows(points []geo.Coordinate) bool {
	for i := 1; i+1 < len(points); i++ {
		p0, p1, p2 := points[i-1], points[i], points[i+1]
		outBack := geo.VectorBetween(p1, p0)
		outAhead := geo.VectorBetween(p1, p2)
		if outBack.IsZero() || outAhead.IsZero() {
			continue
		}
		if outBack.Dot(outAhead) > 0 {
			return false
		}
	}
	return true
}

// turnPoints assembles the point sequence the obtuse-turn filter checks
// for the transition from path's last key to a candidate edge: up to two
// points of history before "from", "from" itself, then the compacted
// edge's own internal geometry ending at "to".
func turnPoints(coordOf func(string) geo.Coordinate, path []string, edgeGeom []geo.Coordinate) []geo.Coordinate {
	n := len(path)
	points := make([]geo.Coordinate, 0, 2+len(edgeGeom))
	if n >= 3 {
		points = append(points, coordOf(path[n-3]))
	}
	if n >= 2 {
		points = append(points, coordOf(path[n-2]))
	}
	points = append(points, coordOf(path[n-1]))
	points = append(points, edgeGeom...)
	return points
}
