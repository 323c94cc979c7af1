// Package ingest is an optional convenience adapter: it turns an OSM PBF
// extract into the []pathgraph.Feature input topology construction
// consumes. Nothing in pathgraph or pathfinder depends on this package.
package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/arifwn/meshpath/pkg/geo"
	"github.com/arifwn/meshpath/pkg/pathgraph"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// WayFilter decides whether a tagged way belongs on the network at all,
// e.g. rejecting footways and construction sites the way the source
// lineage's skipHighway set does.
type WayFilter func(tags osm.Tags) bool

// DefaultWayFilter accepts any way carrying a non-empty "highway" tag
// other than the pedestrian, cycling, track and construction categories a
// road router usually excludes.
func DefaultWayFilter(tags osm.Tags) bool {
	highway := tags.Find("highway")
	if highway == "" {
		return false
	}
	switch highway {
	case "footway", "path", "pedestrian", "steps", "cycleway", "bridleway", "corridor", "track", "construction":
		return false
	}
	return true
}

// FeaturesFromOSM reads every way from an OSM PBF extract accepted by
// filter and turns it into one pathgraph.Feature per way, in node order,
// carrying the way's tags as feature properties under the "tags" key.
// Nodes are consumed as osmpbf streams them (a PBF orders nodes before the
// ways that reference them), so this makes a single pass over r.
func FeaturesFromOSM(ctx context.Context, r io.Reader, filter WayFilter) ([]pathgraph.Feature, error) {
	if filter == nil {
		filter = DefaultWayFilter
	}

	scanner := osmpbf.New(ctx, r, 0)
	defer scanner.Close()

	nodeCoords := make(map[osm.NodeID]orb.Point)
	var features []pathgraph.Feature

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			nodeCoords[o.ID] = orb.Point{o.Lon, o.Lat}
		case *osm.Way:
			if len(o.Nodes) < 2 || !filter(o.Tags) {
				continue
			}
			line := make(orb.LineString, 0, len(o.Nodes))
			for _, n := range o.Nodes {
				pt, ok := nodeCoords[n.ID]
				if !ok {
					continue
				}
				line = append(line, pt)
			}
			if len(line) < 2 {
				continue
			}
			features = append(features, pathgraph.Feature{
				Coordinates: coordinatesFromLineString(line),
				Properties:  map[string]interface{}{"tags": o.Tags.Map(), "wayID": int64(o.ID)},
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("meshpath/ingest: scanning OSM data: %w", err)
	}

	return features, nil
}

func coordinatesFromLineString(line orb.LineString) []geo.Coordinate {
	coords := make([]geo.Coordinate, len(line))
	for i, pt := range line {
		coords[i] = geo.NewCoordinate2D(pt[0], pt[1])
	}
	return coords
}
