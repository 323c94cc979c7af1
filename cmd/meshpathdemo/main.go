// Command meshpathdemo is a small demonstration binary: it reads an OSM
// PBF extract, builds a meshpath network from its drivable ways, and
// prints the shortest path between two coordinates given on the command
// line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/arifwn/meshpath/pkg/geo"
	"github.com/arifwn/meshpath/pkg/ingest"
	"github.com/arifwn/meshpath/pkg/pathfinder"
	"github.com/arifwn/meshpath/pkg/pathgraph"
)

var (
	mapFile  = flag.String("f", "map.osm.pbf", "OSM PBF extract to build the network from")
	fromLon  = flag.Float64("from-lon", 0, "query start longitude")
	fromLat  = flag.Float64("from-lat", 0, "query start latitude")
	toLon    = flag.Float64("to-lon", 0, "query end longitude")
	toLat    = flag.Float64("to-lat", 0, "query end latitude")
	tolerance = flag.Float64("tolerance", 1e-5, "coordinate snap tolerance in degrees")
)

func main() {
	flag.Parse()

	f, err := os.Open(*mapFile)
	if err != nil {
		log.Fatalf("opening %s: %v", *mapFile, err)
	}
	defer f.Close()

	log.Printf("reading OSM data from %s", *mapFile)
	features, err := ingest.FeaturesFromOSM(context.Background(), f, ingest.DefaultWayFilter)
	if err != nil {
		log.Fatalf("parsing OSM data: %v", err)
	}
	log.Printf("built %d drivable-way features", len(features))

	pf, err := pathfinder.New(features, pathfinder.Options{
		Tolerance: *tolerance,
		Weight:    distanceWeight,
	})
	if err != nil {
		log.Fatalf("building network: %v", err)
	}
	defer pf.Close()

	start := geo.NewCoordinate2D(*fromLon, *fromLat)
	end := geo.NewCoordinate2D(*toLon, *toLat)

	path, err := pf.FindPath(start, end, pathfinder.SearchOptions{Algorithm: pathfinder.AlgorithmAStar})
	if err != nil {
		log.Fatalf("searching: %v", err)
	}
	if path == nil {
		fmt.Println("no path found")
		return
	}

	fmt.Printf("weight: %.3f km, points: %d\n", path.Weight, len(path.Path))
	for _, c := range path.Path {
		fmt.Printf("%f,%f\n", c.X, c.Y)
	}
}

func distanceWeight(a, b geo.Coordinate, _ map[string]interface{}) pathgraph.EdgeWeight {
	return pathgraph.Symmetric(geo.GreatCircleDistanceKM(a, b))
}
