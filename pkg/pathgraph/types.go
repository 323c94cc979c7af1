// Package pathgraph builds and compacts the routed graph a search runs
// against: raw vertex extraction from overlapping polylines, collapsing of
// degree-two chains, and the phantom-vertex machinery that temporarily
// grafts search endpoints onto the compacted graph.
package pathgraph

import "github.com/arifwn/meshpath/pkg/geo"

// Feature is one input polyline: an ordered coordinate list plus an
// opaque properties bag handed to Weight and the payload seed function.
type Feature struct {
	Coordinates []geo.Coordinate
	Properties  map[string]interface{}
}

// EdgeWeight is the result of a WeightFunc call. A zero field means "no
// edge in that direction"; Forward == Backward with both > 0 is the
// common symmetric case.
type EdgeWeight struct {
	Forward  float64
	Backward float64
}

// Symmetric builds an EdgeWeight usable in both directions.
func Symmetric(w float64) EdgeWeight { return EdgeWeight{Forward: w, Backward: w} }

// OneWay builds an EdgeWeight usable only from a to b.
func OneWay(w float64) EdgeWeight { return EdgeWeight{Forward: w} }

// WeightFunc computes the cost of traversing segment (a,b) of a polyline
// carrying props. Returning a zero-valued field marks that direction
// impassable.
type WeightFunc func(a, b geo.Coordinate, props map[string]interface{}) EdgeWeight

// PayloadSeedFunc produces the initial per-raw-edge payload from a
// polyline's properties.
type PayloadSeedFunc func(props map[string]interface{}) interface{}

// PayloadReduceFunc folds a newly seeded payload into an existing one,
// accumulated across every raw edge a compacted chain passes through.
type PayloadReduceFunc func(acc, next interface{}) interface{}

// RawGraph is the vertex/edge graph extracted directly from the input
// polylines, before compaction.
type RawGraph struct {
	// Vertices[from][to] = weight of the directed edge from->to.
	Vertices map[string]map[string]float64
	// EdgePayloads[from][to] = folded payload for that directed edge, or
	// nil if no seed/reduce pair was configured.
	EdgePayloads map[string]map[string]interface{}
	// SourceCoordinates[key] = the original, un-rounded coordinate that
	// first produced this key.
	SourceCoordinates map[string]geo.Coordinate
	HasPayload        bool
}

func newRawGraph() *RawGraph {
	return &RawGraph{
		Vertices:          make(map[string]map[string]float64),
		EdgePayloads:      make(map[string]map[string]interface{}),
		SourceCoordinates: make(map[string]geo.Coordinate),
	}
}

// CompactedEdge is a single directed edge of the compacted graph,
// carrying the entire collapsed chain's geometry and folded payload.
type CompactedEdge struct {
	Weight float64
	// Coordinates holds the intermediate coordinates between the edge's
	// source and target, excluding the source and including the target
	// as the last element.
	Coordinates []geo.Coordinate
	Payload     interface{}
}

// CompactedGraph is the graph searches actually run on: only junctions,
// dead-ends, endpoints, and (transiently) phantom vertices.
type CompactedGraph struct {
	// Vertices[from][to] = the compacted edge from->to.
	Vertices          map[string]map[string]CompactedEdge
	SourceCoordinates map[string]geo.Coordinate
	HasPayload        bool
}

// Coordinate returns the coordinate for key, using the source coordinate
// table. Every vertex that ever appeared in the raw graph has an entry
// here, junction or not.
func (g *CompactedGraph) Coordinate(key string) (geo.Coordinate, bool) {
	c, ok := g.SourceCoordinates[key]
	return c, ok
}

// HasVertex reports whether key is currently a compacted vertex (a real
// junction, or a live phantom).
func (g *CompactedGraph) HasVertex(key string) bool {
	_, ok := g.Vertices[key]
	return ok
}

func (g *CompactedGraph) ensureVertex(key string) {
	if g.Vertices[key] == nil {
		g.Vertices[key] = make(map[string]CompactedEdge)
	}
}
