package pathgraph

import (
	"testing"

	"github.com/arifwn/meshpath/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainPreprocessed() *PreprocessedGraph {
	feats := []Feature{
		{Coordinates: []geo.Coordinate{
			geo.NewCoordinate2D(1, 1), geo.NewCoordinate2D(2, 1), geo.NewCoordinate2D(3, 1),
			geo.NewCoordinate2D(4, 1), geo.NewCoordinate2D(5, 1),
		}},
	}
	return Preprocess(feats, baseOpts())
}

func TestCreatePhantomOnJunctionIsNoop(t *testing.T) {
	pg := chainPreprocessed()
	kStart := key(geo.NewCoordinate2D(1, 1))

	handle := CreatePhantom(pg, kStart)
	assert.False(t, handle.Created)
}

func TestCreatePhantomMidChainSplitsEdge(t *testing.T) {
	pg := chainPreprocessed()
	kStart := key(geo.NewCoordinate2D(1, 1))
	kEnd := key(geo.NewCoordinate2D(5, 1))
	kMid := key(geo.NewCoordinate2D(3, 1))

	before := len(pg.Compacted.Vertices)
	handle := CreatePhantom(pg, kMid)
	require.True(t, handle.Created)

	require.Contains(t, pg.Compacted.Vertices, kMid)
	assert.Contains(t, pg.Compacted.Vertices[kMid], kEnd)
	assert.Contains(t, pg.Compacted.Vertices[kStart], kMid)
	assert.Contains(t, pg.Compacted.Vertices[kStart], kEnd, "phantom injection only adds edges; the original long edge stays")
	assert.Equal(t, before+1, len(pg.Compacted.Vertices))

	RemovePhantom(pg, handle)
	assert.NotContains(t, pg.Compacted.Vertices, kMid)
	assert.Contains(t, pg.Compacted.Vertices[kStart], kEnd, "removing the phantom must leave the original edge in place")
	assert.Equal(t, before, len(pg.Compacted.Vertices))
}

func TestPhantomGeometryReconstructsOriginalPolyline(t *testing.T) {
	pg := chainPreprocessed()
	kStart := key(geo.NewCoordinate2D(1, 1))
	kMid := key(geo.NewCoordinate2D(3, 1))

	handle := CreatePhantom(pg, kMid)
	defer RemovePhantom(pg, handle)

	edge := pg.Compacted.Vertices[kStart][kMid]
	full := append([]geo.Coordinate{geo.NewCoordinate2D(1, 1)}, edge.Coordinates...)
	assert.Equal(t, []geo.Coordinate{
		geo.NewCoordinate2D(1, 1), geo.NewCoordinate2D(2, 1), geo.NewCoordinate2D(3, 1),
	}, full)
}

func TestPhantomIdempotentAcrossRepeatedSearches(t *testing.T) {
	pg := chainPreprocessed()
	kMid := key(geo.NewCoordinate2D(3, 1))

	snapshot := snapshotVertexKeys(pg)
	for i := 0; i < 5; i++ {
		handle := CreatePhantom(pg, kMid)
		RemovePhantom(pg, handle)
		assert.ElementsMatch(t, snapshot, snapshotVertexKeys(pg))
	}
}

func TestPhantomOneWayChainDoesNotAddReverseEdge(t *testing.T) {
	feats := []Feature{
		{Coordinates: []geo.Coordinate{geo.NewCoordinate2D(0, 0), geo.NewCoordinate2D(1, 0), geo.NewCoordinate2D(2, 0)}},
	}
	opts := baseOpts()
	opts.Weight = func(a, b geo.Coordinate, _ map[string]interface{}) EdgeWeight { return OneWay(1) }
	pg := Preprocess(feats, opts)

	kMid := key(geo.NewCoordinate2D(1, 0))
	kEnd := key(geo.NewCoordinate2D(2, 0))

	handle := CreatePhantom(pg, kMid)
	defer RemovePhantom(pg, handle)

	assert.Empty(t, pg.Compacted.Vertices[kEnd], "one-way chain must not graft a reverse edge onto the phantom")
}

func snapshotVertexKeys(pg *PreprocessedGraph) []string {
	var keys []string
	for from, tos := range pg.Compacted.Vertices {
		for to := range tos {
			keys = append(keys, from+">"+to)
		}
	}
	return keys
}
