package pathfinder

import (
	"math"
	"sync"
	"testing"

	"github.com/arifwn/meshpath/pkg/errs"
	"github.com/arifwn/meshpath/pkg/geo"
	"github.com/arifwn/meshpath/pkg/pathgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dist(a, b geo.Coordinate) float64 {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func symmetricByDistance(a, b geo.Coordinate, _ map[string]interface{}) pathgraph.EdgeWeight {
	return pathgraph.Symmetric(dist(a, b))
}

func line(coords ...[3]float64) pathgraph.Feature {
	f := pathgraph.Feature{Coordinates: make([]geo.Coordinate, len(coords))}
	for i, c := range coords {
		f.Coordinates[i] = geo.NewCoordinate3D(c[0], c[1], c[2])
	}
	return f
}

func containsPoint(coords []geo.Coordinate, x, y float64) bool {
	for _, c := range coords {
		if c.X == x && c.Y == y {
			return true
		}
	}
	return false
}

// TestTwoSegmentL is scenario 1: an L-shaped two-segment network where the
// query endpoints are the network's own two extremities.
func TestTwoSegmentL(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 0, 0}, [3]float64{1, 0, 0}),
		line([3]float64{1, 0, 0}, [3]float64{1, 1, 0}),
	}
	pf, err := New(features, Options{Weight: symmetricByDistance})
	require.NoError(t, err)

	path, err := pf.FindPath(geo.NewCoordinate2D(0, 0), geo.NewCoordinate2D(1, 1), SearchOptions{})
	require.NoError(t, err)
	require.NotNil(t, path)
	assert.Len(t, path.Path, 3)
	assert.Greater(t, path.Weight, 0.0)
}

// TestParallelAlternativeWithDirectionBias is scenario 2: a shorter detour
// through (-1,0) wins unbiased, but a direction bias against
// goal-misaligned edges routes around it at a strictly higher cost.
func TestParallelAlternativeWithDirectionBias(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 0, 0}, [3]float64{5, 5, 0}),
		line([3]float64{5, 5, 0}, [3]float64{10, 0, 0}),
		line([3]float64{0, 0, 0}, [3]float64{-1, 0, 0}),
		line([3]float64{-1, 0, 0}, [3]float64{10, 0, 0}),
	}
	pf, err := New(features, Options{Weight: symmetricByDistance})
	require.NoError(t, err)

	start, end := geo.NewCoordinate2D(0, 0), geo.NewCoordinate2D(10, 0)

	unbiased, err := pf.FindPath(start, end, SearchOptions{})
	require.NoError(t, err)
	require.NotNil(t, unbiased)
	assert.True(t, containsPoint(unbiased.Path, -1, 0), "unbiased search should take the shorter detour through (-1,0)")

	biased, err := pf.FindPath(start, end, SearchOptions{
		DirectionBias: func(ctx TraversalContext) float64 {
			alignment := ctx.FromToVector.Dot(ctx.FromGoalVector)
			if alignment < 0 {
				return math.Abs(alignment) * 1000
			}
			return 0
		},
	})
	require.NoError(t, err)
	require.NotNil(t, biased)
	assert.False(t, containsPoint(biased.Path, -1, 0), "biased search must avoid the goal-misaligned edge")
	assert.Greater(t, biased.Weight, unbiased.Weight)
}

// TestObtuseTurnFilterBlocksReversal reuses the parallel-alternative network
// from TestParallelAlternativeWithDirectionBias: the shorter route through
// (-1,0) requires reversing direction at that vertex (arriving from (0,0)
// then leaving back toward (10,0) along the same line). With the built-in
// filter off (the default) that reversal is exactly what the unbiased
// search takes; turning it on must force the (5,5) detour instead, with no
// direction bias involved.
func TestObtuseTurnFilterBlocksReversal(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 0, 0}, [3]float64{5, 5, 0}),
		line([3]float64{5, 5, 0}, [3]float64{10, 0, 0}),
		line([3]float64{0, 0, 0}, [3]float64{-1, 0, 0}),
		line([3]float64{-1, 0, 0}, [3]float64{10, 0, 0}),
	}
	pf, err := New(features, Options{Weight: symmetricByDistance, EnableObtuseTurnFilter: true})
	require.NoError(t, err)

	start, end := geo.NewCoordinate2D(0, 0), geo.NewCoordinate2D(10, 0)
	path, err := pf.FindPath(start, end, SearchOptions{})
	require.NoError(t, err)
	require.NotNil(t, path)
	assert.False(t, containsPoint(path.Path, -1, 0), "filter must reject the reversal at (-1,0)")
	assert.True(t, containsPoint(path.Path, 5, 5), "search must detour through (5,5) instead")
}

// TestOneWayRespect is scenario 3: a forward-only network is traversable in
// one direction and reports absence, not an error, in the other.
func TestOneWayRespect(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 0, 0}, [3]float64{1, 0, 0}),
		line([3]float64{1, 0, 0}, [3]float64{1, 1, 0}),
	}
	oneWay := func(a, b geo.Coordinate, _ map[string]interface{}) pathgraph.EdgeWeight {
		return pathgraph.OneWay(dist(a, b))
	}
	pf, err := New(features, Options{Weight: oneWay})
	require.NoError(t, err)

	forward, err := pf.FindPath(geo.NewCoordinate2D(0, 0), geo.NewCoordinate2D(1, 1), SearchOptions{})
	require.NoError(t, err)
	assert.NotNil(t, forward)

	backward, err := pf.FindPath(geo.NewCoordinate2D(1, 1), geo.NewCoordinate2D(0, 0), SearchOptions{})
	require.NoError(t, err)
	assert.Nil(t, backward)
}

// TestThreeDLift is scenario 4: elevation is carried through untouched
// while a 2D query resolves onto the same vertices.
func TestThreeDLift(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 0, 0}, [3]float64{1, 0, 5}, [3]float64{2, 0, 10}),
	}
	pf, err := New(features, Options{Weight: symmetricByDistance})
	require.NoError(t, err)

	path, err := pf.FindPath(geo.NewCoordinate2D(0, 0), geo.NewCoordinate2D(2, 0), SearchOptions{})
	require.NoError(t, err)
	require.NotNil(t, path)
	require.Len(t, path.Path, 3)
	assert.Equal(t, geo.NewCoordinate3D(0, 0, 0), path.Path[0])
	assert.Equal(t, geo.NewCoordinate3D(1, 0, 5), path.Path[1])
	assert.Equal(t, geo.NewCoordinate3D(2, 0, 10), path.Path[2])
}

// TestNoForkChainRepeatQueries is scenario 5: a single non-branching chain
// collapses to one compacted edge, and repeat queries against the same
// endpoints must all succeed, proving phantom injection cleans up after
// itself every time.
func TestNoForkChainRepeatQueries(t *testing.T) {
	coords := make([][3]float64, 0, 9)
	for x := 1.0; x <= 9; x++ {
		coords = append(coords, [3]float64{x, 1, 0})
	}
	features := []pathgraph.Feature{line(coords...)}
	pf, err := New(features, Options{Weight: symmetricByDistance})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		path, err := pf.FindPath(geo.NewCoordinate2D(1, 1), geo.NewCoordinate2D(9, 1), SearchOptions{})
		require.NoError(t, err)
		require.NotNil(t, path)
		assert.InDelta(t, 8.0, path.Weight, 1e-9)
	}
}

// TestWorkerParity is scenario 6: concurrent async calls against a worker
// pool return the same result as the synchronous path. The callback
// fallback is covered by TestWorkerAsyncWithCallbackBypassesClosedPool.
func TestWorkerParity(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 0, 0}, [3]float64{1, 0, 0}),
		line([3]float64{1, 0, 0}, [3]float64{1, 1, 0}),
	}
	pf, err := New(features, Options{
		Weight: symmetricByDistance,
		Worker: WorkerOptions{Enabled: true, PoolSize: 2},
	})
	require.NoError(t, err)
	defer pf.Close()

	start, end := geo.NewCoordinate2D(0, 0), geo.NewCoordinate2D(1, 1)
	direct, err := pf.FindPath(start, end, SearchOptions{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Path, 2)
	errsOut := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errsOut[i] = pf.FindPathAsync(start, end, SearchOptions{})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		require.NoError(t, errsOut[i])
		require.NotNil(t, results[i])
		assert.Equal(t, direct.Weight, results[i].Weight)
		assert.Equal(t, direct.Path, results[i].Path)
	}
}

func TestWorkerAsyncWithCallbackBypassesClosedPool(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 0, 0}, [3]float64{1, 0, 0}),
		line([3]float64{1, 0, 0}, [3]float64{1, 1, 0}),
	}
	pf, err := New(features, Options{
		Weight: symmetricByDistance,
		Worker: WorkerOptions{Enabled: true, PoolSize: 1},
	})
	require.NoError(t, err)
	pf.Close()

	start, end := geo.NewCoordinate2D(0, 0), geo.NewCoordinate2D(1, 1)
	path, err := pf.FindPathAsync(start, end, SearchOptions{
		OnNodeExpanded: func(string, float64) {},
	})
	require.NoError(t, err)
	assert.NotNil(t, path, "a request carrying a callback must fall back to a direct call, not the closed pool")
}

// TestAmbiguousEndpointError places two dead-end vertices in bucket cells
// adjacent to, but not the same as, the query point's own rounding bucket
// (which is left empty): both fall within tolerance of the raw query
// point, so resolution must refuse to guess between them.
func TestAmbiguousEndpointError(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 3.9, 0}, [3]float64{0, 5.9, 0}),
		line([3]float64{0, 2.1, 0}, [3]float64{0, 0.1, 0}),
	}
	pf, err := New(features, Options{Weight: symmetricByDistance, Tolerance: 1.0})
	require.NoError(t, err)

	_, err = pf.FindPath(geo.NewCoordinate2D(0, 3.0), geo.NewCoordinate2D(0, 5.9), SearchOptions{})
	assert.ErrorIs(t, err, errs.ErrAmbiguousEndpoint)
}

func TestEndpointNotOnNetworkReturnsNilNotError(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 0, 0}, [3]float64{1, 0, 0}),
	}
	pf, err := New(features, Options{Weight: symmetricByDistance})
	require.NoError(t, err)

	path, err := pf.FindPath(geo.NewCoordinate2D(50, 50), geo.NewCoordinate2D(1, 0), SearchOptions{})
	require.NoError(t, err)
	assert.Nil(t, path)
}

func TestOptimalityMatchesDijkstraAndAStar(t *testing.T) {
	features := []pathgraph.Feature{
		line([3]float64{0, 0, 0}, [3]float64{5, 5, 0}),
		line([3]float64{5, 5, 0}, [3]float64{10, 0, 0}),
		line([3]float64{0, 0, 0}, [3]float64{-1, 0, 0}),
		line([3]float64{-1, 0, 0}, [3]float64{10, 0, 0}),
	}
	// Weights in kilometers, the unit of AStar's default great-circle
	// heuristic, so the heuristic stays admissible.
	kmWeight := func(a, b geo.Coordinate, _ map[string]interface{}) pathgraph.EdgeWeight {
		return pathgraph.Symmetric(geo.GreatCircleDistanceKM(a, b))
	}
	pf, err := New(features, Options{Weight: kmWeight})
	require.NoError(t, err)

	start, end := geo.NewCoordinate2D(0, 0), geo.NewCoordinate2D(10, 0)
	dijkstra, err := pf.FindPath(start, end, SearchOptions{Algorithm: AlgorithmDijkstra})
	require.NoError(t, err)
	astar, err := pf.FindPath(start, end, SearchOptions{Algorithm: AlgorithmAStar})
	require.NoError(t, err)

	require.NotNil(t, dijkstra)
	require.NotNil(t, astar)
	assert.InDelta(t, dijkstra.Weight, astar.Weight, 1e-9)
}
