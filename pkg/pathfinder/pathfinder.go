// Package pathfinder is the public facade over pathgraph and search: it
// resolves query coordinates onto the network, grafts them on as phantom
// vertices, runs the configured search algorithm with the optional built-in
// obtuse-turn filter composed against any user callbacks, and reconstructs
// the resulting geometry.
package pathfinder

import (
	"sync"

	"github.com/arifwn/meshpath/pkg/errs"
	"github.com/arifwn/meshpath/pkg/geo"
	"github.com/arifwn/meshpath/pkg/pathgraph"
	"github.com/arifwn/meshpath/pkg/search"
	"github.com/dhconnelly/rtreego"
	"github.com/rs/zerolog"
)

// PathFinder answers shortest-path queries against one preprocessed
// network. A single PathFinder serializes its own queries (phantom
// injection mutates the compacted graph in place); FindPathAsync's worker
// pool gets around that by giving every worker its own clone.
type PathFinder struct {
	opts   Options
	pg     *pathgraph.PreprocessedGraph
	idx    *rtreego.Rtree
	keyFn  geo.KeyFunc
	mu     sync.Mutex
	pool   *workerPool
	logger zerolog.Logger
}

// New builds a PathFinder from raw polyline features. It runs topology
// extraction and compaction once; the result is held for the PathFinder's
// lifetime and mutated only transiently, per query, by phantom injection.
func New(features []pathgraph.Feature, opts Options) (*PathFinder, error) {
	if err := opts.validateOptions(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	keyFn := opts.Key
	if keyFn == nil {
		keyFn = geo.DefaultKeyFunc(opts.Tolerance)
	}

	buildOpts := pathgraph.BuildOptions{
		Tolerance:     opts.Tolerance,
		Key:           keyFn,
		Weight:        opts.Weight,
		PayloadSeed:   opts.EdgeDataSeed,
		PayloadReduce: opts.EdgeDataReduce,
		Progress:      opts.Progress,
		Logger:        opts.Logger,
	}
	pg := pathgraph.PreprocessWithMode(features, buildOpts, opts.compactEnabled())

	pf := newPathFinder(pg, keyFn, opts)

	if opts.workerEligible() {
		pool, err := newWorkerPool(pf, opts.Worker.PoolSize)
		if err != nil {
			return nil, err
		}
		pf.pool = pool
	}

	return pf, nil
}

// NewFromPreprocessed builds a PathFinder over an already-preprocessed
// graph, skipping topology extraction entirely. Workers use it against
// their own PreprocessedGraph.Clone so phantom injection never crosses
// worker boundaries; it never starts its own worker pool.
func NewFromPreprocessed(pg *pathgraph.PreprocessedGraph, opts Options) (*PathFinder, error) {
	if err := opts.validateOptions(); err != nil {
		return nil, err
	}
	opts.applyDefaults()
	keyFn := opts.Key
	if keyFn == nil {
		keyFn = geo.DefaultKeyFunc(opts.Tolerance)
	}
	return newPathFinder(pg, keyFn, opts), nil
}

func newPathFinder(pg *pathgraph.PreprocessedGraph, keyFn geo.KeyFunc, opts Options) *PathFinder {
	return &PathFinder{
		opts:   opts,
		pg:     pg,
		idx:    buildVertexIndex(pg.Raw.SourceCoordinates),
		keyFn:  keyFn,
		logger: opts.Logger,
	}
}

// FindPath resolves start and end onto the network, searches, and returns
// the resulting geometry. It returns a nil *Path and nil error when either
// endpoint has no vertex within tolerance, matching the documented
// "endpoint not on network" contract; it returns ErrAmbiguousEndpoint when
// an endpoint matches more than one vertex within tolerance.
func (pf *PathFinder) FindPath(start, end geo.Coordinate, searchOpts SearchOptions) (*Path, error) {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	startKey, err := pf.resolveEndpoint(start)
	if err != nil {
		return nil, err
	}
	if startKey == "" {
		return nil, nil
	}
	endKey, err := pf.resolveEndpoint(end)
	if err != nil {
		return nil, err
	}
	if endKey == "" {
		return nil, nil
	}

	startHandle := pathgraph.CreatePhantom(pf.pg, startKey)
	endHandle := pathgraph.CreatePhantom(pf.pg, endKey)
	defer pathgraph.RemovePhantom(pf.pg, endHandle)
	defer pathgraph.RemovePhantom(pf.pg, startHandle)

	result, err := pf.runSearch(startKey, endKey, end, searchOpts)
	if err != nil {
		return nil, err
	}
	return buildPath(pf.pg.Compacted, result, searchOpts.SimplifyTolerance), nil
}

// FindPathAsync dispatches to the worker pool when one exists and the
// request carries no per-call callback (a callback closes over caller
// state a different worker's goroutine shouldn't touch), falling back to
// a synchronous FindPath otherwise.
func (pf *PathFinder) FindPathAsync(start, end geo.Coordinate, searchOpts SearchOptions) (*Path, error) {
	hasCallback := searchOpts.DirectionBias != nil || searchOpts.TransitionGuard != nil || searchOpts.OnNodeExpanded != nil
	if pf.pool == nil || hasCallback {
		return pf.FindPath(start, end, searchOpts)
	}
	req := asyncRequest{start: start, end: end, opts: searchOpts, reply: make(chan asyncReply, 1)}
	return pf.pool.submit(req)
}

// Close releases the worker pool, if any. It is safe to call more than
// once and safe to call on a PathFinder with no pool.
func (pf *PathFinder) Close() error {
	if pf.pool != nil {
		pf.pool.close()
	}
	return nil
}

// resolveEndpoint turns a query coordinate into a vertex key: an exact
// key match short-circuits straight to that vertex, otherwise the spatial
// index is consulted for every vertex within tolerance. Zero matches
// yields ("", nil) so the caller can report "no path" rather than an
// error; more than one is ErrAmbiguousEndpoint.
func (pf *PathFinder) resolveEndpoint(point geo.Coordinate) (string, error) {
	key := pf.keyFn(point)
	if _, ok := pf.pg.Raw.SourceCoordinates[key]; ok {
		return key, nil
	}

	tol := pf.opts.Tolerance
	var candidates []spatialVertex
	for _, m := range queryWithinTolerance(pf.idx, point, tol) {
		dx, dy := m.coord.X-point.X, m.coord.Y-point.Y
		if dx*dx+dy*dy <= tol*tol {
			candidates = append(candidates, m)
		}
	}

	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		return candidates[0].key, nil
	default:
		return "", errs.ErrAmbiguousEndpoint
	}
}

// runSearch dispatches to Dijkstra or AStar, wiring the built-in
// obtuse-turn filter and the caller's callbacks into search.Options.
func (pf *PathFinder) runSearch(startKey, endKey string, goalCoord geo.Coordinate, searchOpts SearchOptions) (*search.Result, error) {
	opts := search.Options{
		TransitionGuard: pf.buildGuard(searchOpts, goalCoord),
	}
	if searchOpts.DirectionBias != nil {
		opts.DirectionBias = func(from, to string, cost float64, path []string) float64 {
			return searchOpts.DirectionBias(pf.buildContext(from, to, cost, path, goalCoord))
		}
	}
	if searchOpts.OnNodeExpanded != nil {
		opts.OnNodeExpanded = func(key string, cost float64) { searchOpts.OnNodeExpanded(key, cost) }
	}

	if searchOpts.Algorithm == AlgorithmAStar {
		heuristic := searchOpts.Heuristic
		opts.Heuristic = func(node string) float64 {
			coord := pf.coordOf(node)
			if heuristic != nil {
				return heuristic(coord, goalCoord)
			}
			return geo.GreatCircleDistanceKM(coord, goalCoord)
		}
		return search.AStar(pf.pg.Compacted, startKey, endKey, opts)
	}
	return search.Dijkstra(pf.pg.Compacted, startKey, endKey, opts)
}

// buildGuard composes the built-in obtuse-turn filter (off unless
// Options.EnableObtuseTurnFilter is set) with
// any user TransitionGuard, short-circuiting to nil when neither applies
// so the search package can skip predecessor-path reconstruction entirely.
func (pf *PathFinder) buildGuard(searchOpts SearchOptions, goalCoord geo.Coordinate) search.TransitionGuardFunc {
	obtuseOn := pf.opts.EnableObtuseTurnFilter
	if !obtuseOn && searchOpts.TransitionGuard == nil {
		return nil
	}
	return func(from, to string, cost float64, path []string) (bool, error) {
		if obtuseOn {
			edge := pf.pg.Compacted.Vertices[from][to]
			if !obtuseTurnAllows(turnPoints(pf.coordOf, path, edge.Coordinates)) {
				return false, nil
			}
		}
		if searchOpts.TransitionGuard != nil {
			return searchOpts.TransitionGuard(pf.buildContext(from, to, cost, path, goalCoord))
		}
		return true, nil
	}
}
