package pathfinder

import (
	"fmt"
	"runtime"

	"github.com/arifwn/meshpath/pkg/errs"
	"github.com/arifwn/meshpath/pkg/geo"
	"github.com/arifwn/meshpath/pkg/pathgraph"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// WorkerOptions controls the optional worker pool used by FindPathAsync.
type WorkerOptions struct {
	Enabled  bool
	PoolSize int `validate:"omitempty,gte=1"`
}

// Options configures a PathFinder's construction.
type Options struct {
	// Tolerance is the coordinate snap radius used for keying. Defaults
	// to 1e-5 when zero.
	Tolerance float64 `validate:"omitempty,gt=0"`
	// Key overrides the default rounded-coordinate key function.
	// Supplying one disables worker eligibility.
	Key geo.KeyFunc
	// Compact toggles chain compaction; nil and true both mean
	// "compact" (default true). A pointer distinguishes "unset" from an
	// explicit false.
	Compact *bool
	// Weight is required: it assigns a cost (or marks impassable) to
	// every polyline segment.
	Weight pathgraph.WeightFunc
	// EdgeDataSeed/EdgeDataReduce, when both set, enable payload
	// aggregation across compacted chains. Presence disables worker
	// eligibility.
	EdgeDataSeed   pathgraph.PayloadSeedFunc
	EdgeDataReduce pathgraph.PayloadReduceFunc
	// Progress is an optional preprocessing progress callback.
	Progress func(phase string, done, total int)
	Worker   WorkerOptions
	// EnableObtuseTurnFilter turns on the built-in veto of any transition
	// whose turn is strictly sharper than a right angle. It defaults to
	// off: a network can legitimately require a vertex reversal (a dead
	// end that only continues back the way it came), and vetoing that
	// unconditionally would make otherwise-reachable endpoints
	// unreachable. Callers that know their network never requires a
	// reversal can turn it on.
	EnableObtuseTurnFilter bool
	Logger                 zerolog.Logger
}

func (o *Options) applyDefaults() {
	if o.Tolerance == 0 {
		o.Tolerance = 1e-5
	}
	if o.Worker.PoolSize == 0 {
		o.Worker.PoolSize = runtime.NumCPU()
	}
	if o.Worker.PoolSize < 1 {
		o.Worker.PoolSize = 1
	}
}

func (o Options) compactEnabled() bool {
	return o.Compact == nil || *o.Compact
}

// workerEligible reports whether options permit worker dispatch at all;
// per-request eligibility additionally requires no per-search callbacks.
func (o Options) workerEligible() bool {
	return o.Worker.Enabled && o.Key == nil && !(o.EdgeDataSeed != nil && o.EdgeDataReduce != nil)
}

// Bool is a small helper for setting Options.Compact to an explicit
// literal, e.g. Options{Compact: pathfinder.Bool(false)}.
func Bool(b bool) *bool { return &b }

var validate = validator.New()

func (o Options) validateOptions() error {
	if o.Weight == nil {
		return fmt.Errorf("%w: Weight is required", errs.ErrInvalidOption)
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrInvalidOption, err.Error())
	}
	return nil
}

// SearchOptions configures a single FindPath/FindPathAsync call.
type SearchOptions struct {
	Algorithm       Algorithm
	DirectionBias   DirectionBiasFunc
	TransitionGuard TransitionGuardFunc
	OnNodeExpanded  NodeExpandedFunc
	// Heuristic overrides AStar's default admissible estimate (great-circle
	// distance from a candidate coordinate to the goal). Only consulted
	// when Algorithm is AlgorithmAStar. Supply one whenever Weight's cost
	// doesn't scale with physical distance, or the search stops being
	// admissible.
	Heuristic HeuristicFunc
	// SimplifyTolerance, when > 0, runs Douglas-Peucker simplification
	// (in meters) over the returned geometry before it is handed back.
	SimplifyTolerance float64
}

// HeuristicFunc estimates remaining cost from a coordinate to the search
// goal, in the same units as WeightFunc's returned costs.
type HeuristicFunc func(from, goal geo.Coordinate) float64

// Algorithm selects the search strategy.
type Algorithm string

const (
	AlgorithmDijkstra Algorithm = "dijkstra"
	AlgorithmAStar    Algorithm = "astar"
)

// TraversalContext is the bundle of coordinates and precomputed vectors
// handed to DirectionBiasFunc and TransitionGuardFunc.
type TraversalContext struct {
	From, To   string
	FromCoord  geo.Coordinate
	ToCoord    geo.Coordinate
	Cost       float64
	Path       []string
	FromToVector   geo.Vector2
	FromGoalVector geo.Vector2
	ToGoalVector   geo.Vector2

	HasPrevious           bool
	Previous              string
	PreviousToFromVector  geo.Vector2
}

// DirectionBiasFunc returns an additive per-edge cost bias given the full
// traversal context of the candidate transition.
type DirectionBiasFunc func(ctx TraversalContext) float64

// TransitionGuardFunc vetoes a transition by returning exactly false.
// Any other return, or none, allows it; a returned error aborts the
// search.
type TransitionGuardFunc func(ctx TraversalContext) (bool, error)

// NodeExpandedFunc is invoked once per accepted expansion.
type NodeExpandedFunc func(key string, cost float64)

// Path is the result of a successful search. FindPath/FindPathAsync
// return a nil *Path, nil error when no path exists.
type Path struct {
	Path      []geo.Coordinate
	Weight    float64
	EdgeDatas []interface{}
}
