package pathgraph

import (
	"github.com/arifwn/meshpath/pkg/geo"
	"github.com/rs/zerolog"
)

// BuildOptions configures topology extraction. Tolerance and Weight are
// required; Key defaults to geo.DefaultKeyFunc(Tolerance).
type BuildOptions struct {
	Tolerance     float64
	Key           geo.KeyFunc
	Weight        WeightFunc
	PayloadSeed   PayloadSeedFunc
	PayloadReduce PayloadReduceFunc
	Progress      func(phase string, done, total int)
	Logger        zerolog.Logger
}

func (o BuildOptions) keyFunc() geo.KeyFunc {
	if o.Key != nil {
		return o.Key
	}
	return geo.DefaultKeyFunc(o.Tolerance)
}

func (o BuildOptions) hasPayload() bool {
	return o.PayloadSeed != nil && o.PayloadReduce != nil
}

// BuildTopology turns features into a RawGraph per the insertion rules:
// zero-length segments are skipped, a zero weight marks a direction
// impassable, ties on repeated edges keep the minimum weight, and payloads
// fold through the configured seed/reduce pair.
func BuildTopology(features []Feature, opts BuildOptions) *RawGraph {
	key := opts.keyFunc()
	hasPayload := opts.hasPayload()

	raw := newRawGraph()
	raw.HasPayload = hasPayload

	total := len(features)
	for i, f := range features {
		for j := 0; j+1 < len(f.Coordinates); j++ {
			a, b := f.Coordinates[j], f.Coordinates[j+1]
			ra, rb := geo.Round(a, opts.Tolerance), geo.Round(b, opts.Tolerance)
			ka, kb := key(ra), key(rb)
			if ka == kb {
				continue
			}

			raw.recordSource(ka, a)
			raw.recordSource(kb, b)

			w := opts.Weight(a, b, f.Properties)
			if w.Forward > 0 {
				raw.insertEdge(ka, kb, w.Forward, f.Properties, opts)
			}
			if w.Backward > 0 {
				raw.insertEdge(kb, ka, w.Backward, f.Properties, opts)
			}
		}
		if opts.Progress != nil {
			opts.Progress("topology", i+1, total)
		}
	}

	opts.Logger.Debug().
		Int("vertices", len(raw.SourceCoordinates)).
		Int("features", total).
		Msg("topology built")

	return raw
}

// recordSource keeps the first-written coordinate for a key, per the
// "first-write wins" rule.
func (raw *RawGraph) recordSource(key string, c geo.Coordinate) {
	if _, ok := raw.SourceCoordinates[key]; !ok {
		raw.SourceCoordinates[key] = c
	}
}

func (raw *RawGraph) insertEdge(from, to string, w float64, props map[string]interface{}, opts BuildOptions) {
	if raw.Vertices[from] == nil {
		raw.Vertices[from] = make(map[string]float64)
	}
	if existing, ok := raw.Vertices[from][to]; ok {
		if w < existing {
			raw.Vertices[from][to] = w
		}
	} else {
		raw.Vertices[from][to] = w
	}

	if !opts.hasPayload() {
		return
	}
	if raw.EdgePayloads[from] == nil {
		raw.EdgePayloads[from] = make(map[string]interface{})
	}
	seed := opts.PayloadSeed(props)
	if existing, ok := raw.EdgePayloads[from][to]; ok {
		raw.EdgePayloads[from][to] = opts.PayloadReduce(existing, seed)
	} else {
		raw.EdgePayloads[from][to] = seed
	}
}
