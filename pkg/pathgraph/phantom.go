package pathgraph

import "github.com/arifwn/meshpath/pkg/geo"

// PhantomHandle records exactly what CreatePhantom mutated, so
// RemovePhantom can undo it precisely. Created is false when k was
// already a compacted vertex and nothing was mutated.
type PhantomHandle struct {
	Key          string
	Created      bool
	IncomingFrom []string
}

// CreatePhantom grafts k onto pg's compacted graph as if it were a
// junction, walking out along each incident raw edge (in both directions
// independently) to the nearest real compacted vertex. It is a no-op
// returning Created=false when k is already a compacted vertex.
func CreatePhantom(pg *PreprocessedGraph, k string) PhantomHandle {
	if pg.Compacted.HasVertex(k) {
		return PhantomHandle{Key: k, Created: false}
	}

	pg.Compacted.ensureVertex(k)
	handle := PhantomHandle{Key: k, Created: true}

	for first := range pg.Raw.Vertices[k] {
		edge, end := walkChain(pg.Raw, pg.Neighbors, k, first, pg.Reduce)
		pg.Compacted.ensureVertex(end)
		pg.Compacted.Vertices[k][end] = edge
	}

	for first := range pg.ReverseRaw.Vertices[k] {
		revEdge, junction := walkChain(pg.ReverseRaw, pg.Neighbors, k, first, pg.Reduce)
		incoming := reverseChainGeometry(revEdge, pg.Compacted.SourceCoordinates[k])
		pg.Compacted.ensureVertex(junction)
		pg.Compacted.Vertices[junction][k] = incoming
		handle.IncomingFrom = append(handle.IncomingFrom, junction)
	}

	return handle
}

// reverseChainGeometry turns the edge produced by walking the reverse
// graph from k (whose Coordinates run from k's immediate predecessor back
// to the feeding junction) into the forward-facing CompactedEdge geometry
// for junction->k: the intermediate points in original chain order,
// ending at k.
func reverseChainGeometry(revEdge CompactedEdge, kCoord geo.Coordinate) CompactedEdge {
	n := len(revEdge.Coordinates)
	coords := make([]geo.Coordinate, 0, n)
	// revEdge.Coordinates = [firstHopFromK, ..., junction]; drop the
	// junction (it's the source of the edge we're building, excluded
	// from its own intermediate list) and reverse the rest.
	for i := n - 2; i >= 0; i-- {
		coords = append(coords, revEdge.Coordinates[i])
	}
	coords = append(coords, kCoord)
	return CompactedEdge{
		Weight:      revEdge.Weight,
		Coordinates: coords,
		Payload:     revEdge.Payload,
	}
}

// RemovePhantom undoes exactly the mutations CreatePhantom performed,
// restoring the compacted graph to its pre-injection state.
func RemovePhantom(pg *PreprocessedGraph, handle PhantomHandle) {
	if !handle.Created {
		return
	}
	for _, junction := range handle.IncomingFrom {
		delete(pg.Compacted.Vertices[junction], handle.Key)
	}
	delete(pg.Compacted.Vertices, handle.Key)
}
