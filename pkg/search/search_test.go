package search

import (
	"errors"
	"testing"

	"github.com/arifwn/meshpath/pkg/pathgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edge(w float64, coords ...string) pathgraph.CompactedEdge {
	return pathgraph.CompactedEdge{Weight: w}
}

// diamond builds a->b->d (cost 1+1=2) and a->c->d (cost 1+5=6), so the
// cheap path through b is the unique optimum.
func diamond() *pathgraph.CompactedGraph {
	return &pathgraph.CompactedGraph{
		Vertices: map[string]map[string]pathgraph.CompactedEdge{
			"a": {"b": edge(1), "c": edge(1)},
			"b": {"d": edge(1)},
			"c": {"d": edge(5)},
		},
	}
}

func TestDijkstraFindsCheapestPath(t *testing.T) {
	g := diamond()
	res, err := Dijkstra(g, "a", "d", Options{})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 2.0, res.Cost)
	assert.Equal(t, []string{"a", "b", "d"}, res.Path)
}

func TestDijkstraNoPathReturnsNil(t *testing.T) {
	g := &pathgraph.CompactedGraph{Vertices: map[string]map[string]pathgraph.CompactedEdge{
		"a": {"b": edge(1)},
	}}
	res, err := Dijkstra(g, "a", "z", Options{})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestAStarMatchesDijkstraCostWithoutHeuristic(t *testing.T) {
	g := diamond()
	dRes, _ := Dijkstra(g, "a", "d", Options{})
	aRes, err := AStar(g, "a", "d", Options{})
	require.NoError(t, err)
	assert.Equal(t, dRes.Cost, aRes.Cost)
}

func TestAStarExpandsNoMoreThanDijkstra(t *testing.T) {
	g := diamond()
	var dCount, aCount int
	Dijkstra(g, "a", "d", Options{OnNodeExpanded: func(string, float64) { dCount++ }})
	AStar(g, "a", "d", Options{
		OnNodeExpanded: func(string, float64) { aCount++ },
		Heuristic: func(node string) float64 {
			if node == "c" {
				return 4 // pushes the expensive branch later without breaking admissibility
			}
			return 0
		},
	})
	assert.LessOrEqual(t, aCount, dCount)
}

func TestTransitionGuardBlocksExactFalse(t *testing.T) {
	g := diamond()
	res, err := Dijkstra(g, "a", "d", Options{
		TransitionGuard: func(from, to string, cost float64, path []string) (bool, error) {
			return to != "b", nil
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 6.0, res.Cost, "blocking a->b must force the search onto a->c->d")
}

func TestTransitionGuardErrorAbortsSearch(t *testing.T) {
	g := diamond()
	sentinel := errors.New("boom")
	_, err := Dijkstra(g, "a", "d", Options{
		TransitionGuard: func(from, to string, cost float64, path []string) (bool, error) {
			return false, sentinel
		},
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestDirectionBiasChangesChosenPath(t *testing.T) {
	g := diamond()
	res, err := Dijkstra(g, "a", "d", Options{
		DirectionBias: func(from, to string, cost float64, path []string) float64 {
			if to == "b" {
				return 10
			}
			return 0
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, res.Path)
}

func TestOnNodeExpandedCalledOncePerAcceptedPop(t *testing.T) {
	g := diamond()
	counts := map[string]int{}
	Dijkstra(g, "a", "d", Options{OnNodeExpanded: func(key string, cost float64) { counts[key]++ }})
	for k, c := range counts {
		assert.Equal(t, 1, c, "node %s expanded more than once", k)
	}
}

func TestStartEqualsEndReturnsZeroCost(t *testing.T) {
	g := diamond()
	res, err := Dijkstra(g, "a", "a", Options{})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 0.0, res.Cost)
	assert.Equal(t, []string{"a"}, res.Path)
}
