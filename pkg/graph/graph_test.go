package graph

import (
	"testing"

	"github.com/orneryd/graphkit/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(name string) storage.NodeID { return storage.NewNodeID(name) }

func TestSimpleGraphRejectsSecondEdgeBetweenSamePair(t *testing.T) {
	g := NewSimpleGraph(storage.NewNativeStorage())
	require.NoError(t, g.AddNode(n("a"), nil))
	require.NoError(t, g.AddNode(n("b"), nil))

	require.NoError(t, g.AddEdge(storage.NewEdgeID(n("a"), n("b"), "knows"), nil))

	err := g.AddEdge(storage.NewEdgeID(n("a"), n("b"), "likes"), nil)
	assert.ErrorIs(t, err, storage.ErrEntityAlreadyExist, "simple graphs dedupe by endpoint pair regardless of relation")
}

func TestMultiGraphAllowsParallelEdgesByRelation(t *testing.T) {
	g := NewMultiGraph(storage.NewNativeStorage())
	require.NoError(t, g.AddNode(n("a"), nil))
	require.NoError(t, g.AddNode(n("b"), nil))

	require.NoError(t, g.AddEdge(storage.NewEdgeID(n("a"), n("b"), "knows"), nil))
	require.NoError(t, g.AddEdge(storage.NewEdgeID(n("a"), n("b"), "likes"), nil))

	children, err := g.GetChildren(n("a"), nil)
	require.NoError(t, err)
	assert.Equal(t, []storage.NodeID{n("b")}, children, "distinct endpoint, even with two parallel edges")

	in, out, err := g.Degree(n("b"))
	require.NoError(t, err)
	assert.Equal(t, 2, in)
	assert.Equal(t, 0, out)
}

func buildDiamond(t *testing.T) *Graph {
	t.Helper()
	g := NewMultiGraph(storage.NewNativeStorage())
	for _, name := range []string{"root", "left", "right", "leaf"} {
		require.NoError(t, g.AddNode(n(name), nil))
	}
	require.NoError(t, g.AddEdge(storage.NewEdgeID(n("root"), n("left"), "to"), nil))
	require.NoError(t, g.AddEdge(storage.NewEdgeID(n("root"), n("right"), "to"), nil))
	require.NoError(t, g.AddEdge(storage.NewEdgeID(n("left"), n("leaf"), "to"), nil))
	require.NoError(t, g.AddEdge(storage.NewEdgeID(n("right"), n("leaf"), "to"), nil))
	return g
}

func collect[T comparable](seq func(func(T) bool)) []T {
	var out []T
	seq(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

func TestDescendantsVisitsEachNodeOnceDespiteDiamond(t *testing.T) {
	g := buildDiamond(t)

	descendants := collect(g.Descendants(n("root"), nil))
	assert.ElementsMatch(t, []storage.NodeID{n("left"), n("right"), n("leaf")}, descendants)
}

func TestAncestorsVisitsEachNodeOnceDespiteDiamond(t *testing.T) {
	g := buildDiamond(t)

	ancestors := collect(g.Ancestors(n("leaf"), nil))
	assert.ElementsMatch(t, []storage.NodeID{n("left"), n("right"), n("root")}, ancestors)
}

func TestDescendantsOfMissingNodeYieldsNothing(t *testing.T) {
	g := buildDiamond(t)
	descendants := collect(g.Descendants(n("ghost"), nil))
	assert.Empty(t, descendants)
}

func TestDescendantsStopsEarlyWhenConsumerBreaks(t *testing.T) {
	g := buildDiamond(t)
	var visited []storage.NodeID
	for id := range g.Descendants(n("root"), nil) {
		visited = append(visited, id)
		break
	}
	assert.Len(t, visited, 1)
}

func TestDescendantsHonorsPredicate(t *testing.T) {
	g := buildDiamond(t)
	descendants := collect(g.Descendants(n("root"), func(e storage.EdgeID) bool {
		return e.Dst != n("left")
	}))
	assert.ElementsMatch(t, []storage.NodeID{n("right"), n("leaf")}, descendants)
}

func TestPathsEnumeratesAllSimplePaths(t *testing.T) {
	g := buildDiamond(t)

	paths, err := g.Paths(n("root"), n("leaf"), nil)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	var sawLeft, sawRight bool
	for _, p := range paths {
		assert.Equal(t, n("root"), p[0])
		assert.Equal(t, n("leaf"), p[len(p)-1])
		if len(p) == 3 && p[1] == n("left") {
			sawLeft = true
		}
		if len(p) == 3 && p[1] == n("right") {
			sawRight = true
		}
	}
	assert.True(t, sawLeft)
	assert.True(t, sawRight)
}

func TestPathsHonorsPredicate(t *testing.T) {
	g := buildDiamond(t)

	paths, err := g.Paths(n("root"), n("leaf"), func(e storage.EdgeID) bool {
		return e.Src != n("left")
	})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, []storage.NodeID{n("root"), n("right"), n("leaf")}, paths[0])
}

func TestPathsErrorsOnMissingEndpoint(t *testing.T) {
	g := buildDiamond(t)
	_, err := g.Paths(n("ghost"), n("leaf"), nil)
	assert.ErrorIs(t, err, storage.ErrEntityNotExist)
}

func TestGraphDeleteNodeCascades(t *testing.T) {
	g := buildDiamond(t)
	require.NoError(t, g.DeleteNode(n("left")))

	assert.False(t, g.ContainsNode(n("left")))
	children, err := g.GetChildren(n("root"), nil)
	require.NoError(t, err)
	assert.Equal(t, []storage.NodeID{n("right")}, children)
}
