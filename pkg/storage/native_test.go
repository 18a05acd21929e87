package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(name string) NodeID { return NewNodeID(name) }

func TestNativeStorageAddAndGetNode(t *testing.T) {
	s := NewNativeStorage()
	alice := newTestNode("alice")

	require.NoError(t, s.AddNode(alice, map[string]Value{"age": NewInt(30)}))
	assert.True(t, s.ContainsNode(alice))

	props, err := s.GetNodeProperties(alice)
	require.NoError(t, err)
	age, ok := props["age"].AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(30), age)
}

func TestNativeStorageAddNodeAlreadyExists(t *testing.T) {
	s := NewNativeStorage()
	alice := newTestNode("alice")
	require.NoError(t, s.AddNode(alice, nil))

	err := s.AddNode(alice, nil)
	assert.ErrorIs(t, err, ErrEntityAlreadyExist)
}

func TestNativeStorageGetMissingNode(t *testing.T) {
	s := NewNativeStorage()
	_, err := s.GetNodeProperties(newTestNode("ghost"))
	assert.ErrorIs(t, err, ErrEntityNotExist)
}

func TestNativeStorageSetNodePropertiesNullDeletes(t *testing.T) {
	s := NewNativeStorage()
	alice := newTestNode("alice")
	require.NoError(t, s.AddNode(alice, map[string]Value{"age": NewInt(30), "city": NewString("nyc")}))

	require.NoError(t, s.SetNodeProperties(alice, map[string]Value{"age": Null, "country": NewString("us")}))

	props, err := s.GetNodeProperties(alice)
	require.NoError(t, err)
	_, hasAge := props["age"]
	assert.False(t, hasAge, "null value deletes the key")
	assert.Equal(t, "nyc", props["city"].String())
	assert.Equal(t, "us", props["country"].String())
}

func TestNativeStorageAddEdgeRequiresBothEndpoints(t *testing.T) {
	s := NewNativeStorage()
	alice := newTestNode("alice")
	bob := newTestNode("bob")
	require.NoError(t, s.AddNode(alice, nil))

	edge := NewEdgeID(alice, bob, "knows")
	err := s.AddEdge(edge, nil)
	assert.ErrorIs(t, err, ErrEntityNotExist)

	require.NoError(t, s.AddNode(bob, nil))
	require.NoError(t, s.AddEdge(edge, nil))
	assert.True(t, s.ContainsEdge(edge))
}

func TestNativeStorageAdjacencyIndexesBothDirections(t *testing.T) {
	s := NewNativeStorage()
	alice, bob := newTestNode("alice"), newTestNode("bob")
	require.NoError(t, s.AddNode(alice, nil))
	require.NoError(t, s.AddNode(bob, nil))
	edge := NewEdgeID(alice, bob, "knows")
	require.NoError(t, s.AddEdge(edge, nil))

	out, err := s.GetOutgoingEdges(alice)
	require.NoError(t, err)
	assert.Equal(t, []EdgeID{edge}, out)

	in, err := s.GetIncomingEdges(bob)
	require.NoError(t, err)
	assert.Equal(t, []EdgeID{edge}, in)

	between, err := s.GetEdgesBetween(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, []EdgeID{edge}, between)
}

func TestNativeStorageDeleteNodeCascadesToEdges(t *testing.T) {
	s := NewNativeStorage()
	alice, bob, carol := newTestNode("alice"), newTestNode("bob"), newTestNode("carol")
	require.NoError(t, s.AddNode(alice, nil))
	require.NoError(t, s.AddNode(bob, nil))
	require.NoError(t, s.AddNode(carol, nil))

	e1 := NewEdgeID(alice, bob, "knows")
	e2 := NewEdgeID(carol, alice, "knows")
	require.NoError(t, s.AddEdge(e1, nil))
	require.NoError(t, s.AddEdge(e2, nil))

	require.NoError(t, s.DeleteNode(alice))

	assert.False(t, s.ContainsNode(alice))
	assert.False(t, s.ContainsEdge(e1), "edge touching deleted node must be gone")
	assert.False(t, s.ContainsEdge(e2), "edge touching deleted node must be gone")
	assert.True(t, s.ContainsNode(bob))
	assert.True(t, s.ContainsNode(carol))

	in, err := s.GetIncomingEdges(bob)
	require.NoError(t, err)
	assert.Empty(t, in)
}

func TestNativeStorageSelfLoopDeleteNode(t *testing.T) {
	s := NewNativeStorage()
	alice := newTestNode("alice")
	require.NoError(t, s.AddNode(alice, nil))
	loop := NewEdgeID(alice, alice, "self")
	require.NoError(t, s.AddEdge(loop, nil))

	require.NoError(t, s.DeleteNode(alice))
	assert.False(t, s.ContainsEdge(loop))
}

func TestNativeStorageDeleteEdgeLeavesNodesIntact(t *testing.T) {
	s := NewNativeStorage()
	alice, bob := newTestNode("alice"), newTestNode("bob")
	require.NoError(t, s.AddNode(alice, nil))
	require.NoError(t, s.AddNode(bob, nil))
	edge := NewEdgeID(alice, bob, "knows")
	require.NoError(t, s.AddEdge(edge, nil))

	require.NoError(t, s.DeleteEdge(edge))
	assert.False(t, s.ContainsEdge(edge))
	assert.True(t, s.ContainsNode(alice))
	assert.True(t, s.ContainsNode(bob))
}

func TestNativeStorageDeleteNodesBulkByPredicate(t *testing.T) {
	s := NewNativeStorage()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, s.AddNode(newTestNode(n), nil))
	}

	count, err := s.DeleteNodes(func(id NodeID) bool { return id.Name != "b" })
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.False(t, s.ContainsNode(newTestNode("a")))
	assert.True(t, s.ContainsNode(newTestNode("b")))
	assert.False(t, s.ContainsNode(newTestNode("c")))
}

func TestNativeStorageMeta(t *testing.T) {
	s := NewNativeStorage()
	_, ok, err := s.GetMeta("schema_version")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetMeta("schema_version", NewInt(1)))
	v, ok, err := s.GetMeta("schema_version")
	require.NoError(t, err)
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(1), i)

	require.NoError(t, s.SetMeta("schema_version", Null))
	_, ok, err = s.GetMeta("schema_version")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNativeStorageClearEmptiesButStaysOpen(t *testing.T) {
	s := NewNativeStorage()
	require.NoError(t, s.AddNode(newTestNode("a"), nil))

	ok, err := s.Clear()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, s.ContainsNode(newTestNode("a")))

	require.NoError(t, s.AddNode(newTestNode("b"), nil), "storage must stay open after Clear")
}

func TestNativeStorageCloseIsIdempotentAndBlocksOps(t *testing.T) {
	s := NewNativeStorage()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close must be idempotent")

	err := s.AddNode(newTestNode("a"), nil)
	assert.ErrorIs(t, err, ErrAccessClosedStorage)

	_, _, err = s.GetMeta("x")
	assert.ErrorIs(t, err, ErrAccessClosedStorage)
}

func TestNativeStorageSnapshotImplementsSnapshotter(t *testing.T) {
	s := NewNativeStorage()
	require.NoError(t, s.AddNode(newTestNode("a"), nil))

	var snap Snapshotter = s
	nodeIDs, edgeIDs, err := snap.Snapshot()
	require.NoError(t, err)
	assert.Len(t, nodeIDs, 1)
	assert.Empty(t, edgeIDs)
}
