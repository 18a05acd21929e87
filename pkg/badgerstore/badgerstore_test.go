package badgerstore

import (
	"testing"

	"github.com/orneryd/graphkit/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStorage(t *testing.T) *BadgerStorage {
	t.Helper()
	s, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStorageAddAndGetNode(t *testing.T) {
	s := openTestStorage(t)
	alice := storage.NewNodeID("alice")

	require.NoError(t, s.AddNode(alice, map[string]storage.Value{"age": storage.NewInt(30)}))
	assert.True(t, s.ContainsNode(alice))

	props, err := s.GetNodeProperties(alice)
	require.NoError(t, err)
	age, ok := props["age"].AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(30), age)
}

func TestBadgerStorageAddNodeAlreadyExists(t *testing.T) {
	s := openTestStorage(t)
	alice := storage.NewNodeID("alice")
	require.NoError(t, s.AddNode(alice, nil))
	assert.ErrorIs(t, s.AddNode(alice, nil), storage.ErrEntityAlreadyExist)
}

func TestBadgerStorageSetNodePropertiesNullDeletes(t *testing.T) {
	s := openTestStorage(t)
	alice := storage.NewNodeID("alice")
	require.NoError(t, s.AddNode(alice, map[string]storage.Value{"age": storage.NewInt(30)}))
	require.NoError(t, s.SetNodeProperties(alice, map[string]storage.Value{"age": storage.Null, "city": storage.NewString("nyc")}))

	props, err := s.GetNodeProperties(alice)
	require.NoError(t, err)
	_, hasAge := props["age"]
	assert.False(t, hasAge)
	assert.Equal(t, "nyc", props["city"].String())
}

func TestBadgerStorageEdgeRequiresEndpoints(t *testing.T) {
	s := openTestStorage(t)
	alice := storage.NewNodeID("alice")
	bob := storage.NewNodeID("bob")
	require.NoError(t, s.AddNode(alice, nil))

	edge := storage.NewEdgeID(alice, bob, "knows")
	assert.ErrorIs(t, s.AddEdge(edge, nil), storage.ErrEntityNotExist)

	require.NoError(t, s.AddNode(bob, nil))
	require.NoError(t, s.AddEdge(edge, nil))
	assert.True(t, s.ContainsEdge(edge))
}

func TestBadgerStorageAdjacency(t *testing.T) {
	s := openTestStorage(t)
	alice, bob := storage.NewNodeID("alice"), storage.NewNodeID("bob")
	require.NoError(t, s.AddNode(alice, nil))
	require.NoError(t, s.AddNode(bob, nil))
	edge := storage.NewEdgeID(alice, bob, "knows")
	require.NoError(t, s.AddEdge(edge, nil))

	out, err := s.GetOutgoingEdges(alice)
	require.NoError(t, err)
	assert.Equal(t, []storage.EdgeID{edge}, out)

	in, err := s.GetIncomingEdges(bob)
	require.NoError(t, err)
	assert.Equal(t, []storage.EdgeID{edge}, in)

	between, err := s.GetEdgesBetween(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, []storage.EdgeID{edge}, between)
}

func TestBadgerStorageDeleteNodeCascades(t *testing.T) {
	s := openTestStorage(t)
	alice, bob, carol := storage.NewNodeID("alice"), storage.NewNodeID("bob"), storage.NewNodeID("carol")
	require.NoError(t, s.AddNode(alice, nil))
	require.NoError(t, s.AddNode(bob, nil))
	require.NoError(t, s.AddNode(carol, nil))

	e1 := storage.NewEdgeID(alice, bob, "knows")
	e2 := storage.NewEdgeID(carol, alice, "knows")
	require.NoError(t, s.AddEdge(e1, nil))
	require.NoError(t, s.AddEdge(e2, nil))

	require.NoError(t, s.DeleteNode(alice))

	assert.False(t, s.ContainsNode(alice))
	assert.False(t, s.ContainsEdge(e1))
	assert.False(t, s.ContainsEdge(e2))
	assert.True(t, s.ContainsNode(bob))
	assert.True(t, s.ContainsNode(carol))
}

func TestBadgerStorageMetaAndClear(t *testing.T) {
	s := openTestStorage(t)
	require.NoError(t, s.AddNode(storage.NewNodeID("alice"), nil))
	require.NoError(t, s.SetMeta("schema_version", storage.NewInt(2)))

	v, ok, err := s.GetMeta("schema_version")
	require.NoError(t, err)
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(2), i)

	ok2, err := s.Clear()
	require.NoError(t, err)
	assert.True(t, ok2)
	assert.False(t, s.ContainsNode(storage.NewNodeID("alice")))
	_, ok, err = s.GetMeta("schema_version")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadgerStorageCloseBlocksFurtherOps(t *testing.T) {
	s, err := NewInMemory()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close must be idempotent")

	err = s.AddNode(storage.NewNodeID("alice"), nil)
	assert.ErrorIs(t, err, storage.ErrAccessClosedStorage)
}

func TestBadgerStorageSnapshot(t *testing.T) {
	s := openTestStorage(t)
	require.NoError(t, s.AddNode(storage.NewNodeID("alice"), nil))
	require.NoError(t, s.AddNode(storage.NewNodeID("bob"), nil))
	require.NoError(t, s.AddEdge(storage.NewEdgeID(storage.NewNodeID("alice"), storage.NewNodeID("bob"), "knows"), nil))

	nodeIDs, edgeIDs, err := s.Snapshot()
	require.NoError(t, err)
	assert.Len(t, nodeIDs, 2)
	assert.Len(t, edgeIDs, 1)
}
