package neo4jexport

import (
	"bytes"
	"testing"

	"github.com/orneryd/graphkit/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteToReadFromRoundTrip(t *testing.T) {
	src := storage.NewNativeStorage()
	require.NoError(t, src.AddNode(storage.NewNodeID("alice"), map[string]storage.Value{"age": storage.NewInt(30)}))
	require.NoError(t, src.AddNode(storage.NewNodeID("bob"), nil))
	require.NoError(t, src.AddEdge(storage.NewEdgeID(storage.NewNodeID("alice"), storage.NewNodeID("bob"), "knows"), map[string]storage.Value{"since": storage.NewInt(2020)}))

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, src))

	dst := storage.NewNativeStorage()
	require.NoError(t, ReadFrom(&buf, dst))

	assert.True(t, dst.ContainsNode(storage.NewNodeID("alice")))
	assert.True(t, dst.ContainsNode(storage.NewNodeID("bob")))

	props, err := dst.GetNodeProperties(storage.NewNodeID("alice"))
	require.NoError(t, err)
	age, _ := props["age"].AsInt()
	assert.Equal(t, int64(30), age)

	edge := storage.NewEdgeID(storage.NewNodeID("alice"), storage.NewNodeID("bob"), "knows")
	assert.True(t, dst.ContainsEdge(edge))
	edgeProps, err := dst.GetEdgeProperties(edge)
	require.NoError(t, err)
	since, _ := edgeProps["since"].AsInt()
	assert.Equal(t, int64(2020), since)
}

func TestWriteToEmptyGraph(t *testing.T) {
	src := storage.NewNativeStorage()
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, src))

	dst := storage.NewNativeStorage()
	require.NoError(t, ReadFrom(&buf, dst))
	ids, err := dst.NodeIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReadFromRejectsEdgeWithMissingEndpoint(t *testing.T) {
	doc := `{"nodes":[{"id":"alice","labels":[],"properties":{}}],"relationships":[{"id":"x","type":"knows","startNode":"alice","endNode":"ghost","properties":{}}]}`
	dst := storage.NewNativeStorage()
	err := ReadFrom(bytes.NewBufferString(doc), dst)
	assert.Error(t, err)
}
