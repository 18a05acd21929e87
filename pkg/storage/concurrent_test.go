package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentStorageDelegatesToInner(t *testing.T) {
	s := NewConcurrentStorage(NewNativeStorage())
	alice := newTestNode("alice")

	require.NoError(t, s.AddNode(alice, map[string]Value{"age": NewInt(1)}))
	assert.True(t, s.ContainsNode(alice))

	props, err := s.GetNodeProperties(alice)
	require.NoError(t, err)
	age, _ := props["age"].AsInt()
	assert.Equal(t, int64(1), age)
}

func TestConcurrentStorageParallelWritesDontRace(t *testing.T) {
	s := NewConcurrentStorage(NewNativeStorage())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := NewNodeID(string(rune('a' + i%26)))
			_ = s.AddNode(id, map[string]Value{"seen": NewInt(int64(i))})
		}(i)
	}
	wg.Wait()

	ids, err := s.NodeIDs()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(ids), 26)
}

func TestConcurrentStorageParallelReadersDontBlockForever(t *testing.T) {
	s := NewConcurrentStorage(NewNativeStorage())
	require.NoError(t, s.AddNode(newTestNode("alice"), nil))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, s.ContainsNode(newTestNode("alice")))
		}()
	}
	wg.Wait()
}

func TestConcurrentStorageWrapsDeltaStorage(t *testing.T) {
	base := NewNativeStorage()
	require.NoError(t, base.AddNode(newTestNode("alice"), nil))

	delta := NewDeltaStorage(base, NewNativeStorage())
	s := NewConcurrentStorage(delta)

	assert.True(t, s.ContainsNode(newTestNode("alice")), "concurrent wrapper must see through to delta's base layer")
	require.NoError(t, s.AddNode(newTestNode("bob"), nil))
	assert.True(t, s.ContainsNode(newTestNode("bob")))
}

func TestConcurrentStorageBulkDeleteRemovesAllMatchingNodes(t *testing.T) {
	s := NewConcurrentStorage(NewNativeStorage())
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, s.AddNode(newTestNode(n), nil))
	}

	count, err := s.DeleteNodes(func(id NodeID) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	ids, err := s.NodeIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}
