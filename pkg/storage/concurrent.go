package storage

import "sync"

// ConcurrentStorage wraps any Storage with a single sync.RWMutex,
// following the teacher's reader/writer discipline: reads take RLock,
// single-entity writes take Lock, and the bulk operations (DeleteNodes,
// DeleteEdges, Clear) take Lock for their entire duration rather than
// looping over individually-locked calls, so a reader never observes a
// torn adjacency index mid-bulk-delete.
//
// ConcurrentStorage wraps a generic Storage rather than hardcoding a map
// layout, so it can sit over NativeStorage or DeltaStorage alike — the
// delta backend inherits concurrency safety this way (spec §4.6).
type ConcurrentStorage struct {
	mu    sync.RWMutex
	inner Storage
}

var _ Storage = (*ConcurrentStorage)(nil)

// NewConcurrentStorage wraps inner for safe concurrent access.
func NewConcurrentStorage(inner Storage) *ConcurrentStorage {
	return &ConcurrentStorage{inner: inner}
}

func (s *ConcurrentStorage) ContainsNode(id NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.ContainsNode(id)
}

func (s *ConcurrentStorage) ContainsEdge(id EdgeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.ContainsEdge(id)
}

func (s *ConcurrentStorage) NodeIDs() ([]NodeID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.NodeIDs()
}

func (s *ConcurrentStorage) EdgeIDs() ([]EdgeID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.EdgeIDs()
}

func (s *ConcurrentStorage) AddNode(id NodeID, props map[string]Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.AddNode(id, props)
}

func (s *ConcurrentStorage) GetNodeProperties(id NodeID) (map[string]Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.GetNodeProperties(id)
}

func (s *ConcurrentStorage) SetNodeProperties(id NodeID, patch map[string]Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.SetNodeProperties(id, patch)
}

func (s *ConcurrentStorage) DeleteNode(id NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteNode(id)
}

func (s *ConcurrentStorage) AddEdge(id EdgeID, props map[string]Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.AddEdge(id, props)
}

func (s *ConcurrentStorage) GetEdgeProperties(id EdgeID) (map[string]Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.GetEdgeProperties(id)
}

func (s *ConcurrentStorage) SetEdgeProperties(id EdgeID, patch map[string]Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.SetEdgeProperties(id, patch)
}

func (s *ConcurrentStorage) DeleteEdge(id EdgeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteEdge(id)
}

func (s *ConcurrentStorage) GetIncomingEdges(id NodeID) ([]EdgeID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.GetIncomingEdges(id)
}

func (s *ConcurrentStorage) GetOutgoingEdges(id NodeID) ([]EdgeID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.GetOutgoingEdges(id)
}

func (s *ConcurrentStorage) GetEdgesBetween(from, to NodeID) ([]EdgeID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.GetEdgesBetween(from, to)
}

// DeleteNodes holds the writer lock for the whole bulk operation.
func (s *ConcurrentStorage) DeleteNodes(pred func(NodeID) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteNodes(pred)
}

// DeleteEdges holds the writer lock for the whole bulk operation.
func (s *ConcurrentStorage) DeleteEdges(pred func(EdgeID) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteEdges(pred)
}

func (s *ConcurrentStorage) GetMeta(name string) (Value, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.GetMeta(name)
}

func (s *ConcurrentStorage) SetMeta(name string, value Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.SetMeta(name, value)
}

func (s *ConcurrentStorage) Clear() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Clear()
}

func (s *ConcurrentStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Close()
}

// Snapshot delegates to the wrapped Storage if it implements Snapshotter,
// taking the reader lock so the listing is consistent with any
// concurrent bulk writer.
func (s *ConcurrentStorage) Snapshot() ([]NodeID, []EdgeID, error) {
	snap, ok := s.inner.(Snapshotter)
	if !ok {
		s.mu.RLock()
		defer s.mu.RUnlock()
		nodeIDs, err := s.inner.NodeIDs()
		if err != nil {
			return nil, nil, err
		}
		edgeIDs, err := s.inner.EdgeIDs()
		if err != nil {
			return nil, nil, err
		}
		return nodeIDs, edgeIDs, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snap.Snapshot()
}

var _ Snapshotter = (*ConcurrentStorage)(nil)
