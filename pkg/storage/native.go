package storage

// NativeStorage is the in-memory reference implementation: plain Go maps
// for properties and an adjacency index maintained incrementally on every
// mutation. It is single-threaded only (spec §4.4/§5) — concurrent use
// has undefined results; wrap it in ConcurrentStorage for multi-reader/
// single-writer access.
type NativeStorage struct {
	nodeProps map[NodeID]map[string]Value
	edgeProps map[EdgeID]map[string]Value
	out       map[NodeID]map[EdgeID]struct{}
	in        map[NodeID]map[EdgeID]struct{}
	meta      map[string]Value
	closed    bool
}

var _ Storage = (*NativeStorage)(nil)

// NewNativeStorage returns an empty, open native storage.
func NewNativeStorage() *NativeStorage {
	return &NativeStorage{
		nodeProps: make(map[NodeID]map[string]Value),
		edgeProps: make(map[EdgeID]map[string]Value),
		out:       make(map[NodeID]map[EdgeID]struct{}),
		in:        make(map[NodeID]map[EdgeID]struct{}),
		meta:      make(map[string]Value),
	}
}

func copyProps(props map[string]Value) map[string]Value {
	cp := make(map[string]Value, len(props))
	for k, v := range props {
		if v.IsNull() {
			continue
		}
		cp[k] = v
	}
	return cp
}

func (s *NativeStorage) ContainsNode(id NodeID) bool {
	if s.closed {
		return false
	}
	_, ok := s.nodeProps[id]
	return ok
}

func (s *NativeStorage) ContainsEdge(id EdgeID) bool {
	if s.closed {
		return false
	}
	_, ok := s.edgeProps[id]
	return ok
}

func (s *NativeStorage) NodeIDs() ([]NodeID, error) {
	if s.closed {
		return nil, &ClosedError{}
	}
	ids := make([]NodeID, 0, len(s.nodeProps))
	for id := range s.nodeProps {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *NativeStorage) EdgeIDs() ([]EdgeID, error) {
	if s.closed {
		return nil, &ClosedError{}
	}
	ids := make([]EdgeID, 0, len(s.edgeProps))
	for id := range s.edgeProps {
		ids = append(ids, id)
	}
	return ids, nil
}

// AddNode is O(1) amortized.
func (s *NativeStorage) AddNode(id NodeID, props map[string]Value) error {
	if s.closed {
		return &ClosedError{}
	}
	if _, exists := s.nodeProps[id]; exists {
		return &AlreadyExistError{ID: id}
	}
	s.nodeProps[id] = copyProps(props)
	return nil
}

func (s *NativeStorage) GetNodeProperties(id NodeID) (map[string]Value, error) {
	if s.closed {
		return nil, &ClosedError{}
	}
	p, exists := s.nodeProps[id]
	if !exists {
		return nil, &NotExistError{ID: id}
	}
	return copyProps(p), nil
}

func (s *NativeStorage) SetNodeProperties(id NodeID, patch map[string]Value) error {
	if s.closed {
		return &ClosedError{}
	}
	p, exists := s.nodeProps[id]
	if !exists {
		return &NotExistError{ID: id}
	}
	for k, v := range patch {
		if v.IsNull() {
			delete(p, k)
		} else {
			p[k] = v
		}
	}
	return nil
}

// deleteEdgeInternal removes e from both endpoints' adjacency sets and
// from edgeProps. Caller guarantees e exists.
func (s *NativeStorage) deleteEdgeInternal(e EdgeID) {
	if _, ok := s.out[e.Src][e]; ok {
		delete(s.out[e.Src], e)
	} else {
		logger.Printf("invariant violation: edge %s missing from out-adjacency of %s", e, e.Src)
	}
	if _, ok := s.in[e.Dst][e]; ok {
		delete(s.in[e.Dst], e)
	} else {
		logger.Printf("invariant violation: edge %s missing from in-adjacency of %s", e, e.Dst)
	}
	delete(s.edgeProps, e)
}

// DeleteNode is O(|in(n)| + |out(n)|): collect the edges touching n,
// delete each (maintaining invariants 1-3), then drop n itself.
func (s *NativeStorage) DeleteNode(id NodeID) error {
	if s.closed {
		return &ClosedError{}
	}
	if _, exists := s.nodeProps[id]; !exists {
		return &NotExistError{ID: id}
	}

	touching := make(map[EdgeID]struct{})
	for e := range s.out[id] {
		touching[e] = struct{}{}
	}
	for e := range s.in[id] {
		touching[e] = struct{}{}
	}
	for e := range touching {
		s.deleteEdgeInternal(e)
	}

	delete(s.nodeProps, id)
	delete(s.out, id)
	delete(s.in, id)
	return nil
}

// AddEdge is O(1) amortized.
func (s *NativeStorage) AddEdge(id EdgeID, props map[string]Value) error {
	if s.closed {
		return &ClosedError{}
	}
	if _, exists := s.edgeProps[id]; exists {
		return &AlreadyExistError{ID: id}
	}
	if _, ok := s.nodeProps[id.Src]; !ok {
		return &NotExistError{ID: id.Src}
	}
	if _, ok := s.nodeProps[id.Dst]; !ok {
		return &NotExistError{ID: id.Dst}
	}

	s.edgeProps[id] = copyProps(props)

	if s.out[id.Src] == nil {
		s.out[id.Src] = make(map[EdgeID]struct{})
	}
	s.out[id.Src][id] = struct{}{}

	if s.in[id.Dst] == nil {
		s.in[id.Dst] = make(map[EdgeID]struct{})
	}
	s.in[id.Dst][id] = struct{}{}

	return nil
}

func (s *NativeStorage) GetEdgeProperties(id EdgeID) (map[string]Value, error) {
	if s.closed {
		return nil, &ClosedError{}
	}
	p, exists := s.edgeProps[id]
	if !exists {
		return nil, &NotExistError{ID: id}
	}
	return copyProps(p), nil
}

func (s *NativeStorage) SetEdgeProperties(id EdgeID, patch map[string]Value) error {
	if s.closed {
		return &ClosedError{}
	}
	p, exists := s.edgeProps[id]
	if !exists {
		return &NotExistError{ID: id}
	}
	for k, v := range patch {
		if v.IsNull() {
			delete(p, k)
		} else {
			p[k] = v
		}
	}
	return nil
}

func (s *NativeStorage) DeleteEdge(id EdgeID) error {
	if s.closed {
		return &ClosedError{}
	}
	if _, exists := s.edgeProps[id]; !exists {
		return &NotExistError{ID: id}
	}
	s.deleteEdgeInternal(id)
	return nil
}

func (s *NativeStorage) GetIncomingEdges(id NodeID) ([]EdgeID, error) {
	if s.closed {
		return nil, &ClosedError{}
	}
	if _, exists := s.nodeProps[id]; !exists {
		return nil, &NotExistError{ID: id}
	}
	result := make([]EdgeID, 0, len(s.in[id]))
	for e := range s.in[id] {
		result = append(result, e)
	}
	return result, nil
}

func (s *NativeStorage) GetOutgoingEdges(id NodeID) ([]EdgeID, error) {
	if s.closed {
		return nil, &ClosedError{}
	}
	if _, exists := s.nodeProps[id]; !exists {
		return nil, &NotExistError{ID: id}
	}
	result := make([]EdgeID, 0, len(s.out[id]))
	for e := range s.out[id] {
		result = append(result, e)
	}
	return result, nil
}

func (s *NativeStorage) GetEdgesBetween(from, to NodeID) ([]EdgeID, error) {
	if s.closed {
		return nil, &ClosedError{}
	}
	result := make([]EdgeID, 0)
	for e := range s.out[from] {
		if e.Dst == to {
			result = append(result, e)
		}
	}
	return result, nil
}

// DeleteNodes iterates the corresponding key set once, snapshotting the
// target ids before mutating so the predicate-driven loop never observes
// its own edits. Per-target failures are swallowed (spec §4.3/§7).
func (s *NativeStorage) DeleteNodes(pred func(NodeID) bool) (int, error) {
	if s.closed {
		return 0, &ClosedError{}
	}
	targets := make([]NodeID, 0)
	for id := range s.nodeProps {
		if pred(id) {
			targets = append(targets, id)
		}
	}
	count := 0
	for _, id := range targets {
		if err := s.DeleteNode(id); err == nil {
			count++
		} else {
			logger.Printf("invariant violation: snapshotted delete target %s failed: %v", id, err)
		}
	}
	return count, nil
}

func (s *NativeStorage) DeleteEdges(pred func(EdgeID) bool) (int, error) {
	if s.closed {
		return 0, &ClosedError{}
	}
	targets := make([]EdgeID, 0)
	for id := range s.edgeProps {
		if pred(id) {
			targets = append(targets, id)
		}
	}
	count := 0
	for _, id := range targets {
		if err := s.DeleteEdge(id); err == nil {
			count++
		} else {
			logger.Printf("invariant violation: snapshotted delete target %s failed: %v", id, err)
		}
	}
	return count, nil
}

func (s *NativeStorage) GetMeta(name string) (Value, bool, error) {
	if s.closed {
		return Value{}, false, &ClosedError{}
	}
	v, ok := s.meta[name]
	return v, ok, nil
}

func (s *NativeStorage) SetMeta(name string, value Value) error {
	if s.closed {
		return &ClosedError{}
	}
	if value.IsNull() {
		delete(s.meta, name)
	} else {
		s.meta[name] = value
	}
	return nil
}

// Clear empties nodes, edges, and metadata, keeping the storage open.
// This spec leaves open whether Clear on a closed storage should raise
// or return false silently; we raise, consistent with every other
// operation's closed-first check (see DESIGN.md).
func (s *NativeStorage) Clear() (bool, error) {
	if s.closed {
		return false, &ClosedError{}
	}
	s.nodeProps = make(map[NodeID]map[string]Value)
	s.edgeProps = make(map[EdgeID]map[string]Value)
	s.out = make(map[NodeID]map[EdgeID]struct{})
	s.in = make(map[NodeID]map[EdgeID]struct{})
	s.meta = make(map[string]Value)
	return true, nil
}

// Close is idempotent and never fails.
func (s *NativeStorage) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.nodeProps = nil
	s.edgeProps = nil
	s.out = nil
	s.in = nil
	s.meta = nil
	return nil
}

// Snapshot returns the current node/edge id sets, used by Snapshotter
// consumers (the Neo4j JSON exporter).
func (s *NativeStorage) Snapshot() ([]NodeID, []EdgeID, error) {
	nodeIDs, err := s.NodeIDs()
	if err != nil {
		return nil, nil, err
	}
	edgeIDs, err := s.EdgeIDs()
	if err != nil {
		return nil, nil, err
	}
	return nodeIDs, edgeIDs, nil
}

var _ Snapshotter = (*NativeStorage)(nil)
