package storage

// DeltaStorage layers a mutable "present" over an immutable (or simply
// shared, possibly read-only) "base": reads fall through to base for
// anything present hasn't touched, writes land in present, and a deleted
// entity is recorded in a tombstone set rather than erased from base
// (which DeltaStorage does not own and must not mutate).
//
// Mutating a property of a node or edge that still lives only in base
// first "shadow-projects" it into present — copies its current merged
// properties in, so present's own CRUD and adjacency bookkeeping can take
// over for that entity from then on. AddEdge shadow-projects its
// endpoints the same way, since present's own AddEdge requires both
// endpoints to already be present in present's internal maps (spec §4.6).
//
// Per spec §4.6, Close only closes present; base is assumed to be shared
// (e.g. across several deltas layered on one another) and outlives it.
// Reads therefore keep working against base after a delta is closed —
// only writes (which always go through present) start failing.
// Similarly Clear only empties present: tombstones and base contents
// survive, so a cleared delta can still show base's entities again.
type DeltaStorage struct {
	base    Storage
	present Storage

	deletedNodes map[NodeID]struct{}
	deletedEdges map[EdgeID]struct{}
}

var _ Storage = (*DeltaStorage)(nil)

// NewDeltaStorage layers present over base. present should start empty;
// base may be nil, in which case DeltaStorage behaves like present alone
// with tombstone bookkeeping added.
func NewDeltaStorage(base, present Storage) *DeltaStorage {
	return &DeltaStorage{
		base:         base,
		present:      present,
		deletedNodes: make(map[NodeID]struct{}),
		deletedEdges: make(map[EdgeID]struct{}),
	}
}

func (s *DeltaStorage) baseContainsNode(id NodeID) bool {
	return s.base != nil && s.base.ContainsNode(id)
}

func (s *DeltaStorage) baseContainsEdge(id EdgeID) bool {
	return s.base != nil && s.base.ContainsEdge(id)
}

func (s *DeltaStorage) ContainsNode(id NodeID) bool {
	if _, tomb := s.deletedNodes[id]; tomb {
		return false
	}
	return s.present.ContainsNode(id) || s.baseContainsNode(id)
}

func (s *DeltaStorage) ContainsEdge(id EdgeID) bool {
	if _, tomb := s.deletedEdges[id]; tomb {
		return false
	}
	return s.present.ContainsEdge(id) || s.baseContainsEdge(id)
}

func (s *DeltaStorage) NodeIDs() ([]NodeID, error) {
	seen := make(map[NodeID]struct{})
	if presentIDs, err := s.present.NodeIDs(); err == nil {
		for _, id := range presentIDs {
			seen[id] = struct{}{}
		}
	}
	if s.base != nil {
		baseIDs, err := s.base.NodeIDs()
		if err == nil {
			for _, id := range baseIDs {
				if _, tomb := s.deletedNodes[id]; !tomb {
					seen[id] = struct{}{}
				}
			}
		}
	}
	result := make([]NodeID, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}
	return result, nil
}

func (s *DeltaStorage) EdgeIDs() ([]EdgeID, error) {
	seen := make(map[EdgeID]struct{})
	if presentIDs, err := s.present.EdgeIDs(); err == nil {
		for _, id := range presentIDs {
			seen[id] = struct{}{}
		}
	}
	if s.base != nil {
		baseIDs, err := s.base.EdgeIDs()
		if err == nil {
			for _, id := range baseIDs {
				if _, tomb := s.deletedEdges[id]; !tomb {
					seen[id] = struct{}{}
				}
			}
		}
	}
	result := make([]EdgeID, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}
	return result, nil
}

func (s *DeltaStorage) AddNode(id NodeID, props map[string]Value) error {
	if s.ContainsNode(id) {
		return &AlreadyExistError{ID: id}
	}
	if err := s.present.AddNode(id, props); err != nil {
		return err
	}
	delete(s.deletedNodes, id)
	return nil
}

func (s *DeltaStorage) GetNodeProperties(id NodeID) (map[string]Value, error) {
	if _, tomb := s.deletedNodes[id]; tomb {
		return nil, &NotExistError{ID: id}
	}
	if s.present.ContainsNode(id) {
		return s.present.GetNodeProperties(id)
	}
	if s.baseContainsNode(id) {
		return s.base.GetNodeProperties(id)
	}
	return nil, &NotExistError{ID: id}
}

// shadowProjectNode copies a base-only node's current properties into
// present, so present's own bookkeeping owns it from here on.
func (s *DeltaStorage) shadowProjectNode(id NodeID) error {
	if s.present.ContainsNode(id) {
		return nil
	}
	props, err := s.base.GetNodeProperties(id)
	if err != nil {
		return err
	}
	return s.present.AddNode(id, props)
}

func (s *DeltaStorage) SetNodeProperties(id NodeID, patch map[string]Value) error {
	if !s.ContainsNode(id) {
		return &NotExistError{ID: id}
	}
	if err := s.shadowProjectNode(id); err != nil {
		return err
	}
	return s.present.SetNodeProperties(id, patch)
}

func (s *DeltaStorage) DeleteNode(id NodeID) error {
	if !s.ContainsNode(id) {
		return &NotExistError{ID: id}
	}
	touching, err := s.edgesTouching(id)
	if err != nil {
		return err
	}
	for _, e := range touching {
		if err := s.DeleteEdge(e); err != nil {
			return err
		}
	}
	if s.present.ContainsNode(id) {
		if err := s.present.DeleteNode(id); err != nil {
			return err
		}
	}
	s.deletedNodes[id] = struct{}{}
	return nil
}

func (s *DeltaStorage) edgesTouching(id NodeID) ([]EdgeID, error) {
	in, err := s.GetIncomingEdges(id)
	if err != nil {
		return nil, err
	}
	out, err := s.GetOutgoingEdges(id)
	if err != nil {
		return nil, err
	}
	seen := make(map[EdgeID]struct{}, len(in)+len(out))
	for _, e := range in {
		seen[e] = struct{}{}
	}
	for _, e := range out {
		seen[e] = struct{}{}
	}
	result := make([]EdgeID, 0, len(seen))
	for e := range seen {
		result = append(result, e)
	}
	return result, nil
}

func (s *DeltaStorage) AddEdge(id EdgeID, props map[string]Value) error {
	if s.ContainsEdge(id) {
		return &AlreadyExistError{ID: id}
	}
	if !s.ContainsNode(id.Src) {
		return &NotExistError{ID: id.Src}
	}
	if !s.ContainsNode(id.Dst) {
		return &NotExistError{ID: id.Dst}
	}
	if err := s.shadowProjectNode(id.Src); err != nil {
		return err
	}
	if err := s.shadowProjectNode(id.Dst); err != nil {
		return err
	}
	if err := s.present.AddEdge(id, props); err != nil {
		return err
	}
	delete(s.deletedEdges, id)
	return nil
}

func (s *DeltaStorage) GetEdgeProperties(id EdgeID) (map[string]Value, error) {
	if _, tomb := s.deletedEdges[id]; tomb {
		return nil, &NotExistError{ID: id}
	}
	if s.present.ContainsEdge(id) {
		return s.present.GetEdgeProperties(id)
	}
	if s.baseContainsEdge(id) {
		return s.base.GetEdgeProperties(id)
	}
	return nil, &NotExistError{ID: id}
}

func (s *DeltaStorage) shadowProjectEdge(id EdgeID) error {
	if s.present.ContainsEdge(id) {
		return nil
	}
	if err := s.shadowProjectNode(id.Src); err != nil {
		return err
	}
	if err := s.shadowProjectNode(id.Dst); err != nil {
		return err
	}
	props, err := s.base.GetEdgeProperties(id)
	if err != nil {
		return err
	}
	return s.present.AddEdge(id, props)
}

func (s *DeltaStorage) SetEdgeProperties(id EdgeID, patch map[string]Value) error {
	if !s.ContainsEdge(id) {
		return &NotExistError{ID: id}
	}
	if err := s.shadowProjectEdge(id); err != nil {
		return err
	}
	return s.present.SetEdgeProperties(id, patch)
}

func (s *DeltaStorage) DeleteEdge(id EdgeID) error {
	if !s.ContainsEdge(id) {
		return &NotExistError{ID: id}
	}
	if s.present.ContainsEdge(id) {
		if err := s.present.DeleteEdge(id); err != nil {
			return err
		}
	}
	s.deletedEdges[id] = struct{}{}
	return nil
}

func mergeEdgeIDs(a, b []EdgeID, tombstones map[EdgeID]struct{}) []EdgeID {
	seen := make(map[EdgeID]struct{}, len(a)+len(b))
	for _, e := range a {
		if _, tomb := tombstones[e]; !tomb {
			seen[e] = struct{}{}
		}
	}
	for _, e := range b {
		if _, tomb := tombstones[e]; !tomb {
			seen[e] = struct{}{}
		}
	}
	result := make([]EdgeID, 0, len(seen))
	for e := range seen {
		result = append(result, e)
	}
	return result
}

func (s *DeltaStorage) GetIncomingEdges(id NodeID) ([]EdgeID, error) {
	if !s.ContainsNode(id) {
		return nil, &NotExistError{ID: id}
	}
	var presentEdges, baseEdges []EdgeID
	if s.present.ContainsNode(id) {
		presentEdges, _ = s.present.GetIncomingEdges(id)
	}
	if s.baseContainsNode(id) {
		baseEdges, _ = s.base.GetIncomingEdges(id)
	}
	return mergeEdgeIDs(presentEdges, baseEdges, s.deletedEdges), nil
}

func (s *DeltaStorage) GetOutgoingEdges(id NodeID) ([]EdgeID, error) {
	if !s.ContainsNode(id) {
		return nil, &NotExistError{ID: id}
	}
	var presentEdges, baseEdges []EdgeID
	if s.present.ContainsNode(id) {
		presentEdges, _ = s.present.GetOutgoingEdges(id)
	}
	if s.baseContainsNode(id) {
		baseEdges, _ = s.base.GetOutgoingEdges(id)
	}
	return mergeEdgeIDs(presentEdges, baseEdges, s.deletedEdges), nil
}

func (s *DeltaStorage) GetEdgesBetween(from, to NodeID) ([]EdgeID, error) {
	out, err := s.GetOutgoingEdges(from)
	if err != nil {
		return []EdgeID{}, nil
	}
	result := make([]EdgeID, 0)
	for _, e := range out {
		if e.Dst == to {
			result = append(result, e)
		}
	}
	return result, nil
}

// DeleteNodes snapshots the matching id set before deleting any of them,
// satisfying the mandatory snapshot-before-bulk-delete rule (spec §4.6):
// a predicate that inspects adjacency must not see a partially-deleted
// graph mid-pass.
func (s *DeltaStorage) DeleteNodes(pred func(NodeID) bool) (int, error) {
	all, err := s.NodeIDs()
	if err != nil {
		return 0, err
	}
	targets := make([]NodeID, 0)
	for _, id := range all {
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

func (s *DeltaStorage) DeleteEdges(pred func(EdgeID) bool) (int, error) {
	all, err := s.EdgeIDs()
	if err != nil {
		return 0, err
	}
	targets := make([]EdgeID, 0)
	for _, id := range all {
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

func (s *DeltaStorage) GetMeta(name string) (Value, bool, error) {
	if v, ok, err := s.present.GetMeta(name); err == nil && ok {
		return v, true, nil
	}
	if s.base != nil {
		return s.base.GetMeta(name)
	}
	return Value{}, false, nil
}

// SetMeta writes to present only. A null value removes present's entry;
// an entry of the same name in base is not removed and shows through
// GetMeta again.
func (s *DeltaStorage) SetMeta(name string, value Value) error {
	return s.present.SetMeta(name, value)
}

// Clear empties present only; base and its tombstones survive, so a
// cleared delta can still expose base's entities again (see type doc).
// The returned bool reflects what's actually visible afterward — base
// entities still showing through count against emptiness, the same as
// any other read on this delta would report them.
func (s *DeltaStorage) Clear() (bool, error) {
	if _, err := s.present.Clear(); err != nil {
		return false, err
	}
	nodeIDs, err := s.NodeIDs()
	if err != nil {
		return false, err
	}
	edgeIDs, err := s.EdgeIDs()
	if err != nil {
		return false, err
	}
	return len(nodeIDs) == 0 && len(edgeIDs) == 0, nil
}

// Close closes present only; base is assumed shared and stays open.
func (s *DeltaStorage) Close() error {
	return s.present.Close()
}

// NodeCount reports the number of nodes currently visible through this
// delta (base minus tombstones, plus present's own additions). Computed
// on demand rather than cached, so it stays correct across Clear/Close
// (grounded on the teacher's BadgerEngine.NodeCount, itself a scan).
func (s *DeltaStorage) NodeCount() (int64, error) {
	ids, err := s.NodeIDs()
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// EdgeCount is NodeCount's edge-side counterpart.
func (s *DeltaStorage) EdgeCount() (int64, error) {
	ids, err := s.EdgeIDs()
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}
