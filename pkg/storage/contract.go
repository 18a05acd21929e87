package storage

// Storage is the contract every backend (native, concurrent, delta,
// or an external adapter) satisfies. Every call first checks closure,
// then preconditions, then mutates; partial mutations are forbidden —
// an operation either completes fully or leaves the store unchanged
// (spec §4.3).
type Storage interface {
	// ContainsNode reports whether id names an existing node.
	ContainsNode(id NodeID) bool
	// ContainsEdge reports whether id names an existing edge.
	ContainsEdge(id EdgeID) bool

	// NodeIDs returns the current node id set.
	NodeIDs() ([]NodeID, error)
	// EdgeIDs returns the current edge id set.
	EdgeIDs() ([]EdgeID, error)

	// AddNode creates a node with the given properties.
	//
	// Errors: ErrAccessClosedStorage, ErrEntityAlreadyExist.
	AddNode(id NodeID, props map[string]Value) error
	// GetNodeProperties returns the full property map of an existing node.
	//
	// Errors: ErrAccessClosedStorage, ErrEntityNotExist.
	GetNodeProperties(id NodeID) (map[string]Value, error)
	// SetNodeProperties applies patch to an existing node: a null value
	// deletes the key, a non-null value inserts or replaces it, keys
	// absent from patch are untouched (spec §4.3).
	//
	// Errors: ErrAccessClosedStorage, ErrEntityNotExist.
	SetNodeProperties(id NodeID, patch map[string]Value) error
	// DeleteNode removes a node and, atomically, every edge touching it
	// (spec invariant 3).
	//
	// Errors: ErrAccessClosedStorage, ErrEntityNotExist.
	DeleteNode(id NodeID) error

	// AddEdge creates an edge with the given properties. Both endpoints
	// must already exist.
	//
	// Errors: ErrAccessClosedStorage, ErrEntityAlreadyExist,
	// ErrEntityNotExist (missing endpoint).
	AddEdge(id EdgeID, props map[string]Value) error
	// GetEdgeProperties returns the full property map of an existing edge.
	//
	// Errors: ErrAccessClosedStorage, ErrEntityNotExist.
	GetEdgeProperties(id EdgeID) (map[string]Value, error)
	// SetEdgeProperties applies patch to an existing edge; same
	// null-deletes semantics as SetNodeProperties.
	//
	// Errors: ErrAccessClosedStorage, ErrEntityNotExist.
	SetEdgeProperties(id EdgeID, patch map[string]Value) error
	// DeleteEdge removes a single edge.
	//
	// Errors: ErrAccessClosedStorage, ErrEntityNotExist.
	DeleteEdge(id EdgeID) error

	// GetIncomingEdges returns the exact set of edges whose dst is id.
	GetIncomingEdges(id NodeID) ([]EdgeID, error)
	// GetOutgoingEdges returns the exact set of edges whose src is id.
	GetOutgoingEdges(id NodeID) ([]EdgeID, error)
	// GetEdgesBetween returns every edge from -> to, regardless of
	// relation name.
	GetEdgesBetween(from, to NodeID) ([]EdgeID, error)

	// DeleteNodes deletes every node matching pred, snapshotting the
	// target set first. Per-target errors (a concurrent removal) are
	// swallowed; it returns the count actually removed.
	DeleteNodes(pred func(NodeID) bool) (int, error)
	// DeleteEdges deletes every edge matching pred; same semantics as
	// DeleteNodes.
	DeleteEdges(pred func(EdgeID) bool) (int, error)

	// GetMeta reads a storage-level, graph-wide metadata entry.
	GetMeta(name string) (Value, bool, error)
	// SetMeta writes or (with a null value) deletes a metadata entry.
	SetMeta(name string, value Value) error

	// Clear empties nodes, edges, and metadata, leaving the storage
	// open. Returns whether everything is empty afterward.
	Clear() (bool, error)
	// Close marks the storage terminal. Idempotent; never fails.
	Close() error
}

// Snapshotter is implemented by backends that can produce a consistent,
// point-in-time listing of their contents. The Neo4j JSON exporter uses
// it when it's available and falls back to NodeIDs/EdgeIDs otherwise.
type Snapshotter interface {
	Snapshot() (nodeIDs []NodeID, edgeIDs []EdgeID, err error)
}
