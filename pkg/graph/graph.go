// Package graph provides a lightweight directed-graph façade over a
// storage.Storage: Simple and Multi graph flavors, child/parent
// shorthands, and lazy BFS/DFS traversal.
package graph

import (
	"iter"

	"github.com/orneryd/graphkit/pkg/storage"
)

// Kind selects how Graph enforces edge uniqueness on AddEdge.
type Kind int

const (
	// Simple graphs allow at most one edge between any ordered pair of
	// nodes, regardless of relation name — adding a second edge between
	// the same src/dst is rejected even if its relation differs.
	Simple Kind = iota
	// Multi graphs allow any number of edges between two nodes, as long
	// as each has a distinct EdgeID (src, dst, relation triple).
	Multi
)

// Graph wraps a storage.Storage with graph-shaped conveniences: it holds
// no state of its own, so every call is a thin pass-through (plus, for
// Simple graphs, one extra adjacency check before AddEdge).
type Graph struct {
	store storage.Storage
	kind  Kind
}

// NewSimpleGraph returns a Graph enforcing endpoint-pair edge uniqueness.
func NewSimpleGraph(store storage.Storage) *Graph {
	return &Graph{store: store, kind: Simple}
}

// NewMultiGraph returns a Graph allowing parallel edges distinguished by
// relation name.
func NewMultiGraph(store storage.Storage) *Graph {
	return &Graph{store: store, kind: Multi}
}

// Store returns the underlying storage, for callers that need the full
// Storage contract (bulk deletes, metadata, Close).
func (g *Graph) Store() storage.Storage { return g.store }

func (g *Graph) AddNode(id storage.NodeID, props map[string]storage.Value) error {
	return g.store.AddNode(id, props)
}

func (g *Graph) GetNode(id storage.NodeID) (map[string]storage.Value, error) {
	return g.store.GetNodeProperties(id)
}

func (g *Graph) ContainsNode(id storage.NodeID) bool {
	return g.store.ContainsNode(id)
}

func (g *Graph) DeleteNode(id storage.NodeID) error {
	return g.store.DeleteNode(id)
}

// AddEdge adds an edge, first rejecting it as a duplicate endpoint pair
// when this is a Simple graph.
func (g *Graph) AddEdge(id storage.EdgeID, props map[string]storage.Value) error {
	if g.kind == Simple {
		existing, err := g.store.GetEdgesBetween(id.Src, id.Dst)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return &storage.AlreadyExistError{ID: id}
		}
	}
	return g.store.AddEdge(id, props)
}

func (g *Graph) GetEdge(id storage.EdgeID) (map[string]storage.Value, error) {
	return g.store.GetEdgeProperties(id)
}

func (g *Graph) ContainsEdge(id storage.EdgeID) bool {
	return g.store.ContainsEdge(id)
}

func (g *Graph) DeleteEdge(id storage.EdgeID) error {
	return g.store.DeleteEdge(id)
}

// GetOutgoingEdges returns id's outgoing edges for which pred returns true
// (pred may be nil to allow every edge).
func (g *Graph) GetOutgoingEdges(id storage.NodeID, pred func(storage.EdgeID) bool) ([]storage.EdgeID, error) {
	edges, err := g.store.GetOutgoingEdges(id)
	if err != nil {
		return nil, err
	}
	return filterEdges(edges, pred), nil
}

// GetIncomingEdges returns id's incoming edges for which pred returns true
// (pred may be nil to allow every edge).
func (g *Graph) GetIncomingEdges(id storage.NodeID, pred func(storage.EdgeID) bool) ([]storage.EdgeID, error) {
	edges, err := g.store.GetIncomingEdges(id)
	if err != nil {
		return nil, err
	}
	return filterEdges(edges, pred), nil
}

// GetChildren returns the distinct set of nodes reachable from id by one
// outgoing edge passing pred (pred may be nil to allow every edge).
func (g *Graph) GetChildren(id storage.NodeID, pred func(storage.EdgeID) bool) ([]storage.NodeID, error) {
	edges, err := g.GetOutgoingEdges(id, pred)
	if err != nil {
		return nil, err
	}
	return distinctEndpoints(edges, func(e storage.EdgeID) storage.NodeID { return e.Dst }), nil
}

// GetParents returns the distinct set of nodes that reach id by one
// outgoing edge passing pred (pred may be nil to allow every edge).
func (g *Graph) GetParents(id storage.NodeID, pred func(storage.EdgeID) bool) ([]storage.NodeID, error) {
	edges, err := g.GetIncomingEdges(id, pred)
	if err != nil {
		return nil, err
	}
	return distinctEndpoints(edges, func(e storage.EdgeID) storage.NodeID { return e.Src }), nil
}

func filterEdges(edges []storage.EdgeID, pred func(storage.EdgeID) bool) []storage.EdgeID {
	if pred == nil {
		return edges
	}
	out := make([]storage.EdgeID, 0, len(edges))
	for _, e := range edges {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

func distinctEndpoints(edges []storage.EdgeID, endpoint func(storage.EdgeID) storage.NodeID) []storage.NodeID {
	seen := make(map[storage.NodeID]struct{}, len(edges))
	result := make([]storage.NodeID, 0, len(edges))
	for _, e := range edges {
		n := endpoint(e)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}

// Degree returns id's in-degree and out-degree (edge counts, not
// distinct-neighbor counts — a Multi graph with two parallel edges to the
// same child counts 2).
func (g *Graph) Degree(id storage.NodeID) (in, out int, err error) {
	inEdges, err := g.store.GetIncomingEdges(id)
	if err != nil {
		return 0, 0, err
	}
	outEdges, err := g.store.GetOutgoingEdges(id)
	if err != nil {
		return 0, 0, err
	}
	return len(inEdges), len(outEdges), nil
}

// Descendants lazily walks every node reachable from start by following
// outgoing edges passing pred breadth-first, yielding each exactly once
// (pred may be nil to allow every edge). Iteration stops early if the
// consuming range loop breaks.
func (g *Graph) Descendants(start storage.NodeID, pred func(storage.EdgeID) bool) iter.Seq[storage.NodeID] {
	return func(yield func(storage.NodeID) bool) {
		if !g.store.ContainsNode(start) {
			return
		}
		visited := map[storage.NodeID]struct{}{start: {}}
		queue := []storage.NodeID{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			children, err := g.GetChildren(current, pred)
			if err != nil {
				return
			}
			for _, child := range children {
				if _, seen := visited[child]; seen {
					continue
				}
				visited[child] = struct{}{}
				if !yield(child) {
					return
				}
				queue = append(queue, child)
			}
		}
	}
}

// Ancestors lazily walks every node that can reach start by following
// incoming edges passing pred depth-first, yielding each exactly once
// (pred may be nil to allow every edge).
func (g *Graph) Ancestors(start storage.NodeID, pred func(storage.EdgeID) bool) iter.Seq[storage.NodeID] {
	return func(yield func(storage.NodeID) bool) {
		if !g.store.ContainsNode(start) {
			return
		}
		visited := map[storage.NodeID]struct{}{start: {}}
		stack := []storage.NodeID{start}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parents, err := g.GetParents(current, pred)
			if err != nil {
				return
			}
			for _, parent := range parents {
				if _, seen := visited[parent]; seen {
					continue
				}
				visited[parent] = struct{}{}
				if !yield(parent) {
					return
				}
				stack = append(stack, parent)
			}
		}
	}
}

// Paths enumerates every simple path (no repeated node) from `from` to
// `to`, following only edges for which pred returns true (pred may be nil
// to allow every edge). Recursive depth-first search with backtracking;
// every path is collected before Paths returns.
func (g *Graph) Paths(from, to storage.NodeID, pred func(storage.EdgeID) bool) ([][]storage.NodeID, error) {
	if !g.store.ContainsNode(from) {
		return nil, &storage.NotExistError{ID: from}
	}
	if !g.store.ContainsNode(to) {
		return nil, &storage.NotExistError{ID: to}
	}

	var results [][]storage.NodeID
	onPath := map[storage.NodeID]struct{}{from: {}}
	path := []storage.NodeID{from}

	var walk func(current storage.NodeID) error
	walk = func(current storage.NodeID) error {
		if current == to {
			found := make([]storage.NodeID, len(path))
			copy(found, path)
			results = append(results, found)
			return nil
		}
		edges, err := g.store.GetOutgoingEdges(current)
		if err != nil {
			return err
		}
		for _, e := range edges {
			if pred != nil && !pred(e) {
				continue
			}
			if _, visited := onPath[e.Dst]; visited {
				continue
			}
			onPath[e.Dst] = struct{}{}
			path = append(path, e.Dst)

			if err := walk(e.Dst); err != nil {
				return err
			}

			path = path[:len(path)-1]
			delete(onPath, e.Dst)
		}
		return nil
	}

	if err := walk(from); err != nil {
		return nil, err
	}
	return results, nil
}
