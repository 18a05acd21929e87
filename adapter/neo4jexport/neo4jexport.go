// Package neo4jexport reads and writes a JSON format compatible with the
// shape `neo4j-admin database dump`/`apoc.export.json` produce, adapted
// to this module's NodeID/EdgeID/Value types. It is a C9 adapter: it
// depends only on pkg/storage's exported contract.
package neo4jexport

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/orneryd/graphkit/pkg/storage"
)

// Export is the top-level document shape.
type Export struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// Node mirrors Neo4j's export node shape. Labels is always empty: this
// engine's core has no label concept, but the field is kept so the
// document still validates against neo4j-admin import tooling.
type Node struct {
	ID         string                   `json:"id"`
	Labels     []string                 `json:"labels"`
	Properties map[string]storage.Value `json:"properties"`
}

// Relationship mirrors Neo4j's flat (neo4j-admin dump) relationship shape.
type Relationship struct {
	ID         string                   `json:"id"`
	Type       string                   `json:"type"`
	StartNode  string                   `json:"startNode"`
	EndNode    string                   `json:"endNode"`
	Properties map[string]storage.Value `json:"properties"`
}

// WriteTo builds an Export document from every node/edge currently in s
// and writes it as JSON to w.
func WriteTo(w io.Writer, s storage.Storage) error {
	var nodeIDs []storage.NodeID
	var edgeIDs []storage.EdgeID
	var err error
	if snap, ok := s.(storage.Snapshotter); ok {
		nodeIDs, edgeIDs, err = snap.Snapshot()
	} else {
		nodeIDs, err = s.NodeIDs()
		if err == nil {
			edgeIDs, err = s.EdgeIDs()
		}
	}
	if err != nil {
		return fmt.Errorf("neo4jexport: listing graph: %w", err)
	}

	doc := Export{
		Nodes:         make([]Node, 0, len(nodeIDs)),
		Relationships: make([]Relationship, 0, len(edgeIDs)),
	}

	for _, id := range nodeIDs {
		props, err := s.GetNodeProperties(id)
		if err != nil {
			return fmt.Errorf("neo4jexport: node %s: %w", id, err)
		}
		doc.Nodes = append(doc.Nodes, Node{ID: id.Name, Labels: []string{}, Properties: props})
	}

	for _, id := range edgeIDs {
		props, err := s.GetEdgeProperties(id)
		if err != nil {
			return fmt.Errorf("neo4jexport: edge %s: %w", id, err)
		}
		doc.Relationships = append(doc.Relationships, Relationship{
			ID:         id.String(),
			Type:       id.Relation,
			StartNode:  id.Src.Name,
			EndNode:    id.Dst.Name,
			Properties: props,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadFrom decodes an Export document from r and populates s: nodes
// first, then relationships (so AddEdge's endpoint-existence check
// always succeeds for a well-formed document).
func ReadFrom(r io.Reader, s storage.Storage) error {
	var doc Export
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("neo4jexport: decode: %w", err)
	}

	for _, n := range doc.Nodes {
		if err := s.AddNode(storage.NewNodeID(n.ID), n.Properties); err != nil {
			return fmt.Errorf("neo4jexport: node %s: %w", n.ID, err)
		}
	}
	for _, rel := range doc.Relationships {
		id := storage.NewEdgeID(storage.NewNodeID(rel.StartNode), storage.NewNodeID(rel.EndNode), rel.Type)
		if err := s.AddEdge(id, rel.Properties); err != nil {
			return fmt.Errorf("neo4jexport: relationship %s: %w", rel.ID, err)
		}
	}
	return nil
}
