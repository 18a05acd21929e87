// Package csv round-trips a graph through two CSV files (nodes, edges),
// grounded on the teacher's Neo4jExport flattening convention: each row
// carries its identifier columns plus a single "properties" column
// holding the full property map as JSON text, since CSV has no native
// representation for this engine's nested/set-valued properties.
//
// encoding/csv is stdlib; no third-party CSV library appears anywhere in
// the retrieval pack, so this one ambient concern is justifiably stdlib
// (see DESIGN.md).
package csv

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/orneryd/graphkit/pkg/storage"
)

var nodeHeader = []string{"id", "properties"}
var edgeHeader = []string{"src", "relation", "dst", "properties"}

// ExportNodes writes every node in s to w as CSV: id, properties (JSON).
func ExportNodes(w io.Writer, s storage.Storage) error {
	ids, err := s.NodeIDs()
	if err != nil {
		return fmt.Errorf("csv: listing nodes: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(nodeHeader); err != nil {
		return err
	}
	for _, id := range ids {
		props, err := s.GetNodeProperties(id)
		if err != nil {
			return fmt.Errorf("csv: node %s: %w", id, err)
		}
		data, err := json.Marshal(props)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{id.Name, string(data)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportEdges writes every edge in s to w as CSV: src, relation, dst,
// properties (JSON).
func ExportEdges(w io.Writer, s storage.Storage) error {
	ids, err := s.EdgeIDs()
	if err != nil {
		return fmt.Errorf("csv: listing edges: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(edgeHeader); err != nil {
		return err
	}
	for _, id := range ids {
		props, err := s.GetEdgeProperties(id)
		if err != nil {
			return fmt.Errorf("csv: edge %s: %w", id, err)
		}
		data, err := json.Marshal(props)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{id.Src.Name, id.Relation, id.Dst.Name, string(data)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportNodes reads a nodes CSV produced by ExportNodes and creates each
// node in s.
func ImportNodes(r io.Reader, s storage.Storage) error {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("csv: reading nodes: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows[1:] {
		if len(row) != 2 {
			return fmt.Errorf("csv: malformed node row %v", row)
		}
		var props map[string]storage.Value
		if err := json.Unmarshal([]byte(row[1]), &props); err != nil {
			return fmt.Errorf("csv: node %s properties: %w", row[0], err)
		}
		if err := s.AddNode(storage.NewNodeID(row[0]), props); err != nil {
			return fmt.Errorf("csv: node %s: %w", row[0], err)
		}
	}
	return nil
}

// ImportEdges reads an edges CSV produced by ExportEdges and creates each
// edge in s. Call after ImportNodes so both endpoints already exist.
func ImportEdges(r io.Reader, s storage.Storage) error {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("csv: reading edges: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows[1:] {
		if len(row) != 4 {
			return fmt.Errorf("csv: malformed edge row %v", row)
		}
		var props map[string]storage.Value
		if err := json.Unmarshal([]byte(row[3]), &props); err != nil {
			return fmt.Errorf("csv: edge %v properties: %w", row, err)
		}
		id := storage.NewEdgeID(storage.NewNodeID(row[0]), storage.NewNodeID(row[2]), row[1])
		if err := s.AddEdge(id, props); err != nil {
			return fmt.Errorf("csv: edge %s: %w", id, err)
		}
	}
	return nil
}
