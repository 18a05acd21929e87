package main

import (
	"fmt"
	"io"
	"os"

	graphcsv "github.com/orneryd/graphkit/adapter/csv"
	"github.com/orneryd/graphkit/adapter/neo4jexport"
	"github.com/orneryd/graphkit/pkg/storage"
)

// runExportNeo4j writes s as a single Neo4j-compatible JSON document.
func runExportNeo4j(w io.Writer, s storage.Storage) error {
	return neo4jexport.WriteTo(w, s)
}

// runExportCSV writes s as a pair of CSV files under dir: nodes.csv and
// edges.csv.
func runExportCSV(dir string, s storage.Storage) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	nodesFile, err := os.Create(dir + "/nodes.csv")
	if err != nil {
		return fmt.Errorf("creating nodes.csv: %w", err)
	}
	defer nodesFile.Close()
	if err := graphcsv.ExportNodes(nodesFile, s); err != nil {
		return fmt.Errorf("writing nodes.csv: %w", err)
	}

	edgesFile, err := os.Create(dir + "/edges.csv")
	if err != nil {
		return fmt.Errorf("creating edges.csv: %w", err)
	}
	defer edgesFile.Close()
	if err := graphcsv.ExportEdges(edgesFile, s); err != nil {
		return fmt.Errorf("writing edges.csv: %w", err)
	}
	return nil
}
