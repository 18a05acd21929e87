package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/orneryd/graphkit/pkg/storage"
)

// printAdjacency writes one line per node, listing its outgoing edges, in
// a stable (sorted by node name) order so the output is diffable.
func printAdjacency(w io.Writer, s storage.Storage) error {
	ids, err := s.NodeIDs()
	if err != nil {
		return fmt.Errorf("listing nodes: %w", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Name < ids[j].Name })

	for _, id := range ids {
		out, err := s.GetOutgoingEdges(id)
		if err != nil {
			return fmt.Errorf("node %s: %w", id, err)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Relation != out[j].Relation {
				return out[i].Relation < out[j].Relation
			}
			return out[i].Dst.Name < out[j].Dst.Name
		})

		if len(out) == 0 {
			fmt.Fprintf(w, "%s\n", id.Name)
			continue
		}
		fmt.Fprintf(w, "%s:\n", id.Name)
		for _, e := range out {
			fmt.Fprintf(w, "  -%s-> %s\n", e.Relation, e.Dst.Name)
		}
	}
	return nil
}
