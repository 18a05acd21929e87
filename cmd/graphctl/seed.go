package main

import (
	"fmt"
	"os"

	"github.com/orneryd/graphkit/pkg/storage"
	"gopkg.in/yaml.v3"
)

// seedDoc is the YAML shape accepted by `graphctl seed`:
//
//	nodes:
//	  - id: alice
//	    properties: {age: 30}
//	edges:
//	  - src: alice
//	    dst: bob
//	    relation: knows
//	    properties: {since: 2020}
type seedDoc struct {
	Nodes []seedNode `yaml:"nodes"`
	Edges []seedEdge `yaml:"edges"`
}

type seedNode struct {
	ID         string         `yaml:"id"`
	Properties map[string]any `yaml:"properties"`
}

type seedEdge struct {
	Src        string         `yaml:"src"`
	Dst        string         `yaml:"dst"`
	Relation   string         `yaml:"relation"`
	Properties map[string]any `yaml:"properties"`
}

func loadSeed(path string) (*seedDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var doc seedDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &doc, nil
}

// toValueProps converts a YAML-decoded property map (plain Go values) into
// storage.Value: null, string, bool, integer, float and list are
// supported; nested maps and any other type are rejected with an error.
func toValueProps(props map[string]any) (map[string]storage.Value, error) {
	out := make(map[string]storage.Value, len(props))
	for k, v := range props {
		val, err := toValue(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

func toValue(v any) (storage.Value, error) {
	switch t := v.(type) {
	case nil:
		return storage.Null, nil
	case string:
		return storage.NewString(t), nil
	case bool:
		return storage.NewBool(t), nil
	case int:
		return storage.NewInt(int64(t)), nil
	case int64:
		return storage.NewInt(t), nil
	case float64:
		return storage.NewFloat(t), nil
	case []any:
		list := make([]storage.Value, 0, len(t))
		for _, elem := range t {
			ev, err := toValue(elem)
			if err != nil {
				return storage.Value{}, err
			}
			list = append(list, ev)
		}
		return storage.NewList(list...), nil
	default:
		return storage.Value{}, fmt.Errorf("unsupported property type %T", v)
	}
}

func runSeedInto(s storage.Storage, doc *seedDoc) error {
	for _, n := range doc.Nodes {
		props, err := toValueProps(n.Properties)
		if err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
		if err := s.AddNode(storage.NewNodeID(n.ID), props); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		props, err := toValueProps(e.Properties)
		if err != nil {
			return fmt.Errorf("edge %s-%s->%s: %w", e.Src, e.Relation, e.Dst, err)
		}
		id := storage.NewEdgeID(storage.NewNodeID(e.Src), storage.NewNodeID(e.Dst), e.Relation)
		if err := s.AddEdge(id, props); err != nil {
			return fmt.Errorf("edge %s: %w", id, err)
		}
	}
	return nil
}
