package storage

import "fmt"

// NodeID is an opaque node identifier: a single textual name. Equality
// and hashing are by Name (NodeID is a plain comparable struct so the
// zero-cost Go `==` and use as a map key both fall out for free).
type NodeID struct {
	Name string
}

// NewNodeID constructs a NodeID from its textual name.
func NewNodeID(name string) NodeID { return NodeID{Name: name} }

// Serialize returns the identifier's wire form: a string value equal to
// Name (spec §4.1/§6).
func (n NodeID) Serialize() Value { return NewString(n.Name) }

// ParseNodeID parses a NodeID from its serialized form.
func ParseNodeID(v Value) (NodeID, error) {
	s, ok := v.AsString()
	if !ok {
		return NodeID{}, &MalformedIDError{Raw: v, Reason: "node id must be a string value"}
	}
	return NodeID{Name: s}, nil
}

// String implements fmt.Stringer: the node's display form is its name.
func (n NodeID) String() string { return n.Name }

// EdgeID is a directed, relation-named edge identifier: the triple
// (src, dst, relation). Equality is component-wise; relation may be
// empty.
type EdgeID struct {
	Src      NodeID
	Dst      NodeID
	Relation string
}

// NewEdgeID constructs an EdgeID from its three components.
func NewEdgeID(src, dst NodeID, relation string) EdgeID {
	return EdgeID{Src: src, Dst: dst, Relation: relation}
}

// Serialize returns the identifier's wire form: a 3-element list value
// [src.Serialize(), dst.Serialize(), relation] (spec §4.1/§6).
func (e EdgeID) Serialize() Value {
	return NewList(e.Src.Serialize(), e.Dst.Serialize(), NewString(e.Relation))
}

// ParseEdgeID parses an EdgeID from its serialized form, validating
// arity (exactly 3) and element kinds (string, string, string).
func ParseEdgeID(v Value) (EdgeID, error) {
	items, ok := v.AsList()
	if !ok {
		return EdgeID{}, &MalformedIDError{Raw: v, Reason: "edge id must be a list value"}
	}
	if len(items) != 3 {
		return EdgeID{}, &MalformedIDError{Raw: v, Reason: fmt.Sprintf("edge id list must have arity 3, got %d", len(items))}
	}
	src, err := ParseNodeID(items[0])
	if err != nil {
		return EdgeID{}, &MalformedIDError{Raw: v, Reason: "edge id element 0 (src) must be a string"}
	}
	dst, err := ParseNodeID(items[1])
	if err != nil {
		return EdgeID{}, &MalformedIDError{Raw: v, Reason: "edge id element 1 (dst) must be a string"}
	}
	relation, ok := items[2].AsString()
	if !ok {
		return EdgeID{}, &MalformedIDError{Raw: v, Reason: "edge id element 2 (relation) must be a string"}
	}
	return EdgeID{Src: src, Dst: dst, Relation: relation}, nil
}

// String implements fmt.Stringer: the edge's display form is
// "{src}-{relation}-{dst}".
func (e EdgeID) String() string {
	return fmt.Sprintf("%s-%s-%s", e.Src, e.Relation, e.Dst)
}
