package storage

import "strings"

// MetaPropPrefix is the reserved property-name prefix. Entity rejects any
// caller-supplied property name starting with it; backends themselves do
// not enforce this (spec §3 — the restriction lives at the façade, not
// the storage contract, so backends used directly are unaffected).
const MetaPropPrefix = "meta_"

// Entity is a thin, read-through handle over a single node or edge living
// in a Storage. It carries no state of its own beyond the id — every
// call reaches into the backing Storage, so an Entity never goes stale
// in a way its backend wouldn't also report.
type Entity struct {
	store Storage
	kind  string // "node" or "edge"
	node  NodeID
	edge  EdgeID
}

// NewNodeEntity wraps an existing node id in a Storage-backed façade.
func NewNodeEntity(store Storage, id NodeID) *Entity {
	return &Entity{store: store, kind: "node", node: id}
}

// NewEdgeEntity wraps an existing edge id in a Storage-backed façade.
func NewEdgeEntity(store Storage, id EdgeID) *Entity {
	return &Entity{store: store, kind: "edge", edge: id}
}

// IsNode reports whether this façade wraps a node (as opposed to an edge).
func (e *Entity) IsNode() bool { return e.kind == "node" }

// ID renders the wrapped identifier's display string.
func (e *Entity) ID() string {
	if e.kind == "node" {
		return e.node.String()
	}
	return e.edge.String()
}

// Equal compares two entities by identifier only — two façades over the
// same node or edge id are equal even if backed by different Storage
// values (spec §3: entity identity is the id, not the properties).
func (e *Entity) Equal(other *Entity) bool {
	if other == nil || e.kind != other.kind {
		return false
	}
	if e.kind == "node" {
		return e.node == other.node
	}
	return e.edge == other.edge
}

func isReservedName(name string) bool {
	return strings.HasPrefix(name, MetaPropPrefix)
}

func (e *Entity) getProps() (map[string]Value, error) {
	if e.kind == "node" {
		return e.store.GetNodeProperties(e.node)
	}
	return e.store.GetEdgeProperties(e.edge)
}

func (e *Entity) setProps(patch map[string]Value) error {
	if e.kind == "node" {
		return e.store.SetNodeProperties(e.node, patch)
	}
	return e.store.SetEdgeProperties(e.edge, patch)
}

func (e *Entity) stringerID() interface{ String() string } {
	if e.kind == "node" {
		return e.node
	}
	return e.edge
}

// GetProp returns a single property's value. Absent properties (never
// set, or deleted) return Null with no error.
func (e *Entity) GetProp(name string) (Value, error) {
	props, err := e.getProps()
	if err != nil {
		return Value{}, err
	}
	v, ok := props[name]
	if !ok {
		return Null, nil
	}
	return v, nil
}

// GetAllProps returns a copy of every property currently set. It does not
// filter reserved "meta_" names that were written directly through the
// Storage.
func (e *Entity) GetAllProps() (map[string]Value, error) {
	return e.getProps()
}

// ContainProp reports whether name is currently set (and non-null).
func (e *Entity) ContainProp(name string) (bool, error) {
	props, err := e.getProps()
	if err != nil {
		return false, err
	}
	_, ok := props[name]
	return ok, nil
}

// SetProp sets name to value, or deletes it if value is Null. Names
// beginning with the reserved "meta_" prefix are rejected.
func (e *Entity) SetProp(name string, value Value) error {
	if isReservedName(name) {
		return &InvalidPropNameError{Name: name, ID: e.stringerID()}
	}
	return e.setProps(map[string]Value{name: value})
}

// SetProps applies patch as a single call to the backend, rejecting the
// whole patch (no partial application) if any key is reserved.
func (e *Entity) SetProps(patch map[string]Value) error {
	for name := range patch {
		if isReservedName(name) {
			return &InvalidPropNameError{Name: name, ID: e.stringerID()}
		}
	}
	return e.setProps(patch)
}

// TypedGetter reads a property and coerces it to T via as. On kind
// mismatch or an absent property, it returns absent (the zero value of T)
// rather than panicking or erroring — per spec §3, a binding mismatch is
// reported through the bool, never a thrown error.
func TypedGetter[T any](e *Entity, name string, as func(Value) (T, bool)) (T, bool, error) {
	v, err := e.GetProp(name)
	var zero T
	if err != nil {
		return zero, false, err
	}
	if v.IsNull() {
		return zero, false, nil
	}
	got, ok := as(v)
	if !ok {
		return zero, false, nil
	}
	return got, true, nil
}

// Binding pairs a getter and setter over a single named property, with a
// default value substituted whenever the property is absent or of the
// wrong kind. Set never deletes the underlying property: if to(value)
// produces Null (writing the absent marker through a nullable binding),
// the call is a no-op rather than forwarding to SetProp's delete
// semantics.
type Binding[T any] struct {
	entity  *Entity
	name    string
	as      func(Value) (T, bool)
	to      func(T) Value
	fallback T
}

// NewBinding constructs a typed property binding for entity/name, using
// as/to for the Value<->T conversion and fallback as the default returned
// by Get when the property is absent or mistyped.
func NewBinding[T any](entity *Entity, name string, as func(Value) (T, bool), to func(T) Value, fallback T) *Binding[T] {
	return &Binding[T]{entity: entity, name: name, as: as, to: to, fallback: fallback}
}

// Get returns the bound property's value, or fallback if absent/mistyped.
func (b *Binding[T]) Get() (T, error) {
	v, ok, err := TypedGetter(b.entity, b.name, b.as)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		return b.fallback, nil
	}
	return v, nil
}

// Set writes value through the binding's to converter. If that conversion
// yields Null, the call is a no-op: a binding's absent marker must not be
// mistaken for a request to delete the property.
func (b *Binding[T]) Set(value T) error {
	v := b.to(value)
	if v.IsNull() {
		return nil
	}
	return b.entity.SetProp(b.name, v)
}

// EnumBinding binds a property to one of a closed set of string labels,
// storing the label as a string value and parsing it back on Get. An
// unrecognized stored label behaves as absent: Get returns fallback.
type EnumBinding[T ~string] struct {
	entity   *Entity
	name     string
	valid    map[T]struct{}
	fallback T
}

// NewEnumBinding constructs an enum binding over the given closed set of
// valid labels.
func NewEnumBinding[T ~string](entity *Entity, name string, valid []T, fallback T) *EnumBinding[T] {
	set := make(map[T]struct{}, len(valid))
	for _, v := range valid {
		set[v] = struct{}{}
	}
	return &EnumBinding[T]{entity: entity, name: name, valid: set, fallback: fallback}
}

// Get returns the stored enum label, or fallback if absent or unrecognized.
func (b *EnumBinding[T]) Get() (T, error) {
	v, err := b.entity.GetProp(b.name)
	if err != nil {
		var zero T
		return zero, err
	}
	s, ok := v.AsString()
	if !ok {
		return b.fallback, nil
	}
	label := T(s)
	if _, known := b.valid[label]; !known {
		return b.fallback, nil
	}
	return label, nil
}

// Set stores value's label. It does not validate membership in the
// binding's valid set — callers that only ever pass typed constants from
// that set get validation for free from the compiler.
func (b *EnumBinding[T]) Set(value T) error {
	return b.entity.SetProp(b.name, NewString(string(value)))
}
