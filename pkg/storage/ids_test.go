package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeIDSerializeRoundTrip(t *testing.T) {
	n := NewNodeID("alice")
	parsed, err := ParseNodeID(n.Serialize())
	require.NoError(t, err)
	assert.Equal(t, n, parsed)
	assert.Equal(t, "alice", n.String())
}

func TestParseNodeIDRejectsNonString(t *testing.T) {
	_, err := ParseNodeID(NewInt(1))
	assert.ErrorIs(t, err, ErrMalformedID)
}

func TestEdgeIDSerializeRoundTrip(t *testing.T) {
	e := NewEdgeID(NewNodeID("alice"), NewNodeID("bob"), "knows")
	parsed, err := ParseEdgeID(e.Serialize())
	require.NoError(t, err)
	assert.Equal(t, e, parsed)
	assert.Equal(t, "alice-knows-bob", e.String())
}

func TestParseEdgeIDRejectsWrongArity(t *testing.T) {
	_, err := ParseEdgeID(NewList(NewString("a"), NewString("b")))
	assert.ErrorIs(t, err, ErrMalformedID)
}

func TestParseEdgeIDRejectsNonList(t *testing.T) {
	_, err := ParseEdgeID(NewString("not-a-list"))
	assert.ErrorIs(t, err, ErrMalformedID)
}

func TestParseEdgeIDRejectsBadElementKinds(t *testing.T) {
	_, err := ParseEdgeID(NewList(NewInt(1), NewString("b"), NewString("knows")))
	assert.ErrorIs(t, err, ErrMalformedID)
}

func TestEdgeIDEqualityIsComponentWise(t *testing.T) {
	a := NewEdgeID(NewNodeID("x"), NewNodeID("y"), "rel")
	b := NewEdgeID(NewNodeID("x"), NewNodeID("y"), "rel")
	c := NewEdgeID(NewNodeID("x"), NewNodeID("y"), "other")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
