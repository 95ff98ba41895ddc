package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionBindLifecycle(t *testing.T) {
	reg := NewSessionRegistry()
	sink := &fakeSink{}

	// Binding an unknown session fails.
	assert.False(t, reg.Bind("x", "ABC123"))

	reg.Register("x", "X", sink)
	_, bound := reg.RoomOf("x")
	assert.False(t, bound, "sessions start unbound")

	require.True(t, reg.Bind("x", "ABC123"))
	code, bound := reg.RoomOf("x")
	require.True(t, bound)
	assert.Equal(t, "ABC123", string(code))

	// Never rebound while the connection lives.
	assert.False(t, reg.Bind("x", "XYZ789"))
	code, _ = reg.RoomOf("x")
	assert.Equal(t, "ABC123", string(code))

	room, wasBound := reg.Drop("x")
	assert.True(t, wasBound)
	assert.Equal(t, "ABC123", string(room))

	// Drop is terminal and repeatable.
	_, wasBound = reg.Drop("x")
	assert.False(t, wasBound)
}

func TestMembersOfResolvesAudience(t *testing.T) {
	reg := NewSessionRegistry()
	a, b, c := &fakeSink{}, &fakeSink{}, &fakeSink{}
	reg.Register("a", "A", a)
	reg.Register("b", "B", b)
	reg.Register("c", "C", c)
	reg.Bind("a", "ROOM01")
	reg.Bind("b", "ROOM01")
	reg.Bind("c", "ROOM02")

	members := reg.membersOf("ROOM01")
	assert.Len(t, members, 2)
	for _, m := range members {
		assert.NotEqual(t, "c", string(m.ID))
	}
}

func TestSetNameIgnoresEmpty(t *testing.T) {
	reg := NewSessionRegistry()
	reg.Register("x", "Original", &fakeSink{})

	reg.SetName("x", "")
	name, _ := reg.NameOf("x")
	assert.Equal(t, "Original", name)

	reg.SetName("x", "Renamed")
	name, _ = reg.NameOf("x")
	assert.Equal(t, "Renamed", name)
}
