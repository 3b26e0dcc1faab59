package ui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStackLIFO(t *testing.T) {
	var s snapshotStack
	s.Push([]byte("a"))
	s.Push([]byte("b"))

	snap, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, []byte("b"), snap)

	snap, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, []byte("a"), snap)

	_, ok = s.Pop()
	assert.False(t, ok)
}

func TestSnapshotStackEvictsOldest(t *testing.T) {
	var s snapshotStack
	for i := 0; i < 25; i++ {
		s.Push([]byte(fmt.Sprintf("snap-%d", i)))
	}
	require.Equal(t, snapshotLimit, s.Len())

	snap, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, []byte("snap-24"), snap, "most recent stays on top")

	for s.Len() > 1 {
		s.Pop()
	}
	snap, _ = s.Pop()
	assert.Equal(t, []byte("snap-15"), snap, "everything older was evicted")
}

func TestSnapshotStackReset(t *testing.T) {
	var s snapshotStack
	s.Push([]byte("a"))
	s.Reset()
	assert.Zero(t, s.Len())
	_, ok := s.Pop()
	assert.False(t, ok)
}
