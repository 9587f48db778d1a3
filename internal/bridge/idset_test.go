package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSetUnbounded(t *testing.T) {
	s := newIDSet(0)
	for id := uint32(0); id < 1000; id++ {
		s.Add(id)
	}
	assert.Equal(t, 1000, s.Len())
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(999))
	assert.False(t, s.Contains(1000))
}

func TestIDSetEvictsOldestFirst(t *testing.T) {
	s := newIDSet(3)
	s.Add(1)
	s.Add(2)
	s.Add(3)
	assert.Equal(t, 3, s.Len())

	s.Add(4)
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Contains(1))
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(4))
}

func TestIDSetReAddKeepsAge(t *testing.T) {
	s := newIDSet(2)
	s.Add(1)
	s.Add(2)
	s.Add(1) // already present, must not duplicate or reorder
	s.Add(3) // evicts 1, the oldest
	assert.False(t, s.Contains(1))
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(3))
	assert.Equal(t, 2, s.Len())
}
