package notify

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRetainsInOrder(t *testing.T) {
	t.Parallel()

	m := NewMemory(10)
	m.Success("approved")
	m.Error("rejected")
	m.Info("heads up")

	notes := m.Snapshot()
	require.Len(t, notes, 3)
	assert.Equal(t, LevelSuccess, notes[0].Level)
	assert.Equal(t, "approved", notes[0].Message)
	assert.Equal(t, LevelError, notes[1].Level)
	assert.Equal(t, LevelInfo, notes[2].Level)
	for _, n := range notes {
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.Time.IsZero())
	}
}

func TestMemoryBounded(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	for i := 0; i < 5; i++ {
		m.Info(strconv.Itoa(i))
	}

	notes := m.Snapshot()
	require.Len(t, notes, 3)
	assert.Equal(t, "2", notes[0].Message, "oldest entries fall off")
	assert.Equal(t, "4", notes[2].Message)
}

func TestMemoryClear(t *testing.T) {
	t.Parallel()

	m := NewMemory(10)
	m.Success("x")
	m.Clear()
	assert.Empty(t, m.Snapshot())
}

func TestMultiFansOut(t *testing.T) {
	t.Parallel()

	a := NewMemory(10)
	b := NewMemory(10)
	multi := Multi{a, b, Nop{}}

	multi.Success("done")
	multi.Error("failed")

	require.Len(t, a.Snapshot(), 2)
	require.Len(t, b.Snapshot(), 2)
	assert.Equal(t, a.Snapshot()[0].Message, b.Snapshot()[0].Message)
}
