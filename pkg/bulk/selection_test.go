package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	sel := NewSelection()
	sel.Add("svc_3")
	sel.Add("svc_1")
	sel.Add("svc_2")
	sel.Add("svc_1") // duplicate, no-op

	assert.Equal(t, []string{"svc_3", "svc_1", "svc_2"}, sel.IDs())
	assert.Equal(t, 3, sel.Len())
}

func TestSelectionToggle(t *testing.T) {
	t.Parallel()

	sel := NewSelection()
	assert.True(t, sel.Toggle("svc_1"))
	assert.True(t, sel.Has("svc_1"))
	assert.False(t, sel.Toggle("svc_1"))
	assert.False(t, sel.Has("svc_1"))
	assert.Zero(t, sel.Len())
}

func TestSelectionIDsIsSnapshot(t *testing.T) {
	t.Parallel()

	sel := NewSelection()
	sel.Add("svc_1")
	sel.Add("svc_2")

	snap := sel.IDs()
	sel.Remove("svc_1")
	sel.Add("svc_3")

	assert.Equal(t, []string{"svc_1", "svc_2"}, snap, "snapshot is unaffected by later changes")
	assert.Equal(t, []string{"svc_2", "svc_3"}, sel.IDs())
}

func TestSelectionClear(t *testing.T) {
	t.Parallel()

	sel := NewSelection()
	sel.Add("svc_1")
	sel.Clear()
	assert.Zero(t, sel.Len())
	assert.Empty(t, sel.IDs())
}

func TestSelectionPrune(t *testing.T) {
	t.Parallel()

	sel := NewSelection()
	sel.Add("svc_1")
	sel.Add("svc_2")
	sel.Add("svc_3")

	sel.Prune([]string{"svc_2", "svc_3"})
	assert.Equal(t, []string{"svc_2", "svc_3"}, sel.IDs())
	assert.False(t, sel.Has("svc_1"))
}
