package state

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryNewestFirst(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 3; i++ {
		h.Add("math", nil, []ResultEntry{{Expr: fmt.Sprintf("expr-%d", i), Result: i}})
	}

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "expr-2", entries[0].Results[0].Expr)
	assert.Equal(t, "expr-0", entries[2].Results[0].Expr)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestHistoryCapped(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 25; i++ {
		h.Add("math", nil, []ResultEntry{{Expr: fmt.Sprintf("expr-%d", i), Result: i}})
	}

	entries := h.Entries()
	require.Len(t, entries, historyLimit)
	assert.Equal(t, "expr-24", entries[0].Results[0].Expr, "newest survives")
	assert.Equal(t, "expr-5", entries[len(entries)-1].Results[0].Expr, "oldest five evicted")
}

func TestHistoryEntriesIsADeepCopy(t *testing.T) {
	h := NewHistory()
	h.Add("math", map[string]any{"x": 1.0}, []ResultEntry{
		{Expr: "x", Result: 1.0, Steps: []Step{{Latex: "x = 1"}}},
	})

	entries := h.Entries()
	entries[0].Subject = "physics"
	entries[0].Vars["x"] = 99.0
	entries[0].Results[0].Expr = "mutated"
	entries[0].Results[0].Steps[0].Latex = "mutated"

	stored := h.Entries()[0]
	assert.Equal(t, "math", stored.Subject)
	assert.Equal(t, 1.0, stored.Vars["x"], "vars map must not be shared")
	assert.Equal(t, "x", stored.Results[0].Expr, "results slice must not be shared")
	assert.Equal(t, "x = 1", stored.Results[0].Steps[0].Latex, "steps slice must not be shared")
}
