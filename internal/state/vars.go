package state

import (
	"math"
	"strconv"
	"strings"
	"sync"
)

// VarStore is the user-visible symbol table. It has two producers: the manual
// variable text field, which replaces the whole table, and solver-reported
// assignments, which merge single keys on top of whatever the user set.
type VarStore struct {
	mu   sync.RWMutex
	vars map[string]any
}

func NewVarStore() *VarStore {
	return &VarStore{vars: make(map[string]any)}
}

// ReplaceFromText parses a comma-separated "key=value" list and replaces the
// entire table with the result. Malformed tokens (missing '=', empty key or
// value) are skipped without any error reporting; the text field is the
// authoritative manual source, so partial input is simply applied partially.
func (vs *VarStore) ReplaceFromText(input string) {
	next := make(map[string]any)
	for _, token := range strings.Split(input, ",") {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		next[key] = coerce(value)
	}

	vs.mu.Lock()
	vs.vars = next
	vs.mu.Unlock()
}

// UpsertFromResult merges a single solver-reported assignment without
// disturbing other keys.
func (vs *VarStore) UpsertFromResult(expr string, value any) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return
	}
	vs.mu.Lock()
	vs.vars[expr] = coerce(value)
	vs.mu.Unlock()
}

// Snapshot returns a copy of the table, safe to hand to a request or a
// history entry.
func (vs *VarStore) Snapshot() map[string]any {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	out := make(map[string]any, len(vs.vars))
	for k, v := range vs.vars {
		out[k] = v
	}
	return out
}

// Len returns the number of variables currently set.
func (vs *VarStore) Len() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.vars)
}

// coerce stores values that parse as a finite number as float64 and
// everything else as the raw string.
func coerce(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}
