package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// historyLimit caps the session history; the oldest entries fall off.
const historyLimit = 20

// History is the session's append-only record of successful submissions,
// newest first. It is ordered by submission completion time and is not
// persisted across runs.
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
}

func NewHistory() *History {
	return &History{}
}

// Add records one submission and returns the stored entry (with id and
// timestamp filled in).
func (h *History) Add(subject string, vars map[string]any, results []ResultEntry) HistoryEntry {
	entry := HistoryEntry{
		ID:      uuid.NewString(),
		At:      time.Now(),
		Subject: subject,
		Vars:    vars,
		Results: results,
	}

	h.mu.Lock()
	h.entries = append([]HistoryEntry{entry}, h.entries...)
	if len(h.entries) > historyLimit {
		h.entries = h.entries[:historyLimit]
	}
	h.mu.Unlock()
	return entry
}

// Entries returns a deep copy of the history, newest first. Callers may
// mutate what they get back without corrupting the stored record.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]HistoryEntry, len(h.entries))
	for i, e := range h.entries {
		out[i] = e
		if e.Vars != nil {
			vars := make(map[string]any, len(e.Vars))
			for k, v := range e.Vars {
				vars[k] = v
			}
			out[i].Vars = vars
		}
		if e.Results != nil {
			results := make([]ResultEntry, len(e.Results))
			for j, r := range e.Results {
				results[j] = r
				results[j].Steps = append([]Step(nil), r.Steps...)
			}
			out[i].Results = results
		}
	}
	return out
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
