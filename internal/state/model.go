package state

import "time"

// Point is a surface-local coordinate in CSS-pixel units, already adjusted
// for pixel ratio and widget offset by the time it reaches this package.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Step is one line of a worked solution as reported by the solver. The latex
// string is handed to an external typesetting collaborator as-is.
type Step struct {
	Latex       string `json:"latex"`
	Explanation string `json:"explanation"`
}

// ResultEntry is one parsed outcome from the solver for a single recognized
// expression. Result is a number or string for plain answers; the solver may
// also send nested structures, which are displayed but never merged into the
// variable table.
type ResultEntry struct {
	Expr   string `json:"expr"`
	Result any    `json:"result"`
	Assign bool   `json:"assign,omitempty"`
	Steps  []Step `json:"steps,omitempty"`
}

// HistoryEntry records one successful submission: the normalized results plus
// the context they were produced in.
type HistoryEntry struct {
	ID      string         `json:"id"`
	At      time.Time      `json:"at"`
	Subject string         `json:"subject"`
	Vars    map[string]any `json:"vars"`
	Results []ResultEntry  `json:"results"`
}

// Subjects the solver understands. Interpretation is entirely the remote
// service's business; the client just forwards the tag.
var Subjects = []string{
	"math",
	"physics",
	"chemistry",
	"science",
	"calculus",
	"algebra",
	"geometry",
}

// DefaultSubject is used when no subject was configured or selected.
const DefaultSubject = "math"

// Primitive reports whether a solver-supplied value is a plain number or
// string. Only primitive assignment results may enter the variable table.
func Primitive(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, string:
		return true
	}
	return false
}
