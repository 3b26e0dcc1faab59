package solve

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"

	"InkCalc/internal/state"
)

// ErrInvalidResponse is surfaced verbatim to the user when a 2xx body
// matches none of the accepted shapes.
var ErrInvalidResponse = errors.New("Invalid response from server")

// envelope covers the keyed response shapes the service has been observed to
// send. The result list may also arrive as a bare top-level array.
type envelope struct {
	Message string              `json:"message"`
	Status  string              `json:"status"`
	Data    []state.ResultEntry `json:"data"`
	Results []state.ResultEntry `json:"results"`
}

// Normalize extracts the result list from a response body. Exactly one of
// three shapes is accepted, checked in priority order: a bare array, a
// "data" key, a "results" key. The matched shape is logged for
// observability; no recognized array is a hard failure.
func Normalize(body []byte) ([]state.ResultEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []state.ResultEntry
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, ErrInvalidResponse
		}
		log.Printf("[solve] response shape: bare array (%d results)", len(list))
		return list, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, ErrInvalidResponse
	}
	switch {
	case env.Data != nil:
		log.Printf("[solve] response shape: data envelope (%d results)", len(env.Data))
		return env.Data, nil
	case env.Results != nil:
		log.Printf("[solve] response shape: results envelope (%d results)", len(env.Results))
		return env.Results, nil
	}
	return nil, ErrInvalidResponse
}
