// Package solve delivers the drawn surface to an inference endpoint and
// normalizes whatever comes back into result entries.
package solve

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"InkCalc/internal/state"
)

const (
	requestTimeout = 2 * time.Minute
	probeTimeout   = 5 * time.Second

	// bodyPreviewLimit bounds server error bodies in log output.
	bodyPreviewLimit = 200
)

var (
	// ErrBusy means a submission is already in flight; the loading gate
	// admits one at a time per client.
	ErrBusy = errors.New("a submission is already in flight")

	// ErrStale means a response arrived for a submission that is no longer
	// the latest issued; its payload must not be applied.
	ErrStale = errors.New("stale response discarded")

	// ErrNoEndpoints means the client was built with nothing to talk to.
	ErrNoEndpoints = errors.New("no solver endpoints configured")

	// ErrUnreachable is the connectivity message shown when every endpoint
	// failed at the transport level. The underlying dial and read errors are
	// logged per attempt; the user never sees them.
	ErrUnreachable = errors.New("Could not reach the solver")
)

// Request is the solver wire contract: a data-URI PNG of the surface, the
// session variable table, and the subject tag.
type Request struct {
	Image      string         `json:"image"`
	DictOfVars map[string]any `json:"dict_of_vars"`
	Subject    string         `json:"subject"`
}

// ServerError is a non-2xx reply. The server-supplied message is preferred
// over a generic status line when present.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Client posts submissions to an ordered list of candidate endpoints,
// falling back down the list until one answers with a valid body.
type Client struct {
	endpoints []string
	http      *http.Client

	loading atomic.Bool
	gen     atomic.Uint64
}

// NewClient builds a client over the candidate endpoints, tried strictly in
// the order given.
func NewClient(endpoints ...string) *Client {
	return &Client{
		endpoints: endpoints,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// Loading reports whether a submission is in flight.
func (c *Client) Loading() bool {
	return c.loading.Load()
}

// Submit serializes req, tries each endpoint in order, and returns the
// normalized result list from the first endpoint that answers with a
// non-error status and a structurally valid body. If every candidate fails,
// the error from the last attempt is surfaced; earlier failures are only
// logged, keeping the surfaced message relevant to the real endpoint rather
// than a fallback. Server-reported and structural errors pass through
// verbatim; raw transport failures collapse into ErrUnreachable. On total
// failure a single health probe is issued for diagnostics; its outcome is
// logged and never shown to the user.
func (c *Client) Submit(ctx context.Context, req Request) ([]state.ResultEntry, error) {
	if len(c.endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	if !c.loading.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.loading.Store(false)

	id := c.gen.Add(1)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	for _, endpoint := range c.endpoints {
		results, err := c.attempt(ctx, endpoint, body)
		if err != nil {
			log.Printf("[solve] endpoint %s failed: %v", endpoint, err)
			lastErr = err
			continue
		}
		if c.gen.Load() != id {
			log.Printf("[solve] discarding response for superseded submission %d", id)
			return nil, ErrStale
		}
		return results, nil
	}

	c.probe(ctx)
	return nil, userError(lastErr)
}

// Invalidate supersedes any in-flight submission: when its response arrives
// it is discarded with ErrStale instead of applied. Called whenever the
// canvas changes, so a late answer never describes a drawing the user has
// already moved past.
func (c *Client) Invalidate() {
	c.gen.Add(1)
}

// userError decides what a total failure looks like to the user. Messages
// the server actually sent, and bodies that parsed but matched no shape, are
// meaningful as-is; everything else is transport noise and collapses into
// the generic connectivity message.
func userError(err error) error {
	var serr *ServerError
	if errors.As(err, &serr) || errors.Is(err, ErrInvalidResponse) {
		return err
	}
	return ErrUnreachable
}

// attempt posts one submission to a single endpoint. Transport failures,
// non-2xx statuses, and malformed bodies are all failures of this attempt.
func (c *Client) attempt(ctx context.Context, endpoint string, body []byte) ([]state.ResultEntry, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{
			Status:  resp.StatusCode,
			Message: serverMessage(respBody),
		}
	}
	return Normalize(respBody)
}

// serverMessage extracts the body's "message" field when present, logging a
// bounded preview of whatever the server sent either way.
func serverMessage(body []byte) string {
	preview := body
	if len(preview) > bodyPreviewLimit {
		preview = preview[:bodyPreviewLimit]
	}
	log.Printf("[solve] server error body: %s", preview)

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return ""
}

// probe hits the first endpoint's root path so connectivity shows up in the
// logs next to the failure. Best effort only.
func (c *Client) probe(ctx context.Context) {
	root, err := rootOf(c.endpoints[0])
	if err != nil {
		log.Printf("[solve] health probe skipped: %v", err)
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, root, nil)
	if err != nil {
		log.Printf("[solve] health probe skipped: %v", err)
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[solve] health probe %s failed: %v", root, err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, bodyPreviewLimit))
	log.Printf("[solve] health probe %s: %s", root, resp.Status)
}

// rootOf reduces an endpoint URL to its scheme://host/ root.
func rootOf(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	u.Path = "/"
	u.RawQuery = ""
	return u.String(), nil
}
