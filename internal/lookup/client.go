// Package lookup is the HTTP client for the client lookup service. The
// dashboard uses it to fetch per-customer segmentation results and the
// ranked best/worst client lists.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/customer-analytics/internal/segmentation"
)

// ErrNotFound is returned when the service does not know the requested
// customer id.
var ErrNotFound = errors.New("lookup: client not found")

// UnavailableError reports that the lookup service could not be
// reached or answered with a server error.
type UnavailableError struct {
	URL string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("lookup: service unavailable at %s: %v", e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ClientRef identifies one customer known to the lookup service.
type ClientRef struct {
	CustomerID string `json:"customer_id"`
}

// Client talks to one lookup service instance. All calls are read-only
// and safe to retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a lookup client for the given base URL, e.g.
// "http://127.0.0.1:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Health checks the service's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.getJSON(ctx, "/health", &struct {
		Status string `json:"status"`
	}{})
}

// Clients lists all customer ids known to the service.
func (c *Client) Clients(ctx context.Context) ([]ClientRef, error) {
	var refs []ClientRef
	if err := c.getJSON(ctx, "/clients", &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// ClientByID fetches one customer's segmentation result. Returns
// ErrNotFound for an unknown id.
func (c *Client) ClientByID(ctx context.Context, customerID string) (*segmentation.ScoredSegment, error) {
	var seg segmentation.ScoredSegment
	if err := c.getJSON(ctx, "/client/"+customerID, &seg); err != nil {
		return nil, err
	}
	return &seg, nil
}

// TopClients fetches the n best-ranked customers.
func (c *Client) TopClients(ctx context.Context, n int) ([]segmentation.ScoredSegment, error) {
	return c.rankedClients(ctx, "/top-clients", n)
}

// WorstClients fetches the n worst-ranked customers.
func (c *Client) WorstClients(ctx context.Context, n int) ([]segmentation.ScoredSegment, error) {
	return c.rankedClients(ctx, "/worst-clients", n)
}

func (c *Client) rankedClients(ctx context.Context, path string, n int) ([]segmentation.ScoredSegment, error) {
	if n > 0 {
		path = fmt.Sprintf("%s?n=%d", path, n)
	}
	var segs []segmentation.ScoredSegment
	if err := c.getJSON(ctx, path, &segs); err != nil {
		return nil, err
	}
	return segs, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UnavailableError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return &UnavailableError{URL: url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("lookup: unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lookup: decoding %s: %w", url, err)
	}
	return nil
}
