// Package feed talks to the operator's live-passage endpoint. The
// upstream is unreliable; every failure mode degrades to "no data"
// and recovery is left to the next scheduled fetch.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/livetagus/fertagus-go/internal/metrics"
	"github.com/livetagus/fertagus-go/internal/models"
)

// DefaultBaseURL is the operator's public API root.
const DefaultBaseURL = "https://www.infraestruturasdeportugal.pt/negocios-e-servicos"

const requestTimeout = 8 * time.Second

// The endpoint rejects plain API clients, so requests impersonate the
// operator's own web frontend.
var fetchHeaders = map[string]string{
	"User-Agent":       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Referer":          "https://www.infraestruturasdeportugal.pt/",
	"Accept":           "application/json, text/javascript, */*; q=0.01",
	"X-Requested-With": "XMLHttpRequest",
}

// Client fetches live passage details, one request per (trip, date).
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Collector
}

// NewClient creates a fetch client. The collector may be nil.
func NewClient(baseURL string, collector *metrics.Collector) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		metrics: collector,
	}
}

// envelope wraps the payload the way the upstream does.
type envelope struct {
	Response *models.LiveDetails `json:"response"`
}

// Details returns the live passage payload for a trip on a date, or
// nil when the upstream has nothing usable. Transport errors,
// non-success statuses and malformed bodies all map to nil; callers
// fall back to the static schedule.
func (c *Client) Details(ctx context.Context, tripID, date string) *models.LiveDetails {
	details, err := c.fetch(ctx, tripID, date)
	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		}
		log.Printf("[feed] %s/%s: %v", tripID, date, err)
		return nil
	}
	if c.metrics != nil {
		c.metrics.UpstreamRequests.WithLabelValues("ok").Inc()
	}
	return details
}

func (c *Client) fetch(ctx context.Context, tripID, date string) (*models.LiveDetails, error) {
	url := fmt.Sprintf("%s/horarios-ncombio/%s/%s", c.baseURL, tripID, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	for k, v := range fetchHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("HTTP %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errors.Wrap(err, "decoding body")
	}
	if env.Response == nil {
		return nil, errors.New("empty response object")
	}
	return env.Response, nil
}
