// Package molecules looks structures up on the backend's synchronous
// endpoints: a PNG rendering and a synthesizability score per SMILES
// string. Plain request/response; nothing here touches the run stream.
package molecules

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const (
	visualizePath = "/api/visualize"
	scorePath     = "/api/sa-score"

	defaultTimeout = 15 * time.Second
)

// Client fetches structure lookups. Lookups are throttled: callers tend
// to refetch on every proposed structure mid-run, and the backend renders
// images synchronously.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithRateLimit overrides the default lookup throttle.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(4), 8),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Image renders the structure as a PNG.
func (c *Client) Image(ctx context.Context, structure string) ([]byte, error) {
	body, err := c.get(ctx, visualizePath, structure)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// SynthesizabilityScore returns the synthetic-accessibility score for the
// structure. Lower scores are easier to synthesize.
func (c *Client) SynthesizabilityScore(ctx context.Context, structure string) (float64, error) {
	body, err := c.get(ctx, scorePath, structure)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("undecodable score payload: %w", err)
	}
	return payload.Score, nil
}

func (c *Client) get(ctx context.Context, path, structure string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("lookup throttled: %w", err)
	}

	ctx, span := tracer.Start(ctx, "structure lookup")
	defer span.End()
	span.SetAttributes(attribute.String("lookup.path", path))

	endpoint := c.baseURL + path + "?smiles=" + url.QueryEscape(structure)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading response body: %w", err)
		span.RecordError(err)
		return nil, err
	}
	return body, nil
}
