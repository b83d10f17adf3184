package midgard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
)

const (
	// DefaultBaseURL is the public Midgard API endpoint.
	DefaultBaseURL = "https://midgard.ninerealms.com/v2"

	// MaxWindowSize is the largest interval count a single history
	// request may ask for.
	MaxWindowSize = 400

	defaultTimeout = 30 * time.Second
)

// Sentinel errors distinguishing a failed exchange from a response the
// client could not interpret.
var (
	ErrTransport = errors.New("midgard: transport failure")
	ErrDecode    = errors.New("midgard: undecodable response")
)

// Client fetches history windows from the Midgard API.
type Client struct {
	baseURL string
	http    *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// NewClient creates a Midgard API client.
func NewClient(opts ...Option) *Client {
	client := resty.New()
	client.SetTimeout(defaultTimeout)

	c := &Client{
		baseURL: DefaultBaseURL,
		http:    client,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one history request and decodes the body into out.
func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func historyParams(interval string, from, count int64) map[string]string {
	return map[string]string{
		"interval": interval,
		"from":     strconv.FormatInt(from, 10),
		"count":    strconv.FormatInt(count, 10),
	}
}

// FetchDepths retrieves depth/price history for a pool. It returns the
// parsed samples plus the response's meta endTime, which callers use to
// advance their cursor.
func (c *Client) FetchDepths(ctx context.Context, pool, interval string, from, count int64) ([]*domain.DepthSample, int64, error) {
	var resp depthResponse
	if err := c.get(ctx, "/history/depths/"+pool, historyParams(interval, from, count), &resp); err != nil {
		return nil, 0, err
	}

	samples := make([]*domain.DepthSample, 0, len(resp.Intervals))
	for _, in := range resp.Intervals {
		sample, err := in.toSample(pool)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: depth interval: %v", ErrDecode, err)
		}
		samples = append(samples, sample)
	}

	endTime, err := parseNumber[int64](resp.Meta.EndTime)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: meta endTime: %v", ErrDecode, err)
	}
	return samples, endTime, nil
}

// FetchSwaps retrieves swap history for a pool.
func (c *Client) FetchSwaps(ctx context.Context, pool, interval string, from, count int64) ([]*domain.SwapSample, int64, error) {
	params := historyParams(interval, from, count)
	params["pool"] = pool

	var resp swapResponse
	if err := c.get(ctx, "/history/swaps", params, &resp); err != nil {
		return nil, 0, err
	}

	samples := make([]*domain.SwapSample, 0, len(resp.Intervals))
	for _, in := range resp.Intervals {
		sample, err := in.toSample(pool)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: swap interval: %v", ErrDecode, err)
		}
		samples = append(samples, sample)
	}

	endTime, err := parseNumber[int64](resp.Meta.EndTime)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: meta endTime: %v", ErrDecode, err)
	}
	return samples, endTime, nil
}

// FetchEarnings retrieves network earnings history. Each window couples
// the network summary with its per-pool breakdown.
func (c *Client) FetchEarnings(ctx context.Context, interval string, from, count int64) ([]*domain.EarningsWindow, int64, error) {
	var resp earningsResponse
	if err := c.get(ctx, "/history/earnings", historyParams(interval, from, count), &resp); err != nil {
		return nil, 0, err
	}

	windows := make([]*domain.EarningsWindow, 0, len(resp.Intervals))
	for _, in := range resp.Intervals {
		window, err := in.toWindow()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: earnings interval: %v", ErrDecode, err)
		}
		windows = append(windows, window)
	}

	endTime, err := parseNumber[int64](resp.Meta.EndTime)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: meta endTime: %v", ErrDecode, err)
	}
	return windows, endTime, nil
}

// FetchRunePool retrieves rune-pool membership history.
func (c *Client) FetchRunePool(ctx context.Context, interval string, from, count int64) ([]*domain.RunePoolSample, int64, error) {
	var resp runePoolResponse
	if err := c.get(ctx, "/history/runepool", historyParams(interval, from, count), &resp); err != nil {
		return nil, 0, err
	}

	samples := make([]*domain.RunePoolSample, 0, len(resp.Intervals))
	for _, in := range resp.Intervals {
		sample, err := in.toSample()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: runepool interval: %v", ErrDecode, err)
		}
		samples = append(samples, sample)
	}

	endTime, err := parseNumber[int64](resp.Meta.EndTime)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: meta endTime: %v", ErrDecode, err)
	}
	return samples, endTime, nil
}
