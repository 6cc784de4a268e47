package bondref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 10 * time.Second
	// DefaultRateLimit is the number of upstream requests allowed per second.
	DefaultRateLimit = 5
)

// HTTPProvider looks bonds up against a remote reference service exposing
// GET /bonds/{code} and GET /bonds?abbr={text}.
type HTTPProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// Option configures an HTTPProvider.
type Option func(*HTTPProvider)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *HTTPProvider) {
		p.httpClient = client
	}
}

// WithAPIKey sets the key sent in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(p *HTTPProvider) {
		p.apiKey = key
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(requestsPerSecond int) Option {
	return func(p *HTTPProvider) {
		if requestsPerSecond > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *HTTPProvider) {
		if timeout > 0 {
			p.httpClient.Timeout = timeout
		}
	}
}

// NewHTTPProvider creates a provider rooted at baseURL.
func NewHTTPProvider(baseURL string, opts ...Option) *HTTPProvider {
	p := &HTTPProvider{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider's display name.
func (p *HTTPProvider) Name() string {
	return "http"
}

// LookupByCode fetches GET /bonds/{code}.
func (p *HTTPProvider) LookupByCode(ctx context.Context, code string) (*BondReference, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrNotFound
	}

	var rec Record
	if err := p.get(ctx, "/bonds/"+url.PathEscape(code), &rec); err != nil {
		return nil, err
	}
	return Normalize(rec)
}

// searchResponse is the envelope returned by GET /bonds?abbr=.
type searchResponse struct {
	Data []Record `json:"data"`
}

// LookupByAbbreviation fetches GET /bonds?abbr={text} and returns the first
// result whose name or issuer contains text.
func (p *HTTPProvider) LookupByAbbreviation(ctx context.Context, text string) (*BondReference, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNotFound
	}

	var resp searchResponse
	if err := p.get(ctx, "/bonds?abbr="+url.QueryEscape(text), &resp); err != nil {
		return nil, err
	}
	for _, rec := range resp.Data {
		if containsFold(rec.BondName, text) || containsFold(rec.Issuer, text) {
			return Normalize(rec)
		}
	}
	return nil, ErrNotFound
}

func (p *HTTPProvider) get(ctx context.Context, path string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}
