package entrez

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
	apperrors "github.com/tasnimul-arabi-anik/fetchm/pkg/errors"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/observability"
)

// DefaultBaseURL is the production E-utilities endpoint.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const httpTimeout = 30 * time.Second

// Config holds client identification and throttling settings.
type Config struct {
	// APIKey is the optional NCBI API key, sent as api_key=.
	APIKey string

	// Email is sent as email= so NCBI can reach the user about abusive
	// request patterns. Strongly recommended by the usage policy.
	Email string

	// Tool is sent as tool=. Defaults to "fetchm".
	Tool string

	// RateLimit overrides requests per second. Zero derives the limit
	// from APIKey (10 with a key, 3 without).
	RateLimit float64

	// CacheTTL is how long responses are cached. Zero means
	// cache.TTLResponse.
	CacheTTL time.Duration

	// BaseURL overrides the E-utilities endpoint, used by tests.
	BaseURL string
}

// Client provides access to the Entrez E-utilities API.
// It handles HTTP requests with caching, rate limiting and automatic
// retries. All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	limit   *limiter
	baseURL string
	ident   url.Values
}

// NewClient creates an Entrez client with the given cache backend.
// Pass cache.NewNullCache() to disable caching.
func NewClient(backend cache.Cache, cfg Config) *Client {
	if cfg.Tool == "" {
		cfg.Tool = "fetchm"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = cache.TTLResponse
	}
	rate := cfg.RateLimit
	if rate == 0 {
		rate = 3
		if cfg.APIKey != "" {
			rate = 10
		}
	}

	ident := url.Values{}
	ident.Set("tool", cfg.Tool)
	if cfg.Email != "" {
		ident.Set("email", cfg.Email)
	}
	if cfg.APIKey != "" {
		ident.Set("api_key", cfg.APIKey)
	}

	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   backend,
		ttl:     cfg.CacheTTL,
		limit:   newLimiter(rate),
		baseURL: cfg.BaseURL,
		ident:   ident,
	}
}

// Close releases the cache backend. The client must not be used after.
func (c *Client) Close() error {
	return c.cache.Close()
}

// get performs a rate-limited, cached, retried GET against an E-utilities
// endpoint (e.g. "esearch.fcgi") and returns the raw response body.
//
// The cache key is derived from the endpoint and query only; identification
// parameters (tool, email, api_key) never enter the key, so cached entries
// survive key rotation. If refresh is true the cache is bypassed, and the
// fresh response overwrites the cached entry.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, ttl time.Duration, refresh bool) ([]byte, error) {
	key := cache.Key("entrez:"+endpoint, query.Encode())

	if !refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, endpoint)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, endpoint)
	}

	full := url.Values{}
	for k, vs := range query {
		full[k] = vs
	}
	for k, vs := range c.ident {
		full[k] = vs
	}
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, full.Encode())

	var body []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		if err := c.limit.wait(ctx); err != nil {
			return err
		}
		var err error
		body, err = c.doRequest(ctx, reqURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, endpoint, len(body))
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()

	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return cache.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		// Entrez sets Retry-After when throttling; the backoff delay is
		// our own, but the error is retryable either way.
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return cache.Retryable(&apperrors.RateLimitedError{RetryAfter: retryAfter})
	case resp.StatusCode >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode)
	}
}
