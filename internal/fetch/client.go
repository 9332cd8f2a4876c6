package fetch

import (
	"context"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/RafalekS/MCP-Search/internal/infrastructure/logging"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/monitoring"
	"github.com/RafalekS/MCP-Search/internal/infrastructure/resilience"
)

// Config defines transport behavior.
type Config struct {
	Timeout           time.Duration
	UserAgent         string
	RetryMax          int
	RequestsPerSecond float64
	Breaker           resilience.Settings
}

// DefaultConfig returns production-ready transport settings.
func DefaultConfig() Config {
	return Config{
		Timeout:           15 * time.Second,
		UserAgent:         "MCP-Search/1.0",
		RetryMax:          2,
		RequestsPerSecond: 8,
		Breaker:           resilience.DefaultSettings(),
	}
}

// Response is one fetched payload.
type Response struct {
	Body        []byte
	StatusCode  int
	ContentType string
	// FinalURL is the URL after redirects, used for relative-link
	// resolution in the HTML pipeline.
	FinalURL string
}

// Client performs rate-limited, breaker-guarded HTTP fetches.
type Client struct {
	resty    *resty.Client
	limiter  *rate.Limiter
	breakers *resilience.Group
	metrics  *monitoring.Metrics
	log      *logging.Logger
}

// New creates a fetch client.
func New(cfg Config, log *logging.Logger, metrics *monitoring.Metrics) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "MCP-Search/1.0"
	}
	if log == nil {
		log = logging.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	// Retries live in resty, not the transport; retryablehttp only
	// contributes its connection-pool settings here.
	restyClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetTransport(retryClient.HTTPClient.Transport).
		SetRetryCount(cfg.RetryMax).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		resty:    restyClient,
		limiter:  limiter,
		breakers: resilience.NewGroup(cfg.Breaker),
		metrics:  metrics,
		log:      log.Named("fetch"),
	}
}

// Get fetches rawURL with optional extra headers. Errors come back
// classified; the body is returned for any 2xx status.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, classify(rawURL, err)
	}

	breaker := c.breakers.For(parsed.Host)
	if err := breaker.Allow(); err != nil {
		c.record("circuit_open", 0)
		return nil, classify(rawURL, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		breaker.Failure()
		c.record("rate_limited", 0)
		return nil, classify(rawURL, err)
	}

	start := time.Now()
	req := c.resty.R().SetContext(ctx)
	for k, v := range headers {
		req.SetHeader(k, v)
	}

	resp, err := req.Get(rawURL)
	elapsed := time.Since(start)

	if err != nil {
		breaker.Failure()
		c.record("error", elapsed)
		c.log.Debug("fetch failed",
			zap.String("url", rawURL),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, classify(rawURL, err)
	}

	if resp.StatusCode() >= 400 {
		breaker.Failure()
		c.record("http_error", elapsed)
		return nil, &StatusError{Code: resp.StatusCode(), URL: rawURL}
	}

	breaker.Success()
	c.record("ok", elapsed)

	finalURL := rawURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &Response{
		Body:        resp.Body(),
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		FinalURL:    finalURL,
	}, nil
}

func (c *Client) record(outcome string, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordFetch(outcome, elapsed)
	}
}
