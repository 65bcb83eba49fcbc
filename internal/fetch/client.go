// internal/fetch/client.go

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dacionxo/leadharvest/internal/extract"
	"github.com/dacionxo/leadharvest/internal/utils"
)

// Options configures a Client.
type Options struct {
	// Timeout caps one navigation, proxy hop included.
	Timeout time.Duration
	// ProxyEndpoint is a transparent proxy taking the target as a url
	// query parameter. Empty disables proxy routing.
	ProxyEndpoint string
	// AllowedDomain restricts navigation: requests to other hosts are
	// refused, and redirects off it classify as soft blocks.
	AllowedDomain string
	// RequestsPerSecond paces outbound requests. Zero means unpaced.
	RequestsPerSecond float64
	// Retry bounds repeated attempts per URL.
	Retry RetryPolicy
	// UserAgents rotates across requests. Defaults apply when empty.
	UserAgents []string
	// OnRetry is called with the failed status before each backoff.
	OnRetry func(status Status)
}

const DefaultTimeout = 90 * time.Second

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// Client fetches documents over plain HTTP with per-host pacing, user agent
// rotation, and transparent proxy fallback.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	opts       Options
	logger     utils.Logger

	mu      sync.Mutex
	uaIndex int

	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a fetch client from options, filling in defaults.
func NewClient(opts Options, logger utils.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = defaultUserAgents
	}
	opts.Retry = opts.Retry.normalized()
	if logger == nil {
		logger = utils.NewLogger()
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    limiter,
		opts:       opts,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

// Fetch retrieves one URL with retries. Soft blocks, timeouts, and network
// errors are retried up to the policy cap with escalating delays; terminal
// HTTP errors are returned immediately.
func (c *Client) Fetch(ctx context.Context, rawURL string) Result {
	if err := c.validateTarget(rawURL); err != nil {
		return Result{Status: StatusSoftBlocked, FinalURL: rawURL, Err: err}
	}

	var last Result
	for attempt := 1; attempt <= c.opts.Retry.MaxAttempts; attempt++ {
		last = c.attempt(ctx, rawURL)
		if last.Status == StatusSuccess || !last.Retryable() {
			return last
		}

		if attempt == c.opts.Retry.MaxAttempts {
			break
		}
		if c.opts.OnRetry != nil {
			c.opts.OnRetry(last.Status)
		}
		delay := c.opts.Retry.Backoff(attempt, last.Status == StatusSoftBlocked)
		c.logger.WithFields(map[string]interface{}{
			"url":     rawURL,
			"attempt": attempt,
			"status":  last.Status.String(),
			"delay":   delay.String(),
		}).Warn("fetch attempt failed, backing off")
		if err := c.sleep(ctx, delay); err != nil {
			last.Err = err
			return last
		}
	}
	return last
}

// attempt makes one logical attempt: proxy first when configured, falling
// back to a direct request on any proxy failure.
func (c *Client) attempt(ctx context.Context, rawURL string) Result {
	if c.opts.ProxyEndpoint != "" {
		proxied := c.do(ctx, c.proxyURL(rawURL), rawURL)
		if proxied.Status == StatusSuccess {
			return proxied
		}
		c.logger.WithFields(map[string]interface{}{
			"url":    rawURL,
			"status": proxied.Status.String(),
		}).Debug("proxy route failed, falling back to direct connection")
	}
	return c.do(ctx, rawURL, rawURL)
}

// do issues a single GET and classifies the outcome. targetURL is the
// logical destination, which differs from requestURL on the proxy route.
func (c *Client) do(ctx context.Context, requestURL, targetURL string) Result {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{Status: StatusNetworkError, FinalURL: targetURL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Result{Status: StatusNetworkError, FinalURL: targetURL,
			Err: fmt.Errorf("failed to create request: %w", err)}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Status: classifyTransportError(ctx, err), FinalURL: targetURL, Err: err}
	}
	defer resp.Body.Close()

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil && requestURL == targetURL {
		finalURL = resp.Request.URL.String()
	}

	if status := classifyCode(resp.StatusCode); status != StatusSuccess {
		return Result{Status: status, Code: resp.StatusCode, FinalURL: finalURL,
			Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Status: StatusNetworkError, Code: resp.StatusCode, FinalURL: finalURL,
			Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	html := string(body)

	if c.opts.AllowedDomain != "" && !hostMatches(finalURL, c.opts.AllowedDomain) {
		return Result{Status: StatusSoftBlocked, Code: resp.StatusCode, FinalURL: finalURL, HTML: html,
			Err: fmt.Errorf("redirected off %s: %s", c.opts.AllowedDomain, finalURL)}
	}
	if extract.IsBlockedText(html) {
		return Result{Status: StatusSoftBlocked, Code: resp.StatusCode, FinalURL: finalURL, HTML: html,
			Err: errors.New("challenge content detected")}
	}

	return Result{Status: StatusSuccess, Code: resp.StatusCode, FinalURL: finalURL, HTML: html}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")
}

func (c *Client) nextUserAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ua := c.opts.UserAgents[c.uaIndex%len(c.opts.UserAgents)]
	c.uaIndex++
	return ua
}

// proxyURL wraps the target in the transparent proxy endpoint.
func (c *Client) proxyURL(target string) string {
	return c.opts.ProxyEndpoint + "?url=" + url.QueryEscape(target)
}

// validateTarget refuses navigation to hosts outside the allowed domain.
func (c *Client) validateTarget(rawURL string) error {
	if c.opts.AllowedDomain == "" {
		return nil
	}
	if !hostMatches(rawURL, c.opts.AllowedDomain) {
		return fmt.Errorf("refusing to navigate off %s: %s", c.opts.AllowedDomain, rawURL)
	}
	return nil
}

func hostMatches(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func classifyTransportError(ctx context.Context, err error) Status {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return StatusTimeout
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return StatusTimeout
	}
	return StatusNetworkError
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
