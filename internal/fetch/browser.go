// internal/fetch/browser.go

package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/dacionxo/leadharvest/internal/extract"
	"github.com/dacionxo/leadharvest/internal/utils"
)

// BrowserOptions configures the headless browser route.
type BrowserOptions struct {
	Timeout       time.Duration
	ProxyEndpoint string
	AllowedDomain string
	UserAgent     string
	// SettleDelay waits after load so challenge scripts and client-side
	// rendering can finish before the DOM is captured.
	SettleDelay time.Duration
	Headless    bool
	Retry       RetryPolicy
	// OnRetry is called with the failed status before each backoff.
	OnRetry func(status Status)
}

// DefaultBrowserOptions returns the production browser tuning.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Timeout:     DefaultTimeout,
		UserAgent:   defaultUserAgents[0],
		SettleDelay: 3 * time.Second,
		Headless:    true,
		Retry:       DefaultRetryPolicy(),
	}
}

// Browser fetches JavaScript-rendered pages with chromedp. One shared
// Chrome process hosts all navigation, but every Fetch call gets its own
// browsing context, so items never share cookies or session state.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	opts        BrowserOptions
	logger      utils.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewBrowser starts a Chrome allocator for the pipeline run.
func NewBrowser(opts BrowserOptions, logger utils.Logger) (*Browser, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgents[0]
	}
	opts.Retry = opts.Retry.normalized()
	if logger == nil {
		logger = utils.NewLogger()
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(1920, 1080),
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Headless)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	return &Browser{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		opts:        opts,
		logger:      logger,
		sleep:       sleepCtx,
	}, nil
}

// Close tears down the Chrome allocator.
func (b *Browser) Close() {
	if b.allocCancel != nil {
		b.allocCancel()
	}
}

// Fetch navigates to a URL with retries, mirroring the client's policy:
// soft blocks and timeouts retry with escalating delays, and the proxy
// route falls back to direct inside a single attempt.
func (b *Browser) Fetch(ctx context.Context, rawURL string) Result {
	if b.opts.AllowedDomain != "" && !hostMatches(rawURL, b.opts.AllowedDomain) {
		return Result{Status: StatusSoftBlocked, FinalURL: rawURL,
			Err: fmt.Errorf("refusing to navigate off %s: %s", b.opts.AllowedDomain, rawURL)}
	}

	var last Result
	for attempt := 1; attempt <= b.opts.Retry.MaxAttempts; attempt++ {
		last = b.attempt(ctx, rawURL)
		if last.Status == StatusSuccess || !last.Retryable() {
			return last
		}
		if attempt == b.opts.Retry.MaxAttempts {
			break
		}
		if b.opts.OnRetry != nil {
			b.opts.OnRetry(last.Status)
		}
		delay := b.opts.Retry.Backoff(attempt, last.Status == StatusSoftBlocked)
		b.logger.WithFields(map[string]interface{}{
			"url":     rawURL,
			"attempt": attempt,
			"status":  last.Status.String(),
			"delay":   delay.String(),
		}).Warn("navigation failed, backing off")
		if err := b.sleep(ctx, delay); err != nil {
			last.Err = err
			return last
		}
	}
	return last
}

func (b *Browser) attempt(ctx context.Context, rawURL string) Result {
	if b.opts.ProxyEndpoint != "" {
		proxied := b.navigate(ctx, b.proxyURL(rawURL), rawURL)
		if proxied.Status == StatusSuccess {
			return proxied
		}
		b.logger.WithFields(map[string]interface{}{
			"url":    rawURL,
			"status": proxied.Status.String(),
		}).Debug("proxy route failed, falling back to direct navigation")
	}
	return b.navigate(ctx, rawURL, rawURL)
}

// navigate runs one navigation in a fresh browsing context.
func (b *Browser) navigate(ctx context.Context, requestURL, targetURL string) Result {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()

	runCtx, cancelTimeout := context.WithTimeout(tabCtx, b.opts.Timeout)
	defer cancelTimeout()

	// Propagate caller cancellation into the chromedp context.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cancelTimeout()
		case <-done:
		}
	}()

	var html, finalURL string
	tasks := []chromedp.Action{
		chromedp.Navigate(requestURL),
		chromedp.WaitReady("body"),
	}
	if b.opts.SettleDelay > 0 {
		tasks = append(tasks, chromedp.Sleep(b.opts.SettleDelay))
	}
	tasks = append(tasks,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	)

	if err := chromedp.Run(runCtx, tasks...); err != nil {
		return Result{Status: classifyNavigationError(ctx, runCtx, err), FinalURL: targetURL,
			Err: fmt.Errorf("navigation failed: %w", err)}
	}

	if requestURL != targetURL {
		// The proxy serves the page under its own URL.
		finalURL = targetURL
	}

	if b.opts.AllowedDomain != "" && !hostMatches(finalURL, b.opts.AllowedDomain) {
		return Result{Status: StatusSoftBlocked, FinalURL: finalURL, HTML: html,
			Err: fmt.Errorf("redirected off %s: %s", b.opts.AllowedDomain, finalURL)}
	}
	if extract.IsBlockedText(html) {
		return Result{Status: StatusSoftBlocked, FinalURL: finalURL, HTML: html,
			Err: errors.New("challenge content detected")}
	}

	return Result{Status: StatusSuccess, Code: 200, FinalURL: finalURL, HTML: html}
}

func (b *Browser) proxyURL(target string) string {
	c := Client{opts: Options{ProxyEndpoint: b.opts.ProxyEndpoint}}
	return c.proxyURL(target)
}

func classifyNavigationError(callerCtx, runCtx context.Context, err error) Status {
	if errors.Is(err, context.DeadlineExceeded) || runCtx.Err() == context.DeadlineExceeded {
		return StatusTimeout
	}
	if callerCtx.Err() != nil {
		return StatusNetworkError
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return StatusTimeout
	}
	return StatusNetworkError
}
