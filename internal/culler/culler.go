// Package culler checks bookmark links for dead or unreachable targets.
package culler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/favdash/internal/model"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// MarshalText writes the status by name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	DefaultConcurrency = 10
	DefaultTimeout     = 10 * time.Second
	maxRedirects       = 10
)

// Result holds the check result for a single link.
type Result struct {
	Link       model.Link `json:"link"`
	Status     Status     `json:"status"`
	StatusCode int        `json:"statusCode"`      // 0 if the connection failed
	Error      string     `json:"error,omitempty"` // set for unreachable links
}

// ProgressFunc is called after each URL is checked.
// completed is the number of URLs checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// Options tunes a check run.
type Options struct {
	Concurrency int
	Timeout     time.Duration

	// ExcludeDomains lists domains where a 404 usually means "private", not
	// dead. Subdomains match too.
	ExcludeDomains []string

	// RetryMax is the number of retries for connection errors and 5xx.
	RetryMax int

	Logger logrus.FieldLogger

	// Transport overrides the HTTP transport.
	Transport http.RoundTripper
}

// Check checks all link URLs concurrently and returns one result per link,
// in input order. Links not reached before ctx is done are reported as
// unreachable.
func Check(ctx context.Context, links []model.Link, opts Options, onProgress ProgressFunc) []Result {
	if len(links) == 0 {
		return nil
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	client := newClient(opts)

	excludeMap := make(map[string]bool)
	for _, domain := range opts.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	results := make([]Result, len(links))
	jobs := make(chan int, len(links))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = Result{Link: links[idx], Status: Unreachable, Error: "Cancelled"}
				} else {
					results[idx] = checkURL(ctx, client, links[idx], excludeMap)
				}

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(links))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range links {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func newClient(opts Options) *retryablehttp.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	// Hand back the last response instead of a "giving up" error.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = leveledLogger{log: opts.Logger}

	client.HTTPClient.Timeout = opts.Timeout
	client.HTTPClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}
	if opts.Transport != nil {
		client.HTTPClient.Transport = opts.Transport
	}
	return client
}

// checkURL checks a single URL and returns the result.
func checkURL(ctx context.Context, client *retryablehttp.Client, link model.Link, excludeMap map[string]bool) Result {
	result := Result{Link: link}

	// HEAD first; some servers reject it, so fall back to GET.
	resp, err := do(ctx, client, http.MethodHead, link.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = do(ctx, client, http.MethodGet, link.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if isExcludedDomain(link.URL, excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 5xx, 403 and friends may be temporary or need auth.
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *retryablehttp.Client, method, rawURL string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain checks if the URL's host is an excluded domain or one of
// its subdomains.
func isExcludedDomain(rawURL string, excludeMap map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if excludeMap[host] {
		return true
	}
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}

// Summary counts results per status.
type Summary struct {
	Healthy     int `json:"healthy"`
	Dead        int `json:"dead"`
	Unreachable int `json:"unreachable"`
}

// Summarize counts the results per status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case Healthy:
			s.Healthy++
		case Dead:
			s.Dead++
		default:
			s.Unreachable++
		}
	}
	return s
}

// leveledLogger routes retryablehttp's request chatter to logrus at debug.
type leveledLogger struct {
	log logrus.FieldLogger
}

func (l leveledLogger) entry(keysAndValues []interface{}) logrus.FieldLogger {
	if l.log == nil {
		return nil
	}
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if k, ok := keysAndValues[i].(string); ok {
			fields[k] = keysAndValues[i+1]
		}
	}
	return l.log.WithFields(fields)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	if e := l.entry(keysAndValues); e != nil {
		e.Debug(msg)
	}
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	if e := l.entry(keysAndValues); e != nil {
		e.Debug(msg)
	}
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	if e := l.entry(keysAndValues); e != nil {
		e.Debug(msg)
	}
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	if e := l.entry(keysAndValues); e != nil {
		e.Debug(msg)
	}
}
