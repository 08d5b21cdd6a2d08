// Package culler checks bookmark URLs for dead links.
package culler

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/model"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy         Status = iota // 2xx or 3xx response
	Dead                          // 404 or 410 Gone
	Unreachable                   // timeout, DNS failure, connection refused, etc.
	PossiblyPrivate               // 404/410 on an excluded domain, likely needs auth
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	case PossiblyPrivate:
		return "private"
	default:
		return "unreachable"
	}
}

// Result holds the check result for a single bookmark.
type Result struct {
	Bookmark   *model.Bookmark
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // Error message for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
// completed is the number of URLs checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// Options configures a Checker.
type Options struct {
	Concurrency    int
	Timeout        time.Duration
	ExcludeDomains []string // domains where 404s mean "possibly private" instead of dead
}

// Checker checks bookmark URLs with a pool of workers.
type Checker struct {
	client      *http.Client
	concurrency int
	exclude     map[string]bool
	log         logger.Logger
}

// New creates a Checker. Concurrency below 1 is treated as 1.
func New(opts Options, log logger.Logger) *Checker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	// Build exclude map for fast lookup
	exclude := make(map[string]bool, len(opts.ExcludeDomains))
	for _, domain := range opts.ExcludeDomains {
		exclude[strings.ToLower(domain)] = true
	}

	return &Checker{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow redirects but limit to 10
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		concurrency: opts.Concurrency,
		exclude:     exclude,
		log:         log,
	}
}

// Check checks all bookmark URLs concurrently and returns one result per
// bookmark, in input order. Cancelling ctx stops outstanding requests; their
// bookmarks are reported unreachable.
func (c *Checker) Check(ctx context.Context, bookmarks []model.Bookmark, onProgress ProgressFunc) []Result {
	if len(bookmarks) == 0 {
		return nil
	}

	c.log.Info("checking bookmarks",
		logger.Int("count", len(bookmarks)),
		logger.Int("workers", c.concurrency))
	start := time.Now()

	var (
		results = make([]Result, len(bookmarks))
		mu      sync.Mutex
		done    int
		g       errgroup.Group
	)
	g.SetLimit(c.concurrency)

	for i := range bookmarks {
		g.Go(func() error {
			results[i] = c.checkOne(ctx, &bookmarks[i])
			if onProgress != nil {
				mu.Lock()
				done++
				onProgress(done, len(bookmarks))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	counts := Summarize(results)
	c.log.Info("check finished",
		logger.Duration("elapsed", time.Since(start)),
		logger.Int("healthy", counts[Healthy]),
		logger.Int("dead", counts[Dead]),
		logger.Int("unreachable", counts[Unreachable]),
		logger.Int("private", counts[PossiblyPrivate]))

	return results
}

// Summarize counts results per status.
func Summarize(results []Result) map[Status]int {
	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// Filter returns the results with the given status.
func Filter(results []Result, status Status) []Result {
	var out []Result
	for _, r := range results {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func (c *Checker) checkOne(ctx context.Context, b *model.Bookmark) Result {
	code, err := c.probe(ctx, b.URL)
	if err != nil {
		c.log.Debug("unreachable", logger.String("url", b.URL), logger.Error(err))
		return Result{Bookmark: b, Status: Unreachable, Error: describe(err)}
	}

	r := Result{Bookmark: b, StatusCode: code}
	switch {
	case code >= 200 && code < 400:
		r.Status = Healthy
	case code == http.StatusNotFound || code == http.StatusGone:
		if c.isExcludedDomain(b.URL) {
			r.Status = PossiblyPrivate
			r.Error = "Possibly private (auth required)"
		} else {
			r.Status = Dead
		}
	default:
		// 403, 5xx and friends may be temporary or need a login.
		r.Status = Unreachable
		r.Error = http.StatusText(code)
	}
	return r
}

// probe returns the status code for rawURL. HEAD is tried first; servers
// that reject it or fail on it get a GET.
func (c *Checker) probe(ctx context.Context, rawURL string) (int, error) {
	code, err := c.request(ctx, http.MethodHead, rawURL)
	if err == nil && code != http.StatusMethodNotAllowed {
		return code, nil
	}
	return c.request(ctx, http.MethodGet, rawURL)
}

func (c *Checker) request(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "popmark-linkcheck/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// isExcludedDomain checks if the URL's host is an excluded domain or one
// of its subdomains (e.g., "api.github.com" matches "github.com").
func (c *Checker) isExcludedDomain(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for domain := range c.exclude {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// describe turns a transport error into a short category.
func describe(err error) string {
	var (
		dnsErr    *net.DNSError
		netErr    net.Error
		verifyErr *tls.CertificateVerificationError
		authErr   x509.UnknownAuthorityError
		hostErr   x509.HostnameError
		certErr   x509.CertificateInvalidError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return "Canceled"
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return "Timeout"
	case errors.As(err, &dnsErr):
		return "DNS failure"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "Connection refused"
	case errors.Is(err, syscall.ENETUNREACH):
		return "Network unreachable"
	case errors.As(err, &verifyErr), errors.As(err, &authErr),
		errors.As(err, &hostErr), errors.As(err, &certErr):
		return "TLS/certificate error"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
