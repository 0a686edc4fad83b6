package rest

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimitedTransport delays requests so that next is called at most
// rps times per second, with bursts of up to burst requests.
type RateLimitedTransport struct {
	next    Transport
	limiter *rate.Limiter
}

// NewRateLimitedTransport wraps next with a token bucket limiter.
func NewRateLimitedTransport(next Transport, rps float64, burst int) *RateLimitedTransport {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Execute waits for a token, then calls the wrapped transport. A context
// that ends while waiting returns its error without sending anything.
func (t *RateLimitedTransport) Execute(ctx context.Context, req *Request) (*RawResponse, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.next.Execute(ctx, req)
}

// CachingTransport keeps successful GET responses in memory for a TTL.
// Other verbs and non-2xx responses always reach the wrapped transport.
type CachingTransport struct {
	next  Transport
	cache *cache.Cache
}

// NewCachingTransport wraps next with an in-memory cache. Expired entries
// are purged every ttl*2.
func NewCachingTransport(next Transport, ttl time.Duration) *CachingTransport {
	return &CachingTransport{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (t *CachingTransport) Execute(ctx context.Context, req *Request) (*RawResponse, error) {
	if req.Method != http.MethodGet || req.Body != nil {
		return t.next.Execute(ctx, req)
	}

	key := cacheKey(req)
	if cached, found := t.cache.Get(key); found {
		if raw, ok := cached.(*RawResponse); ok {
			return copyRawResponse(raw), nil
		}
	}

	raw, err := t.next.Execute(ctx, req)
	if err != nil || raw == nil {
		return raw, err
	}
	if raw.StatusCode >= 200 && raw.StatusCode < 300 {
		t.cache.SetDefault(key, copyRawResponse(raw))
	}
	return raw, nil
}

// Flush drops every cached response.
func (t *CachingTransport) Flush() {
	t.cache.Flush()
}

// cacheKey is the URL followed by the request headers in sorted order, so
// requests with different credentials never share an entry.
func cacheKey(req *Request) string {
	var b strings.Builder
	b.WriteString(req.URL.String())
	keys := make([]string, 0, len(req.Headers))
	for k := range req.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("\n")
		b.WriteString(http.CanonicalHeaderKey(k))
		b.WriteString(": ")
		b.WriteString(req.Headers[k])
	}
	return b.String()
}

func copyRawResponse(raw *RawResponse) *RawResponse {
	c := *raw
	c.Header = raw.Header.Clone()
	if raw.Body != nil {
		c.Body = append([]byte(nil), raw.Body...)
	}
	return &c
}
