package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"sync"
	"time"
)

// Request is the fully assembled request handed to a Transport.
type Request struct {
	Method  string
	URL     *url.URL
	Headers map[string]string
	// Body is nil when the call carried no request body.
	Body []byte
}

// RawResponse is what a Transport returns before it is normalized into an
// Envelope.
type RawResponse struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Timing     TimingInfo
}

// TimingInfo holds the phase timings of a single request.
type TimingInfo struct {
	DNSLookupTime       time.Duration
	TCPConnectTime      time.Duration
	TLSHandshakeTime    time.Duration
	TimeToFirstByte     time.Duration
	ContentTransferTime time.Duration
	TotalTime           time.Duration
	StartTime           time.Time
}

// Transport executes assembled requests.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*RawResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*RawResponse, error)

// Execute calls f(ctx, req).
func (f TransportFunc) Execute(ctx context.Context, req *Request) (*RawResponse, error) {
	return f(ctx, req)
}

// HTTPTransport is the default Transport, backed by net/http.
// HTTPTransport is safe for concurrent use by multiple goroutines.
type HTTPTransport struct {
	httpClient *http.Client
}

// TransportOption is a function that configures an HTTPTransport.
type TransportOption func(*HTTPTransport)

// NewHTTPTransport creates a transport with a 30 second timeout and
// certificate verification enabled.
func NewHTTPTransport(options ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, option := range options {
		option(t)
	}

	return t
}

// WithTimeout sets the total timeout for each request.
func WithTimeout(timeout time.Duration) TransportOption {
	return func(t *HTTPTransport) {
		t.httpClient.Timeout = timeout
	}
}

// WithHTTPClient sets a custom *http.Client.
// Use this for advanced configuration like proxies or custom TLS roots.
// The client is copied, so later options never modify the caller's client.
func WithHTTPClient(httpClient *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		c := *httpClient
		t.httpClient = &c
	}
}

// WithInsecureSkipVerify disables TLS certificate verification for https
// hosts. Plain http requests are unaffected.
// WARNING: This should only be used against hosts you control.
func WithInsecureSkipVerify() TransportOption {
	return func(t *HTTPTransport) {
		base, ok := http.DefaultTransport.(*http.Transport)
		if !ok {
			t.httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
			return
		}
		transport := base.Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		t.httpClient.Transport = transport
	}
}

// Execute sends the request and reads the whole response body, recording
// phase timings along the way.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*RawResponse, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), bodyReader)
	if err != nil {
		return nil, err
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	timing := TimingInfo{
		StartTime: time.Now(),
	}

	// dual-stack dialing can run the connect callbacks from several goroutines
	var mu sync.Mutex
	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool
	// end of the last completed phase, TTFB is measured from here
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			mu.Lock()
			defer mu.Unlock()
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			mu.Lock()
			defer mu.Unlock()
			lastPhaseEnd = time.Now()
			timing.DNSLookupTime = lastPhaseEnd.Sub(dnsStart)
			dnsDone = true
		},
		ConnectStart: func(network, addr string) {
			mu.Lock()
			defer mu.Unlock()
			if dnsDone || dnsStart.IsZero() {
				connectStart = time.Now()
			}
		},
		ConnectDone: func(network, addr string, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil && !connectStart.IsZero() && !connectDone {
				lastPhaseEnd = time.Now()
				timing.TCPConnectTime = lastPhaseEnd.Sub(connectStart)
				connectDone = true
			}
		},
		TLSHandshakeStart: func() {
			mu.Lock()
			defer mu.Unlock()
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil && !tlsHandshakeStart.IsZero() {
				lastPhaseEnd = time.Now()
				timing.TLSHandshakeTime = lastPhaseEnd.Sub(tlsHandshakeStart)
			}
		},
		GotFirstResponseByte: func() {
			mu.Lock()
			defer mu.Unlock()
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), trace))

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	contentTransferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)
	result := timing
	mu.Unlock()

	return &RawResponse{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       body,
		Timing:     result,
	}, nil
}
