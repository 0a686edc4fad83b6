package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestHTTPTransport_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected method POST, got %s", r.Method)
		}
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("Expected path /v3/mail/send, got %s", r.URL.Path)
		}
		if r.URL.RawQuery != "dry=true" {
			t.Errorf("Expected query dry=true, got %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("Expected Authorization header, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"personalizations":[]}` {
			t.Errorf("Expected JSON body, got %s", body)
		}

		w.Header().Set("X-Message-Id", "42")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := New(server.URL,
		WithHeaders(map[string]string{"Authorization": "Bearer token"}),
		WithVersion("v3"),
		WithLogger(quietLogger()),
	)

	resp, err := client.Segment("mail").Segment("send").Post(context.Background(), Call{
		QueryParams: NewQuery("dry", true),
		RequestBody: map[string]interface{}{"personalizations": []interface{}{}},
	})
	if err != nil {
		t.Fatalf("Error executing request: %v", err)
	}

	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("Expected status code %d, got %d", http.StatusAccepted, resp.StatusCode)
	}
	if resp.Body != "" {
		t.Errorf("Expected empty body, got %q", resp.Body)
	}
	if !strings.Contains(resp.Headers, "X-Message-Id: 42\r\n") {
		t.Errorf("Expected header dump to contain X-Message-Id, got %q", resp.Headers)
	}
	if resp.Timing.TotalTime <= 0 {
		t.Errorf("Expected total time to be recorded, got %v", resp.Timing.TotalTime)
	}
}

func TestHTTPTransport_Execute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test-Header") != "test-value" {
			t.Errorf("Expected header X-Test-Header: test-value, got %s", r.Header.Get("X-Test-Header"))
		}
		if r.ContentLength != 0 {
			t.Errorf("Expected no body, got content length %d", r.ContentLength)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"success"}`))
	}))
	defer server.Close()

	u, err := New(server.URL, WithLogger(quietLogger())).Segment("test").URL(nil)
	if err != nil {
		t.Fatalf("Error building URL: %v", err)
	}

	transport := NewHTTPTransport(WithTimeout(5 * time.Second))
	raw, err := transport.Execute(context.Background(), &Request{
		Method:  "GET",
		URL:     u,
		Headers: map[string]string{"X-Test-Header": "test-value"},
	})
	if err != nil {
		t.Fatalf("Error executing request: %v", err)
	}

	if raw.StatusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, raw.StatusCode)
	}
	if raw.Status != "200 OK" {
		t.Errorf("Expected status 200 OK, got %s", raw.Status)
	}
	if raw.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got %s", raw.Header.Get("Content-Type"))
	}
	if string(raw.Body) != `{"message":"success"}` {
		t.Errorf("Expected body %s, got %s", `{"message":"success"}`, raw.Body)
	}
}

func TestHTTPTransport_Options(t *testing.T) {
	timeout := 10 * time.Second
	transport := NewHTTPTransport(WithTimeout(timeout))
	if transport.httpClient.Timeout != timeout {
		t.Errorf("Expected timeout %v, got %v", timeout, transport.httpClient.Timeout)
	}

	jar := &recordingJar{}
	custom := &http.Client{Jar: jar}
	transport = NewHTTPTransport(WithHTTPClient(custom))
	if transport.httpClient.Jar != jar {
		t.Error("Expected custom http client settings to be used")
	}

	transport = NewHTTPTransport(WithInsecureSkipVerify())
	ht, ok := transport.httpClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Expected *http.Transport, got %T", transport.httpClient.Transport)
	}
	if !ht.TLSClientConfig.InsecureSkipVerify {
		t.Error("Expected InsecureSkipVerify to be set")
	}
}

func TestHTTPTransport_VerifiesCertificatesByDefault(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, WithLogger(quietLogger()))
	_, err := client.Segment("secure").Get(context.Background())
	if err == nil {
		t.Fatal("Expected certificate verification to fail against a self-signed server")
	}
	if !IsTransport(err) {
		t.Errorf("Expected TransportError, got %T: %v", err, err)
	}

	insecure := New(server.URL,
		WithLogger(quietLogger()),
		WithTransport(NewHTTPTransport(WithInsecureSkipVerify())),
	)
	resp, err := insecure.Segment("secure").Get(context.Background())
	if err != nil {
		t.Fatalf("Expected insecure transport to connect, got %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestHTTPTransport_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL, WithLogger(quietLogger())).Get(ctx)
	if !IsTransport(err) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
}

type recordingJar struct{}

func (recordingJar) SetCookies(u *url.URL, cookies []*http.Cookie) {}
func (recordingJar) Cookies(u *url.URL) []*http.Cookie             { return nil }

func TestHTTPTransport_CustomClientIsNotModified(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	transport := NewHTTPTransport(WithHTTPClient(shared), WithTimeout(time.Second), WithInsecureSkipVerify())

	if shared.Timeout != time.Minute {
		t.Errorf("Expected caller's timeout to stay 1m, got %v", shared.Timeout)
	}
	if shared.Transport != nil {
		t.Errorf("Expected caller's transport to stay nil, got %T", shared.Transport)
	}
	if transport.httpClient.Timeout != time.Second {
		t.Errorf("Expected transport timeout 1s, got %v", transport.httpClient.Timeout)
	}
	if _, ok := transport.httpClient.Transport.(*http.Transport); !ok {
		t.Errorf("Expected insecure *http.Transport, got %T", transport.httpClient.Transport)
	}
}

func TestHTTPTransport_ConcurrentExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// "localhost" resolves to both address families on dual-stack hosts,
	// which runs the connect trace hooks from parallel dials.
	u, err := url.Parse(strings.Replace(server.URL, "127.0.0.1", "localhost", 1))
	if err != nil {
		t.Fatalf("Error parsing URL: %v", err)
	}

	transport := NewHTTPTransport(WithTimeout(5 * time.Second))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw, err := transport.Execute(context.Background(), &Request{Method: "GET", URL: u})
			if err != nil {
				t.Errorf("Error executing request: %v", err)
				return
			}
			if raw.Timing.TotalTime <= 0 {
				t.Errorf("Expected total time to be recorded, got %v", raw.Timing.TotalTime)
			}
		}()
	}
	wg.Wait()
}
