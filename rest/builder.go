package rest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const contentTypeJSON = "application/json"

var verbs = map[string]bool{
	"DELETE": true,
	"GET":    true,
	"PATCH":  true,
	"POST":   true,
	"PUT":    true,
}

// Builder accumulates a request across a chain of calls: a host, an optional
// API version, path segments and default headers.
//
// Segment and Version return new builders that share no mutable state with
// their parent, so an intermediate builder can be branched safely.
// UpdateHeaders mutates the receiver and is not safe for concurrent use.
// A Builder must be created with New.
type Builder struct {
	host     string
	headers  map[string]string
	version  string
	segments []string

	transport  Transport
	serializer Serializer
	logger     logrus.FieldLogger
	encodeURL  bool
}

// Call carries the per-request options of a verb call. Nil fields are
// ignored. When several Calls are passed, QueryParams and RequestBody are
// taken from the last Call that sets them, RequestHeaders are merged in order.
type Call struct {
	QueryParams    Query
	RequestHeaders map[string]string
	RequestBody    interface{}
}

// New creates a root builder for host, e.g. "https://api.example.com".
//
// Example:
//
//	client := rest.New("https://api.example.com",
//	    rest.WithHeaders(map[string]string{"Authorization": "Bearer token"}),
//	    rest.WithVersion("v3"),
//	)
//	resp, err := client.Segment("mail").Segment("send").Post(ctx, rest.Call{
//	    RequestBody: map[string]interface{}{"personalizations": []string{}},
//	})
func New(host string, options ...Option) *Builder {
	b := &Builder{
		host:       host,
		headers:    make(map[string]string),
		serializer: JSONSerializer{},
		logger:     logrus.StandardLogger(),
	}

	for _, option := range options {
		option(b)
	}

	if b.transport == nil {
		b.transport = NewHTTPTransport()
	}

	return b
}

func (b *Builder) clone() *Builder {
	c := *b
	c.headers = make(map[string]string, len(b.headers))
	for key, value := range b.headers {
		c.headers[key] = value
	}
	c.segments = append([]string(nil), b.segments...)
	return &c
}

// Segment returns a new builder whose path is the receiver's path plus name.
// An empty name adds nothing.
func (b *Builder) Segment(name string) *Builder {
	c := b.clone()
	if name != "" {
		c.segments = append(c.segments, name)
	}
	return c
}

// Segments is shorthand for chaining Segment over names.
func (b *Builder) Segments(names ...string) *Builder {
	c := b.clone()
	for _, name := range names {
		if name != "" {
			c.segments = append(c.segments, name)
		}
	}
	return c
}

// Version sets the API version on the receiver and returns a new builder
// with the same path. The version is a prefix, not a path segment, and is
// carried by every builder derived afterwards.
func (b *Builder) Version(version string) *Builder {
	b.version = version
	return b.clone()
}

// UpdateHeaders merges headers into the receiver's default headers,
// overwriting existing keys. It returns the receiver.
func (b *Builder) UpdateHeaders(headers map[string]string) *Builder {
	if b.headers == nil {
		b.headers = make(map[string]string, len(headers))
	}
	for key, value := range headers {
		b.headers[key] = value
	}
	return b
}

// Host returns the base origin.
func (b *Builder) Host() string { return b.host }

// APIVersion returns the version set on the builder, if any.
func (b *Builder) APIVersion() string { return b.version }

// Path returns a copy of the accumulated path segments.
func (b *Builder) Path() []string {
	return append([]string(nil), b.segments...)
}

// Headers returns a copy of the default headers.
func (b *Builder) Headers() map[string]string {
	headers := make(map[string]string, len(b.headers))
	for key, value := range b.headers {
		headers[key] = value
	}
	return headers
}

// URL assembles host + [/version] + /segment... + [?query].
func (b *Builder) URL(query Query) (*url.URL, error) {
	var path strings.Builder
	if b.version != "" {
		path.WriteByte('/')
		path.WriteString(b.escapeSegment(b.version))
	}
	for _, segment := range b.segments {
		path.WriteByte('/')
		path.WriteString(b.escapeSegment(segment))
	}
	if len(query) > 0 {
		path.WriteByte('?')
		path.WriteString(query.Encode(b.encodeURL))
	}

	raw := b.host + path.String()
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURLError{URL: raw, Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &InvalidURLError{URL: raw, Err: errors.New("missing scheme or host")}
	}
	return u, nil
}

func (b *Builder) escapeSegment(segment string) string {
	if b.encodeURL {
		return url.PathEscape(segment)
	}
	return segment
}

// Get sends a GET request to the builder's path.
func (b *Builder) Get(ctx context.Context, calls ...Call) (*Envelope, error) {
	return b.dispatch(ctx, "GET", calls)
}

// Post sends a POST request to the builder's path.
func (b *Builder) Post(ctx context.Context, calls ...Call) (*Envelope, error) {
	return b.dispatch(ctx, "POST", calls)
}

// Put sends a PUT request to the builder's path.
func (b *Builder) Put(ctx context.Context, calls ...Call) (*Envelope, error) {
	return b.dispatch(ctx, "PUT", calls)
}

// Patch sends a PATCH request to the builder's path.
func (b *Builder) Patch(ctx context.Context, calls ...Call) (*Envelope, error) {
	return b.dispatch(ctx, "PATCH", calls)
}

// Delete sends a DELETE request to the builder's path.
func (b *Builder) Delete(ctx context.Context, calls ...Call) (*Envelope, error) {
	return b.dispatch(ctx, "DELETE", calls)
}

// Do sends a request with a verb chosen at runtime. The verb is matched
// case-insensitively; anything other than DELETE, GET, PATCH, POST or PUT
// returns ErrUnsupportedMethod.
func (b *Builder) Do(ctx context.Context, method string, calls ...Call) (*Envelope, error) {
	verb := strings.ToUpper(method)
	if !verbs[verb] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	return b.dispatch(ctx, verb, calls)
}

// Prepare applies calls to the builder and returns the request that a verb
// call would hand to the Transport, without sending it.
func (b *Builder) Prepare(method string, calls ...Call) (*Request, error) {
	var query Query
	var body interface{}
	for _, call := range calls {
		if call.QueryParams != nil {
			query = call.QueryParams
		}
		if call.RequestHeaders != nil {
			b.UpdateHeaders(call.RequestHeaders)
		}
		if !isNil(call.RequestBody) {
			body = call.RequestBody
		}
	}

	u, err := b.URL(query)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		payload, err = b.serializer.Serialize(body)
		if err != nil {
			return nil, &SerializationError{Err: err}
		}
	}

	headers := b.Headers()
	if payload != nil && !hasHeader(headers, "Content-Type") {
		headers["Content-Type"] = contentTypeJSON
	}

	return &Request{
		Method:  method,
		URL:     u,
		Headers: headers,
		Body:    payload,
	}, nil
}

func (b *Builder) dispatch(ctx context.Context, method string, calls []Call) (*Envelope, error) {
	req, err := b.Prepare(method, calls...)
	if err != nil {
		return nil, err
	}

	log := b.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
		"tls":    strings.HasPrefix(b.host, "https"),
	})
	log.Debug("sending request")

	start := time.Now()
	raw, err := b.transport.Execute(ctx, req)
	if err == nil && raw == nil {
		err = errors.New("transport returned no response")
	}
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	log.WithFields(logrus.Fields{
		"status":   raw.StatusCode,
		"duration": time.Since(start),
	}).Debug("request completed")

	return NewEnvelope(raw), nil
}

// isNil reports whether v is nil or a nil map, slice, pointer or interface.
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func hasHeader(headers map[string]string, name string) bool {
	for key := range headers {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	return false
}
