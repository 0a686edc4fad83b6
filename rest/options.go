package rest

import (
	"github.com/sirupsen/logrus"
)

// Option is a function that configures a root Builder.
type Option func(*Builder)

// WithHeaders sets default headers sent with every request of the chain.
// The map is copied.
func WithHeaders(headers map[string]string) Option {
	return func(b *Builder) {
		for key, value := range headers {
			b.headers[key] = value
		}
	}
}

// WithVersion sets the API version injected as the first path segment.
func WithVersion(version string) Option {
	return func(b *Builder) {
		b.version = version
	}
}

// WithPath seeds the builder with initial path segments.
func WithPath(segments ...string) Option {
	return func(b *Builder) {
		b.segments = append(b.segments, segments...)
	}
}

// WithTransport replaces the default HTTPTransport.
func WithTransport(transport Transport) Option {
	return func(b *Builder) {
		b.transport = transport
	}
}

// WithSerializer replaces the default JSONSerializer used for request bodies.
func WithSerializer(serializer Serializer) Option {
	return func(b *Builder) {
		b.serializer = serializer
	}
}

// WithLogger sets the logger used for request tracing.
// Requests are logged at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithEncodedURL escapes path segments and query parameters. By default they
// are concatenated raw.
func WithEncodedURL() Option {
	return func(b *Builder) {
		b.encodeURL = true
	}
}
