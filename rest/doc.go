// Package rest provides a small fluent REST client: the URL path is built by
// chaining segment calls and the request is fired by a verb call.
//
// This package provides:
//   - A Builder that accumulates host, API version, path segments and headers
//   - Five verb calls (Get, Post, Put, Patch, Delete) returning an Envelope
//   - Ordered query parameters, raw by default or escaped on request
//   - Pluggable Transport and Serializer collaborators
//
// Basic Usage:
//
//	client := rest.New("https://api.example.com",
//	    rest.WithHeaders(map[string]string{"Authorization": "Bearer token"}),
//	)
//
//	resp, err := client.Version("v3").Segments("mail", "send").Post(ctx, rest.Call{
//	    RequestBody: map[string]interface{}{"personalizations": []interface{}{}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.StatusCode, resp.Body)
//
// Query Parameters:
//
// Query is ordered and written as-is. Keys and values are not escaped unless
// the root builder was created with WithEncodedURL:
//
//	resp, err := client.Segment("users").Get(ctx, rest.Call{
//	    QueryParams: rest.NewQuery("limit", 10, "offset", 0), // ?limit=10&offset=0
//	})
//
// TLS:
//
// Certificates are verified. To talk to a host with a self-signed
// certificate, opt out explicitly:
//
//	client := rest.New("https://localhost:8443",
//	    rest.WithTransport(rest.NewHTTPTransport(rest.WithInsecureSkipVerify())),
//	)
//
// Transport Wrappers:
//
// Any Transport can be wrapped. NewRateLimitedTransport spaces requests out
// with a token bucket and NewCachingTransport answers repeated GETs from
// memory until their TTL passes:
//
//	transport := rest.NewCachingTransport(
//	    rest.NewRateLimitedTransport(rest.NewHTTPTransport(), 5, 1),
//	    30*time.Second,
//	)
//	client := rest.New("https://api.example.com", rest.WithTransport(transport))
//
// Errors:
//
// Verb calls fail with *InvalidURLError, *SerializationError (raised before
// anything is sent) or *TransportError. Nothing is retried.
//
// Thread Safety:
//
// Builders returned by Segment and Version share no mutable state, so one
// builder can be branched into several paths. UpdateHeaders, and verb calls
// carrying RequestHeaders, mutate their receiver; do not call them on the
// same builder from multiple goroutines. HTTPTransport is safe for
// concurrent use.
package rest
