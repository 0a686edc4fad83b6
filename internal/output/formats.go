package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/restchain/rest"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// Formatter renders the request about to be sent and the envelope received
type Formatter interface {
	FormatRequest(req *rest.Request) string
	FormatEnvelope(env *rest.Envelope) string
}

// ParseFormat maps a --output flag value to an OutputFormat
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// GetFormatter returns the formatter for format, falling back to text
func GetFormatter(format OutputFormat, verbose, noColor bool) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewTextFormatter(verbose, noColor)
	}
}

// RequestData represents the structured data of an assembled request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for a request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of a response envelope.
// Headers stays the raw header dump carried by the envelope.
type ResponseData struct {
	StatusCode int         `json:"statusCode" yaml:"statusCode"`
	Headers    string      `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       interface{} `json:"body,omitempty" yaml:"body,omitempty"`
	Timing     *TimingData `json:"timing,omitempty" yaml:"timing,omitempty"`
	Timestamp  string      `json:"timestamp" yaml:"timestamp"`
}

func newRequestData(req *rest.Request) RequestData {
	return RequestData{
		Method:    req.Method,
		URL:       req.URL.String(),
		Headers:   req.Headers,
		Body:      decodeBody(string(req.Body)),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func newResponseData(env *rest.Envelope, verbose bool) ResponseData {
	data := ResponseData{
		StatusCode: env.StatusCode,
		Body:       decodeBody(env.Body),
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	if verbose {
		data.Headers = env.Headers
		data.Timing = &TimingData{
			DNSLookup:       env.Timing.DNSLookupTime.Milliseconds(),
			TCPConnection:   env.Timing.TCPConnectTime.Milliseconds(),
			TLSHandshake:    env.Timing.TLSHandshakeTime.Milliseconds(),
			TimeToFirstByte: env.Timing.TimeToFirstByte.Milliseconds(),
			ContentTransfer: env.Timing.ContentTransferTime.Milliseconds(),
			Total:           env.Timing.TotalTime.Milliseconds(),
		}
	}
	return data
}

// decodeBody returns the body as structured data when it is JSON, as a plain
// string otherwise, and nil when empty.
func decodeBody(body string) interface{} {
	if body == "" {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return body
	}
	return v
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

// FormatRequest formats a request as JSON. Requests are only shown in
// verbose mode so that stdout stays a single parseable document.
func (f *JSONFormatter) FormatRequest(req *rest.Request) string {
	if !f.Verbose {
		return ""
	}
	return f.marshal(newRequestData(req), "request") + "\n"
}

// FormatEnvelope formats an envelope as JSON
func (f *JSONFormatter) FormatEnvelope(env *rest.Envelope) string {
	return f.marshal(newResponseData(env, f.Verbose), "response") + "\n"
}

func (f *JSONFormatter) marshal(v interface{}, what string) string {
	var out []byte
	var err error
	if f.Pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal %s: %s"}`, what, err)
	}
	return string(out)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

// FormatRequest formats a request as a YAML document, verbose mode only
func (f *YAMLFormatter) FormatRequest(req *rest.Request) string {
	if !f.Verbose {
		return ""
	}
	return "---\n" + f.marshal(map[string]interface{}{"request": newRequestData(req)})
}

// FormatEnvelope formats an envelope as a YAML document
func (f *YAMLFormatter) FormatEnvelope(env *rest.Envelope) string {
	doc := f.marshal(map[string]interface{}{"response": newResponseData(env, f.Verbose)})
	if f.Verbose {
		return "---\n" + doc
	}
	return doc
}

func (f *YAMLFormatter) marshal(v interface{}) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: failed to marshal: %s\n", err)
	}
	return string(out)
}

// SortedKeys returns the keys of m in lexical order
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
