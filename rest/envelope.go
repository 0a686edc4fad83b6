package rest

import (
	"encoding/json"
	"strings"
)

// Envelope is the normalized response returned by a verb call. It carries
// no structured header access: Headers is a printable dump of the full
// header set, one "Key: value" line per value, keys sorted.
type Envelope struct {
	StatusCode int
	Body       string
	Headers    string
	Timing     TimingInfo
}

// NewEnvelope wraps a raw transport response. The body is not inspected.
func NewEnvelope(raw *RawResponse) *Envelope {
	var headers strings.Builder
	if raw.Header != nil {
		// Writing to a strings.Builder cannot fail.
		_ = raw.Header.Write(&headers)
	}

	return &Envelope{
		StatusCode: raw.StatusCode,
		Body:       string(raw.Body),
		Headers:    headers.String(),
		Timing:     raw.Timing,
	}
}

// JSON unmarshals the body into v.
func (e *Envelope) JSON(v interface{}) error {
	return json.Unmarshal([]byte(e.Body), v)
}

// IsSuccess returns true if the status code is in the 2xx range
func (e *Envelope) IsSuccess() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

// IsRedirect returns true if the status code is in the 3xx range
func (e *Envelope) IsRedirect() bool {
	return e.StatusCode >= 300 && e.StatusCode < 400
}

// IsClientError returns true if the status code is in the 4xx range
func (e *Envelope) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError returns true if the status code is in the 5xx range
func (e *Envelope) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}
