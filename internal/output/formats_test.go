package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected OutputFormat
		wantErr  bool
	}{
		{input: "", expected: FormatText},
		{input: "TEXT", expected: FormatText},
		{input: "json", expected: FormatJSON},
		{input: "yml", expected: FormatYAML},
		{input: "yaml", expected: FormatYAML},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}
}

func TestGetFormatter(t *testing.T) {
	assert.IsType(t, &TextFormatter{}, GetFormatter(FormatText, false, true))
	assert.IsType(t, &JSONFormatter{}, GetFormatter(FormatJSON, false, true))
	assert.IsType(t, &YAMLFormatter{}, GetFormatter(FormatYAML, false, true))
	assert.IsType(t, &TextFormatter{}, GetFormatter("bogus", false, true))
}

func TestJSONFormatter(t *testing.T) {
	quiet := &JSONFormatter{Pretty: true}
	assert.Empty(t, quiet.FormatRequest(testRequest(t)))

	var resp ResponseData
	require.NoError(t, json.Unmarshal([]byte(quiet.FormatEnvelope(testEnvelope())), &resp))
	assert.Equal(t, 202, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"id": "abc"}, resp.Body)
	assert.Empty(t, resp.Headers)
	assert.Nil(t, resp.Timing)

	verbose := &JSONFormatter{Verbose: true}
	var req RequestData
	require.NoError(t, json.Unmarshal([]byte(verbose.FormatRequest(testRequest(t))), &req))
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://api.example.com/v3/mail/send?dry=true", req.URL)
	assert.Equal(t, map[string]interface{}{"personalizations": []interface{}{}}, req.Body)

	resp = ResponseData{}
	require.NoError(t, json.Unmarshal([]byte(verbose.FormatEnvelope(testEnvelope())), &resp))
	assert.Contains(t, resp.Headers, "X-Message-Id: 42")
	require.NotNil(t, resp.Timing)
	assert.Equal(t, int64(150), resp.Timing.Total)
	assert.Equal(t, int64(10), resp.Timing.DNSLookup)
}

func TestYAMLFormatter(t *testing.T) {
	formatter := &YAMLFormatter{}
	assert.Empty(t, formatter.FormatRequest(testRequest(t)))

	var doc struct {
		Response struct {
			StatusCode int                    `yaml:"statusCode"`
			Body       map[string]interface{} `yaml:"body"`
		} `yaml:"response"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(formatter.FormatEnvelope(testEnvelope())), &doc))
	assert.Equal(t, 202, doc.Response.StatusCode)
	assert.Equal(t, "abc", doc.Response.Body["id"])

	verbose := &YAMLFormatter{Verbose: true}
	assert.Contains(t, verbose.FormatRequest(testRequest(t)), "method: POST")
}

func TestDecodeBody(t *testing.T) {
	assert.Nil(t, decodeBody(""))
	assert.Equal(t, "plain", decodeBody("plain"))
	assert.Equal(t, []interface{}{1.0, 2.0}, decodeBody("[1,2]"))
}
