package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fatih/color"

	"github.com/wesleyorama2/restchain/rest"
)

// TextFormatter renders requests and envelopes for a human reader
type TextFormatter struct {
	Verbose bool
	NoColor bool
	colors  *ColorScheme
}

// NewTextFormatter creates a text formatter with the given options
func NewTextFormatter(verbose, noColor bool) *TextFormatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &TextFormatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatRequest formats an assembled request for display
func (f *TextFormatter) FormatRequest(req *rest.Request) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.colors.Method.Sprint(req.Method),
		f.colors.URL.Sprint(req.URL.String())))

	if f.Verbose || len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range SortedKeys(req.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), req.Headers[key]))
		}
	}

	if req.Body != nil {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(string(req.Body)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatEnvelope formats a response envelope for display
func (f *TextFormatter) FormatEnvelope(env *rest.Envelope) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		f.statusColor(env).Sprint(statusLine(env.StatusCode)),
		env.Timing.TotalTime.Milliseconds()))

	if f.Verbose {
		buf.WriteString(f.colors.Label.Sprint("  Timing:") + "\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %dms\n", env.Timing.DNSLookupTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", env.Timing.TCPConnectTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %dms\n", env.Timing.TLSHandshakeTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", env.Timing.TimeToFirstByte.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %dms\n", env.Timing.ContentTransferTime.Milliseconds()))

		buf.WriteString(f.colors.Label.Sprint("  Headers:") + "\n")
		for _, line := range strings.Split(strings.TrimRight(env.Headers, "\r\n"), "\r\n") {
			if line != "" {
				buf.WriteString("    " + line + "\n")
			}
		}
	}

	if env.Body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(env.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

func (f *TextFormatter) statusColor(env *rest.Envelope) *color.Color {
	switch {
	case env.IsSuccess():
		return f.colors.StatusOK
	case env.IsRedirect():
		return f.colors.StatusWarn
	default:
		return f.colors.StatusError
	}
}

func statusLine(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, []byte(s), "  ", "  "); err != nil {
		return s
	}
	return prettyJSON.String()
}
