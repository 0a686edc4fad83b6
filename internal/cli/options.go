package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/restchain/internal/config"
	"github.com/wesleyorama2/restchain/internal/output"
	"github.com/wesleyorama2/restchain/rest"
)

// requestOptions is the flag set of a verb command after the profile file,
// if any, has been applied.
type requestOptions struct {
	host      string
	version   string
	headers   map[string]string
	query     rest.Query
	body      json.RawMessage
	insecure  bool
	encodeURL bool
	timeout   time.Duration
	format    output.OutputFormat
	extract   string
	verbose   bool
	noColor   bool
	debug     bool
}

func readOptions(cmd *cobra.Command) (*requestOptions, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	envName, _ := flags.GetString("env")
	host, _ := flags.GetString("host")
	apiVersion, _ := flags.GetString("api-version")
	headers, _ := flags.GetStringArray("header")
	query, _ := flags.GetStringArray("query")
	body, _ := flags.GetString("json")
	insecure, _ := flags.GetBool("insecure")
	encodeURL, _ := flags.GetBool("encode-url")
	timeout, _ := flags.GetDuration("timeout")
	format, _ := flags.GetString("output")
	extract, _ := flags.GetString("extract")
	verbose, _ := flags.GetBool("verbose")
	noColor, _ := flags.GetBool("no-color")
	debug, _ := flags.GetBool("debug")

	opts := &requestOptions{
		headers:   make(map[string]string),
		insecure:  insecure,
		encodeURL: encodeURL,
		timeout:   timeout,
		extract:   extract,
		verbose:   verbose,
		noColor:   noColor || !writesToTerminal(cmd.OutOrStdout()),
		debug:     debug,
	}

	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		env, err := cfg.Environment(envName)
		if err != nil {
			return nil, err
		}
		opts.host = env.Host
		opts.version = env.Version
		opts.insecure = opts.insecure || env.Insecure
		opts.encodeURL = opts.encodeURL || env.EncodeURL
		for key, value := range env.Headers {
			opts.headers[key] = value
		}
		if !flags.Changed("timeout") {
			if opts.timeout, err = env.TimeoutDuration(timeout); err != nil {
				return nil, err
			}
		}
	} else if envName != "" {
		return nil, fmt.Errorf("--env requires --config")
	}

	if host != "" {
		opts.host = host
	}
	if opts.host == "" {
		return nil, fmt.Errorf("a host is required, pass --host or --config")
	}
	if apiVersion != "" {
		opts.version = apiVersion
	}

	parsedHeaders, err := parseHeaders(headers)
	if err != nil {
		return nil, err
	}
	for key, value := range parsedHeaders {
		opts.headers[key] = value
	}

	if opts.query, err = parseQuery(query); err != nil {
		return nil, err
	}
	if opts.body, err = readBody(body); err != nil {
		return nil, err
	}
	if opts.format, err = output.ParseFormat(format); err != nil {
		return nil, err
	}

	return opts, nil
}

// builder creates the root builder for these options. Tracing goes to logOut.
func (o *requestOptions) builder(logOut io.Writer) *rest.Builder {
	logger := logrus.New()
	logger.SetOutput(logOut)
	logger.SetLevel(logrus.WarnLevel)
	if o.debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	transportOpts := []rest.TransportOption{rest.WithTimeout(o.timeout)}
	if o.insecure {
		transportOpts = append(transportOpts, rest.WithInsecureSkipVerify())
	}

	options := []rest.Option{
		rest.WithHeaders(o.headers),
		rest.WithTransport(rest.NewHTTPTransport(transportOpts...)),
		rest.WithLogger(logger),
	}
	if o.version != "" {
		options = append(options, rest.WithVersion(o.version))
	}
	if o.encodeURL {
		options = append(options, rest.WithEncodedURL())
	}

	return rest.New(o.host, options...)
}

// call returns the per-request options for the verb call.
func (o *requestOptions) call() rest.Call {
	call := rest.Call{QueryParams: o.query}
	if o.body != nil {
		call.RequestBody = o.body
	}
	return call
}

// parseHeaders parses "Name: value" flags
func parseHeaders(headers []string) (map[string]string, error) {
	result := make(map[string]string, len(headers))
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", header)
		}
		result[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return result, nil
}

// parseQuery parses key=value flags, keeping their order
func parseQuery(params []string) (rest.Query, error) {
	if len(params) == 0 {
		return nil, nil
	}
	query := make(rest.Query, 0, len(params))
	for _, param := range params {
		key, value, _ := strings.Cut(param, "=")
		if key == "" {
			return nil, fmt.Errorf("invalid query parameter %q, expected key=value", param)
		}
		query = query.Add(key, value)
	}
	return query, nil
}

// readBody validates the --json flag, reading the file when it starts with @
func readBody(body string) (json.RawMessage, error) {
	if body == "" {
		return nil, nil
	}
	data := []byte(body)
	if strings.HasPrefix(body, "@") {
		var err error
		if data, err = os.ReadFile(strings.TrimPrefix(body, "@")); err != nil {
			return nil, fmt.Errorf("error reading body file: %w", err)
		}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// splitSegments turns positional arguments into path segments, splitting
// slash-separated arguments.
func splitSegments(args []string) []string {
	var segments []string
	for _, arg := range args {
		for _, s := range strings.Split(arg, "/") {
			if s != "" {
				segments = append(segments, s)
			}
		}
	}
	return segments
}

func writesToTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && output.IsTerminal(f)
}
