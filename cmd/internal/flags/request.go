package flags

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Output formats accepted by --output.
const (
	OutputBody    = "body"
	OutputSummary = "summary"
)

// Request holds per-request flags.
type Request struct {
	Method        string
	Headers       []string
	Data          string
	User          string
	Timeout       time.Duration
	TraceIDHeader string
	NoW3CTrace    bool
	LogPayloads   bool
	Output        string
}

func NewRequest() *Request {
	return &Request{}
}

func (f *Request) NewFlagSet() *pflag.FlagSet {
	flagSet := &pflag.FlagSet{}

	flagSet.StringVarP(&f.Method, "method", "X",
		http.MethodGet,
		"HTTP method.")
	flagSet.StringArrayVarP(&f.Headers, "header", "H",
		nil,
		"Request header as 'Name: value'. Repeatable.")
	flagSet.StringVarP(&f.Data, "data", "d",
		"",
		"Request body. Prefix with @ to read it from a file.")
	flagSet.StringVarP(&f.User, "user", "u",
		"",
		"Basic auth credentials as user:password.")
	flagSet.DurationVar(&f.Timeout, "timeout",
		30*time.Second,
		"Timeout of a single attempt.")
	flagSet.StringVar(&f.TraceIDHeader, "trace-header",
		"X-Request-ID",
		"Header carrying the per-call trace id.")
	flagSet.BoolVar(&f.NoW3CTrace, "no-w3c-trace",
		false,
		"Do not send W3C traceparent headers.")
	flagSet.BoolVar(&f.LogPayloads, "log-payloads",
		false,
		"Log request and response bodies at debug level.")
	flagSet.StringVarP(&f.Output, "output", "o",
		OutputBody,
		"Output format: body, summary.")

	return flagSet
}

// Overrides adds the configuration keys of explicitly set flags to out.
func (f *Request) Overrides(fs *pflag.FlagSet, out map[string]any) {
	if fs.Changed("timeout") {
		out["client.timeout"] = f.Timeout
	}
	if fs.Changed("trace-header") {
		out["client.traceidheader"] = f.TraceIDHeader
	}
	if fs.Changed("no-w3c-trace") {
		out["client.w3ctrace"] = !f.NoW3CTrace
	}
	if fs.Changed("log-payloads") {
		out["client.logpayloads"] = f.LogPayloads
	}
}

// ParseHeaders converts 'Name: value' pairs into a map.
func (f *Request) ParseHeaders() (map[string]string, error) {
	if len(f.Headers) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(f.Headers))
	for _, h := range f.Headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: expected 'Name: value'", h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// Body returns the request body, reading it from a file for @path values.
func (f *Request) Body() ([]byte, error) {
	if f.Data == "" {
		return nil, nil
	}
	if path, ok := strings.CutPrefix(f.Data, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		return data, nil
	}
	return []byte(f.Data), nil
}

// Credentials splits --user into username and password.
func (f *Request) Credentials() (username, password string, ok bool) {
	if f.User == "" {
		return "", "", false
	}
	username, password, _ = strings.Cut(f.User, ":")
	return username, password, true
}

// ValidateOutput rejects unknown --output values.
func (f *Request) ValidateOutput() error {
	switch f.Output {
	case OutputBody, OutputSummary:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be one of %s, %s", f.Output, OutputBody, OutputSummary)
	}
}
