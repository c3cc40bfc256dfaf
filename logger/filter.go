package logger

import (
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaskValue replaces sensitive values in log output
const DefaultMaskValue = "***"

// FilterConfig defines which field and header names are treated as sensitive
type FilterConfig struct {
	// SensitiveFields contains case-insensitive substrings of sensitive names
	SensitiveFields []string
	// MaskValue replaces sensitive data (default: "***")
	MaskValue string
}

// DefaultFilterConfig returns the names that carry credentials in outbound HTTP traffic
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "api_key", "api-key", "apikey",
			"token", "authorization", "proxy-authorization",
			"cookie", "credential",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks sensitive values before they reach a log event
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a new filter; nil selects DefaultFilterConfig
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks value when key is sensitive. URLs under any key keep
// their structure but lose embedded passwords.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if value == "" {
		return value
	}
	if f.isSensitive(key) {
		if isURL(value) {
			return f.maskURL(value)
		}
		return f.config.MaskValue
	}
	if isURL(value) {
		return f.maskURL(value)
	}
	return value
}

// FilterValue masks value when key is sensitive and descends one level into
// string maps and headers. Other values pass through unchanged.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if value == nil {
		return nil
	}
	if f.isSensitive(key) {
		return f.config.MaskValue
	}

	switch v := value.(type) {
	case string:
		return f.FilterString(key, v)
	case http.Header:
		return f.filterHeader(v)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = f.FilterString(k, s)
		}
		return out
	case map[string][]string:
		return map[string][]string(f.filterHeader(http.Header(v)))
	case map[string]any:
		return f.FilterFields(v)
	default:
		return value
	}
}

// FilterFields filters every entry of a field map
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

func (f *SensitiveDataFilter) filterHeader(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for name, values := range h {
		if f.isSensitive(name) {
			out[name] = []string{f.config.MaskValue}
			continue
		}
		out[name] = values
	}
	return out
}

func (f *SensitiveDataFilter) isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range f.config.SensitiveFields {
		if strings.Contains(lower, strings.ToLower(field)) {
			return true
		}
	}
	return false
}

func isURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// maskURL masks the password of a URL's user info and the values of
// sensitive query parameters, keeping everything else as written
func (f *SensitiveDataFilter) maskURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return f.config.MaskValue
	}

	userMasked := false
	if parsed.User != nil {
		_, userMasked = parsed.User.Password()
	}
	query, queryMasked := f.maskQuery(parsed.RawQuery)
	if !userMasked && !queryMasked {
		return raw
	}

	var b strings.Builder
	b.WriteString(parsed.Scheme)
	b.WriteString("://")
	if parsed.User != nil {
		if userMasked {
			b.WriteString(parsed.User.Username())
			b.WriteByte(':')
			b.WriteString(f.config.MaskValue)
		} else {
			b.WriteString(parsed.User.String())
		}
		b.WriteByte('@')
	}
	b.WriteString(parsed.Host)
	b.WriteString(parsed.EscapedPath())
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	if parsed.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(parsed.Fragment)
	}
	return b.String()
}

// maskQuery replaces the values of sensitive parameters in a raw query,
// preserving parameter order and encoding
func (f *SensitiveDataFilter) maskQuery(rawQuery string) (string, bool) {
	if rawQuery == "" {
		return rawQuery, false
	}
	params := strings.Split(rawQuery, "&")
	masked := false
	for i, param := range params {
		rawKey, _, hasValue := strings.Cut(param, "=")
		if !hasValue {
			continue
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		if f.isSensitive(key) {
			params[i] = rawKey + "=" + f.config.MaskValue
			masked = true
		}
	}
	return strings.Join(params, "&"), masked
}
