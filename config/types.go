package config

import (
	"time"
)

// Config is the complete retrier configuration. Keys are lowercase with no
// separators inside a section, e.g. retry.maxretries or client.traceidheader.
type Config struct {
	Retry  RetryConfig  `koanf:"retry" json:"retry" yaml:"retry"`
	Client ClientConfig `koanf:"client" json:"client" yaml:"client"`
	Log    LogConfig    `koanf:"log" json:"log" yaml:"log"`
	Batch  BatchConfig  `koanf:"batch" json:"batch" yaml:"batch"`
}

// RetryConfig holds the backoff policy applied to every logical call.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt. Default: 3.
	MaxRetries int `koanf:"maxretries" json:"maxretries" yaml:"maxretries" validate:"gte=0,lte=100"`
	// InitialDelay is the wait before the first retry. Default: 300ms.
	InitialDelay time.Duration `koanf:"initialdelay" json:"initialdelay" yaml:"initialdelay" validate:"gte=0"`
	// Multiplier grows the wait between retries. Default: 2.
	Multiplier float64 `koanf:"multiplier" json:"multiplier" yaml:"multiplier" validate:"gte=1"`
	// MaxDelay caps the wait. Default: 0, growth is unbounded.
	MaxDelay time.Duration `koanf:"maxdelay" json:"maxdelay" yaml:"maxdelay" validate:"gte=0"`
	// StatusCodes is the retryable HTTP status allow-list.
	StatusCodes []int `koanf:"statuscodes" json:"statuscodes" yaml:"statuscodes" validate:"omitempty,dive,gte=400,lte=599"`
}

// ClientConfig holds HTTP client settings.
type ClientConfig struct {
	// Timeout bounds a single attempt.
	Timeout            time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" validate:"gt=0"`
	LogPayloads        bool          `koanf:"logpayloads" json:"logpayloads" yaml:"logpayloads"`
	MaxPayloadLogBytes int           `koanf:"maxpayloadlogbytes" json:"maxpayloadlogbytes" yaml:"maxpayloadlogbytes" validate:"gte=0"`
	TraceIDHeader      string        `koanf:"traceidheader" json:"traceidheader" yaml:"traceidheader" validate:"required"`
	W3CTrace           bool          `koanf:"w3ctrace" json:"w3ctrace" yaml:"w3ctrace"`
	UserAgent          string        `koanf:"useragent" json:"useragent" yaml:"useragent"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// BatchConfig controls multi-URL fetches. Each URL is an independent retry sequence.
type BatchConfig struct {
	// Concurrency bounds the number of sequences in flight.
	Concurrency int `koanf:"concurrency" json:"concurrency" yaml:"concurrency" validate:"gte=1,lte=256"`
	// RateLimit paces sequence starts in sequences per second; 0 disables pacing.
	RateLimit float64 `koanf:"ratelimit" json:"ratelimit" yaml:"ratelimit" validate:"gte=0"`
	// Burst is the number of starts allowed at once when RateLimit is set.
	Burst int `koanf:"burst" json:"burst" yaml:"burst" validate:"gte=1"`
}
