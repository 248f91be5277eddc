package jsonapi

import "time"

// Config holds configuration for the JSON collection client.
type Config struct {
	// BaseURL of the collection API.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:9000/api/v1"`
	// Username whose collection is fetched. Falls back to sync.account_b.
	Username string `mapstructure:"username" default:""`
	// Token is sent as a bearer token.
	Token string `mapstructure:"token" default:""`
	// PageSize is the number of items requested per page.
	PageSize int `mapstructure:"page_size" default:"100"`
	// PageDelayMillis spaces consecutive requests.
	PageDelayMillis int `mapstructure:"page_delay_ms" default:"250"`
	// MaxRetries is the number of attempts per page.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryDelaySeconds is the wait between attempts.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" default:"2"`
	// TimeoutSeconds bounds one request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) pageDelay() time.Duration {
	return time.Duration(c.PageDelayMillis) * time.Millisecond
}

func (c Config) retryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}
