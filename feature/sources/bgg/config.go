package bgg

import "time"

// Config holds configuration for the XML collection client.
type Config struct {
	// BaseURL of the XML API.
	BaseURL string `mapstructure:"base_url" default:"https://boardgamegeek.com/xmlapi2"`
	// Username whose collection is fetched. Falls back to sync.account_a.
	Username string `mapstructure:"username" default:""`
	// Token is sent as a bearer token when set.
	Token string `mapstructure:"token" default:""`
	// PageSize is the number of items requested per page.
	PageSize int `mapstructure:"page_size" default:"100"`
	// PageDelayMillis spaces consecutive requests.
	PageDelayMillis int `mapstructure:"page_delay_ms" default:"2000"`
	// MaxRetries is the number of attempts per page.
	MaxRetries int `mapstructure:"max_retries" default:"5"`
	// RetryDelaySeconds is the wait between attempts, also used while the
	// collection is still being prepared upstream.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" default:"5"`
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
