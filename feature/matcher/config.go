package matcher

import "time"

// Config holds configuration for the fuzzy match gateway.
type Config struct {
	// Enabled turns on fuzzy matching of the residuals.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// ApiKey authenticates against the completion endpoint.
	ApiKey string `mapstructure:"api_key" default:""`
	// BaseURL of an OpenAI compatible API.
	BaseURL string `mapstructure:"base_url" default:"https://api.openai.com/v1"`
	// Model is the chat model asked for matches.
	Model string `mapstructure:"model" default:"gpt-4o-mini"`
	// MaxNames bounds the names sent per side.
	MaxNames int `mapstructure:"max_names" default:"150"`
	// TimeoutSeconds bounds one matcher exchange, retries included.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// MaxRetries is the number of completion attempts.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryDelayMillis is the first delay between attempts; later delays grow.
	RetryDelayMillis int `mapstructure:"retry_delay_ms" default:"1000"`
	// Temperature of the completion.
	Temperature float32 `mapstructure:"temperature" default:"0"`
}

// Timeout returns the exchange timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) maxNames() int {
	if c.MaxNames <= 0 {
		return 150
	}
	return c.MaxNames
}

func (c Config) retryDelay() time.Duration {
	if c.RetryDelayMillis <= 0 {
		return time.Second
	}
	return time.Duration(c.RetryDelayMillis) * time.Millisecond
}

func (c Config) maxTries() uint {
	if c.MaxRetries <= 0 {
		return 1
	}
	return uint(c.MaxRetries)
}
