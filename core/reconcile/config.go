package reconcile

import "time"

// Config holds the settings of a reconciliation run.
type Config struct {
	// AccountA is the account on the first provider.
	AccountA string `mapstructure:"account_a" default:""`
	// AccountB is the account on the second provider.
	AccountB string `mapstructure:"account_b" default:""`
	// FetchTimeoutSeconds bounds each collection fetch.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"120"`
	// CacheTTLSeconds keeps fetched snapshots in memory. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"0"`
	// Review returns fuzzy candidates for review instead of committing them.
	Review bool `mapstructure:"review" default:"false"`
}

// Scope returns the account pair of the configuration.
func (c Config) Scope() Scope {
	return Scope{AccountA: c.AccountA, AccountB: c.AccountB}
}

// FetchTimeout returns the per-source fetch timeout.
func (c Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CacheTTL returns the snapshot cache time-to-live.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
