package config

import (
	"reflect"
	"strings"

	"boardgame-sync/core/database"
	"boardgame-sync/core/logger"
	"boardgame-sync/core/reconcile"
	"boardgame-sync/core/server"
	"boardgame-sync/core/storage"
	"boardgame-sync/feature/matcher"
	"boardgame-sync/feature/sources/bgg"
	"boardgame-sync/feature/sources/jsonapi"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the match store connection.
	Database database.Config `mapstructure:"database"`
	// Sync holds the account pair and run settings of the reconciliation engine.
	Sync reconcile.Config `mapstructure:"sync"`
	// Matcher holds configuration for the fuzzy match gateway.
	Matcher matcher.Config `mapstructure:"matcher"`
	// BGG holds configuration for the SourceA collection client.
	BGG bgg.Config `mapstructure:"bgg"`
	// JSONAPI holds configuration for the SourceB collection client.
	JSONAPI jsonapi.Config `mapstructure:"jsonapi"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_ACCOUNT_A -> sync.account_a)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
