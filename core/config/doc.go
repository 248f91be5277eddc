// Package config provides configuration management for boardgame-sync.
//
// Values come from the environment, optionally seeded from a .env file. Every
// key has a default declared through the `default` struct tag of its section.
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Database: match store driver (sqlite or mysql) and connection details
//   - Storage: MinIO credentials and bucket for audit logs and snapshot archives
//   - Log: level and format
//   - Sync: account pair, fetch timeout, snapshot cache TTL, review mode
//   - Matcher: fuzzy matcher endpoint, model and prompt bounds
//   - BGG, JSONAPI: collection source endpoints and retry policy
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.AccountA)
package config
