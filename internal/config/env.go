package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with PARTYSYNC_-prefixed environment variables
// according to the struct tags, e.g. PARTYSYNC_BACKEND_URL or
// PARTYSYNC_STORAGE_BUCKET.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "PARTYSYNC_"}); err != nil {
		panic(err)
	}
}
