package config

import (
	"encoding/json"
	"os"

	"github.com/partysync/partysync-cli/internal/flagx"
	"github.com/partysync/partysync-cli/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the timeout can be written either as a string like
// "15s" or as integer nanoseconds. Empty fields leave the current value.
type jsonConfig struct {
	BackendURL     string         `json:"backend_url"`
	AnonKey        string         `json:"anon_key"`
	DataDir        string         `json:"data_dir"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	Storage        struct {
		Endpoint  string `json:"endpoint"`
		Region    string `json:"region"`
		Bucket    string `json:"bucket"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
		PublicURL string `json:"public_url"`
	} `json:"storage"`
}

// parseJSON overlays Config with values from the file named by -c/-config.
// No flag means no JSON layer. Read or unmarshal errors panic; startup has
// nothing sensible to continue with.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIfNotEmpty(&cfg.BackendURL, jc.BackendURL)
	setIfNotEmpty(&cfg.AnonKey, jc.AnonKey)
	setIfNotEmpty(&cfg.DataDir, jc.DataDir)
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setIfNotEmpty(&cfg.Storage.Endpoint, jc.Storage.Endpoint)
	setIfNotEmpty(&cfg.Storage.Region, jc.Storage.Region)
	setIfNotEmpty(&cfg.Storage.Bucket, jc.Storage.Bucket)
	setIfNotEmpty(&cfg.Storage.AccessKey, jc.Storage.AccessKey)
	setIfNotEmpty(&cfg.Storage.SecretKey, jc.Storage.SecretKey)
	setIfNotEmpty(&cfg.Storage.PublicURL, jc.Storage.PublicURL)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
