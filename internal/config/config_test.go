package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"partysync"}, args...)
}

func TestLoadDefaults(t *testing.T) {
	setArgs(t)

	cfg := LoadConfig()

	require.Equal(t, "", cfg.BackendURL)
	require.Equal(t, ".", cfg.DataDir)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Equal(t, "us-east-1", cfg.Storage.Region)
	require.Equal(t, "avatars", cfg.Storage.Bucket)

	// Without a backend URL there is nothing to derive.
	require.Equal(t, "", cfg.Storage.Endpoint)
	require.Equal(t, "", cfg.Storage.PublicURL)
}

func TestEnvOverrides(t *testing.T) {
	setArgs(t)
	t.Setenv("PARTYSYNC_BACKEND_URL", "https://proj.backend.test")
	t.Setenv("PARTYSYNC_ANON_KEY", "anon-123")
	t.Setenv("PARTYSYNC_DATA_DIR", "/var/lib/partysync")
	t.Setenv("PARTYSYNC_REQUEST_TIMEOUT", "30s")
	t.Setenv("PARTYSYNC_STORAGE_BUCKET", "pictures")

	cfg := LoadConfig()

	require.Equal(t, "https://proj.backend.test", cfg.BackendURL)
	require.Equal(t, "anon-123", cfg.AnonKey)
	require.Equal(t, "/var/lib/partysync", cfg.DataDir)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "pictures", cfg.Storage.Bucket)
}

func TestJSONOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"backend_url": "https://json.backend.test",
		"anon_key": "anon-json",
		"request_timeout": "45s",
		"storage": {
			"access_key": "ak",
			"secret_key": "sk"
		}
	}`), 0o600))

	setArgs(t, "-c", path)

	cfg := LoadConfig()

	require.Equal(t, "https://json.backend.test", cfg.BackendURL)
	require.Equal(t, "anon-json", cfg.AnonKey)
	require.Equal(t, 45*time.Second, cfg.RequestTimeout)
	require.Equal(t, "ak", cfg.Storage.AccessKey)
	require.Equal(t, "sk", cfg.Storage.SecretKey)

	// Fields absent from the file keep their defaults.
	require.Equal(t, ".", cfg.DataDir)
	require.Equal(t, "avatars", cfg.Storage.Bucket)
}

func TestFlagOverrides(t *testing.T) {
	setArgs(t, "-b", "https://flag.backend.test", "-k", "anon-flag", "-d", "/tmp/ps", "-t", "5")

	cfg := LoadConfig()

	require.Equal(t, "https://flag.backend.test", cfg.BackendURL)
	require.Equal(t, "anon-flag", cfg.AnonKey)
	require.Equal(t, "/tmp/ps", cfg.DataDir)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestFlagsWinOverEnv(t *testing.T) {
	setArgs(t, "-b", "https://flag.backend.test")
	t.Setenv("PARTYSYNC_BACKEND_URL", "https://env.backend.test")

	cfg := LoadConfig()

	require.Equal(t, "https://flag.backend.test", cfg.BackendURL)
}

func TestDerivedStorageURLs(t *testing.T) {
	setArgs(t)
	t.Setenv("PARTYSYNC_BACKEND_URL", "https://proj.backend.test/")

	cfg := LoadConfig()

	require.Equal(t, "https://proj.backend.test/storage/v1/s3", cfg.Storage.Endpoint)
	require.Equal(t, "https://proj.backend.test/storage/v1/object/public/avatars", cfg.Storage.PublicURL)
}

func TestExplicitStorageURLsAreKept(t *testing.T) {
	setArgs(t)
	t.Setenv("PARTYSYNC_BACKEND_URL", "https://proj.backend.test")
	t.Setenv("PARTYSYNC_STORAGE_ENDPOINT", "https://cdn.test/s3")
	t.Setenv("PARTYSYNC_STORAGE_PUBLIC_URL", "https://cdn.test/public")

	cfg := LoadConfig()

	require.Equal(t, "https://cdn.test/s3", cfg.Storage.Endpoint)
	require.Equal(t, "https://cdn.test/public", cfg.Storage.PublicURL)
}
