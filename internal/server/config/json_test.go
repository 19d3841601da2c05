package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"http_addr":                      "www.example:9000",
		"database_dsn":                   "postgres://json",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "1m",
		"storage_backend":                "s3",
		"max_upload_size":                2048,
		"s3_bucket":                      "bucket",
		"redis_db":                       2,
		"idempotency_ttl":                int64(5 * time.Second),
	})

	t.Run("loads from json", func(t *testing.T) {
		withArgs(t, "-config", pathFlag)

		cfg := defaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, StorageS3, cfg.StorageBackend)
		assert.Equal(t, int64(2048), cfg.MaxUploadSize)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.Equal(t, 5*time.Second, cfg.IdempotencyTTL)
		// absent keys keep their previous value
		assert.Equal(t, ":50051", cfg.GRPCHealthAddr)
		assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	})

	t.Run("no config flag leaves config unchanged", func(t *testing.T) {
		withArgs(t)

		cfg := defaults()
		parseJson(cfg)

		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		withArgs(t, "-c", bad)
		require.Panics(t, func() { parseJson(defaults()) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(dir, "nope.json"))
		require.Panics(t, func() { parseJson(defaults()) })
	})
}
