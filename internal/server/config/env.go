package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/flagx"
	"github.com/joho/godotenv"
)

// envPrefix namespaces every variable the server reads.
const envPrefix = "DEALER_"

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

// loadDotenv seeds the process environment from a dotenv file. The file named
// by -env must exist; the implicit ".env" is optional. Variables already set
// in the environment are not overridden.
func loadDotenv() {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays DEALER_* environment variables onto config. PORT is also
// honoured for platforms that inject it.
//
// Malformed numeric or duration values panic, like the other loaders.
func parseEnv(config *Config) {
	loadDotenv()

	if port, ok := lookupEnv("PORT"); ok && port != "" {
		config.HTTPAddr = ":" + port
	}

	envString(&config.HTTPAddr, "HTTP_ADDR")
	envString(&config.GRPCHealthAddr, "GRPC_HEALTH_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "TOKEN_TTL")
	envString(&config.StorageBackend, "STORAGE_BACKEND")
	envString(&config.UploadDir, "UPLOAD_DIR")
	envInt64(&config.MaxUploadSize, "MAX_UPLOAD_SIZE")
	envString(&config.PublicBaseURL, "PUBLIC_BASE_URL")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.RedisAddr, "REDIS_ADDR")
	envString(&config.RedisPassword, "REDIS_PASSWORD")

	redisDB := int64(config.RedisDB)
	envInt64(&redisDB, "REDIS_DB")
	config.RedisDB = int(redisDB)

	envDuration(&config.IdempotencyTTL, "IDEMPOTENCY_TTL")
	envString(&config.FrontendURL, "FRONTEND_URL")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.LogFormat, "LOG_FORMAT")
}

func envString(dst *string, name string) {
	if v, ok := lookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envInt64(dst *int64, name string) {
	v, ok := lookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envDuration(dst *time.Duration, name string) {
	v, ok := lookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
