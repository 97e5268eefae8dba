package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "CYBERSPACE_"

// parseEnv overlays CYBERSPACE_* environment variables onto config.
//
// A dotenv file named by -env-file (or ./.env when present) is loaded first;
// variables already set in the process environment are not overridden by it.
// Malformed numeric or duration values panic, like the other loaders.
func parseEnv(config *Config) {
	envFile := flagx.EnvFileFlags()
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				panic(err)
			}
			*dst = n
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("HTTP_ADDR", &config.EndpointAddrHTTP)
	str("GRPC_ADDR", &config.EndpointAddrGRPC)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	dur("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	dur("OTP_TTL", &config.OTPValidityDuration)

	str("STORAGE_BACKEND", &config.StorageBackend)
	str("UPLOAD_DIR", &config.UploadDir)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	str("SMTP_HOST", &config.SMTPHost)
	num("SMTP_PORT", &config.SMTPPort)
	str("SMTP_USERNAME", &config.SMTPUsername)
	str("SMTP_PASSWORD", &config.SMTPPassword)
	str("SMTP_FROM", &config.SMTPFrom)

	str("REDIS_ADDR", &config.RedisAddr)
	num("RESET_RATE_LIMIT", &config.ResetRateLimit)
	dur("RESET_RATE_WINDOW", &config.ResetRateWindow)

	if v, ok := os.LookupEnv(envPrefix + "CORS_ORIGINS"); ok {
		config.CORSOrigins = splitList(v)
	}
	str("ENV", &config.Env)
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
