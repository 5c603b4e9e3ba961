// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings. The only required variable is
// TASKHUB_SIGNING_KEY.
//
// # Configuration Structure
//
// Server settings:
//
//	TASKHUB_HOST="0.0.0.0"
//	TASKHUB_PORT="8080"
//	TASKHUB_HEALTH_PORT="9090"
//	TASKHUB_READ_TIMEOUT="15s"
//	TASKHUB_WRITE_TIMEOUT="15s"
//
// Auth settings:
//
//	TASKHUB_SIGNING_KEY="..."           # required, HMAC secret for access tokens
//	TASKHUB_SIGNING_ALGORITHM="HS256"   # only HS256 is accepted
//	TASKHUB_TOKEN_TTL_MINUTES="30"
//
// Storage settings:
//
//	TASKHUB_POSTGRES_URL="postgres://localhost/taskhub"
//	TASKHUB_POSTGRES_MAX_CONNS="25"
//	TASKHUB_ATTACHMENT_BACKEND="filesystem"  # filesystem or s3
//	TASKHUB_FILESYSTEM_ROOT="/var/lib/taskhub/attachments"
//	TASKHUB_MAX_FILE_SIZE="2097152"
//	TASKHUB_S3_ENDPOINT="http://localhost:9000"
//	TASKHUB_S3_BUCKET="taskhub-attachments"
//
// Cache settings:
//
//	TASKHUB_CACHE_ENABLED="true"
//	TASKHUB_REDIS_URL="redis://localhost:6379"
//	TASKHUB_CACHE_TTL="1h"
//
// Observability settings:
//
//	TASKHUB_LOG_LEVEL="info"  # debug, info, warn, error
//	TASKHUB_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/storage: Uses storage configuration
//   - pkg/observability: Uses observability configuration
package config
