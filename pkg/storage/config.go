package storage

import "time"

// Attachment backend types
const (
	BackendFilesystem = "filesystem"
	BackendS3         = "s3"
)

// DefaultMaxFileSize caps attachment uploads (2 MiB)
const DefaultMaxFileSize = 2 * 1024 * 1024

// Config holds storage configuration
type Config struct {
	// PostgreSQL
	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration

	// Redis cache
	CacheEnabled    bool
	RedisURL        string
	RedisPassword   string
	RedisDB         int
	RedisMaxRetries int
	RedisPoolSize   int
	CacheTTL        time.Duration

	// Attachments
	AttachmentBackend string
	FilesystemRoot    string
	MaxFileSize       int64

	// S3 (used when AttachmentBackend == "s3"; MinIO-compatible)
	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
}

// DefaultConfig returns sensible defaults for local development
func DefaultConfig() Config {
	return Config{
		PostgresURL:       "postgres://localhost/taskhub?sslmode=disable",
		PostgresMaxConns:  25,
		PostgresMinConns:  5,
		PostgresTimeout:   10 * time.Second,
		CacheEnabled:      false,
		RedisURL:          "redis://localhost:6379",
		RedisDB:           0,
		RedisMaxRetries:   3,
		RedisPoolSize:     10,
		CacheTTL:          time.Hour,
		AttachmentBackend: BackendFilesystem,
		FilesystemRoot:    "/var/lib/taskhub/attachments",
		MaxFileSize:       DefaultMaxFileSize,
		S3Region:          "us-east-1",
	}
}
