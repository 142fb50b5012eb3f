// Package config loads server configuration from SLMW_-prefixed
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr    string // SLMW_HTTP_ADDR (default ":3001")
	Environment string // SLMW_ENVIRONMENT (default "development")
	DatabaseURL string // SLMW_DATABASE_URL (optional, empty = in-memory store)
	NATSURL     string // SLMW_NATS_URL (optional, empty = no event bus)
	AuthToken   string // SLMW_AUTH_TOKEN (optional, empty = auth disabled)

	// HTTP boundary settings
	CORSOrigins []string // SLMW_CORS_ORIGINS (comma-separated; default "*")
	RateLimit   float64  // SLMW_RATE_LIMIT (requests/sec per client; 0 = disabled)
	RateBurst   int      // SLMW_RATE_BURST (default 20 when rate limiting enabled)

	// Shopline upstream
	ShoplineBaseURL string // SLMW_SHOPLINE_BASE_URL (default "https://open.shopline.io")

	// Archive settings
	ArchiveInterval   time.Duration // SLMW_ARCHIVE_INTERVAL (default 0 = disabled)
	ArchiveS3Bucket   string        // SLMW_ARCHIVE_S3_BUCKET (enables S3 when set)
	ArchiveS3Key      string        // SLMW_ARCHIVE_S3_KEY (default "events/archive.jsonl")
	ArchiveS3Region   string        // SLMW_ARCHIVE_S3_REGION (default "us-east-1")
	ArchiveS3Endpoint string        // SLMW_ARCHIVE_S3_ENDPOINT (custom endpoint for MinIO)
	ArchiveFile       string        // SLMW_ARCHIVE_FILE (enables local file destination when set)
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:          envOrDefault("SLMW_HTTP_ADDR", ":3001"),
		Environment:       envOrDefault("SLMW_ENVIRONMENT", "development"),
		DatabaseURL:       os.Getenv("SLMW_DATABASE_URL"),
		NATSURL:           os.Getenv("SLMW_NATS_URL"),
		AuthToken:         os.Getenv("SLMW_AUTH_TOKEN"),
		ShoplineBaseURL:   envOrDefault("SLMW_SHOPLINE_BASE_URL", "https://open.shopline.io"),
		ArchiveS3Bucket:   os.Getenv("SLMW_ARCHIVE_S3_BUCKET"),
		ArchiveS3Key:      envOrDefault("SLMW_ARCHIVE_S3_KEY", "events/archive.jsonl"),
		ArchiveS3Region:   envOrDefault("SLMW_ARCHIVE_S3_REGION", "us-east-1"),
		ArchiveS3Endpoint: os.Getenv("SLMW_ARCHIVE_S3_ENDPOINT"),
		ArchiveFile:       os.Getenv("SLMW_ARCHIVE_FILE"),
	}

	c.CORSOrigins = splitList(envOrDefault("SLMW_CORS_ORIGINS", "*"))

	if v := os.Getenv("SLMW_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("SLMW_RATE_LIMIT: invalid value %q", v)
		}
		c.RateLimit = f
	}
	if v := os.Getenv("SLMW_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("SLMW_RATE_BURST: invalid value %q", v)
		}
		c.RateBurst = n
	} else if c.RateLimit > 0 {
		c.RateBurst = 20
	}

	if v := os.Getenv("SLMW_ARCHIVE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SLMW_ARCHIVE_INTERVAL: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("SLMW_ARCHIVE_INTERVAL: must not be negative")
		}
		c.ArchiveInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
