package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL    string
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string
	// PublicBaseURL is the origin credential links are built against,
	// e.g. https://carbonjar.com/credentials/<slug>.
	PublicBaseURL string
	CORSOrigins   []string

	IDPJWTSecret string
	IDPJWTIssuer string

	// StorageAllowedHosts lists the hostnames the asset proxy may fetch from.
	StorageAllowedHosts  []string
	ProxyTimeout         time.Duration
	AssetFallbackPreview string
	LinkedInOrgID        string

	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
}

func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("PROXY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("parse PROXY_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("PROXY_TIMEOUT must be positive")
	}

	cfg := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		HTTPListenAddr:       getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		ServiceName:          getEnv("SERVICE_NAME", "certificate-api"),
		PublicBaseURL:        strings.TrimRight(getEnv("PUBLIC_BASE_URL", "https://carbonjar.com"), "/"),
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		IDPJWTSecret:         getEnv("IDP_JWT_SECRET", ""),
		IDPJWTIssuer:         getEnv("IDP_JWT_ISSUER", ""),
		StorageAllowedHosts:  splitList(getEnv("STORAGE_ALLOWED_HOSTS", "files.edgestore.dev")),
		ProxyTimeout:         timeout,
		AssetFallbackPreview: getEnv("ASSET_FALLBACK_PREVIEW", ""),
		LinkedInOrgID:        getEnv("LINKEDIN_ORG_ID", ""),
		S3Endpoint:           getEnv("S3_ENDPOINT", ""),
		S3Region:             getEnv("S3_REGION", "us-east-1"),
		S3Bucket:             getEnv("S3_BUCKET", ""),
		S3AccessKey:          getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:          getEnv("S3_SECRET_KEY", ""),
		S3PublicBaseURL:      strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.IDPJWTSecret == "" {
		missing = append(missing, "IDP_JWT_SECRET")
	}
	if c.HTTPListenAddr == "" {
		missing = append(missing, "HTTP_LISTEN_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if len(c.IDPJWTSecret) < 32 {
		return fmt.Errorf("IDP_JWT_SECRET must be at least 32 bytes")
	}
	if len(c.StorageAllowedHosts) == 0 {
		return fmt.Errorf("STORAGE_ALLOWED_HOSTS must list at least one host")
	}
	if c.S3Bucket != "" && c.S3PublicBaseURL == "" {
		return fmt.Errorf("S3_PUBLIC_BASE_URL is required when S3_BUCKET is set")
	}
	return nil
}

// StorageEnabled reports whether PDF uploads to object storage are configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
