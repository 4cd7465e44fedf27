package config

import (
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

func (r R2) Configured() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != "" && r.BucketName != ""
}

type Config struct {
	Port                  string
	Env                   string
	FacebookAppID         string
	FacebookAppSecret     string
	XClientID             string
	XClientSecret         string
	GraphAPIURL           string
	XAPIURL               string
	InstagramPublishDelay time.Duration
	PostgresURI           string
	FrontendURL           string
	R2                    R2
	SecretKey             string
	RateLimitPerMinute    int
}

func LoadConfig() *Config {
	return &Config{
		Port:                  getEnv("PORT", "3000"),
		Env:                   getEnv("APP_ENV", "development"),
		FacebookAppID:         getEnv("FACEBOOK_APP_ID", ""),
		FacebookAppSecret:     getEnv("FACEBOOK_APP_SECRET", ""),
		XClientID:             getEnv("X_CLIENT_ID", ""),
		XClientSecret:         getEnv("X_CLIENT_SECRET", ""),
		GraphAPIURL:           getEnv("GRAPH_API_URL", "https://graph.facebook.com/v19.0"),
		XAPIURL:               getEnv("X_API_URL", "https://api.twitter.com/2"),
		InstagramPublishDelay: getDuration("INSTAGRAM_PUBLISH_DELAY", 5*time.Second),
		PostgresURI:           getEnv("POSTGRES_URI", ""),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:8081"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:          getEnv("SECRET_KEY", ""),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 60),
	}
}

// FacebookConfigured reports whether both Facebook app credentials are set.
func (c *Config) FacebookConfigured() bool {
	return c.FacebookAppID != "" && c.FacebookAppSecret != ""
}

// XConfigured reports whether both X client credentials are set.
func (c *Config) XConfigured() bool {
	return c.XClientID != "" && c.XClientSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
