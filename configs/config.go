package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Gemini struct {
	APIKey     string
	TextModels []string
	ImageModel string
}

type Publisher struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	SuccessRate float64
}

type Config struct {
	Port               string
	StorageDriver      string
	PostgresURI        string
	RedisURI           string
	ScanInterval       time.Duration
	PublishTimeout     time.Duration
	Publisher          Publisher
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	FrontendURL        string
	R2                 R2
	Gemini             Gemini
	SecretKey          string
	CookieName         string
	TokenDuration      time.Duration
	LogLevel           string
}

// LoadConfig reads configuration from the environment. Call godotenv.Load first
// to pick up a local .env file.
func LoadConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "3000")
	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("SCAN_INTERVAL", "1m")
	v.SetDefault("PUBLISH_TIMEOUT", "30s")
	v.SetDefault("PUBLISH_MIN_DELAY", "1s")
	v.SetDefault("PUBLISH_MAX_DELAY", "3s")
	v.SetDefault("PUBLISH_SUCCESS_RATE", 0.9)
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/google/callback")
	v.SetDefault("GEMINI_TEXT_MODELS", "gemini-2.5-flash,gemini-2.0-flash")
	v.SetDefault("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-002")
	v.SetDefault("SECRET_KEY", "change-me")
	v.SetDefault("COOKIE_NAME", "smartflow_session")
	v.SetDefault("TOKEN_DURATION", "24h")
	v.SetDefault("LOG_LEVEL", "info")

	return &Config{
		Port:           v.GetString("PORT"),
		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		PostgresURI:    v.GetString("POSTGRES_URI"),
		RedisURI:       v.GetString("REDIS_URI"),
		ScanInterval:   v.GetDuration("SCAN_INTERVAL"),
		PublishTimeout: v.GetDuration("PUBLISH_TIMEOUT"),
		Publisher: Publisher{
			MinDelay:    v.GetDuration("PUBLISH_MIN_DELAY"),
			MaxDelay:    v.GetDuration("PUBLISH_MAX_DELAY"),
			SuccessRate: v.GetFloat64("PUBLISH_SUCCESS_RATE"),
		},
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
		FrontendURL:        v.GetString("FRONTEND_URL"),
		R2: R2{
			AccountID:  v.GetString("R2_ACCOUNT_ID"),
			AccessKey:  v.GetString("R2_ACCESS_KEY"),
			SecretKey:  v.GetString("R2_SECRET_KEY"),
			BucketName: v.GetString("R2_BUCKET_NAME"),
			PublicURL:  v.GetString("R2_PUBLIC_URL"),
		},
		Gemini: Gemini{
			APIKey:     v.GetString("GEMINI_API_KEY"),
			TextModels: splitList(v.GetString("GEMINI_TEXT_MODELS")),
			ImageModel: v.GetString("GEMINI_IMAGE_MODEL"),
		},
		SecretKey:     v.GetString("SECRET_KEY"),
		CookieName:    v.GetString("COOKIE_NAME"),
		TokenDuration: v.GetDuration("TOKEN_DURATION"),
		LogLevel:      v.GetString("LOG_LEVEL"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
