package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	MenuAPIURL       string
	ImageBaseURL     string
	PlaceholderImage string
	APITimeout       time.Duration
	DatabaseURL      string
	ReceiptSecret    string
	AllowedOrigins   []string
	LogLevel         string
	OrderRateLimit   int
}

const defaultPlaceholderImage = "https://images.pexels.com/photos/312418/pexels-photo-312418.jpeg"

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("MENU_API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MENU_API_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid MENU_API_TIMEOUT: must be positive")
	}

	rateLimit, err := strconv.Atoi(getEnv("ORDER_RATE_LIMIT", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return nil, fmt.Errorf("invalid ORDER_RATE_LIMIT: must be positive")
	}

	apiURL := strings.TrimRight(getEnv("MENU_API_URL", "http://localhost:3000/api"), "/")
	u, err := url.Parse(apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid MENU_API_URL %q", apiURL)
	}

	logLevel := strings.ToLower(getEnv("LOG_LEVEL", "info"))
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", logLevel)
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		MenuAPIURL:       apiURL,
		ImageBaseURL:     getEnv("IMAGE_BASE_URL", u.Scheme+"://"+u.Host),
		PlaceholderImage: getEnv("PLACEHOLDER_IMAGE", defaultPlaceholderImage),
		APITimeout:       timeout,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ReceiptSecret:    getEnv("RECEIPT_SECRET", "dev-secret-change-in-production"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:         logLevel,
		OrderRateLimit:   rateLimit,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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
