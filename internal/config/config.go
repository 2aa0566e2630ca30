package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Shopify     ShopifyConfig
	API         APIConfig
	LogLevel    string
}

type ShopifyConfig struct {
	Store    string // store subdomain, e.g. "acme" for acme.myshopify.com
	Username string
	Password string
	BaseURL  string // optional override for the admin endpoint, mainly for proxies and tests
}

// APIConfig holds the bcrypt hashes of API keys accepted by the HTTP surface.
type APIConfig struct {
	KeyHashes []string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Shopify: ShopifyConfig{
			Store:    strings.TrimSpace(getEnvOrViper("SHOPIFY_STORE", "")),
			Username: strings.TrimSpace(getEnvOrViper("SHOPIFY_USERNAME", "")),
			Password: strings.TrimSpace(getEnvOrViper("SHOPIFY_PASSWORD", "")),
			BaseURL:  strings.TrimSpace(getEnvOrViper("SHOPIFY_BASE_URL", "")),
		},
		API: APIConfig{
			KeyHashes: splitKeyHashes(getEnvOrViper("API_KEY_HASHES", "")),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Shopify.Store == "" {
		return nil, fmt.Errorf("SHOPIFY_STORE is required")
	}
	if cfg.Shopify.Username == "" {
		return nil, fmt.Errorf("SHOPIFY_USERNAME is required")
	}
	if cfg.Shopify.Password == "" {
		return nil, fmt.Errorf("SHOPIFY_PASSWORD is required")
	}

	return cfg, nil
}

// splitKeyHashes parses API_KEY_HASHES, a comma-separated list of bcrypt hashes.
func splitKeyHashes(raw string) []string {
	var hashes []string
	for _, part := range strings.Split(raw, ",") {
		if h := strings.TrimSpace(part); h != "" {
			hashes = append(hashes, h)
		}
	}
	return hashes
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
