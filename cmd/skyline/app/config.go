// Package app holds the CLI's configuration and logger wiring. One Config
// is built at process start from flags, environment, .env files, and the
// optional config file, and passed explicitly into every component.
package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/skylinehq/skyline/pkg/errors"
)

// Config holds the application configuration.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Collaborator endpoints and credentials
	RegistryBaseURL string
	RegistryAPIKey  string
	RegistryTable   string
	PlacesAPIKey    string
	GeminiAPIKey    string

	// Optional YAML file with never-merge building names
	ExceptionsFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.skyline.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindEnvKeys()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".skyline")
		}
	}

	// Missing config file is fine; env and flags may carry everything.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		RegistryBaseURL: viper.GetString("registry_base_url"),
		RegistryAPIKey:  viper.GetString("registry_api_key"),
		RegistryTable:   viper.GetString("registry_table"),
		PlacesAPIKey:    viper.GetString("places_api_key"),
		GeminiAPIKey:    viper.GetString("gemini_api_key"),
		ExceptionsFile:  viper.GetString("exceptions_file"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.RegistryTable == "" {
		config.RegistryTable = "buildings"
	}

	return config, nil
}

// RequireRegistry validates the record-store settings.
func (c *Config) RequireRegistry() error {
	if c.RegistryBaseURL == "" {
		return &errors.ConfigError{Component: "registry", Message: "REGISTRY_BASE_URL is required"}
	}
	if c.RegistryAPIKey == "" {
		return &errors.ConfigError{Component: "registry", Message: "REGISTRY_API_KEY is required"}
	}
	return nil
}

// RequirePlaces validates the place-search settings.
func (c *Config) RequirePlaces() error {
	if c.PlacesAPIKey == "" {
		return &errors.ConfigError{Component: "places", Message: "PLACES_API_KEY is required"}
	}
	return nil
}

// RequireGemini validates the generative-discovery settings.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return &errors.ConfigError{Component: "discovery", Message: "GEMINI_API_KEY is required"}
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// bindEnvKeys explicitly binds the environment variables this CLI reads.
func bindEnvKeys() {
	keys := []string{
		"REGISTRY_BASE_URL",
		"REGISTRY_API_KEY",
		"REGISTRY_TABLE",
		"PLACES_API_KEY",
		"GEMINI_API_KEY",
		"EXCEPTIONS_FILE",
	}
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default if
// not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
