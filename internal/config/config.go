package config

import (
	"io"
	"log"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	// Web surface
	StartURL string

	// Firebase
	FirebaseProjectID string
	FirebaseCredJSON  string

	// Push Notifications
	PushNotificationsEnabled bool // Enable/disable FCM push notification fan-out (default: true)

	// Server
	ServerShutdownTimeoutSeconds int

	// Logging
	LogLevel  string
	LogFormat string

	// Notification channels (overridable via config file)
	Channels *ChannelConfig `yaml:"channels"`
}

// ChannelConfig describes the two local notification channels the shell owns.
type ChannelConfig struct {
	Calls   ChannelSpec `yaml:"calls"`
	Default ChannelSpec `yaml:"default"`
}

// ChannelSpec is a single channel definition.
type ChannelSpec struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Importance string `yaml:"importance"`
	Sound      string `yaml:"sound"`
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		// Web surface
		StartURL: getEnvOrDefault("START_URL", "https://tdp2-frontend.onrender.com/"),

		// Firebase
		FirebaseProjectID: getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
		FirebaseCredJSON:  getEnvOrDefault("FIREBASE_CRED_JSON", ""),

		// Push Notifications
		PushNotificationsEnabled: getEnvOrDefault("PUSH_NOTIFICATIONS_ENABLED", "true") == "true",

		// Server
		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		// Logging
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "debug"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	// Load channel definitions from a configuration file when present.
	// Channels have sensible built-in defaults, so a missing file is not fatal.
	configFilePath := getEnvOrDefault("CONFIG_FILE", "config.yaml")
	configFile, err := os.Open(configFilePath)
	if err != nil {
		log.Printf("No config file at %s, using built-in channel defaults", configFilePath)
	} else {
		defer configFile.Close()
		if err := LoadConfigFile(configFile, AppConfig); err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
	}

	// Validate required configs
	if AppConfig.FirebaseProjectID == "" {
		log.Println("Warning: Firebase project ID is missing. Please set FIREBASE_PROJECT_ID environment variable.")
	}

	if AppConfig.FirebaseCredJSON == "" {
		log.Println("Warning: Firebase credentials are missing. Push fan-out will be disabled. Please set FIREBASE_CRED_JSON environment variable.")
	}

	log.Println("Firebase project ID: ", AppConfig.FirebaseProjectID)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as int, using default %d: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}

func LoadConfigFile(reader io.Reader, config *Config) error {
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(config); err != nil {
		return err
	}

	return nil
}
