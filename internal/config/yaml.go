package config

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	JWT           JWTConfig           `yaml:"jwt"`
	Server        ServerConfig        `yaml:"server"`
	Chat          ChatConfig          `yaml:"chat"`
	Notifications NotificationConfig  `yaml:"notifications"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Expiry string `yaml:"expiry"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	Host        string   `yaml:"host"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type ChatConfig struct {
	MaxGroupParticipants int `yaml:"max_group_participants"`
}

// Enabled and Vibrate are pointers so an explicit `false` in the YAML
// survives defaulting; a missing key defaults to on.
type NotificationConfig struct {
	Enabled    *bool `yaml:"enabled"`
	Vibrate    *bool `yaml:"vibrate"`
	ShowAlert  bool  `yaml:"show_alert"`
	DebounceMS int   `yaml:"debounce_ms"`
}

var AppConfig *Config

func LoadConfig() error {
	// Try to find config file in different locations
	configPaths := []string{
		"secret/app.yaml",
		"app.yaml",
		"config/app.yaml",
		"./app.yaml",
	}

	var configPath string
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			configPath = path
			break
		}
	}

	if configPath == "" {
		return fmt.Errorf("config file not found in any of the expected locations: %v", configPaths)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v", configPath, err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %v", err)
	}

	setDefaults(config)

	AppConfig = config
	return nil
}

func setDefaults(config *Config) {
	// Database defaults
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Database.User == "" {
		config.Database.User = "juanlms_user"
	}
	if config.Database.Password == "" {
		config.Database.Password = "juanlms_password"
	}
	if config.Database.Name == "" {
		config.Database.Name = "juanlms_chat"
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = "disable"
	}

	// JWT defaults
	if config.JWT.Secret == "" {
		config.JWT.Secret = "juanlms-chat-jwt-secret-change-in-production"
	}
	if config.JWT.Expiry == "" {
		config.JWT.Expiry = "24h"
	}

	// Server defaults
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if len(config.Server.CORSOrigins) == 0 {
		config.Server.CORSOrigins = []string{"http://localhost:3000"}
	}

	// Chat defaults
	if config.Chat.MaxGroupParticipants == 0 {
		config.Chat.MaxGroupParticipants = 50
	}

	// Notification defaults
	if config.Notifications.Enabled == nil {
		config.Notifications.Enabled = lo.ToPtr(true)
	}
	if config.Notifications.Vibrate == nil {
		config.Notifications.Vibrate = lo.ToPtr(true)
	}
	if config.Notifications.DebounceMS == 0 {
		config.Notifications.DebounceMS = 250
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		// Try to load config if not already loaded
		if err := LoadConfig(); err != nil {
			// If loading fails, create a default config
			config := &Config{}
			setDefaults(config)
			AppConfig = config
		}
	}
	return AppConfig
}

// GetEnv keeps the env-style lookup used across the codebase mapped
// onto the YAML config.
func GetEnv(key, defaultValue string) string {
	config := GetConfig()

	switch key {
	case "DB_HOST":
		return config.Database.Host
	case "DB_PORT":
		return fmt.Sprintf("%d", config.Database.Port)
	case "DB_USER":
		return config.Database.User
	case "DB_PASSWORD":
		return config.Database.Password
	case "DB_NAME":
		return config.Database.Name
	case "DB_SSLMODE":
		return config.Database.SSLMode
	case "JWT_SECRET":
		return config.JWT.Secret
	case "JWT_EXPIRY":
		return config.JWT.Expiry
	case "PORT":
		return fmt.Sprintf("%d", config.Server.Port)
	case "CORS_ORIGIN":
		if len(config.Server.CORSOrigins) > 0 {
			return config.Server.CORSOrigins[0]
		}
		return "http://localhost:3000"
	default:
		return defaultValue
	}
}
