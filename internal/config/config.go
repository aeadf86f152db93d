// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	YouTube  YouTubeConfig
	Sync     SyncConfig
	Ideas    IdeasConfig
	Auth     AuthConfig
	Logging  LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database connection configuration.
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// URL renders the config as a postgres connection URL.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// RabbitMQConfig contains RabbitMQ connection and topology configuration.
// An empty Host disables event publishing.
type RabbitMQConfig struct {
	Host     string
	User     string
	Password string
	Exchange string
	Queue    string
	Port     int
}

// YouTubeConfig contains the remote platform API configuration.
type YouTubeConfig struct {
	APIKey string
}

// SyncConfig bounds the video sync and comment ingestion pipeline.
type SyncConfig struct {
	// MaxPagesPerChannel caps pagination when pulling a channel's videos.
	MaxPagesPerChannel int
	// MaxCommentPagesPerVideo caps pagination when pulling a video's comments.
	MaxCommentPagesPerVideo int
	// MaxConcurrentFetches bounds in-flight remote calls across channels.
	MaxConcurrentFetches int
}

// IdeasConfig controls idea generation.
type IdeasConfig struct {
	// DefaultBatchSize is used when a request does not specify one.
	DefaultBatchSize int
	// MaxBatchSize caps a single generation run.
	MaxBatchSize int
}

// AuthConfig maps API keys to owner identities.
type AuthConfig struct {
	// Keys maps an API key to the owner id it authenticates as.
	Keys map[string]string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "idea_generator")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// RabbitMQ (optional; empty host disables publishing)
	viper.SetDefault("rabbitmq.host", "")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "ideagen.events")
	viper.SetDefault("rabbitmq.queue", "ideagen.events.pipeline")

	// YouTube
	viper.SetDefault("youtube.apikey", "")

	// Sync bounds
	viper.SetDefault("sync.maxpagesperchannel", 2)
	viper.SetDefault("sync.maxcommentpagespervideo", 1)
	viper.SetDefault("sync.maxconcurrentfetches", 4)

	// Idea generation
	viper.SetDefault("ideas.defaultbatchsize", 5)
	viper.SetDefault("ideas.maxbatchsize", 50)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
