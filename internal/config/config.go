package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Game     GameConfig
	Limits   LimitsConfig
	Words    WordsConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Host            string
	Env             string // "development" or "production"
	PublicURL       string // Base URL used in invite links and QR codes
	ShutdownTimeout time.Duration
}

// GameConfig holds game-related configuration
type GameConfig struct {
	MinPlayers         int
	MaxPlayers         int
	TurnSeconds        int
	ResultDelaySeconds int
	DefaultMode        string
	RoomCodeLength     int
}

// LimitsConfig holds per-connection message rate limits
type LimitsConfig struct {
	MessagesPerSecond float64
	Burst             int
}

// WordsConfig points at an optional word list replacing the built-in one
type WordsConfig struct {
	File string
}

// DatabaseConfig holds the optional game history database settings
type DatabaseConfig struct {
	URL                    string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Env:             getEnv("ENV", "development"),
			PublicURL:       getEnv("PUBLIC_URL", "http://localhost:8080"),
			ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Game: GameConfig{
			MinPlayers:         getEnvInt("MIN_PLAYERS", 3),
			MaxPlayers:         getEnvInt("MAX_PLAYERS", 12),
			TurnSeconds:        getEnvInt("TURN_SECONDS", 30),
			ResultDelaySeconds: getEnvInt("RESULT_DELAY_SECONDS", 3),
			DefaultMode:        getEnv("DEFAULT_MODE", "INFILTRATOR"),
			RoomCodeLength:     getEnvInt("ROOM_CODE_LENGTH", 6),
		},
		Limits: LimitsConfig{
			MessagesPerSecond: getEnvFloat("WS_MESSAGES_PER_SECOND", 5),
			Burst:             getEnvInt("WS_MESSAGE_BURST", 10),
		},
		Words: WordsConfig{
			File: getEnv("WORDS_FILE", ""),
		},
		Database: DatabaseConfig{
			URL:                    getEnv("DATABASE_URL", ""),
			MaxOpenConns:           getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:           getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeSeconds: getEnvInt("DB_CONN_MAX_LIFETIME_SECONDS", 300),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// HistoryEnabled reports whether finished games are archived
func (c *Config) HistoryEnabled() bool {
	return c.Database.URL != ""
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat returns an environment variable as a float or a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
