package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Worker    WorkerConfig
	HazardLog HazardLogConfig
	Advice    AdviceConfig
	Redis     RedisConfig
	DB        DatabaseConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	RateLimit int // requests per second, global; 0 disables
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type HazardLogConfig struct {
	Path         string
	PollInterval time.Duration // 0 disables reloading
	LookbackDays int
}

func (c HazardLogConfig) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

type AdviceConfig struct {
	APIKey   string
	Model    string
	URL      string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Enabled reports whether a text generator is configured.
func (c AdviceConfig) Enabled() bool {
	return c.APIKey != ""
}

type RedisConfig struct {
	URL string // empty disables the advice cache
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "localhost"),
			Port:      getEnvInt("SERVER_PORT", 8080),
			RateLimit: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 100),
		},
		HazardLog: HazardLogConfig{
			Path:         getEnv("HAZARD_LOG_PATH", "./static/data/risklog.csv"),
			PollInterval: getEnvDuration("HAZARD_LOG_POLL_INTERVAL", time.Minute),
			LookbackDays: getEnvInt("LOOKBACK_DAYS", 730),
		},
		Advice: AdviceConfig{
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			Model:    getEnv("GEMINI_MODEL", "gemini-flash-lite-latest"),
			URL:      getEnv("GEMINI_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:  getEnvDuration("GEMINI_TIMEOUT", 15*time.Second),
			CacheTTL: getEnvDuration("ADVICE_CACHE_TTL", 6*time.Hour),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/saferoute.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.HazardLog.PollInterval < 0 {
		return fmt.Errorf("hazard log poll interval must not be negative")
	}
	if c.HazardLog.PollInterval > 0 && c.HazardLog.PollInterval < time.Second {
		return fmt.Errorf("hazard log poll interval must be at least 1 second")
	}
	if c.HazardLog.LookbackDays < 1 {
		return fmt.Errorf("lookback must be at least 1 day")
	}
	if c.Advice.Timeout <= 0 {
		return fmt.Errorf("generator timeout must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
