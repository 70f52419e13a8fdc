// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Portal   PortalConfig
	Changes  ChangesConfig
	Worker   WorkerConfig
	Students []Student
}

// Student is one entry of the monitored-student roster.
type Student struct {
	Nickname string
	Username string
	Password string
	Emoji    string
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env      string // "development" or "production"
	LogLevel string
}

// PostgresConfig holds database settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// PortalConfig holds school portal settings.
type PortalConfig struct {
	BaseURL  string
	Email    string
	Password string
	// TranslationsFile optionally points at a key=value file of subject
	// name overrides merged over the built-in dictionary.
	TranslationsFile string
}

// ChangesConfig holds change detection settings.
type ChangesConfig struct {
	// ElectiveMarkers are subject tokens marking parallel elective-group
	// lessons, matched case-insensitively.
	ElectiveMarkers []string
}

// WorkerConfig holds crawl worker settings.
type WorkerConfig struct {
	// Concurrency bounds how many students sync in parallel.
	Concurrency int
	// WeeksBack is how many past ISO weeks each run covers.
	WeeksBack int
	// Interval between crawl runs.
	Interval time.Duration
	// EventQueueSize and EventWorkers size the in-memory event bus.
	EventQueueSize int
	EventWorkers   int
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "INFO"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "schedule_hub"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			MaxConns: getEnvInt("POSTGRES_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Portal: PortalConfig{
			BaseURL:          getEnv("PORTAL_BASE_URL", "https://my.e-klase.lv"),
			Email:            getEnv("PORTAL_EMAIL", ""),
			Password:         getEnv("PORTAL_PASSWORD", ""),
			TranslationsFile: getEnv("TRANSLATIONS_FILE", ""),
		},
		Changes: ChangesConfig{
			ElectiveMarkers: getEnvList("CHANGES_ELECTIVE_MARKERS", nil),
		},
		Worker: WorkerConfig{
			Concurrency:    getEnvInt("WORKER_CONCURRENCY", 4),
			WeeksBack:      getEnvInt("WORKER_WEEKS_BACK", 2),
			Interval:       getEnvDuration("WORKER_INTERVAL", 30*time.Minute),
			EventQueueSize: getEnvInt("EVENT_QUEUE_SIZE", 256),
			EventWorkers:   getEnvInt("EVENT_WORKERS", 4),
		},
	}

	students, err := parseStudents(getEnv("STUDENTS", ""))
	if err != nil {
		return nil, err
	}
	cfg.Students = students

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseStudents reads the roster from a comma-separated list of
// nickname:username:password:emoji entries. The emoji part is optional.
func parseStudents(raw string) ([]Student, error) {
	if raw == "" {
		return nil, nil
	}
	var students []Student
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("config: STUDENTS entry %q must be nickname:username:password[:emoji]", entry)
		}
		s := Student{
			Nickname: strings.TrimSpace(parts[0]),
			Username: strings.TrimSpace(parts[1]),
			Password: parts[2],
		}
		if len(parts) == 4 {
			s.Emoji = strings.TrimSpace(parts[3])
		}
		if s.Nickname == "" || s.Username == "" {
			return nil, fmt.Errorf("config: STUDENTS entry %q has an empty nickname or username", entry)
		}
		students = append(students, s)
	}
	return students, nil
}

// StudentByNickname looks up a roster entry.
func (c *Config) StudentByNickname(nickname string) (Student, bool) {
	for _, s := range c.Students {
		if s.Nickname == nickname {
			return s, true
		}
	}
	return Student{}, false
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Postgres.Host == "" {
		return fmt.Errorf("config: POSTGRES_HOST is required")
	}
	if c.Postgres.Database == "" {
		return fmt.Errorf("config: POSTGRES_DB is required")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: WORKER_CONCURRENCY must be positive")
	}
	if c.Worker.WeeksBack < 1 {
		return fmt.Errorf("config: WORKER_WEEKS_BACK must be positive")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	if len(list) == 0 {
		return fallback
	}
	return list
}
