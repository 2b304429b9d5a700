package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Redis      RedisConfig
	Attendance AttendanceConfig
	Presence   PresenceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// RedisConfig holds the optional presence cache configuration. An empty
// Addr disables the cache and presence is served straight from Postgres.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AttendanceConfig holds the session engine knobs.
type AttendanceConfig struct {
	BreakAllowanceMinutes    int
	ScheduleToleranceMinutes int
	MaxSessionHours          int
	SweepInterval            time.Duration
}

type PresenceConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "workforce"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Attendance engine configuration
	breakAllowance, err := strconv.Atoi(getEnv("ATTENDANCE_BREAK_ALLOWANCE_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_BREAK_ALLOWANCE_MINUTES: %w", err)
	}

	scheduleTolerance, err := strconv.Atoi(getEnv("ATTENDANCE_SCHEDULE_TOLERANCE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_SCHEDULE_TOLERANCE_MINUTES: %w", err)
	}

	maxSessionHours, err := strconv.Atoi(getEnv("ATTENDANCE_MAX_SESSION_HOURS", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MAX_SESSION_HOURS: %w", err)
	}

	sweepInterval, err := time.ParseDuration(getEnv("ATTENDANCE_SWEEP_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_SWEEP_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		BreakAllowanceMinutes:    breakAllowance,
		ScheduleToleranceMinutes: scheduleTolerance,
		MaxSessionHours:          maxSessionHours,
		SweepInterval:            sweepInterval,
	}

	// Presence configuration
	presenceCacheTTL, err := time.ParseDuration(getEnv("PRESENCE_CACHE_TTL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRESENCE_CACHE_TTL: %w", err)
	}

	config.Presence = PresenceConfig{
		CacheTTL: presenceCacheTTL,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.BreakAllowanceMinutes < 0 {
		return fmt.Errorf("ATTENDANCE_BREAK_ALLOWANCE_MINUTES must not be negative")
	}
	if c.Attendance.MaxSessionHours <= 0 {
		return fmt.Errorf("ATTENDANCE_MAX_SESSION_HOURS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
