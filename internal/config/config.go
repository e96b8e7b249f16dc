package config

import (
	"errors"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	DenylistSQL   = "sql"
	DenylistRedis = "redis"
)

type Config struct {
	DBDriver        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	SQLitePath      string
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	APIKey          string
	Port            string
	AllowedOrigins  string
	AppEnv          string
	LogLevel        string
	TokenDenylist   string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LoginRateLimit  int
	LoginRateWindow time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the environment, after merging a .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:        getEnv("DB_DRIVER", DriverMySQL),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", "fitness"),
		DBPassword:      getEnv("DB_PASSWORD", "fitness_pass"),
		DBName:          getEnv("DB_NAME", "fitness_tracker"),
		SQLitePath:      getEnv("SQLITE_PATH", "./data/fitness_tracker.db"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "fitness-tracker"),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 60*time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		APIKey:          getEnv("API_KEY", ""),
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "*"),
		AppEnv:          getEnv("APP_ENV", "production"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		TokenDenylist:   getEnv("TOKEN_DENYLIST", DenylistSQL),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getIntEnv("REDIS_DB", 0),
		LoginRateLimit:  getIntEnv("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: getDurationEnv("LOGIN_RATE_WINDOW", 15*time.Minute),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable must be set"))
	}
	if c.DBDriver != DriverMySQL && c.DBDriver != DriverSQLite {
		errs = append(errs, errors.New("DB_DRIVER must be mysql or sqlite"))
	}
	if c.TokenDenylist != DenylistSQL && c.TokenDenylist != DenylistRedis {
		errs = append(errs, errors.New("TOKEN_DENYLIST must be sql or redis"))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
