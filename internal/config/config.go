package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	AppPort  string
	LogLevel string

	DBDriver  string
	SQLiteDSN string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// RedisAddr empty means no redis: idempotency is skipped and sessions
	// live in process memory.
	RedisAddr string
	RedisDB   int

	IdempTTLSecs   int
	SessionTTLSecs int
	JWTSecret      string

	// GeminiAPIKey empty disables the AI assistant entirely.
	GeminiAPIKey string
	GeminiModel  string

	Seed bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func Load() *Config {
	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:  getenv("DB_DRIVER", DriverSQLite),
		SQLiteDSN: getenv("SQLITE_DSN", "file::memory:?cache=shared"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "lendora"),
		MySQLUser: getenv("MYSQL_USER", "lendora"),
		MySQLPass: getenv("MYSQL_PASS", "lendora"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs:   getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		SessionTTLSecs: getenvInt("SESSION_TTL_SECONDS", 86400),
		JWTSecret:      getenv("JWT_SECRET", "lendora-demo-secret"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.5-flash"),

		Seed: getenvBool("SEED", true),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLiteDSN == "" {
			return errors.New("missing SQLITE_DSN")
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME/DATE scanning
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
