package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string
	DBPass string // empty allowed
	DBHost string
	DBPort string
	DBName string

	JWTSecret string // enables Bearer credentials when set
	LogLevel  string

	SeatAccounting    string // "compat" or "ledger"
	EmptyListNotFound bool   // GET /screening with no rows answers 404
	RabbitMQURL       string // empty disables events
	MigrateOnStart    bool
}

// Load reads configuration values from environment variables. Missing
// required variables are reported together in one error.
func Load() (Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		SeatAccounting:    strings.ToLower(envStr("SEAT_ACCOUNTING", "compat")),
		EmptyListNotFound: envBool("LIST_EMPTY_NOT_FOUND", true),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		MigrateOnStart:    envBool("MIGRATE_ON_START", false),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
