// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable; required variables are enforced by must()
// and missing values halt startup with a fatal log message.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to sign auth tokens

	// TokenTTLMin bounds the lifetime of issued tokens in minutes.
	// 0 issues non-expiring tokens, the default for this API.
	TokenTTLMin int

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int

	// GaragePrefixRecheck re-validates prefix uniqueness when a garage
	// update changes the prefix. Off by default: the original behavior
	// treats the prefix as immutable in practice and only checks at
	// creation.
	GaragePrefixRecheck bool
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		Env:                 must("APP_ENV"),
		Port:                must("APP_PORT"),
		DBUser:              must("DB_USER"),
		DBPass:              os.Getenv("DB_PASS"),
		DBHost:              must("DB_HOST"),
		DBPort:              must("DB_PORT"),
		DBName:              must("DB_NAME"),
		JWTSecret:           must("JWT_SECRET"),
		TokenTTLMin:         envInt("TOKEN_TTL_MIN", 0),
		BcryptCost:          envInt("BCRYPT_COST", 10),
		GaragePrefixRecheck: envBool("GARAGE_PREFIX_RECHECK", false),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "":
		return def
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}
