package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultPort      = 8080
	defaultTemplates = "web/templates/*.html"
)

// Config holds everything the server reads from the environment. A .env file
// in the working directory is loaded first if present.
type Config struct {
	// Port the HTTP server listens on. PORT.
	Port int

	// DatabaseURL, when set, switches the store to Postgres. DATABASE_URL.
	// SQLite (SQLITE_DB_PATH) is the default backend.
	DatabaseURL string

	// Templates is the glob for HTML templates. TEMPLATES.
	Templates string
}

// Load reads configuration from .env and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg := &Config{
		Port:        defaultPort,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Templates:   defaultTemplates,
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 {
			log.Warn().Str("port", port).Msg("invalid PORT, using default")
		} else {
			cfg.Port = p
		}
	}

	if templates := os.Getenv("TEMPLATES"); templates != "" {
		cfg.Templates = templates
	}

	return cfg
}
