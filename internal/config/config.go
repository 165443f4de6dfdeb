// Package config loads server configuration from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port        int
	DatabaseDSN string
	// OutputDir is the artifact store root.
	OutputDir string
	// UploadsDir stores files posted through file-valued fields.
	UploadsDir string
	JWTSecret  string
}

// Defaults mirror a zero-configuration development setup.
const (
	DefaultPort        = 5000
	DefaultDatabaseDSN = "file:sheetforge.db?_pragma=foreign_keys(1)"
	DefaultOutputDir   = "generated"
	DefaultUploadsDir  = "uploads"

	// devJWTSecret is only for unconfigured development runs.
	devJWTSecret = "my_default_hardcoded_secret_for_development_only"
)

// Load reads a .env file when present, then the environment. A missing
// .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:        DefaultPort,
		DatabaseDSN: envOr("DATABASE_URL", DefaultDatabaseDSN),
		OutputDir:   envOr("OUTPUT_DIR", DefaultOutputDir),
		UploadsDir:  envOr("UPLOADS_DIR", DefaultUploadsDir),
		JWTSecret:   envOr("JWT_SECRET", devJWTSecret),
	}
	if p := os.Getenv("PORT"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil || v < 1 || v > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", p)
		}
		cfg.Port = v
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
