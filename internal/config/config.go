// Package config loads server configuration: defaults, then an optional
// YAML file, then environment variables (a .env file is honored when
// present). Later sources win.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string `yaml:"addr"`
	DBPath        string `yaml:"db_path"`
	SessionCookie string `yaml:"session_cookie"`
	SessionTTLH   int    `yaml:"session_ttl_hours"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
}

func Default() Config {
	return Config{
		Addr:          ":8080",
		SessionCookie: "qb_session",
		SessionTTLH:   7 * 24,
		BcryptCost:    bcrypt.DefaultCost,
	}
}

// Load builds the effective config. path may be empty; a missing YAML file
// is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("QB_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("QB_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("QB_SESSION_COOKIE"); v != "" {
		cfg.SessionCookie = v
	}
	if v := os.Getenv("QB_SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLH = n
		}
	}
	if v := os.Getenv("QB_BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			cfg.BcryptCost = n
		}
	}
	return cfg, nil
}
