package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store selects the ClientRepo adapter.
type Store string

const (
	StoreSQLite Store = "sqlite"
	StoreMongo  Store = "mongo"
	StoreRedis  Store = "redis"
)

// ValidStores is the canonical set of accepted store names.
var ValidStores = map[string]bool{
	"sqlite": true, "mongo": true, "redis": true,
}

// Config holds everything main needs to wire the application.
type Config struct {
	Store Store

	DBPath string // sqlite

	MongoURI      string
	MongoDatabase string

	RedisAddr string
	RedisDB   int

	LogLevel    string
	LogFormat   string
	LogUseCases bool

	ChecklistDebounce time.Duration
}

// Default returns a Config for a local SQLite store under ~/.coachdesk.
// The home directory is resolved by Load, so DBPath is relative here.
func Default() Config {
	return Config{
		Store:             StoreSQLite,
		DBPath:            filepath.Join(".coachdesk", "coachdesk.db"),
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "coachdesk",
		RedisAddr:         "localhost:6379",
		RedisDB:           0,
		LogLevel:          "warn",
		LogFormat:         "console",
		LogUseCases:       false,
		ChecklistDebounce: 800 * time.Millisecond,
	}
}

// Load reads COACHDESK_* environment variables over Default. Malformed
// numeric and boolean values are ignored; an unknown store is an error.
func Load() (Config, error) {
	cfg := Default()

	if v := os.Getenv("COACHDESK_STORE"); v != "" {
		v = strings.ToLower(strings.TrimSpace(v))
		if !ValidStores[v] {
			return cfg, fmt.Errorf("COACHDESK_STORE %q is not one of sqlite|mongo|redis", v)
		}
		cfg.Store = Store(v)
	}

	if v := os.Getenv("COACHDESK_DB"); v != "" {
		cfg.DBPath = v
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, cfg.DBPath)
	}

	if v := os.Getenv("COACHDESK_MONGO_URI"); v != "" {
		cfg.MongoURI = v
	}
	if v := os.Getenv("COACHDESK_MONGO_DB"); v != "" {
		cfg.MongoDatabase = v
	}
	if v := os.Getenv("COACHDESK_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("COACHDESK_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("COACHDESK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("COACHDESK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("COACHDESK_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("COACHDESK_CHECKLIST_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChecklistDebounce = time.Duration(n) * time.Millisecond
		}
	}

	return cfg, nil
}
