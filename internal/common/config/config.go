package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// Playbook store
	StoreDriver   string
	SQLitePath    string
	PostgresDSN   string
	RedisURL      string
	MigrationsDir string
	Seed          bool

	// Editor
	WSPort            string
	AnimationDuration time.Duration
	FrameRate         int
	CORSOrigins       string

	// Logging
	LogFile  string
	LogLevel string

	// Service links
	PublicURL   string
	PlaybookURL string
	RenderURL   string
}

// fileConfig is the optional YAML overlay named by CONFIG_FILE. Environment
// variables win over it.
type fileConfig struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"env"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`

	Store struct {
		Driver        string `yaml:"driver"`
		SQLitePath    string `yaml:"sqlite_path"`
		PostgresDSN   string `yaml:"postgres_dsn"`
		RedisURL      string `yaml:"redis_url"`
		MigrationsDir string `yaml:"migrations_dir"`
		Seed          *bool  `yaml:"seed"`
	} `yaml:"store"`

	Editor struct {
		WSPort              string `yaml:"ws_port"`
		AnimationDurationMs int    `yaml:"animation_duration_ms"`
		FrameRate           int    `yaml:"frame_rate"`
		CORSOrigins         string `yaml:"cors_origins"`
	} `yaml:"editor"`

	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`

	URLs struct {
		Public   string `yaml:"public"`
		Playbook string `yaml:"playbook"`
		Render   string `yaml:"render"`
	} `yaml:"urls"`
}

// Load reads configuration from CONFIG_FILE (when set) and the environment.
func Load() *Config {
	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := readFile(path)
		if err != nil {
			log.Printf("[CONFIG] %v, using environment only", err)
		} else {
			fc = loaded
		}
	}
	return fromSources(fc)
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func fromSources(fc fileConfig) *Config {
	seed := true
	if fc.Store.Seed != nil {
		seed = *fc.Store.Seed
	}

	return &Config{
		Port:         getEnv("PORT", or(fc.Port, "3000")),
		Environment:  getEnv("ENV", or(fc.Environment, "development")),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", orInt(fc.ReadTimeout, 10)),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", orInt(fc.WriteTimeout, 10)),

		StoreDriver:   getEnv("STORE_DRIVER", or(fc.Store.Driver, "memory")),
		SQLitePath:    getEnv("SQLITE_PATH", or(fc.Store.SQLitePath, "data/db/playbook.db")),
		PostgresDSN:   getEnv("POSTGRES_DSN", fc.Store.PostgresDSN),
		RedisURL:      getEnv("REDIS_URL", or(fc.Store.RedisURL, "redis://localhost:6379/0")),
		MigrationsDir: getEnv("MIGRATIONS_DIR", or(fc.Store.MigrationsDir, "migrations")),
		Seed:          getEnvAsBool("SEED", seed),

		WSPort:            getEnv("WS_PORT", or(fc.Editor.WSPort, "3004")),
		AnimationDuration: time.Duration(getEnvAsInt("ANIMATION_DURATION_MS", orInt(fc.Editor.AnimationDurationMs, 3000))) * time.Millisecond,
		FrameRate:         getEnvAsInt("FRAME_RATE", orInt(fc.Editor.FrameRate, 60)),
		CORSOrigins:       getEnv("CORS_ORIGINS", or(fc.Editor.CORSOrigins, "*")),

		LogFile:  getEnv("LOG_FILE", fc.Log.File),
		LogLevel: getEnv("LOG_LEVEL", or(fc.Log.Level, "info")),

		PublicURL:   getEnv("PUBLIC_URL", or(fc.URLs.Public, "http://localhost:3000")),
		PlaybookURL: getEnv("PLAYBOOK_URL", or(fc.URLs.Playbook, "http://localhost:3002")),
		RenderURL:   getEnv("RENDER_URL", or(fc.URLs.Render, "http://localhost:3001")),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
