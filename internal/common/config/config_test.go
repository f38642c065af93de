package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const overlay = `
port: "4000"
store:
  driver: sqlite
  sqlite_path: /tmp/plays.db
  seed: false
editor:
  animation_duration_ms: 5000
  frame_rate: 30
log:
  level: debug
`

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "playops.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv blanks every variable Load reads; getEnv treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "ENV", "READ_TIMEOUT", "WRITE_TIMEOUT", "STORE_DRIVER", "SQLITE_PATH",
		"SEED", "WS_PORT", "ANIMATION_DURATION_MS", "FRAME_RATE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", "")
	cfg := Load()

	if cfg.Port != "3000" || cfg.StoreDriver != "memory" || !cfg.Seed {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.AnimationDuration != 3*time.Second {
		t.Errorf("Expected 3s animation duration, got %v", cfg.AnimationDuration)
	}
	if cfg.FrameRate != 60 || cfg.WSPort != "3004" {
		t.Errorf("Unexpected editor defaults %+v", cfg)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeOverlay(t, overlay))
	cfg := Load()

	if cfg.Port != "4000" {
		t.Errorf("Expected port from file, got %s", cfg.Port)
	}
	if cfg.StoreDriver != "sqlite" || cfg.SQLitePath != "/tmp/plays.db" || cfg.Seed {
		t.Errorf("Store settings not applied: %+v", cfg)
	}
	if cfg.AnimationDuration != 5*time.Second || cfg.FrameRate != 30 {
		t.Errorf("Editor settings not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.ReadTimeout != 10 {
		t.Errorf("Unexpected log/timeout settings: %+v", cfg)
	}
}

func TestEnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeOverlay(t, overlay))
	t.Setenv("PORT", "5000")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("SEED", "true")
	t.Setenv("FRAME_RATE", "not-a-number")

	cfg := Load()
	if cfg.Port != "5000" || cfg.StoreDriver != "redis" || !cfg.Seed {
		t.Errorf("Environment did not win: %+v", cfg)
	}
	if cfg.FrameRate != 30 {
		t.Errorf("Invalid env int should fall back to file value, got %d", cfg.FrameRate)
	}
}

func TestLoadBadFileFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeOverlay(t, "port: [unclosed"))
	if cfg := Load(); cfg.Port != "3000" {
		t.Errorf("Expected defaults on bad file, got %s", cfg.Port)
	}

	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg := Load(); cfg.StoreDriver != "memory" {
		t.Errorf("Expected defaults on missing file, got %s", cfg.StoreDriver)
	}
}
