package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DEV_LOGGING", "")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Fatalf("want default port 8080, got %d", cfg.Port)
	}
	if cfg.DevLogging {
		t.Fatalf("dev logging should default to off")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DEV_LOGGING", "true")

	cfg := Load()
	if cfg.Port != 3000 {
		t.Fatalf("want port 3000, got %d", cfg.Port)
	}
	if !cfg.DevLogging {
		t.Fatalf("dev logging should be on")
	}
}

func TestLoad_IgnoresGarbage(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("DEV_LOGGING", "maybe")

	cfg := Load()
	if cfg.Port != 8080 || cfg.DevLogging {
		t.Fatalf("garbage env should fall back to defaults, got %+v", cfg)
	}
}
