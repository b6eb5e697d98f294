package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DIVIDER_DEBUG", "DIVIDER_LOG_FILE", "DIVIDER_PROGRAM", "DIVIDER_BUILD_TIMEOUT", "DIVIDER_DEBUG_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
	if cfg.LogFile != "mcp-go-divider.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	if cfg.Program != "./cmd/divide" {
		t.Errorf("Program = %q", cfg.Program)
	}
	if cfg.BuildTimeout != 2*time.Minute {
		t.Errorf("BuildTimeout = %s", cfg.BuildTimeout)
	}
	if cfg.DebugTimeout != 10*time.Second {
		t.Errorf("DebugTimeout = %s", cfg.DebugTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DIVIDER_DEBUG", "true")
	t.Setenv("DIVIDER_PROGRAM", "/tmp/main.go")
	t.Setenv("DIVIDER_BUILD_TIMEOUT", "5m")
	t.Setenv("DIVIDER_DEBUG_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.Program != "/tmp/main.go" {
		t.Errorf("Program = %q", cfg.Program)
	}
	if cfg.BuildTimeout != 5*time.Minute {
		t.Errorf("BuildTimeout = %s", cfg.BuildTimeout)
	}
	if cfg.DebugTimeout != 30*time.Second {
		t.Errorf("DebugTimeout = %s", cfg.DebugTimeout)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"DIVIDER_DEBUG":         "maybe",
		"DIVIDER_BUILD_TIMEOUT": "0s",
		"DIVIDER_DEBUG_TIMEOUT": "-1s",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%q", key, value)
			}
		})
	}
}
