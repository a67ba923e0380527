package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"typetrack/internal/platform/config"
)

func TestNewUsesDefaultsWithoutFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "typetrack.db") || cfg.SocketPath != filepath.Join(dir, "daemon.sock") {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.FlushInterval != 10*time.Second || cfg.ThemePollInterval != time.Second {
		t.Fatalf("unexpected intervals: %s %s", cfg.FlushInterval, cfg.ThemePollInterval)
	}
	if cfg.Notifier.Plugin != "" {
		t.Fatalf("expected log-only notifier by default")
	}
}

func TestNewRequiresDataDir(t *testing.T) {
	if _, err := config.New(""); err == nil {
		t.Fatalf("expected error for empty data dir")
	}
}

func TestNewAppliesYAMLThenEnvFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "log_level: debug\nflush_interval: 30s\npopup_shortcut: Ctrl+Y\nnotifier:\n  plugin: plugins/notify-send\n  sha256: " + sha() + "\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.EnvFile), []byte("TYPETRACK_LOG_LEVEL=warn\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected .env to override yaml log level, got %s", cfg.LogLevel)
	}
	if cfg.FlushInterval != 30*time.Second || cfg.PopupShortcut != "Ctrl+Y" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.Notifier.Plugin != filepath.Join(dir, "plugins", "notify-send") {
		t.Fatalf("expected plugin resolved against data dir, got %s", cfg.Notifier.Plugin)
	}
}

func TestNewRejectsUnknownYAMLField(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("bogus: true\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if _, err := config.New(dir); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestNewRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"level":    "log_level: loud\n",
		"duration": "flush_interval: soon\n",
		"negative": "theme_poll_interval: -1s\n",
		"sha":      "notifier:\n  plugin: /bin/true\n  sha256: abc\n",
	}
	for name, body := range cases {
		name, body := name, body
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0o644); err != nil {
				t.Fatalf("write yaml: %v", err)
			}
			if _, err := config.New(dir); err == nil {
				t.Fatalf("expected config error for %q", body)
			}
		})
	}
}

func sha() string {
	return "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
}
