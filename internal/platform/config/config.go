package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"
	EnvFile  = ".env"

	defaultFlushInterval     = 10 * time.Second
	defaultThemePollInterval = time.Second
	defaultShortcut          = "Alt+Shift+T"
	defaultLogLevel          = "info"
)

type Config struct {
	DataDir    string
	DBPath     string
	SocketPath string
	PIDPath    string
	LogPath    string
	IconDir    string

	LogLevel          string
	FlushInterval     time.Duration
	ThemePollInterval time.Duration
	PopupShortcut     string

	Notifier NotifierConfig
}

// NotifierConfig selects an external notifier plugin. An empty Plugin means log-only notifications.
type NotifierConfig struct {
	Plugin string
	SHA256 string
}

type fileConfig struct {
	LogLevel          string `yaml:"log_level"`
	FlushInterval     string `yaml:"flush_interval"`
	ThemePollInterval string `yaml:"theme_poll_interval"`
	PopupShortcut     string `yaml:"popup_shortcut"`
	Notifier          struct {
		Plugin string `yaml:"plugin"`
		SHA256 string `yaml:"sha256"`
	} `yaml:"notifier"`
}

// New builds the configuration rooted at dataDir: defaults, then config.yaml, then .env and
// process environment (TYPETRACK_*), each layer overriding the previous one.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Defaults(dataDir)
	if err := cfg.applyFile(filepath.Join(dataDir, FileName)); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(filepath.Join(dataDir, EnvFile)); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Defaults(dataDir string) Config {
	return Config{
		DataDir:           dataDir,
		DBPath:            filepath.Join(dataDir, "typetrack.db"),
		SocketPath:        filepath.Join(dataDir, "daemon.sock"),
		PIDPath:           filepath.Join(dataDir, "daemon.pid"),
		LogPath:           filepath.Join(dataDir, "typetrack.log"),
		IconDir:           filepath.Join(dataDir, "icons"),
		LogLevel:          defaultLogLevel,
		FlushInterval:     defaultFlushInterval,
		ThemePollInterval: defaultThemePollInterval,
		PopupShortcut:     defaultShortcut,
	}
}

// DefaultDataDir is ~/.typetrack, falling back to ./.typetrack when no home is known.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".typetrack"
	}
	return filepath.Join(home, ".typetrack")
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	fc := fileConfig{}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.FlushInterval != "" {
		d, err := time.ParseDuration(fc.FlushInterval)
		if err != nil {
			return fmt.Errorf("config: flush_interval: %w", err)
		}
		c.FlushInterval = d
	}
	if fc.ThemePollInterval != "" {
		d, err := time.ParseDuration(fc.ThemePollInterval)
		if err != nil {
			return fmt.Errorf("config: theme_poll_interval: %w", err)
		}
		c.ThemePollInterval = d
	}
	if fc.PopupShortcut != "" {
		c.PopupShortcut = fc.PopupShortcut
	}
	if fc.Notifier.Plugin != "" {
		c.Notifier.Plugin = c.resolve(fc.Notifier.Plugin)
		c.Notifier.SHA256 = strings.ToLower(fc.Notifier.SHA256)
	}
	return nil
}

func (c *Config) applyEnv(envPath string) error {
	values := map[string]string{}
	if _, err := os.Stat(envPath); err == nil {
		fileValues, err := godotenv.Read(envPath)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", envPath, err)
		}
		values = fileValues
	}
	for _, key := range []string{"TYPETRACK_LOG_LEVEL", "TYPETRACK_NOTIFIER_PLUGIN", "TYPETRACK_NOTIFIER_SHA256"} {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}
	if v := values["TYPETRACK_LOG_LEVEL"]; v != "" {
		c.LogLevel = v
	}
	if v := values["TYPETRACK_NOTIFIER_PLUGIN"]; v != "" {
		c.Notifier.Plugin = c.resolve(v)
	}
	if v := values["TYPETRACK_NOTIFIER_SHA256"]; v != "" {
		c.Notifier.SHA256 = strings.ToLower(v)
	}
	return nil
}

func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(c.DataDir, path))
}

func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("config: flush interval must be positive")
	}
	if c.ThemePollInterval <= 0 {
		return fmt.Errorf("config: theme poll interval must be positive")
	}
	if c.Notifier.Plugin != "" && len(c.Notifier.SHA256) != 64 {
		return fmt.Errorf("config: notifier plugin requires a 64-char sha256")
	}
	return nil
}
