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

	"gopkg.in/yaml.v3"
)

const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"

	AdvisorGemini = "gemini"
	AdvisorPlugin = "plugin"
	AdvisorNone   = "none"
)

type Config struct {
	Dir              string
	DataDir          string
	DBPath           string
	LockPath         string
	ConfigPath       string
	Store            string
	StoreLockTimeout time.Duration
	Log              LogConfig
	Timer            TimerConfig
	Advisor          AdvisorConfig
}

type LogConfig struct {
	Level string
	File  string
}

type TimerConfig struct {
	DefaultMinutes int
	TickInterval   time.Duration
}

type AdvisorConfig struct {
	Provider       string
	Model          string
	Endpoint       string
	Temperature    float64
	APIKeyEnv      string
	Timeout        time.Duration
	PluginManifest string
}

// fileConfig mirrors config.yaml. Pointer fields distinguish "unset" from zero.
type fileConfig struct {
	Store            string `yaml:"store"`
	StoreLockTimeout string `yaml:"store_lock_timeout"`
	Log              struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Timer struct {
		DefaultMinutes *int   `yaml:"default_minutes"`
		TickInterval   string `yaml:"tick_interval"`
	} `yaml:"timer"`
	Advisor struct {
		Provider       string   `yaml:"provider"`
		Model          string   `yaml:"model"`
		Endpoint       string   `yaml:"endpoint"`
		Temperature    *float64 `yaml:"temperature"`
		APIKeyEnv      string   `yaml:"api_key_env"`
		Timeout        string   `yaml:"timeout"`
		PluginManifest string   `yaml:"plugin_manifest"`
	} `yaml:"advisor"`
}

func New(dir string) (Config, error) {
	if dir == "" {
		return Config{}, fmt.Errorf("data root is required")
	}
	dataDir := filepath.Join(dir, ".brewlog")
	cfg := Config{
		Dir:              dir,
		DataDir:          dataDir,
		DBPath:           filepath.Join(dataDir, "brewlog.db"),
		LockPath:         filepath.Join(dataDir, "store.lock"),
		ConfigPath:       filepath.Join(dataDir, "config.yaml"),
		Store:            StoreSQLite,
		StoreLockTimeout: 2 * time.Second,
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "brewlog.log"),
		},
		Timer: TimerConfig{
			DefaultMinutes: 60,
			TickInterval:   time.Second,
		},
		Advisor: AdvisorConfig{
			Provider:       AdvisorGemini,
			Model:          "gemini-3-flash-preview",
			Endpoint:       "https://generativelanguage.googleapis.com/v1beta",
			Temperature:    0.7,
			APIKeyEnv:      "GEMINI_API_KEY",
			Timeout:        20 * time.Second,
			PluginManifest: filepath.Join(dataDir, "plugins", "advisor.json"),
		},
	}

	raw, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.overlay(raw); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) overlay(raw []byte) error {
	fc := fileConfig{}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode config %s: %w", c.ConfigPath, err)
	}

	if fc.Store != "" {
		c.Store = strings.ToLower(strings.TrimSpace(fc.Store))
	}
	if err := parseDuration(fc.StoreLockTimeout, &c.StoreLockTimeout); err != nil {
		return fmt.Errorf("store_lock_timeout: %w", err)
	}
	if fc.Log.Level != "" {
		c.Log.Level = fc.Log.Level
	}
	if fc.Log.File != "" {
		c.Log.File = c.resolve(fc.Log.File)
	}
	if fc.Timer.DefaultMinutes != nil {
		c.Timer.DefaultMinutes = *fc.Timer.DefaultMinutes
	}
	if err := parseDuration(fc.Timer.TickInterval, &c.Timer.TickInterval); err != nil {
		return fmt.Errorf("timer.tick_interval: %w", err)
	}
	if fc.Advisor.Provider != "" {
		c.Advisor.Provider = strings.ToLower(strings.TrimSpace(fc.Advisor.Provider))
	}
	if fc.Advisor.Model != "" {
		c.Advisor.Model = fc.Advisor.Model
	}
	if fc.Advisor.Endpoint != "" {
		c.Advisor.Endpoint = strings.TrimRight(fc.Advisor.Endpoint, "/")
	}
	if fc.Advisor.Temperature != nil {
		c.Advisor.Temperature = *fc.Advisor.Temperature
	}
	if fc.Advisor.APIKeyEnv != "" {
		c.Advisor.APIKeyEnv = fc.Advisor.APIKeyEnv
	}
	if err := parseDuration(fc.Advisor.Timeout, &c.Advisor.Timeout); err != nil {
		return fmt.Errorf("advisor.timeout: %w", err)
	}
	if fc.Advisor.PluginManifest != "" {
		c.Advisor.PluginManifest = c.resolve(fc.Advisor.PluginManifest)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreFile:
	default:
		return fmt.Errorf("unsupported store %q (want sqlite|file)", c.Store)
	}
	switch c.Advisor.Provider {
	case AdvisorGemini, AdvisorPlugin, AdvisorNone:
	default:
		return fmt.Errorf("unsupported advisor provider %q (want gemini|plugin|none)", c.Advisor.Provider)
	}
	if c.Timer.DefaultMinutes < 0 {
		return fmt.Errorf("timer.default_minutes must be non-negative")
	}
	if c.Timer.TickInterval <= 0 {
		return fmt.Errorf("timer.tick_interval must be positive")
	}
	return nil
}

// APIKey returns the advisor key from the configured env var, then API_KEY.
func (c Config) APIKey() string {
	if v := strings.TrimSpace(os.Getenv(c.Advisor.APIKeyEnv)); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv("API_KEY"))
}

// resolve makes relative paths relative to the data root.
func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(c.Dir, path))
}

func parseDuration(raw string, dst *time.Duration) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
