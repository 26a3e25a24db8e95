package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	perrors "github.com/zhubert/ecehelper/internal/errors"
)

// Store backends
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Defaults
const (
	DefaultBackendURL         = "http://localhost:5000"
	DefaultRequestTimeout     = 120
	DefaultRedisAddr          = "localhost:6379"
	DefaultRevealCharsPerTick = 3

	// BackendURLEnv selects the backend host; overrides the config file.
	BackendURLEnv = "ECE_BACKEND_URL"
)

// Config holds the application configuration
type Config struct {
	BackendURL            string `json:"backend_url,omitempty"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty"`

	Store     string `json:"store,omitempty"`    // "file", "redis" or "memory"
	DataDir   string `json:"data_dir,omitempty"` // Where the file store keeps its data
	RedisAddr string `json:"redis_addr,omitempty"`
	RedisDB   int    `json:"redis_db,omitempty"`

	Theme                string `json:"theme,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notification when a reply arrives
	RevealCharsPerTick   int    `json:"reveal_chars_per_tick,omitempty"`

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ecehelper"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or creates a new one if it doesn't exist.
// Environment overrides are applied after the file is read.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from the given path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, perrors.ConfigLoadFailed(path, err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, perrors.ConfigLoadFailed(path, err)
		}
	}

	cfg.applyEnv()
	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewDefault returns a config with every field at its default, backed by path.
// The environment is not consulted.
func NewDefault(path string) *Config {
	cfg := &Config{filePath: path}
	cfg.ensureInitialized()
	return cfg
}

// LoadEnvFiles loads KEY=VALUE files into the process environment.
// Missing files are ignored; variables already set win.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// applyEnv overlays environment variables on top of file values.
func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(BackendURLEnv)); v != "" {
		c.BackendURL = v
	}
}

// ensureInitialized fills in defaults for unset fields.
//
// Thread-safety: only called from LoadFrom before the Config is shared.
func (c *Config) ensureInitialized() {
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = DefaultRequestTimeout
	}
	if c.Store == "" {
		c.Store = StoreFile
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Dir(c.filePath)
	}
	if c.RedisAddr == "" {
		c.RedisAddr = DefaultRedisAddr
	}
	if c.RevealCharsPerTick <= 0 {
		c.RevealCharsPerTick = DefaultRevealCharsPerTick
	}
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return perrors.ConfigInvalid(fmt.Sprintf("backend url %q must be an absolute http(s) URL", c.BackendURL))
	}

	switch c.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return perrors.ConfigInvalid(fmt.Sprintf("unknown store %q (want file, redis or memory)", c.Store))
	}

	if c.RedisDB < 0 {
		return perrors.ConfigInvalid("redis_db must not be negative")
	}

	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.filePath
}

// GetBackendURL returns the backend base URL without a trailing slash
func (c *Config) GetBackendURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.BackendURL
}

// SetBackendURL overrides the backend base URL (e.g. from a CLI flag)
func (c *Config) SetBackendURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.BackendURL = strings.TrimRight(u, "/")
}

// GetRequestTimeout returns the per-request timeout for backend calls
func (c *Config) GetRequestTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// GetStore returns the configured store backend
func (c *Config) GetStore() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Store
}

// SetStore sets the store backend
func (c *Config) SetStore(store string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Store = store
}

// GetDataDir returns the data directory used by the file store
func (c *Config) GetDataDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DataDir
}

// GetRedis returns the redis address and database index
func (c *Config) GetRedis() (addr string, db int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RedisAddr, c.RedisDB
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetRevealCharsPerTick returns how many graphemes the typing reveal advances per tick
func (c *Config) GetRevealCharsPerTick() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RevealCharsPerTick
}

// SetRevealCharsPerTick sets the reveal speed. Values below 1 restore the default.
func (c *Config) SetRevealCharsPerTick(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 {
		n = DefaultRevealCharsPerTick
	}
	c.RevealCharsPerTick = n
}
