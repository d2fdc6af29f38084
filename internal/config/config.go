package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the HTTP API bind configuration.
type Server struct {
	Bind    string `toml:"bind"`
	BaseURL string `toml:"base_url"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Vision contains configuration for the image extraction model.
type Vision struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// GoogleBooks contains configuration for the rich-metadata catalog.
type GoogleBooks struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// OpenLibrary contains configuration for the broad-coverage catalog.
type OpenLibrary struct {
	BaseURL        string `toml:"base_url"`
	CoversBaseURL  string `toml:"covers_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Covers contains configuration for the cover-by-title-author service.
type Covers struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Geocoding contains configuration for forward/reverse geocoding.
type Geocoding struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Search contains catalog search tuning.
type Search struct {
	ResultLimit int `toml:"result_limit"`
}

// Detector contains the mini-library change detector thresholds. The
// defaults are heuristics carried from production, not tuned values.
type Detector struct {
	MatchThreshold   float64 `toml:"match_threshold"`
	AddConfidence    float64 `toml:"add_confidence"`
	RemoveConfidence float64 `toml:"remove_confidence"`
}

// RateLimit contains the per-actor list-creation limiter settings.
type RateLimit struct {
	WindowSeconds   int `toml:"window_seconds"`
	EvictionSeconds int `toml:"eviction_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the daemon and CLI.
//
// Configuration sections by subsystem:
//   - Server: HTTP API bind address and public base URL
//   - Paths: data and log directories
//   - Vision: image extraction model connection
//   - GoogleBooks / OpenLibrary / Covers: catalog and cover services
//   - Geocoding: forward/reverse geocoding service
//   - Search: catalog search tuning
//   - Detector: mini-library diff thresholds
//   - RateLimit: duplicate list-creation guard
//   - Logging: log format and level
type Config struct {
	Server      Server      `toml:"server"`
	Paths       Paths       `toml:"paths"`
	Vision      Vision      `toml:"vision"`
	GoogleBooks GoogleBooks `toml:"googlebooks"`
	OpenLibrary OpenLibrary `toml:"openlibrary"`
	Covers      Covers      `toml:"covers"`
	Geocoding   Geocoding   `toml:"geocoding"`
	Search      Search      `toml:"search"`
	Detector    Detector    `toml:"detector"`
	RateLimit   RateLimit   `toml:"ratelimit"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bookdroplist/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("bookdroplist.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	for _, base := range []*string{
		&c.Vision.BaseURL,
		&c.GoogleBooks.BaseURL,
		&c.OpenLibrary.BaseURL,
		&c.OpenLibrary.CoversBaseURL,
		&c.Covers.BaseURL,
		&c.Geocoding.BaseURL,
	} {
		*base = strings.TrimRight(strings.TrimSpace(*base), "/")
	}
	return nil
}

// EnsureDirectories creates the directories required for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "bookdroplist.db")
}

// LockPath returns the daemon lock file location under the data dir.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "bookdropd.lock")
}

// LogFilePath returns the daemon log file location, or "" when no log dir
// is configured.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "bookdropd.log")
}

// CreateSample writes a sample configuration file to the given path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ and relative segments to an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
