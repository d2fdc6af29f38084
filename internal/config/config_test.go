package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("missing file should report exists=false")
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Server.Bind != DefaultBind {
		t.Errorf("bind = %q, want default", cfg.Server.Bind)
	}
	if cfg.Search.ResultLimit != DefaultSearchResultLimit {
		t.Errorf("result limit = %d, want %d", cfg.Search.ResultLimit, DefaultSearchResultLimit)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[server]
bind = "0.0.0.0:9000"
base_url = "https://books.example.com/"

[paths]
data_dir = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"

[search]
result_limit = 5

[googlebooks]
base_url = "https://gb.example.com/"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Error("file should report exists=true")
	}
	if cfg.Server.Bind != "0.0.0.0:9000" {
		t.Errorf("bind = %q", cfg.Server.Bind)
	}
	if cfg.Server.BaseURL != "https://books.example.com" {
		t.Errorf("base_url should lose trailing slash, got %q", cfg.Server.BaseURL)
	}
	if cfg.GoogleBooks.BaseURL != "https://gb.example.com" {
		t.Errorf("googlebooks base should lose trailing slash, got %q", cfg.GoogleBooks.BaseURL)
	}
	if cfg.Search.ResultLimit != 5 {
		t.Errorf("result limit = %d, want 5", cfg.Search.ResultLimit)
	}
	// Unset sections keep defaults.
	if cfg.Detector.MatchThreshold != DefaultMatchThreshold {
		t.Errorf("match threshold = %v, want default", cfg.Detector.MatchThreshold)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"zero result limit", "[search]\nresult_limit = 0\n", "search.result_limit"},
		{"threshold above one", "[detector]\nmatch_threshold = 1.5\n", "detector.match_threshold"},
		{"eviction below window", "[ratelimit]\nwindow_seconds = 30\neviction_seconds = 5\n", "ratelimit.eviction_seconds"},
		{"unknown log format", "[logging]\nformat = \"yaml\"\n", "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
	if !exists {
		t.Error("sample should exist after CreateSample")
	}
	if cfg.Vision.Model == "" {
		t.Error("sample should carry a vision model")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandPath("~/bookdroplist")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "bookdroplist") {
		t.Errorf("expandPath = %q", got)
	}
}
