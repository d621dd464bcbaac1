package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupTestEnv isolates the test from the host's real config and env.
func setupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// Clear any TADA_ env vars that could leak into the test
	for _, key := range []string{
		"TADA_API_URL", "TADA_API_TOKEN", "TADA_USER", "TADA_REQUEST_TIMEOUT",
		"TADA_DATA_DIR", "TADA_LOG_LEVEL", "TADA_LOG_FILE", "TADA_AUTOSAVE",
		"TADA_SCHEMA_FILE", "TADA_LISTEN_ADDR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	// Run from a scratch directory so no project tada.yml is picked up
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	workDir := filepath.Join(tmpDir, "work")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	return workDir
}

func TestLoadDefaults(t *testing.T) {
	setupTestEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIURL != "http://localhost:8642" {
		t.Errorf("expected default api_url, got %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("expected default request_timeout 15s, got %v", cfg.RequestTimeout)
	}
	if cfg.DataDir != ".tada" {
		t.Errorf("expected default data_dir '.tada', got %q", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log_level 'info', got %q", cfg.LogLevel)
	}
	if !cfg.Autosave {
		t.Error("expected autosave to default to true")
	}
	if cfg.ListenAddr != "localhost:8642" {
		t.Errorf("expected default listen_addr, got %q", cfg.ListenAddr)
	}
}

func TestLoadFromEnv(t *testing.T) {
	setupTestEnv(t)

	t.Setenv("TADA_API_URL", "https://api.tada.example")
	t.Setenv("TADA_USER", "renter@example.com")
	t.Setenv("TADA_AUTOSAVE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIURL != "https://api.tada.example" {
		t.Errorf("expected env api_url, got %q", cfg.APIURL)
	}
	if cfg.User != "renter@example.com" {
		t.Errorf("expected env user, got %q", cfg.User)
	}
	if cfg.Autosave {
		t.Error("expected autosave false from env")
	}
}

func TestLoadFromProjectFile(t *testing.T) {
	workDir := setupTestEnv(t)

	content := "api_url: https://file.tada.example\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(workDir, "tada.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing project config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIURL != "https://file.tada.example" {
		t.Errorf("expected project file api_url, got %q", cfg.APIURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected project file log_level 'debug', got %q", cfg.LogLevel)
	}
}

func TestEnvOverridesProjectFile(t *testing.T) {
	workDir := setupTestEnv(t)

	content := "api_url: https://file.tada.example\n"
	if err := os.WriteFile(filepath.Join(workDir, "tada.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing project config: %v", err)
	}
	t.Setenv("TADA_API_URL", "https://env.tada.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIURL != "https://env.tada.example" {
		t.Errorf("expected env to win over project file, got %q", cfg.APIURL)
	}
}

func TestProjectOverridesGlobal(t *testing.T) {
	workDir := setupTestEnv(t)

	globalDir := filepath.Dir(GlobalPath())
	if err := os.MkdirAll(globalDir, 0755); err != nil {
		t.Fatalf("mkdir global config dir: %v", err)
	}
	if err := os.WriteFile(GlobalPath(), []byte("api_url: https://global.tada.example\nuser: global@example.com\n"), 0644); err != nil {
		t.Fatalf("writing global config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workDir, "tada.yml"), []byte("api_url: https://project.tada.example\n"), 0644); err != nil {
		t.Fatalf("writing project config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIURL != "https://project.tada.example" {
		t.Errorf("expected project file to win, got %q", cfg.APIURL)
	}
	// Keys absent from the project file fall through to the global file
	if cfg.User != "global@example.com" {
		t.Errorf("expected user from global config, got %q", cfg.User)
	}
}

func TestWriteAndReloadProject(t *testing.T) {
	setupTestEnv(t)

	cfg := &Config{
		APIURL:         "https://saved.tada.example",
		User:           "writer@example.com",
		RequestTimeout: 30 * time.Second,
		DataDir:        ".tada",
		LogLevel:       "warn",
		Autosave:       true,
		ListenAddr:     "localhost:9000",
	}
	if err := WriteProject(cfg); err != nil {
		t.Fatalf("WriteProject failed: %v", err)
	}

	if !Exists() {
		t.Error("Exists should report true after WriteProject")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.APIURL != cfg.APIURL {
		t.Errorf("expected reloaded api_url %q, got %q", cfg.APIURL, loaded.APIURL)
	}
	if loaded.User != cfg.User {
		t.Errorf("expected reloaded user %q, got %q", cfg.User, loaded.User)
	}
	if loaded.LogLevel != "warn" {
		t.Errorf("expected reloaded log_level 'warn', got %q", loaded.LogLevel)
	}
}
