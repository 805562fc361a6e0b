package config

import (
	"os"
	"testing"
)

// isolate runs the test from an empty directory with no BANK_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"BANK_STORAGE_DRIVER", "BANK_STORAGE_PATH", "BANK_LOG_LEVEL", "BANK_LOG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Storage.Driver != DriverJSON || cfg.Storage.Path != "account.json" {
		t.Fatalf("storage=%+v", cfg.Storage)
	}
	if cfg.Log.Level != "info" || cfg.Log.File != "bank.log" {
		t.Fatalf("log=%+v", cfg.Log)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("BANK_STORAGE_DRIVER", "SQLite")
	t.Setenv("BANK_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.Path != "account.db" {
		t.Fatalf("storage=%+v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level=%q want debug", cfg.Log.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	content := "storage:\n  path: data/my-account.json\nlog:\n  file: \"\"\n"
	if err := os.WriteFile(dir+"/config.yaml", []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Storage.Path != "data/my-account.json" {
		t.Fatalf("path=%q", cfg.Storage.Path)
	}
	if cfg.Log.File != "" {
		t.Fatalf("log file=%q want empty", cfg.Log.File)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	content := "# local overrides\nBANK_STORAGE_PATH=\"from-dotenv.json\"\nBANK_LOG_LEVEL=debug\n"
	if err := os.WriteFile(dir+"/.env", []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BANK_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Storage.Path != "from-dotenv.json" {
		t.Fatalf("path=%q want from-dotenv.json", cfg.Storage.Path)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("level=%q, environment should win over .env", cfg.Log.Level)
	}
}

func TestLoadUnknownDriver(t *testing.T) {
	isolate(t)
	t.Setenv("BANK_STORAGE_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("want error for unknown driver")
	}
}
