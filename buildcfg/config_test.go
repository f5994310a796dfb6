package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Header.CartType != 0x00 {
		t.Errorf("Expected CartType=0x00, got %d", cfg.Header.CartType)
	}
	if cfg.Header.Destination != 0x01 {
		t.Errorf("Expected Destination=0x01, got %d", cfg.Header.Destination)
	}
	if cfg.Header.LicenseCode != 0x33 {
		t.Errorf("Expected LicenseCode=0x33, got %d", cfg.Header.LicenseCode)
	}

	if !cfg.Output.PadToPowerOfTwo {
		t.Error("Expected PadToPowerOfTwo=true")
	}
	if cfg.Output.PadByte != 0xFF {
		t.Errorf("Expected PadByte=0xFF, got %d", cfg.Output.PadByte)
	}
	if cfg.Output.DefaultPath != "out.gb" {
		t.Errorf("Expected DefaultPath=out.gb, got %s", cfg.Output.DefaultPath)
	}

	if cfg.Include.MaxDepth != 16 {
		t.Errorf("Expected MaxDepth=16, got %d", cfg.Include.MaxDepth)
	}

	if !cfg.Lint.CheckUnused || !cfg.Lint.CheckReach || !cfg.Lint.CheckQuirks {
		t.Error("Expected lint checks enabled by default")
	}
	if cfg.Lint.Strict {
		t.Error("Expected Strict=false by default")
	}

	if cfg.Format.Style != "default" {
		t.Errorf("Expected Format.Style=default, got %s", cfg.Format.Style)
	}
	if cfg.Format.MnemonicColumn != 8 {
		t.Errorf("Expected MnemonicColumn=8, got %d", cfg.Format.MnemonicColumn)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "gbasm" && path != "config.toml" {
			t.Errorf("Expected path in gbasm directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()

	if path == "" {
		t.Error("GetLogPath returned empty string")
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "logs" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Header.Title = "TESTROM"
	cfg.Header.CartType = 0x01
	cfg.Output.PadToPowerOfTwo = false
	cfg.Include.SearchPaths = []string{"include", "../shared"}
	cfg.Lint.Strict = true

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Header.Title != "TESTROM" {
		t.Errorf("Expected Title=TESTROM, got %s", loaded.Header.Title)
	}
	if loaded.Header.CartType != 0x01 {
		t.Errorf("Expected CartType=0x01, got %d", loaded.Header.CartType)
	}
	if loaded.Output.PadToPowerOfTwo {
		t.Error("Expected PadToPowerOfTwo=false")
	}
	if len(loaded.Include.SearchPaths) != 2 || loaded.Include.SearchPaths[1] != "../shared" {
		t.Errorf("Expected SearchPaths round-trip, got %v", loaded.Include.SearchPaths)
	}
	if !loaded.Lint.Strict {
		t.Error("Expected Strict=true")
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Header.LicenseCode != 0x33 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[header]
cart_type = "not a number"  # Invalid: should be an int
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
