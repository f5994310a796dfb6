// Package config loads and saves gbasm's build configuration: default
// cartridge header values, output ROM behavior, include search paths, and
// the lint/format defaults applied when no flags override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

const appName = "gbasm"

// storeKind distinguishes the two XDG-style locations gbasm writes to:
// configKind for config.toml itself, dataKind for its log directory. The
// two differ on every platform but Windows, where both live under
// %APPDATA%.
type storeKind int

const (
	configKind storeKind = iota
	dataKind
)

// userStoreDir resolves the platform base directory for the given store,
// without creating it. ok is false if the home directory can't be
// determined, or for configKind on a platform other than Windows, macOS
// and Linux, in which case callers fall back to a bare relative path.
func userStoreDir(kind storeKind) (dir string, ok bool) {
	if runtime.GOOS == "windows" {
		base := os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(base, appName), true
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	if kind == dataKind {
		return filepath.Join(home, ".local", "share", appName), true
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "linux" {
		return filepath.Join(home, ".config", appName), true
	}
	return "", false
}

// Config represents a gbasm project's build configuration.
type Config struct {
	// Header settings: defaults applied to rom.Header fields a build
	// doesn't set explicitly.
	Header struct {
		Title       string `toml:"title"`
		CartType    int    `toml:"cart_type"`
		ROMSizeCode int    `toml:"rom_size_code"`
		RAMSizeCode int    `toml:"ram_size_code"`
		Destination int    `toml:"destination"`
		LicenseCode int    `toml:"license_code"`
	} `toml:"header"`

	// Output settings. gbasm build reads DefaultPath only; PadToPowerOfTwo
	// and PadByte are loaded and saved but not applied (rom.Builder pads
	// with 0x00 to the next full 16 KiB bank).
	Output struct {
		PadToPowerOfTwo bool   `toml:"pad_to_power_of_two"`
		PadByte         int    `toml:"pad_byte"`
		DefaultPath     string `toml:"default_path"`
	} `toml:"output"`

	// Include settings. These are loaded and saved, but asm.IncludeResolver
	// does not read them: includes resolve only against the including
	// file's directory, with cycle detection and no depth limit.
	Include struct {
		SearchPaths  []string `toml:"search_paths"`
		MaxDepth     int      `toml:"max_depth"`
		WarnOnUnused bool     `toml:"warn_on_unused"`
	} `toml:"include"`

	// Lint settings: defaults for tools.Linter when not overridden by flags.
	Lint struct {
		Strict       bool `toml:"strict"`
		CheckUnused  bool `toml:"check_unused"`
		CheckReach   bool `toml:"check_unreachable"`
		CheckQuirks  bool `toml:"check_quirks"`
		SuggestFixes bool `toml:"suggest_fixes"`
	} `toml:"lint"`

	// Format settings. gbasm fmt reads Style when no --style flag is given;
	// the column settings are loaded and saved but not applied.
	Format struct {
		Style          string `toml:"style"` // default, compact, expanded
		MnemonicColumn int    `toml:"mnemonic_column"`
		OperandColumn  int    `toml:"operand_column"`
		CommentColumn  int    `toml:"comment_column"`
	} `toml:"format"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Header.Title = ""
	cfg.Header.CartType = 0x00 // ROM ONLY
	cfg.Header.ROMSizeCode = 0x00
	cfg.Header.RAMSizeCode = 0x00
	cfg.Header.Destination = 0x01 // non-Japanese
	cfg.Header.LicenseCode = 0x33

	cfg.Output.PadToPowerOfTwo = true
	cfg.Output.PadByte = 0xFF
	cfg.Output.DefaultPath = "out.gb"

	cfg.Include.SearchPaths = nil
	cfg.Include.MaxDepth = 16
	cfg.Include.WarnOnUnused = false

	cfg.Lint.Strict = false
	cfg.Lint.CheckUnused = true
	cfg.Lint.CheckReach = true
	cfg.Lint.CheckQuirks = true
	cfg.Lint.SuggestFixes = true

	cfg.Format.Style = "default"
	cfg.Format.MnemonicColumn = 8
	cfg.Format.OperandColumn = 16
	cfg.Format.CommentColumn = 40

	return cfg
}

// GetConfigPath returns the platform-specific config file path, creating
// its directory if needed. Falls back to a bare relative name when the
// platform or home directory can't be resolved.
func GetConfigPath() string {
	dir, ok := userStoreDir(configKind)
	if !ok {
		return "config.toml"
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path, creating it
// if needed.
func GetLogPath() string {
	dir, ok := userStoreDir(dataKind)
	if !ok {
		return "logs"
	}
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}
	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, starting from
// DefaultConfig and decoding over it so a config.toml that only sets a
// handful of keys still gets defaults for the rest. A missing file is not
// an error: it yields the default configuration unchanged.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("stat config file: %w", err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file, creating its parent
// directory if needed.
func (c *Config) SaveTo(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
