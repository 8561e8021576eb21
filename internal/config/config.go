// Package config loads shellmenu settings from config.yaml, SHELLMENU_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"shellmenu/internal/dict"
	"shellmenu/internal/menu"
	"shellmenu/internal/platform"
)

const (
	// AppName names the config directory.
	AppName = "shellmenu"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// EnvPrefix prefixes environment overrides, e.g. SHELLMENU_LOG_LEVEL.
	EnvPrefix = "SHELLMENU"
)

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config holds the application configuration.
	Config struct {
		Store        StoreConfig        `mapstructure:"store"`
		Platform     PlatformConfig     `mapstructure:"platform"`
		Dictionaries DictionariesConfig `mapstructure:"dictionaries"`
		CommandStore CommandStoreConfig `mapstructure:"command_store"`
		Log          LogConfig          `mapstructure:"log"`
		Web          WebConfig          `mapstructure:"web"`
	}

	// StoreConfig selects the backing store. An empty Fixture means the
	// system registry.
	StoreConfig struct {
		Fixture string `mapstructure:"fixture"`
	}

	// PlatformConfig pins the Windows version used for capability checks.
	PlatformConfig struct {
		Version string `mapstructure:"version"`
	}

	// DictionariesConfig points at user and refreshed copies of the
	// supplementary dictionaries.
	DictionariesConfig struct {
		UWPModeItems    string        `mapstructure:"uwp_mode_items"`
		GUIDInfos       string        `mapstructure:"guid_infos"`
		WebUWPModeItems string        `mapstructure:"web_uwp_mode_items"`
		WebGUIDInfos    string        `mapstructure:"web_guid_infos"`
		CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	}

	// CommandStoreConfig lists CommandStore verbs that belong to the system.
	CommandStoreConfig struct {
		Excluded []string `mapstructure:"excluded"`
	}

	LogConfig struct {
		Level string `mapstructure:"level"`
	}

	WebConfig struct {
		Port int `mapstructure:"port"`
	}
)

// ConfigDir returns the platform configuration directory: %APPDATA% on
// Windows, ~/Library/Application Support on macOS and $XDG_CONFIG_HOME
// (default ~/.config) elsewhere.
func ConfigDir() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		dir = os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Platform: PlatformConfig{Version: platform.Default.Original()},
		Dictionaries: DictionariesConfig{
			CacheTTL: dict.DefaultTTL,
		},
		CommandStore: CommandStoreConfig{Excluded: menu.DefaultSystemStoreNames},
		Log:          LogConfig{Level: "info"},
		Web:          WebConfig{Port: 8080},
	}
}

// Load reads path, or config.yaml in dir when path is empty. A missing
// default file is not an error; a missing explicit file is.
func Load(path, dir string) (*Config, error) {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("store.fixture", d.Store.Fixture)
	v.SetDefault("platform.version", d.Platform.Version)
	v.SetDefault("dictionaries.uwp_mode_items", "")
	v.SetDefault("dictionaries.guid_infos", "")
	v.SetDefault("dictionaries.web_uwp_mode_items", "")
	v.SetDefault("dictionaries.web_guid_infos", "")
	v.SetDefault("dictionaries.cache_ttl", d.Dictionaries.CacheTTL)
	v.SetDefault("command_store.excluded", d.CommandStore.Excluded)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("web.port", d.Web.Port)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if dir == "" {
			var err error
			if dir, err = ConfigDir(); err != nil {
				return nil, err
			}
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config in %s: %w", dir, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that decoding cannot.
func (c *Config) Validate() error {
	if _, err := platform.FromVersion(c.Platform.Version); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Dictionaries.CacheTTL < 0 {
		return fmt.Errorf("%w: negative dictionaries.cache_ttl %s", ErrInvalidConfig, c.Dictionaries.CacheTTL)
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return fmt.Errorf("%w: web.port %d out of range", ErrInvalidConfig, c.Web.Port)
	}
	return nil
}

// Caps derives platform capabilities from the configured version.
func (c *Config) Caps() (platform.Caps, error) {
	return platform.FromVersion(c.Platform.Version)
}

// DictionaryFiles maps the dictionary settings to source files.
func (c *Config) DictionaryFiles() dict.Files {
	return dict.Files{
		UserUWPModeItems: c.Dictionaries.UWPModeItems,
		WebUWPModeItems:  c.Dictionaries.WebUWPModeItems,
		UserGUIDInfos:    c.Dictionaries.GUIDInfos,
		WebGUIDInfos:     c.Dictionaries.WebGUIDInfos,
	}
}
