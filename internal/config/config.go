package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const appName = "recordmachine"

type Config struct {
	Library  LibraryConfig  `koanf:"library"`
	Playback PlaybackConfig `koanf:"playback"`
	MPRIS    MPRISConfig    `koanf:"mpris"`
	Notify   NotifyConfig   `koanf:"notify"`
	Log      LogConfig      `koanf:"log"`
}

// LibraryConfig locates the database and the imported audio files.
type LibraryConfig struct {
	DBPath           string `koanf:"db_path"`           // default: $XDG_DATA_HOME/recordmachine/library.db
	AssetDir         string `koanf:"asset_dir"`         // default: $XDG_DATA_HOME/recordmachine/audio
	DefaultExtension string `koanf:"default_extension"` // used when a track has no cached file (default: "m4a")
}

// PlaybackConfig tunes the player. Durations use Go syntax ("250ms", "1s").
type PlaybackConfig struct {
	SyncInterval string `koanf:"sync_interval"` // media controls refresh (default: 250ms)
	RewindWindow string `koanf:"rewind_window"` // double-press window for previous (default: 1s)
}

// MPRISConfig controls desktop media control integration.
type MPRISConfig struct {
	Enabled *bool  `koanf:"enabled"` // default: true
	Name    string `koanf:"name"`    // bus name suffix (default: "recordmachine")
}

// NotifyConfig controls desktop notifications on track changes.
type NotifyConfig struct {
	Enabled bool `koanf:"enabled"` // default: false
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: "info")
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/recordmachine/recordmachine.log
}

func Load() (*Config, error) {
	return load(getConfigPaths())
}

// LoadFrom reads a single config file. Unlike Load, a missing file is an
// error.
func LoadFrom(path string) (*Config, error) {
	path = expandPath(path)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return load([]string{path})
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Later files override earlier ones.
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Library.DBPath = expandPath(cfg.Library.DBPath)
	cfg.Library.AssetDir = expandPath(cfg.Library.AssetDir)
	cfg.Library.DefaultExtension = strings.TrimPrefix(cfg.Library.DefaultExtension, ".")
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/recordmachine/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// DBPath returns the library database path.
func (c *Config) DBPath() string {
	if c.Library.DBPath != "" {
		return c.Library.DBPath
	}
	return filepath.Join(xdg.DataHome, appName, "library.db")
}

// AssetDir returns the directory holding imported audio files.
func (c *Config) AssetDir() string {
	if c.Library.AssetDir != "" {
		return c.Library.AssetDir
	}
	return filepath.Join(xdg.DataHome, appName, "audio")
}

// DefaultExtension returns the extension assumed for tracks without a
// cached file location.
func (c *Config) DefaultExtension() string {
	if c.Library.DefaultExtension != "" {
		return c.Library.DefaultExtension
	}
	return "m4a"
}

// SyncInterval returns the media controls refresh period.
func (c *Config) SyncInterval() time.Duration {
	return parseDuration(c.Playback.SyncInterval, 250*time.Millisecond)
}

// RewindWindow returns how long a second rewind press goes to the
// previous track.
func (c *Config) RewindWindow() time.Duration {
	return parseDuration(c.Playback.RewindWindow, time.Second)
}

// MPRISEnabled reports whether desktop media controls are registered.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

// MPRISName returns the bus name suffix.
func (c *Config) MPRISName() string {
	if c.MPRIS.Name != "" {
		return c.MPRIS.Name
	}
	return appName
}

// NotifyEnabled reports whether track changes raise desktop notifications.
func (c *Config) NotifyEnabled() bool {
	return c.Notify.Enabled
}

// LogLevel returns the configured level, falling back to info for empty
// or unknown names.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil || c.Log.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// LogFile returns the log file path.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
