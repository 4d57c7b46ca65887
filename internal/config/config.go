package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/meme-maker/internal/logging"
	"github.com/menta2k/meme-maker/pkg/caption"
	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/platform"
	"github.com/menta2k/meme-maker/pkg/session"
)

// Config holds the application configuration
type Config struct {
	Export   ExportConfig   `json:"export" yaml:"export" toml:"export"`
	Platform PlatformConfig `json:"platform" yaml:"platform" toml:"platform"`
	Fonts    FontsConfig    `json:"fonts" yaml:"fonts" toml:"fonts"`
	Session  SessionConfig  `json:"session" yaml:"session" toml:"session"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" toml:"logging"`
}

// ExportConfig holds configuration for encoding exported memes
type ExportConfig struct {
	Format   string `json:"format" yaml:"format" toml:"format"`
	Quality  int    `json:"quality" yaml:"quality" toml:"quality"`
	Lossless bool   `json:"lossless" yaml:"lossless" toml:"lossless"`
}

// PlatformConfig selects the host variant and its directories and helpers
type PlatformConfig struct {
	Kind          string   `json:"kind" yaml:"kind" toml:"kind"`
	DataDir       string   `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	DownloadDir   string   `json:"download_dir" yaml:"download_dir" toml:"download_dir"`
	PreviewDir    string   `json:"preview_dir" yaml:"preview_dir" toml:"preview_dir"`
	ShareCommand  []string `json:"share_command,omitempty" yaml:"share_command,omitempty" toml:"share_command,omitempty"`
	BridgeCommand []string `json:"bridge_command,omitempty" yaml:"bridge_command,omitempty" toml:"bridge_command,omitempty"`
	Opener        []string `json:"opener,omitempty" yaml:"opener,omitempty" toml:"opener,omitempty"`
}

// FontsConfig registers extra caption fonts
type FontsConfig struct {
	// Fallback is the family used when a caption names no known font.
	Fallback string `json:"fallback" yaml:"fallback" toml:"fallback"`
	// Files maps family names to TrueType/OpenType files.
	Files map[string]string `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
}

// SessionConfig holds caption defaults and the image replacement policy
type SessionConfig struct {
	ReplacePolicy string  `json:"replace_policy" yaml:"replace_policy" toml:"replace_policy"`
	DefaultText   string  `json:"default_text" yaml:"default_text" toml:"default_text"`
	DefaultColor  string  `json:"default_color" yaml:"default_color" toml:"default_color"`
	DefaultFont   string  `json:"default_font" yaml:"default_font" toml:"default_font"`
	TopOffset     float64 `json:"top_offset" yaml:"top_offset" toml:"top_offset"`
}

// LoggingConfig holds configuration for the logger
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"`
	Output string `json:"output" yaml:"output" toml:"output"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Format:  string(codec.PNG),
			Quality: codec.DefaultQuality,
		},
		Platform: PlatformConfig{
			Kind:        platform.KindAuto,
			DataDir:     DataDir(),
			DownloadDir: DownloadDir(),
			PreviewDir:  filepath.Join(os.TempDir(), appName),
		},
		Fonts: FontsConfig{
			Fallback: "Impact",
		},
		Session: SessionConfig{
			ReplacePolicy: session.ReplaceClear.String(),
			DefaultText:   "Meme text",
			DefaultColor:  "white",
			DefaultFont:   "Impact",
			TopOffset:     40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// LoadFromFile loads configuration on top of the defaults. The format
// follows the extension (.toml, .yaml/.yml, .json); a missing file yields
// the defaults. Environment overrides are applied last.
func LoadFromFile(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			config.ApplyEnvOverrides()
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("failed to parse config file (unknown format): %w", err)
		}
	}

	config.ApplyEnvOverrides()
	return config, nil
}

// ApplyEnvOverrides applies MEME_* environment variables
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(platform.EnvPlatform); v != "" {
		c.Platform.Kind = v
	}
	if v := os.Getenv("MEME_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MEME_DATA_DIR"); v != "" {
		c.Platform.DataDir = v
	}
}

// SaveToFile saves configuration in the format named by the extension
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	default:
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(c)
		data = []byte(sb.String())
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := codec.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}

	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		return fmt.Errorf("export.quality must be between 1 and 100")
	}

	switch strings.ToLower(c.Platform.Kind) {
	case "", platform.KindAuto, platform.KindNative, platform.KindBrowser:
	default:
		return fmt.Errorf("platform.kind must be auto, native or browser")
	}

	for family, path := range c.Fonts.Files {
		if strings.TrimSpace(family) == "" {
			return fmt.Errorf("fonts.files: empty family name for %s", path)
		}
		if path == "" {
			return fmt.Errorf("fonts.files: no file for family %q", family)
		}
	}

	if _, err := session.ParseReplacePolicy(c.Session.ReplacePolicy); err != nil {
		return fmt.Errorf("session.replace_policy: %w", err)
	}

	if c.Session.TopOffset < 0 {
		return fmt.Errorf("session.top_offset must not be negative")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}

	return nil
}

// ExportOptions converts the export section to encoder options
func (c *Config) ExportOptions() (codec.Options, error) {
	f, err := codec.ParseFormat(c.Export.Format)
	if err != nil {
		return codec.Options{}, err
	}
	return codec.Options{Format: f, Quality: c.Export.Quality, Lossless: c.Export.Lossless}, nil
}

// PlatformOptions converts the platform section. The picker and input
// are left for the caller.
func (c *Config) PlatformOptions() platform.Config {
	return platform.Config{
		Kind:          c.Platform.Kind,
		DataDir:       c.Platform.DataDir,
		DownloadDir:   c.Platform.DownloadDir,
		PreviewDir:    c.Platform.PreviewDir,
		ShareCommand:  c.Platform.ShareCommand,
		BridgeCommand: c.Platform.BridgeCommand,
		Opener:        c.Platform.Opener,
	}
}

// SessionOptions converts the session section
func (c *Config) SessionOptions() (session.Options, error) {
	policy, err := session.ParseReplacePolicy(c.Session.ReplacePolicy)
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		Policy: policy,
		Defaults: caption.Defaults{
			Text:      c.Session.DefaultText,
			Color:     c.Session.DefaultColor,
			Font:      c.Session.DefaultFont,
			TopOffset: c.Session.TopOffset,
		},
	}, nil
}

// LoggingOptions converts the logging section
func (c *Config) LoggingOptions() (logging.Config, error) {
	cfg := logging.DefaultConfig()
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return cfg, err
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return cfg, err
	}
	cfg.Level = level
	cfg.Format = format
	if c.Logging.Output != "" {
		cfg.Output = c.Logging.Output
	}
	return cfg, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(dir, appName, "config.toml")
}
