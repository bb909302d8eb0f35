// Package config manages YAML-based configuration and CLI flag overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CageChen/spaceinspect/internal/logging"
	"github.com/docker/go-units"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the inspector
type Config struct {
	// Root is where the explorer starts and the "root" button leads.
	Root string `yaml:"root"`
	// Home is the application directory behind the "home" button.
	Home string `yaml:"home"`
	Glob string `yaml:"glob"`
	// Hide holds dockerignore-style patterns omitted from listings.
	Hide []string `yaml:"hide,omitempty"`

	Port  int  `yaml:"port"`
	Open  bool `yaml:"open"`
	Watch bool `yaml:"watch"`

	// ReadLimit is a human size such as "1MiB".
	ReadLimit string `yaml:"read_limit"`

	MimeCommand string `yaml:"mime_command"`
	DiskCommand string `yaml:"disk_command"`
	DepsCommand string `yaml:"deps_command"`

	HighlightStyle string         `yaml:"highlight_style"`
	Metrics        bool           `yaml:"metrics"`
	Log            logging.Config `yaml:"log"`

	// Internal: path to config file for saving
	configPath string
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	home, err := os.Getwd()
	if err != nil {
		home = "/"
	}
	return &Config{
		Root:           "/",
		Home:           home,
		Glob:           "*",
		Port:           7860,
		Open:           false,
		Watch:          true,
		ReadLimit:      "1MiB",
		MimeCommand:    "file --mime-type -b",
		DiskCommand:    "df -h",
		DepsCommand:    "pip freeze",
		HighlightStyle: "monokai",
		Metrics:        true,
		Log: logging.Config{
			Level:  "info",
			Format: "auto",
		},
	}
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/spaceinspect"
	}
	return filepath.Join(home, ".config", "spaceinspect")
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// RegisterFlags defines the command line flags Load reads.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.StringP("root", "r", d.Root, "Directory the explorer starts in")
	fs.String("home", d.Home, "Application home directory")
	fs.StringP("glob", "g", d.Glob, "Glob pattern filtering listed entries")
	fs.StringSlice("hide", nil, "Patterns of entry names to hide")
	fs.IntP("port", "p", d.Port, "HTTP server port")
	fs.Bool("open", d.Open, "Open browser on startup")
	fs.Bool("watch", d.Watch, "Notify sessions when their directory changes")
	fs.String("read-limit", d.ReadLimit, "Maximum file preview size")
	fs.String("mime-command", d.MimeCommand, "Command used to sniff MIME types")
	fs.String("disk-command", d.DiskCommand, "Command producing the disk usage report")
	fs.String("deps-command", d.DepsCommand, "Command listing installed dependencies")
	fs.String("highlight-style", d.HighlightStyle, "Syntax highlighting style")
	fs.Bool("metrics", d.Metrics, "Expose Prometheus metrics on /metrics")
	fs.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	fs.String("log-format", d.Log.Format, "Log format (json, console, auto)")
	fs.StringP("config", "c", "", "Configuration file path")
}

// Load loads configuration from file and the flags registered by
// RegisterFlags. Flags override the file only when explicitly set.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	configFile, _ := fs.GetString("config")

	// Determine config file path
	var cfgPath string
	if configFile != "" {
		cfgPath = configFile
	} else {
		// Try ~/.config/spaceinspect/config.yaml first
		globalConfig := GetConfigPath()
		if _, err := os.Stat(globalConfig); err == nil {
			cfgPath = globalConfig
		} else if _, err := os.Stat("spaceinspect.yaml"); err == nil {
			// Fall back to local spaceinspect.yaml
			cfgPath = "spaceinspect.yaml"
		}
	}

	if cfgPath != "" {
		if err := cfg.loadFromFile(cfgPath); err != nil && configFile != "" {
			// Only return error if user explicitly specified config file
			return nil, err
		}
		cfg.configPath = cfgPath
	} else {
		// Set default config path for saving
		cfg.configPath = GetConfigPath()
	}

	if err := cfg.applyFlags(fs); err != nil {
		return nil, err
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFlags(fs *pflag.FlagSet) error {
	var errs []error
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			v, err := fs.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if fs.Changed(name) {
			v, err := fs.GetBool(name)
			errs = append(errs, err)
			*dst = v
		}
	}

	str("root", &c.Root)
	str("home", &c.Home)
	str("glob", &c.Glob)
	str("read-limit", &c.ReadLimit)
	str("mime-command", &c.MimeCommand)
	str("disk-command", &c.DiskCommand)
	str("deps-command", &c.DepsCommand)
	str("highlight-style", &c.HighlightStyle)
	str("log-level", &c.Log.Level)
	str("log-format", &c.Log.Format)
	boolean("open", &c.Open)
	boolean("watch", &c.Watch)
	boolean("metrics", &c.Metrics)
	if fs.Changed("port") {
		v, err := fs.GetInt("port")
		errs = append(errs, err)
		c.Port = v
	}
	if fs.Changed("hide") {
		v, err := fs.GetStringSlice("hide")
		errs = append(errs, err)
		c.Hide = v
	}
	return errors.Join(errs...)
}

// resolvePaths makes Root and Home absolute.
func (c *Config) resolvePaths() {
	if abs, err := filepath.Abs(c.Root); err == nil {
		c.Root = abs
	}
	if c.Home == "" {
		c.Home = c.Root
	}
	if abs, err := filepath.Abs(c.Home); err == nil {
		c.Home = abs
	}
}

// Validate checks option values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := c.ReadLimitBytes(); err != nil {
		return err
	}
	if _, err := filepath.Match(c.Glob, ""); err != nil {
		return fmt.Errorf("invalid glob %q: %w", c.Glob, err)
	}
	return nil
}

// ReadLimitBytes parses ReadLimit.
func (c *Config) ReadLimitBytes() (int64, error) {
	if c.ReadLimit == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(c.ReadLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid read_limit %q: %w", c.ReadLimit, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid read_limit %q: must be positive", c.ReadLimit)
	}
	return n, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Save writes the current configuration to the config file
func (c *Config) Save() error {
	// Ensure config directory exists
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// SetConfigFilePath changes where Save writes.
func (c *Config) SetConfigFilePath(path string) {
	c.configPath = path
}

// GetConfigFilePath returns the path to the config file
func (c *Config) GetConfigFilePath() string {
	return c.configPath
}
