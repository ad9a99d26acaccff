package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of the compositor.
type Config struct {
	Atmosphere AtmosphereConfig `toml:"atmosphere" yaml:"atmosphere"`
	Display    DisplayConfig    `toml:"display" yaml:"display"`
	Frames     FramesConfig     `toml:"frames" yaml:"frames"`
}

// AtmosphereConfig configures the scene state.
type AtmosphereConfig struct {
	MaxWindows     uint32  `toml:"max_windows" yaml:"max_windows"`
	MaxClients     uint32  `toml:"max_clients" yaml:"max_clients"`
	TitlebarHeight float64 `toml:"titlebar_height" yaml:"titlebar_height"`
	EdgeWidth      float64 `toml:"edge_width" yaml:"edge_width"`
}

// DisplayConfig configures the desktop.
type DisplayConfig struct {
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`
}

// FramesConfig configures the frame loop.
type FramesConfig struct {
	Interval      time.Duration `toml:"interval" yaml:"interval"`
	QueueCapacity uint64        `toml:"queue_capacity" yaml:"queue_capacity"`
	InputBuffer   int           `toml:"input_buffer" yaml:"input_buffer"`
}

// DefaultPath returns the path of the config file in the user config directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "category5", "config.toml")
}

// Load reads config from TOML or YAML file, depending on the extension.
// Values missing in the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config %s", path)
		}
	case ".yaml", ".yml":
		if err := decodeStrictYAML(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config %s", path)
		}
	default:
		return nil, errors.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating config %s", path)
	}
	return cfg, nil
}

// LoadOrDefault loads config from the file if it exists, otherwise returns defaults.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Atmosphere: AtmosphereConfig{
			MaxWindows:     1024,
			MaxClients:     256,
			TitlebarHeight: 24,
			EdgeWidth:      6,
		},
		Display: DisplayConfig{
			Width:  1920,
			Height: 1080,
		},
		Frames: FramesConfig{
			Interval:      16 * time.Millisecond,
			QueueCapacity: 1024,
			InputBuffer:   256,
		},
	}
}

// Validate checks if config is usable.
func (c *Config) Validate() error {
	switch {
	case c.Atmosphere.MaxWindows == 0:
		return errors.New("max_windows must be positive")
	case c.Atmosphere.MaxClients == 0:
		return errors.New("max_clients must be positive")
	case c.Atmosphere.TitlebarHeight < 0 || c.Atmosphere.EdgeWidth < 0:
		return errors.New("decoration sizes must not be negative")
	case c.Display.Width <= 0 || c.Display.Height <= 0:
		return errors.New("display size must be positive")
	case c.Frames.Interval <= 0:
		return errors.New("frame interval must be positive")
	case c.Frames.QueueCapacity == 0:
		return errors.New("queue_capacity must be positive")
	}
	return nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
