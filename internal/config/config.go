// Package config loads rasgbd's TOML configuration file, resolving its
// path from RASGB_PI_CONFIG or the default ~/.datadance/config.toml.
//
// Grounded on the Rust source's config/load.rs (env-var-then-default-path
// resolution, FileNotFound vs EnvironmentVariableNotSet distinction) and
// decoded with github.com/BurntSushi/toml, the Go ecosystem's standard
// TOML decoder — named as an out-of-pack dependency since no example repo
// in the corpus uses TOML (see DESIGN.md).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	envVar            = "RASGB_PI_CONFIG"
	defaultRelPath    = ".datadance/config.toml"
	defaultServerIP   = "0.0.0.0"
	defaultServerPort = 8081
	defaultIdleSecs   = 1.0
)

// ErrEnvironmentVariableNotSet is a sentinel wrapped into the error chain
// when RASGB_PI_CONFIG is unset and the default path cannot be resolved
// (typically because the user's home directory is unknown).
var ErrEnvironmentVariableNotSet = errors.New("config: RASGB_PI_CONFIG is not set and the default config path could not be resolved")

// Driver is the tagged union of display driver configurations. Exactly one
// non-zero variant is populated, selected by Kind.
type Driver struct {
	Kind string `toml:"kind"`

	// winit_pixels, fake
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`

	// rgb_led_matrix
	PanelRows         uint32 `toml:"panel_rows"`
	PanelColumns      uint32 `toml:"panel_columns"`
	DaisyChains       uint32 `toml:"daisy_chains"`
	ParallelChains    uint32 `toml:"parallel_chains"`
	PixelMapperConfig string `toml:"pixel_mapper_config"`
	RowAddrType       uint32 `toml:"row_addr_type"`
	LedRgbSequence    string `toml:"led_rgb_sequence"`
	Multiplexing      uint32 `toml:"multiplexing"`
	PanelType         string `toml:"panel_type"`
	ScanMode          uint32 `toml:"scan_mode"`
	HardwarePulsing   bool   `toml:"hardware_pulsing"`
	LimitRefresh      uint32 `toml:"limit_refresh"`
	PwmBits           uint8  `toml:"pwm_bits"`
	PwmDitherBits     uint32 `toml:"pwm_dither_bits"`
	PwmLsbNanoseconds uint32 `toml:"pwm_lsb_nanoseconds"`
	GpioSlowdown      uint32 `toml:"gpio_slowdown"`
}

const (
	DriverWinitPixels  = "winit_pixels"
	DriverFake         = "fake"
	DriverRatatui      = "ratatui"
	DriverRgbLedMatrix = "rgb_led_matrix"
)

// Display holds the [display] table.
type Display struct {
	FPS    float64 `toml:"fps"`
	Driver Driver  `toml:"driver"`
}

// Server holds the [server] table.
type Server struct {
	IP   string `toml:"ip"`
	Port uint16 `toml:"port"`
}

// Timing holds the [timing] table.
type Timing struct {
	IdleSeconds float64 `toml:"idle_seconds"`
}

// Config is the fully decoded, defaulted configuration.
type Config struct {
	Display Display `toml:"display"`
	Server  Server  `toml:"server"`
	Timing  Timing  `toml:"timing"`
}

// ResolvePath returns the config file path: RASGB_PI_CONFIG if set,
// otherwise ~/.datadance/config.toml.
func ResolvePath() (string, error) {
	if p := os.Getenv(envVar); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEnvironmentVariableNotSet, err)
	}
	return filepath.Join(home, defaultRelPath), nil
}

// Load resolves the config path and decodes it, applying defaults for
// optional fields.
func Load() (Config, error) {
	path, err := ResolvePath()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile decodes the TOML file at path, applying the same defaults as
// Load.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %s not found: %w", path, err)
		}
		return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return cfg, validate(cfg)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.IP == "" {
		cfg.Server.IP = defaultServerIP
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Timing.IdleSeconds == 0 {
		cfg.Timing.IdleSeconds = defaultIdleSecs
	}
}

func validate(cfg Config) error {
	if cfg.Display.FPS <= 0 {
		return fmt.Errorf("config: display.fps must be positive, got %v", cfg.Display.FPS)
	}
	switch cfg.Display.Driver.Kind {
	case DriverWinitPixels, DriverFake:
		if cfg.Display.Driver.Width == 0 || cfg.Display.Driver.Height == 0 {
			return fmt.Errorf("config: driver %q requires non-zero width and height", cfg.Display.Driver.Kind)
		}
	case DriverRatatui:
		// dimensions are discovered from the terminal at runtime
	case DriverRgbLedMatrix:
		if cfg.Display.Driver.PanelRows == 0 || cfg.Display.Driver.PanelColumns == 0 {
			return fmt.Errorf("config: driver %q requires non-zero panel_rows and panel_columns", DriverRgbLedMatrix)
		}
	default:
		return fmt.Errorf("config: unrecognized driver kind %q", cfg.Display.Driver.Kind)
	}
	return nil
}

// ClampedIdleSeconds returns the idle_seconds value clamped up to 1/fps,
// the value the fallback generator is seeded with. The raw, unclamped
// Timing.IdleSeconds still seeds the queue's supersession idle window.
func (c Config) ClampedIdleSeconds() float64 {
	minIdle := 1.0 / c.Display.FPS
	if c.Timing.IdleSeconds < minIdle {
		return minIdle
	}
	return c.Timing.IdleSeconds
}
