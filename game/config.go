package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MatchMode selects how key presses are compared against targets.
type MatchMode string

const (
	// MatchStrict compares the first press of a frame with the first target only.
	MatchStrict MatchMode = "strict"
	// MatchScan clears, for every press, the first live target with that letter.
	MatchScan MatchMode = "scan"
)

// DefaultLetters is the set of letters targets are drawn from.
const DefaultLetters = "abcdefghijklmnopqrstuvwxyz"

var ErrInvalidConfig = errors.New("invalid config")

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Config holds the tunables of a game session and the frontends that host it.
type Config struct {
	SpawnInterval time.Duration `yaml:"spawnInterval"`
	Lifetime      time.Duration `yaml:"lifetime"`
	PositionMin   float32       `yaml:"positionMin"`
	PositionMax   float32       `yaml:"positionMax"`
	Letters       string        `yaml:"letters"`
	Matching      MatchMode     `yaml:"matching"`

	FontPath string       `yaml:"fontPath"`
	FontSize float64      `yaml:"fontSize"`
	Window   WindowConfig `yaml:"window"`
	Sound    bool         `yaml:"sound"`
}

func DefaultConfig() Config {
	return Config{
		SpawnInterval: 400 * time.Millisecond,
		Lifetime:      1200 * time.Millisecond,
		PositionMin:   5,
		PositionMax:   95,
		Letters:       DefaultLetters,
		Matching:      MatchStrict,
		FontSize:      100,
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "keyfall",
		},
		Sound: true,
	}
}

// LoadConfig reads a YAML config from path on top of DefaultConfig.
// An empty path or a missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.SpawnInterval <= 0 {
		return fmt.Errorf("%w: spawnInterval must be positive, got %s", ErrInvalidConfig, c.SpawnInterval)
	}
	if c.Lifetime <= 0 {
		return fmt.Errorf("%w: lifetime must be positive, got %s", ErrInvalidConfig, c.Lifetime)
	}
	if c.PositionMin >= c.PositionMax {
		return fmt.Errorf("%w: positionMin %.2f must be below positionMax %.2f", ErrInvalidConfig, c.PositionMin, c.PositionMax)
	}
	if c.PositionMin < 0 || c.PositionMax > 100 {
		return fmt.Errorf("%w: positions are percentages, got [%.2f, %.2f)", ErrInvalidConfig, c.PositionMin, c.PositionMax)
	}
	if c.Letters == "" {
		return fmt.Errorf("%w: letters cannot be empty", ErrInvalidConfig)
	}
	for _, r := range c.Letters {
		if r < 'a' || r > 'z' {
			return fmt.Errorf("%w: letters must be in a..z, got %q", ErrInvalidConfig, r)
		}
	}
	switch c.Matching {
	case MatchStrict, MatchScan:
	default:
		return fmt.Errorf("%w: unknown matching mode %q", ErrInvalidConfig, c.Matching)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("%w: fontSize must be positive, got %g", ErrInvalidConfig, c.FontSize)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	return nil
}
