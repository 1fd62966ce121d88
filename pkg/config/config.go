package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Window WindowConfig `yaml:"window"`
	Render RenderConfig `yaml:"render"`
	Audio  AudioConfig  `yaml:"audio"`
	Bounce BounceConfig `yaml:"bounce"`
}

// LogConfig controls the logger
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Optional: also write to this file
}

// WindowConfig contains window and GL context settings
type WindowConfig struct {
	Title        string `yaml:"title"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Resizable    bool   `yaml:"resizable"`
	VSync        bool   `yaml:"vsync"`
	ContextMajor int    `yaml:"context_major"`
	ContextMinor int    `yaml:"context_minor"`
}

// RenderConfig contains render loop settings
type RenderConfig struct {
	Background     [4]float32 `yaml:"background"`
	Wireframe      bool       `yaml:"wireframe"`     // Initial polygon mode
	WireframeKey   string     `yaml:"wireframe_key"` // Key that toggles wireframe
	FrameRate      int        `yaml:"framerate"`     // 0 disables the cap
	VertexShader   string     `yaml:"vertex_shader"`   // Optional: path to GLSL source
	FragmentShader string     `yaml:"fragment_shader"` // Optional: path to GLSL source
}

// AudioConfig contains audio-related configuration
type AudioConfig struct {
	Enabled         bool           `yaml:"enabled"`
	Volume          float64        `yaml:"volume"`
	SampleRate      int            `yaml:"sample_rate"`
	FramesPerBuffer int            `yaml:"frames_per_buffer"`
	Sounds          map[int]string `yaml:"sounds"` // Sound id -> WAV file
}

// BounceConfig describes the bouncing ball scene
type BounceConfig struct {
	Radius   float32    `yaml:"radius"`
	Position [3]float32 `yaml:"position"`
	Velocity [3]float32 `yaml:"velocity"` // Units per second
	Walls    [3]float32 `yaml:"walls"`    // Half extents of the box
	Camera   [3]float32 `yaml:"camera"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Window: WindowConfig{
			Title:        "GLFW Window",
			Width:        800,
			Height:       600,
			Resizable:    true,
			VSync:        true,
			ContextMajor: 4,
			ContextMinor: 1,
		},
		Render: RenderConfig{
			Background:   [4]float32{0.2, 0.3, 0.3, 1.0},
			Wireframe:    false,
			WireframeKey: "W",
			FrameRate:    0,
		},
		Audio: AudioConfig{
			Enabled:         true,
			Volume:          0.8,
			SampleRate:      44100,
			FramesPerBuffer: 1024,
			Sounds:          map[int]string{},
		},
		Bounce: BounceConfig{
			Radius:   10,
			Position: [3]float32{0, 0, 0},
			Velocity: [3]float32{60, 45, 30},
			Walls:    [3]float32{100, 100, 100},
			Camera:   [3]float32{0, 0, 300},
		},
	}
}

// LoadConfig loads the configuration from a file. On failure the defaults are
// returned together with the error so callers can decide whether to continue.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail deep inside the engine
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.ContextMajor < 3 {
		errs = append(errs, fmt.Errorf("GL context %d.%d is too old for core profile", c.Window.ContextMajor, c.Window.ContextMinor))
	}
	if c.Render.FrameRate < 0 {
		errs = append(errs, fmt.Errorf("framerate must not be negative, got %d", c.Render.FrameRate))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume must be within [0,1], got %v", c.Audio.Volume))
	}
	if c.Audio.Enabled && (c.Audio.SampleRate <= 0 || c.Audio.FramesPerBuffer <= 0) {
		errs = append(errs, errors.New("audio sample rate and buffer size must be positive"))
	}
	if c.Bounce.Radius <= 0 {
		errs = append(errs, fmt.Errorf("ball radius must be positive, got %v", c.Bounce.Radius))
	}
	for axis, wall := range c.Bounce.Walls {
		if wall <= c.Bounce.Radius {
			errs = append(errs, fmt.Errorf("wall %d at %v does not leave room for a ball of radius %v", axis, wall, c.Bounce.Radius))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
