// Package config loads the application settings from config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is looked up next to the executable.
const FileName = "config.yaml"

const (
	ResponderScript = "script"
	ResponderCanned = "canned"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	BusCapacity    int             `yaml:"bus_capacity"`
	RedrawInterval time.Duration   `yaml:"redraw_interval"`
	Catalog        string          `yaml:"catalog"`
	Window         WindowConfig    `yaml:"window"`
	Assistant      AssistantConfig `yaml:"assistant"`
	History        HistoryConfig   `yaml:"history"`
}

type WindowConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Title       string `yaml:"title"`
	AlwaysOnTop bool   `yaml:"always_on_top"`
	Decorated   bool   `yaml:"decorated"`
}

type AssistantConfig struct {
	Responder    string      `yaml:"responder"`
	Script       string      `yaml:"script"`
	CannedAnswer string      `yaml:"canned_answer"`
	Retry        RetryConfig `yaml:"retry"`
}

type RetryConfig struct {
	Attempts       int           `yaml:"attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type HistoryConfig struct {
	AppName string `yaml:"app_name"`
	Persist bool   `yaml:"persist"`
	Limit   int    `yaml:"limit"`
}

// MinWindowSize is the smallest window edge the chat panel fits in.
const MinWindowSize = 400

func Default() Config {
	return Config{
		BusCapacity:    50,
		RedrawInterval: 2 * time.Second,
		Catalog:        "animations.yaml",
		Window: WindowConfig{
			Width:       MinWindowSize,
			Height:      640,
			Title:       "Clippit",
			AlwaysOnTop: true,
		},
		Assistant: AssistantConfig{
			Responder: ResponderCanned,
			Script:    "assistant.tengo",
			Retry: RetryConfig{
				Attempts:       3,
				InitialBackoff: 250 * time.Millisecond,
				MaxBackoff:     4 * time.Second,
			},
		},
		History: HistoryConfig{
			AppName: "clippit",
			Persist: true,
			Limit:   100,
		},
	}
}

// DefaultPath is config.yaml in the directory of the running executable.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return FileName
	}
	return filepath.Join(filepath.Dir(exe), FileName)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.BusCapacity < 1 {
		errs = append(errs, fmt.Errorf("%w: bus_capacity %d", ErrInvalid, c.BusCapacity))
	}
	if c.RedrawInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: redraw_interval %s", ErrInvalid, c.RedrawInterval))
	}
	if c.Catalog == "" {
		errs = append(errs, fmt.Errorf("%w: catalog is empty", ErrInvalid))
	}
	if c.Window.Width < MinWindowSize || c.Window.Height < MinWindowSize {
		errs = append(errs, fmt.Errorf("%w: window %dx%d smaller than %d", ErrInvalid, c.Window.Width, c.Window.Height, MinWindowSize))
	}
	switch c.Assistant.Responder {
	case ResponderCanned:
	case ResponderScript:
		if c.Assistant.Script == "" {
			errs = append(errs, fmt.Errorf("%w: assistant.script is empty", ErrInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: assistant.responder %q", ErrInvalid, c.Assistant.Responder))
	}
	r := c.Assistant.Retry
	if r.Attempts < 1 || r.InitialBackoff < 0 || r.MaxBackoff < 0 {
		errs = append(errs, fmt.Errorf("%w: assistant.retry", ErrInvalid))
	}
	if c.History.Persist && c.History.AppName == "" {
		errs = append(errs, fmt.Errorf("%w: history.app_name is empty", ErrInvalid))
	}
	return errors.Join(errs...)
}
