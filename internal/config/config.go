package config

import (
	"time"

	"github.com/dshills/dusk/internal/logging"
)

// Config is the complete application configuration.
//
// Values are layered: Default, then the config file if one exists, then
// DUSK_* environment variables. Validate runs last.
type Config struct {
	Program ProgramConfig `toml:"program" yaml:"program" envPrefix:"PROGRAM_"`
	Script  ScriptConfig  `toml:"script" yaml:"script" envPrefix:"SCRIPT_"`
	Log     LogConfig     `toml:"log" yaml:"log" envPrefix:"LOG_"`
	Demo    DemoConfig    `toml:"demo" yaml:"demo" envPrefix:"DEMO_"`
}

// ProgramConfig configures the run loop.
type ProgramConfig struct {
	// TargetFPS is the render rate.
	TargetFPS float64 `toml:"target_fps" yaml:"target_fps" env:"TARGET_FPS"`

	// IdleSleepMs is slept after every loop iteration, in milliseconds.
	// Zero spins the loop flat out.
	IdleSleepMs int `toml:"idle_sleep_ms" yaml:"idle_sleep_ms" env:"IDLE_SLEEP_MS"`

	// Headless runs without a terminal.
	Headless bool `toml:"headless" yaml:"headless" env:"HEADLESS"`
}

// IdleSleep returns IdleSleepMs as a duration.
func (c ProgramConfig) IdleSleep() time.Duration {
	return time.Duration(c.IdleSleepMs) * time.Millisecond
}

// ScriptConfig configures the Lua host.
type ScriptConfig struct {
	// Main is the main script path. Empty disables scripting.
	Main string `toml:"main" yaml:"main" env:"MAIN"`

	// Watch reloads the main script when it changes on disk.
	Watch bool `toml:"watch" yaml:"watch" env:"WATCH"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level" env:"LEVEL"`

	// File receives log output. Empty writes to stderr.
	File string `toml:"file" yaml:"file" env:"FILE"`
}

// DemoConfig configures the bouncing text demo.
type DemoConfig struct {
	Text string `toml:"text" yaml:"text" env:"TEXT"`

	// Speed is in cells per fixed update.
	Speed float64 `toml:"speed" yaml:"speed" env:"SPEED"`

	// Color is a hex color or a color name; empty picks a random hue.
	Color string `toml:"color" yaml:"color" env:"COLOR"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Program: ProgramConfig{
			TargetFPS:   60,
			IdleSleepMs: 1,
		},
		Script: ScriptConfig{
			Watch: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  "dusk.log",
		},
		Demo: DemoConfig{
			Text:  "Hello, World",
			Speed: 0.5,
		},
	}
}

// Validate checks the configuration. It returns a *ValidationError
// naming the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case !(c.Program.TargetFPS > 0) || c.Program.TargetFPS > 1e6:
		return &ValidationError{Path: "program.target_fps", Value: c.Program.TargetFPS, Message: "must be positive"}
	case c.Program.IdleSleepMs < 0:
		return &ValidationError{Path: "program.idle_sleep_ms", Value: c.Program.IdleSleepMs, Message: "must not be negative"}
	case c.Demo.Speed < 0:
		return &ValidationError{Path: "demo.speed", Value: c.Demo.Speed, Message: "must not be negative"}
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "unknown level"}
	}
	return nil
}

// LogLevel returns the parsed log level. Validate guarantees it is known.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}
