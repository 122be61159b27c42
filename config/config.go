// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads loop and host settings from a TOML or YAML file.
//
// Durations are written as Go duration strings ("16ms", "2s"). The step size
// may be given either as an interval or as a rate in Hz; rate wins when both
// are set.
//
// Example pacer.toml:
//
//	[loop]
//	rate = 60
//	max_steps = 5
//	yield = "8ms"
//	stop_timeout = "2s"
//
//	[host]
//	init_delay = "0s"
//
//	[surface]
//	width = 800
//	height = 600
//	scale = 1.0
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/pacer"
	"github.com/gogpu/pacer/timestep"
)

// Errors returned by Load and Validate.
var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnknownFormat is returned for files that are neither TOML nor YAML.
	ErrUnknownFormat = errors.New("config: unknown file format")
)

// Duration is a time.Duration that reads and writes Go duration strings.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	return d.UnmarshalText([]byte(n.Value))
}

// Loop holds the render loop settings.
type Loop struct {
	Interval     Duration `toml:"interval" yaml:"interval"`
	Rate         float64  `toml:"rate" yaml:"rate"`
	MaxSteps     int      `toml:"max_steps" yaml:"max_steps"`
	Yield        Duration `toml:"yield" yaml:"yield"`
	StopTimeout  Duration `toml:"stop_timeout" yaml:"stop_timeout"`
	LockOSThread *bool    `toml:"lock_os_thread" yaml:"lock_os_thread"`
}

// Host holds the lifecycle settings.
type Host struct {
	InitDelay Duration `toml:"init_delay" yaml:"init_delay"`
}

// Surface describes the headless surface used by the demo.
type Surface struct {
	Width  int     `toml:"width" yaml:"width"`
	Height int     `toml:"height" yaml:"height"`
	Scale  float64 `toml:"scale" yaml:"scale"`
}

// Config is the whole file.
type Config struct {
	Loop    Loop    `toml:"loop" yaml:"loop"`
	Host    Host    `toml:"host" yaml:"host"`
	Surface Surface `toml:"surface" yaml:"surface"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Loop: Loop{
			Interval:    Duration(timestep.DefaultInterval),
			MaxSteps:    timestep.DefaultMaxSteps,
			Yield:       Duration(pacer.DefaultYield),
			StopTimeout: Duration(pacer.DefaultStopTimeout),
		},
		Surface: Surface{Width: 800, Height: 600, Scale: 1},
	}
}

// Load reads path, choosing the decoder by extension (.toml, .yaml, .yml).
// Fields missing from the file keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	pacer.Logger().Debug("config: loaded", "path", path, "interval", cfg.StepInterval())
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Loop.Rate < 0 {
		errs = append(errs, fmt.Errorf("loop.rate %v must not be negative", c.Loop.Rate))
	}
	if c.Loop.Rate == 0 && c.Loop.Interval <= 0 {
		errs = append(errs, fmt.Errorf("loop.interval %v must be positive", time.Duration(c.Loop.Interval)))
	}
	if c.Loop.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("loop.max_steps %d must be positive", c.Loop.MaxSteps))
	}
	if c.Loop.Yield < 0 {
		errs = append(errs, fmt.Errorf("loop.yield %v must not be negative", time.Duration(c.Loop.Yield)))
	}
	if c.Loop.StopTimeout <= 0 {
		errs = append(errs, fmt.Errorf("loop.stop_timeout %v must be positive", time.Duration(c.Loop.StopTimeout)))
	}
	if c.Host.InitDelay < 0 {
		errs = append(errs, fmt.Errorf("host.init_delay %v must not be negative", time.Duration(c.Host.InitDelay)))
	}
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		errs = append(errs, fmt.Errorf("surface %dx%d must have area", c.Surface.Width, c.Surface.Height))
	}
	if c.Surface.Scale < 0 {
		errs = append(errs, fmt.Errorf("surface.scale %v must not be negative", c.Surface.Scale))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// StepInterval returns the fixed step size, preferring Rate over Interval.
func (c Config) StepInterval() time.Duration {
	if c.Loop.Rate > 0 {
		return time.Duration(float64(time.Second) / c.Loop.Rate)
	}
	return time.Duration(c.Loop.Interval)
}

// LoopOptions converts the loop section to pacer options.
func (c Config) LoopOptions() []pacer.LoopOption {
	opts := []pacer.LoopOption{
		pacer.WithInterval(c.StepInterval()),
		pacer.WithMaxSteps(c.Loop.MaxSteps),
		pacer.WithYield(time.Duration(c.Loop.Yield)),
		pacer.WithStopTimeout(time.Duration(c.Loop.StopTimeout)),
	}
	if c.Loop.LockOSThread != nil {
		opts = append(opts, pacer.WithLockOSThread(*c.Loop.LockOSThread))
	}
	return opts
}

// HostOptions converts the host and loop sections to pacer host options.
func (c Config) HostOptions() []pacer.HostOption {
	return []pacer.HostOption{
		pacer.WithInitDelay(time.Duration(c.Host.InitDelay)),
		pacer.WithLoopOptions(c.LoopOptions()...),
	}
}
