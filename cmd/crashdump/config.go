package main

import (
	"os"
	"time"

	"crashtrack-go/crashlog"
	"crashtrack-go/errcode"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Layout LayoutConfig `yaml:"layout"`
	Source SourceConfig `yaml:"source"`
	Output OutputConfig `yaml:"output"`
}

// ---- LAYOUT ----

type LayoutConfig struct {
	BaseAddress *int `yaml:"base_address"` // unset => 500
	MaxEntries  int  `yaml:"max_entries"`
	PCSize      int  `yaml:"pc_size"`
}

// ---- SOURCE ----

// Exactly one of Image, ReadCmd or TTY is used.
type SourceConfig struct {
	Image   string `yaml:"image"`    // raw EEPROM image, address 0 first
	ReadCmd string `yaml:"read_cmd"` // command printing a raw image on stdout
	TTY     string `yaml:"tty"`      // serial console carrying the boot dump
	WaitMs  int    `yaml:"wait_ms"`  // how long to listen on TTY
}

// ---- OUTPUT ----

type OutputConfig struct {
	Format string `yaml:"format"` // text | yaml
	All    bool   `yaml:"all"`    // print the header even with no reports
}

// LoadConfig reads a YAML config file. It does not normalise or validate.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, "config", err)
	}
	return &cfg, nil
}

// Normalize fills defaults in place.
func Normalize(cfg *Config) {
	if cfg.Layout.BaseAddress == nil {
		base := crashlog.DefaultBaseAddress
		cfg.Layout.BaseAddress = &base
	}
	if cfg.Layout.MaxEntries == 0 {
		cfg.Layout.MaxEntries = crashlog.DefaultMaxEntries
	}
	if cfg.Layout.PCSize == 0 {
		cfg.Layout.PCSize = 2
	}
	if cfg.Source.WaitMs <= 0 {
		cfg.Source.WaitMs = 5000
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
}

// Validate checks a normalised config.
func Validate(cfg *Config) error {
	base := *cfg.Layout.BaseAddress
	if base < 0 || base > 0xFFFF {
		return &errcode.E{C: errcode.InvalidConfig, Op: "layout", Msg: "base_address out of range"}
	}
	if cfg.Layout.MaxEntries < 1 || cfg.Layout.MaxEntries > 0xFE {
		return &errcode.E{C: errcode.InvalidMaxEntries, Op: "layout", Msg: "max_entries must be 1..254"}
	}
	if err := cfg.layout().Validate(); err != nil {
		return &errcode.E{C: errcode.Of(err), Op: "layout"}
	}

	n := 0
	for _, s := range []string{cfg.Source.Image, cfg.Source.ReadCmd, cfg.Source.TTY} {
		if s != "" {
			n++
		}
	}
	if n != 1 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "source", Msg: "exactly one of image, read_cmd, tty is required"}
	}

	switch cfg.Output.Format {
	case "text", "yaml":
	default:
		return &errcode.E{C: errcode.InvalidConfig, Op: "output", Msg: "format must be text or yaml"}
	}
	return nil
}

func (c *Config) layout() crashlog.Layout {
	return crashlog.Layout{
		Base:       uint16(*c.Layout.BaseAddress),
		MaxEntries: uint8(c.Layout.MaxEntries),
		PCSize:     c.Layout.PCSize,
	}
}

func (c *Config) wait() time.Duration { return time.Duration(c.Source.WaitMs) * time.Millisecond }
