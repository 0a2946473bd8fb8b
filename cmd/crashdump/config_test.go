package main

import (
	"os"
	"path/filepath"
	"testing"

	"crashtrack-go/errcode"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeFile(t, "c.yaml", "source:\n  image: eeprom.bin\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if *cfg.Layout.BaseAddress != 500 || cfg.Layout.MaxEntries != 10 || cfg.Layout.PCSize != 2 {
		t.Fatalf("layout defaults = %+v base=%d", cfg.Layout, *cfg.Layout.BaseAddress)
	}
	if cfg.Output.Format != "text" || cfg.Source.WaitMs != 5000 {
		t.Fatalf("defaults: format=%q wait=%d", cfg.Output.Format, cfg.Source.WaitMs)
	}
}

func TestLoadConfigExplicitZeroBase(t *testing.T) {
	p := writeFile(t, "c.yaml", "layout:\n  base_address: 0\n  max_entries: 4\n  pc_size: 3\nsource:\n  tty: /dev/null\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}
	l := cfg.layout()
	if l.Base != 0 || l.MaxEntries != 4 || l.PCSize != 3 {
		t.Fatalf("layout = %+v", l)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	p := writeFile(t, "c.yaml", "layout: [\n")
	if _, err := LoadConfig(p); errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func(v int) *int { return &v }
	cases := []struct {
		name string
		cfg  Config
		want errcode.Code
	}{
		{"ok", Config{Source: SourceConfig{Image: "x"}}, errcode.OK},
		{"no source", Config{}, errcode.InvalidConfig},
		{"two sources", Config{Source: SourceConfig{Image: "x", TTY: "y"}}, errcode.InvalidConfig},
		{"base range", Config{Layout: LayoutConfig{BaseAddress: base(0x10000)}, Source: SourceConfig{Image: "x"}}, errcode.InvalidConfig},
		{"entries", Config{Layout: LayoutConfig{MaxEntries: 255}, Source: SourceConfig{Image: "x"}}, errcode.InvalidMaxEntries},
		{"pc", Config{Layout: LayoutConfig{PCSize: 4}, Source: SourceConfig{Image: "x"}}, errcode.InvalidPCSize},
		{"overflow", Config{Layout: LayoutConfig{BaseAddress: base(0xFFF0)}, Source: SourceConfig{Image: "x"}}, errcode.RegionOverflow},
		{"format", Config{Source: SourceConfig{Image: "x"}, Output: OutputConfig{Format: "json"}}, errcode.InvalidConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			Normalize(&cfg)
			if got := errcode.Of(Validate(&cfg)); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}
