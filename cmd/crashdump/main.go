// Command crashdump decodes application monitor crash logs on the host, from
// an EEPROM image, from an external reader's output, or from the boot dump the
// firmware prints on its serial console.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"crashtrack-go/crashlog"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "YAML config file")
		base    = flag.Int("base", crashlog.DefaultBaseAddress, "EEPROM base address of the crash log")
		entries = flag.Int("entries", crashlog.DefaultMaxEntries, "number of report slots")
		pc      = flag.Int("pc", 2, "program counter size in bytes (2 or 3)")
		image   = flag.String("image", "", "raw EEPROM image file")
		readCmd = flag.String("read-cmd", "", "command that prints a raw EEPROM image on stdout")
		ttyPath = flag.String("tty", "", "serial console carrying the boot dump")
		wait    = flag.Duration("wait", 5*time.Second, "how long to listen on -tty")
		all     = flag.Bool("all", false, "print the log header even when no reports are saved")
		format  = flag.String("format", "text", "output format: text or yaml")
	)
	flag.Parse()

	cfg := &Config{}
	if *cfgPath != "" {
		var err error
		cfg, err = LoadConfig(*cfgPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	// Flags given on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base":
			cfg.Layout.BaseAddress = base
		case "entries":
			cfg.Layout.MaxEntries = *entries
		case "pc":
			cfg.Layout.PCSize = *pc
		case "image":
			cfg.Source = SourceConfig{Image: *image, WaitMs: cfg.Source.WaitMs}
		case "read-cmd":
			cfg.Source = SourceConfig{ReadCmd: *readCmd, WaitMs: cfg.Source.WaitMs}
		case "tty":
			cfg.Source = SourceConfig{TTY: *ttyPath, WaitMs: cfg.Source.WaitMs}
		case "wait":
			cfg.Source.WaitMs = int(*wait / time.Millisecond)
		case "all":
			cfg.Output.All = *all
		case "format":
			cfg.Output.Format = *format
		}
	})

	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("crashdump: %v", err)
	}
}

// run acquires the log from the configured source and prints it to w.
func run(ctx context.Context, cfg *Config, w io.Writer) error {
	if cfg.Source.TTY != "" {
		text, err := listenTTY(cfg.Source.TTY, cfg.wait())
		if err != nil {
			return err
		}
		return printParsed(bytes.NewReader(text), cfg, w)
	}

	var (
		img []byte
		err error
	)
	if cfg.Source.Image != "" {
		img, err = readImage(cfg.Source.Image)
	} else {
		img, err = runReader(ctx, cfg.Source.ReadCmd)
	}
	if err != nil {
		return err
	}
	return printImage(img, cfg, w)
}

func printImage(img []byte, cfg *Config, w io.Writer) error {
	mon, err := imageMonitor(img, cfg.layout())
	if err != nil {
		return err
	}
	if cfg.Output.Format == "yaml" {
		return writeYAML(w, logFromMonitor(mon))
	}
	mon.Dump(w, !cfg.Output.All)
	return nil
}

func printParsed(r io.Reader, cfg *Config, w io.Writer) error {
	lg, seen, err := ParseDump(r)
	if err != nil {
		return err
	}
	if cfg.Output.Format == "yaml" {
		return writeYAML(w, lg)
	}
	if !seen {
		if cfg.Output.All {
			fmt.Fprintln(w, "no crash log printed")
		}
		return nil
	}
	writeText(w, lg)
	return nil
}
