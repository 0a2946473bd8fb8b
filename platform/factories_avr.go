//go:build avr

package platform

import (
	"crashtrack-go/capture"
	"crashtrack-go/monitor"
	"crashtrack-go/watchdog"
)

// DefaultWatchdog is the on-chip WDT.
func DefaultWatchdog() watchdog.Controller { return watchdog.AVR{} }

// Boot builds the monitor on DefaultMedium and binds it to the WDT
// vector. Call it first thing in main: after a watchdog reset the WDT stays
// running at its shortest timeout until switched off.
func Boot(cfg monitor.Config) *monitor.Monitor {
	wd := DefaultWatchdog()
	wd.Disable()
	m := monitor.New(cfg, DefaultMedium(), wd, nil)
	capture.Bind(m, cfg.PCSize)
	return m
}
