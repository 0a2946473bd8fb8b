// Package monitor ties the crash log, the watchdog and the capture path
// together. There is one Monitor per program; it owns the non-volatile region
// and the live report whose diagnostic value is saved when the watchdog fires.
package monitor

import (
	"crashtrack-go/crashlog"
	"crashtrack-go/nvm"
	"crashtrack-go/watchdog"
)

// ResetTimeout is armed after a capture. It has to outlast the EEPROM writes
// of one report plus the header (~3.4 ms per byte on AVR).
const ResetTimeout = watchdog.Timeout120ms

// Config is fixed for the life of the program.
type Config struct {
	// BaseAddress is where the header starts in non-volatile memory.
	BaseAddress uint16
	// MaxEntries is the number of report slots in the ring.
	MaxEntries uint8
	// PCSize is the program counter width in bytes (2, or 3 on ATmega2560).
	PCSize int
}

// DefaultConfig returns base 500 and 10 entries for a pcSize-byte counter.
func DefaultConfig(pcSize int) Config {
	return Config{
		BaseAddress: crashlog.DefaultBaseAddress,
		MaxEntries:  crashlog.DefaultMaxEntries,
		PCSize:      pcSize,
	}
}

func (c Config) Layout() crashlog.Layout {
	return crashlog.Layout{Base: c.BaseAddress, MaxEntries: c.MaxEntries, PCSize: c.PCSize}
}

type Monitor struct {
	store  *crashlog.Store
	wd     watchdog.Controller
	halt   func()
	report crashlog.Report
}

// New builds the monitor. halt is what AwaitReset spins in once the final
// reset is armed; nil means a busy loop. New panics on an unusable layout.
func New(cfg Config, m nvm.Medium, wd watchdog.Controller, halt func()) *Monitor {
	l := cfg.Layout()
	if err := l.Validate(); err != nil {
		panic("monitor: " + err.Error())
	}
	return &Monitor{
		store: crashlog.NewStore(m, l),
		wd:    wd,
		halt:  halt,
	}
}

func (m *Monitor) EnableWatchdog(t watchdog.Timeout) { m.wd.Enable(t) }
func (m *Monitor) DisableWatchdog()                  { m.wd.Disable() }

// KeepAlive tells the watchdog the program is still making progress. Call it
// more often than the enabled timeout.
func (m *Monitor) KeepAlive() { m.wd.KeepAlive() }

// SetData sets the diagnostic value that is saved if the watchdog fires.
func (m *Monitor) SetData(v uint32) { m.report.Data = v }
func (m *Monitor) Data() uint32     { return m.report.Data }

func (m *Monitor) Layout() crashlog.Layout { return m.store.Layout() }

// Header returns the normalised crash log header.
func (m *Monitor) Header() crashlog.Header { return m.store.LoadHeader() }

// Report returns slot i with its address in memory order.
func (m *Monitor) Report(i int) crashlog.Report { return m.store.LoadReport(i) }

// Reports calls fn for each saved slot, in slot order.
func (m *Monitor) Reports(fn func(slot int, r crashlog.Report)) {
	h := m.store.LoadHeader()
	for i := 0; i < int(h.SavedReports); i++ {
		fn(i, m.store.LoadReport(i))
	}
}

// Persist saves the live report at the next slot and then commits the
// header. The header goes last, so a torn capture never exposes an unwritten
// slot. Called from interrupt context; it does not allocate.
func (m *Monitor) Persist(addr []byte) {
	h := m.store.LoadHeader()
	copy(m.report.Address[:], addr)
	m.store.SaveReport(int(h.NextReport), &m.report)
	m.store.SaveHeader(m.store.Advance(h))
}

// AwaitReset arms the short reset-only timeout and spins without keep-alive.
func (m *Monitor) AwaitReset() {
	m.wd.ArmReset(ResetTimeout)
	if m.halt != nil {
		m.halt()
	}
	for {
	}
}
