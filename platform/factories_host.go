//go:build !avr

package platform

import (
	"runtime"
	"time"

	"crashtrack-go/capture"
	"crashtrack-go/monitor"
	"crashtrack-go/nvm"
	"crashtrack-go/watchdog"
)

// PCSize is the return-address width the host simulator defaults to.
const PCSize = 2

const (
	// ATmega328P sizes.
	eepromSize = 1024
	sramSize   = 2048
)

// Device simulates an AVR board: an EEPROM that survives resets, a watchdog
// in virtual time, and an SRAM stack the WDT interrupt pushes onto.
type Device struct {
	EEPROM *nvm.Mem
	WD     *watchdog.Sim

	cfg    monitor.Config
	mon    *monitor.Monitor
	sram   []byte
	sp     uint16
	pc     uint32
	halted chan struct{}
	boots  int
}

// NewDevice returns a board with erased EEPROM. Call Boot before use.
func NewDevice(cfg monitor.Config) *Device {
	d := &Device{
		EEPROM: nvm.NewMem(eepromSize),
		WD:     watchdog.NewSim(),
		cfg:    cfg,
		sram:   make([]byte, sramSize),
	}
	d.WD.OnInterrupt(d.interrupt)
	return d
}

// Boot starts the program again: fresh RAM, watchdog off, a new monitor on
// the surviving EEPROM bound to the interrupt.
func (d *Device) Boot() *monitor.Monitor {
	d.WD.Disable()
	for i := range d.sram {
		d.sram[i] = 0
	}
	d.sp = uint16(len(d.sram) - 1)
	d.mon = monitor.New(d.cfg, d.EEPROM, d.WD, d.halt)
	capture.Bind(d.mon, d.cfg.PCSize)
	d.boots++
	return d.mon
}

// Boots counts calls to Boot.
func (d *Device) Boots() int { return d.boots }

// Run advances time by dur while the program keeps the watchdog fed every
// step.
func (d *Device) Run(dur, step time.Duration) {
	for dur > 0 {
		d.WD.Advance(step)
		d.mon.KeepAlive()
		dur -= step
	}
}

// Hang simulates the program wedging at word address pc: keep-alives stop,
// the WDT interrupt captures, and the device resets. It returns false if the
// watchdog was not running, in which case nothing happens.
func (d *Device) Hang(pc uint32) bool {
	d.pc = pc
	before := d.WD.Resets()
	for d.WD.Resets() == before {
		if d.WD.Mode() == watchdog.ModeOff {
			return false
		}
		d.WD.Advance(time.Millisecond)
	}
	return true
}

// interrupt is the WDT vector. The CPU pushes the return address low byte
// first, then the raw stage finds it above SP and the capture runs on its own
// goroutine, which never comes back.
func (d *Device) interrupt() {
	for i := 0; i < d.cfg.PCSize; i++ {
		d.sram[d.sp] = byte(d.pc >> (8 * i))
		d.sp--
	}
	frame := capture.ReturnAddress(d.sram, d.sp, d.cfg.PCSize)

	d.halted = make(chan struct{})
	go capture.Dispatch(frame)
	<-d.halted
}

// halt is the spin in AwaitReset: it hands control back to the simulation
// and ends the capture goroutine.
func (d *Device) halt() {
	close(d.halted)
	runtime.Goexit()
}
