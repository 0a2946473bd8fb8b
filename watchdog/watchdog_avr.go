//go:build avr

package watchdog

import (
	"device/avr"
	"runtime/interrupt"
)

// AVR is the on-chip watchdog, driven through WDTCSR.
type AVR struct{}

func (AVR) Enable(t Timeout)   { configure(t, true) }
func (AVR) ArmReset(t Timeout) { configure(t, false) }

func (AVR) Disable() {
	state := interrupt.Disable()
	avr.Asm("wdr")
	// WDRF overrides WDE, so it has to be cleared first.
	avr.MCUSR.ClearBits(avr.MCUSR_WDRF)
	avr.WDTCSR.SetBits(avr.WDTCSR_WDCE | avr.WDTCSR_WDE)
	avr.WDTCSR.Set(0)
	interrupt.Restore(state)
}

func (AVR) KeepAlive() { avr.Asm("wdr") }

func configure(t Timeout, irq bool) {
	v := uint8(avr.WDTCSR_WDE) | t.limit().prescaler()
	if irq {
		v |= avr.WDTCSR_WDIE
	}
	state := interrupt.Disable()
	avr.Asm("wdr")
	// Timed sequence: the new value must follow WDCE|WDE within four cycles.
	avr.WDTCSR.Set(avr.WDTCSR_WDCE | avr.WDTCSR_WDE)
	avr.WDTCSR.Set(v)
	interrupt.Restore(state)
}
