//go:build avr

package nvm

import (
	"device/avr"
	"runtime/interrupt"
)

// EEPROM is the AVR's internal EEPROM, driven through EEAR/EEDR/EECR.
type EEPROM struct{}

func (EEPROM) Load(addr uint16) byte {
	eepromSelect(addr)
	avr.EECR.SetBits(avr.EECR_EERE)
	return avr.EEDR.Get()
}

// Store programs one byte. Cells that already hold v are left alone; each
// real write costs ~3.4 ms and one erase/write cycle.
func (EEPROM) Store(addr uint16, v byte) {
	eepromSelect(addr)
	avr.EECR.SetBits(avr.EECR_EERE)
	if avr.EEDR.Get() == v {
		return
	}
	avr.EEDR.Set(v)

	// EEPE has to be set within four cycles of EEMPE, so both go out as
	// back-to-back sbi on EECR (I/O 0x1F) with interrupts masked.
	state := interrupt.Disable()
	avr.Asm("sbi 0x1f, 2\n\tsbi 0x1f, 1")
	interrupt.Restore(state)
}

// eepromSelect waits out any write in progress and latches addr.
func eepromSelect(addr uint16) {
	for avr.EECR.HasBits(avr.EECR_EEPE) {
	}
	avr.EEARH.Set(uint8(addr >> 8))
	avr.EEARL.Set(uint8(addr))
}
