package nvm

import (
	"tinygo.org/x/drivers"
)

// DefaultAT24Address is the AT24Cxx bus address with A0..A2 tied low.
const DefaultAT24Address = 0x50

// AT24Config controls the external EEPROM adaptor. All fields are optional.
type AT24Config struct {
	// Address defaults to DefaultAT24Address if zero.
	Address uint16
	// MaxPolls bounds acknowledge polling after each byte write. Each poll is
	// one bus transaction; the default of 200 covers a 5 ms write cycle at
	// 100 kHz.
	MaxPolls int
}

// AT24 is a Medium on an external AT24Cxx EEPROM (two-byte cell addresses)
// behind an I²C bus.
//
// The chip NACKs while an internal write cycle runs, so every Store is
// followed by acknowledge polling until the chip answers. Polling spins on
// the bus and never sleeps, and transfers go through the scratch buffers
// below, so Load and Store are safe from the watchdog interrupt.
//
// Bus failures are absorbed: a failed Load returns Erased and a failed Store
// is dropped. Err reports the most recent failure.
type AT24 struct {
	bus  drivers.I2C
	addr uint16
	max  int
	err  error

	w [3]byte
	r [1]byte
}

// NewAT24 wraps bus, which must already be configured.
func NewAT24(bus drivers.I2C, cfg AT24Config) *AT24 {
	if cfg.Address == 0 {
		cfg.Address = DefaultAT24Address
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = 200
	}
	return &AT24{bus: bus, addr: cfg.Address, max: cfg.MaxPolls}
}

func (a *AT24) setPointer(cell uint16) {
	a.w[0] = byte(cell >> 8)
	a.w[1] = byte(cell)
}

func (a *AT24) Load(cell uint16) byte {
	a.setPointer(cell)
	if err := a.bus.Tx(a.addr, a.w[:2], a.r[:1]); err != nil {
		a.err = err
		return Erased
	}
	return a.r[0]
}

func (a *AT24) Store(cell uint16, v byte) {
	a.setPointer(cell)
	a.w[2] = v
	if err := a.bus.Tx(a.addr, a.w[:3], nil); err != nil {
		a.err = err
		return
	}
	var err error
	for i := 0; i < a.max; i++ {
		if err = a.bus.Tx(a.addr, a.w[:2], nil); err == nil {
			return
		}
	}
	a.err = err
}

// Err returns the last bus error seen, or nil.
func (a *AT24) Err() error { return a.err }
