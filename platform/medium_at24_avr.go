//go:build avr && at24

package platform

import (
	"machine"

	"crashtrack-go/nvm"
)

// DefaultMedium is an AT24Cxx on I2C0 at its default address, for boards
// that keep the crash log off-chip (build with -tags at24).
func DefaultMedium() nvm.Medium {
	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{Frequency: 100 * machine.KHz}); err != nil {
		println("[platform] i2c:", err.Error())
	}
	return nvm.NewAT24(bus, nvm.AT24Config{})
}
