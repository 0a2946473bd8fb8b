//go:build avr && !at24

package platform

import "crashtrack-go/nvm"

// DefaultMedium is the internal EEPROM.
func DefaultMedium() nvm.Medium { return nvm.EEPROM{} }
