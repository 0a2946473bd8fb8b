//go:build avr && (atmega1280 || atmega2560)

package platform

// PCSize is the number of return-address bytes the CPU pushes; parts with
// more than 128 KiB of flash use a 22-bit program counter.
const PCSize = 3
