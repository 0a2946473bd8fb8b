//go:build avr && !(atmega1280 || atmega2560)

package platform

// PCSize is the number of return-address bytes the CPU pushes.
const PCSize = 2
