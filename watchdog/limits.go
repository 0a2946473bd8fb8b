//go:build !(avr && (atmega8 || atmega16 || atmega32))

package watchdog

const maxTimeout = Timeout8s
