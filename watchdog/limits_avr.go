//go:build avr && (atmega8 || atmega16 || atmega32)

package watchdog

// Parts without WDP3 top out at the 2 s class.
const maxTimeout = Timeout2s
