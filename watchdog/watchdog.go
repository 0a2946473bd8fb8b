// Package watchdog drives the hardware watchdog in the AVR style: a timeout
// class picked from a fixed prescaler table, and an interrupt-before-reset
// mode in which the first expiry raises the WDT interrupt and the next one
// resets the device.
package watchdog

import (
	"time"

	"crashtrack-go/x/mathx"
)

// Timeout is a watchdog timeout class. The values are the AVR prescaler codes
// (WDTO_15MS..WDTO_8S) and are ordered by duration.
type Timeout uint8

const (
	Timeout15ms Timeout = iota
	Timeout30ms
	Timeout60ms
	Timeout120ms
	Timeout250ms
	Timeout500ms
	Timeout1s
	Timeout2s
	Timeout4s
	Timeout8s
)

var durations = [...]time.Duration{
	15 * time.Millisecond,
	30 * time.Millisecond,
	60 * time.Millisecond,
	120 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
	8 * time.Second,
}

var names = [...]string{"15ms", "30ms", "60ms", "120ms", "250ms", "500ms", "1s", "2s", "4s", "8s"}

// Duration is the nominal period; the real one drifts with the WDT oscillator.
func (t Timeout) Duration() time.Duration {
	if int(t) >= len(durations) {
		return 0
	}
	return durations[t]
}

func (t Timeout) String() string {
	if int(t) >= len(names) {
		return "invalid"
	}
	return names[t]
}

// Supported lists the timeouts this build target offers, shortest first.
func Supported() []Timeout {
	out := make([]Timeout, 0, len(durations))
	for t := Timeout15ms; t <= maxTimeout; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is offered on this target.
func (t Timeout) Valid() bool { return t <= maxTimeout }

// limit caps t at the longest timeout this target offers. Codes past the
// table would set reserved WDP bits.
func (t Timeout) limit() Timeout { return mathx.Clamp(t, Timeout15ms, maxTimeout) }

// prescaler maps a timeout code onto the WDP3..WDP0 bits of WDTCSR
// (WDP3 sits at bit 5, apart from WDP2..0).
func (t Timeout) prescaler() uint8 {
	return uint8(t&0x07) | uint8(t&0x08)<<2
}

// Controller is the watchdog as the monitor sees it. None of the operations
// can fail; they are unconditional register writes.
type Controller interface {
	// Enable arms the watchdog with t and the interrupt-before-reset mode.
	// Timeouts past the target's longest are capped at it.
	Enable(t Timeout)
	// ArmReset arms the watchdog with t in reset-only mode.
	ArmReset(t Timeout)
	Disable()
	// KeepAlive restarts the countdown.
	KeepAlive()
}
