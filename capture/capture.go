// Package capture is the watchdog interrupt path.
//
// It runs in two stages. The raw stage runs before any prologue can move the
// stack and only records where the hardware-pushed return address sits. On
// AVR that is a naked C ISR; on the host simulator it is ReturnAddress over
// an SRAM image. Dispatch is the second stage. It copies the address to a
// fixed holding buffer and hands it to the bound Handler, which persists it
// and waits for the reset. Dispatch never returns.
package capture

import (
	"sync/atomic"

	"crashtrack-go/crashlog"
)

// State tracks the capture sequence. Hardware reset ends it.
type State uint32

const (
	Idle State = iota
	Fired
	CaptureArmed
	Captured
	AwaitingReset
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fired:
		return "fired"
	case CaptureArmed:
		return "capture_armed"
	case Captured:
		return "captured"
	case AwaitingReset:
		return "awaiting_reset"
	default:
		return "unknown"
	}
}

// Handler is the normal-context side of a capture.
type Handler interface {
	// Persist records the raw address bytes (stack order) with the current
	// diagnostic value.
	Persist(addr []byte)
	// AwaitReset arms the final reset and does not return.
	AwaitReset()
}

var (
	handler Handler
	width   = 2
	state   atomic.Uint32
	held    [crashlog.MaxPCSize]byte
)

// Bind installs the process-wide handler for the WDT interrupt. pcSize is the
// number of return-address bytes the hardware pushes (2 or 3).
func Bind(h Handler, pcSize int) {
	handler = h
	width = pcSize
	state.Store(uint32(Idle))
}

// Current returns the capture state.
func Current() State { return State(state.Load()) }

// ReturnAddress locates the return address in a stack image. SP points at the
// next free byte, so the last pushed byte is at sp+1.
func ReturnAddress(sram []byte, sp uint16, pcSize int) []byte {
	start := int(sp) + 1
	return sram[start : start+pcSize]
}

// Dispatch runs the capture for the frame bytes found by the raw stage.
func Dispatch(frame []byte) {
	state.Store(uint32(Fired))
	copy(held[:width], frame)
	state.Store(uint32(CaptureArmed))

	h := handler
	if h == nil {
		// Nothing bound: the watchdog's next expiry resets the device.
		for {
		}
	}
	h.Persist(held[:width])
	state.Store(uint32(Captured))

	state.Store(uint32(AwaitingReset))
	h.AwaitReset()
	for {
	}
}
