package watchdog

import (
	"sync"
	"time"
)

// Mode is the simulated watchdog state.
type Mode uint8

const (
	ModeOff Mode = iota
	// ModeInterrupt raises the interrupt on expiry, then drops to ModeReset.
	ModeInterrupt
	// ModeReset resets the device on expiry.
	ModeReset
)

// Sim is a Controller that counts down in virtual time, driven by Advance.
// It follows the AVR behaviour: with both the interrupt and reset enabled, the
// first expiry clears the interrupt enable and raises the interrupt; the next
// expiry resets. A reset leaves the watchdog off.
type Sim struct {
	mu          sync.Mutex
	mode        Mode
	timeout     Timeout
	remaining   time.Duration
	interrupts  int
	resets      int
	onInterrupt func()
	onReset     func()
}

func NewSim() *Sim { return &Sim{} }

// OnInterrupt sets the WDT interrupt handler.
func (s *Sim) OnInterrupt(fn func()) { s.mu.Lock(); s.onInterrupt = fn; s.mu.Unlock() }

// OnReset sets the callback run when the device would reset.
func (s *Sim) OnReset(fn func()) { s.mu.Lock(); s.onReset = fn; s.mu.Unlock() }

func (s *Sim) Enable(t Timeout)   { s.arm(t, ModeInterrupt) }
func (s *Sim) ArmReset(t Timeout) { s.arm(t, ModeReset) }

func (s *Sim) Disable() {
	s.mu.Lock()
	s.mode = ModeOff
	s.remaining = 0
	s.mu.Unlock()
}

func (s *Sim) KeepAlive() {
	s.mu.Lock()
	if s.mode != ModeOff {
		s.remaining = s.timeout.Duration()
	}
	s.mu.Unlock()
}

func (s *Sim) arm(t Timeout, m Mode) {
	s.mu.Lock()
	s.mode = m
	s.timeout = t.limit()
	s.remaining = s.timeout.Duration()
	s.mu.Unlock()
}

// Advance moves virtual time forward by d, firing expiries in order.
// Callbacks run without the lock held and may re-arm the watchdog.
func (s *Sim) Advance(d time.Duration) {
	for d > 0 {
		s.mu.Lock()
		if s.mode == ModeOff {
			s.mu.Unlock()
			return
		}
		step := s.remaining
		if d < step {
			s.remaining -= d
			s.mu.Unlock()
			return
		}
		d -= step

		var fn func()
		if s.mode == ModeInterrupt {
			s.mode = ModeReset
			s.remaining = s.timeout.Duration()
			s.interrupts++
			fn = s.onInterrupt
		} else {
			s.mode = ModeOff
			s.remaining = 0
			s.resets++
			fn = s.onReset
		}
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}

func (s *Sim) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Sim) Timeout() Timeout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeout
}

// Interrupts counts WDT interrupts raised so far.
func (s *Sim) Interrupts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interrupts
}

// Resets counts watchdog resets so far.
func (s *Sim) Resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}
