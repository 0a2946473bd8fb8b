package monitor

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"crashtrack-go/crashlog"
	"crashtrack-go/nvm"
	"crashtrack-go/watchdog"

	"github.com/google/go-cmp/cmp"
)

func newMonitor(t *testing.T, entries uint8, pc int) (*Monitor, *nvm.Mem, *watchdog.Sim) {
	t.Helper()
	mem := nvm.NewMem(1024)
	wd := watchdog.NewSim()
	cfg := Config{BaseAddress: 500, MaxEntries: entries, PCSize: pc}
	return New(cfg, mem, wd, nil), mem, wd
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig(2)
	if c.BaseAddress != 500 || c.MaxEntries != 10 || c.PCSize != 2 {
		t.Fatalf("DefaultConfig = %+v", c)
	}
}

func TestNewPanicsOnBadLayout(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero entries")
		}
	}()
	New(Config{BaseAddress: 0, MaxEntries: 0, PCSize: 2}, nvm.NewMem(16), watchdog.NewSim(), nil)
}

func TestDiagnosticPassthrough(t *testing.T) {
	m, _, wd := newMonitor(t, 10, 2)
	for _, v := range []uint32{0, 1, 0x7FFFFFFF, 0xDEADBEEF, 0xFFFFFFFF} {
		m.SetData(v)
		m.EnableWatchdog(watchdog.Timeout1s)
		m.KeepAlive()
		wd.Advance(500)
		m.DisableWatchdog()
		if got := m.Data(); got != v {
			t.Fatalf("Data = %#x, want %#x", got, v)
		}
	}
}

func TestWatchdogDelegation(t *testing.T) {
	m, _, wd := newMonitor(t, 10, 2)
	m.EnableWatchdog(watchdog.Timeout4s)
	if wd.Mode() != watchdog.ModeInterrupt || wd.Timeout() != watchdog.Timeout4s {
		t.Fatalf("enable: mode=%d timeout=%v", wd.Mode(), wd.Timeout())
	}
	m.DisableWatchdog()
	if wd.Mode() != watchdog.ModeOff {
		t.Fatalf("disable: mode=%d", wd.Mode())
	}
}

func TestRingInvariant(t *testing.T) {
	const n = 4
	m, _, _ := newMonitor(t, n, 2)
	for k := 0; k <= 3*n; k++ {
		h := m.Header()
		want := crashlog.Header{SavedReports: uint8(min(k, n)), NextReport: uint8(k % n)}
		if h != want {
			t.Fatalf("after %d captures: %+v, want %+v", k, h, want)
		}
		m.SetData(uint32(k))
		m.Persist([]byte{byte(k), 0x10})
	}
}

func TestWrapAroundOverwritesOldest(t *testing.T) {
	m, _, _ := newMonitor(t, 3, 2)
	for k := 1; k <= 5; k++ {
		m.SetData(uint32(100 + k))
		// raw stack order: high byte first
		m.Persist([]byte{0x00, byte(k)})
	}
	if h := m.Header(); h != (crashlog.Header{SavedReports: 3, NextReport: 2}) {
		t.Fatalf("header = %+v", h)
	}
	type got struct {
		Addr uint32
		Data uint32
	}
	var all []got
	m.Reports(func(_ int, r crashlog.Report) {
		all = append(all, got{r.ProgramAddress(2), r.Data})
	})
	want := []got{{4, 104}, {5, 105}, {3, 103}}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Fatalf("slots (-want +got):\n%s", diff)
	}
}

func TestPersistWritesSlotBeforeHeader(t *testing.T) {
	m, mem, _ := newMonitor(t, 3, 2)
	m.SetData(7)
	m.Persist([]byte{0x12, 0x34})
	// The header is the last thing written: a store that stops one write
	// short leaves the old header in place.
	img := append([]byte(nil), mem.Bytes()...)
	torn := nvm.NewMemFromImage(img)
	torn.Store(500, nvm.Erased)
	torn.Store(501, nvm.Erased)
	again := New(Config{BaseAddress: 500, MaxEntries: 3, PCSize: 2}, torn, watchdog.NewSim(), nil)
	if h := again.Header(); h != (crashlog.Header{}) {
		t.Fatalf("torn header = %+v", h)
	}
	if r := again.Report(0); r.ProgramAddress(2) != 0x1234 || r.Data != 7 {
		t.Fatalf("slot 0 = %+v", r)
	}
}

func TestAwaitResetArmsShortTimeout(t *testing.T) {
	mem := nvm.NewMem(1024)
	wd := watchdog.NewSim()
	done := make(chan struct{})
	m := New(DefaultConfig(2), mem, wd, func() {
		close(done)
		runtime.Goexit()
	})
	m.EnableWatchdog(watchdog.Timeout8s)
	go m.AwaitReset()
	<-done
	if wd.Mode() != watchdog.ModeReset || wd.Timeout() != ResetTimeout {
		t.Fatalf("after AwaitReset: mode=%d timeout=%v", wd.Mode(), wd.Timeout())
	}
}

func TestDumpSuppressedWhenEmpty(t *testing.T) {
	m, _, _ := newMonitor(t, 10, 2)
	var buf bytes.Buffer
	m.Dump(&buf, true)
	if buf.Len() != 0 {
		t.Fatalf("Dump(onlyIfPresent) on erased region wrote %q", buf.String())
	}
	m.Dump(&buf, false)
	want := "Application Monitor\n-------------------\nSaved reports: 0\nNext report: 0\n"
	if buf.String() != want {
		t.Fatalf("Dump(all) = %q, want %q", buf.String(), want)
	}
}

func TestDumpFormat(t *testing.T) {
	m, _, _ := newMonitor(t, 10, 2)
	m.SetData(0x2A)
	m.Persist([]byte{0x1A, 0x2B})
	m.SetData(0)
	m.Persist([]byte{0x00, 0x40})

	var buf bytes.Buffer
	m.Dump(&buf, true)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"Application Monitor",
		"-------------------",
		"Saved reports: 2",
		"Next report: 2",
		"0: word-address=0x1A2B: byte-address=0x3456, data=0x2A",
		"1: word-address=0x40: byte-address=0x80, data=0x0",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("dump (-want +got):\n%s", diff)
	}
}

func TestDumpThreeBytePC(t *testing.T) {
	m, _, _ := newMonitor(t, 10, 3)
	m.SetData(1)
	m.Persist([]byte{0x01, 0xF0, 0x00})
	var buf bytes.Buffer
	m.Dump(&buf, true)
	if !strings.Contains(buf.String(), "0: word-address=0x1F000: byte-address=0x3E000, data=0x1\n") {
		t.Fatalf("dump = %q", buf.String())
	}
}

// i2cEEPROM answers AT24Cxx transactions: a two-byte cell pointer, then data
// bytes to write or a sequential read.
type i2cEEPROM struct {
	mem [1024]byte
	ptr uint16
}

func (e *i2cEEPROM) Tx(addr uint16, w, r []byte) error {
	if len(w) >= 2 {
		e.ptr = (uint16(w[0])<<8 | uint16(w[1])) % uint16(len(e.mem))
		for _, v := range w[2:] {
			e.mem[e.ptr] = v
			e.ptr = (e.ptr + 1) % uint16(len(e.mem))
		}
	}
	for i := range r {
		r[i] = e.mem[e.ptr]
		e.ptr = (e.ptr + 1) % uint16(len(e.mem))
	}
	return nil
}

func TestPersistOverAT24DoesNotAllocate(t *testing.T) {
	bus := &i2cEEPROM{}
	for i := range bus.mem {
		bus.mem[i] = nvm.Erased
	}
	m := New(DefaultConfig(2), nvm.NewAT24(bus, nvm.AT24Config{}), watchdog.NewSim(), nil)
	m.SetData(0x2A)
	addr := []byte{0x1A, 0x2B}

	allocs := testing.AllocsPerRun(5, func() { m.Persist(addr) })
	if allocs != 0 {
		t.Fatalf("Persist over AT24 allocated %v times per capture", allocs)
	}
	// AllocsPerRun adds one warm-up call.
	if h := m.Header(); h != (crashlog.Header{SavedReports: 6, NextReport: 6}) {
		t.Fatalf("header = %+v", h)
	}
	if r := m.Report(0); r.ProgramAddress(2) != 0x1A2B || r.Data != 0x2A {
		t.Fatalf("report 0 = %#x data=%#x", r.ProgramAddress(2), r.Data)
	}
}
