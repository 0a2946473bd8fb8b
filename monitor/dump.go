package monitor

import (
	"io"

	"crashtrack-go/x/conv"
)

const (
	dumpTitle = "Application Monitor"
	dumpRule  = "-------------------"
)

// Dump prints the crash log to w. With onlyIfPresent set, nothing is printed
// when no reports are saved. Each report line carries the slot, the word
// address, the byte address and the diagnostic value:
//
//	0: word-address=0x1A2B: byte-address=0x3456, data=0x2A
//
// Write errors are ignored; w is a console.
func (m *Monitor) Dump(w io.Writer, onlyIfPresent bool) {
	h := m.store.LoadHeader()
	if onlyIfPresent && h.SavedReports == 0 {
		return
	}
	p := printer{w: w}
	p.line(dumpTitle)
	p.line(dumpRule)
	p.dec("Saved reports: ", uint32(h.SavedReports), true)
	p.dec("Next report: ", uint32(h.NextReport), true)

	pc := m.store.Layout().PCSize
	for i := 0; i < int(h.SavedReports); i++ {
		r := m.store.LoadReport(i)
		p.dec("", uint32(i), false)
		p.hex(": word-address=0x", r.ProgramAddress(pc), false)
		p.hex(": byte-address=0x", r.ByteAddress(pc), false)
		p.hex(", data=0x", r.Data, true)
	}
}

// printer writes label/value pairs without fmt.
type printer struct {
	w   io.Writer
	buf [20]byte
}

func (p *printer) line(s string) {
	io.WriteString(p.w, s)
	io.WriteString(p.w, "\n")
}

func (p *printer) dec(label string, v uint32, nl bool) {
	p.value(label, conv.Utoa(p.buf[:], uint64(v)), nl)
}

func (p *printer) hex(label string, v uint32, nl bool) {
	p.value(label, conv.Hex(p.buf[:], v), nl)
}

func (p *printer) value(label string, digits []byte, nl bool) {
	io.WriteString(p.w, label)
	p.w.Write(digits)
	if nl {
		io.WriteString(p.w, "\n")
	}
}
