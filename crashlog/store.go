// Package crashlog owns the on-media crash log: a small header followed by a
// ring of fixed-size report slots.
//
// Nothing here returns an error. Memory that was never written, or was
// written under a different configuration, is normalised to an empty or
// clamped header on load.
package crashlog

import (
	"crashtrack-go/nvm"
	"crashtrack-go/x/mathx"
)

const maxReportSize = MaxPCSize + DataSize

// Store reads and writes the crash log through a block store.
// It holds scratch buffers so no call allocates; it is not safe for
// concurrent use.
type Store struct {
	blk    nvm.BlockStore
	layout Layout
	hbuf   [HeaderSize]byte
	rbuf   [maxReportSize]byte
}

// NewStore binds a validated layout to a medium.
func NewStore(m nvm.Medium, l Layout) *Store {
	return &Store{blk: nvm.NewBlockStore(m), layout: l}
}

func (s *Store) Layout() Layout { return s.layout }

// LoadHeader reads the header and normalises it:
// an erased count reads as zero, a count above MaxEntries is clamped, and an
// out-of-range next slot wraps to zero.
func (s *Store) LoadHeader() Header {
	s.blk.ReadBlock(s.layout.Base, s.hbuf[:])
	h := decodeHeader(&s.hbuf)
	if h.SavedReports == nvm.Erased {
		h.SavedReports = 0
	} else {
		h.SavedReports = mathx.Min(h.SavedReports, s.layout.MaxEntries)
	}
	if h.NextReport >= s.layout.MaxEntries {
		h.NextReport = 0
	}
	return h
}

// SaveHeader overwrites the header.
func (s *Store) SaveHeader(h Header) {
	h.encode(&s.hbuf)
	s.blk.WriteBlock(s.layout.Base, s.hbuf[:])
}

// SlotAddress returns the address of slot i.
func (s *Store) SlotAddress(i int) uint16 { return s.layout.SlotAddress(i) }

// SaveReport writes r into slot as-is; address bytes are not reordered.
func (s *Store) SaveReport(slot int, r *Report) {
	n := s.layout.ReportSize()
	r.encode(s.rbuf[:n], s.layout.PCSize)
	s.blk.WriteBlock(s.layout.SlotAddress(slot), s.rbuf[:n])
}

// LoadReport reads slot i and puts the address back into memory order.
func (s *Store) LoadReport(i int) Report {
	n := s.layout.ReportSize()
	s.blk.ReadBlock(s.layout.SlotAddress(i), s.rbuf[:n])
	var r Report
	r.decode(s.rbuf[:n], s.layout.PCSize)
	r.swapEnds(s.layout.PCSize)
	return r
}

// Advance returns h after one more capture: the next slot wraps at
// MaxEntries and the count saturates there.
func (s *Store) Advance(h Header) Header {
	h.NextReport = mathx.WrapInc(h.NextReport, s.layout.MaxEntries)
	h.SavedReports = mathx.SatInc(h.SavedReports, s.layout.MaxEntries)
	return h
}
