package crashlog

import (
	"crashtrack-go/errcode"
)

const (
	// HeaderSize is the packed size of Header on the medium.
	HeaderSize = 2
	// DataSize is the packed size of Report.Data.
	DataSize = 4
	// MaxPCSize is the widest program counter handled (ATmega1280/2560).
	MaxPCSize = 3

	DefaultBaseAddress = 500
	DefaultMaxEntries  = 10
)

// Layout places the header and the slot ring in the non-volatile region:
//
//	[Header][Slot_0][Slot_1]...[Slot_{MaxEntries-1}]
//
// packed, with Slot_i at Base + HeaderSize + i*ReportSize().
type Layout struct {
	Base       uint16
	MaxEntries uint8
	PCSize     int
}

// ReportSize is the packed slot size: PCSize address bytes then 4 data bytes.
func (l Layout) ReportSize() int { return l.PCSize + DataSize }

// Size is the number of bytes the region occupies.
func (l Layout) Size() int { return HeaderSize + int(l.MaxEntries)*l.ReportSize() }

// End is the first address past the region.
func (l Layout) End() int { return int(l.Base) + l.Size() }

// SlotAddress returns the medium address of slot i. An index outside the ring
// resolves to slot 0, so a stray index never lands beyond the region.
func (l Layout) SlotAddress(i int) uint16 {
	addr := int(l.Base) + HeaderSize
	if i >= 0 && i < int(l.MaxEntries) {
		addr += i * l.ReportSize()
	}
	return uint16(addr)
}

// Validate checks the layout is usable. A MaxEntries of 0xFF is rejected: a
// saturated count would read back as the erased sentinel.
func (l Layout) Validate() error {
	switch {
	case l.MaxEntries == 0 || l.MaxEntries == 0xFF:
		return errcode.InvalidMaxEntries
	case l.PCSize != 2 && l.PCSize != 3:
		return errcode.InvalidPCSize
	case l.End() > 0x10000:
		return errcode.RegionOverflow
	}
	return nil
}
