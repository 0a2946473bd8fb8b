package crashlog

import "encoding/binary"

// Header is the ring bookkeeping stored once at the base of the region.
type Header struct {
	// SavedReports counts valid slots, saturating at MaxEntries.
	SavedReports uint8
	// NextReport is the slot the next capture overwrites.
	NextReport uint8
}

// the packed header encoding must stay exactly HeaderSize bytes.
var _ [HeaderSize]byte = [2]byte{}

func (h Header) encode(b *[HeaderSize]byte) {
	b[0] = h.SavedReports
	b[1] = h.NextReport
}

func decodeHeader(b *[HeaderSize]byte) Header {
	return Header{SavedReports: b[0], NextReport: b[1]}
}

// Report is one crash record. Address holds the program counter bytes in the
// order they were taken off the interrupt stack (as persisted), or in memory
// order once returned by Store.LoadReport. Only the first PCSize bytes are
// meaningful.
type Report struct {
	Address [MaxPCSize]byte
	Data    uint32
}

// encode packs r into b, which must be at least ReportSize long.
func (r *Report) encode(b []byte, pcSize int) {
	copy(b[:pcSize], r.Address[:pcSize])
	binary.LittleEndian.PutUint32(b[pcSize:], r.Data)
}

func (r *Report) decode(b []byte, pcSize int) {
	r.Address = [MaxPCSize]byte{}
	copy(r.Address[:pcSize], b[:pcSize])
	r.Data = binary.LittleEndian.Uint32(b[pcSize:])
}

// swapEnds exchanges the first and last address bytes. For 2- and 3-byte
// program counters that reverses the stack push order.
func (r *Report) swapEnds(pcSize int) {
	r.Address[0], r.Address[pcSize-1] = r.Address[pcSize-1], r.Address[0]
}

// ProgramAddress is the corrected address read as a little-endian unit
// (word) address. Call it on reports returned by LoadReport.
func (r Report) ProgramAddress(pcSize int) uint32 {
	var a uint32
	for i := pcSize - 1; i >= 0; i-- {
		a = a<<8 | uint32(r.Address[i])
	}
	return a
}

// ByteAddress is ProgramAddress in byte units: AVR flash is word-addressed.
func (r Report) ByteAddress(pcSize int) uint32 { return r.ProgramAddress(pcSize) * 2 }
