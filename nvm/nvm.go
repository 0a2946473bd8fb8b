// Package nvm provides byte-granular access to a non-volatile memory region.
//
// A Medium moves single bytes; BlockStore layers block reads and writes on top
// of it, one byte at a time, with no alignment requirement. Neither reports
// errors: the media used here have no failure mode the firmware can act on.
// Writes are slow (milliseconds per byte on EEPROM) and callers must budget
// for that.
package nvm

// Erased is the value unprogrammed non-volatile memory reads as.
const Erased = 0xFF

// Medium is a byte-addressable non-volatile memory.
type Medium interface {
	Load(addr uint16) byte
	Store(addr uint16, v byte)
}

// BlockStore reads and writes arbitrary-length blocks through a Medium.
type BlockStore struct {
	m Medium
}

func NewBlockStore(m Medium) BlockStore { return BlockStore{m: m} }

// ReadBlock fills buf with the bytes starting at addr.
func (b BlockStore) ReadBlock(addr uint16, buf []byte) {
	for i := range buf {
		buf[i] = b.m.Load(addr)
		addr++
	}
}

// WriteBlock writes data starting at addr.
func (b BlockStore) WriteBlock(addr uint16, data []byte) {
	for _, v := range data {
		b.m.Store(addr, v)
		addr++
	}
}
