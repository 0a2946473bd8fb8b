package nvm

// Mem is a RAM-backed Medium. A fresh Mem reads as erased memory.
// Reads outside the image return Erased; writes outside it are dropped.
type Mem struct {
	buf    []byte
	writes int
}

// NewMem returns an erased image of size bytes.
func NewMem(size int) *Mem {
	m := &Mem{buf: make([]byte, size)}
	m.Erase()
	return m
}

// NewMemFromImage wraps an existing memory image (e.g. an EEPROM dump).
// The slice is used in place.
func NewMemFromImage(img []byte) *Mem { return &Mem{buf: img} }

func (m *Mem) Load(addr uint16) byte {
	if int(addr) >= len(m.buf) {
		return Erased
	}
	return m.buf[addr]
}

func (m *Mem) Store(addr uint16, v byte) {
	if int(addr) >= len(m.buf) {
		return
	}
	m.buf[addr] = v
	m.writes++
}

// Erase resets every byte to Erased.
func (m *Mem) Erase() {
	for i := range m.buf {
		m.buf[i] = Erased
	}
}

// Writes returns the number of byte writes accepted so far.
func (m *Mem) Writes() int { return m.writes }

// Size returns the image length in bytes.
func (m *Mem) Size() int { return len(m.buf) }

// Bytes exposes the underlying image.
func (m *Mem) Bytes() []byte { return m.buf }
