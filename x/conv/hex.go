package conv

const hexDigits = "0123456789ABCDEF"

// Hex writes the uppercase hex form of n, without 0x and without leading
// zeros, into the tail of buf and returns the used slice.
// buf should be length >= 8.
func Hex(buf []byte, n uint32) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = hexDigits[n&0xF]
		n >>= 4
	}
	return buf[i:]
}

// ParseHex parses an unprefixed hex string (either case).
// ok is false on an empty string, a bad digit, or overflow.
func ParseHex(s string) (n uint32, ok bool) {
	if len(s) == 0 || len(s) > 8 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'f':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, false
		}
		n = n<<4 | uint32(d)
	}
	return n, true
}
