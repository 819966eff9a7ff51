// Package conv formats integers into caller-provided buffers. No
// allocations, no fmt/strconv; safe for MCU builds and hot paths.
package conv

// Itoa writes the base-10 form of n into buf and returns the used tail.
// buf should be at least 20 bytes for a full int64.
func Itoa(buf []byte, n int64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	if u == 0 {
		i--
		buf[i] = '0'
	}
	for u > 0 && i > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}

// U32Hex writes n as 8 uppercase hex digits, zero-padded, no 0x prefix.
// buf must be at least 8 bytes.
func U32Hex(buf []byte, n uint32) []byte {
	if len(buf) < 8 {
		return buf[:0]
	}
	const digits = "0123456789ABCDEF"
	i := len(buf)
	for j := 0; j < 8; j++ {
		i--
		buf[i] = digits[n&0xF]
		n >>= 4
	}
	return buf[i:]
}
