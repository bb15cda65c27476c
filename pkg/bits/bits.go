package bits

// Bit returns a byte with only the n-th bit set (1 to 8).
func Bit(n uint) byte {
	if n < 1 || n > 8 {
		return 0
	}
	return 1 << (n - 1)
}

// IsSet checks if the n-th bit is set (1 to 8).
func IsSet(b byte, n uint) bool {
	return b&Bit(n) != 0
}

// GetRange extracts the value from a range of bits (e.g., bits 4 to 3).
// Example: GetRange(0b00001100, 4, 3) returns 3 (0b11)
func GetRange(b byte, high, low uint) byte {
	if high < low || high > 8 || low < 1 {
		return 0
	}

	width := high - low + 1
	mask := byte((1 << width) - 1)

	return (b >> (low - 1)) & mask
}

// Set activates bit n.
func Set(b byte, n uint) byte {
	return b | Bit(n)
}

// Clear deactivates bit n.
func Clear(b byte, n uint) byte {
	return b &^ Bit(n)
}

// Overlaps reports whether a and b have at least one bit set in common.
// Only the common prefix of both vectors is compared.
func Overlaps(a, b []byte) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i]&b[i] != 0 {
			return true
		}
	}
	return false
}

// Flag addresses a single bit of a byte vector the way EMV documents do:
// byte index counted from 1 and bit number from 1 (LSB) to 8 (MSB).
type Flag struct {
	Byte uint
	Bit  uint
}

// Mask returns the byte mask of the flag.
func (f Flag) Mask() byte {
	return Bit(f.Bit)
}

// SetIn sets the flag in v. Out of range flags are ignored.
func (f Flag) SetIn(v []byte) {
	if f.Byte < 1 || int(f.Byte) > len(v) {
		return
	}
	v[f.Byte-1] = Set(v[f.Byte-1], f.Bit)
}

// IsSetIn reports whether the flag is set in v.
func (f Flag) IsSetIn(v []byte) bool {
	if f.Byte < 1 || int(f.Byte) > len(v) {
		return false
	}
	return IsSet(v[f.Byte-1], f.Bit)
}
