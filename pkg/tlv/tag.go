package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

/*
BER-TLV TAG FIELD (ISO/IEC 8825-1, EMV Book 3 Annex B)

First byte:
  b8-b7: Class (00 universal, 01 application, 10 context-specific, 11 private)
  b6:    0 = primitive data object, 1 = constructed data object
  b5-b1: Tag number. 11111 means the number continues in the following bytes.

Subsequent bytes (only when b5-b1 of the first byte are all set):
  b8:    1 = another byte follows, 0 = last byte of the tag
*/

// Class is the class of a BER tag (bits 8-7 of its first byte).
type Class byte

const (
	ClassUniversal       Class = 0b00
	ClassApplication     Class = 0b01
	ClassContextSpecific Class = 0b10
	ClassPrivate         Class = 0b11
)

func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "Universal"
	case ClassApplication:
		return "Application"
	case ClassContextSpecific:
		return "Context-Specific"
	default:
		return "Private"
	}
}

// Tag is a BER tag identifier held as uppercase hex ("9F02", "BF0C").
type Tag string

// NewTag normalizes a hex string into a Tag.
func NewTag(s string) Tag {
	return Tag(strings.ToUpper(strings.ReplaceAll(s, " ", "")))
}

// ParseTag reads one tag from the start of b and returns it together with
// the number of bytes it occupies.
func ParseTag(b []byte) (Tag, int, error) {
	if len(b) == 0 {
		return "", 0, ErrTruncated
	}

	n := 1
	if b[0]&0x1F == 0x1F {
		for {
			if n >= len(b) {
				return "", 0, fmt.Errorf("multi-byte tag %X: %w", b, ErrTruncated)
			}
			last := b[n]&0x80 == 0
			n++
			if last {
				break
			}
		}
	}

	return Tag(strings.ToUpper(hex.EncodeToString(b[:n]))), n, nil
}

// Bytes returns the encoded tag. An invalid identifier yields nil.
func (t Tag) Bytes() []byte {
	b, err := hex.DecodeString(string(t))
	if err != nil {
		return nil
	}
	return b
}

// Len returns the number of bytes of the encoded tag.
func (t Tag) Len() int {
	return len(t) / 2
}

func (t Tag) first() byte {
	b := t.Bytes()
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// Class returns the class encoded in bits 8-7 of the first byte.
func (t Tag) Class() Class {
	return Class(t.first() >> 6)
}

// IsConstructed reports whether bit 6 of the first byte is set.
func (t Tag) IsConstructed() bool {
	return t.first()&0x20 != 0
}

func (t Tag) String() string {
	return string(t)
}
