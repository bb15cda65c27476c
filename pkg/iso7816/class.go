package iso7816

import (
	"fmt"

	"github.com/gregLibert/emv-kernel/pkg/bits"
)

// CLASS BYTE (ISO 7816-4 5.4.1):
// A payment kernel sends two classes. '00' (first interindustry, no secure
// messaging, channel 0) carries SELECT, READ RECORD and GET RESPONSE. '80'
// (b8 set, proprietary) carries GET PROCESSING OPTIONS and GENERATE AC.
//
// Interindustry layouts:
//   - 00xx xxxx: b5 chaining, b4-b3 secure messaging, b2-b1 channel 0-3.
//   - 01xx xxxx: b6 secure messaging, b5 chaining, b4-b1 channel minus 4.
//
// A proprietary class is passed through as is.

// SecureMessaging is the secure messaging indication of an interindustry class.
type SecureMessaging int

const (
	SMNone         SecureMessaging = 0
	SMProprietary  SecureMessaging = 1
	SMHeaderNoProc SecureMessaging = 2
	SMHeaderAuth   SecureMessaging = 3
)

// Class is a decoded CLA byte.
type Class struct {
	Raw             byte
	IsProprietary   bool
	IsChained       bool
	SecureMessaging SecureMessaging
	Channel         uint8
}

// NewClass decodes a CLA byte. 'FF' is reserved for PPS and rejected.
func NewClass(cla byte) (Class, error) {
	if cla == 0xFF {
		return Class{}, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}

	c := Class{Raw: cla}
	if bits.IsSet(cla, 8) {
		c.IsProprietary = true
		return c, nil
	}

	c.IsChained = bits.IsSet(cla, 5)
	if bits.IsSet(cla, 7) {
		if bits.IsSet(cla, 6) {
			c.SecureMessaging = SMHeaderNoProc
		}
		c.Channel = bits.GetRange(cla, 4, 1) + 4
		return c, nil
	}

	c.SecureMessaging = SecureMessaging(bits.GetRange(cla, 4, 3))
	c.Channel = bits.GetRange(cla, 2, 1)
	return c, nil
}

// Encode returns the CLA byte. Interindustry classes are rebuilt from their
// fields, so a zero Class encodes as '00'.
func (c *Class) Encode() (byte, error) {
	if c.IsProprietary {
		return c.Raw, nil
	}
	if c.Channel > 19 {
		return 0, fmt.Errorf("channel %d out of range (max 19)", c.Channel)
	}

	var cla byte
	if c.IsChained {
		cla = bits.Set(cla, 5)
	}

	if c.Channel < 4 {
		return cla | byte(c.SecureMessaging)<<2 | c.Channel, nil
	}

	if c.SecureMessaging == SMProprietary || c.SecureMessaging == SMHeaderAuth {
		return 0, fmt.Errorf("secure messaging %d needs a channel below 4, got %d", c.SecureMessaging, c.Channel)
	}
	cla = bits.Set(cla, 7)
	if c.SecureMessaging != SMNone {
		cla = bits.Set(cla, 6)
	}
	return cla | (c.Channel - 4), nil
}
