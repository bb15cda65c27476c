// Package capk holds the Certification Authority Public Keys a terminal uses
// to recover issuer keys during offline data authentication.
package capk

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"time"
)

// CA PUBLIC KEY (EMV Book 2, 5.1 and Annex A2):
// A payment system publishes its keys under its RID (5 bytes, the leading
// part of every AID it registers) and a one byte index; the card names the
// index in tag '8F'. Each key comes with a SHA-1 checksum computed over
// RID | Index | Modulus | Exponent, which the terminal checks when loading.

// ErrChecksum reports a key whose checksum does not match its content.
var ErrChecksum = errors.New("CA public key checksum mismatch")

// RIDLength is the size of a Registered Application Provider Identifier.
const RIDLength = 5

// Key is a Certification Authority Public Key.
type Key struct {
	RID      []byte
	Index    byte
	Exponent []byte
	Modulus  []byte
	Checksum []byte

	// Expiry is the last day the key may be used. Zero means no expiry.
	Expiry time.Time
}

// String identifies the key as "RID/Index".
func (k Key) String() string {
	return fmt.Sprintf("%X/%02X", k.RID, k.Index)
}

// ComputeChecksum returns SHA-1(RID | Index | Modulus | Exponent).
func (k Key) ComputeChecksum() []byte {
	h := sha1.New()
	h.Write(k.RID)
	h.Write([]byte{k.Index})
	h.Write(k.Modulus)
	h.Write(k.Exponent)
	return h.Sum(nil)
}

// Validate checks the key structure and, when one is given, its checksum.
func (k Key) Validate() error {
	if len(k.RID) != RIDLength {
		return fmt.Errorf("key %s: RID must be %d bytes", k, RIDLength)
	}
	if len(k.Modulus) == 0 || len(k.Exponent) == 0 {
		return fmt.Errorf("key %s: modulus and exponent are required", k)
	}
	if len(k.Checksum) > 0 && !bytes.Equal(k.Checksum, k.ComputeChecksum()) {
		return fmt.Errorf("key %s: %w", k, ErrChecksum)
	}
	return nil
}

// Expired reports whether the key can no longer be used at t.
// A key stays valid until the end of its expiry day.
func (k Key) Expired(t time.Time) bool {
	if k.Expiry.IsZero() {
		return false
	}
	return !t.Before(k.Expiry.AddDate(0, 0, 1))
}
