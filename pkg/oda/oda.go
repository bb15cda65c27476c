// Package oda performs EMV offline data authentication (Book 2): it recovers
// the issuer and ICC public keys from their certificates and validates the
// static (SDA) or dynamic (DDA, CDA) signatures of the card.
package oda

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// RECOVERED DATA:
// Every signed object is an RSA block as long as the signer's modulus:
//
//   6A | format | ... | hash (20 bytes) | BC
//
// Recovery is best effort: each check that fails is recorded and the
// recovered material is still returned, so the next step of the chain runs
// and fails visibly instead of being skipped.

// Signed data formats.
const (
	FormatIssuerCertificate byte = 0x02
	FormatSSAD              byte = 0x03
	FormatICCCertificate    byte = 0x04
	FormatSDAD              byte = 0x05
)

const (
	header     byte = 0x6A
	trailer    byte = 0xBC
	hashSHA1   byte = 0x01
	hashLength      = sha1.Size
)

var (
	// ErrVerification is wrapped by every VerificationError.
	ErrVerification = errors.New("verification failed")
	// ErrMissingData reports a data object the card should have provided.
	ErrMissingData = errors.New("missing card data")
)

// PublicKey is an RSA public key as carried by EMV objects.
type PublicKey struct {
	Modulus  []byte
	Exponent []byte
}

// VerificationError lists the checks a signed object failed.
type VerificationError struct {
	Object   string
	Failures []string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Object, strings.Join(e.Failures, "; "))
}

func (e *VerificationError) Unwrap() error { return ErrVerification }

type checks struct {
	object string
	failed []string
}

func (c *checks) expect(ok bool, format string, args ...any) {
	if !ok {
		c.failed = append(c.failed, fmt.Sprintf(format, args...))
	}
}

// frame checks the header, format and trailer of a recovered block.
func (c *checks) frame(rec []byte, format byte) {
	c.expect(rec[0] == header, "header %02X", rec[0])
	c.expect(rec[1] == format, "format %02X, want %02X", rec[1], format)
	c.expect(rec[len(rec)-1] == trailer, "trailer %02X", rec[len(rec)-1])
}

func (c *checks) err() error {
	if len(c.failed) == 0 {
		return nil
	}
	return &VerificationError{Object: c.object, Failures: c.failed}
}

func digest(parts ...[]byte) []byte {
	h := sha1.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// recoveredHash splits a recovered block of n bytes into the hashed part
// (format to pad, without the header) and the recovered hash.
func recoveredHash(rec []byte) (signed, hash []byte) {
	n := len(rec)
	return rec[1 : n-hashLength-1], rec[n-hashLength-1 : n-1]
}

func sameHash(rec []byte, parts ...[]byte) bool {
	signed, hash := recoveredHash(rec)
	return bytes.Equal(digest(append([][]byte{signed}, parts...)...), hash)
}

// panDigits returns the hex digits of b up to the first 'F' filler.
func panDigits(b []byte) string {
	s := strings.ToUpper(hex.EncodeToString(b))
	if i := strings.IndexByte(s, 'F'); i >= 0 {
		return s[:i]
	}
	return s
}
