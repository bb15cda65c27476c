package oda

import (
	"fmt"
	"strings"
)

// ISSUER PUBLIC KEY CERTIFICATE (Tag '90', EMV Book 2 Table 6):
// Recovered with the CA public key; N is the CA modulus length.
//
//   [0]        6A
//   [1]        certificate format, 02
//   [2:6]      issuer identifier, leftmost PAN digits padded with F
//   [6:8]      expiration date MMYY
//   [8:11]     serial number
//   [11]       hash algorithm
//   [12]       public key algorithm
//   [13]       issuer public key length
//   [14]       issuer public key exponent length
//   [15:N-21]  leftmost digits of the issuer public key
//   [N-21:N-1] hash
//   [N-1]      BC
//
// The hash covers [1:N-21], the Issuer PK Remainder ('92') and the Issuer
// PK Exponent ('9F32').

const issuerOverhead = 36

// RecoverIssuerKey recovers the issuer public key from its certificate.
// The key is returned even when a check fails; the error then lists the
// failed checks.
func RecoverIssuerKey(ca PublicKey, cert, remainder, exponent, pan []byte) (PublicKey, error) {
	c := checks{object: "issuer public key certificate"}
	n := len(ca.Modulus)

	if n < issuerOverhead {
		return PublicKey{}, fmt.Errorf("CA modulus of %d bytes is too short", n)
	}
	c.expect(len(cert) == n, "certificate is %d bytes, CA modulus %d", len(cert), n)

	rec, err := Recover(cert, ca)
	if err != nil {
		return PublicKey{}, fmt.Errorf("issuer public key certificate: %w", err)
	}

	c.frame(rec, FormatIssuerCertificate)
	c.expect(rec[11] == hashSHA1, "hash algorithm %02X", rec[11])
	c.expect(sameHash(rec, remainder, exponent), "hash mismatch")

	issuer := panDigits(rec[2:6])
	c.expect(strings.HasPrefix(panDigits(pan), issuer), "issuer identifier %s does not match the PAN", issuer)

	left := rec[15 : n-hashLength-1]
	if keyLen := int(rec[13]); len(left) > keyLen {
		left = left[:keyLen]
	}

	key := PublicKey{
		Modulus:  append(append([]byte{}, left...), remainder...),
		Exponent: exponent,
	}
	return key, c.err()
}
