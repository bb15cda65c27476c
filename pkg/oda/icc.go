package oda

import "fmt"

// ICC PUBLIC KEY CERTIFICATE (Tag '9F46', EMV Book 2 Table 14):
// Recovered with the issuer public key; N is the issuer modulus length.
//
//   [0]        6A
//   [1]        certificate format, 04
//   [2:12]     application PAN padded with F
//   [12:14]    expiration date MMYY
//   [14:17]    serial number
//   [17]       hash algorithm
//   [18]       public key algorithm
//   [19]       ICC public key length
//   [20]       ICC public key exponent length
//   [21:N-21]  leftmost digits of the ICC public key
//   [N-21:N-1] hash
//   [N-1]      BC
//
// The hash covers [1:N-21], the ICC PK Remainder ('9F48'), the ICC PK
// Exponent ('9F47') and the static data to be authenticated.

const iccOverhead = 42

// RecoverICCKey recovers the ICC public key from its certificate. The hash
// check is skipped when verifyHash is false. The key is returned even when
// a check fails.
func RecoverICCKey(issuer PublicKey, cert, remainder, exponent, pan, staticData []byte, verifyHash bool) (PublicKey, error) {
	c := checks{object: "ICC public key certificate"}
	n := len(issuer.Modulus)

	if n < iccOverhead {
		return PublicKey{}, fmt.Errorf("issuer modulus of %d bytes is too short", n)
	}
	c.expect(len(cert) == n, "certificate is %d bytes, issuer modulus %d", len(cert), n)

	rec, err := Recover(cert, issuer)
	if err != nil {
		return PublicKey{}, fmt.Errorf("ICC public key certificate: %w", err)
	}

	c.frame(rec, FormatICCCertificate)
	c.expect(rec[17] == hashSHA1, "hash algorithm %02X", rec[17])
	if verifyHash {
		c.expect(sameHash(rec, remainder, exponent, staticData), "hash mismatch")
	}

	certPAN := panDigits(rec[2:12])
	c.expect(certPAN == panDigits(pan), "PAN %s does not match the card", certPAN)

	left := rec[21 : n-hashLength-1]
	if keyLen := int(rec[19]); len(left) > keyLen {
		left = left[:keyLen]
	}

	key := PublicKey{
		Modulus:  append(append([]byte{}, left...), remainder...),
		Exponent: exponent,
	}
	return key, c.err()
}
