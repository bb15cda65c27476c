package oda

import "fmt"

// SIGNED STATIC APPLICATION DATA (Tag '93', EMV Book 2 Table 7):
//
//   [0]        6A
//   [1]        signed data format, 03
//   [2]        hash algorithm
//   [3:5]      data authentication code
//   [5:N-21]   pad pattern BB
//   [N-21:N-1] hash over [1:N-21] and the static data to be authenticated
//   [N-1]      BC

const ssadOverhead = 26

// VerifySSAD validates the Signed Static Application Data with the issuer
// public key and returns the Data Authentication Code ('9F45'). The code is
// returned whenever the block is long enough to hold it, even if a check
// failed.
func VerifySSAD(issuer PublicKey, ssad, staticData []byte, verifyHash bool) ([]byte, error) {
	c := checks{object: "signed static application data"}
	n := len(issuer.Modulus)

	if n < ssadOverhead {
		return nil, fmt.Errorf("issuer modulus of %d bytes is too short", n)
	}
	c.expect(len(ssad) == n, "signature is %d bytes, issuer modulus %d", len(ssad), n)

	rec, err := Recover(ssad, issuer)
	if err != nil {
		return nil, fmt.Errorf("signed static application data: %w", err)
	}

	c.frame(rec, FormatSSAD)
	c.expect(rec[2] == hashSHA1, "hash algorithm %02X", rec[2])
	if verifyHash {
		c.expect(sameHash(rec, staticData), "hash mismatch")
	}

	return append([]byte{}, rec[3:5]...), c.err()
}
