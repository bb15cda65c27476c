package oda

import (
	"errors"
	"math/big"
)

// Recover applies the public RSA operation to data and returns a block as
// long as the modulus.
func Recover(data []byte, key PublicKey) ([]byte, error) {
	n := new(big.Int).SetBytes(key.Modulus)
	e := new(big.Int).SetBytes(key.Exponent)
	if n.Sign() == 0 || e.Sign() == 0 {
		return nil, errors.New("empty public key")
	}

	out := make([]byte, len(key.Modulus))
	m := new(big.Int).SetBytes(data)
	new(big.Int).Exp(m, e, n).FillBytes(out)
	return out, nil
}
