package oda

import (
	"fmt"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

// SIGNED DYNAMIC APPLICATION DATA (Tag '9F4B', EMV Book 2 Tables 17 and 22):
//
//   [0]            6A
//   [1]            signed data format, 05
//   [2]            hash algorithm
//   [3]            ICC dynamic data length L
//   [4:4+L]        ICC dynamic data
//   [4+L:N-21]     pad pattern BB
//   [N-21:N-1]     hash over [1:N-21] and the Unpredictable Number
//   [N-1]          BC
//
// With CDA the ICC dynamic data is:
//
//   IDN length | ICC Dynamic Number | CID | Application Cryptogram (8) |
//   Transaction Data Hash Code (20)

const (
	sdadOverhead     = 25
	cryptogramLength = 8
)

// DynamicData is the content of the ICC dynamic data.
type DynamicData struct {
	ICCDynamicNumber    []byte
	CID                 []byte
	Cryptogram          []byte
	TransactionDataHash []byte
}

// RecoverSDAD validates the Signed Dynamic Application Data with the ICC
// public key and decodes the ICC dynamic data it carries.
func RecoverSDAD(icc PublicKey, sdad, unpredictable []byte) (DynamicData, error) {
	c := checks{object: "signed dynamic application data"}
	n := len(icc.Modulus)

	if n < sdadOverhead {
		return DynamicData{}, fmt.Errorf("ICC modulus of %d bytes is too short", n)
	}
	c.expect(len(sdad) == n, "signature is %d bytes, ICC modulus %d", len(sdad), n)

	rec, err := Recover(sdad, icc)
	if err != nil {
		return DynamicData{}, fmt.Errorf("signed dynamic application data: %w", err)
	}

	c.frame(rec, FormatSDAD)
	c.expect(rec[2] == hashSHA1, "hash algorithm %02X", rec[2])
	c.expect(sameHash(rec, unpredictable), "hash mismatch")

	l := int(rec[3])
	if 4+l > n-hashLength-1 {
		c.expect(false, "dynamic data length %d exceeds the block", l)
		return DynamicData{}, c.err()
	}

	dyn, ok := parseDynamicData(rec[4 : 4+l])
	c.expect(ok, "malformed dynamic data")
	return dyn, c.err()
}

func parseDynamicData(b []byte) (DynamicData, bool) {
	if len(b) == 0 {
		return DynamicData{}, false
	}
	idnLen := int(b[0])
	if 1+idnLen > len(b) {
		return DynamicData{}, false
	}

	d := DynamicData{ICCDynamicNumber: append([]byte{}, b[1:1+idnLen]...)}
	rest := b[1+idnLen:]
	if len(rest) == 0 {
		return d, true
	}
	if len(rest) != 1+cryptogramLength+hashLength {
		return d, false
	}

	d.CID = append([]byte{}, rest[:1]...)
	d.Cryptogram = append([]byte{}, rest[1:1+cryptogramLength]...)
	d.TransactionDataHash = append([]byte{}, rest[1+cryptogramLength:]...)
	return d, true
}

// TransactionDataHash computes the Transaction Data Hash Code: SHA-1 over
// the PDOL data sent with GET PROCESSING OPTIONS, the CDOL1 data sent with
// GENERATE AC and the data objects of the GENERATE AC response template
// ('77' value) in card order, the SDAD excepted. Lengths above 0x7F are
// encoded in long form.
func TransactionDataHash(pdolData, cdol1Data, template []byte) ([]byte, error) {
	list, err := tlv.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("response template: %w", err)
	}
	return digest(pdolData, cdol1Data, list.Remove("9F4B").Encode(tlv.EncodeLongForm)), nil
}
