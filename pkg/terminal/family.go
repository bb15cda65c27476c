package terminal

import (
	"bytes"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

// Family is the payment scheme of an application, which decides the EMV
// contactless kernel (Book C-1 to C-7) that processes it.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyMastercard
	FamilyVisa
	FamilyAmex
	FamilyJCB
	FamilyDiscover
	FamilyUnionPay
)

var familyNames = map[Family]string{
	FamilyUnknown:    "Unknown",
	FamilyMastercard: "Mastercard",
	FamilyVisa:       "Visa",
	FamilyAmex:       "American Express",
	FamilyJCB:        "JCB",
	FamilyDiscover:   "Discover",
	FamilyUnionPay:   "UnionPay",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return familyNames[FamilyUnknown]
}

// Kernel returns the contactless kernel identifier, 0 when unknown.
func (f Family) Kernel() int {
	if f == FamilyUnknown || f > FamilyUnionPay {
		return 0
	}
	return int(f) + 1
}

// Registered Application Provider Identifiers of the schemes.
var (
	RIDMastercard = tlv.Hex("A000000004")
	RIDVisa       = tlv.Hex("A000000003")
	RIDAmex       = tlv.Hex("A000000025")
	RIDJCB        = tlv.Hex("A000000065")
	RIDDiscover   = tlv.Hex("A000000152")
	RIDUnionPay   = tlv.Hex("A000000333")
)

// visaCommonDebit is the US common debit AID processed by the Visa kernel.
var visaCommonDebit = tlv.Hex("A0000000980840")

// FamilyOf classifies an AID by its RID.
func FamilyOf(aid []byte) Family {
	switch {
	case bytes.HasPrefix(aid, RIDMastercard):
		return FamilyMastercard
	case bytes.HasPrefix(aid, RIDVisa), bytes.HasPrefix(aid, visaCommonDebit):
		return FamilyVisa
	case bytes.HasPrefix(aid, RIDAmex):
		return FamilyAmex
	case bytes.HasPrefix(aid, RIDJCB):
		return FamilyJCB
	case bytes.HasPrefix(aid, RIDDiscover):
		return FamilyDiscover
	case bytes.HasPrefix(aid, RIDUnionPay):
		return FamilyUnionPay
	default:
		return FamilyUnknown
	}
}
