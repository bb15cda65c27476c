package terminal

import "github.com/gregLibert/emv-kernel/pkg/tlv"

// DefaultAIDs are the applications the built-in configuration accepts.
var DefaultAIDs = []string{
	"A0000000031010", // Visa Debit/Credit
	"A0000000032010", // Visa Electron
	"A0000000033010", // Visa Interlink
	"A0000000041010", // Mastercard Debit/Credit
	"A0000000042203", // US Maestro
	"A0000000043060", // Maestro
	"A00000002501",   // American Express
	"A00000002504",   // American Express Debit
	"A0000000651010", // JCB
	"A0000000980840", // Visa Common Debit
	"A0000001523010", // Discover
	"A0000001524010", // Discover Common Debit
	"A0000003330101", // UnionPay
}

var commonTags = map[tlv.Tag]string{
	"9C":   "00",         // Transaction Type: goods and services
	"9F33": "8028C8",     // Terminal Capabilities
	"9F40": "E0C8E06400", // Additional Terminal Capabilities
	"9F35": "22",         // Terminal Type: attended, offline with online capability
	"9F1A": "0840",       // Terminal Country Code
	"5F2A": "0840",       // Transaction Currency Code
	"9F4E": "4E464320454D562041646170746F72",
	"9F15": "5331", // Merchant Category Code
	"DF11": "0000000000",
	"DF12": "0000000000",
	"DF13": "0000000000",
	"DF19": "000000000000", // contactless floor limit
	"DF20": "999999999999", // contactless transaction limit
	"DF21": "000000001000", // CVM required limit
}

var familyTags = map[Family]map[tlv.Tag]string{
	FamilyAmex: {
		"9F6D": "C0",       // Contactless Reader Capabilities
		"9F6E": "D8004000", // Enhanced Contactless Reader Capabilities
	},
	FamilyVisa:     {"9F66": "22C04000"},
	FamilyDiscover: {"9F66": "22C04000"},
	FamilyJCB:      {"9F66": "62C04000"},
	FamilyMastercard: {
		"9F1D":   "A980800000000000", // Terminal Risk Management Data
		"DF8117": "80",
		"DF8118": "20",
		"DF8119": "08",
		"DF811B": "80",
		"DF811F": "C8",
	},
}

// Default returns the built-in configuration.
func Default() *Config {
	c := New()
	for _, s := range DefaultAIDs {
		aid := tlv.Hex(s)
		for tag, v := range commonTags {
			c.Set(aid, tag, tlv.Hex(v))
		}
		family := FamilyOf(aid)
		for tag, v := range familyTags[family] {
			c.Set(aid, tag, tlv.Hex(v))
		}
		if family == FamilyMastercard {
			// kernel 2 copies of the terminal action codes
			c.Set(aid, "DF8120", tlv.Hex(commonTags["DF11"]))
			c.Set(aid, "DF8121", tlv.Hex(commonTags["DF13"]))
			c.Set(aid, "DF8122", tlv.Hex(commonTags["DF12"]))
		}
	}
	return c
}
