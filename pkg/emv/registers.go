package emv

import (
	"fmt"
	"strings"

	"github.com/gregLibert/emv-kernel/pkg/bits"
)

// STATUS REGISTERS:
// The terminal records what it checked and what failed in bit vectors that
// only ever get bits set during a transaction (EMV Book 3 Annex C5 and C6).
// Flags use the EMV notation: byte 1 is the leftmost, bit 8 the MSB.

// Terminal Verification Results (Tag '95').
var (
	TVRDataAuthNotPerformed    = bits.Flag{Byte: 1, Bit: 8}
	TVRSDAFailed               = bits.Flag{Byte: 1, Bit: 7}
	TVRICCDataMissing          = bits.Flag{Byte: 1, Bit: 6}
	TVRCardOnExceptionFile     = bits.Flag{Byte: 1, Bit: 5}
	TVRDDAFailed               = bits.Flag{Byte: 1, Bit: 4}
	TVRCDAFailed               = bits.Flag{Byte: 1, Bit: 3}
	TVRSDASelected             = bits.Flag{Byte: 1, Bit: 2}
	TVRVersionsDiffer          = bits.Flag{Byte: 2, Bit: 8}
	TVRExpiredApplication      = bits.Flag{Byte: 2, Bit: 7}
	TVRNotYetEffective         = bits.Flag{Byte: 2, Bit: 6}
	TVRServiceNotAllowed       = bits.Flag{Byte: 2, Bit: 5}
	TVRNewCard                 = bits.Flag{Byte: 2, Bit: 4}
	TVRCardholderVerifFailed   = bits.Flag{Byte: 3, Bit: 8}
	TVRUnrecognisedCVM         = bits.Flag{Byte: 3, Bit: 7}
	TVRFloorLimitExceeded      = bits.Flag{Byte: 4, Bit: 8}
	TVRRandomlySelected        = bits.Flag{Byte: 4, Bit: 5}
	TVRMerchantForcedOnline    = bits.Flag{Byte: 4, Bit: 4}
	TVRDefaultTDOLUsed         = bits.Flag{Byte: 5, Bit: 8}
	TVRIssuerAuthFailed        = bits.Flag{Byte: 5, Bit: 7}
	TVRScriptFailedBeforeGenAC = bits.Flag{Byte: 5, Bit: 6}
	TVRScriptFailedAfterGenAC  = bits.Flag{Byte: 5, Bit: 5}
	TVRRelayThresholdExceeded  = bits.Flag{Byte: 5, Bit: 4}
	TVRRelayTimeLimitsExceeded = bits.Flag{Byte: 5, Bit: 3}
)

// Transaction Status Information (Tag '9B').
var (
	TSIDataAuthPerformed     = bits.Flag{Byte: 1, Bit: 8}
	TSICardholderVerifPerf   = bits.Flag{Byte: 1, Bit: 7}
	TSICardRiskMgmtPerformed = bits.Flag{Byte: 1, Bit: 6}
	TSIIssuerAuthPerformed   = bits.Flag{Byte: 1, Bit: 5}
	TSITerminalRiskMgmtPerf  = bits.Flag{Byte: 1, Bit: 4}
	TSIScriptProcessingPerf  = bits.Flag{Byte: 1, Bit: 3}
)

// Terminal Interchange Profile (Tag '9F53').
var (
	TIPCVMRequired   = bits.Flag{Byte: 1, Bit: 8}
	TIPSignature     = bits.Flag{Byte: 1, Bit: 7}
	TIPOnlinePIN     = bits.Flag{Byte: 1, Bit: 6}
	TIPOnDeviceCVM   = bits.Flag{Byte: 1, Bit: 5}
	TIPTransitReader = bits.Flag{Byte: 1, Bit: 3}
	TIPContactChip   = bits.Flag{Byte: 1, Bit: 2}
	TIPOfflinePIN    = bits.Flag{Byte: 1, Bit: 1}
	TIPIssuerUpdate  = bits.Flag{Byte: 2, Bit: 8}
)

var tvrNames = map[bits.Flag]string{
	TVRDataAuthNotPerformed:    "Offline data authentication was not performed",
	TVRSDAFailed:               "SDA failed",
	TVRICCDataMissing:          "ICC data missing",
	TVRCardOnExceptionFile:     "Card appears on terminal exception file",
	TVRDDAFailed:               "DDA failed",
	TVRCDAFailed:               "CDA failed",
	TVRSDASelected:             "SDA selected",
	TVRVersionsDiffer:          "ICC and terminal have different application versions",
	TVRExpiredApplication:      "Expired application",
	TVRNotYetEffective:         "Application not yet effective",
	TVRServiceNotAllowed:       "Requested service not allowed for card product",
	TVRNewCard:                 "New card",
	TVRCardholderVerifFailed:   "Cardholder verification was not successful",
	TVRUnrecognisedCVM:         "Unrecognised CVM",
	TVRFloorLimitExceeded:      "Transaction exceeds floor limit",
	TVRRandomlySelected:        "Transaction selected randomly for online processing",
	TVRMerchantForcedOnline:    "Merchant forced transaction online",
	TVRDefaultTDOLUsed:         "Default TDOL used",
	TVRIssuerAuthFailed:        "Issuer authentication failed",
	TVRScriptFailedBeforeGenAC: "Script processing failed before final GENERATE AC",
	TVRScriptFailedAfterGenAC:  "Script processing failed after final GENERATE AC",
	TVRRelayThresholdExceeded:  "Relay resistance threshold exceeded",
	TVRRelayTimeLimitsExceeded: "Relay resistance time limits exceeded",
}

var tsiNames = map[bits.Flag]string{
	TSIDataAuthPerformed:     "Offline data authentication was performed",
	TSICardholderVerifPerf:   "Cardholder verification was performed",
	TSICardRiskMgmtPerformed: "Card risk management was performed",
	TSIIssuerAuthPerformed:   "Issuer authentication was performed",
	TSITerminalRiskMgmtPerf:  "Terminal risk management was performed",
	TSIScriptProcessingPerf:  "Script processing was performed",
}

// TVR holds the Terminal Verification Results.
type TVR [5]byte

// Set raises flag f.
func (t *TVR) Set(f bits.Flag) { f.SetIn(t[:]) }

// Has reports whether flag f is raised.
func (t TVR) Has(f bits.Flag) bool { return f.IsSetIn(t[:]) }

// Bytes returns a copy of the register.
func (t TVR) Bytes() []byte { return append([]byte{}, t[:]...) }

// Describe lists the raised flags, one per line.
func (t TVR) Describe() string { return describeFlags(t[:], tvrNames) }

// TSI holds the Transaction Status Information.
type TSI [2]byte

// Set raises flag f.
func (t *TSI) Set(f bits.Flag) { f.SetIn(t[:]) }

// Has reports whether flag f is raised.
func (t TSI) Has(f bits.Flag) bool { return f.IsSetIn(t[:]) }

// Bytes returns a copy of the register.
func (t TSI) Bytes() []byte { return append([]byte{}, t[:]...) }

// Describe lists the raised flags, one per line.
func (t TSI) Describe() string { return describeFlags(t[:], tsiNames) }

// TIP holds the Terminal Interchange Profile.
type TIP [3]byte

// DefaultTIP announces signature and on-device CVM support.
var DefaultTIP = TIP{0x50, 0x00, 0x00}

// Set raises flag f.
func (t *TIP) Set(f bits.Flag) { f.SetIn(t[:]) }

// Has reports whether flag f is raised.
func (t TIP) Has(f bits.Flag) bool { return f.IsSetIn(t[:]) }

// Bytes returns a copy of the register.
func (t TIP) Bytes() []byte { return append([]byte{}, t[:]...) }

func describeFlags(v []byte, names map[bits.Flag]string) string {
	var lines []string
	for b := uint(1); b <= uint(len(v)); b++ {
		for bit := uint(8); bit >= 1; bit-- {
			f := bits.Flag{Byte: b, Bit: bit}
			if !f.IsSetIn(v) {
				continue
			}
			name, ok := names[f]
			if !ok {
				name = "RFU"
			}
			lines = append(lines, fmt.Sprintf("    - B%db%d: %s", b, bit, name))
		}
	}
	return strings.Join(lines, "\n")
}

// CVM RESULTS (Tag '9F34', EMV Book 4 Annex A4):
//   byte 1: CVM performed (method code of the rule, '3F' when none)
//   byte 2: CVM condition of the rule
//   byte 3: result, 00 unknown, 01 failed, 02 successful

// CVM result outcomes.
const (
	CVMResultUnknown    byte = 0x00
	CVMResultFailed     byte = 0x01
	CVMResultSuccessful byte = 0x02
)

// CVMResult holds the Cardholder Verification Method Results.
type CVMResult [3]byte

// CVMNotPerformed is the result when no CVM was attempted.
var CVMNotPerformed = CVMResult{0x3F, 0x00, CVMResultUnknown}

// CVMNoMatch is the result when no rule of the CVM List applied.
var CVMNoMatch = CVMResult{0x3F, 0x00, CVMResultFailed}

// Bytes returns a copy of the register.
func (c CVMResult) Bytes() []byte { return append([]byte{}, c[:]...) }
