package emv

import (
	"encoding/binary"
	"fmt"
)

// CVM LIST (Tag '8E', EMV Book 3 Annex C3):
//   bytes 1-4: amount X, binary
//   bytes 5-8: amount Y, binary
//   then two bytes per rule: CV method code, CV condition code
//
// Method code bit 7 asks to apply the next rule when this one fails; the
// terminal only supports signature and "No CVM required", so '1E', '5E' and
// '1F' are the only codes it can perform. They are tried in that order and,
// within one code, the first rule whose condition holds wins.

// CV method codes supported by the terminal.
const (
	CVMSignature         byte = 0x1E
	CVMSignatureNextRule byte = 0x5E
	CVMNoCVMRequired     byte = 0x1F
)

var cvmPreference = []byte{CVMSignature, CVMSignatureNextRule, CVMNoCVMRequired}

// CV condition codes (Book 3 Table 40).
const (
	CVMCondAlways         byte = 0x00
	CVMCondUnattendedCash byte = 0x01
	CVMCondNotCash        byte = 0x02
	CVMCondSupported      byte = 0x03
	CVMCondManualCash     byte = 0x04
	CVMCondCashback       byte = 0x05
	CVMCondUnderX         byte = 0x06
	CVMCondOverX          byte = 0x07
	CVMCondUnderY         byte = 0x08
	CVMCondOverY          byte = 0x09
)

// CVMRule is one entry of the CVM List.
type CVMRule struct {
	Method    byte
	Condition byte
}

// CVMList is the decoded Cardholder Verification Method List.
type CVMList struct {
	X, Y  uint32
	Rules []CVMRule
}

// ParseCVMList decodes a CVM List.
func ParseCVMList(b []byte) (CVMList, error) {
	if len(b) < 8 || len(b)%2 != 0 {
		return CVMList{}, fmt.Errorf("CVM list of %d bytes is malformed", len(b))
	}

	l := CVMList{
		X: binary.BigEndian.Uint32(b[0:4]),
		Y: binary.BigEndian.Uint32(b[4:8]),
	}
	for i := 8; i < len(b); i += 2 {
		l.Rules = append(l.Rules, CVMRule{Method: b[i], Condition: b[i+1]})
	}
	return l, nil
}

// Transaction types ('9C') the CV conditions distinguish.
const (
	TransactionCash     byte = 0x01
	TransactionCashback byte = 0x09
)

// CVMTransaction is what the CV conditions are evaluated against.
type CVMTransaction struct {
	Amount uint64
	// Type is the Transaction Type ('9C').
	Type byte
	// Unattended is set for terminal types ('9F35') x4 to x6.
	Unattended bool
}

// Applies reports whether the condition of the rule holds for tx.
// Manual cash is cash on an attended terminal.
func (r CVMRule) Applies(tx CVMTransaction, x, y uint32) bool {
	cash := tx.Type == TransactionCash
	switch r.Condition {
	case CVMCondAlways, CVMCondSupported:
		return true
	case CVMCondUnattendedCash:
		return cash && tx.Unattended
	case CVMCondNotCash:
		return !cash && tx.Type != TransactionCashback
	case CVMCondManualCash:
		return cash && !tx.Unattended
	case CVMCondCashback:
		return tx.Type == TransactionCashback
	case CVMCondUnderX:
		return tx.Amount <= uint64(x)
	case CVMCondOverX:
		return tx.Amount > uint64(x)
	case CVMCondUnderY:
		return tx.Amount <= uint64(y)
	case CVMCondOverY:
		return tx.Amount > uint64(y)
	default:
		return false
	}
}

// Select returns the rule the terminal performs for tx.
func (l CVMList) Select(tx CVMTransaction) (CVMRule, bool) {
	for _, method := range cvmPreference {
		for _, r := range l.Rules {
			if r.Method == method && r.Applies(tx, l.X, l.Y) {
				return r, true
			}
		}
	}
	return CVMRule{}, false
}

// Result returns the CVM Results recorded when the rule is performed.
// A signature is checked on the receipt, so its outcome stays unknown.
func (r CVMRule) Result() CVMResult {
	if r.Method == CVMNoCVMRequired {
		return CVMResult{r.Method, r.Condition, CVMResultSuccessful}
	}
	return CVMResult{r.Method, r.Condition, CVMResultUnknown}
}

// ProcessCVM performs cardholder verification. A card without a CVM List is
// flagged as missing ICC data. No verification happens below the CVM
// required limit or when the AIP does not announce it.
func (s *Store) ProcessCVM() {
	if !s.Has("82") {
		return
	}

	raw, ok := s.Get("8E")
	if !ok {
		s.SetTVR(TVRICCDataMissing)
		s.SetCVMResult(CVMNotPerformed)
		return
	}

	if !s.CVMLimitExceeded() || !s.Supports(AIPCardholderVerification) {
		s.SetCVMResult(CVMNotPerformed)
		return
	}

	s.SetTSI(TSICardholderVerifPerf)

	list, err := ParseCVMList(raw)
	if err != nil {
		s.SetTVR(TVRICCDataMissing)
		s.SetTVR(TVRCardholderVerifFailed)
		s.SetCVMResult(CVMNoMatch)
		return
	}

	rule, ok := list.Select(s.cvmTransaction())
	if !ok {
		s.SetTVR(TVRCardholderVerifFailed)
		s.SetCVMResult(CVMNoMatch)
		return
	}
	s.SetCVMResult(rule.Result())
}

func (s *Store) cvmTransaction() CVMTransaction {
	tx := CVMTransaction{Amount: s.Amount()}
	if v := s.Value("9C"); len(v) > 0 {
		tx.Type = v[0]
	}
	if v := s.Value("9F35"); len(v) > 0 {
		kind := v[0] & 0x0F
		tx.Unattended = kind >= 4 && kind <= 6
	}
	return tx
}
