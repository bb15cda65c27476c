package emv

import (
	"bytes"

	"github.com/gregLibert/emv-kernel/pkg/bits"
	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

// TERMINAL RISK MANAGEMENT (EMV Book 3, 10.6):
// Contactless readers only check the floor limit. Random transaction
// selection and velocity checking must not be performed and there is no
// exception file.

// ManageRisk performs terminal risk management when the AIP asks for it.
func (s *Store) ManageRisk() {
	if !s.Supports(AIPTerminalRisk) {
		return
	}
	if s.Amount() > s.FloorLimit() {
		s.SetTVR(TVRFloorLimitExceeded)
	}
	s.SetTSI(TSITerminalRiskMgmtPerf)
}

// TERMINAL ACTION ANALYSIS (EMV Book 3, 10.7):
// The TVR is matched against the issuer (IAC) and terminal (TAC) action
// codes. A common bit with a denial code declines offline, a common bit
// with an online code goes online, anything else approves offline. Default
// codes only matter to terminals unable to go online.

// ActionCodes groups the three action codes of one party.
type ActionCodes struct {
	Denial  []byte
	Online  []byte
	Default []byte
}

var (
	allowAll = bytes.Repeat([]byte{0x00}, 5)
	denyAll  = bytes.Repeat([]byte{0xFF}, 5)
)

// IssuerActionCodes returns the IACs. Absent codes deny everything.
func (s *Store) IssuerActionCodes() ActionCodes {
	return ActionCodes{
		Denial:  s.valueOr("9F0E", denyAll),
		Online:  s.valueOr("9F0F", denyAll),
		Default: s.valueOr("9F0D", denyAll),
	}
}

// TerminalActionCodes returns the TACs. Absent codes allow everything.
func (s *Store) TerminalActionCodes() ActionCodes {
	return ActionCodes{
		Denial:  s.valueOr("DF13", allowAll),
		Online:  s.valueOr("DF12", allowAll),
		Default: s.valueOr("DF11", allowAll),
	}
}

// AnalyzeActions returns the reference control parameter of the first
// GENERATE AC: AAC, ARQC (with a CDA signature request when the card
// supports CDA) or TC.
func (s *Store) AnalyzeActions() byte {
	tvr := s.tvr.Bytes()
	iac, tac := s.IssuerActionCodes(), s.TerminalActionCodes()

	switch {
	case bits.Overlaps(tvr, tac.Denial) || bits.Overlaps(tvr, iac.Denial):
		return CryptogramAAC
	case bits.Overlaps(tvr, tac.Online) || bits.Overlaps(tvr, iac.Online):
		if s.Supports(AIPCDA) {
			return CryptogramARQC | CDARequested
		}
		return CryptogramARQC
	default:
		return CryptogramTC
	}
}

func (s *Store) valueOr(tag tlv.Tag, def []byte) []byte {
	if v, ok := s.Get(tag); ok {
		return v
	}
	return def
}
