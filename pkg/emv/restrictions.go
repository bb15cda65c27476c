package emv

import (
	"bytes"
	"fmt"

	"github.com/gregLibert/emv-kernel/pkg/bits"
)

// PROCESSING RESTRICTIONS (EMV Book 3, 10.4):
// Compare the card application with the terminal: version numbers, usage
// control and validity dates. Every mismatch raises its own TVR bit.

// Application Usage Control (Tag '9F07') byte 1.
var (
	AUCDomesticCash     = bits.Flag{Byte: 1, Bit: 8}
	AUCIntlCash         = bits.Flag{Byte: 1, Bit: 7}
	AUCDomesticGoods    = bits.Flag{Byte: 1, Bit: 6}
	AUCIntlGoods        = bits.Flag{Byte: 1, Bit: 5}
	AUCDomesticServices = bits.Flag{Byte: 1, Bit: 4}
	AUCIntlServices     = bits.Flag{Byte: 1, Bit: 3}
	AUCATMs             = bits.Flag{Byte: 1, Bit: 2}
	AUCNonATMTerminals  = bits.Flag{Byte: 1, Bit: 1}
)

// CheckRestrictions runs the processing restrictions.
func (s *Store) CheckRestrictions() {
	s.checkVersion()
	s.checkUsageControl()
	s.checkDates()
}

func (s *Store) checkVersion() {
	card, ok1 := s.Get("9F08")
	term, ok2 := s.Get("9F09")
	if ok1 && ok2 && !bytes.Equal(card, term) {
		s.SetTVR(TVRVersionsDiffer)
	}
}

// checkUsageControl only knows goods transactions: a domestic one needs the
// domestic goods bit, any other the international goods bit.
func (s *Store) checkUsageControl() {
	auc, ok1 := s.Get("9F07")
	country, ok2 := s.Get("9F57")
	if !ok1 || !ok2 {
		return
	}

	want := AUCIntlGoods
	if bytes.Equal(country, s.Value("9F1A")) {
		want = AUCDomesticGoods
	}
	if !want.IsSetIn(auc) {
		s.SetTVR(TVRServiceNotAllowed)
	}
}

func (s *Store) checkDates() {
	today, err := ParseDate(s.Value("9A"))
	if err != nil {
		return
	}

	if expiry, err := ParseDate(s.Value("5F24")); err == nil && today > expiry {
		s.SetTVR(TVRExpiredApplication)
	}
	if effective, err := ParseDate(s.Value("5F25")); err == nil && today < effective {
		s.SetTVR(TVRNotYetEffective)
	}
}

// ParseDate decodes a YYMMDD BCD date into a comparable YYYYMMDD number.
// Years 50 to 99 belong to the 20th century.
func ParseDate(b []byte) (int, error) {
	if len(b) != 3 {
		return 0, fmt.Errorf("date of %d bytes", len(b))
	}
	n, err := ParseBCD(b)
	if err != nil {
		return 0, err
	}

	year := int(n / 10000)
	if year < 50 {
		year += 2000
	} else {
		year += 1900
	}
	return year*10000 + int(n%10000), nil
}
