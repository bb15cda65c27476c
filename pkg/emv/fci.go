package emv

import (
	"fmt"
	"strings"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// FILE CONTROL INFORMATION (FCI) returned by SELECT (EMV Book 1, 11.3.4).
//
// The same template answers three different selections:
//   - PPSE ("2PAY.SYS.DDF01"): BF0C carries one '61' Directory Entry per application.
//   - PSE ("1PAY.SYS.DDF01"): A5 carries the SFI ('88') of the directory records.
//   - ADF (an AID): A5 carries the label, the priority and the PDOL ('9F38').

// Directory names selected to start the application selection.
var (
	PPSE = []byte("2PAY.SYS.DDF01")
	PSE  = []byte("1PAY.SYS.DDF01")
)

// FCI represents the EMV-specific File Control Information returned in response to a SELECT command.
type FCI struct {
	DFName              []byte                 `tlv:"84" fmt:"ascii"`
	ProprietaryTemplate FCIProprietaryTemplate `tlv:"A5"`
}

// FCIProprietaryTemplate contains the issuer-specific data found in tag 'A5'.
type FCIProprietaryTemplate struct {
	ApplicationLabel []byte `tlv:"50" fmt:"ascii"`

	ApplicationPriorityIndicator uint8  `tlv:"87"`
	SFI                          uint8  `tlv:"88"`
	PDOL                         []byte `tlv:"9F38"`
	LanguagePreference           []byte `tlv:"5F2D" fmt:"ascii"`
	IssuerCodeTableIndex         []byte `tlv:"9F11" fmt:"int"`
	ApplicationPreferredName     []byte `tlv:"9F12" fmt:"ascii"`

	IssuerDiscretionaryData *FCIIssuerDiscretionaryData `tlv:"BF0C"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// FCIIssuerDiscretionaryData represents the discretionary data (Tag 'BF0C').
// In a PPSE answer it holds the directory entries.
type FCIIssuerDiscretionaryData struct {
	Applications []ApplicationTemplate `tlv:"61"`

	LogEntry                           []byte `tlv:"9F4D"`
	IssuerIdentificationNumberExtended []byte `tlv:"9F0C"`
	IssuerCountryCodeAlpha3            []byte `tlv:"5F56" fmt:"ascii"`
	IssuerCountryCodeAlpha2            []byte `tlv:"5F55" fmt:"ascii"`
	BankIdentifierCode                 []byte `tlv:"5F54" fmt:"ascii"`
	IBAN                               []byte `tlv:"5F53" fmt:"ascii"`
	IssuerURL                          []byte `tlv:"5F50" fmt:"ascii"`
	IssuerIdentificationNumber         []byte `tlv:"42"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// ParseFCI interprets raw byte data as an EMV FCI structure.
func ParseFCI(data []byte) (*FCI, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty data cannot be parsed")
	}

	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("BER-TLV decode failed: %w", err)
	}

	var processingPackets []bertlv.TLV

	if len(packets) > 0 && strings.EqualFold(packets[0].Tag, "6F") {
		processingPackets = packets[0].TLVs
	} else {
		processingPackets = packets
	}

	fci := &FCI{}
	if err := tlv.UnmarshalFromPackets(processingPackets, fci); err != nil {
		return nil, fmt.Errorf("failed to map structure: %w", err)
	}

	return fci, nil
}

// Applications returns the directory entries of a PPSE answer, in card order.
func (f *FCI) Applications() []ApplicationTemplate {
	if f.ProprietaryTemplate.IssuerDiscretionaryData == nil {
		return nil
	}
	return f.ProprietaryTemplate.IssuerDiscretionaryData.Applications
}

// Tags lists the primitive FCI data objects the transaction keeps.
func (f *FCI) Tags() tlv.List {
	var list tlv.List
	add := func(tag tlv.Tag, v []byte) {
		if len(v) > 0 {
			list = append(list, tlv.Node{Tag: tag, Length: len(v), Value: v})
		}
	}

	p := f.ProprietaryTemplate
	add("84", f.DFName)
	add("50", p.ApplicationLabel)
	if p.ApplicationPriorityIndicator != 0 {
		add("87", []byte{p.ApplicationPriorityIndicator})
	}
	add("9F38", p.PDOL)
	add("5F2D", p.LanguagePreference)
	add("9F11", p.IssuerCodeTableIndex)
	add("9F12", p.ApplicationPreferredName)
	return list
}

// Describe generates a detailed, standardized report of the FCI content.
func (f *FCI) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== EMV FCI TEMPLATE ===")

	tlv.WriteStructFields(&sb, "FCI", f)

	tlv.WriteStructFields(&sb, "Proprietary", f.ProprietaryTemplate)

	if dd := f.ProprietaryTemplate.IssuerDiscretionaryData; dd != nil {
		tlv.WriteStructFields(&sb, "Discretionary", dd)
		for i, app := range dd.Applications {
			tlv.WriteStructFields(&sb, fmt.Sprintf("Discretionary.App[%d]", i+1), app)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
