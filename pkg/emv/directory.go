package emv

import (
	"fmt"
	"strings"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// DirectoryDiscretionaryTemplate (Tag '73') carries issuer data attached to a directory entry.
type DirectoryDiscretionaryTemplate struct {
	ApplicationSelectionRegisteredProprietaryData []byte `tlv:"9F0A"`
	IssuerCountryCodeAlpha3                       []byte `tlv:"5F56" fmt:"ascii"`
	IssuerCountryCodeAlpha2                       []byte `tlv:"5F55" fmt:"ascii"`
	BankIdentifierCode                            []byte `tlv:"5F54" fmt:"ascii"`
	IBAN                                          []byte `tlv:"5F53" fmt:"ascii"`
	IssuerURL                                     []byte `tlv:"5F50" fmt:"ascii"`
	IssuerIdentificationNumber                    []byte `tlv:"42"`
	IssuerIdentificationNumberExtended            []byte `tlv:"9F0C"`
	LogEntry                                      []byte `tlv:"9F4D"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// ApplicationTemplate (Tag '61') is a directory entry, found either in the
// PPSE FCI or in a PSE directory record.
type ApplicationTemplate struct {
	AID                          []byte                          `tlv:"4F"`
	ApplicationLabel             []byte                          `tlv:"50" fmt:"ascii"`
	ApplicationPriorityIndicator uint8                           `tlv:"87"`
	KernelIdentifier             []byte                          `tlv:"9F2A"`
	DirectoryDiscretionaryData   *DirectoryDiscretionaryTemplate `tlv:"73"`
	ApplicationPreferredName     []byte                          `tlv:"9F12" fmt:"ascii"`
	DDFName                      []byte                          `tlv:"9D" fmt:"ascii"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// DirectoryRecord represents the content of a record read from the PSE SFI.
// It is wrapped in a Record Template (Tag '70').
type DirectoryRecord struct {
	// A record can carry several entries.
	Applications []ApplicationTemplate `tlv:"61"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// ParseDirectoryRecord interprets raw bytes from a READ RECORD command as EMV directory data.
func ParseDirectoryRecord(data []byte) (*DirectoryRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty record data")
	}

	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("BER-TLV decode failed: %w", err)
	}

	if len(packets) == 0 || !strings.EqualFold(packets[0].Tag, "70") {
		return nil, fmt.Errorf("missing mandatory Record Template (Tag 70)")
	}

	record := &DirectoryRecord{}
	if err := tlv.UnmarshalFromPackets(packets[0].TLVs, record); err != nil {
		return nil, fmt.Errorf("failed to map directory record: %w", err)
	}

	return record, nil
}

// Describe generates a report for all applications found in the record.
func (r *DirectoryRecord) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== EMV DIRECTORY RECORD ===")

	tlv.WriteStructFields(&sb, "Record", r)

	for i, app := range r.Applications {
		prefix := fmt.Sprintf("App[%d]", i+1)
		tlv.WriteStructFields(&sb, prefix, app)

		if app.DirectoryDiscretionaryData != nil {
			tlv.WriteStructFields(&sb, prefix+".Discretionary", app.DirectoryDiscretionaryData)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
