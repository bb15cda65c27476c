package emv

import (
	"fmt"

	"github.com/gregLibert/emv-kernel/pkg/iso7816"
	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

// EMV PAYMENT COMMANDS (EMV Book 3, 6.5):
// GET PROCESSING OPTIONS and GENERATE AC use the proprietary class '80'.
// Both are case 4 commands: the data field is followed by Le = '00'.
//
// RESPONSE FORMATS:
//   - Format 1: a primitive template '80' whose value is a positional
//     concatenation of data elements without tags.
//   - Format 2: a constructed template '77' holding BER-TLV data objects.

// ClassEMV is the proprietary class byte of the payment commands.
var ClassEMV = iso7816.Class{Raw: 0x80, IsProprietary: true}

// ClassInterindustry is the class of SELECT and READ RECORD.
var ClassInterindustry = iso7816.Class{Raw: 0x00}

// Cryptogram types requested in GENERATE AC P1 (Book 3, Table 12).
const (
	CryptogramAAC  byte = 0x00
	CryptogramTC   byte = 0x40
	CryptogramARQC byte = 0x80

	// CDARequested asks the card for a Combined DDA/AC signature.
	CDARequested byte = 0x10
)

// CryptogramName names the cryptogram type of a GENERATE AC P1 or a CID.
func CryptogramName(p1 byte) string {
	switch p1 & 0xC0 {
	case CryptogramAAC:
		return "AAC"
	case CryptogramTC:
		return "TC"
	case CryptogramARQC:
		return "ARQC"
	default:
		return "RFU"
	}
}

// SelectApplication selects a directory or an application by name.
func SelectApplication(name []byte) *iso7816.CommandAPDU {
	return iso7816.SelectByAID(ClassInterindustry, name)
}

// ReadRecord reads one record of an AFL or directory file.
func ReadRecord(sfi, record byte) *iso7816.CommandAPDU {
	return iso7816.ReadRecord(ClassInterindustry, sfi, record)
}

// GetProcessingOptions builds GPO from the Command Template ('83') rendered from the PDOL.
func GetProcessingOptions(commandTemplate []byte) *iso7816.CommandAPDU {
	ins, _ := iso7816.NewInstruction(iso7816.INS_GET_PROCESSING_OPTIONS)
	return iso7816.NewCommandAPDU(ClassEMV, ins, 0x00, 0x00, commandTemplate, iso7816.MaxShortLe)
}

// GenerateAC builds GENERATE AC with the reference control p1 and the rendered CDOL.
func GenerateAC(p1 byte, cdolData []byte) *iso7816.CommandAPDU {
	ins, _ := iso7816.NewInstruction(iso7816.INS_GENERATE_AC)
	return iso7816.NewCommandAPDU(ClassEMV, ins, p1, 0x00, cdolData, iso7816.MaxShortLe)
}

// ParseGPOResponse decodes a GET PROCESSING OPTIONS answer. Format 1 is
// split into the AIP ('82', first two bytes) and the AFL ('94', remainder).
func ParseGPOResponse(data []byte) (tlv.List, error) {
	return parseResponse(data, []field{{"82", 2}, {"94", 0}})
}

// ParseGenerateACResponse decodes a GENERATE AC answer. Format 1 is split
// into CID ('9F27'), ATC ('9F36'), AC ('9F26') and the Issuer Application
// Data ('9F10', remainder).
func ParseGenerateACResponse(data []byte) (tlv.List, error) {
	return parseResponse(data, []field{{"9F27", 1}, {"9F36", 2}, {"9F26", 8}, {"9F10", 0}})
}

// field is one positional element of a format 1 response. A zero size
// takes the rest of the template.
type field struct {
	tag  tlv.Tag
	size int
}

func parseResponse(data []byte, layout []field) (tlv.List, error) {
	list, err := tlv.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	first := list[0]
	switch first.Tag {
	case "77":
		return list, nil
	case "80":
		return splitFormat1(first.Value, layout)
	default:
		return nil, fmt.Errorf("unexpected response template %s", first.Tag)
	}
}

func splitFormat1(v []byte, layout []field) (tlv.List, error) {
	var out tlv.List
	offset := 0
	for _, f := range layout {
		size := f.size
		if size == 0 {
			size = len(v) - offset
		}
		if offset+size > len(v) {
			return out, fmt.Errorf("format 1 template of %d bytes too short for %s: %w", len(v), f.tag, tlv.ErrTruncated)
		}
		value := append([]byte{}, v[offset:offset+size]...)
		out = append(out, tlv.Node{Tag: f.tag, Length: size, Value: value})
		offset += size
	}
	return out, nil
}
