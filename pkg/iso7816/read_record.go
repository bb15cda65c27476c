package iso7816

import "fmt"

// READ RECORD (ISO 7816-4 11.3.3, EMV Book 3 10.2):
// P1 is a record number and P2 carries the SFI in bits 8-4 followed by
// '100', which tells the card that P1 is a number and not an identifier.
// Every AFL entry and every directory record is read this way, so
// P2 = SFI<<3 | 04: SFI 1 gives '0C', SFI 2 gives '14'. READ RECORD is a
// case 2 command and always carries Le = '00'.

// recordByNumber is the P2 low bits of a READ RECORD addressing one record by number.
const recordByNumber byte = 0b100

// ReadRecord builds READ RECORD for one record of a short EF. An SFI of 0
// reads the currently selected EF.
func ReadRecord(cla Class, sfi byte, record byte) *CommandAPDU {
	ins, _ := NewInstruction(INS_READ_RECORD)
	return NewCommandAPDU(cla, ins, record, sfi<<3|recordByNumber, nil, MaxShortLe)
}

var recordModes = [8]string{
	"Record ID, first occurrence",
	"Record ID, last occurrence",
	"Record ID, next occurrence",
	"Record ID, previous occurrence",
	"Record number in P1",
	"Records from P1 to last",
	"Records from last to P1",
	"RFU",
}

// describeReadRecord decodes READ RECORD P1 and P2 for trace reports.
func describeReadRecord(p1, p2 byte) (target, record, mode string) {
	target = "Current EF"
	if sfi := p2 >> 3; sfi > 0 {
		target = fmt.Sprintf("SFI %02X (%d)", sfi, sfi)
	}

	switch {
	case p2&recordByNumber == 0:
		record = fmt.Sprintf("Record Identifier %02X", p1)
	case p1 == 0:
		record = "Current Record"
	default:
		record = fmt.Sprintf("Record Number %d", p1)
	}
	return target, record, recordModes[p2&0x07]
}
