package iso7816

// SELECT (ISO 7816-4 11.1.1, EMV Book 1 11.3):
// The kernel only selects by DF name (P1 '04'): the PSE or PPSE directory
// first, then each candidate AID. P2 '00' asks for the FCI of the first or
// only occurrence. The name travels in the data field and Le is left out,
// because a T=0 case 4 command cannot carry both: the card answers '61XX'
// and the Client fetches the FCI with GET RESPONSE.

// P1 and P2 of an EMV SELECT.
const (
	SelectByDFName byte = 0x04
	SelectFirstFCI byte = 0x00
)

// SelectByAID builds SELECT by DF name for a directory name or an AID.
func SelectByAID(cla Class, aid []byte) *CommandAPDU {
	ins, _ := NewInstruction(INS_SELECT)
	return NewCommandAPDU(cla, ins, SelectByDFName, SelectFirstFCI, aid, 0)
}

var (
	selectOccurrences = [4]string{"First/Only", "Last", "Next", "Previous"}
	selectResponses   = [4]string{"Return FCI", "Return FCP", "Return FMD", "No Response Data"}
)

// describeSelect decodes SELECT P1 and P2 for trace reports.
func describeSelect(p1, p2 byte) (method, control string) {
	switch p1 {
	case 0x00:
		method = "By File ID"
	case SelectByDFName:
		method = "By DF Name (AID)"
	default:
		method = "Other"
	}
	return method, selectOccurrences[p2&0x03] + " | " + selectResponses[(p2>>2)&0x03]
}
