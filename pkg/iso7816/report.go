package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

// TRACE REPORTS:
// DescribeTrace renders a human-readable report of one logical exchange.
// The first block decodes the initial command according to its instruction
// (SELECT method and control, READ RECORD target, GENERATE AC reference
// control). The second block only appears when the client had to chain
// GET RESPONSE or re-send the command. The outcome block lists the response
// data objects when the payload is valid BER-TLV, and dumps it otherwise.

var commandNames = map[InsCode]string{
	INS_SELECT:                 "SELECT FILE",
	INS_READ_RECORD:            "READ RECORD",
	INS_GET_RESPONSE:           "GET RESPONSE",
	INS_GET_PROCESSING_OPTIONS: "GET PROCESSING OPTIONS",
	INS_GENERATE_AC:            "GENERATE AC",
	INS_INTERNAL_AUTHENTICATE:  "INTERNAL AUTHENTICATE",
	INS_GET_DATA:               "GET DATA",
}

func commandName(ins InsCode) string {
	if name, ok := commandNames[ins]; ok {
		return name
	}
	return ins.String()
}

// DescribeTrace generates a detailed, ASCII-formatted report of a trace.
func DescribeTrace(t Trace) string {
	if len(t) == 0 {
		return "=== EMPTY TRACE ==="
	}

	var sb strings.Builder

	tx0 := t[0]
	cmd := tx0.Command
	name := commandName(cmd.Instruction.Raw)

	sb.WriteString(fmt.Sprintf("=== %s COMMAND REPORT ===\n", name))
	sb.WriteString(fmt.Sprintf("[1] Command: %s\n", name))
	writeCommandDetails(&sb, cmd)

	if tx0.Response != nil {
		sb.WriteString(fmt.Sprintf("    + Result:  %s\n", describeStatus(tx0.Response.Status)))
	}
	sb.WriteString("\n")

	if len(t) > 1 {
		last := t.Last()
		sb.WriteString(fmt.Sprintf("[2] Protocol: Auto-handling (Sequence of %d steps)\n", len(t)))

		action := commandName(last.Command.Instruction.Raw)
		if last.Command.Instruction.Raw == cmd.Instruction.Raw {
			action = fmt.Sprintf("RE-SEND %s with Le=%d", name, last.Command.Ne)
		}
		sb.WriteString(fmt.Sprintf("    + Action:  Sending %s\n", action))
		sb.WriteString(fmt.Sprintf("    + Result:  %s\n", describeStatus(t.Status())))
		sb.WriteString("\n")
	}

	sb.WriteString("[=] DATA OUTCOME:\n")
	payload := t.Data()
	if len(payload) == 0 {
		sb.WriteString("    - No Data Received.")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("    + Length: %d bytes\n", len(payload)))
	sb.WriteString(fmt.Sprintf("    + Dump:   %X", payload))

	list, err := tlv.Parse(payload)
	if err != nil {
		sb.WriteString(fmt.Sprintf("\n    + ASCII:  %q", tlv.MakeSafeASCII(payload)))
		return sb.String()
	}
	tlv.WriteList(&sb, "TLV", list)

	return sb.String()
}

func writeCommandDetails(sb *strings.Builder, cmd *CommandAPDU) {
	switch cmd.Instruction.Raw {
	case INS_SELECT:
		method, control := describeSelect(cmd.P1, cmd.P2)
		sb.WriteString(fmt.Sprintf("    + Method:  %02X -> %s\n", cmd.P1, method))
		sb.WriteString(fmt.Sprintf("    + Control: %02X -> %s\n", cmd.P2, control))

	case INS_READ_RECORD:
		target, record, mode := describeReadRecord(cmd.P1, cmd.P2)
		sb.WriteString(fmt.Sprintf("    + Target:  %s\n", target))
		sb.WriteString(fmt.Sprintf("    + P1:      %02X -> %s\n", cmd.P1, record))
		sb.WriteString(fmt.Sprintf("    + Mode:    %02X -> %s\n", cmd.P2&0x07, mode))

	case INS_GENERATE_AC:
		sb.WriteString(fmt.Sprintf("    + Request: %02X -> %s\n", cmd.P1, describeReferenceControl(cmd.P1)))

	default:
		sb.WriteString(fmt.Sprintf("    + P1 P2:   %02X %02X\n", cmd.P1, cmd.P2))
	}

	if len(cmd.Data) > 0 {
		sb.WriteString(fmt.Sprintf("    + Data:    %X (%q)\n", cmd.Data, tlv.MakeSafeASCII(cmd.Data)))
	}
}

// describeReferenceControl decodes the GENERATE AC P1 (EMV Book 3 Table 12).
func describeReferenceControl(p1 byte) string {
	var kind string
	switch p1 & 0xC0 {
	case 0x00:
		kind = "AAC"
	case 0x40:
		kind = "TC"
	case 0x80:
		kind = "ARQC"
	default:
		kind = "RFU"
	}
	if p1&0x10 != 0 {
		kind += " + CDA signature"
	}
	return kind
}

func describeStatus(sw StatusWord) string {
	sw1, sw2 := sw.SW1(), sw.SW2()
	swHex := fmt.Sprintf("%02X %02X", sw1, sw2)

	switch {
	case sw == SW_NO_ERROR:
		return fmt.Sprintf("[%s] [OK] SW_NO_ERROR", swHex)
	case sw1 == 0x61:
		return fmt.Sprintf("[%s] [OK] %02X (%d) bytes still available", swHex, sw2, sw2)
	case sw1 == 0x6C:
		return fmt.Sprintf("[%s] [!!] Wrong length, correct is %02X (%d)", swHex, sw2, sw2)
	default:
		return fmt.Sprintf("[%s] [!!] %s", swHex, sw.Verbose())
	}
}
