package iso7816

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

func TestSelectByAID(t *testing.T) {
	cls, _ := NewClass(0x00)

	tests := []struct {
		name     string
		aid      []byte
		expected []byte
	}{
		{
			name: "Contact directory (1PAY.SYS.DDF01)",
			aid:  []byte("1PAY.SYS.DDF01"),
			expected: tlv.Hex(
				"00 A4 04 00", // P1=04 (DF name), P2=00 (first, FCI)
				"0E",          // Lc=14
				"31 50 41 59 2E 53 59 53 2E 44 44 46 30 31",
				// no Le: the card answers 61XX on T=0
			),
		},
		{
			name: "Application (Visa credit)",
			aid:  tlv.Hex("A0000000031010"),
			expected: tlv.Hex(
				"00 A4 04 00",
				"07",
				"A0 00 00 00 03 10 10",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectByAID(cls, tt.aid).Bytes()
			if err != nil {
				t.Fatalf("Failed to encode bytes: %v", err)
			}

			if !bytes.Equal(got, tt.expected) {
				t.Errorf("Mismatch:\nExpected: %s\nGot:      %s",
					hex.EncodeToString(tt.expected),
					hex.EncodeToString(got))
			}
		})
	}
}

func TestDescribeSelect(t *testing.T) {
	tests := []struct {
		p1, p2      byte
		wantMethod  string
		wantControl string
	}{
		{0x04, 0x00, "By DF Name (AID)", "First/Only | Return FCI"},
		{0x04, 0x02, "By DF Name (AID)", "Next | Return FCI"},
		{0x00, 0x0C, "By File ID", "First/Only | No Response Data"},
		{0x08, 0x04, "Other", "First/Only | Return FCP"},
	}

	for _, tt := range tests {
		method, control := describeSelect(tt.p1, tt.p2)
		if method != tt.wantMethod || control != tt.wantControl {
			t.Errorf("describeSelect(%02X, %02X) = %q, %q; want %q, %q",
				tt.p1, tt.p2, method, control, tt.wantMethod, tt.wantControl)
		}
	}
}
