package iso7816

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

func TestReadRecord(t *testing.T) {
	cls, _ := NewClass(0x00)

	tests := []struct {
		name     string
		sfi      byte
		record   byte
		expected []byte
	}{
		{
			name:     "Directory record (SFI 1)",
			sfi:      1,
			record:   1,
			expected: tlv.Hex("00 B2 01 0C 00"), // P2 = 1<<3 | 04
		},
		{
			name:     "AFL entry (SFI 2, record 3)",
			sfi:      2,
			record:   3,
			expected: tlv.Hex("00 B2 03 14 00"),
		},
		{
			name:     "Highest AFL SFI (30)",
			sfi:      30,
			record:   1,
			expected: tlv.Hex("00 B2 01 F4 00"),
		},
		{
			name:     "Current EF",
			sfi:      0,
			record:   5,
			expected: tlv.Hex("00 B2 05 04 00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadRecord(cls, tt.sfi, tt.record).Bytes()
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

func TestDescribeReadRecord(t *testing.T) {
	tests := []struct {
		p1, p2                       byte
		wantTarget, wantRec, wantMod string
	}{
		{0x01, 0x0C, "SFI 01 (1)", "Record Number 1", "Record number in P1"},
		{0x00, 0x04, "Current EF", "Current Record", "Record number in P1"},
		{0xAA, 0x52, "SFI 0A (10)", "Record Identifier AA", "Record ID, next occurrence"},
		{0x01, 0x15, "SFI 02 (2)", "Record Number 1", "Records from P1 to last"},
	}

	for _, tt := range tests {
		target, rec, mode := describeReadRecord(tt.p1, tt.p2)
		if target != tt.wantTarget || rec != tt.wantRec || mode != tt.wantMod {
			t.Errorf("describeReadRecord(%02X, %02X) = %q, %q, %q; want %q, %q, %q",
				tt.p1, tt.p2, target, rec, mode, tt.wantTarget, tt.wantRec, tt.wantMod)
		}
	}
}
