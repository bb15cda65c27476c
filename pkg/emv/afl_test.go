package emv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

func TestParseAFL(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []AFLEntry
	}{
		{
			name:  "Two files",
			input: tlv.Hex("08 01 01 00", "10 01 03 02"),
			want: []AFLEntry{
				{SFI: 1, First: 1, Last: 1, OfflineCount: 0},
				{SFI: 2, First: 1, Last: 3, OfflineCount: 2},
			},
		},
		{
			name:  "Two trailing bytes are ignored",
			input: tlv.Hex("18 01 02 01", "90 00"),
			want:  []AFLEntry{{SFI: 3, First: 1, Last: 2, OfflineCount: 1}},
		},
		{
			name:  "Trailer only",
			input: tlv.Hex("90 00"),
			want:  []AFLEntry{},
		},
		{
			name:  "Misaligned",
			input: tlv.Hex("08 01 01"),
			want:  nil,
		},
		{
			name:  "Empty",
			input: nil,
			want:  []AFLEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAFL(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseAFL() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAFLEntry_Records(t *testing.T) {
	e := AFLEntry{SFI: 2, First: 2, Last: 4, OfflineCount: 2}

	if diff := cmp.Diff([]byte{2, 3, 4}, e.Records()); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}

	var offline []byte
	for _, r := range e.Records() {
		if e.IsOffline(r) {
			offline = append(offline, r)
		}
	}
	if diff := cmp.Diff([]byte{2, 3}, offline); diff != "" {
		t.Errorf("IsOffline() mismatch (-want +got):\n%s", diff)
	}

	if got := (AFLEntry{First: 3, Last: 1}).Records(); got != nil {
		t.Errorf("Records() of a reversed range = %v, want nil", got)
	}
}
