package tlv

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name          string
		input         []byte
		want          Tag
		wantLen       int
		wantClass     Class
		wantConstruct bool
		wantErr       bool
	}{
		{"One byte primitive", Hex("5A 08"), "5A", 1, ClassApplication, false, false},
		{"Two bytes", Hex("9F 02 06"), "9F02", 2, ClassContextSpecific, false, false},
		{"Constructed template", Hex("BF 0C 10"), "BF0C", 2, ClassContextSpecific, true, false},
		{"Three bytes", Hex("DF 81 17 01"), "DF8117", 3, ClassPrivate, false, false},
		{"Universal constructed", Hex("30 00"), "30", 1, ClassUniversal, true, false},
		{"Missing continuation", Hex("9F"), "", 0, 0, false, true},
		{"Empty", nil, "", 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, n, err := ParseTag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTag() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tag != tt.want || n != tt.wantLen {
				t.Errorf("ParseTag() = %s, %d; want %s, %d", tag, n, tt.want, tt.wantLen)
			}
			if tag.Class() != tt.wantClass {
				t.Errorf("Class() = %v; want %v", tag.Class(), tt.wantClass)
			}
			if tag.IsConstructed() != tt.wantConstruct {
				t.Errorf("IsConstructed() = %v; want %v", tag.IsConstructed(), tt.wantConstruct)
			}
			if tag.Len() != tt.wantLen {
				t.Errorf("Len() = %d; want %d", tag.Len(), tt.wantLen)
			}
		})
	}
}

func TestNewTag(t *testing.T) {
	if got := NewTag("9f 4b"); got != "9F4B" {
		t.Errorf("NewTag() = %q; want 9F4B", got)
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    int
		wantN   int
		wantErr error
	}{
		{"Short form", Hex("7F"), 0x7F, 1, nil},
		{"One length byte", Hex("81 80"), 0x80, 2, nil},
		{"Two length bytes", Hex("82 01 00"), 0x100, 3, nil},
		{"Three length bytes", Hex("83 01 00 00"), 0, 0, ErrInvalidLength},
		{"Indefinite", Hex("80"), 0, 0, ErrInvalidLength},
		{"Truncated long form", Hex("82 01"), 0, 0, ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := ParseLength(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseLength() error = %v; want %v", err, tt.wantErr)
			}
			if got != tt.want || n != tt.wantN {
				t.Errorf("ParseLength() = %d, %d; want %d, %d", got, n, tt.want, tt.wantN)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("Flat primitives", func(t *testing.T) {
		got, err := Parse(Hex("9F36 02 0007", "9F27 01 80"))
		if err != nil {
			t.Fatalf("Parse() failed: %v", err)
		}
		want := List{
			{Tag: "9F36", Length: 2, Value: Hex("0007")},
			{Tag: "9F27", Length: 1, Value: Hex("80")},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("One level of unwrapping", func(t *testing.T) {
		// 77 { 82, 94 } followed by a top level 82 that shadows the nested one
		data := Hex(
			"82 02 1980",
			"77 0A", "82 02 3900", "94 04 08010100",
		)
		got, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() failed: %v", err)
		}
		want := List{
			{Tag: "82", Length: 2, Value: Hex("1980")},
			{Tag: "77", Length: 10, Value: Hex("82023900", "940408010100")},
			{Tag: "94", Length: 4, Value: Hex("08010100"), Depth: 1},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Second level stays packed", func(t *testing.T) {
		data := Hex("6F 0B", "84 01 AA", "A5 06", "88 01 01", "87 01 01")
		got, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() failed: %v", err)
		}
		if diff := cmp.Diff([]Tag{"6F", "84", "A5"}, got.Tags()); diff != "" {
			t.Errorf("Tags mismatch (-want +got):\n%s", diff)
		}

		a5, _ := got.Find("a5")
		children, err := a5.Children()
		if err != nil {
			t.Fatalf("Children() failed: %v", err)
		}
		if diff := cmp.Diff([]Tag{"88", "87"}, children.Tags()); diff != "" {
			t.Errorf("Children mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Long form length", func(t *testing.T) {
		value := bytes.Repeat([]byte{0xAB}, 0x90)
		data := append(Hex("90 81 90"), value...)
		got, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() failed: %v", err)
		}
		if len(got) != 1 || got[0].Length != 0x90 || !bytes.Equal(got[0].Value, value) {
			t.Errorf("unexpected node %+v", got)
		}
	})

	t.Run("Padding is skipped", func(t *testing.T) {
		got, err := Parse(Hex("5A 01 12", "00 00", "FF"))
		if err != nil {
			t.Fatalf("Parse() failed: %v", err)
		}
		if diff := cmp.Diff([]Tag{"5A"}, got.Tags()); diff != "" {
			t.Errorf("Tags mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       []byte
		wantErr     error
		wantDecoded []Tag
	}{
		{
			name:        "Three length bytes",
			input:       Hex("5A 01 12", "9F02 83 000006 000000000100"),
			wantErr:     ErrInvalidLength,
			wantDecoded: []Tag{"5A"},
		},
		{
			name:        "Value overruns input",
			input:       Hex("5A 01 12", "57 05 1234"),
			wantErr:     ErrTruncated,
			wantDecoded: []Tag{"5A"},
		},
		{
			name:        "Malformed child",
			input:       Hex("82 02 1980", "70 03", "5F24 84"),
			wantErr:     ErrInvalidLength,
			wantDecoded: []Tag{"82", "70"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse() error = %v; want %v", err, tt.wantErr)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error %T is not a *ParseError", err)
			}
			if diff := cmp.Diff(tt.wantDecoded, perr.Decoded); diff != "" {
				t.Errorf("Decoded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListRemove(t *testing.T) {
	list, err := Parse(Hex("9F27 01 80", "9F4B 02 CAFE", "9F10 01 0A"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	got := list.Remove("9f4b").Encode(EncodeSimple)
	want := Hex("9F27 01 80", "9F10 01 0A")
	if !bytes.Equal(got, want) {
		t.Errorf("Remove().Encode() = %X; want %X", got, want)
	}
	if len(list) != 3 {
		t.Error("Remove() must not modify the receiver")
	}
}

func TestEncodeModes(t *testing.T) {
	short := Node{Tag: "5A", Value: Hex("12")}
	medium := Node{Tag: "90", Value: bytes.Repeat([]byte{0x01}, 0x80)}
	long := Node{Tag: "9F46", Value: bytes.Repeat([]byte{0x02}, 0x100)}

	tests := []struct {
		name       string
		node       Node
		mode       EncodeMode
		wantHeader []byte
	}{
		{"Short simple", short, EncodeSimple, Hex("5A 01")},
		{"Short long form", short, EncodeLongForm, Hex("5A 01")},
		{"0x80 simple", medium, EncodeSimple, Hex("90 80")},
		{"0x80 long form", medium, EncodeLongForm, Hex("90 81 80")},
		{"0x100 long form", long, EncodeLongForm, Hex("9F46 82 0100")},
		{"0x100 simple", long, EncodeSimple, Hex("9F46 82 0100")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.node.Encode(tt.mode)
			if !bytes.HasPrefix(got, tt.wantHeader) {
				t.Errorf("Encode() header = %X; want %X", got[:len(tt.wantHeader)], tt.wantHeader)
			}
			if len(got) != len(tt.wantHeader)+len(tt.node.Value) {
				t.Errorf("Encode() length = %d; want %d", len(got), len(tt.wantHeader)+len(tt.node.Value))
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	lists := []List{
		{{Tag: "9F02", Value: Hex("000000002500")}, {Tag: "5F2A", Value: Hex("0840")}},
		{{Tag: "9F4B", Value: bytes.Repeat([]byte{0x5A}, 0xB0)}, {Tag: "9F36", Value: Hex("0001")}},
		{{Tag: "DF8117", Value: Hex("80")}, {Tag: "9F10", Value: nil}},
		{{Tag: "93", Value: bytes.Repeat([]byte{0x11}, 0x1F0)}},
	}

	for _, mode := range []EncodeMode{EncodeSimple, EncodeLongForm} {
		for i, x := range lists {
			encoded := x.Encode(mode)
			if mode == EncodeSimple && i == 1 {
				// a single length byte above 0x7F is not valid BER
				encoded = x.Encode(EncodeLongForm)
			}
			parsed, err := Parse(encoded)
			if err != nil {
				t.Fatalf("list %d: Parse() failed: %v", i, err)
			}
			if got := parsed.Encode(mode); mode == EncodeLongForm && !bytes.Equal(got, encoded) {
				t.Errorf("list %d: round trip = %X; want %X", i, got, encoded)
			}
			if got := parsed.Encode(EncodeLongForm); !bytes.Equal(got, x.Encode(EncodeLongForm)) {
				t.Errorf("list %d: long form round trip = %X; want %X", i, got, x.Encode(EncodeLongForm))
			}
		}
	}
}
