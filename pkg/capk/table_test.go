package capk

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func at(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 12, 0, 0, 0, time.UTC) }
}

func TestLoadXML(t *testing.T) {
	table, err := Load("testdata/keys.xml")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	k, ok := table.FindHex("A000000003", "08")
	require.True(t, ok)
	assert.Equal(t, mustHex(t, "A000000003"), k.RID)
	assert.Equal(t, byte(0x08), k.Index)
	assert.Equal(t, []byte{0x03}, k.Exponent)
	assert.Len(t, k.Modulus, 176)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), k.Expiry)
	assert.Equal(t, "A000000003/08", k.String())

	_, ok = table.FindHex("A000000004", "01")
	assert.False(t, ok)
}

func TestLoadXML_Expiry(t *testing.T) {
	table, err := Load("testdata/keys.xml", WithExpiry(at(2026, time.October, 18)))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	_, ok := table.FindHex("a000000768", "ff")
	assert.True(t, ok, "lookup must ignore the hex case")
	_, ok = table.FindHex("A000000003", "08")
	assert.False(t, ok, "expired key must be dropped")

	table, err = Load("testdata/keys.xml", WithExpiry(at(2024, time.December, 31)))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len(), "a key stays valid on its expiry day")
}

func TestLoadJSON(t *testing.T) {
	table, err := Load("testdata/keys.json")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	k, ok := table.Find(mustHex(t, "A000000003"), 0x08)
	require.True(t, ok)
	assert.True(t, k.Expiry.IsZero())
	assert.Equal(t, k.ComputeChecksum(), k.Checksum)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "Checksum mismatch",
			doc:  `[{"rid": "A000000003", "index": "08", "exponent": "03", "modulus": "C0FFEE", "checksum": "00"}]`,
			want: ErrChecksum.Error(),
		},
		{
			name: "Short RID",
			doc:  `[{"rid": "A0000000", "index": "08", "exponent": "03", "modulus": "C0FFEE"}]`,
			want: "RID must be 5 bytes",
		},
		{
			name: "Bad index",
			doc:  `[{"rid": "A000000003", "index": "0801", "exponent": "03", "modulus": "C0FFEE"}]`,
			want: "must be one byte",
		},
		{
			name: "Bad hex",
			doc:  `[{"rid": "A000000003", "index": "08", "exponent": "03", "modulus": "XYZ"}]`,
			want: "modulus",
		},
		{
			name: "Missing modulus",
			doc:  `[{"rid": "A000000003", "index": "08", "exponent": "03"}]`,
			want: "modulus and exponent are required",
		},
		{
			name: "Bad expiry",
			doc:  `[{"rid": "A000000003", "index": "08", "exponent": "03", "modulus": "C0FFEE", "expiry": "2024-12-31"}]`,
			want: "expiry date",
		},
		{
			name: "Unknown field",
			doc:  `[{"rid": "A000000003", "idx": "08"}]`,
			want: "decoding CA keys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadJSON(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewTable_Replace(t *testing.T) {
	rid := mustHex(t, "A000000025")
	table, err := NewTable([]Key{
		{RID: rid, Index: 0xC9, Exponent: []byte{0x03}, Modulus: []byte{0x01}},
		{RID: rid, Index: 0xC9, Exponent: []byte{0x03}, Modulus: []byte{0x02}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	k, ok := table.Find(rid, 0xC9)
	require.True(t, ok)
	assert.Equal(t, []byte{0x02}, k.Modulus)
	assert.Equal(t, "[A000000025/C9]", table.String())
}

func TestKey_Expired(t *testing.T) {
	k := Key{Expiry: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)}

	assert.False(t, k.Expired(at(2024, time.December, 31)()))
	assert.True(t, k.Expired(at(2025, time.January, 1)()))
	assert.False(t, Key{}.Expired(at(2099, time.January, 1)()))
}
