package terminal

import (
	"strings"
	"testing"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Lookup(t *testing.T) {
	c := Default()
	require.Len(t, c.Profiles(), len(DefaultAIDs))

	tests := []struct {
		name    string
		aid     string
		wantAID string
		family  Family
		tags    map[tlv.Tag]string
	}{
		{
			name:    "Exact Visa",
			aid:     "A0000000031010",
			wantAID: "A0000000031010",
			family:  FamilyVisa,
			tags:    map[tlv.Tag]string{"9F35": "22", "9F66": "22C04000", "DF21": "000000001000"},
		},
		{
			name:    "Amex prefix",
			aid:     "A000000025010402",
			wantAID: "A00000002501",
			family:  FamilyAmex,
			tags:    map[tlv.Tag]string{"9F6D": "C0", "9F6E": "D8004000"},
		},
		{
			name:    "UnionPay prefix",
			aid:     "A000000333010102",
			wantAID: "A0000003330101",
			family:  FamilyUnionPay,
			tags:    map[tlv.Tag]string{"9F1A": "0840", "DF20": "999999999999"},
		},
		{
			name:    "Mastercard",
			aid:     "A0000000041010",
			wantAID: "A0000000041010",
			family:  FamilyMastercard,
			tags: map[tlv.Tag]string{
				"9F1D":   "A980800000000000",
				"DF811F": "C8",
				"DF8120": "0000000000",
				"DF8122": "0000000000",
			},
		},
		{
			name:    "Visa common debit",
			aid:     "A0000000980840",
			wantAID: "A0000000980840",
			family:  FamilyVisa,
			tags:    map[tlv.Tag]string{"9F66": "22C04000"},
		},
		{
			name:    "JCB",
			aid:     "A0000000651010",
			wantAID: "A0000000651010",
			family:  FamilyJCB,
			tags:    map[tlv.Tag]string{"9F66": "62C04000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := c.Lookup(tlv.Hex(tt.aid))
			require.NoError(t, err)

			assert.Equal(t, tlv.Hex(tt.wantAID), p.AID)
			assert.Equal(t, tt.family, p.Family())
			for tag, want := range tt.tags {
				got, ok := p.Get(tag)
				if assert.True(t, ok, "tag %s", tag) {
					assert.Equal(t, tlv.Hex(want), got, "tag %s", tag)
				}
			}
		})
	}
}

func TestDefault_FamilyTagsDoNotLeak(t *testing.T) {
	c := Default()

	visa, err := c.Lookup(tlv.Hex("A0000000031010"))
	require.NoError(t, err)
	_, ok := visa.Get("9F6D")
	assert.False(t, ok, "Amex reader capabilities on a Visa profile")
	_, ok = visa.Get("DF8117")
	assert.False(t, ok, "kernel 2 data on a Visa profile")
}

func TestConfig_LookupUnsupported(t *testing.T) {
	_, err := Default().Lookup(tlv.Hex("B0000000031010"))
	require.ErrorIs(t, err, ErrUnsupportedAID)
	assert.Contains(t, err.Error(), "B0000000031010")
}

func TestConfig_LongestPrefixWins(t *testing.T) {
	c := New()
	c.Set(tlv.Hex("A000000025"), "9F35", tlv.Hex("22"))
	c.Set(tlv.Hex("A00000002501"), "9F35", tlv.Hex("25"))

	p, err := c.Lookup(tlv.Hex("A000000025010801"))
	require.NoError(t, err)
	assert.Equal(t, tlv.Hex("A00000002501"), p.AID)
	assert.Equal(t, tlv.Hex("25"), p.Tags["9F35"])
}

func TestConfig_SetOverrides(t *testing.T) {
	c := Default()
	c.Set(tlv.Hex("A0000000031010"), "9f35", tlv.Hex("33"))

	p, err := c.Lookup(tlv.Hex("A0000000031010"))
	require.NoError(t, err)
	assert.Equal(t, tlv.Hex("33"), p.Tags["9F35"], "tags are normalized to upper case")

	p.Tags["9F35"][0] = 0x99
	again, _ := c.Lookup(tlv.Hex("A0000000031010"))
	assert.Equal(t, tlv.Hex("33"), again.Tags["9F35"], "Lookup must return a copy")
}

func TestLoad(t *testing.T) {
	doc := `[
  {"9F06": "A0000000031010", "9F1A": "0250", "DF21": "000000005000", "name": "visa", "9F15": ""},
  {"9F06": "A0000000041010"}
]`

	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, c.Profiles(), 2)

	visa, err := c.Lookup(tlv.Hex("A0000000031010"))
	require.NoError(t, err)
	assert.Equal(t, []tlv.Tag{"9F1A", "DF21"}, visa.SortedTags())

	mc, err := c.Lookup(tlv.Hex("A0000000041010"))
	require.NoError(t, err)
	assert.Empty(t, mc.Tags)

	_, err = c.Lookup(tlv.Hex("A00000002501"))
	assert.ErrorIs(t, err, ErrUnsupportedAID, "a loaded document replaces the defaults")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"Not a list", `{"9F06": "A0000000031010"}`},
		{"Missing AID", `[{"9F1A": "0840"}]`},
		{"Bad AID", `[{"9F06": "A00Z"}]`},
		{"Bad value", `[{"9F06": "A0000000031010", "9F1A": "08400"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestFamily(t *testing.T) {
	tests := []struct {
		aid    string
		want   Family
		kernel int
		name   string
	}{
		{"A0000000041010", FamilyMastercard, 2, "Mastercard"},
		{"A0000000031010", FamilyVisa, 3, "Visa"},
		{"A00000002501", FamilyAmex, 4, "American Express"},
		{"A0000000651010", FamilyJCB, 5, "JCB"},
		{"A0000001523010", FamilyDiscover, 6, "Discover"},
		{"A000000333010101", FamilyUnionPay, 7, "UnionPay"},
		{"B0000000031010", FamilyUnknown, 0, "Unknown"},
	}
	for _, tt := range tests {
		f := FamilyOf(tlv.Hex(tt.aid))
		assert.Equal(t, tt.want, f, tt.aid)
		assert.Equal(t, tt.kernel, f.Kernel(), tt.aid)
		assert.Equal(t, tt.name, f.String(), tt.aid)
	}
}
