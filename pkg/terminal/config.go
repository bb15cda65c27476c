// Package terminal holds the per-application terminal parameters: the data
// objects a reader contributes to a transaction once it knows which card
// application it is talking to.
package terminal

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

// ErrUnsupportedAID reports a card application the terminal has no
// parameters for.
var ErrUnsupportedAID = errors.New("not supported AID")

// Profile is the parameter set of one configured AID.
type Profile struct {
	AID  []byte
	Tags map[tlv.Tag][]byte
}

// Family returns the scheme of the profile's AID.
func (p Profile) Family() Family { return FamilyOf(p.AID) }

// Get returns the configured value of tag.
func (p Profile) Get(tag tlv.Tag) ([]byte, bool) {
	v, ok := p.Tags[tag]
	return v, ok
}

// SortedTags returns the configured tags in ascending order.
func (p Profile) SortedTags() []tlv.Tag {
	return slices.Sorted(maps.Keys(p.Tags))
}

func (p Profile) String() string {
	return fmt.Sprintf("%X (%s, %d tags)", p.AID, p.Family(), len(p.Tags))
}

// Config maps configured AIDs to their profiles.
type Config struct {
	profiles []Profile
}

// New returns an empty configuration.
func New() *Config { return &Config{} }

// Set stores the value of tag for aid, creating the profile when needed.
func (c *Config) Set(aid []byte, tag tlv.Tag, value []byte) {
	c.profile(aid).Tags[tlv.Tag(normalize(string(tag)))] = bytes.Clone(value)
}

func (c *Config) profile(aid []byte) *Profile {
	for i := range c.profiles {
		if bytes.Equal(c.profiles[i].AID, aid) {
			return &c.profiles[i]
		}
	}
	c.profiles = append(c.profiles, Profile{AID: bytes.Clone(aid), Tags: map[tlv.Tag][]byte{}})
	return &c.profiles[len(c.profiles)-1]
}

// Profiles returns the configured profiles in insertion order.
func (c *Config) Profiles() []Profile { return slices.Clone(c.profiles) }

// Lookup returns the profile for a card AID. The longest configured AID the
// card AID starts with wins, so A00000002501 serves A000000025010402.
func (c *Config) Lookup(aid []byte) (Profile, error) {
	best := -1
	for i, p := range c.profiles {
		if !bytes.HasPrefix(aid, p.AID) {
			continue
		}
		if best < 0 || len(p.AID) > len(c.profiles[best].AID) {
			best = i
		}
	}
	if best < 0 {
		return Profile{}, fmt.Errorf("%w: %X", ErrUnsupportedAID, aid)
	}

	p := c.profiles[best]
	return Profile{AID: bytes.Clone(p.AID), Tags: maps.Clone(p.Tags)}, nil
}

func normalize(s string) string {
	b, err := hex.DecodeString(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%X", b)
}
