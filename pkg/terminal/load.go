package terminal

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
	"gopkg.in/yaml.v3"
)

// CONFIGURATION DOCUMENT:
// A JSON (or YAML) array of objects, one per AID. '9F06' (Application
// Identifier, terminal) names the AID, every other key is a tag and every
// value a hexadecimal string:
//
//   [{"9F06": "A0000000031010", "9F1A": "0250", "DF21": "000000005000"}]
//
// Keys that are not tags are ignored. A loaded document replaces the whole
// configuration: AIDs absent from it are no longer supported.

// TagAID is the Application Identifier (terminal) key.
const TagAID = "9F06"

var tagPattern = regexp.MustCompile(`^[0-9A-Fa-f]{2,6}$`)

// Load decodes a configuration document.
func Load(r io.Reader) (*Config, error) {
	var entries []map[string]string
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding terminal configuration: %w", err)
	}

	c := New()
	for i, e := range entries {
		aid, err := hex.DecodeString(e[TagAID])
		if err != nil || len(aid) == 0 {
			return nil, fmt.Errorf("entry %d: invalid %s %q", i, TagAID, e[TagAID])
		}

		c.profile(aid)
		for key, value := range e {
			if key == TagAID || !tagPattern.MatchString(key) {
				continue
			}
			v, err := hex.DecodeString(value)
			if err != nil {
				return nil, fmt.Errorf("entry %d: tag %s: %w", i, key, err)
			}
			if len(v) > 0 {
				c.Set(aid, tlv.Tag(key), v)
			}
		}
	}
	return c, nil
}

// LoadFile reads a configuration document from path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open terminal configuration: %w", err)
	}
	defer f.Close()
	return Load(f)
}
