package capk

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// KEY FILES:
// Two document shapes are accepted.
//
// The XML export of terminal management systems:
//
//   <CAPK>
//     <ArrayOfCAPK>
//       <CAPK>
//         <CheckSum>..</CheckSum> <ExpiryDate>MMDDYYYY</ExpiryDate>
//         <Exponent>03</Exponent> <Modulus>..</Modulus>
//         <PKIndex>08</PKIndex>   <RID>A000000003</RID>
//       </CAPK>
//     </ArrayOfCAPK>
//   </CAPK>
//
// A JSON (or YAML) list of objects with the same fields in lower case:
//
//   [{"rid": "A000000003", "index": "08", "exponent": "03", "modulus": ".."}]
//
// Every value is hexadecimal except the expiry date.

// ExpiryLayout is the MMDDYYYY layout of the expiry dates.
const ExpiryLayout = "01022006"

type xmlDocument struct {
	XMLName xml.Name    `xml:"CAPK"`
	Keys    []keyRecord `xml:"ArrayOfCAPK>CAPK"`
}

type keyRecord struct {
	RID        string `xml:"RID" yaml:"rid"`
	Index      string `xml:"PKIndex" yaml:"index"`
	Exponent   string `xml:"Exponent" yaml:"exponent"`
	Modulus    string `xml:"Modulus" yaml:"modulus"`
	Checksum   string `xml:"CheckSum" yaml:"checksum"`
	ExpiryDate string `xml:"ExpiryDate" yaml:"expiry"`
}

func (r keyRecord) key() (Key, error) {
	var k Key
	var err error

	field := func(name, v string) []byte {
		if err != nil {
			return nil
		}
		var b []byte
		b, err = hex.DecodeString(strings.TrimSpace(v))
		if err != nil {
			err = fmt.Errorf("%s %q: %w", name, v, err)
		}
		return b
	}

	k.RID = field("RID", r.RID)
	index := field("index", r.Index)
	k.Exponent = field("exponent", r.Exponent)
	k.Modulus = field("modulus", r.Modulus)
	k.Checksum = field("checksum", r.Checksum)
	if err != nil {
		return Key{}, err
	}

	if len(index) != 1 {
		return Key{}, fmt.Errorf("index %q must be one byte", r.Index)
	}
	k.Index = index[0]

	if d := strings.TrimSpace(r.ExpiryDate); d != "" {
		if k.Expiry, err = time.Parse(ExpiryLayout, d); err != nil {
			return Key{}, fmt.Errorf("expiry date %q: %w", d, err)
		}
	}
	return k, nil
}

func fromRecords(records []keyRecord, opts []Option) (*Table, error) {
	keys := make([]Key, 0, len(records))
	for i, r := range records {
		k, err := r.key()
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return NewTable(keys, opts...)
}

// LoadXML reads the ArrayOfCAPK XML document.
func LoadXML(r io.Reader, opts ...Option) (*Table, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding CA keys: %w", err)
	}
	return fromRecords(doc.Keys, opts)
}

// LoadJSON reads a JSON or YAML list of keys.
func LoadJSON(r io.Reader, opts ...Option) (*Table, error) {
	var records []keyRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding CA keys: %w", err)
	}
	return fromRecords(records, opts)
}

// Load reads a key file, choosing the decoder from its extension.
func Load(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CA keys: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return LoadXML(f, opts...)
	}
	return LoadJSON(f, opts...)
}
