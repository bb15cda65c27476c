package emv

import (
	"fmt"

	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

// DATA OBJECT LIST (EMV Book 3, 5.4):
// A DOL is a concatenation of tag + length pairs without values. The
// terminal answers it with the concatenated values of the requested data
// objects, in list order and without tags or lengths. The byte order of the
// rendered payload matters: CDA hashes it again when it checks the
// Transaction Data Hash Code.

// TagSource provides the current value of a data object.
type TagSource interface {
	Get(tag tlv.Tag) ([]byte, bool)
}

// DOLEntry is one requested data object. A non-nil Value overrides the
// source when rendering.
type DOLEntry struct {
	Tag    tlv.Tag
	Length int
	Value  []byte
}

// DOL is an ordered list of requested data objects.
type DOL []DOLEntry

// ParseDOL decodes the tag and length pairs of a data object list.
func ParseDOL(b []byte) (DOL, error) {
	var dol DOL
	for i := 0; i < len(b); {
		tag, tn, err := tlv.ParseTag(b[i:])
		if err != nil {
			return nil, fmt.Errorf("DOL offset %d: %w", i, err)
		}
		length, ln, err := tlv.ParseLength(b[i+tn:])
		if err != nil {
			return nil, fmt.Errorf("DOL tag %s: %w", tag, err)
		}
		dol = append(dol, DOLEntry{Tag: tag, Length: length})
		i += tn + ln
	}
	return dol, nil
}

// Len returns the size of the rendered payload.
func (d DOL) Len() int {
	n := 0
	for _, e := range d {
		n += e.Length
	}
	return n
}

// Tags lists the requested tags in order.
func (d DOL) Tags() []tlv.Tag {
	tags := make([]tlv.Tag, len(d))
	for i, e := range d {
		tags[i] = e.Tag
	}
	return tags
}

// RenderDOL concatenates the values requested by dol. Missing values are
// zero filled, longer values keep their leftmost bytes and shorter values
// are left padded with zeros.
func RenderDOL(dol DOL, src TagSource) []byte {
	out := make([]byte, 0, dol.Len())
	for _, e := range dol {
		v := e.Value
		if v == nil {
			v, _ = src.Get(e.Tag)
		}
		out = append(out, fit(v, e.Length)...)
	}
	return out
}

// RenderPDOL renders dol wrapped in the Command Template (Tag '83') expected
// by GET PROCESSING OPTIONS. An empty PDOL yields "83 00".
func RenderPDOL(dol DOL, src TagSource) []byte {
	data := RenderDOL(dol, src)
	return tlv.Node{Tag: "83", Length: len(data), Value: data}.Encode(tlv.EncodeLongForm)
}

func fit(v []byte, n int) []byte {
	if len(v) >= n {
		return v[:n]
	}
	out := make([]byte, n)
	copy(out[n-len(v):], v)
	return out
}
