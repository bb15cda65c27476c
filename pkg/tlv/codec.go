package tlv

import (
	"errors"
	"fmt"
	"strings"
)

// Errors
var (
	ErrInvalidLength = errors.New("invalid length")
	ErrTruncated     = errors.New("truncated data")
)

// ParseError reports a decoding failure together with the tags decoded
// before it, which is usually enough to tell which card response was malformed.
type ParseError struct {
	Offset  int
	Decoded []Tag
	Err     error
}

func (e *ParseError) Error() string {
	decoded := make([]string, len(e.Decoded))
	for i, t := range e.Decoded {
		decoded[i] = string(t)
	}
	return fmt.Sprintf("tlv: offset %d: %v (decoded so far: [%s])", e.Offset, e.Err, strings.Join(decoded, " "))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Node is one decoded data object. Depth is 0 for objects found at the top
// level of the input and 1 for objects discovered inside a constructed one.
type Node struct {
	Tag    Tag
	Length int
	Value  []byte
	Depth  int
}

// List is an ordered sequence of decoded data objects.
type List []Node

// ParseLength decodes a BER length field at the start of b. Only the short
// form and the 0x81/0x82 long forms are accepted.
func ParseLength(b []byte) (length int, n int, err error) {
	if len(b) == 0 {
		return 0, 0, ErrTruncated
	}

	first := b[0]
	switch {
	case first < 0x80:
		return int(first), 1, nil
	case first == 0x81:
		if len(b) < 2 {
			return 0, 0, ErrTruncated
		}
		return int(b[1]), 2, nil
	case first == 0x82:
		if len(b) < 3 {
			return 0, 0, ErrTruncated
		}
		return int(b[1])<<8 | int(b[2]), 3, nil
	default:
		return 0, 0, fmt.Errorf("length byte 0x%02X: %w", first, ErrInvalidLength)
	}
}

// Parse decodes a BER-TLV stream into a flat list. Every constructed object
// is decoded once more and its children are appended, unless a node with
// the same tag is already present. Deeper levels are left packed in the
// children's values.
func Parse(data []byte) (List, error) {
	top, err := parseLevel(data, 0, nil)
	if err != nil {
		return nil, err
	}

	list := top
	for _, n := range top {
		if !n.Tag.IsConstructed() {
			continue
		}
		children, err := parseLevel(n.Value, 1, list.Tags())
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", n.Tag, err)
		}
		for _, c := range children {
			if !list.Has(c.Tag) {
				list = append(list, c)
			}
		}
	}
	return list, nil
}

func parseLevel(data []byte, depth int, known []Tag) (List, error) {
	var list List
	fail := func(offset int, err error) error {
		decoded := append([]Tag{}, known...)
		return &ParseError{Offset: offset, Decoded: append(decoded, list.Tags()...), Err: err}
	}

	for i := 0; i < len(data); {
		// 00 and FF may pad data objects (ISO/IEC 7816-4 5.2.2)
		if data[i] == 0x00 || data[i] == 0xFF {
			i++
			continue
		}

		tag, tn, err := ParseTag(data[i:])
		if err != nil {
			return nil, fail(i, err)
		}

		length, ln, err := ParseLength(data[i+tn:])
		if err != nil {
			return nil, fail(i+tn, fmt.Errorf("tag %s: %w", tag, err))
		}

		start := i + tn + ln
		if start+length > len(data) {
			return nil, fail(start, fmt.Errorf("tag %s wants %d bytes, %d left: %w", tag, length, len(data)-start, ErrTruncated))
		}

		value := make([]byte, length)
		copy(value, data[start:start+length])
		list = append(list, Node{Tag: tag, Length: length, Value: value, Depth: depth})

		i = start + length
	}
	return list, nil
}

// Children decodes the value of a constructed node one level down.
func (n Node) Children() (List, error) {
	if !n.Tag.IsConstructed() {
		return nil, fmt.Errorf("tag %s is primitive", n.Tag)
	}
	return Parse(n.Value)
}

// Find returns the first node carrying tag.
func (l List) Find(tag Tag) (Node, bool) {
	tag = NewTag(string(tag))
	for _, n := range l {
		if n.Tag == tag {
			return n, true
		}
	}
	return Node{}, false
}

// Has reports whether a node with tag is present.
func (l List) Has(tag Tag) bool {
	_, ok := l.Find(tag)
	return ok
}

// Remove returns a copy of the list without any node carrying tag.
func (l List) Remove(tag Tag) List {
	tag = NewTag(string(tag))
	out := make(List, 0, len(l))
	for _, n := range l {
		if n.Tag != tag {
			out = append(out, n)
		}
	}
	return out
}

// Primitives returns the primitive nodes of the list, at any depth.
func (l List) Primitives() List {
	out := make(List, 0, len(l))
	for _, n := range l {
		if !n.Tag.IsConstructed() {
			out = append(out, n)
		}
	}
	return out
}

// Tags lists the tags in order.
func (l List) Tags() []Tag {
	tags := make([]Tag, len(l))
	for i, n := range l {
		tags[i] = n.Tag
	}
	return tags
}

// EncodeMode selects how Encode writes length fields.
type EncodeMode int

const (
	// EncodeSimple writes a single length byte.
	EncodeSimple EncodeMode = iota
	// EncodeLongForm writes 81 XX above 0x7F and 82 XX XX above 0xFF.
	EncodeLongForm
)

// Encode serializes the top level nodes of the list. Nodes discovered by
// unwrapping (Depth > 0) are already part of their parent's value and are
// skipped.
func (l List) Encode(mode EncodeMode) []byte {
	var out []byte
	for _, n := range l {
		if n.Depth > 0 {
			continue
		}
		out = append(out, n.Encode(mode)...)
	}
	return out
}

// Encode serializes a single node.
func (n Node) Encode(mode EncodeMode) []byte {
	out := append([]byte{}, n.Tag.Bytes()...)
	out = append(out, EncodeLength(len(n.Value), mode)...)
	return append(out, n.Value...)
}

// EncodeLength writes a length field. In simple mode lengths above 0xFF
// cannot fit a single byte and fall back to the long form.
func EncodeLength(length int, mode EncodeMode) []byte {
	switch {
	case length <= 0x7F:
		return []byte{byte(length)}
	case length <= 0xFF && mode == EncodeSimple:
		return []byte{byte(length)}
	case length <= 0xFF:
		return []byte{0x81, byte(length)}
	default:
		return []byte{0x82, byte(length >> 8), byte(length)}
	}
}
