package capk

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Table is a read-only set of CA public keys.
type Table struct {
	keys []Key
}

// Option configures how a table is built.
type Option func(*tableOptions)

type tableOptions struct {
	now func() time.Time
}

// WithExpiry drops the keys that are expired at now().
func WithExpiry(now func() time.Time) Option {
	return func(o *tableOptions) { o.now = now }
}

// NewTable validates keys and builds a table from them. Expired keys are
// discarded when WithExpiry is given; a later key with the same RID and
// index replaces an earlier one.
func NewTable(keys []Key, opts ...Option) (*Table, error) {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table{}
	for _, k := range keys {
		if err := k.Validate(); err != nil {
			return nil, err
		}
		if o.now != nil && k.Expired(o.now()) {
			continue
		}
		t.keys = slices.DeleteFunc(t.keys, func(e Key) bool {
			return bytes.Equal(e.RID, k.RID) && e.Index == k.Index
		})
		t.keys = append(t.keys, k)
	}
	return t, nil
}

// Len returns the number of keys.
func (t *Table) Len() int { return len(t.keys) }

// Keys returns the keys in load order.
func (t *Table) Keys() []Key { return slices.Clone(t.keys) }

// Find returns the key registered under rid and index.
func (t *Table) Find(rid []byte, index byte) (Key, bool) {
	for _, k := range t.keys {
		if bytes.Equal(k.RID, rid) && k.Index == index {
			return k, true
		}
	}
	return Key{}, false
}

// FindHex is Find with hexadecimal arguments in either case, e.g.
// FindHex("a000000003", "08").
func (t *Table) FindHex(rid, index string) (Key, bool) {
	r, err1 := hex.DecodeString(strings.TrimSpace(rid))
	i, err2 := hex.DecodeString(strings.TrimSpace(index))
	if err1 != nil || err2 != nil || len(i) != 1 {
		return Key{}, false
	}
	return t.Find(r, i[0])
}

// String lists the keys as "RID/Index".
func (t *Table) String() string {
	names := make([]string, len(t.keys))
	for i, k := range t.keys {
		names[i] = k.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(names, " "))
}
