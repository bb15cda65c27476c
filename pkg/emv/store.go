package emv

import (
	"crypto/rand"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/gregLibert/emv-kernel/pkg/bits"
	"github.com/gregLibert/emv-kernel/pkg/tlv"
)

// TRANSACTION TAG STORE:
// One Store holds every data object of one transaction, keyed by uppercase
// hex tag. Values are last-write-wins. The status registers live beside the
// map and are published under their tags:
//   95   TVR          (only ever gains bits)
//   9B   TSI          (only ever gains bits)
//   9F34 CVM Results
//   9F53 Terminal Interchange Profile

// Register tags.
const (
	TagTVR       tlv.Tag = "95"
	TagTSI       tlv.Tag = "9B"
	TagCVMResult tlv.Tag = "9F34"
	TagTIP       tlv.Tag = "9F53"
)

// Reader capability values of tag '9F6D'.
const (
	ReaderCVMNotRequired byte = 0xC0
	ReaderCVMRequired    byte = 0xC8
)

// defaultTags seeds every transaction before the terminal configuration of
// the selected application is applied.
var defaultTags = map[tlv.Tag]string{
	"9F35": "22",
	"9F6E": "D8004000",
	"9F66": "23C00000",
	"9F02": "000000000001",
	"9F03": "000000000000",
	"9F1A": "0840",
	"5F2A": "0840",
	"9C":   "00",
	"9F40": "E0C8E06400",
	"9F1D": "A980800000",
	"9F33": "8028C8",
	"9F4E": "000000",
	"9F6D": "C0",
	"DF19": "000000000000",
	"DF21": "000000010000",
}

// Application Interchange Profile (Tag '82') capabilities.
var (
	AIPSDA                    = bits.Flag{Byte: 1, Bit: 7}
	AIPDDA                    = bits.Flag{Byte: 1, Bit: 6}
	AIPCardholderVerification = bits.Flag{Byte: 1, Bit: 5}
	AIPTerminalRisk           = bits.Flag{Byte: 1, Bit: 4}
	AIPIssuerAuth             = bits.Flag{Byte: 1, Bit: 3}
	AIPCDA                    = bits.Flag{Byte: 1, Bit: 1}
)

// Store is the transaction tag store. It is not safe for concurrent use.
type Store struct {
	tags map[tlv.Tag][]byte

	tvr TVR
	tsi TSI
	tip TIP
	cvm CVMResult

	// records named by the AFL for offline data authentication
	static []byte

	now  func() time.Time
	rand io.Reader
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the source of the transaction date and time.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithRandom sets the source of the unpredictable number.
func WithRandom(r io.Reader) StoreOption {
	return func(s *Store) { s.rand = r }
}

// NewStore returns a store already reset for a first transaction.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{now: time.Now, rand: rand.Reader}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset clears the store and the registers, seeds the default tags and
// draws a new date, time and unpredictable number.
func (s *Store) Reset() error {
	s.tags = make(map[tlv.Tag][]byte, 64)
	for tag, v := range defaultTags {
		s.tags[tag] = tlv.Hex(v)
	}

	s.tvr = TVR{}
	s.tsi = TSI{}
	s.tip = DefaultTIP
	s.cvm = CVMResult{}
	s.static = nil

	t := s.now()
	s.tags["9A"] = []byte{toBCD(t.Year() % 100), toBCD(int(t.Month())), toBCD(t.Day())}
	s.tags["9F21"] = []byte{toBCD(t.Hour()), toBCD(t.Minute()), toBCD(t.Second())}

	un := make([]byte, 4)
	s.tags["9F37"] = un
	if _, err := io.ReadFull(s.rand, un); err != nil {
		return fmt.Errorf("unpredictable number: %w", err)
	}

	s.checkCVMLimit()
	return nil
}

// Get returns a copy of the value of tag.
func (s *Store) Get(tag tlv.Tag) ([]byte, bool) {
	tag = tlv.NewTag(string(tag))
	switch tag {
	case TagTVR:
		return s.tvr.Bytes(), true
	case TagTSI:
		return s.tsi.Bytes(), true
	case TagCVMResult:
		return s.cvm.Bytes(), true
	case TagTIP:
		return s.tip.Bytes(), true
	}
	v, ok := s.tags[tag]
	if !ok {
		return nil, false
	}
	return append([]byte{}, v...), true
}

// Value returns the value of tag, or nil when absent.
func (s *Store) Value(tag tlv.Tag) []byte {
	v, _ := s.Get(tag)
	return v
}

// Has reports whether tag holds a value.
func (s *Store) Has(tag tlv.Tag) bool {
	_, ok := s.Get(tag)
	return ok
}

// Set stores a copy of v under tag. Writing TVR or TSI only adds bits to
// the register.
func (s *Store) Set(tag tlv.Tag, v []byte) {
	tag = tlv.NewTag(string(tag))
	switch tag {
	case TagTVR:
		orInto(s.tvr[:], v)
		return
	case TagTSI:
		orInto(s.tsi[:], v)
		return
	case TagCVMResult:
		s.cvm = CVMResult{}
		copy(s.cvm[:], v)
		return
	case TagTIP:
		s.tip = TIP{}
		copy(s.tip[:], v)
		return
	}

	s.tags[tag] = append([]byte{}, v...)

	switch tag {
	case "9F02", "DF21", "9F6D":
		s.checkCVMLimit()
	}
}

// Merge stores every primitive data object of list.
func (s *Store) Merge(list tlv.List) {
	for _, n := range list.Primitives() {
		s.Set(n.Tag, n.Value)
	}
}

// Snapshot returns a copy of every tag, registers included.
func (s *Store) Snapshot() map[string][]byte {
	out := make(map[string][]byte, len(s.tags)+4)
	for tag, v := range s.tags {
		out[string(tag)] = append([]byte{}, v...)
	}
	out[string(TagTVR)] = s.tvr.Bytes()
	out[string(TagTSI)] = s.tsi.Bytes()
	out[string(TagCVMResult)] = s.cvm.Bytes()
	out[string(TagTIP)] = s.tip.Bytes()
	return out
}

// Tags returns the tags currently held, registers excluded.
func (s *Store) Tags() []tlv.Tag {
	return slices.Sorted(maps.Keys(s.tags))
}

// AddRecord merges the data objects of a record read from file sfi. When
// the record takes part in offline data authentication it is appended to the
// static data: for SFI 1 to 10 the value of the Record Template ('70'),
// for other files the whole record.
func (s *Store) AddRecord(sfi byte, record []byte, offline bool) error {
	list, err := tlv.Parse(record)
	if err != nil {
		return fmt.Errorf("record SFI %d: %w", sfi, err)
	}
	s.Merge(list)

	if !offline {
		return nil
	}
	if sfi <= 10 && len(list) > 0 && list[0].Tag == "70" {
		s.static = append(s.static, list[0].Value...)
	} else {
		s.static = append(s.static, record...)
	}
	return nil
}

// StaticData returns the static data to be authenticated: the offline
// records followed by the values of the tags listed in the Static Data
// Authentication Tag List ('9F4A').
func (s *Store) StaticData() []byte {
	out := append([]byte{}, s.static...)
	list := s.tags["9F4A"]
	for i := 0; i < len(list); {
		tag, n, err := tlv.ParseTag(list[i:])
		if err != nil {
			break
		}
		out = append(out, s.Value(tag)...)
		i += n
	}
	return out
}

// TVR returns the Terminal Verification Results.
func (s *Store) TVR() TVR { return s.tvr }

// TSI returns the Transaction Status Information.
func (s *Store) TSI() TSI { return s.tsi }

// TIP returns the Terminal Interchange Profile.
func (s *Store) TIP() TIP { return s.tip }

// CVMResult returns the CVM Results.
func (s *Store) CVMResult() CVMResult { return s.cvm }

// SetTVR raises a TVR flag.
func (s *Store) SetTVR(f bits.Flag) { s.tvr.Set(f) }

// SetTSI raises a TSI flag.
func (s *Store) SetTSI(f bits.Flag) { s.tsi.Set(f) }

// SetCVMResult records the outcome of cardholder verification.
func (s *Store) SetCVMResult(r CVMResult) { s.cvm = r }

// AID returns the selected application identifier ('4F', else the DF Name '84').
func (s *Store) AID() []byte {
	if v := s.Value("4F"); len(v) > 0 {
		return v
	}
	return s.Value("84")
}

// PAN returns the Application Primary Account Number ('5A').
func (s *Store) PAN() []byte { return s.Value("5A") }

// AIP returns the Application Interchange Profile ('82').
func (s *Store) AIP() []byte { return s.Value("82") }

// Supports reports whether the AIP announces capability f.
func (s *Store) Supports(f bits.Flag) bool { return f.IsSetIn(s.tags["82"]) }

// SupportsODA reports whether the card announces any offline data authentication.
func (s *Store) SupportsODA() bool {
	return s.Supports(AIPSDA) || s.Supports(AIPDDA) || s.Supports(AIPCDA)
}

// Amount returns the Amount, Authorised ('9F02').
func (s *Store) Amount() uint64 { return s.bcd("9F02") }

// CVMLimit returns the reader CVM required limit ('DF21').
func (s *Store) CVMLimit() uint64 { return s.bcd("DF21") }

// FloorLimit returns the reader contactless floor limit ('DF19').
func (s *Store) FloorLimit() uint64 { return s.bcd("DF19") }

// TransactionLimit returns the reader contactless transaction limit
// ('DF20') and whether one is configured.
func (s *Store) TransactionLimit() (uint64, bool) {
	if !s.Has("DF20") {
		return 0, false
	}
	return s.bcd("DF20"), true
}

// CVMLimitExceeded reports whether the amount is above the CVM required limit.
func (s *Store) CVMLimitExceeded() bool {
	return s.Amount() > s.CVMLimit()
}

func (s *Store) checkCVMLimit() {
	if !s.CVMLimitExceeded() {
		return
	}
	s.tags["9F6D"] = []byte{ReaderCVMRequired}
	s.tip.Set(TIPCVMRequired)
}

func (s *Store) bcd(tag tlv.Tag) uint64 {
	n, err := ParseBCD(s.tags[tag])
	if err != nil {
		return 0
	}
	return n
}

// ParseBCD decodes an unsigned packed BCD number.
func ParseBCD(b []byte) (uint64, error) {
	var n uint64
	for _, x := range b {
		hi, lo := x>>4, x&0x0F
		if hi > 9 || lo > 9 {
			return 0, fmt.Errorf("invalid BCD byte %02X", x)
		}
		n = n*100 + uint64(hi)*10 + uint64(lo)
	}
	return n, nil
}

// FormatBCD encodes n as packed BCD on size bytes, keeping the rightmost digits.
func FormatBCD(n uint64, size int) []byte {
	out := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		out[i] = toBCD(int(n % 100))
		n /= 100
	}
	return out
}

func toBCD(n int) byte {
	return byte(n/10)<<4 | byte(n%10)
}

func orInto(dst, src []byte) {
	for i := 0; i < len(dst) && i < len(src); i++ {
		dst[i] |= src[i]
	}
}
