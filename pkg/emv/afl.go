package emv

import "fmt"

// APPLICATION FILE LOCATOR (Tag '94', EMV Book 3, 10.2):
// Four bytes per file:
//   byte 1: b8-b4 SFI, b3-b1 RFU
//   byte 2: first record number
//   byte 3: last record number
//   byte 4: number of records, from the first one, that take part in
//           offline data authentication

// AFLEntry locates a range of records in one file.
type AFLEntry struct {
	SFI          byte
	First        byte
	Last         byte
	OfflineCount byte
}

// ParseAFL decodes an AFL. Some cards append two trailing bytes; a buffer
// whose length is neither a multiple of four nor a multiple of four plus two
// decodes to no entry.
func ParseAFL(b []byte) []AFLEntry {
	if r := len(b) % 4; r != 0 && r != 2 {
		return nil
	}

	entries := make([]AFLEntry, 0, len(b)/4)
	for i := 0; i+4 <= len(b); i += 4 {
		entries = append(entries, AFLEntry{
			SFI:          b[i] >> 3,
			First:        b[i+1],
			Last:         b[i+2],
			OfflineCount: b[i+3],
		})
	}
	return entries
}

// Records lists the record numbers of the entry. An entry whose last record
// precedes its first one lists nothing.
func (e AFLEntry) Records() []byte {
	if e.First == 0 || e.Last < e.First {
		return nil
	}
	recs := make([]byte, 0, int(e.Last-e.First)+1)
	for r := int(e.First); r <= int(e.Last); r++ {
		recs = append(recs, byte(r))
	}
	return recs
}

// IsOffline reports whether record takes part in offline data authentication.
func (e AFLEntry) IsOffline(record byte) bool {
	return record >= e.First && int(record) < int(e.First)+int(e.OfflineCount)
}

func (e AFLEntry) String() string {
	return fmt.Sprintf("SFI %d records %d-%d (%d for ODA)", e.SFI, e.First, e.Last, e.OfflineCount)
}
