package emv

import (
	"fmt"
	"slices"
)

// APPLICATION PRIORITY INDICATOR (Tag '87', EMV Book 1 Table 48):
//   b8:    1 = application cannot be selected without cardholder confirmation
//   b7-b5: RFU
//   b4-b1: priority, 1 is the highest. 0 means no priority assigned.

// Candidate is an application the terminal may select.
type Candidate struct {
	AID      []byte
	Label    string
	Priority uint8
}

// Rank returns the selection order of the candidate. Candidates without an
// assigned priority rank after every prioritized one.
func (c Candidate) Rank() int {
	if p := int(c.Priority & 0x0F); p != 0 {
		return p
	}
	return 0x10
}

func (c Candidate) String() string {
	return fmt.Sprintf("%X (%q, priority %d)", c.AID, c.Label, c.Priority&0x0F)
}

// Candidate converts a directory entry.
func (a ApplicationTemplate) Candidate() Candidate {
	label := a.ApplicationLabel
	if len(label) == 0 {
		label = a.ApplicationPreferredName
	}
	return Candidate{AID: a.AID, Label: string(label), Priority: a.ApplicationPriorityIndicator}
}

// NewCandidateList builds the ordered candidate list from directory entries.
// Entries without an AID (nested DDFs) are skipped. The sort is stable so
// candidates of equal rank keep the order in which the card listed them.
func NewCandidateList(apps []ApplicationTemplate) []Candidate {
	list := make([]Candidate, 0, len(apps))
	for _, a := range apps {
		if len(a.AID) == 0 {
			continue
		}
		list = append(list, a.Candidate())
	}

	slices.SortStableFunc(list, func(a, b Candidate) int {
		return a.Rank() - b.Rank()
	})
	return list
}
